package booking

import (
	"math"
	"time"
)

// ComputeCost returns the amount billed for a stay from parkingTime
// to leavingTime at the given hourly rate.  Elapsed wall-clock hours
// are rounded up to the next whole hour and at least one hour is
// always billed.  The result is rounded to two decimals.
//
// This is the single source of truth for billing: checkout stores
// its result on the reservation and reporting code calls it instead
// of re-deriving the rounding rules.
func ComputeCost(parkingTime, leavingTime time.Time, pricePerHr float64) float64 {
	hrs := leavingTime.Sub(parkingTime).Hours()
	if hrs < 0 {
		hrs = 0
	}
	billable := math.Ceil(hrs)
	if billable < 1 {
		billable = 1
	}
	return math.Round(billable*pricePerHr*100) / 100
}

// DateOf truncates an instant to midnight of its calendar day,
// preserving the location.  Ledger rows and availability checks are
// keyed by this value.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
