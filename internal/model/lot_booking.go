package model

import "time"

// LotBooking is the per-(lot, calendar date) ledger row caching how
// many spots are committed for that date.  It exists purely as an
// O(1) capacity pre-check: the authoritative answer for "is spot X
// free on date Y" is always the per-spot reservation scan.  Rows are
// created lazily on the first booking for a pair, incremented on
// reservation creation and decremented on cancellation or checkout;
// a row may reach zero and persist.
//
// Invariants: unique per (lot_id, booking_date);
// 0 <= spots_booked <= lot.max_spots; spots_booked equals the count
// of Upcoming/Active reservations on that lot and date.
//
// Fields:
//  ID          – primary key identifier.
//  LotID       – lot the counter belongs to.
//  BookingDate – calendar date (stored as DATE, midnight UTC here).
//  SpotsBooked – number of spots committed for the date.
type LotBooking struct {
	ID          uint64    // lot_bookings.id
	LotID       uint64    // lot_bookings.lot_id
	BookingDate time.Time // lot_bookings.booking_date
	SpotsBooked int       // lot_bookings.spots_booked
}
