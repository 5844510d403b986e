package model

import "time"

// Reservation status values stored in reservations.status.  A
// reservation starts Upcoming when a spot is claimed for a date,
// becomes Active on check-in, and ends Completed on checkout or
// Cancelled.  Completed and Cancelled are terminal; no transition
// leaves them.
const (
	StatusUpcoming  = "U"
	StatusActive    = "A"
	StatusCompleted = "C"
	StatusCancelled = "X"
)

// Reservation records a user's claim on one spot for one calendar
// date.  ParkingTime initially holds midnight of the requested date;
// check-in overwrites it with the actual arrival instant, and
// checkout bills from that instant.  Cost and LeavingTime stay nil
// until checkout (Cost stays nil forever for cancelled rows).
//
// Fields:
//  ID            – primary key identifier.
//  SpotID        – spot claimed by this reservation.
//  UserID        – user who made the reservation.
//  VehicleNumber – licence plate supplied at booking time.
//  ParkingTime   – requested slot start, replaced by arrival on check-in.
//  LeavingTime   – checkout instant (nil until checkout).
//  Cost          – billed amount computed at checkout (nil until then).
//  Status        – one of the Status* constants above.
//  CreatedAt     – timestamp when the row was created.
type Reservation struct {
	ID            uint64     // reservations.id
	SpotID        uint64     // reservations.spot_id
	UserID        uint64     // reservations.user_id
	VehicleNumber string     // reservations.vehicle_number
	ParkingTime   time.Time  // reservations.parking_time
	LeavingTime   *time.Time // reservations.leaving_time (nullable)
	Cost          *float64   // reservations.cost (nullable)
	Status        string     // reservations.status
	CreatedAt     time.Time  // reservations.created_at
}

// Terminal reports whether the reservation has reached a final state.
func (r *Reservation) Terminal() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}
