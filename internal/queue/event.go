// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried on the reservation.events queue.
const (
	KindBooked = "reservation.booked"
	KindClosed = "reservation.closed"
)

// ReservationEvent is published when a reservation is created and again
// when it reaches a terminal state.  It carries enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type ReservationEvent struct {
	Kind          string  `json:"kind"`
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	LotID         uint64  `json:"lot_id"`
	LotName       string  `json:"lot_name"`
	SpotID        uint64  `json:"spot_id"`
	SpotNo        int     `json:"spot_no"`
	VehicleNumber string  `json:"vehicle_number"`
	Status        string  `json:"status"`
	Cost          float64 `json:"cost,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}
