package model

import "time"

// Spot status values stored in parking_spots.status.  A spot is
// Occupied exactly while some reservation referencing it is active;
// every other time it is Available.
const (
	SpotAvailable = "A"
	SpotOccupied  = "O"
)

// ParkingSpot is one parking space inside a lot.  Spots are numbered
// 1..N within their lot and the (lot_id, spot_no) pair is unique.
// Only the reservation engine flips the status flag (check-in marks
// Occupied, checkout/cancel marks Available); administrative add and
// remove are the only other mutations.
//
// Fields:
//  ID        – primary key identifier.
//  LotID     – owning lot.
//  SpotNo    – number of the spot within its lot (unique per lot).
//  Status    – SpotAvailable or SpotOccupied.
//  CreatedAt – timestamp when the spot was created.
type ParkingSpot struct {
	ID        uint64    // parking_spots.id
	LotID     uint64    // parking_spots.lot_id
	SpotNo    int       // parking_spots.spot_no
	Status    string    // parking_spots.status
	CreatedAt time.Time // parking_spots.created_at
}
