package model

import "time"

// ParkingLot represents a physical parking facility with a fixed
// number of spots and a flat hourly price.  Each lot owns its spots:
// creating a lot materializes exactly MaxSpots ParkingSpot rows and
// the invariant MaxSpots == count(spots of lot) holds outside of an
// in-flight capacity edit.  This struct corresponds to a row in the
// `parking_lots` table.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the lot (e.g. "Downtown Parking").
//  Address    – street address.
//  PinCode    – postal code of the address.
//  PricePerHr – non-negative hourly rate billed on checkout.
//  MaxSpots   – total spot capacity of the lot.
//  CreatedAt  – timestamp when the lot was created.
type ParkingLot struct {
	ID         uint64    // parking_lots.id
	Name       string    // parking_lots.name
	Address    string    // parking_lots.address
	PinCode    string    // parking_lots.pin_code
	PricePerHr float64   // parking_lots.price_per_hr
	MaxSpots   int       // parking_lots.max_spots
	CreatedAt  time.Time // parking_lots.created_at
}
