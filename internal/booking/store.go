package booking

import (
	"context"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// Store is the persistence boundary of the engine.  InTx runs fn
// inside a single transaction: if fn returns an error every write
// made through the Tx is rolled back, so no partial spot/ledger/
// reservation mutation ever survives a failed operation.  The SQL
// implementation lives in internal/repository; tests supply an
// in-memory fake.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
}

// Tx exposes the queries and writes the engine needs within one
// transaction.  Lookup methods return ErrNotFound when the row does
// not exist.  ReservationForUpdate and LedgerForUpdate must lock the
// underlying row for the duration of the transaction so that
// concurrent reserve calls for the same lot/date, or concurrent
// transitions on the same reservation, are serialized.
type Tx interface {
	// Lots.
	LotByID(ctx context.Context, lotID uint64) (model.ParkingLot, error)
	LotBySpot(ctx context.Context, spotID uint64) (model.ParkingLot, error)
	CreateLot(ctx context.Context, lot *model.ParkingLot) error
	UpdateLot(ctx context.Context, lot *model.ParkingLot) error
	// DeleteLotCascade removes the lot together with its spots,
	// terminal reservations and ledger rows.
	DeleteLotCascade(ctx context.Context, lotID uint64) error

	// Spots, ordered by spot number ascending.
	SpotsByLot(ctx context.Context, lotID uint64) ([]model.ParkingSpot, error)
	SpotByID(ctx context.Context, spotID uint64) (model.ParkingSpot, error)
	CreateSpot(ctx context.Context, lotID uint64, spotNo int) error
	DeleteSpot(ctx context.Context, spotID uint64) error
	SetSpotStatus(ctx context.Context, spotID uint64, status string) error

	// Reservations.
	ReservationForUpdate(ctx context.Context, id uint64) (model.Reservation, error)
	CreateReservation(ctx context.Context, res *model.Reservation) error
	UpdateReservation(ctx context.Context, res *model.Reservation) error
	// ReservedSpotIDs returns the spot IDs of the lot holding an
	// Upcoming or Active reservation on the given date.
	ReservedSpotIDs(ctx context.Context, lotID uint64, date time.Time) (map[uint64]bool, error)
	// CountReservationsBySpot returns how many reservations reference
	// the spot in total and how many of those are non-terminal.
	CountReservationsBySpot(ctx context.Context, spotID uint64) (total, live int, err error)
	// SpotHasActive reports whether an Active reservation other than
	// excludeID references the spot.  At most one reservation may hold
	// a spot Occupied at a time.
	SpotHasActive(ctx context.Context, spotID, excludeID uint64) (bool, error)
	CountNonTerminalByLot(ctx context.Context, lotID uint64) (int, error)
	ListReservations(ctx context.Context, f Filter) ([]model.Reservation, error)

	// Booking ledger.  Ledger returns 0 for an absent row.
	// LedgerForUpdate materializes the row when absent and takes a
	// record lock on it so concurrent reserves serialize on a real
	// row, never a gap.  IncrementLedger creates the row at 1 when
	// absent; DecrementLedger floors at 0 and decrementing a missing
	// row is a no-op.
	Ledger(ctx context.Context, lotID uint64, date time.Time) (int, error)
	LedgerForUpdate(ctx context.Context, lotID uint64, date time.Time) (int, error)
	IncrementLedger(ctx context.Context, lotID uint64, date time.Time) error
	DecrementLedger(ctx context.Context, lotID uint64, date time.Time) error
}

// Filter narrows ListReservations.  Zero/empty fields are ignored;
// set fields are combined with AND.
type Filter struct {
	UserID uint64
	LotID  uint64
	Status string
}
