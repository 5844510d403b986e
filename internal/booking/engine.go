package booking

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// Engine owns the reservation lifecycle.  Every operation runs in a
// single store transaction: the capacity check, spot selection,
// reservation write and ledger update of Reserve commit or roll back
// together, and the same holds for each lifecycle transition.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine returns an Engine backed by the given store.
func NewEngine(store Store) *Engine {
	if store == nil {
		panic("nil store passed to NewEngine")
	}
	return &Engine{store: store, now: time.Now}
}

// Availability summarizes a lot for one date: total spot count and
// how many spots the ledger still considers free.
type Availability struct {
	TotalSpots     int `json:"total_spots"`
	AvailableSpots int `json:"available_spots"`
}

// Reserve claims a spot in the lot for the given calendar date on
// behalf of userID.  The ledger counter is only the fast-path
// rejection; the per-spot reservation scan decides which spot is
// actually free.  The lowest-numbered free spot wins so assignment
// is deterministic.  The created reservation is Upcoming with
// ParkingTime at midnight of the requested date; the real arrival
// instant is set later at check-in.
func (e *Engine) Reserve(ctx context.Context, lotID, userID uint64, day time.Time, vehicleNumber string) (model.Reservation, error) {
	vehicleNumber = strings.TrimSpace(vehicleNumber)
	if lotID == 0 || userID == 0 || vehicleNumber == "" {
		return model.Reservation{}, ErrInvalidInput
	}
	day = DateOf(day)
	if day.Before(DateOf(e.now())) {
		return model.Reservation{}, ErrInvalidDate
	}

	var res model.Reservation
	err := e.store.InTx(ctx, func(tx Tx) error {
		lot, err := tx.LotByID(ctx, lotID)
		if err != nil {
			return err
		}
		// Lock the ledger row first: this is the serialization point
		// for concurrent reserves on the same lot/date.
		booked, err := tx.LedgerForUpdate(ctx, lotID, day)
		if err != nil {
			return err
		}
		if booked >= lot.MaxSpots {
			return ErrCapacityExceeded
		}
		spots, err := tx.SpotsByLot(ctx, lotID)
		if err != nil {
			return err
		}
		reserved, err := tx.ReservedSpotIDs(ctx, lotID, day)
		if err != nil {
			return err
		}
		var chosen *model.ParkingSpot
		for i := range spots {
			if !reserved[spots[i].ID] {
				chosen = &spots[i]
				break
			}
		}
		if chosen == nil {
			// Ledger said there was room but every spot has a live
			// reservation: the spot scan is authoritative.
			return ErrCapacityExceeded
		}
		res = model.Reservation{
			SpotID:        chosen.ID,
			UserID:        userID,
			VehicleNumber: vehicleNumber,
			ParkingTime:   day,
			Status:        model.StatusUpcoming,
		}
		if err := tx.CreateReservation(ctx, &res); err != nil {
			return err
		}
		return tx.IncrementLedger(ctx, lotID, day)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// CheckIn marks arrival.  Upcoming reservations become Active with
// ParkingTime overwritten by the arrival instant and the spot marked
// Occupied; a spot held Active by another reservation refuses the
// check-in.  When the arrival lands on a different date than the
// booking, the ledger slot moves with it so the requested date's
// capacity is released.  Checking in an already Active reservation is
// a no-op that re-asserts spot occupancy; any other state fails.
func (e *Engine) CheckIn(ctx context.Context, reservationID, callerID uint64, isAdmin bool) (model.Reservation, error) {
	var res model.Reservation
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		res, err = tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID != callerID && !isAdmin {
			return ErrForbidden
		}
		switch res.Status {
		case model.StatusUpcoming:
			occupied, err := tx.SpotHasActive(ctx, res.SpotID, res.ID)
			if err != nil {
				return err
			}
			if occupied {
				return ErrSpotsOccupied
			}
			arrival := e.now()
			if requested, today := DateOf(res.ParkingTime), DateOf(arrival); !today.Equal(requested) {
				lot, err := tx.LotBySpot(ctx, res.SpotID)
				if err != nil {
					return err
				}
				if err := tx.DecrementLedger(ctx, lot.ID, requested); err != nil {
					return err
				}
				if err := tx.IncrementLedger(ctx, lot.ID, today); err != nil {
					return err
				}
			}
			res.ParkingTime = arrival
			res.Status = model.StatusActive
			if err := tx.UpdateReservation(ctx, &res); err != nil {
				return err
			}
		case model.StatusActive:
			// re-entrant check-in: leave the row alone
		default:
			return ErrInvalidTransition
		}
		return tx.SetSpotStatus(ctx, res.SpotID, model.SpotOccupied)
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// CheckOut marks departure: the reservation must be Active.  It sets
// LeavingTime, bills via ComputeCost, completes the reservation,
// frees the spot and releases the ledger slot for the arrival date.
func (e *Engine) CheckOut(ctx context.Context, reservationID, callerID uint64, isAdmin bool) (model.Reservation, error) {
	var res model.Reservation
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		res, err = tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID != callerID && !isAdmin {
			return ErrForbidden
		}
		if res.Status != model.StatusActive {
			return ErrInvalidTransition
		}
		lot, err := tx.LotBySpot(ctx, res.SpotID)
		if err != nil {
			return err
		}
		now := e.now()
		cost := ComputeCost(res.ParkingTime, now, lot.PricePerHr)
		res.LeavingTime = &now
		res.Cost = &cost
		res.Status = model.StatusCompleted
		if err := tx.UpdateReservation(ctx, &res); err != nil {
			return err
		}
		if err := tx.SetSpotStatus(ctx, res.SpotID, model.SpotAvailable); err != nil {
			return err
		}
		return tx.DecrementLedger(ctx, lot.ID, DateOf(res.ParkingTime))
	})
	if err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

// Cancel aborts an Upcoming or Active reservation.  The cost is
// cleared and the ledger slot released; the spot is freed only when
// no other Active reservation holds it, so cancelling a future
// booking never frees a spot someone is parked on.  Cancelling a
// reservation already in a terminal state fails rather than silently
// succeeding.
func (e *Engine) Cancel(ctx context.Context, reservationID, callerID uint64, isAdmin bool) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		res, err := tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if res.UserID != callerID && !isAdmin {
			return ErrForbidden
		}
		if res.Terminal() {
			return ErrInvalidTransition
		}
		lot, err := tx.LotBySpot(ctx, res.SpotID)
		if err != nil {
			return err
		}
		res.Status = model.StatusCancelled
		res.Cost = nil
		if err := tx.UpdateReservation(ctx, &res); err != nil {
			return err
		}
		occupied, err := tx.SpotHasActive(ctx, res.SpotID, res.ID)
		if err != nil {
			return err
		}
		if !occupied {
			if err := tx.SetSpotStatus(ctx, res.SpotID, model.SpotAvailable); err != nil {
				return err
			}
		}
		return tx.DecrementLedger(ctx, lot.ID, DateOf(res.ParkingTime))
	})
}

// ListAvailability reports the lot's total spot count and how many
// spots remain free for the date according to the ledger.
func (e *Engine) ListAvailability(ctx context.Context, lotID uint64, day time.Time) (Availability, error) {
	if lotID == 0 {
		return Availability{}, ErrInvalidInput
	}
	day = DateOf(day)
	var avail Availability
	err := e.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.LotByID(ctx, lotID); err != nil {
			return err
		}
		spots, err := tx.SpotsByLot(ctx, lotID)
		if err != nil {
			return err
		}
		booked, err := tx.Ledger(ctx, lotID, day)
		if err != nil {
			return err
		}
		avail.TotalSpots = len(spots)
		avail.AvailableSpots = len(spots) - booked
		if avail.AvailableSpots < 0 {
			avail.AvailableSpots = 0
		}
		return nil
	})
	if err != nil {
		return Availability{}, err
	}
	return avail, nil
}

// ListReservations returns reservations matching the filter.
func (e *Engine) ListReservations(ctx context.Context, f Filter) ([]model.Reservation, error) {
	var out []model.Reservation
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		out, err = tx.ListReservations(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
