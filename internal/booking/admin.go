package booking

import (
	"context"
	"strings"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// LotInput carries the administrative fields of a lot.  The same
// shape is used for create and edit.
type LotInput struct {
	Name       string
	Address    string
	PinCode    string
	PricePerHr float64
	MaxSpots   int
}

func (in *LotInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.PinCode = strings.TrimSpace(in.PinCode)
	if in.Name == "" || in.Address == "" || in.PinCode == "" {
		return ErrInvalidInput
	}
	if in.PricePerHr < 0 || in.MaxSpots < 0 {
		return ErrInvalidInput
	}
	return nil
}

// CreateLot creates the lot row and materializes exactly MaxSpots
// spot rows numbered 1..N, all Available, in one transaction.
func (e *Engine) CreateLot(ctx context.Context, in LotInput) (model.ParkingLot, error) {
	if err := in.validate(); err != nil {
		return model.ParkingLot{}, err
	}
	lot := model.ParkingLot{
		Name:       in.Name,
		Address:    in.Address,
		PinCode:    in.PinCode,
		PricePerHr: in.PricePerHr,
		MaxSpots:   in.MaxSpots,
	}
	err := e.store.InTx(ctx, func(tx Tx) error {
		if err := tx.CreateLot(ctx, &lot); err != nil {
			return err
		}
		for i := 1; i <= lot.MaxSpots; i++ {
			if err := tx.CreateSpot(ctx, lot.ID, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.ParkingLot{}, err
	}
	return lot, nil
}

// EditLot updates the lot fields and grows or shrinks the spot pool
// to match the new capacity.  Growing appends spots continuing the
// numbering.  Shrinking deletes the spots numbered above the new
// capacity, and refuses when any of them is occupied or has ever
// been reserved.
func (e *Engine) EditLot(ctx context.Context, lotID uint64, in LotInput) (model.ParkingLot, error) {
	if err := in.validate(); err != nil {
		return model.ParkingLot{}, err
	}
	var lot model.ParkingLot
	err := e.store.InTx(ctx, func(tx Tx) error {
		var err error
		lot, err = tx.LotByID(ctx, lotID)
		if err != nil {
			return err
		}
		spots, err := tx.SpotsByLot(ctx, lotID)
		if err != nil {
			return err
		}
		switch {
		case in.MaxSpots < len(spots):
			for _, s := range spots {
				if s.SpotNo <= in.MaxSpots {
					continue
				}
				if s.Status == model.SpotOccupied {
					return ErrSpotsOccupied
				}
				total, _, err := tx.CountReservationsBySpot(ctx, s.ID)
				if err != nil {
					return err
				}
				if total > 0 {
					return ErrSpotsOccupied
				}
				if err := tx.DeleteSpot(ctx, s.ID); err != nil {
					return err
				}
			}
		case in.MaxSpots > lot.MaxSpots:
			for i := lot.MaxSpots + 1; i <= in.MaxSpots; i++ {
				if err := tx.CreateSpot(ctx, lotID, i); err != nil {
					return err
				}
			}
		}
		lot.Name = in.Name
		lot.Address = in.Address
		lot.PinCode = in.PinCode
		lot.PricePerHr = in.PricePerHr
		lot.MaxSpots = in.MaxSpots
		return tx.UpdateLot(ctx, &lot)
	})
	if err != nil {
		return model.ParkingLot{}, err
	}
	return lot, nil
}

// DeleteLot removes a lot and cascades to its spots, terminal
// reservations and ledger rows.  It refuses while any spot is
// occupied or any reservation against the lot is still Upcoming or
// Active.
func (e *Engine) DeleteLot(ctx context.Context, lotID uint64) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		if _, err := tx.LotByID(ctx, lotID); err != nil {
			return err
		}
		spots, err := tx.SpotsByLot(ctx, lotID)
		if err != nil {
			return err
		}
		for _, s := range spots {
			if s.Status == model.SpotOccupied {
				return ErrLotNotEmpty
			}
		}
		live, err := tx.CountNonTerminalByLot(ctx, lotID)
		if err != nil {
			return err
		}
		if live > 0 {
			return ErrLotNotEmpty
		}
		return tx.DeleteLotCascade(ctx, lotID)
	})
}

// AddSpot appends one spot to the lot, numbered after the current
// highest spot, and bumps the lot capacity.  It returns the number
// assigned to the new spot.
func (e *Engine) AddSpot(ctx context.Context, lotID uint64) (int, error) {
	var spotNo int
	err := e.store.InTx(ctx, func(tx Tx) error {
		lot, err := tx.LotByID(ctx, lotID)
		if err != nil {
			return err
		}
		spots, err := tx.SpotsByLot(ctx, lotID)
		if err != nil {
			return err
		}
		maxNo := 0
		for _, s := range spots {
			if s.SpotNo > maxNo {
				maxNo = s.SpotNo
			}
		}
		spotNo = maxNo + 1
		if err := tx.CreateSpot(ctx, lotID, spotNo); err != nil {
			return err
		}
		lot.MaxSpots++
		return tx.UpdateLot(ctx, &lot)
	})
	if err != nil {
		return 0, err
	}
	return spotNo, nil
}

// RemoveSpot deletes a single spot and decrements the lot capacity.
// The spot must be Available and must never have been reserved.
func (e *Engine) RemoveSpot(ctx context.Context, spotID uint64) error {
	return e.store.InTx(ctx, func(tx Tx) error {
		s, err := tx.SpotByID(ctx, spotID)
		if err != nil {
			return err
		}
		if s.Status != model.SpotAvailable {
			return ErrSpotsOccupied
		}
		total, _, err := tx.CountReservationsBySpot(ctx, spotID)
		if err != nil {
			return err
		}
		if total > 0 {
			return ErrSpotsOccupied
		}
		lot, err := tx.LotByID(ctx, s.LotID)
		if err != nil {
			return err
		}
		if err := tx.DeleteSpot(ctx, spotID); err != nil {
			return err
		}
		if lot.MaxSpots > 0 {
			lot.MaxSpots--
		}
		return tx.UpdateLot(ctx, &lot)
	})
}
