package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/vehicle-parking/internal/booking"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// LotRepo serves the read-only browse paths that do not need a
// transaction: lot listing, search and single-lot lookup.  All writes
// to lots go through the engine and SQLStore.
type LotRepo struct{ DB *sql.DB }

func NewLotRepo(db *sql.DB) *LotRepo { return &LotRepo{DB: db} }

// List returns lots matching the search term against name, address or
// pin code.  An empty term returns every lot.
func (r *LotRepo) List(ctx context.Context, search string) ([]model.ParkingLot, error) {
	q := `SELECT id, name, address, pin_code, price_per_hr, max_spots, created_at
	      FROM parking_lots`
	var args []interface{}
	search = strings.TrimSpace(search)
	if search != "" {
		q += ` WHERE name LIKE ? OR address LIKE ? OR pin_code LIKE ?`
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	q += ` ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ParkingLot
	for rows.Next() {
		var lot model.ParkingLot
		if err := rows.Scan(&lot.ID, &lot.Name, &lot.Address, &lot.PinCode, &lot.PricePerHr, &lot.MaxSpots, &lot.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, lot)
	}
	return result, rows.Err()
}

// GetByID fetches a lot by id.
func (r *LotRepo) GetByID(ctx context.Context, id uint64) (model.ParkingLot, error) {
	const q = `SELECT id, name, address, pin_code, price_per_hr, max_spots, created_at
	           FROM parking_lots WHERE id = ?`
	var lot model.ParkingLot
	err := r.DB.QueryRowContext(ctx, q, id).
		Scan(&lot.ID, &lot.Name, &lot.Address, &lot.PinCode, &lot.PricePerHr, &lot.MaxSpots, &lot.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ParkingLot{}, booking.ErrNotFound
	}
	return lot, err
}

// SpotsByLot returns the lot's spots ordered by spot number.
func (r *LotRepo) SpotsByLot(ctx context.Context, lotID uint64) ([]model.ParkingSpot, error) {
	const q = `SELECT id, lot_id, spot_no, status, created_at
	           FROM parking_spots WHERE lot_id = ? ORDER BY spot_no`
	rows, err := r.DB.QueryContext(ctx, q, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ParkingSpot
	for rows.Next() {
		var s model.ParkingSpot
		if err := rows.Scan(&s.ID, &s.LotID, &s.SpotNo, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
