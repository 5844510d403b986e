package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReservationDetail is a reservation joined with its spot and lot,
// shaped for listing endpoints and the revenue report.
type ReservationDetail struct {
	ID            uint64     `json:"id"`
	LotID         uint64     `json:"lot_id"`
	LotName       string     `json:"lot_name"`
	SpotID        uint64     `json:"spot_id"`
	SpotNo        int        `json:"spot_no"`
	UserID        uint64     `json:"user_id"`
	VehicleNumber string     `json:"vehicle_number"`
	ParkingTime   time.Time  `json:"parking_time"`
	LeavingTime   *time.Time `json:"leaving_time,omitempty"`
	Cost          *float64   `json:"cost,omitempty"`
	Status        string     `json:"status"`
}

// LotRevenue aggregates completed-reservation earnings per lot.
type LotRevenue struct {
	LotID   uint64  `json:"lot_id"`
	LotName string  `json:"lot_name"`
	Count   int     `json:"completed_reservations"`
	Revenue float64 `json:"revenue"`
}

// ReservationRepo serves the read-only listing and reporting queries.
// Lifecycle writes go through the engine and SQLStore.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const detailSelect = `SELECT r.id, l.id, l.name, s.id, s.spot_no, r.user_id,
                             r.vehicle_number, r.parking_time, r.leaving_time, r.cost, r.status
                      FROM reservations r
                      JOIN parking_spots s ON s.id = r.spot_id
                      JOIN parking_lots l ON l.id = s.lot_id`

func (r *ReservationRepo) queryDetails(ctx context.Context, q string, args ...interface{}) ([]ReservationDetail, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ReservationDetail
	for rows.Next() {
		var d ReservationDetail
		var leaving sql.NullTime
		var cost sql.NullFloat64
		if err := rows.Scan(&d.ID, &d.LotID, &d.LotName, &d.SpotID, &d.SpotNo, &d.UserID,
			&d.VehicleNumber, &d.ParkingTime, &leaving, &cost, &d.Status); err != nil {
			return nil, err
		}
		if leaving.Valid {
			d.LeavingTime = &leaving.Time
		}
		if cost.Valid {
			d.Cost = &cost.Float64
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// GetDetail returns one reservation with its spot and lot joined in.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (ReservationDetail, error) {
	list, err := r.queryDetails(ctx, detailSelect+` WHERE r.id = ?`, id)
	if err != nil {
		return ReservationDetail{}, err
	}
	if len(list) == 0 {
		return ReservationDetail{}, sql.ErrNoRows
	}
	return list[0], nil
}

// ListByUser returns the user's reservations, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	return r.queryDetails(ctx, detailSelect+` WHERE r.user_id = ? ORDER BY r.id DESC`, userID)
}

// ListAll returns every reservation, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]ReservationDetail, error) {
	return r.queryDetails(ctx, detailSelect+` ORDER BY r.id DESC`)
}

// HistoryBySpot returns every reservation ever made against a spot.
func (r *ReservationRepo) HistoryBySpot(ctx context.Context, spotID uint64) ([]ReservationDetail, error) {
	return r.queryDetails(ctx, detailSelect+` WHERE s.id = ? ORDER BY r.id DESC`, spotID)
}

// ListCompleted returns completed reservations in chronological order,
// the rows the revenue export walks.
func (r *ReservationRepo) ListCompleted(ctx context.Context) ([]ReservationDetail, error) {
	return r.queryDetails(ctx, detailSelect+` WHERE r.status = 'C' ORDER BY r.leaving_time`)
}

// RevenueByLot sums the stored cost of completed reservations per lot.
// Lots with no completed reservations appear with zero revenue.
func (r *ReservationRepo) RevenueByLot(ctx context.Context) ([]LotRevenue, error) {
	const q = `SELECT l.id, l.name,
	                  COUNT(r.id),
	                  COALESCE(SUM(r.cost), 0)
	           FROM parking_lots l
	           LEFT JOIN parking_spots s ON s.lot_id = l.id
	           LEFT JOIN reservations r ON r.spot_id = s.id AND r.status = 'C'
	           GROUP BY l.id, l.name
	           ORDER BY l.id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LotRevenue
	for rows.Next() {
		var v LotRevenue
		if err := rows.Scan(&v.LotID, &v.LotName, &v.Count, &v.Revenue); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}

// CountByUser returns how many reservations the user has in total and
// how many are still Upcoming or Active.  The admin user listing shows
// these alongside each account.
func (r *ReservationRepo) CountByUser(ctx context.Context, userID uint64) (total, live int, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(status IN ('U','A')), 0)
	           FROM reservations WHERE user_id = ?`
	err = r.DB.QueryRowContext(ctx, q, userID).Scan(&total, &live)
	return total, live, err
}
