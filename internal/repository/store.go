package repository // repository defines data access for the parking domain

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/booking"
	"github.com/iliyamo/vehicle-parking/internal/model"
)

// SQLStore adapts *sql.DB to the booking.Store interface.  Each InTx
// call is one database transaction; the reserve path relies on the
// lot_bookings row lock taken by LedgerForUpdate to serialize
// concurrent bookings for the same lot and date.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore constructs a SQLStore with the given DB handle.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// InTx begins a transaction, runs fn against it and commits.  Any
// error from fn rolls the whole transaction back and is returned
// unchanged so callers can match the booking sentinels.
func (s *SQLStore) InTx(ctx context.Context, fn func(booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// sqlTx implements booking.Tx on top of a live *sql.Tx.
type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) LotByID(ctx context.Context, lotID uint64) (model.ParkingLot, error) {
	const q = `SELECT id, name, address, pin_code, price_per_hr, max_spots, created_at
	           FROM parking_lots WHERE id = ?`
	var lot model.ParkingLot
	err := t.tx.QueryRowContext(ctx, q, lotID).
		Scan(&lot.ID, &lot.Name, &lot.Address, &lot.PinCode, &lot.PricePerHr, &lot.MaxSpots, &lot.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ParkingLot{}, booking.ErrNotFound
	}
	return lot, err
}

func (t *sqlTx) LotBySpot(ctx context.Context, spotID uint64) (model.ParkingLot, error) {
	const q = `SELECT l.id, l.name, l.address, l.pin_code, l.price_per_hr, l.max_spots, l.created_at
	           FROM parking_lots l
	           JOIN parking_spots s ON s.lot_id = l.id
	           WHERE s.id = ?`
	var lot model.ParkingLot
	err := t.tx.QueryRowContext(ctx, q, spotID).
		Scan(&lot.ID, &lot.Name, &lot.Address, &lot.PinCode, &lot.PricePerHr, &lot.MaxSpots, &lot.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ParkingLot{}, booking.ErrNotFound
	}
	return lot, err
}

func (t *sqlTx) CreateLot(ctx context.Context, lot *model.ParkingLot) error {
	const q = `INSERT INTO parking_lots (name, address, pin_code, price_per_hr, max_spots)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, lot.Name, lot.Address, lot.PinCode, lot.PricePerHr, lot.MaxSpots)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	lot.ID = uint64(id)
	return nil
}

func (t *sqlTx) UpdateLot(ctx context.Context, lot *model.ParkingLot) error {
	const q = `UPDATE parking_lots
	           SET name = ?, address = ?, pin_code = ?, price_per_hr = ?, max_spots = ?
	           WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, lot.Name, lot.Address, lot.PinCode, lot.PricePerHr, lot.MaxSpots, lot.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

// DeleteLotCascade removes the lot and everything hanging off it:
// reservations against its spots, the spots themselves and the
// booking ledger rows.
func (t *sqlTx) DeleteLotCascade(ctx context.Context, lotID uint64) error {
	const delReservations = `DELETE r FROM reservations r
	                         JOIN parking_spots s ON s.id = r.spot_id
	                         WHERE s.lot_id = ?`
	if _, err := t.tx.ExecContext(ctx, delReservations, lotID); err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM parking_spots WHERE lot_id = ?`, lotID); err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM lot_bookings WHERE lot_id = ?`, lotID); err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = ?`, lotID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (t *sqlTx) SpotsByLot(ctx context.Context, lotID uint64) ([]model.ParkingSpot, error) {
	const q = `SELECT id, lot_id, spot_no, status, created_at
	           FROM parking_spots
	           WHERE lot_id = ?
	           ORDER BY spot_no`
	rows, err := t.tx.QueryContext(ctx, q, lotID)
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

func (t *sqlTx) SpotByID(ctx context.Context, spotID uint64) (model.ParkingSpot, error) {
	const q = `SELECT id, lot_id, spot_no, status, created_at
	           FROM parking_spots WHERE id = ?`
	var s model.ParkingSpot
	err := t.tx.QueryRowContext(ctx, q, spotID).
		Scan(&s.ID, &s.LotID, &s.SpotNo, &s.Status, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ParkingSpot{}, booking.ErrNotFound
	}
	return s, err
}

func (t *sqlTx) CreateSpot(ctx context.Context, lotID uint64, spotNo int) error {
	const q = `INSERT INTO parking_spots (lot_id, spot_no, status) VALUES (?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q, lotID, spotNo, model.SpotAvailable)
	return err
}

func (t *sqlTx) DeleteSpot(ctx context.Context, spotID uint64) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM parking_spots WHERE id = ?`, spotID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (t *sqlTx) SetSpotStatus(ctx context.Context, spotID uint64, status string) error {
	const q = `UPDATE parking_spots SET status = ? WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, status, spotID)
	return err
}

// ReservationForUpdate locks the reservation row so concurrent
// transitions on the same reservation serialize.
func (t *sqlTx) ReservationForUpdate(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT id, spot_id, user_id, vehicle_number, parking_time, leaving_time, cost, status, created_at
	           FROM reservations WHERE id = ? FOR UPDATE`
	return t.scanReservation(t.tx.QueryRowContext(ctx, q, id))
}

func (t *sqlTx) scanReservation(row *sql.Row) (model.Reservation, error) {
	var r model.Reservation
	var leaving sql.NullTime
	var cost sql.NullFloat64
	err := row.Scan(&r.ID, &r.SpotID, &r.UserID, &r.VehicleNumber,
		&r.ParkingTime, &leaving, &cost, &r.Status, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, booking.ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	if leaving.Valid {
		r.LeavingTime = &leaving.Time
	}
	if cost.Valid {
		r.Cost = &cost.Float64
	}
	return r, nil
}

func (t *sqlTx) CreateReservation(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (spot_id, user_id, vehicle_number, parking_time, status)
	           VALUES (?, ?, ?, ?, ?)`
	out, err := t.tx.ExecContext(ctx, q, res.SpotID, res.UserID, res.VehicleNumber, res.ParkingTime, res.Status)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

func (t *sqlTx) UpdateReservation(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET parking_time = ?, leaving_time = ?, cost = ?, status = ?
	           WHERE id = ?`
	var leaving sql.NullTime
	if res.LeavingTime != nil {
		leaving = sql.NullTime{Time: *res.LeavingTime, Valid: true}
	}
	var cost sql.NullFloat64
	if res.Cost != nil {
		cost = sql.NullFloat64{Float64: *res.Cost, Valid: true}
	}
	out, err := t.tx.ExecContext(ctx, q, res.ParkingTime, leaving, cost, res.Status, res.ID)
	if err != nil {
		return err
	}
	if n, _ := out.RowsAffected(); n == 0 {
		return booking.ErrNotFound
	}
	return nil
}

func (t *sqlTx) ReservedSpotIDs(ctx context.Context, lotID uint64, date time.Time) (map[uint64]bool, error) {
	const q = `SELECT r.spot_id
	           FROM reservations r
	           JOIN parking_spots s ON s.id = r.spot_id
	           WHERE s.lot_id = ? AND r.status IN (?, ?) AND DATE(r.parking_time) = DATE(?)`
	rows, err := t.tx.QueryContext(ctx, q, lotID, model.StatusUpcoming, model.StatusActive, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reserved := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		reserved[id] = true
	}
	return reserved, rows.Err()
}

func (t *sqlTx) CountReservationsBySpot(ctx context.Context, spotID uint64) (int, int, error) {
	const q = `SELECT COUNT(*),
	                  COALESCE(SUM(status IN (?, ?)), 0)
	           FROM reservations WHERE spot_id = ?`
	var total, live int
	err := t.tx.QueryRowContext(ctx, q, model.StatusUpcoming, model.StatusActive, spotID).
		Scan(&total, &live)
	return total, live, err
}

func (t *sqlTx) SpotHasActive(ctx context.Context, spotID, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS(
	               SELECT 1 FROM reservations
	               WHERE spot_id = ? AND status = ? AND id <> ?)`
	var occupied bool
	err := t.tx.QueryRowContext(ctx, q, spotID, model.StatusActive, excludeID).Scan(&occupied)
	return occupied, err
}

func (t *sqlTx) CountNonTerminalByLot(ctx context.Context, lotID uint64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM reservations r
	           JOIN parking_spots s ON s.id = r.spot_id
	           WHERE s.lot_id = ? AND r.status IN (?, ?)`
	var n int
	err := t.tx.QueryRowContext(ctx, q, lotID, model.StatusUpcoming, model.StatusActive).Scan(&n)
	return n, err
}

func (t *sqlTx) ListReservations(ctx context.Context, f booking.Filter) ([]model.Reservation, error) {
	q := `SELECT r.id, r.spot_id, r.user_id, r.vehicle_number, r.parking_time, r.leaving_time, r.cost, r.status, r.created_at
	      FROM reservations r`
	var conds []string
	var args []interface{}
	if f.LotID != 0 {
		q += ` JOIN parking_spots s ON s.id = r.spot_id`
		conds = append(conds, "s.lot_id = ?")
		args = append(args, f.LotID)
	}
	if f.UserID != 0 {
		conds = append(conds, "r.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		conds = append(conds, "r.status = ?")
		args = append(args, f.Status)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY r.id"

	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Reservation
	for rows.Next() {
		var r model.Reservation
		var leaving sql.NullTime
		var cost sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.SpotID, &r.UserID, &r.VehicleNumber,
			&r.ParkingTime, &leaving, &cost, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		if leaving.Valid {
			r.LeavingTime = &leaving.Time
		}
		if cost.Valid {
			r.Cost = &cost.Float64
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (t *sqlTx) Ledger(ctx context.Context, lotID uint64, date time.Time) (int, error) {
	const q = `SELECT spots_booked FROM lot_bookings
	           WHERE lot_id = ? AND booking_date = DATE(?)`
	var n int
	err := t.tx.QueryRowContext(ctx, q, lotID, date).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

// LedgerForUpdate locks the lot/date counter row.  This lock is the
// serialization point for concurrent reserves: the second transaction
// blocks here until the first commits or rolls back.  The row is
// materialized at zero first, because FOR UPDATE on a missing row
// only takes a gap lock and gap locks do not conflict with each
// other -- two first bookings for the same lot/date would both read
// 0 and then deadlock on the insert.
func (t *sqlTx) LedgerForUpdate(ctx context.Context, lotID uint64, date time.Time) (int, error) {
	const ins = `INSERT INTO lot_bookings (lot_id, booking_date, spots_booked)
	             VALUES (?, DATE(?), 0)
	             ON DUPLICATE KEY UPDATE spots_booked = spots_booked`
	if _, err := t.tx.ExecContext(ctx, ins, lotID, date); err != nil {
		return 0, err
	}
	const q = `SELECT spots_booked FROM lot_bookings
	           WHERE lot_id = ? AND booking_date = DATE(?) FOR UPDATE`
	var n int
	err := t.tx.QueryRowContext(ctx, q, lotID, date).Scan(&n)
	return n, err
}

func (t *sqlTx) IncrementLedger(ctx context.Context, lotID uint64, date time.Time) error {
	const q = `INSERT INTO lot_bookings (lot_id, booking_date, spots_booked)
	           VALUES (?, DATE(?), 1)
	           ON DUPLICATE KEY UPDATE spots_booked = spots_booked + 1`
	_, err := t.tx.ExecContext(ctx, q, lotID, date)
	return err
}

// DecrementLedger floors at zero: a missing or already-zero row is a
// no-op rather than an error.
func (t *sqlTx) DecrementLedger(ctx context.Context, lotID uint64, date time.Time) error {
	const q = `UPDATE lot_bookings SET spots_booked = spots_booked - 1
	           WHERE lot_id = ? AND booking_date = DATE(?) AND spots_booked > 0`
	_, err := t.tx.ExecContext(ctx, q, lotID, date)
	return err
}
