package booking

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// memStore is an in-memory Store used by the engine tests.  InTx
// serializes transactions with a mutex, mirroring the row locks the
// SQL store takes, and restores a snapshot when fn fails so rollback
// semantics match the real store.
type memStore struct {
	mu           sync.Mutex
	lots         map[uint64]model.ParkingLot
	spots        map[uint64]model.ParkingSpot
	reservations map[uint64]model.Reservation
	ledgers      map[ledgerKey]int
	nextID       uint64
}

type ledgerKey struct {
	lotID uint64
	date  string
}

func newMemStore() *memStore {
	return &memStore{
		lots:         map[uint64]model.ParkingLot{},
		spots:        map[uint64]model.ParkingSpot{},
		reservations: map[uint64]model.Reservation{},
		ledgers:      map[ledgerKey]int{},
	}
}

func dateKey(t time.Time) string { return DateOf(t).Format("2006-01-02") }

func (s *memStore) id() uint64 { s.nextID++; return s.nextID }

func (s *memStore) InTx(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lots := maps.Clone(s.lots)
	spots := maps.Clone(s.spots)
	reservations := maps.Clone(s.reservations)
	ledgers := maps.Clone(s.ledgers)
	nextID := s.nextID
	if err := fn(&memTx{s: s}); err != nil {
		s.lots, s.spots, s.reservations, s.ledgers = lots, spots, reservations, ledgers
		s.nextID = nextID
		return err
	}
	return nil
}

type memTx struct{ s *memStore }

func (t *memTx) LotByID(_ context.Context, lotID uint64) (model.ParkingLot, error) {
	lot, ok := t.s.lots[lotID]
	if !ok {
		return model.ParkingLot{}, ErrNotFound
	}
	return lot, nil
}

func (t *memTx) LotBySpot(ctx context.Context, spotID uint64) (model.ParkingLot, error) {
	sp, ok := t.s.spots[spotID]
	if !ok {
		return model.ParkingLot{}, ErrNotFound
	}
	return t.LotByID(ctx, sp.LotID)
}

func (t *memTx) CreateLot(_ context.Context, lot *model.ParkingLot) error {
	lot.ID = t.s.id()
	lot.CreatedAt = time.Now()
	t.s.lots[lot.ID] = *lot
	return nil
}

func (t *memTx) UpdateLot(_ context.Context, lot *model.ParkingLot) error {
	if _, ok := t.s.lots[lot.ID]; !ok {
		return ErrNotFound
	}
	t.s.lots[lot.ID] = *lot
	return nil
}

func (t *memTx) DeleteLotCascade(_ context.Context, lotID uint64) error {
	for id, sp := range t.s.spots {
		if sp.LotID != lotID {
			continue
		}
		for rid, r := range t.s.reservations {
			if r.SpotID == id {
				delete(t.s.reservations, rid)
			}
		}
		delete(t.s.spots, id)
	}
	for k := range t.s.ledgers {
		if k.lotID == lotID {
			delete(t.s.ledgers, k)
		}
	}
	delete(t.s.lots, lotID)
	return nil
}

func (t *memTx) SpotsByLot(_ context.Context, lotID uint64) ([]model.ParkingSpot, error) {
	var out []model.ParkingSpot
	for _, sp := range t.s.spots {
		if sp.LotID == lotID {
			out = append(out, sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpotNo < out[j].SpotNo })
	return out, nil
}

func (t *memTx) SpotByID(_ context.Context, spotID uint64) (model.ParkingSpot, error) {
	sp, ok := t.s.spots[spotID]
	if !ok {
		return model.ParkingSpot{}, ErrNotFound
	}
	return sp, nil
}

func (t *memTx) CreateSpot(_ context.Context, lotID uint64, spotNo int) error {
	id := t.s.id()
	t.s.spots[id] = model.ParkingSpot{
		ID:        id,
		LotID:     lotID,
		SpotNo:    spotNo,
		Status:    model.SpotAvailable,
		CreatedAt: time.Now(),
	}
	return nil
}

func (t *memTx) DeleteSpot(_ context.Context, spotID uint64) error {
	delete(t.s.spots, spotID)
	return nil
}

func (t *memTx) SetSpotStatus(_ context.Context, spotID uint64, status string) error {
	sp, ok := t.s.spots[spotID]
	if !ok {
		return ErrNotFound
	}
	sp.Status = status
	t.s.spots[spotID] = sp
	return nil
}

func (t *memTx) ReservationForUpdate(_ context.Context, id uint64) (model.Reservation, error) {
	r, ok := t.s.reservations[id]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	return r, nil
}

func (t *memTx) CreateReservation(_ context.Context, res *model.Reservation) error {
	res.ID = t.s.id()
	res.CreatedAt = time.Now()
	t.s.reservations[res.ID] = *res
	return nil
}

func (t *memTx) UpdateReservation(_ context.Context, res *model.Reservation) error {
	if _, ok := t.s.reservations[res.ID]; !ok {
		return ErrNotFound
	}
	t.s.reservations[res.ID] = *res
	return nil
}

func (t *memTx) ReservedSpotIDs(_ context.Context, lotID uint64, date time.Time) (map[uint64]bool, error) {
	out := map[uint64]bool{}
	for _, r := range t.s.reservations {
		sp, ok := t.s.spots[r.SpotID]
		if !ok || sp.LotID != lotID {
			continue
		}
		if r.Status != model.StatusUpcoming && r.Status != model.StatusActive {
			continue
		}
		if dateKey(r.ParkingTime) == dateKey(date) {
			out[r.SpotID] = true
		}
	}
	return out, nil
}

func (t *memTx) CountReservationsBySpot(_ context.Context, spotID uint64) (int, int, error) {
	total, live := 0, 0
	for _, r := range t.s.reservations {
		if r.SpotID != spotID {
			continue
		}
		total++
		if !r.Terminal() {
			live++
		}
	}
	return total, live, nil
}

func (t *memTx) SpotHasActive(_ context.Context, spotID, excludeID uint64) (bool, error) {
	for _, r := range t.s.reservations {
		if r.SpotID == spotID && r.ID != excludeID && r.Status == model.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CountNonTerminalByLot(_ context.Context, lotID uint64) (int, error) {
	n := 0
	for _, r := range t.s.reservations {
		sp, ok := t.s.spots[r.SpotID]
		if ok && sp.LotID == lotID && !r.Terminal() {
			n++
		}
	}
	return n, nil
}

func (t *memTx) ListReservations(_ context.Context, f Filter) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range t.s.reservations {
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.LotID != 0 {
			sp, ok := t.s.spots[r.SpotID]
			if !ok || sp.LotID != f.LotID {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) Ledger(_ context.Context, lotID uint64, date time.Time) (int, error) {
	return t.s.ledgers[ledgerKey{lotID, dateKey(date)}], nil
}

func (t *memTx) LedgerForUpdate(ctx context.Context, lotID uint64, date time.Time) (int, error) {
	return t.Ledger(ctx, lotID, date)
}

func (t *memTx) IncrementLedger(_ context.Context, lotID uint64, date time.Time) error {
	t.s.ledgers[ledgerKey{lotID, dateKey(date)}]++
	return nil
}

func (t *memTx) DecrementLedger(_ context.Context, lotID uint64, date time.Time) error {
	k := ledgerKey{lotID, dateKey(date)}
	if t.s.ledgers[k] > 0 {
		t.s.ledgers[k]--
	}
	return nil
}
