package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/vehicle-parking/internal/model"
)

// testClock is a settable clock the tests wire into the engine so
// arrivals and departures happen at chosen instants.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T) (*Engine, *memStore, *testClock) {
	t.Helper()
	store := newMemStore()
	clk := &testClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	eng := NewEngine(store)
	eng.now = clk.Now
	return eng, store, clk
}

func mustCreateLot(t *testing.T, eng *Engine, maxSpots int, price float64) model.ParkingLot {
	t.Helper()
	lot, err := eng.CreateLot(context.Background(), LotInput{
		Name:       "Central Garage",
		Address:    "12 Main St",
		PinCode:    "560001",
		PricePerHr: price,
		MaxSpots:   maxSpots,
	})
	if err != nil {
		t.Fatalf("CreateLot: %v", err)
	}
	return lot
}

// checkLedger asserts every ledger counter equals the number of
// Upcoming/Active reservations on that lot and date.
func checkLedger(t *testing.T, s *memStore) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[ledgerKey]int{}
	for _, r := range s.reservations {
		if r.Status != model.StatusUpcoming && r.Status != model.StatusActive {
			continue
		}
		sp, ok := s.spots[r.SpotID]
		if !ok {
			continue
		}
		want[ledgerKey{sp.LotID, dateKey(r.ParkingTime)}]++
	}
	for k, n := range s.ledgers {
		if n != want[k] {
			t.Errorf("ledger %v = %d, want %d", k, n, want[k])
		}
	}
	for k, n := range want {
		if s.ledgers[k] != n {
			t.Errorf("ledger %v = %d, want %d", k, s.ledgers[k], n)
		}
	}
}

func TestReserveAssignsLowestFreeSpot(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 3, 10)
	day := clk.Now()

	var spotNos []int
	for i := 0; i < 3; i++ {
		res, err := eng.Reserve(context.Background(), lot.ID, 1, day, "KA-01-AB-1234")
		if err != nil {
			t.Fatalf("Reserve #%d: %v", i+1, err)
		}
		if res.Status != model.StatusUpcoming {
			t.Fatalf("status = %q, want %q", res.Status, model.StatusUpcoming)
		}
		if !res.ParkingTime.Equal(DateOf(day)) {
			t.Fatalf("ParkingTime = %v, want midnight %v", res.ParkingTime, DateOf(day))
		}
		store.mu.Lock()
		spotNos = append(spotNos, store.spots[res.SpotID].SpotNo)
		store.mu.Unlock()
	}
	for i, no := range spotNos {
		if no != i+1 {
			t.Errorf("assignment %d got spot_no %d, want %d", i+1, no, i+1)
		}
	}
	checkLedger(t, store)
}

func TestReserveValidation(t *testing.T) {
	eng, _, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 2, 10)
	day := clk.Now()

	if _, err := eng.Reserve(context.Background(), lot.ID, 1, day, "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank vehicle: err = %v, want ErrInvalidInput", err)
	}
	if _, err := eng.Reserve(context.Background(), lot.ID, 0, day, "KA-01"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero user: err = %v, want ErrInvalidInput", err)
	}
	if _, err := eng.Reserve(context.Background(), lot.ID, 1, day.AddDate(0, 0, -1), "KA-01"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("past date: err = %v, want ErrInvalidDate", err)
	}
	if _, err := eng.Reserve(context.Background(), 999, 1, day, "KA-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown lot: err = %v, want ErrNotFound", err)
	}
}

func TestReserveCapacityExceeded(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 2, 10)
	day := clk.Now()

	for i := 0; i < 2; i++ {
		if _, err := eng.Reserve(context.Background(), lot.ID, 1, day, "KA-01"); err != nil {
			t.Fatalf("Reserve #%d: %v", i+1, err)
		}
	}
	if _, err := eng.Reserve(context.Background(), lot.ID, 2, day, "KA-02"); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("third reserve: err = %v, want ErrCapacityExceeded", err)
	}
	// A different date is a separate capacity pool.
	if _, err := eng.Reserve(context.Background(), lot.ID, 2, day.AddDate(0, 0, 1), "KA-02"); err != nil {
		t.Fatalf("next-day reserve: %v", err)
	}
	checkLedger(t, store)
}

func TestReserveConcurrent(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 3, 10)
	day := clk.Now()

	const callers = 4
	results := make(chan error, callers)
	spotIDs := make(chan uint64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			res, err := eng.Reserve(context.Background(), lot.ID, userID, day, "KA-05-XY-9999")
			results <- err
			if err == nil {
				spotIDs <- res.SpotID
			}
		}(uint64(i + 1))
	}
	wg.Wait()
	close(results)
	close(spotIDs)

	ok, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrCapacityExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 3 || rejected != 1 {
		t.Fatalf("got %d successes and %d rejections, want 3 and 1", ok, rejected)
	}
	seen := map[uint64]bool{}
	for id := range spotIDs {
		if seen[id] {
			t.Fatalf("spot %d assigned twice", id)
		}
		seen[id] = true
	}
	checkLedger(t, store)
}

func TestLifecycleRoundTrip(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 10)
	ctx := context.Background()

	res, err := eng.Reserve(ctx, lot.ID, 7, clk.Now(), "MH-12-DE-1433")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	arrived, err := eng.CheckIn(ctx, res.ID, 7, false)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if arrived.Status != model.StatusActive {
		t.Fatalf("status after check-in = %q, want %q", arrived.Status, model.StatusActive)
	}
	if !arrived.ParkingTime.Equal(clk.Now()) {
		t.Fatalf("ParkingTime = %v, want arrival instant %v", arrived.ParkingTime, clk.Now())
	}
	store.mu.Lock()
	if got := store.spots[res.SpotID].Status; got != model.SpotOccupied {
		t.Fatalf("spot status = %q, want %q", got, model.SpotOccupied)
	}
	store.mu.Unlock()

	// 90 minutes parked at 10/hr bills two whole hours.
	clk.Advance(90 * time.Minute)
	done, err := eng.CheckOut(ctx, res.ID, 7, false)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if done.Status != model.StatusCompleted {
		t.Fatalf("status after checkout = %q, want %q", done.Status, model.StatusCompleted)
	}
	if done.LeavingTime == nil || !done.LeavingTime.Equal(clk.Now()) {
		t.Fatalf("LeavingTime = %v, want %v", done.LeavingTime, clk.Now())
	}
	if done.Cost == nil || *done.Cost != 20 {
		t.Fatalf("Cost = %v, want 20", done.Cost)
	}
	store.mu.Lock()
	if got := store.spots[res.SpotID].Status; got != model.SpotAvailable {
		t.Fatalf("spot status after checkout = %q, want %q", got, model.SpotAvailable)
	}
	store.mu.Unlock()
	checkLedger(t, store)

	// The freed slot is reservable again for the same date.
	if _, err := eng.Reserve(ctx, lot.ID, 8, clk.Now(), "MH-12-DE-1434"); err != nil {
		t.Fatalf("re-reserve after checkout: %v", err)
	}
}

func TestCheckInTransitions(t *testing.T) {
	eng, _, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 5)
	ctx := context.Background()

	res, err := eng.Reserve(ctx, lot.ID, 3, clk.Now(), "TN-09-A-1")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	first, err := eng.CheckIn(ctx, res.ID, 3, false)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	// Re-entrant check-in is a no-op: same arrival time, still Active.
	clk.Advance(10 * time.Minute)
	again, err := eng.CheckIn(ctx, res.ID, 3, false)
	if err != nil {
		t.Fatalf("second CheckIn: %v", err)
	}
	if !again.ParkingTime.Equal(first.ParkingTime) {
		t.Fatalf("re-entrant check-in moved ParkingTime from %v to %v", first.ParkingTime, again.ParkingTime)
	}

	if _, err := eng.CheckOut(ctx, res.ID, 3, false); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if _, err := eng.CheckIn(ctx, res.ID, 3, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("check-in on completed: err = %v, want ErrInvalidTransition", err)
	}
	if _, err := eng.CheckOut(ctx, res.ID, 3, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double checkout: err = %v, want ErrInvalidTransition", err)
	}
}

func TestCheckOutRequiresActive(t *testing.T) {
	eng, _, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 5)
	ctx := context.Background()

	res, err := eng.Reserve(ctx, lot.ID, 3, clk.Now(), "TN-09-A-1")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := eng.CheckOut(ctx, res.ID, 3, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("checkout on upcoming: err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancel(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 5)
	ctx := context.Background()

	res, err := eng.Reserve(ctx, lot.ID, 4, clk.Now(), "DL-3C-7777")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := eng.Cancel(ctx, res.ID, 4, false); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	store.mu.Lock()
	got := store.reservations[res.ID]
	store.mu.Unlock()
	if got.Status != model.StatusCancelled {
		t.Fatalf("status = %q, want %q", got.Status, model.StatusCancelled)
	}
	if got.Cost != nil {
		t.Fatalf("cancelled reservation has cost %v", *got.Cost)
	}
	checkLedger(t, store)

	if err := eng.Cancel(ctx, res.ID, 4, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double cancel: err = %v, want ErrInvalidTransition", err)
	}

	// The slot is free again for the day.
	if _, err := eng.Reserve(ctx, lot.ID, 5, clk.Now(), "DL-3C-7778"); err != nil {
		t.Fatalf("reserve after cancel: %v", err)
	}
}

func TestCancelActiveFreesSpot(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 5)
	ctx := context.Background()

	res, err := eng.Reserve(ctx, lot.ID, 4, clk.Now(), "DL-3C-7777")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := eng.CheckIn(ctx, res.ID, 4, false); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if err := eng.Cancel(ctx, res.ID, 4, false); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	store.mu.Lock()
	if got := store.spots[res.SpotID].Status; got != model.SpotAvailable {
		t.Fatalf("spot status = %q, want %q", got, model.SpotAvailable)
	}
	store.mu.Unlock()
	checkLedger(t, store)
}

func TestCancelUpcomingKeepsOccupiedSpot(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 2, 10)
	ctx := context.Background()

	today, err := eng.Reserve(ctx, lot.ID, 1, clk.Now(), "KA-01-AB-1234")
	if err != nil {
		t.Fatalf("Reserve today: %v", err)
	}
	if _, err := eng.CheckIn(ctx, today.ID, 1, false); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	// Tomorrow's booking lands on the same lowest-numbered spot: spot
	// status is ignored at reserve time, only the per-date scan counts.
	tomorrow, err := eng.Reserve(ctx, lot.ID, 2, clk.Now().AddDate(0, 0, 1), "KA-02-CD-5678")
	if err != nil {
		t.Fatalf("Reserve tomorrow: %v", err)
	}
	if tomorrow.SpotID != today.SpotID {
		t.Fatalf("tomorrow got spot %d, want the occupied spot %d", tomorrow.SpotID, today.SpotID)
	}

	// Cancelling the future booking must not free the spot the active
	// reservation is parked on.
	if err := eng.Cancel(ctx, tomorrow.ID, 2, false); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	store.mu.Lock()
	status := store.spots[today.SpotID].Status
	store.mu.Unlock()
	if status != model.SpotOccupied {
		t.Fatalf("spot status after cancelling future booking = %q, want %q", status, model.SpotOccupied)
	}
	checkLedger(t, store)

	clk.Advance(time.Hour)
	if _, err := eng.CheckOut(ctx, today.ID, 1, false); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	store.mu.Lock()
	status = store.spots[today.SpotID].Status
	store.mu.Unlock()
	if status != model.SpotAvailable {
		t.Fatalf("spot status after checkout = %q, want %q", status, model.SpotAvailable)
	}
}

func TestCheckInRefusesOccupiedSpot(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 10)
	ctx := context.Background()

	today, err := eng.Reserve(ctx, lot.ID, 1, clk.Now(), "KA-01-AB-1234")
	if err != nil {
		t.Fatalf("Reserve today: %v", err)
	}
	if _, err := eng.CheckIn(ctx, today.ID, 1, false); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	tomorrow, err := eng.Reserve(ctx, lot.ID, 2, clk.Now().AddDate(0, 0, 1), "KA-02-CD-5678")
	if err != nil {
		t.Fatalf("Reserve tomorrow: %v", err)
	}

	// Arriving early while another car holds the spot is refused and
	// leaves the booking Upcoming.
	if _, err := eng.CheckIn(ctx, tomorrow.ID, 2, false); !errors.Is(err, ErrSpotsOccupied) {
		t.Fatalf("early check-in on occupied spot: err = %v, want ErrSpotsOccupied", err)
	}
	store.mu.Lock()
	status := store.reservations[tomorrow.ID].Status
	store.mu.Unlock()
	if status != model.StatusUpcoming {
		t.Fatalf("reservation status = %q after refused check-in, want %q", status, model.StatusUpcoming)
	}
	checkLedger(t, store)
}

func TestEarlyCheckInMovesLedger(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 10)
	ctx := context.Background()
	tomorrow := clk.Now().AddDate(0, 0, 1)

	res, err := eng.Reserve(ctx, lot.ID, 1, tomorrow, "KA-01-AB-1234")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	// Arriving a day early moves the capacity slot to the arrival date.
	if _, err := eng.CheckIn(ctx, res.ID, 1, false); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	checkLedger(t, store)
	store.mu.Lock()
	booked := store.ledgers[ledgerKey{lot.ID, dateKey(tomorrow)}]
	store.mu.Unlock()
	if booked != 0 {
		t.Fatalf("requested-date ledger = %d after early check-in, want 0", booked)
	}

	clk.Advance(2 * time.Hour)
	if _, err := eng.CheckOut(ctx, res.ID, 1, false); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	checkLedger(t, store)

	// The original date's capacity is fully released again.
	if _, err := eng.Reserve(ctx, lot.ID, 2, tomorrow, "KA-02-CD-5678"); err != nil {
		t.Fatalf("re-reserve for the original date: %v", err)
	}
	checkLedger(t, store)
}

func TestOwnershipAndAdminOverride(t *testing.T) {
	eng, _, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 2, 5)
	ctx := context.Background()

	res, err := eng.Reserve(ctx, lot.ID, 10, clk.Now(), "GJ-01-Z-42")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := eng.CheckIn(ctx, res.ID, 11, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign check-in: err = %v, want ErrForbidden", err)
	}
	if err := eng.Cancel(ctx, res.ID, 11, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign cancel: err = %v, want ErrForbidden", err)
	}
	// Admins act on any reservation.
	if _, err := eng.CheckIn(ctx, res.ID, 11, true); err != nil {
		t.Fatalf("admin check-in: %v", err)
	}
	if _, err := eng.CheckOut(ctx, res.ID, 11, true); err != nil {
		t.Fatalf("admin checkout: %v", err)
	}
}

func TestListAvailability(t *testing.T) {
	eng, _, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 3, 5)
	ctx := context.Background()
	day := clk.Now()

	avail, err := eng.ListAvailability(ctx, lot.ID, day)
	if err != nil {
		t.Fatalf("ListAvailability: %v", err)
	}
	if avail.TotalSpots != 3 || avail.AvailableSpots != 3 {
		t.Fatalf("fresh lot: got %+v", avail)
	}

	if _, err := eng.Reserve(ctx, lot.ID, 1, day, "KA-01"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	avail, err = eng.ListAvailability(ctx, lot.ID, day)
	if err != nil {
		t.Fatalf("ListAvailability: %v", err)
	}
	if avail.AvailableSpots != 2 {
		t.Fatalf("after one reserve: available = %d, want 2", avail.AvailableSpots)
	}

	// Other dates are unaffected.
	avail, err = eng.ListAvailability(ctx, lot.ID, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListAvailability: %v", err)
	}
	if avail.AvailableSpots != 3 {
		t.Fatalf("next day: available = %d, want 3", avail.AvailableSpots)
	}

	if _, err := eng.ListAvailability(ctx, 999, day); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown lot: err = %v, want ErrNotFound", err)
	}
}

func TestListReservationsFilter(t *testing.T) {
	eng, _, clk := newTestEngine(t)
	lotA := mustCreateLot(t, eng, 2, 5)
	lotB := mustCreateLot(t, eng, 2, 5)
	ctx := context.Background()
	day := clk.Now()

	if _, err := eng.Reserve(ctx, lotA.ID, 1, day, "KA-01"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := eng.Reserve(ctx, lotA.ID, 2, day, "KA-02"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if _, err := eng.Reserve(ctx, lotB.ID, 1, day, "KA-03"); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	byUser, err := eng.ListReservations(ctx, Filter{UserID: 1})
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("user 1 has %d reservations, want 2", len(byUser))
	}
	byLot, err := eng.ListReservations(ctx, Filter{LotID: lotB.ID})
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(byLot) != 1 {
		t.Fatalf("lot B has %d reservations, want 1", len(byLot))
	}
	both, err := eng.ListReservations(ctx, Filter{UserID: 1, LotID: lotA.ID, Status: model.StatusUpcoming})
	if err != nil {
		t.Fatalf("ListReservations: %v", err)
	}
	if len(both) != 1 {
		t.Fatalf("combined filter got %d, want 1", len(both))
	}
}

func TestEditLot(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 2, 5)
	ctx := context.Background()

	// Growing continues the numbering.
	grown, err := eng.EditLot(ctx, lot.ID, LotInput{
		Name: lot.Name, Address: lot.Address, PinCode: lot.PinCode,
		PricePerHr: 7, MaxSpots: 4,
	})
	if err != nil {
		t.Fatalf("EditLot grow: %v", err)
	}
	if grown.MaxSpots != 4 || grown.PricePerHr != 7 {
		t.Fatalf("grown lot = %+v", grown)
	}
	store.mu.Lock()
	nos := map[int]bool{}
	for _, sp := range store.spots {
		if sp.LotID == lot.ID {
			nos[sp.SpotNo] = true
		}
	}
	store.mu.Unlock()
	for i := 1; i <= 4; i++ {
		if !nos[i] {
			t.Fatalf("missing spot_no %d after grow", i)
		}
	}

	// Shrinking is refused while a doomed spot has history.
	res, err := eng.Reserve(ctx, lot.ID, 1, clk.Now(), "KA-01")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	store.mu.Lock()
	reservedNo := store.spots[res.SpotID].SpotNo
	store.mu.Unlock()
	if reservedNo != 1 {
		t.Fatalf("reserved spot_no = %d, want 1", reservedNo)
	}
	if _, err := eng.EditLot(ctx, lot.ID, LotInput{
		Name: lot.Name, Address: lot.Address, PinCode: lot.PinCode,
		PricePerHr: 7, MaxSpots: 0,
	}); !errors.Is(err, ErrSpotsOccupied) {
		t.Fatalf("shrink over reserved spot: err = %v, want ErrSpotsOccupied", err)
	}

	// Shrinking away only untouched spots succeeds.
	shrunk, err := eng.EditLot(ctx, lot.ID, LotInput{
		Name: lot.Name, Address: lot.Address, PinCode: lot.PinCode,
		PricePerHr: 7, MaxSpots: 1,
	})
	if err != nil {
		t.Fatalf("EditLot shrink: %v", err)
	}
	if shrunk.MaxSpots != 1 {
		t.Fatalf("shrunk MaxSpots = %d, want 1", shrunk.MaxSpots)
	}
}

func TestDeleteLot(t *testing.T) {
	eng, _, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 1, 5)
	ctx := context.Background()

	res, err := eng.Reserve(ctx, lot.ID, 1, clk.Now(), "KA-01")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := eng.DeleteLot(ctx, lot.ID); !errors.Is(err, ErrLotNotEmpty) {
		t.Fatalf("delete with upcoming reservation: err = %v, want ErrLotNotEmpty", err)
	}
	if _, err := eng.CheckIn(ctx, res.ID, 1, false); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if err := eng.DeleteLot(ctx, lot.ID); !errors.Is(err, ErrLotNotEmpty) {
		t.Fatalf("delete with occupied spot: err = %v, want ErrLotNotEmpty", err)
	}
	if _, err := eng.CheckOut(ctx, res.ID, 1, false); err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if err := eng.DeleteLot(ctx, lot.ID); err != nil {
		t.Fatalf("delete drained lot: %v", err)
	}
	if err := eng.DeleteLot(ctx, lot.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice: err = %v, want ErrNotFound", err)
	}
}

func TestAddAndRemoveSpot(t *testing.T) {
	eng, store, clk := newTestEngine(t)
	lot := mustCreateLot(t, eng, 2, 5)
	ctx := context.Background()

	no, err := eng.AddSpot(ctx, lot.ID)
	if err != nil {
		t.Fatalf("AddSpot: %v", err)
	}
	if no != 3 {
		t.Fatalf("AddSpot numbered %d, want 3", no)
	}

	res, err := eng.Reserve(ctx, lot.ID, 1, clk.Now(), "KA-01")
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := eng.RemoveSpot(ctx, res.SpotID); !errors.Is(err, ErrSpotsOccupied) {
		t.Fatalf("remove reserved spot: err = %v, want ErrSpotsOccupied", err)
	}

	store.mu.Lock()
	var freeID uint64
	for id, sp := range store.spots {
		if sp.LotID == lot.ID && sp.SpotNo == 3 {
			freeID = id
		}
	}
	store.mu.Unlock()
	if err := eng.RemoveSpot(ctx, freeID); err != nil {
		t.Fatalf("RemoveSpot: %v", err)
	}
	store.mu.Lock()
	maxSpots := store.lots[lot.ID].MaxSpots
	store.mu.Unlock()
	if maxSpots != 2 {
		t.Fatalf("MaxSpots after remove = %d, want 2", maxSpots)
	}
}

func TestCreateLotValidation(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.CreateLot(ctx, LotInput{Name: " ", Address: "x", PinCode: "1", PricePerHr: 1, MaxSpots: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank name: err = %v, want ErrInvalidInput", err)
	}
	if _, err := eng.CreateLot(ctx, LotInput{Name: "n", Address: "x", PinCode: "1", PricePerHr: -1, MaxSpots: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative price: err = %v, want ErrInvalidInput", err)
	}
}
