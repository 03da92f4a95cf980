package booking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saloniq/salon-booking-backend/internal/availability"
	"github.com/saloniq/salon-booking-backend/internal/catalog"
	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/salon"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
	"github.com/saloniq/salon-booking-backend/internal/staff"
)

// memStore is an in-memory Store whose Atomic serializes on a single mutex,
// standing in for the per-shard advisory locks of the real store.
type memStore struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*Booking
	blocks   map[string][]availability.Interval
}

func newMemStore() *memStore {
	return &memStore{
		bookings: make(map[string]*Booking),
		blocks:   make(map[string][]availability.Interval),
	}
}

func blockKey(staffID string, date time.Time) string {
	return staffID + ":" + clockwork.FormatDate(date)
}

func (s *memStore) addBlock(staffID string, date time.Time, start, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := blockKey(staffID, date)
	s.blocks[k] = append(s.blocks[k], availability.Interval{Start: start, End: end})
}

func (s *memStore) GetByID(_ context.Context, id string) (*Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id)
}

func (s *memStore) get(id string) (*Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memStore) List(_ context.Context, filter ListFilter) ([]*Booking, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Booking
	for _, b := range s.bookings {
		if b.SalonID != filter.SalonID {
			continue
		}
		if filter.StaffID != "" && b.StaffID != filter.StaffID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (s *memStore) Atomic(_ context.Context, _ []ShardKey, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{store: s})
}

type memTx struct {
	store *memStore
}

func (t *memTx) GetByID(_ context.Context, id string) (*Booking, error) {
	return t.store.get(id)
}

func (t *memTx) Intervals(_ context.Context, staffID string, date time.Time, excludeID string) ([]availability.Interval, error) {
	var intervals []availability.Interval
	for _, b := range t.store.bookings {
		if b.StaffID != staffID || !clockwork.SameDate(b.Date, date) {
			continue
		}
		if !b.Status.Occupies() || b.ID == excludeID {
			continue
		}
		intervals = append(intervals, b.Interval())
	}
	intervals = append(intervals, t.store.blocks[blockKey(staffID, date)]...)
	return intervals, nil
}

func (t *memTx) Insert(_ context.Context, b *Booking) error {
	t.store.seq++
	b.ID = fmt.Sprintf("bk-%04d", t.store.seq)
	b.Version = 1
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	t.store.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) UpdatePlacement(_ context.Context, b *Booking, expectedVersion int) error {
	stored, ok := t.store.bookings[b.ID]
	if !ok || stored.Version != expectedVersion {
		return ErrConcurrentModification
	}
	b.Version = expectedVersion + 1
	b.UpdatedAt = time.Now()
	cp := *b
	t.store.bookings[b.ID] = &cp
	return nil
}

func (t *memTx) UpdateStatus(_ context.Context, b *Booking, status Status, expectedVersion int) error {
	stored, ok := t.store.bookings[b.ID]
	if !ok || stored.Version != expectedVersion {
		return ErrConcurrentModification
	}
	b.Status = status
	b.Version = expectedVersion + 1
	b.UpdatedAt = time.Now()
	cp := *b
	t.store.bookings[b.ID] = &cp
	return nil
}

type fakeSalons struct {
	salons map[string]*salon.Salon
}

func (f *fakeSalons) GetByID(_ context.Context, id string) (*salon.Salon, error) {
	s, ok := f.salons[id]
	if !ok {
		return nil, salon.ErrNotFound
	}
	return s, nil
}

type fakeCatalog struct {
	services map[string]*catalog.Service
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*catalog.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return s, nil
}

type fakeStaff struct {
	members []*staff.Staff
	skills  map[string]map[string]bool
}

func (f *fakeStaff) GetByID(_ context.Context, id string) (*staff.Staff, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, staff.ErrNotFound
}

func (f *fakeStaff) List(_ context.Context, filter staff.Filter) ([]*staff.Staff, int, error) {
	var out []*staff.Staff
	for _, m := range f.members {
		if m.SalonID != filter.SalonID {
			continue
		}
		if filter.ActiveOnly && !m.Active {
			continue
		}
		if filter.ServiceID != "" && !f.skills[m.ID][filter.ServiceID] {
			continue
		}
		out = append(out, m)
	}
	return out, len(out), nil
}

func (f *fakeStaff) IsQualified(_ context.Context, staffID, serviceID string) (bool, error) {
	return f.skills[staffID][serviceID], nil
}

type fakeSchedule struct {
	window schedule.Window
}

func (f *fakeSchedule) ResolveWindow(context.Context, string, string, time.Time) (schedule.Window, error) {
	return f.window, nil
}

type fixture struct {
	store *memStore
	svc   Service
	date  time.Time
}

// newFixture builds a salon open 09:00-18:00 on a 30-minute grid, two staff
// members qualified for a 60-minute cut, and auto-confirm on.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	salons := &fakeSalons{salons: map[string]*salon.Salon{
		"sal-1": {ID: "sal-1", Name: "Fade Factory", SlotStepMinutes: 30, AutoConfirm: true},
	}}
	services := &fakeCatalog{services: map[string]*catalog.Service{
		"svc-cut": {ID: "svc-cut", SalonID: "sal-1", Name: "Cut", DurationMinutes: 60, Active: true},
	}}
	staffDir := &fakeStaff{
		members: []*staff.Staff{
			{ID: "stf-1", SalonID: "sal-1", DisplayName: "Ana", Position: 1, Active: true},
			{ID: "stf-2", SalonID: "sal-1", DisplayName: "Bruno", Position: 2, Active: true},
		},
		skills: map[string]map[string]bool{
			"stf-1": {"svc-cut": true},
			"stf-2": {"svc-cut": true},
		},
	}
	sched := &fakeSchedule{window: schedule.Window{Open: true, StartMinute: 9 * 60, EndMinute: 18 * 60}}

	return &fixture{
		store: store,
		svc:   NewService(store, salons, services, staffDir, sched, nil),
		date:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) create(t *testing.T, staffID string, startMinute int) *Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), CreateRequest{
		SalonID:     "sal-1",
		StaffID:     staffID,
		ServiceID:   "svc-cut",
		Date:        f.date,
		StartMinute: startMinute,
	})
	require.NoError(t, err)
	return b
}

func TestCreatePlacesBooking(t *testing.T) {
	f := newFixture(t)

	b := f.create(t, "stf-1", 10*60)

	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, 1, b.Version)
	assert.Equal(t, 60, b.DurationMinutes)
	assert.Equal(t, 11*60, b.EndMinute())
}

func TestCreateRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.create(t, "stf-1", 10*60)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		SalonID: "sal-1", StaffID: "stf-1", ServiceID: "svc-cut",
		Date: f.date, StartMinute: 10*60 + 30,
	})
	require.ErrorIs(t, err, ErrSlotUnavailable)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	require.NotNil(t, appErr.Conflict)
	assert.Equal(t, "10:00", appErr.Conflict.Start)
	assert.Equal(t, "11:00", appErr.Conflict.End)
}

func TestCreateOutsideWindowRejected(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name  string
		start int
	}{
		{"before opening", 8 * 60},
		{"off the grid", 10*60 + 10},
		{"run overflows closing", 17*60 + 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), CreateRequest{
				SalonID: "sal-1", StaffID: "stf-1", ServiceID: "svc-cut",
				Date: f.date, StartMinute: tc.start,
			})
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestCreateAnyStaffFallsToNextCandidate(t *testing.T) {
	f := newFixture(t)
	f.create(t, "stf-1", 10*60)

	b, err := f.svc.Create(context.Background(), CreateRequest{
		SalonID: "sal-1", ServiceID: "svc-cut", Date: f.date, StartMinute: 10 * 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "stf-2", b.StaffID)
}

func TestConcurrentCreateExactlyOneWinner(t *testing.T) {
	f := newFixture(t)

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), CreateRequest{
				SalonID: "sal-1", StaffID: "stf-1", ServiceID: "svc-cut",
				Date: f.date, StartMinute: 14 * 60,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		if err == nil {
			won++
			continue
		}
		require.ErrorIs(t, err, ErrSlotUnavailable)
		lost++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, attempts-1, lost)
}

func TestMoveReturnsSnapshotAndRevertRestores(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "stf-1", 10*60)

	newStart := 14 * 60
	moved, snap, err := f.svc.Move(context.Background(), b.ID, MoveRequest{
		Version: b.Version, StartMinute: &newStart,
	})
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 14*60, moved.StartMinute)
	assert.Equal(t, 2, moved.Version)
	assert.Equal(t, 10*60, snap.StartMinute)
	assert.Equal(t, 1, snap.Version)

	reverted, err := f.svc.Revert(context.Background(), b.ID, *snap)
	require.NoError(t, err)
	assert.Equal(t, 10*60, reverted.StartMinute)
	assert.Equal(t, "stf-1", reverted.StaffID)
	assert.Equal(t, 60, reverted.DurationMinutes)
	assert.Equal(t, 0, reverted.ExtraMinutes)
	assert.Equal(t, 3, reverted.Version)
}

func TestMoveAcrossStaffRevertRoundTrip(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "stf-1", 10*60)

	target := "stf-2"
	moved, snap, err := f.svc.Move(context.Background(), b.ID, MoveRequest{
		Version: b.Version, StaffID: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, "stf-2", moved.StaffID)

	// The vacated slot is free for others while the move stands.
	f.create(t, "stf-1", 10*60)

	// Reverting now collides with the booking that took the old slot.
	_, err = f.svc.Revert(context.Background(), b.ID, *snap)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestMoveConflictLeavesBothUnchanged(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, "stf-1", 10*60)
	b := f.create(t, "stf-1", 12*60)

	target := 12 * 60
	_, _, err := f.svc.Move(context.Background(), a.ID, MoveRequest{
		Version: a.Version, StartMinute: &target,
	})
	require.ErrorIs(t, err, ErrSlotUnavailable)

	freshA, err := f.svc.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	freshB, err := f.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 10*60, freshA.StartMinute)
	assert.Equal(t, 1, freshA.Version)
	assert.Equal(t, 12*60, freshB.StartMinute)
	assert.Equal(t, 1, freshB.Version)
}

func TestStaleVersionRejected(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "stf-1", 10*60)

	newStart := 14 * 60
	_, _, err := f.svc.Move(context.Background(), b.ID, MoveRequest{
		Version: b.Version + 5, StartMinute: &newStart,
	})
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestRevertAfterLaterWriteRejected(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "stf-1", 10*60)

	newStart := 14 * 60
	moved, snap, err := f.svc.Move(context.Background(), b.ID, MoveRequest{
		Version: b.Version, StartMinute: &newStart,
	})
	require.NoError(t, err)

	_, _, err = f.svc.Resize(context.Background(), b.ID, ResizeRequest{
		Version: moved.Version, DurationMinutes: 90,
	})
	require.NoError(t, err)

	_, err = f.svc.Revert(context.Background(), b.ID, *snap)
	assert.ErrorIs(t, err, ErrConcurrentModification)
}

func TestCancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "stf-1", 10*60)

	cancelled, err := f.svc.SetStatus(context.Background(), b.ID, StatusCancelled, b.Version)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// The slot opens up again; the cancelled row itself stays immutable.
	f.create(t, "stf-1", 10*60)

	newStart := 14 * 60
	_, _, err = f.svc.Move(context.Background(), b.ID, MoveRequest{
		Version: cancelled.Version, StartMinute: &newStart,
	})
	assert.ErrorIs(t, err, ErrBookingGone)
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "stf-1", 10*60) // auto-confirmed

	done, err := f.svc.SetStatus(context.Background(), b.ID, StatusCompleted, b.Version)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, done.Status)

	_, err = f.svc.SetStatus(context.Background(), b.ID, StatusCancelled, done.Version)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExtendOccupiesOverrun(t *testing.T) {
	f := newFixture(t)
	b := f.create(t, "stf-1", 10*60)

	extended, snap, err := f.svc.Extend(context.Background(), b.ID, ExtendRequest{
		Version: b.Version, ExtraMinutes: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, extended.ExtraMinutes)
	assert.Equal(t, 11*60+15, extended.EndMinute())
	assert.Equal(t, 0, snap.ExtraMinutes)

	// The overrun bleeds into the 11:00 slot.
	_, err = f.svc.Create(context.Background(), CreateRequest{
		SalonID: "sal-1", StaffID: "stf-1", ServiceID: "svc-cut",
		Date: f.date, StartMinute: 11 * 60,
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestTimeBlockOccupiesSlots(t *testing.T) {
	f := newFixture(t)
	f.store.addBlock("stf-1", f.date, 12*60, 13*60)

	_, err := f.svc.Create(context.Background(), CreateRequest{
		SalonID: "sal-1", StaffID: "stf-1", ServiceID: "svc-cut",
		Date: f.date, StartMinute: 12 * 60,
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

// TestConcurrentStressNoOverlaps races random creates, moves, resizes and
// cancellations and then checks that no staff member ended up double-booked.
func TestConcurrentStressNoOverlaps(t *testing.T) {
	f := newFixture(t)

	starts := []int{9 * 60, 10 * 60, 11 * 60, 12 * 60, 13 * 60, 14 * 60, 15 * 60, 16 * 60}
	durations := []int{30, 60, 90}
	staffIDs := []string{"stf-1", "stf-2"}

	// Shared registry of booking IDs for the mutation goroutines to pick from.
	var mu sync.Mutex
	var ids []string
	remember := func(id string) {
		mu.Lock()
		ids = append(ids, id)
		mu.Unlock()
	}
	pick := func(rng *rand.Rand) string {
		mu.Lock()
		defer mu.Unlock()
		if len(ids) == 0 {
			return ""
		}
		return ids[rng.Intn(len(ids))]
	}

	// Losing a race is fine; corrupting state is not.
	allowed := func(err error) bool {
		return err == nil ||
			errors.Is(err, ErrSlotUnavailable) ||
			errors.Is(err, ErrInvalidWindow) ||
			errors.Is(err, ErrConcurrentModification) ||
			errors.Is(err, ErrBookingGone) ||
			errors.Is(err, ErrInvalidTransition)
	}

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for op := 0; op < 4; op++ {
				switch rng.Intn(10) {
				case 0, 1, 2, 3: // create
					b, err := f.svc.Create(context.Background(), CreateRequest{
						SalonID:     "sal-1",
						StaffID:     staffIDs[rng.Intn(len(staffIDs))],
						ServiceID:   "svc-cut",
						Date:        f.date,
						StartMinute: starts[rng.Intn(len(starts))],
					})
					if err == nil {
						remember(b.ID)
					} else if !allowed(err) {
						t.Errorf("create: unexpected error: %v", err)
					}
				case 4, 5, 6: // move
					id := pick(rng)
					if id == "" {
						continue
					}
					cur, err := f.svc.GetByID(context.Background(), id)
					if err != nil {
						continue
					}
					target := staffIDs[rng.Intn(len(staffIDs))]
					start := starts[rng.Intn(len(starts))]
					_, _, err = f.svc.Move(context.Background(), id, MoveRequest{
						Version: cur.Version, StaffID: &target, StartMinute: &start,
					})
					if !allowed(err) {
						t.Errorf("move: unexpected error: %v", err)
					}
				case 7, 8: // resize
					id := pick(rng)
					if id == "" {
						continue
					}
					cur, err := f.svc.GetByID(context.Background(), id)
					if err != nil {
						continue
					}
					_, _, err = f.svc.Resize(context.Background(), id, ResizeRequest{
						Version: cur.Version, DurationMinutes: durations[rng.Intn(len(durations))],
					})
					if !allowed(err) {
						t.Errorf("resize: unexpected error: %v", err)
					}
				case 9: // cancel
					id := pick(rng)
					if id == "" {
						continue
					}
					cur, err := f.svc.GetByID(context.Background(), id)
					if err != nil {
						continue
					}
					_, err = f.svc.SetStatus(context.Background(), id, StatusCancelled, cur.Version)
					if !allowed(err) {
						t.Errorf("cancel: unexpected error: %v", err)
					}
				}
			}
		}(int64(i))
	}
	wg.Wait()

	for _, staffID := range staffIDs {
		bookings, _, err := f.svc.List(context.Background(), ListFilter{SalonID: "sal-1", StaffID: staffID})
		require.NoError(t, err)
		occupying := bookings[:0]
		for _, b := range bookings {
			if b.Status.Occupies() {
				occupying = append(occupying, b)
			}
		}
		for i, a := range occupying {
			for _, b := range occupying[i+1:] {
				assert.False(t, a.Interval().Overlaps(b.Interval()),
					"bookings %s and %s overlap on %s", a.ID, b.ID, staffID)
			}
		}
	}
}
