package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saloniq/salon-booking-backend/internal/cache"
	"github.com/saloniq/salon-booking-backend/internal/catalog"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/salon"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
	"github.com/saloniq/salon-booking-backend/internal/staff"
)

type fakeSource struct {
	intervals map[string][]Interval
	queries   int
}

func sourceKey(staffID string, date time.Time) string {
	return staffID + ":" + clockwork.FormatDate(date)
}

func (f *fakeSource) DayIntervals(_ context.Context, staffID string, date time.Time) ([]Interval, error) {
	f.queries++
	return f.intervals[sourceKey(staffID, date)], nil
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
	base   schedule.Window
	closed map[string]bool // staffID:date resolved as closed
}

func (f *fakeSchedule) ResolveWindow(_ context.Context, _, staffID string, date time.Time) (schedule.Window, error) {
	if f.closed[sourceKey(staffID, date)] {
		return schedule.Window{}, nil
	}
	return f.base, nil
}

type mapCache struct {
	entries map[string][]byte
	hits    int
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	if b, ok := c.entries[key]; ok {
		c.hits++
		return b, nil
	}
	return nil, cache.ErrMiss
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.entries[key] = value
	return nil
}

type queryFixture struct {
	source *fakeSource
	staff  *fakeStaff
	sched  *fakeSchedule
	cache  *mapCache
	svc    Service
	date   time.Time
}

// newQueryFixture builds a salon open 09:00-18:00 on a 30-minute grid with
// two staff members and a 60-minute service.
func newQueryFixture(t *testing.T) *queryFixture {
	t.Helper()

	source := &fakeSource{intervals: make(map[string][]Interval)}
	sched := &fakeSchedule{
		base:   schedule.Window{Open: true, StartMinute: 9 * 60, EndMinute: 18 * 60},
		closed: make(map[string]bool),
	}
	summaries := &mapCache{entries: make(map[string][]byte)}
	staffDir := &fakeStaff{
		members: []*staff.Staff{
			{ID: "stf-1", SalonID: "sal-1", Active: true},
			{ID: "stf-2", SalonID: "sal-1", Active: true},
		},
		skills: map[string]map[string]bool{
			"stf-1": {"svc-cut": true},
			"stf-2": {"svc-cut": true},
		},
	}

	svc := NewService(
		source,
		&fakeSalons{salons: map[string]*salon.Salon{
			"sal-1": {ID: "sal-1", SlotStepMinutes: 30},
		}},
		&fakeCatalog{services: map[string]*catalog.Service{
			"svc-cut": {ID: "svc-cut", SalonID: "sal-1", DurationMinutes: 60, Active: true},
		}},
		staffDir,
		sched,
		summaries,
	)

	return &queryFixture{
		source: source,
		staff:  staffDir,
		sched:  sched,
		cache:  summaries,
		svc:    svc,
		date:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestDayAroundExistingBooking(t *testing.T) {
	f := newQueryFixture(t)
	f.source.intervals[sourceKey("stf-1", f.date)] = []Interval{{Start: 10 * 60, End: 11 * 60}}

	slots, err := f.svc.Day(context.Background(), DayQuery{
		SalonID: "sal-1", StaffID: "stf-1", ServiceID: "svc-cut", Date: f.date,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, slots.Step)

	assert.Contains(t, slots.Starts, 9*60)
	assert.NotContains(t, slots.Starts, 9*60+30) // run would reach into 10:00
	assert.NotContains(t, slots.Starts, 10*60)
	assert.NotContains(t, slots.Starts, 10*60+30)
	assert.Contains(t, slots.Starts, 11*60)
	assert.Contains(t, slots.Starts, 17*60) // last start that still fits
	assert.NotContains(t, slots.Starts, 17*60+30)
}

func TestDayAnyStaffUnionsCandidates(t *testing.T) {
	f := newQueryFixture(t)
	// stf-1 is fully blocked; every slot must come from stf-2.
	f.source.intervals[sourceKey("stf-1", f.date)] = []Interval{{Start: 9 * 60, End: 18 * 60}}

	slots, err := f.svc.Day(context.Background(), DayQuery{
		SalonID: "sal-1", ServiceID: "svc-cut", Date: f.date,
	})
	require.NoError(t, err)
	assert.Len(t, slots.Starts, 17)
	assert.Equal(t, 9*60, slots.Starts[0])
	assert.Equal(t, 17*60, slots.Starts[len(slots.Starts)-1])
}

func TestDayRejectsIneligibleStaff(t *testing.T) {
	f := newQueryFixture(t)

	// Unqualified staff get the same answer the allocator would give.
	delete(f.staff.skills["stf-1"], "svc-cut")
	_, err := f.svc.Day(context.Background(), DayQuery{
		SalonID: "sal-1", StaffID: "stf-1", ServiceID: "svc-cut", Date: f.date,
	})
	assert.ErrorIs(t, err, ErrStaffNotEligible)

	// Inactive staff are not queryable at all.
	f.staff.members[1].Active = false
	_, err = f.svc.Day(context.Background(), DayQuery{
		SalonID: "sal-1", StaffID: "stf-2", ServiceID: "svc-cut", Date: f.date,
	})
	assert.ErrorIs(t, err, staff.ErrNotFound)
}

func TestBulkSummaries(t *testing.T) {
	f := newQueryFixture(t)

	dates := make([]time.Time, 0, 14)
	for i := 0; i < 14; i++ {
		dates = append(dates, f.date.AddDate(0, 0, i))
	}
	// Three dates fully booked for both staff.
	for _, i := range []int{2, 5, 9} {
		full := []Interval{{Start: 9 * 60, End: 18 * 60}}
		f.source.intervals[sourceKey("stf-1", dates[i])] = full
		f.source.intervals[sourceKey("stf-2", dates[i])] = full
	}

	summaries, err := f.svc.Bulk(context.Background(), BulkQuery{
		SalonID: "sal-1", ServiceID: "svc-cut", Dates: dates,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 14)

	for i, summary := range summaries {
		assert.Equal(t, clockwork.FormatDate(dates[i]), summary.Date)
		assert.True(t, summary.Open)
		switch i {
		case 2, 5, 9:
			assert.Zero(t, summary.FreeSlotCount, "date %d should be fully booked", i)
		default:
			assert.Equal(t, 17, summary.FreeSlotCount, "date %d", i)
		}
	}
}

func TestBulkClosedDay(t *testing.T) {
	f := newQueryFixture(t)
	f.sched.closed[sourceKey("stf-1", f.date)] = true
	f.sched.closed[sourceKey("stf-2", f.date)] = true

	summaries, err := f.svc.Bulk(context.Background(), BulkQuery{
		SalonID: "sal-1", ServiceID: "svc-cut", Dates: []time.Time{f.date},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.False(t, summaries[0].Open)
	assert.Zero(t, summaries[0].FreeSlotCount)
}

func TestBulkRejectsTooManyDates(t *testing.T) {
	f := newQueryFixture(t)

	dates := make([]time.Time, MaxBulkDates+1)
	for i := range dates {
		dates[i] = f.date.AddDate(0, 0, i)
	}

	_, err := f.svc.Bulk(context.Background(), BulkQuery{
		SalonID: "sal-1", ServiceID: "svc-cut", Dates: dates,
	})
	assert.ErrorIs(t, err, ErrTooManyDates)
}

func TestBulkServesRepeatFromCache(t *testing.T) {
	f := newQueryFixture(t)
	q := BulkQuery{SalonID: "sal-1", ServiceID: "svc-cut", Dates: []time.Time{f.date}}

	first, err := f.svc.Bulk(context.Background(), q)
	require.NoError(t, err)
	queriesAfterFirst := f.source.queries

	second, err := f.svc.Bulk(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, queriesAfterFirst, f.source.queries, "second call must not hit the interval source")
	assert.Positive(t, f.cache.hits)
}
