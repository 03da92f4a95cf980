package availability

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/saloniq/salon-booking-backend/internal/catalog"
	"github.com/saloniq/salon-booking-backend/internal/metrics"
	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/salon"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
	"github.com/saloniq/salon-booking-backend/internal/staff"
)

// MaxBulkDates caps one bulk availability request.
const MaxBulkDates = 90

// summaryTTL bounds how stale a cached day summary may be. Summaries feed
// calendar overviews only; the allocator always re-validates.
const summaryTTL = 30 * time.Second

var (
	ErrTooManyDates = apperror.New(http.StatusUnprocessableEntity, "too_many_dates", "bulk availability is limited to 90 dates per request")

	// ErrStaffNotEligible rejects a named-staff query the allocator would
	// refuse anyway: availability and booking agree on eligibility.
	ErrStaffNotEligible = apperror.New(http.StatusUnprocessableEntity, "no_eligible_staff", "staff member does not offer this service")
)

// SalonDirectory is the slice of the salon service the resolver needs.
type SalonDirectory interface {
	GetByID(ctx context.Context, id string) (*salon.Salon, error)
}

// ServiceCatalog is the slice of the catalog service the resolver needs.
type ServiceCatalog interface {
	GetByID(ctx context.Context, id string) (*catalog.Service, error)
}

// StaffDirectory is the slice of the staff service the resolver needs.
type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (*staff.Staff, error)
	List(ctx context.Context, filter staff.Filter) ([]*staff.Staff, int, error)
	IsQualified(ctx context.Context, staffID, serviceID string) (bool, error)
}

// WindowResolver resolves the effective working window for a staff day.
type WindowResolver interface {
	ResolveWindow(ctx context.Context, salonID, staffID string, date time.Time) (schedule.Window, error)
}

// SummaryCache stores bulk day summaries. A nil value disables caching.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type DayQuery struct {
	SalonID   string
	StaffID   string // empty queries any qualified staff
	ServiceID string
	Date      time.Time
}

// DaySlots lists every start time the requested service can begin at.
// For an any-staff query a start is listed when at least one qualified staff
// member is free for the whole run.
type DaySlots struct {
	Date   time.Time
	Step   int
	Starts []int
}

type BulkQuery struct {
	SalonID   string
	StaffID   string
	ServiceID string
	Dates     []time.Time
}

// DaySummary is the per-date row of a bulk response. Open is false only when
// nobody works that day; a fully booked working day is Open with zero slots.
type DaySummary struct {
	Date          string `json:"date"`
	Open          bool   `json:"open"`
	FreeSlotCount int    `json:"free_slot_count"`
}

type Service interface {
	Day(ctx context.Context, q DayQuery) (*DaySlots, error)
	Bulk(ctx context.Context, q BulkQuery) ([]DaySummary, error)
}

type service struct {
	source   IntervalSource
	salons   SalonDirectory
	services ServiceCatalog
	staff    StaffDirectory
	schedule WindowResolver
	cache    SummaryCache
}

func NewService(source IntervalSource, salons SalonDirectory, services ServiceCatalog, staffDir StaffDirectory, scheduleSvc WindowResolver, summaryCache SummaryCache) Service {
	return &service{
		source:   source,
		salons:   salons,
		services: services,
		staff:    staffDir,
		schedule: scheduleSvc,
		cache:    summaryCache,
	}
}

func (s *service) Day(ctx context.Context, q DayQuery) (*DaySlots, error) {
	started := time.Now()
	defer func() {
		metrics.ObserveAvailability("day", time.Since(started).Seconds())
	}()

	sal, svc, candidates, err := s.resolveQuery(ctx, q.SalonID, q.StaffID, q.ServiceID)
	if err != nil {
		return nil, err
	}

	date := clockwork.Midnight(q.Date)
	_, starts, err := s.dayStarts(ctx, sal, svc.DurationMinutes, candidates, date)
	if err != nil {
		return nil, err
	}

	return &DaySlots{Date: date, Step: sal.SlotStepMinutes, Starts: starts}, nil
}

func (s *service) Bulk(ctx context.Context, q BulkQuery) ([]DaySummary, error) {
	if len(q.Dates) > MaxBulkDates {
		return nil, ErrTooManyDates
	}

	started := time.Now()
	defer func() {
		metrics.ObserveAvailability("bulk", time.Since(started).Seconds())
	}()

	sal, svc, candidates, err := s.resolveQuery(ctx, q.SalonID, q.StaffID, q.ServiceID)
	if err != nil {
		return nil, err
	}

	summaries := make([]DaySummary, 0, len(q.Dates))
	for _, d := range q.Dates {
		date := clockwork.Midnight(d)
		key := summaryKey(q.SalonID, q.StaffID, q.ServiceID, date)

		if cached, ok := s.cachedSummary(ctx, key); ok {
			summaries = append(summaries, *cached)
			continue
		}

		open, starts, err := s.dayStarts(ctx, sal, svc.DurationMinutes, candidates, date)
		if err != nil {
			return nil, err
		}

		summary := DaySummary{
			Date:          clockwork.FormatDate(date),
			Open:          open,
			FreeSlotCount: len(starts),
		}
		s.storeSummary(ctx, key, summary)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// resolveQuery loads the salon and service and the candidate staff list.
func (s *service) resolveQuery(ctx context.Context, salonID, staffID, serviceID string) (*salon.Salon, *catalog.Service, []*staff.Staff, error) {
	sal, err := s.salons.GetByID(ctx, salonID)
	if err != nil {
		return nil, nil, nil, err
	}

	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, nil, nil, err
	}
	if svc.SalonID != salonID || !svc.Active {
		return nil, nil, nil, catalog.ErrNotFound
	}

	var candidates []*staff.Staff
	if staffID != "" {
		st, err := s.staff.GetByID(ctx, staffID)
		if err != nil {
			return nil, nil, nil, err
		}
		if st.SalonID != salonID || !st.Active {
			return nil, nil, nil, staff.ErrNotFound
		}
		qualified, err := s.staff.IsQualified(ctx, staffID, serviceID)
		if err != nil {
			return nil, nil, nil, err
		}
		if !qualified {
			return nil, nil, nil, ErrStaffNotEligible
		}
		candidates = []*staff.Staff{st}
	} else {
		candidates, _, err = s.staff.List(ctx, staff.Filter{SalonID: salonID, ActiveOnly: true, ServiceID: serviceID})
		if err != nil {
			return nil, nil, nil, err
		}
	}
	return sal, svc, candidates, nil
}

// dayStarts computes the union of valid start times over the candidates.
func (s *service) dayStarts(ctx context.Context, sal *salon.Salon, durationMinutes int, candidates []*staff.Staff, date time.Time) (bool, []int, error) {
	n := RequiredSlots(durationMinutes, sal.SlotStepMinutes)
	open := false
	union := make(map[int]bool)

	for _, st := range candidates {
		window, err := s.schedule.ResolveWindow(ctx, sal.ID, st.ID, date)
		if err != nil {
			return false, nil, err
		}
		if !window.Open {
			continue
		}
		open = true

		grid := NewGrid(window, sal.SlotStepMinutes)
		intervals, err := s.source.DayIntervals(ctx, st.ID, date)
		if err != nil {
			return false, nil, err
		}

		occ := BuildOccupancy(grid, intervals)
		for _, start := range ValidStarts(grid, occ, n) {
			union[start] = true
		}
	}

	starts := make([]int, 0, len(union))
	for start := range union {
		starts = append(starts, start)
	}
	sort.Ints(starts)
	return open, starts, nil
}

func summaryKey(salonID, staffID, serviceID string, date time.Time) string {
	if staffID == "" {
		staffID = "any"
	}
	return "avail:v1:" + salonID + ":" + staffID + ":" + serviceID + ":" + clockwork.FormatDate(date)
}

func (s *service) cachedSummary(ctx context.Context, key string) (*DaySummary, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var summary DaySummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("drop corrupt availability summary")
		return nil, false
	}
	return &summary, true
}

func (s *service) storeSummary(ctx context.Context, key string, summary DaySummary) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, summaryTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache availability summary failed")
	}
}
