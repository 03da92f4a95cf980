package schedule

import (
	"context"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
)

// StaffWeek holds per-weekday staff windows; a nil entry falls back to the
// salon weekday.
type StaffWeek [7]*WorkingDay

// Day returns the staff entry for the weekday of the given date, or nil.
func (w StaffWeek) Day(date time.Time) *WorkingDay {
	return w[int(date.Weekday())]
}

// SalonHours supplies a salon's weekly schedule.
type SalonHours interface {
	WeekSchedule(ctx context.Context, salonID string) (WeekSchedule, error)
}

// StaffHours supplies a staff member's weekly schedule overrides of the salon week.
type StaffHours interface {
	WeekSchedule(ctx context.Context, staffID string) (StaffWeek, error)
}

type CreateOverrideRequest struct {
	SalonID     string
	StaffID     string
	Date        time.Time
	IsWorking   bool
	StartMinute *int
	EndMinute   *int
}

type Service interface {
	// ResolveWindow resolves the working window for (staffID, date).
	// Empty staffID resolves the salon-wide window.
	ResolveWindow(ctx context.Context, salonID, staffID string, date time.Time) (Window, error)
	ListOverrides(ctx context.Context, staffID string, from, to time.Time) ([]*Override, error)
	CreateOverride(ctx context.Context, req CreateOverrideRequest) (*Override, error)
	DeleteOverride(ctx context.Context, id string) error
}

type service struct {
	repo       Repository
	salonHours SalonHours
	staffHours StaffHours
}

func NewService(repo Repository, salonHours SalonHours, staffHours StaffHours) Service {
	return &service{
		repo:       repo,
		salonHours: salonHours,
		staffHours: staffHours,
	}
}

func (s *service) ResolveWindow(ctx context.Context, salonID, staffID string, date time.Time) (Window, error) {
	salonWeek, err := s.salonHours.WeekSchedule(ctx, salonID)
	if err != nil {
		return Window{}, err
	}
	salonDay := salonWeek.Day(date)

	if staffID == "" {
		return Resolve(salonDay, nil, nil), nil
	}

	staffWeek, err := s.staffHours.WeekSchedule(ctx, staffID)
	if err != nil {
		return Window{}, err
	}

	ov, err := s.repo.GetForDate(ctx, staffID, date)
	if err != nil {
		return Window{}, err
	}

	return Resolve(salonDay, staffWeek.Day(date), ov), nil
}

func (s *service) ListOverrides(ctx context.Context, staffID string, from, to time.Time) ([]*Override, error) {
	return s.repo.ListForStaff(ctx, staffID, from, to)
}

func (s *service) CreateOverride(ctx context.Context, req CreateOverrideRequest) (*Override, error) {
	if req.IsWorking {
		if err := validateOverrideRange(req.StartMinute, req.EndMinute); err != nil {
			return nil, err
		}
	}

	ov := &Override{
		SalonID:     req.SalonID,
		StaffID:     req.StaffID,
		Date:        clockwork.Midnight(req.Date),
		IsWorking:   req.IsWorking,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
	}

	if err := s.repo.Create(ctx, ov); err != nil {
		return nil, err
	}
	return ov, nil
}

func (s *service) DeleteOverride(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateOverrideRange(start, end *int) error {
	for _, v := range []*int{start, end} {
		if v != nil && (*v < 0 || *v > clockwork.MinutesPerDay) {
			return ErrInvalidOverride
		}
	}
	if start != nil && end != nil && *start >= *end {
		return ErrInvalidOverride
	}
	return nil
}
