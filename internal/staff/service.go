package staff

import (
	"context"
	"strings"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

type CreateRequest struct {
	SalonID     string
	UserID      *string
	DisplayName string
	Position    int
}

type UpdateRequest struct {
	DisplayName *string
	Position    *int
	Active      *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Staff, error)
	GetByID(ctx context.Context, id string) (*Staff, error)
	List(ctx context.Context, filter Filter) ([]*Staff, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Staff, error)

	// WeekSchedule implements schedule.StaffHours.
	WeekSchedule(ctx context.Context, staffID string) (schedule.StaffWeek, error)
	SetWeekSchedule(ctx context.Context, staffID string, week schedule.StaffWeek) error

	SetServices(ctx context.Context, staffID string, serviceIDs []string) error
	IsQualified(ctx context.Context, staffID, serviceID string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Staff, error) {
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, ErrEmptyName
	}

	st := &Staff{
		SalonID:     req.SalonID,
		UserID:      req.UserID,
		DisplayName: req.DisplayName,
		Position:    req.Position,
		Active:      true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Staff, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Staff, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Staff, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return nil, ErrEmptyName
		}
		st.DisplayName = *req.DisplayName
	}
	if req.Position != nil {
		st.Position = *req.Position
	}
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := s.repo.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) WeekSchedule(ctx context.Context, staffID string) (schedule.StaffWeek, error) {
	return s.repo.WeekSchedule(ctx, staffID)
}

func (s *service) SetWeekSchedule(ctx context.Context, staffID string, week schedule.StaffWeek) error {
	for _, day := range week {
		if day == nil || !day.Enabled {
			continue
		}
		if day.StartMinute < 0 || day.EndMinute > clockwork.MinutesPerDay || day.StartMinute >= day.EndMinute {
			return ErrInvalidDay
		}
	}

	if _, err := s.repo.GetByID(ctx, staffID); err != nil {
		return err
	}
	return s.repo.SetWeekSchedule(ctx, staffID, week)
}

func (s *service) SetServices(ctx context.Context, staffID string, serviceIDs []string) error {
	if _, err := s.repo.GetByID(ctx, staffID); err != nil {
		return err
	}
	return s.repo.SetServices(ctx, staffID, serviceIDs)
}

func (s *service) IsQualified(ctx context.Context, staffID, serviceID string) (bool, error) {
	return s.repo.IsQualified(ctx, staffID, serviceID)
}
