package salon

import (
	"context"
	"strings"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

type CreateRequest struct {
	Name            string
	Timezone        string
	SlotStepMinutes int
	AutoConfirm     bool
}

type UpdateRequest struct {
	Name            *string
	Timezone        *string
	SlotStepMinutes *int
	AutoConfirm     *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Salon, error)
	GetByID(ctx context.Context, id string) (*Salon, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Salon, error)

	// WeekSchedule implements schedule.SalonHours.
	WeekSchedule(ctx context.Context, salonID string) (schedule.WeekSchedule, error)
	SetWeekSchedule(ctx context.Context, salonID string, week schedule.WeekSchedule) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validStep(step int) bool {
	for _, s := range ValidSlotSteps {
		if step == s {
			return true
		}
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Salon, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !validStep(req.SlotStepMinutes) {
		return nil, ErrInvalidStep
	}

	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	sal := &Salon{
		Name:            req.Name,
		Timezone:        req.Timezone,
		SlotStepMinutes: req.SlotStepMinutes,
		AutoConfirm:     req.AutoConfirm,
	}
	if err := s.repo.Create(ctx, sal); err != nil {
		return nil, err
	}
	return sal, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Salon, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Salon, error) {
	sal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		sal.Name = *req.Name
	}
	if req.Timezone != nil {
		sal.Timezone = *req.Timezone
	}
	if req.SlotStepMinutes != nil {
		if !validStep(*req.SlotStepMinutes) {
			return nil, ErrInvalidStep
		}
		sal.SlotStepMinutes = *req.SlotStepMinutes
	}
	if req.AutoConfirm != nil {
		sal.AutoConfirm = *req.AutoConfirm
	}

	if err := s.repo.Update(ctx, sal); err != nil {
		return nil, err
	}
	return sal, nil
}

func (s *service) WeekSchedule(ctx context.Context, salonID string) (schedule.WeekSchedule, error) {
	return s.repo.WeekSchedule(ctx, salonID)
}

func (s *service) SetWeekSchedule(ctx context.Context, salonID string, week schedule.WeekSchedule) error {
	for _, day := range week {
		if !day.Enabled {
			continue
		}
		if day.StartMinute < 0 || day.EndMinute > clockwork.MinutesPerDay || day.StartMinute >= day.EndMinute {
			return ErrInvalidDay
		}
	}

	if _, err := s.repo.GetByID(ctx, salonID); err != nil {
		return err
	}
	return s.repo.SetWeekSchedule(ctx, salonID, week)
}
