package timeblock

import (
	"context"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
)

type CreateRequest struct {
	SalonID     string
	StaffID     string
	Date        time.Time
	StartMinute int
	EndMinute   int
	Title       string
	Kind        Kind
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TimeBlock, error)
	ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]*TimeBlock, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validKind(k Kind) bool {
	switch k {
	case KindBreak, KindDayOff, KindClosure, KindOther:
		return true
	}
	return false
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*TimeBlock, error) {
	if req.StartMinute < 0 || req.EndMinute > clockwork.MinutesPerDay || req.StartMinute >= req.EndMinute {
		return nil, ErrInvalidRange
	}
	if req.Kind == "" {
		req.Kind = KindOther
	}
	if !validKind(req.Kind) {
		return nil, ErrInvalidKind
	}

	tb := &TimeBlock{
		SalonID:     req.SalonID,
		StaffID:     req.StaffID,
		Date:        clockwork.Midnight(req.Date),
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Title:       req.Title,
		Kind:        req.Kind,
	}
	if err := s.repo.Create(ctx, tb); err != nil {
		return nil, err
	}
	return tb, nil
}

func (s *service) ListForStaff(ctx context.Context, staffID string, from, to time.Time) ([]*TimeBlock, error) {
	return s.repo.ListForStaff(ctx, staffID, from, to)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
