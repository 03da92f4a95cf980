package http

import (
	"time"

	"github.com/saloniq/salon-booking-backend/internal/booking"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
)

type CreateBookingRequest struct {
	SalonID   string  `json:"salon_id" binding:"required,uuid"`
	StaffID   string  `json:"staff_id" binding:"omitempty,uuid"` // empty books any qualified staff
	ClientID  *string `json:"client_id" binding:"omitempty,uuid"`
	ServiceID string  `json:"service_id" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required"`  // YYYY-MM-DD
	Start     string  `json:"start" binding:"required"` // "HH:MM"
	Notes     string  `json:"notes"`
}

type MoveBookingRequest struct {
	Version int     `json:"version" binding:"required,min=1"`
	StaffID *string `json:"staff_id" binding:"omitempty,uuid"`
	Date    *string `json:"date"`
	Start   *string `json:"start"`
}

type ResizeBookingRequest struct {
	Version         int `json:"version" binding:"required,min=1"`
	DurationMinutes int `json:"duration_minutes" binding:"required,min=1"`
}

type ExtendBookingRequest struct {
	Version      int `json:"version" binding:"required,min=1"`
	ExtraMinutes int `json:"extra_minutes" binding:"required,min=1"`
}

type SetStatusRequest struct {
	Version int    `json:"version" binding:"required,min=1"`
	Status  string `json:"status" binding:"required,oneof=pending confirmed completed cancelled no_show"`
}

// SnapshotDTO is the undo token returned by mutating operations. Clients post
// it back unchanged to revert the operation.
type SnapshotDTO struct {
	BookingID       string `json:"booking_id" binding:"required,uuid"`
	StaffID         string `json:"staff_id" binding:"required,uuid"`
	Date            string `json:"date" binding:"required"`
	Start           string `json:"start" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	ExtraMinutes    int    `json:"extra_minutes" binding:"min=0"`
	Version         int    `json:"version" binding:"required,min=1"`
}

func NewSnapshotDTO(s booking.Snapshot) SnapshotDTO {
	return SnapshotDTO{
		BookingID:       s.BookingID,
		StaffID:         s.StaffID,
		Date:            clockwork.FormatDate(s.Date),
		Start:           clockwork.FormatClock(s.StartMinute),
		DurationMinutes: s.DurationMinutes,
		ExtraMinutes:    s.ExtraMinutes,
		Version:         s.Version,
	}
}

func (d SnapshotDTO) ToSnapshot() (booking.Snapshot, error) {
	date, err := clockwork.ParseDate(d.Date)
	if err != nil {
		return booking.Snapshot{}, err
	}
	start, err := clockwork.ParseClock(d.Start)
	if err != nil {
		return booking.Snapshot{}, err
	}
	return booking.Snapshot{
		BookingID:       d.BookingID,
		StaffID:         d.StaffID,
		Date:            date,
		StartMinute:     start,
		DurationMinutes: d.DurationMinutes,
		ExtraMinutes:    d.ExtraMinutes,
		Version:         d.Version,
	}, nil
}

type BookingResponse struct {
	ID              string    `json:"id"`
	SalonID         string    `json:"salon_id"`
	StaffID         string    `json:"staff_id"`
	ClientID        *string   `json:"client_id,omitempty"`
	ServiceID       *string   `json:"service_id,omitempty"`
	Date            string    `json:"date"`
	Start           string    `json:"start"`
	End             string    `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	ExtraMinutes    int       `json:"extra_minutes"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		SalonID:         b.SalonID,
		StaffID:         b.StaffID,
		ClientID:        b.ClientID,
		ServiceID:       b.ServiceID,
		Date:            clockwork.FormatDate(b.Date),
		Start:           clockwork.FormatClock(b.StartMinute),
		End:             clockwork.FormatClock(b.EndMinute()),
		DurationMinutes: b.DurationMinutes,
		ExtraMinutes:    b.ExtraMinutes,
		Status:          string(b.Status),
		Notes:           b.Notes,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// MutationResponse pairs the updated booking with its undo token.
type MutationResponse struct {
	Booking BookingResponse `json:"booking"`
	Undo    SnapshotDTO     `json:"undo"`
}

func NewMutationResponse(b *booking.Booking, snap *booking.Snapshot) MutationResponse {
	return MutationResponse{
		Booking: NewBookingResponse(b),
		Undo:    NewSnapshotDTO(*snap),
	}
}
