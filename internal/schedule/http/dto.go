package http

import (
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

type CreateOverrideRequest struct {
	StaffID   string  `json:"staff_id" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required"` // YYYY-MM-DD
	IsWorking bool    `json:"is_working"`
	Start     *string `json:"start"` // "HH:MM", nil falls back to the weekday default
	End       *string `json:"end"`
}

type OverrideResponse struct {
	ID        string    `json:"id"`
	SalonID   string    `json:"salon_id"`
	StaffID   string    `json:"staff_id"`
	Date      string    `json:"date"`
	IsWorking bool      `json:"is_working"`
	Start     *string   `json:"start,omitempty"`
	End       *string   `json:"end,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewOverrideResponse(ov *schedule.Override) OverrideResponse {
	resp := OverrideResponse{
		ID:        ov.ID,
		SalonID:   ov.SalonID,
		StaffID:   ov.StaffID,
		Date:      clockwork.FormatDate(ov.Date),
		IsWorking: ov.IsWorking,
		CreatedAt: ov.CreatedAt,
	}
	if ov.StartMinute != nil {
		s := clockwork.FormatClock(*ov.StartMinute)
		resp.Start = &s
	}
	if ov.EndMinute != nil {
		e := clockwork.FormatClock(*ov.EndMinute)
		resp.End = &e
	}
	return resp
}

// WindowResponse is the resolved working window for one staff day.
type WindowResponse struct {
	Date  string `json:"date"`
	Open  bool   `json:"open"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

func NewWindowResponse(date time.Time, w schedule.Window) WindowResponse {
	resp := WindowResponse{Date: clockwork.FormatDate(date), Open: w.Open}
	if w.Open {
		resp.Start = clockwork.FormatClock(w.StartMinute)
		resp.End = clockwork.FormatClock(w.EndMinute)
	}
	return resp
}
