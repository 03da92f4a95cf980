package http

import (
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/timeblock"
)

type CreateTimeBlockRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	Date    string `json:"date" binding:"required"` // YYYY-MM-DD
	Start   string `json:"start" binding:"required"`
	End     string `json:"end" binding:"required"`
	Title   string `json:"title"`
	Kind    string `json:"kind" binding:"omitempty,oneof=break day_off closure other"`
}

type TimeBlockResponse struct {
	ID        string    `json:"id"`
	SalonID   string    `json:"salon_id"`
	StaffID   string    `json:"staff_id"`
	Date      string    `json:"date"`
	Start     string    `json:"start"`
	End       string    `json:"end"`
	Title     string    `json:"title,omitempty"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTimeBlockResponse(tb *timeblock.TimeBlock) TimeBlockResponse {
	return TimeBlockResponse{
		ID:        tb.ID,
		SalonID:   tb.SalonID,
		StaffID:   tb.StaffID,
		Date:      clockwork.FormatDate(tb.Date),
		Start:     clockwork.FormatClock(tb.StartMinute),
		End:       clockwork.FormatClock(tb.EndMinute),
		Title:     tb.Title,
		Kind:      string(tb.Kind),
		CreatedAt: tb.CreatedAt,
	}
}
