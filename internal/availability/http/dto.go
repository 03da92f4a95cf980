package http

import (
	"github.com/saloniq/salon-booking-backend/internal/availability"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
)

// SlotDTO is one bookable start time.
type SlotDTO struct {
	Start string `json:"start"` // "HH:MM"
}

type DayResponse struct {
	Date  string    `json:"date"`
	Step  int       `json:"step_minutes"`
	Slots []SlotDTO `json:"slots"`
}

func NewDayResponse(d *availability.DaySlots) DayResponse {
	slots := make([]SlotDTO, len(d.Starts))
	for i, s := range d.Starts {
		slots[i] = SlotDTO{Start: clockwork.FormatClock(s)}
	}
	return DayResponse{
		Date:  clockwork.FormatDate(d.Date),
		Step:  d.Step,
		Slots: slots,
	}
}

type BulkRequest struct {
	SalonID   string   `json:"salon_id" binding:"required,uuid"`
	StaffID   string   `json:"staff_id" binding:"omitempty,uuid"`
	ServiceID string   `json:"service_id" binding:"required,uuid"`
	Dates     []string `json:"dates" binding:"required,min=1,dive,required"`
}

type BulkResponse struct {
	Days []availability.DaySummary `json:"days"`
}
