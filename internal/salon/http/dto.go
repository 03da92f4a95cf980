package http

import (
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/salon"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

type CreateSalonRequest struct {
	Name            string `json:"name" binding:"required"`
	Timezone        string `json:"timezone"`
	SlotStepMinutes int    `json:"slot_step_minutes" binding:"required"`
	AutoConfirm     bool   `json:"auto_confirm"`
}

type UpdateSalonRequest struct {
	Name            *string `json:"name"`
	Timezone        *string `json:"timezone"`
	SlotStepMinutes *int    `json:"slot_step_minutes"`
	AutoConfirm     *bool   `json:"auto_confirm"`
}

type SalonResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Timezone        string    `json:"timezone"`
	SlotStepMinutes int       `json:"slot_step_minutes"`
	AutoConfirm     bool      `json:"auto_confirm"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewSalonResponse(s *salon.Salon) SalonResponse {
	return SalonResponse{
		ID:              s.ID,
		Name:            s.Name,
		Timezone:        s.Timezone,
		SlotStepMinutes: s.SlotStepMinutes,
		AutoConfirm:     s.AutoConfirm,
		CreatedAt:       s.CreatedAt,
	}
}

// WorkingDayDTO is the wire shape of one weekday's hours.
type WorkingDayDTO struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start,omitempty"` // "HH:MM"
	End     string `json:"end,omitempty"`
}

// WeekScheduleRequest carries seven days, Sunday first.
type WeekScheduleRequest struct {
	Days [7]WorkingDayDTO `json:"days" binding:"required"`
}

func (r *WeekScheduleRequest) ToWeek() (schedule.WeekSchedule, error) {
	var week schedule.WeekSchedule
	for i, d := range r.Days {
		if !d.Enabled {
			continue
		}
		start, err := clockwork.ParseClock(d.Start)
		if err != nil {
			return week, schedule.ErrInvalidDay
		}
		end, err := clockwork.ParseClock(d.End)
		if err != nil {
			return week, schedule.ErrInvalidDay
		}
		week[i] = schedule.WorkingDay{Enabled: true, StartMinute: start, EndMinute: end}
	}
	return week, nil
}

type WeekScheduleResponse struct {
	Days [7]WorkingDayDTO `json:"days"`
}

func NewWeekScheduleResponse(week schedule.WeekSchedule) WeekScheduleResponse {
	var resp WeekScheduleResponse
	for i, d := range week {
		if !d.Enabled {
			continue
		}
		resp.Days[i] = WorkingDayDTO{
			Enabled: true,
			Start:   clockwork.FormatClock(d.StartMinute),
			End:     clockwork.FormatClock(d.EndMinute),
		}
	}
	return resp
}
