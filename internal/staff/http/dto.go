package http

import (
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
	"github.com/saloniq/salon-booking-backend/internal/staff"
)

type CreateStaffRequest struct {
	UserID      *string `json:"user_id" binding:"omitempty,uuid"`
	DisplayName string  `json:"display_name" binding:"required"`
	Position    int     `json:"position"`
}

type UpdateStaffRequest struct {
	DisplayName *string `json:"display_name"`
	Position    *int    `json:"position"`
	Active      *bool   `json:"active"`
}

type StaffResponse struct {
	ID          string    `json:"id"`
	SalonID     string    `json:"salon_id"`
	UserID      *string   `json:"user_id,omitempty"`
	DisplayName string    `json:"display_name"`
	Position    int       `json:"position"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewStaffResponse(s *staff.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		SalonID:     s.SalonID,
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		Position:    s.Position,
		Active:      s.Active,
		CreatedAt:   s.CreatedAt,
	}
}

// StaffDayDTO is one weekday's staff hours; a null entry falls back to the
// salon's hours for that weekday.
type StaffDayDTO struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start,omitempty"` // "HH:MM"
	End     string `json:"end,omitempty"`
}

type StaffWeekRequest struct {
	Days [7]*StaffDayDTO `json:"days" binding:"required"`
}

func (r *StaffWeekRequest) ToWeek() (schedule.StaffWeek, error) {
	var week schedule.StaffWeek
	for i, d := range r.Days {
		if d == nil {
			continue
		}
		day := schedule.WorkingDay{Enabled: d.Enabled}
		if d.Enabled {
			start, err := clockwork.ParseClock(d.Start)
			if err != nil {
				return week, staff.ErrInvalidDay
			}
			end, err := clockwork.ParseClock(d.End)
			if err != nil {
				return week, staff.ErrInvalidDay
			}
			day.StartMinute = start
			day.EndMinute = end
		}
		week[i] = &day
	}
	return week, nil
}

type StaffWeekResponse struct {
	Days [7]*StaffDayDTO `json:"days"`
}

func NewStaffWeekResponse(week schedule.StaffWeek) StaffWeekResponse {
	var resp StaffWeekResponse
	for i, d := range week {
		if d == nil {
			continue
		}
		dto := StaffDayDTO{Enabled: d.Enabled}
		if d.Enabled {
			dto.Start = clockwork.FormatClock(d.StartMinute)
			dto.End = clockwork.FormatClock(d.EndMinute)
		}
		resp.Days[i] = &dto
	}
	return resp
}

type SetServicesRequest struct {
	ServiceIDs []string `json:"service_ids" binding:"required,dive,uuid"`
}
