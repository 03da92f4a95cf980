package schedule

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrOverrideNotFound = apperror.New(http.StatusNotFound, "override_not_found", "schedule override not found")
	ErrInvalidDay       = apperror.New(http.StatusBadRequest, "invalid_working_day", "start time must be before end time")
	ErrInvalidOverride  = apperror.New(http.StatusBadRequest, "invalid_override", "working override requires a valid time range")
)

// WorkingDay is the opening window for one weekday. When Enabled is false the
// minutes are ignored.
type WorkingDay struct {
	Enabled     bool
	StartMinute int
	EndMinute   int
}

// WeekSchedule holds one WorkingDay per weekday, indexed by time.Weekday
// (Sunday = 0).
type WeekSchedule [7]WorkingDay

// Day returns the schedule entry for the weekday of the given date.
func (w WeekSchedule) Day(date time.Time) WorkingDay {
	return w[int(date.Weekday())]
}

// Window is the resolved open/close range for a (staff, date). A closed day is
// the zero value.
type Window struct {
	Open        bool
	StartMinute int
	EndMinute   int
}

// Override replaces the weekly WorkingDay for one staff member on one exact
// date. It never expires implicitly; it is deleted explicitly.
type Override struct {
	ID          string
	SalonID     string
	StaffID     string
	Date        time.Time
	IsWorking   bool
	StartMinute *int // nil falls back to the weekday default
	EndMinute   *int
	CreatedAt   time.Time
}
