package timeblock

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "time_block_not_found", "time block not found")
	ErrInvalidRange = apperror.New(http.StatusBadRequest, "invalid_time_range", "start time must be before end time")
	ErrInvalidKind  = apperror.New(http.StatusBadRequest, "invalid_kind", "invalid time block kind")
)

// Kind classifies why a staff member blocked the interval.
type Kind string

const (
	KindBreak   Kind = "break"
	KindDayOff  Kind = "day_off"
	KindClosure Kind = "closure"
	KindOther   Kind = "other"
)

// TimeBlock is a staff-initiated occupied interval with no client attached
// (lunch, day off, urgent closure). It occupies slots exactly like a booking
// and is removed by explicit deletion, never by expiry.
type TimeBlock struct {
	ID          string
	SalonID     string
	StaffID     string
	Date        time.Time
	StartMinute int
	EndMinute   int
	Title       string
	Kind        Kind
	CreatedAt   time.Time
}
