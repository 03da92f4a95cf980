package booking

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/availability"
	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound = apperror.New(http.StatusNotFound, "booking_not_found", "booking not found")

	// ErrSlotUnavailable rejects a placement that collides with an occupied
	// slot. Decorated with the conflicting interval via WithConflict.
	ErrSlotUnavailable = apperror.New(http.StatusConflict, "slot_unavailable", "requested time is no longer available")

	// ErrInvalidWindow rejects a placement outside the resolved working
	// window or off the slot grid.
	ErrInvalidWindow = apperror.New(http.StatusUnprocessableEntity, "invalid_window", "requested time is outside working hours or off the slot grid")

	// ErrBookingGone rejects an operation on a booking that was cancelled,
	// marked no-show or completed since the caller last read it.
	ErrBookingGone = apperror.New(http.StatusGone, "booking_gone", "booking no longer exists or is no longer modifiable")

	// ErrConcurrentModification rejects a version-guarded update whose
	// expected version no longer matches the stored row.
	ErrConcurrentModification = apperror.New(http.StatusConflict, "concurrent_modification", "booking was modified by another request")

	ErrInvalidDuration   = apperror.New(http.StatusUnprocessableEntity, "invalid_duration", "duration must be positive")
	ErrInvalidTransition = apperror.New(http.StatusUnprocessableEntity, "invalid_status_transition", "status transition not allowed")
	ErrNoEligibleStaff   = apperror.New(http.StatusUnprocessableEntity, "no_eligible_staff", "no active staff member can perform this service")
	ErrSnapshotMismatch  = apperror.New(http.StatusUnprocessableEntity, "snapshot_mismatch", "snapshot does not belong to this booking")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Occupies reports whether a booking in this status holds its slots.
// Cancelled and no-show rows stay in the table but free their time.
func (s Status) Occupies() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Mutable reports whether the booking can still be moved or resized.
func (s Status) Mutable() bool {
	return s == StatusPending || s == StatusConfirmed
}

func validStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// canTransition encodes the status lifecycle. Completed, cancelled and
// no-show are terminal.
func canTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled || to == StatusNoShow
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled || to == StatusNoShow
	}
	return false
}

// Booking is a committed placement of a service on a staff member's day.
// Version increments on every write; readers present it back on mutation so
// lost updates surface as ErrConcurrentModification.
type Booking struct {
	ID              string
	SalonID         string
	StaffID         string
	ClientID        *string
	ServiceID       *string
	Date            time.Time
	StartMinute     int
	DurationMinutes int
	ExtraMinutes    int
	Status          Status
	Notes           string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EndMinute is the occupied end of the booking, overrun included.
func (b *Booking) EndMinute() int {
	return b.StartMinute + b.DurationMinutes + b.ExtraMinutes
}

// Interval returns the occupied range of the booking.
func (b *Booking) Interval() availability.Interval {
	return availability.Interval{Start: b.StartMinute, End: b.EndMinute()}
}

// Snapshot captures the placement before a mutation so the operation can be
// undone. Version is the pre-mutation version: a revert only applies while
// the booking is exactly one write past the snapshot.
type Snapshot struct {
	BookingID       string    `json:"booking_id"`
	StaffID         string    `json:"staff_id"`
	Date            time.Time `json:"date"`
	StartMinute     int       `json:"start_minute"`
	DurationMinutes int       `json:"duration_minutes"`
	ExtraMinutes    int       `json:"extra_minutes"`
	Version         int       `json:"version"`
}

// Snapshot records the booking's current placement and version.
func (b *Booking) Snapshot() Snapshot {
	return Snapshot{
		BookingID:       b.ID,
		StaffID:         b.StaffID,
		Date:            b.Date,
		StartMinute:     b.StartMinute,
		DurationMinutes: b.DurationMinutes,
		ExtraMinutes:    b.ExtraMinutes,
		Version:         b.Version,
	}
}
