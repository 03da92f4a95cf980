package catalog

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "service_not_found", "service not found")
	ErrEmptyName       = apperror.New(http.StatusBadRequest, "empty_name", "name cannot be empty")
	ErrInvalidDuration = apperror.New(http.StatusBadRequest, "invalid_duration", "duration must be positive")
)

// Service is a bookable offering; DurationMinutes drives slot allocation.
type Service struct {
	ID              string
	SalonID         string
	Name            string
	DurationMinutes int
	PriceCents      int
	Active          bool
	CreatedAt       time.Time
}
