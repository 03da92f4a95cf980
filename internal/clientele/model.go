package clientele

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound  = apperror.New(http.StatusNotFound, "client_not_found", "client not found")
	ErrEmptyName = apperror.New(http.StatusBadRequest, "empty_name", "display name cannot be empty")
)

// Client is a salon customer. Bookings reference clients by ID; walk-ins
// produce bookings without one.
type Client struct {
	ID          string
	SalonID     string
	DisplayName string
	Phone       *string
	CreatedAt   time.Time
}
