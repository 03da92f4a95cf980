package staff

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound   = apperror.New(http.StatusNotFound, "staff_not_found", "staff member not found")
	ErrEmptyName  = apperror.New(http.StatusBadRequest, "empty_name", "display name cannot be empty")
	ErrInvalidDay = apperror.New(http.StatusBadRequest, "invalid_working_day", "working day start must be before end")
)

// Staff is a bookable salon worker. Position orders staff lists and is the
// deterministic tie-break when allocating "any available staff".
type Staff struct {
	ID          string
	SalonID     string
	UserID      *string // optional login account
	DisplayName string
	Position    int
	Active      bool
	CreatedAt   time.Time
}

// Filter defines parameters for listing staff.
type Filter struct {
	SalonID    string
	ActiveOnly bool
	// ServiceID restricts the list to staff qualified for the service.
	ServiceID string
	// Page/PageSize paginate the listing; PageSize 0 returns everything.
	Page     int
	PageSize int
}
