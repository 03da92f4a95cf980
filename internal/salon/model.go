package salon

import (
	"net/http"
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "salon_not_found", "salon not found")
	ErrEmptyName   = apperror.New(http.StatusBadRequest, "empty_name", "name cannot be empty")
	ErrInvalidStep = apperror.New(http.StatusBadRequest, "invalid_slot_step", "slot step must be 5, 15 or 30 minutes")
	ErrInvalidDay  = apperror.New(http.StatusBadRequest, "invalid_working_day", "working day start must be before end")
)

// ValidSlotSteps are the tenant-selectable grid step sizes in minutes.
var ValidSlotSteps = []int{5, 15, 30}

// Salon is a tenant. SlotStepMinutes is the booking grid quantum; AutoConfirm
// decides whether allocated bookings start as confirmed or pending.
type Salon struct {
	ID              string
	Name            string
	Timezone        string
	SlotStepMinutes int
	AutoConfirm     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
