package request

import (
	"time"

	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
)

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Validate performs custom validation for ByIDRequest.
func (r *ByIDRequest) Validate() error {
	return nil
}

// ListParams are the shared pagination parameters for list endpoints.
type ListParams struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=100"`
}

// ParseDate parses a required YYYY-MM-DD query/body value.
func ParseDate(s string) (time.Time, error) {
	return clockwork.ParseDate(s)
}

// ParseClock parses a required HH:MM query/body value into minutes.
func ParseClock(s string) (int, error) {
	return clockwork.ParseClock(s)
}
