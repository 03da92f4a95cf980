package http

import (
	"time"

	"github.com/saloniq/salon-booking-backend/internal/clientele"
)

type CreateClientRequest struct {
	DisplayName string  `json:"display_name" binding:"required"`
	Phone       *string `json:"phone"`
}

type ClientResponse struct {
	ID          string    `json:"id"`
	SalonID     string    `json:"salon_id"`
	DisplayName string    `json:"display_name"`
	Phone       *string   `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewClientResponse(c *clientele.Client) ClientResponse {
	return ClientResponse{
		ID:          c.ID,
		SalonID:     c.SalonID,
		DisplayName: c.DisplayName,
		Phone:       c.Phone,
		CreatedAt:   c.CreatedAt,
	}
}
