package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saloniq/salon-booking-backend/internal/availability"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

// Day returns the bookable start times for one date.
// GET /availability?salon_id=&service_id=&date=&staff_id=
func (h *Handler) Day(c *gin.Context) {
	salonID := c.Query("salon_id")
	serviceID := c.Query("service_id")
	if salonID == "" || serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "salon_id and service_id are required"})
		return
	}

	date, err := clockwork.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.service.Day(c.Request.Context(), availability.DayQuery{
		SalonID:   salonID,
		StaffID:   c.Query("staff_id"),
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewDayResponse(slots))
}

// Bulk returns per-date summaries for a calendar overview.
func (h *Handler) Bulk(c *gin.Context) {
	var body BulkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	dates := make([]time.Time, len(body.Dates))
	for i, d := range body.Dates {
		date, err := clockwork.ParseDate(d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		dates[i] = date
	}

	summaries, err := h.service.Bulk(c.Request.Context(), availability.BulkQuery{
		SalonID:   body.SalonID,
		StaffID:   body.StaffID,
		ServiceID: body.ServiceID,
		Dates:     dates,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, BulkResponse{Days: summaries})
}
