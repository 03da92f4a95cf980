package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saloniq/salon-booking-backend/internal/auth"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/pkg/request"
	"github.com/saloniq/salon-booking-backend/internal/pkg/response"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
)

type Handler struct {
	service schedule.Service
}

func NewHandler(service schedule.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateOverride(c *gin.Context) {
	var body CreateOverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := clockwork.ParseDate(body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := schedule.CreateOverrideRequest{
		SalonID:   auth.GetSalonID(c),
		StaffID:   body.StaffID,
		Date:      date,
		IsWorking: body.IsWorking,
	}
	if body.Start != nil {
		start, err := clockwork.ParseClock(*body.Start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.StartMinute = &start
	}
	if body.End != nil {
		end, err := clockwork.ParseClock(*body.End)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.EndMinute = &end
	}

	ov, err := h.service.CreateOverride(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewOverrideResponse(ov))
}

func (h *Handler) ListOverrides(c *gin.Context) {
	staffID := c.Query("staff_id")
	if staffID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "staff_id is required"})
		return
	}

	from, err := clockwork.ParseDate(c.DefaultQuery("from", clockwork.FormatDate(clockwork.Midnight(nowUTC()))))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := clockwork.ParseDate(c.DefaultQuery("to", clockwork.FormatDate(from.AddDate(0, 1, 0))))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	overrides, err := h.service.ListOverrides(c.Request.Context(), staffID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OverrideResponse, len(overrides))
	for i, ov := range overrides {
		items[i] = NewOverrideResponse(ov)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid override id"})
		return
	}

	if err := h.service.DeleteOverride(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResolveWindow exposes the effective working window for one staff day,
// mainly for calendar frontends.
func (h *Handler) ResolveWindow(c *gin.Context) {
	salonID := c.Query("salon_id")
	if salonID == "" {
		salonID = auth.GetSalonID(c)
	}
	if salonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "salon_id is required"})
		return
	}

	date, err := clockwork.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	window, err := h.service.ResolveWindow(c.Request.Context(), salonID, c.Query("staff_id"), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWindowResponse(date, window))
}
