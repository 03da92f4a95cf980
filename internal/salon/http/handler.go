package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saloniq/salon-booking-backend/internal/pkg/request"
	"github.com/saloniq/salon-booking-backend/internal/pkg/response"
	"github.com/saloniq/salon-booking-backend/internal/salon"
)

type Handler struct {
	service salon.Service
}

func NewHandler(service salon.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateSalonRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	s, err := h.service.Create(c.Request.Context(), salon.CreateRequest{
		Name:            body.Name,
		Timezone:        body.Timezone,
		SlotStepMinutes: body.SlotStepMinutes,
		AutoConfirm:     body.AutoConfirm,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewSalonResponse(s))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid salon id"})
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSalonResponse(s))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid salon id"})
		return
	}

	var body UpdateSalonRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	s, err := h.service.Update(c.Request.Context(), uri.ID, salon.UpdateRequest{
		Name:            body.Name,
		Timezone:        body.Timezone,
		SlotStepMinutes: body.SlotStepMinutes,
		AutoConfirm:     body.AutoConfirm,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewSalonResponse(s))
}

func (h *Handler) GetWeekSchedule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid salon id"})
		return
	}

	week, err := h.service.WeekSchedule(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWeekScheduleResponse(week))
}

func (h *Handler) SetWeekSchedule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid salon id"})
		return
	}

	var body WeekScheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	week, err := body.ToWeek()
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.SetWeekSchedule(c.Request.Context(), uri.ID, week); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWeekScheduleResponse(week))
}
