package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saloniq/salon-booking-backend/internal/auth"
	"github.com/saloniq/salon-booking-backend/internal/clientele"
	"github.com/saloniq/salon-booking-backend/internal/pkg/request"
	"github.com/saloniq/salon-booking-backend/internal/pkg/response"
)

type Handler struct {
	service clientele.Service
}

func NewHandler(service clientele.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateClientRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	client, err := h.service.Create(c.Request.Context(), clientele.CreateRequest{
		SalonID:     auth.GetSalonID(c),
		DisplayName: body.DisplayName,
		Phone:       body.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewClientResponse(client))
}

func (h *Handler) List(c *gin.Context) {
	salonID := auth.GetSalonID(c)
	if salonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "salon_id is required"})
		return
	}

	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination", "details": err.Error()})
		return
	}

	clients, total, err := h.service.List(c.Request.Context(), clientele.Filter{
		SalonID:  salonID,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ClientResponse, len(clients))
	for i, cl := range clients {
		items[i] = NewClientResponse(cl)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	client, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewClientResponse(client))
}
