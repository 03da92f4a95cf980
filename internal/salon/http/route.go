package http

import (
	"github.com/gin-gonic/gin"

	"github.com/saloniq/salon-booking-backend/internal/auth"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/salons")

	group.GET("/:id", h.Get)
	group.GET("/:id/working-hours", h.GetWeekSchedule)

	group.Use(authMiddleware)
	{
		owner := group.Group("", auth.RequireRole(auth.RoleOwner))
		owner.POST("", h.Create)
		owner.PATCH("/:id", h.Update)
		owner.PUT("/:id/working-hours", h.SetWeekSchedule)
	}
}
