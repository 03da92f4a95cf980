package http

import (
	"github.com/gin-gonic/gin"

	"github.com/saloniq/salon-booking-backend/internal/auth"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/time-blocks")

	group.Use(authMiddleware, auth.RequireRole(auth.RoleOwner, auth.RoleStaff))
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.DELETE("/:id", h.Delete)
	}
}
