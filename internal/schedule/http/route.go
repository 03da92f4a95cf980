package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saloniq/salon-booking-backend/internal/auth"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/working-window", h.ResolveWindow)

	group := g.Group("/overrides")
	group.Use(authMiddleware, auth.RequireRole(auth.RoleOwner, auth.RoleStaff))
	{
		group.POST("", h.CreateOverride)
		group.GET("", h.ListOverrides)
		group.DELETE("/:id", h.DeleteOverride)
	}
}
