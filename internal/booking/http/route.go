package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("", h.Create)
		group.POST("/:id/move", h.Move)
		group.POST("/:id/resize", h.Resize)
		group.POST("/:id/extend", h.Extend)
		group.POST("/:id/revert", h.Revert)
		group.POST("/:id/status", h.SetStatus)
	}
}
