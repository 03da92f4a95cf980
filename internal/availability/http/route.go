package http

import (
	"github.com/gin-gonic/gin"
)

// Availability is public: prospective clients browse slots before signing in.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/availability")

	group.GET("", h.Day)
	group.POST("/bulk", h.Bulk)
}
