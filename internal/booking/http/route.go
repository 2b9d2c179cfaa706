package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("/availability", h.CheckAvailability)
		group.GET("/:id", h.Get)
		group.PATCH("/:id/status", h.UpdateStatus)
		group.POST("/:id/links", h.RetryLinks)
	}

	// Booking lists hang off the records they belong to.
	g.GET("/resources/:id/bookings", authMiddleware, h.ListForResource)
	g.GET("/parties/:type/:id/bookings", authMiddleware, h.ListForParty)
}
