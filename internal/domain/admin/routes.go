package admin

import "github.com/gin-gonic/gin"

// RegisterRoutes expects a group already behind JWTAuth + AdminOnly.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/bookings", h.ListBookings)
	admin.PUT("/bookings/:id/cancel", h.ForceCancel)

	admin.GET("/stats", h.GetStats)
}
