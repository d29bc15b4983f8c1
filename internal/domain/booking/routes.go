package booking

import "github.com/gin-gonic/gin"

// RegisterRoutes — маршруты клиента (нужен JWT).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/slots/reserve", h.ReserveSlot)

	rg.GET("/bookings/me", h.GetMyBookings)
	rg.GET("/bookings/:id", h.GetBooking)
	rg.PUT("/bookings/:id/cancel", h.CancelBooking)
}

// RegisterSalonRoutes — для владельцев салонов и админов; владение проверяется в сервисе.
func (h *Handler) RegisterSalonRoutes(rg *gin.RouterGroup) {
	rg.PUT("/bookings/:id/accept", h.AcceptBooking)
	rg.PUT("/bookings/:id/confirm", h.ConfirmCompletion)
	rg.GET("/salons/:id/bookings", h.GetSalonBookings)
}
