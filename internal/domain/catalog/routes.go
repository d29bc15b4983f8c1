package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	salons := r.Group("/salons")
	{
		salons.GET("", h.ListSalons)   // GET /api/salons?city=...
		salons.GET("/:id", h.GetSalon) // GET /api/salons/:id
	}

	slots := r.Group("/slots")
	{
		slots.GET("", h.ListSlots)   // GET /api/slots?salon_id=&date=&specialist_id=
		slots.GET("/:id", h.GetSlot) // GET /api/slots/:id
	}
}

// RegisterOwnerRoutes — only for salon owners and admins; ownership is checked per salon.
func (h *Handler) RegisterOwnerRoutes(r *gin.RouterGroup) {
	r.POST("/salons", h.CreateSalon)
	r.POST("/salons/:id/specialists", h.AddSpecialist)
	r.POST("/salons/:id/services", h.AddService)

	r.POST("/slots", h.CreateSlot)
	r.PUT("/slots/:id", h.UpdateSlot)
	r.DELETE("/slots/:id", h.DeleteSlot)
}
