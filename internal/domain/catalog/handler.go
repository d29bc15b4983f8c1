package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"beautybook/internal/middleware"
	"beautybook/internal/pkg/response"
	"beautybook/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

/* ---------- SALON HANDLERS ---------- */

// ListSalons
// @Summary		Список салонов
// @Tags		Catalog
// @Produce		json
// @Param		city	query	string	false	"Фильтр по городу"
// @Success		200	{object}	response.Envelope
// @Router		/salons [get]
func (h *Handler) ListSalons(c *gin.Context) {
	salons, err := h.service.ListSalons(c.Request.Context(), c.Query("city"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"salons": salons})
}

// GetSalon возвращает салон вместе со специалистами и услугами.
func (h *Handler) GetSalon(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	salon, err := h.service.GetSalon(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, salon)
}

func (h *Handler) CreateSalon(c *gin.Context) {
	var req CreateSalonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	salon, err := h.service.CreateSalon(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, salon)
}

func (h *Handler) AddSpecialist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CreateSpecialistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sp, err := h.service.AddSpecialist(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, sp)
}

func (h *Handler) AddService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	svc, err := h.service.AddService(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, svc)
}

/* ---------- SLOT HANDLERS ---------- */

// ListSlots получение свободных слотов
// @Summary		Свободные слоты
// @Tags		Catalog
// @Produce		json
// @Param		salon_id		query	integer	false	"ID салона"
// @Param		date			query	string	false	"Дата YYYY-MM-DD"
// @Param		specialist_id	query	integer	false	"ID специалиста"
// @Success		200	{object}	response.Envelope
// @Failure		400	{object}	response.Envelope
// @Router		/slots [get]
func (h *Handler) ListSlots(c *gin.Context) {
	var f SlotFilter
	if v := c.Query("salon_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "salon_id must be an integer")
			return
		}
		f.SalonID = id
	}
	if v := c.Query("specialist_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(c, "specialist_id must be an integer")
			return
		}
		f.SpecialistID = id
	}
	f.Date = c.Query("date")
	if f.Date != "" && !validator.IsDate(f.Date) {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.service.ListAvailableSlots(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"slots": slots})
}

func (h *Handler) GetSlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	slot, err := h.service.GetSlot(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slot)
}

func (h *Handler) CreateSlot(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	slot, err := h.service.CreateSlot(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, slot)
}

func (h *Handler) UpdateSlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	slot, err := h.service.UpdateSlot(c.Request.Context(), middleware.Actor(c), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, slot)
}

func (h *Handler) DeleteSlot(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSlot(c.Request.Context(), middleware.Actor(c), id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to perform this action")
	case errors.Is(err, ErrSlotBooked):
		response.Error(c, http.StatusConflict, "SLOT_BOOKED", "Slot is already booked")
	case errors.Is(err, ErrInvalidReference):
		response.Error(c, http.StatusBadRequest, "INVALID_REFERENCE", err.Error())
	case errors.Is(err, validator.ErrValidation):
		response.BadRequest(c, err.Error())
	default:
		response.Internal(c, err)
	}
}
