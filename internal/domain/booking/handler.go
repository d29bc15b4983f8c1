package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"beautybook/internal/middleware"
	"beautybook/internal/pkg/response"
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

// ReserveSlot бронирует слот и списывает визит или баллы.
// @Summary		Reserve a slot
// @Tags		Bookings
// @Accept		json
// @Produce		json
// @Security	BearerAuth
// @Param		body	body	ReserveRequest	true	"slot"
// @Success		201	{object}	response.Envelope
// @Failure		402	{object}	response.Envelope	"INSUFFICIENT_FUNDS"
// @Failure		409	{object}	response.Envelope	"SLOT_UNAVAILABLE"
// @Router		/slots/reserve [post]
func (h *Handler) ReserveSlot(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "slot_id is required")
		return
	}

	b, err := h.service.ReserveSlot(c.Request.Context(), middleware.UserID(c), req.SlotID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) GetMyBookings(c *gin.Context) {
	list, err := h.service.ListMyBookings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// AcceptBooking — салон подтверждает запись (scheduled -> confirmed).
func (h *Handler) AcceptBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.AcceptBooking(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// ConfirmCompletion — визит состоялся, бронирование завершено.
// @Summary		Complete a booking
// @Tags		Bookings
// @Produce		json
// @Security	BearerAuth
// @Param		id	path	integer	true	"booking id"
// @Success		200	{object}	response.Envelope
// @Failure		409	{object}	response.Envelope	"INVALID_TRANSITION"
// @Router		/bookings/{id}/confirm [put]
func (h *Handler) ConfirmCompletion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.service.ConfirmCompletion(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// CancelBooking
// @Summary		Cancel a scheduled booking
// @Tags		Bookings
// @Produce		json
// @Security	BearerAuth
// @Param		id	path	integer	true	"booking id"
// @Success		200	{object}	response.Envelope
// @Failure		400	{object}	response.Envelope	"NOT_CANCELLABLE"
// @Router		/bookings/{id}/cancel [put]
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res, err := h.service.CancelBooking(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetSalonBookings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	list, err := h.service.ListSalonBookings(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

// HandleError maps workflow errors to HTTP responses. Exported for the admin handlers.
func HandleError(c *gin.Context, err error) { handleError(c, err) }

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		response.Error(c, http.StatusConflict, "SLOT_UNAVAILABLE", "Slot is no longer available")
	case errors.Is(err, ErrInsufficientFunds):
		response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "Not enough points or package visits")
	case errors.Is(err, ErrNotCancellable):
		response.Error(c, http.StatusBadRequest, "NOT_CANCELLABLE", "Only scheduled bookings can be cancelled")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking status does not allow this action")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't have permission to perform this action")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		response.Internal(c, err)
	}
}
