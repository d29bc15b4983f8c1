package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"beautybook/internal/domain"
	"beautybook/internal/domain/booking"
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

// ListBookings godoc
// @Summary		Все бронирования платформы
// @Tags		Admin
// @Security	BearerAuth
// @Produce		json
// @Param		status		query	string	false	"scheduled | confirmed | completed | cancelled"
// @Param		salon_id	query	int		false	"Salon"
// @Param		user_id		query	int		false	"Client"
// @Param		date		query	string	false	"YYYY-MM-DD"
// @Param		page		query	int		false	"Page number"
// @Param		limit		query	int		false	"Items per page"
// @Success		200	{object}	response.Envelope
// @Router		/admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	f := booking.ListFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Date:   c.Query("date"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	switch f.Status {
	case "", domain.BookingScheduled, domain.BookingConfirmed, domain.BookingCompleted, domain.BookingCancelled:
	default:
		response.BadRequest(c, "unknown status")
		return
	}
	if f.Date != "" && !validator.IsDate(f.Date) {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}
	var ok bool
	if f.SalonID, ok = queryID(c, "salon_id"); !ok {
		return
	}
	if f.UserID, ok = queryID(c, "user_id"); !ok {
		return
	}

	list, total, err := h.service.ListBookings(c.Request.Context(), f)
	if err != nil {
		response.Internal(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"bookings": list,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// ForceCancel godoc
// @Summary		Отмена бронирования администратором
// @Tags		Admin
// @Security	BearerAuth
// @Produce		json
// @Param		id	path	int	true	"Booking ID"
// @Success		200	{object}	response.Envelope
// @Failure		400	{object}	response.Envelope	"NOT_CANCELLABLE"
// @Router		/admin/bookings/{id}/cancel [put]
func (h *Handler) ForceCancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return
	}

	res, err := h.service.ForceCancel(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		booking.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetStats(c *gin.Context) {
	st, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func queryID(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, key+" must be a positive integer")
		return 0, false
	}
	return id, true
}
