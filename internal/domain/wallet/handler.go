package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"beautybook/internal/domain"
	"beautybook/internal/middleware"
	"beautybook/internal/pkg/response"
	"beautybook/internal/pkg/validator"
)

const signatureHeader = "X-Signature"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetMyWallet
// @Summary		Баланс и пакеты текущего пользователя
// @Tags		Wallet
// @Produce		json
// @Security	BearerAuth
// @Success		200	{object}	response.Envelope
// @Router		/wallet [get]
func (h *Handler) GetMyWallet(c *gin.Context) {
	w, err := h.service.GetWallet(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

func (h *Handler) ListMyTransactions(c *gin.Context) {
	txns, err := h.service.ListTransactions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"transactions": txns})
}

func (h *Handler) ListPackages(c *gin.Context) {
	list, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"packages": list})
}

// CreatePackage — admin only.
func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	pkg, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, pkg)
}

// BuyPackage
// @Summary		Купить пакет за баллы
// @Tags		Wallet
// @Produce		json
// @Security	BearerAuth
// @Param		id	path	int	true	"Package ID"
// @Success		201	{object}	response.Envelope
// @Failure		402	{object}	response.Envelope	"INSUFFICIENT_FUNDS"
// @Router		/packages/{id}/buy [post]
func (h *Handler) BuyPackage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid package id")
		return
	}
	p, err := h.service.BuyPackage(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	txn, err := h.service.InitTopUp(c.Request.Context(), middleware.UserID(c), req.Amount, domain.Bank(req.Bank))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, txn)
}

// Webhook
// @Summary		Callback банка по пополнению
// @Tags		Payments
// @Accept		json
// @Produce		json
// @Param		X-Signature	header	string			true	"hex HMAC-SHA256 of the body"
// @Param		body		body	WebhookPayload	true	"payload"
// @Success		200	{object}	response.Envelope
// @Failure		401	{object}	response.Envelope	"INVALID_SIGNATURE"
// @Router		/payments/webhook [post]
func (h *Handler) Webhook(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "cannot read body")
		return
	}

	var payload WebhookPayload
	if err := binding.JSON.BindBody(raw, &payload); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.service.HandleWebhook(c.Request.Context(), raw, c.GetHeader(signatureHeader), payload)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSignature):
		response.Error(c, http.StatusUnauthorized, "INVALID_SIGNATURE", "Signature mismatch")
	case errors.Is(err, ErrInsufficientFunds):
		response.Error(c, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "Not enough points")
	case errors.Is(err, ErrPackageNotFound), errors.Is(err, ErrTransactionNotFound), errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrUnknownBank), errors.Is(err, ErrInvalidStatus):
		response.BadRequest(c, err.Error())
	case errors.Is(err, validator.ErrValidation):
		response.BadRequest(c, err.Error())
	default:
		response.Internal(c, err)
	}
}
