package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"beautybook/internal/domain"
	"beautybook/internal/middleware"
	"beautybook/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register создаёт неподтверждённый аккаунт и отправляет код.
// @Summary		Register
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	RegisterRequest	true	"payload"
// @Success		201	{object}	response.Envelope
// @Failure		409	{object}	response.Envelope
// @Router		/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Register(c.Request.Context(), RegisterInput{
		Login:      req.Login,
		PersonalID: req.PersonalID,
		Password:   req.Password,
		Name:       req.Name,
		Phone:      req.Phone,
		Role:       domain.UserRole(req.Role),
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			response.Error(c, http.StatusConflict, "CONFLICT", "Login or personal ID is already registered")
			return
		}
		response.Internal(c, err)
		return
	}

	data := gin.H{
		"user":              toUserResponse(res.User),
		"verification_sent": res.CodeSent,
	}
	if res.DevCode != "" {
		data["dev_code"] = res.DevCode
	}
	response.Success(c, http.StatusCreated, data)
}

// Verify подтверждает регистрацию по 6-значному коду.
// @Summary		Confirm registration
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	VerifyRequest	true	"payload"
// @Success		200	{object}	response.Envelope
// @Router		/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.service.ConfirmRegistration(c.Request.Context(), req.Login, req.Code)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{"status": "verified"})
	case errors.Is(err, ErrInvalidVerificationCodeFormat):
		response.Error(c, http.StatusBadRequest, "INVALID_CODE_FORMAT", "Verification code must be exactly 6 digits")
	case errors.Is(err, ErrCodeExpired):
		response.Error(c, http.StatusBadRequest, "CODE_EXPIRED", "Verification code expired, please register again")
	case errors.Is(err, ErrInvalidVerificationCode):
		response.Error(c, http.StatusBadRequest, "INVALID_CODE", "Invalid verification code")
	case errors.Is(err, ErrTooManyAttempts):
		response.Error(c, http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many invalid verification attempts")
	case errors.Is(err, ErrAlreadyVerified):
		response.Error(c, http.StatusConflict, "ALREADY_VERIFIED", "Email is already verified")
	default:
		response.Internal(c, err)
	}
}

// Resend отправляет новый код подтверждения.
func (h *Handler) Resend(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.ResendCode(c.Request.Context(), req.Login)
	if err != nil {
		switch {
		case errors.Is(err, ErrRateLimitExceeded):
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Please wait before requesting a new code")
		case errors.Is(err, ErrCodeExpired):
			response.Error(c, http.StatusBadRequest, "CODE_EXPIRED", "Verification code expired, please register again")
		default:
			response.Internal(c, err)
		}
		return
	}

	data := gin.H{"status": "accepted"}
	if res.DevCode != "" {
		data["dev_code"] = res.DevCode
	}
	response.Success(c, http.StatusOK, data)
}

// Login
// @Summary		Login
// @Tags		Auth
// @Accept		json
// @Produce		json
// @Param		body	body	LoginRequest	true	"payload"
// @Success		200	{object}	response.Envelope
// @Failure		401	{object}	response.Envelope
// @Router		/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid login or password")
		case errors.Is(err, ErrEmailNotVerified):
			response.Error(c, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Email must be verified before login")
		default:
			response.Internal(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": res.Token,
		"user":  toUserResponse(res.User),
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.service.GetMe(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Internal(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(user))
}
