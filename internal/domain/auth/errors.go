package auth

import "errors"

var (
	ErrConflict                      = errors.New("login or personal id already registered")
	ErrInvalidCredentials            = errors.New("invalid credentials")
	ErrUserNotFound                  = errors.New("user not found")
	ErrRateLimitExceeded             = errors.New("rate limit exceeded")
	ErrInvalidVerificationCode       = errors.New("invalid verification code")
	ErrInvalidVerificationCodeFormat = errors.New("invalid verification code format")
	ErrCodeExpired                   = errors.New("verification code expired")
	ErrAlreadyVerified               = errors.New("email already verified")
	ErrTooManyAttempts               = errors.New("too many attempts")
	ErrEmailNotVerified              = errors.New("email not verified")
)
