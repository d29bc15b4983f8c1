package auth

import (
	"time"

	"beautybook/internal/domain"
)

type RegisterRequest struct {
	Login      string `json:"login" binding:"required,email"`
	PersonalID string `json:"personal_id" binding:"required,len=12,numeric"`
	Password   string `json:"password" binding:"required,min=8,max=72"`
	Name       string `json:"name" binding:"required,max=255"`
	Phone      string `json:"phone" binding:"omitempty,max=32"`
	// Role is "client" (default) or "salon".
	Role string `json:"role" binding:"omitempty,oneof=client salon"`
}

type VerifyRequest struct {
	Login string `json:"login" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type ResendRequest struct {
	Login string `json:"login" binding:"required,email"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID            int64             `json:"id"`
	Login         string            `json:"login"`
	Name          string            `json:"name"`
	Phone         string            `json:"phone,omitempty"`
	Role          domain.UserRole   `json:"role"`
	IsAdmin       bool              `json:"is_admin"`
	Balance       int64             `json:"balance"`
	EmailVerified bool              `json:"email_verified"`
	Purchases     []domain.Purchase `json:"purchases"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	purchases := u.Purchases
	if purchases == nil {
		purchases = []domain.Purchase{}
	}
	return UserResponse{
		ID:            u.ID,
		Login:         u.Login,
		Name:          u.Name,
		Phone:         u.Phone,
		Role:          u.Role,
		IsAdmin:       u.IsAdmin(),
		Balance:       u.Balance,
		EmailVerified: u.EmailVerified,
		Purchases:     purchases,
		CreatedAt:     u.CreatedAt,
	}
}
