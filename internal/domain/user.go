package domain

import (
	"time"

	"gorm.io/gorm"

	"beautybook/internal/pkg/validator"
)

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleSalon  UserRole = "salon"
	RoleAdmin  UserRole = "admin"
)

// User is an account. Login is the e-mail address the verification code goes to.
type User struct {
	ID           int64    `json:"id" gorm:"primaryKey"`
	Login        string   `json:"login" gorm:"type:varchar(255);uniqueIndex;not null" validate:"required,email"`
	PersonalID   string   `json:"personal_id" gorm:"column:personal_id;type:varchar(12);uniqueIndex;not null" validate:"required,personal_id"`
	PasswordHash string   `json:"-" gorm:"not null" validate:"required"`
	Role         UserRole `json:"role" gorm:"type:varchar(16);not null;default:'client'" validate:"required,oneof=client salon admin"`
	Name         string   `json:"name" validate:"max=255"`
	Phone        string   `json:"phone,omitempty" validate:"max=32"`
	Balance      int64    `json:"balance" gorm:"not null;default:0" validate:"gte=0"`

	EmailVerified         bool       `json:"email_verified" gorm:"not null;default:false"`
	EmailVerifiedAt       *time.Time `json:"email_verified_at,omitempty"`
	VerificationCodeHash  string     `json:"-" gorm:"type:varchar(64)"`
	VerificationExpiresAt *time.Time `json:"-" gorm:"index"`
	VerificationSentAt    *time.Time `json:"-"`
	VerificationAttempts  int        `json:"-" gorm:"not null;default:0"`

	Purchases []Purchase `json:"purchases,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	return validator.Struct(u)
}

// Purchase is a prepaid package bought by a user; VisitsLeft is spent one per booking.
type Purchase struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"index;not null" validate:"required"`
	PackageID   *int64    `json:"package_id,omitempty" gorm:"index"`
	PackageName string    `json:"package_name" gorm:"not null" validate:"required"`
	Price       int64     `json:"price" gorm:"not null;default:0" validate:"gte=0"`
	VisitsLeft  int       `json:"visits_left" gorm:"not null;default:0" validate:"gte=0"`
	PurchasedAt time.Time `json:"date" gorm:"index;not null" validate:"required"`
}

func (Purchase) TableName() string { return "purchases" }

func (p *Purchase) BeforeCreate(_ *gorm.DB) error {
	return validator.Struct(p)
}

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
