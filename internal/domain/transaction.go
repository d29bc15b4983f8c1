package domain

import (
	"time"

	"gorm.io/gorm"

	"beautybook/internal/pkg/validator"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionSuccess   TransactionStatus = "success"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

type Bank string

const (
	BankKaspi   Bank = "kaspi"
	BankHalyk   Bank = "halyk"
	BankFreedom Bank = "freedom"
)

func (b Bank) Valid() bool {
	switch b {
	case BankKaspi, BankHalyk, BankFreedom:
		return true
	}
	return false
}

// Transaction is a balance top-up. It leaves pending exactly once, when the bank webhook arrives.
type Transaction struct {
	ID          int64             `gorm:"primaryKey" json:"id"`
	ProviderID  string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"provider_id" validate:"required"`
	UserID      int64             `gorm:"index;not null" json:"user_id" validate:"required"`
	Amount      int64             `gorm:"not null" json:"amount" validate:"gt=0"`
	Bank        Bank              `gorm:"type:varchar(16);not null" json:"bank" validate:"required,oneof=kaspi halyk freedom"`
	Status      TransactionStatus `gorm:"type:varchar(16);default:'pending';index" json:"status" validate:"required,oneof=pending success failed cancelled"`
	RawBody     string            `gorm:"type:text" json:"-"`
	FinalizedAt *time.Time        `json:"finalized_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(_ *gorm.DB) error { return validator.Struct(t) }

// Package is a prepaid bundle of visits sold for points.
type Package struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	SalonID   *int64    `gorm:"index" json:"salon_id,omitempty"`
	Name      string    `gorm:"not null" json:"name" validate:"required,max=255"`
	Price     int64     `gorm:"not null" json:"price" validate:"gte=0"`
	Visits    int       `gorm:"not null" json:"visits" validate:"gt=0"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Package) TableName() string { return "packages" }

func (p *Package) BeforeCreate(_ *gorm.DB) error { return validator.Struct(p) }

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Purchase{},
		&Package{},
		&Salon{},
		&Specialist{},
		&Service{},
		&Slot{},
		&Booking{},
		&Transaction{},
	}
}
