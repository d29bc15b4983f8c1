package wallet

import "beautybook/internal/domain"

// Wallet is the user's spendable state: points plus prepaid package visits.
type Wallet struct {
	UserID    int64             `json:"user_id"`
	Balance   int64             `json:"balance"`
	Purchases []domain.Purchase `json:"purchases"`
}

type CreatePackageRequest struct {
	SalonID *int64 `json:"salon_id"`
	Name    string `json:"name" binding:"required,max=255"`
	Price   int64  `json:"price" binding:"gte=0"`
	Visits  int    `json:"visits" binding:"required,gt=0"`
}

type TopUpRequest struct {
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Bank   string `json:"bank" binding:"required"`
}

// WebhookPayload is what the bank posts back once a top-up settles.
type WebhookPayload struct {
	ProviderID string `json:"provider_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

type WebhookResult struct {
	Transaction *domain.Transaction `json:"transaction"`
	// AlreadyFinal is set for re-deliveries; nothing was changed.
	AlreadyFinal bool `json:"already_final"`
}
