package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"beautybook/internal/domain"
	"beautybook/internal/pkg/logger"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient balance")
	ErrUnknownBank         = errors.New("unsupported bank")
	ErrUserNotFound        = errors.New("user not found")
	ErrPackageNotFound     = errors.New("package not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidStatus       = errors.New("invalid webhook status")
)

type Service struct {
	db       *gorm.DB
	verifier SignatureVerifier
	log      *logger.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, verifier SignatureVerifier, log *logger.Logger) *Service {
	return &Service{
		db:       db,
		verifier: verifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetWallet(ctx context.Context, userID int64) (*Wallet, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Preload("Purchases", func(db *gorm.DB) *gorm.DB { return db.Order("purchased_at DESC, id DESC") }).
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	purchases := user.Purchases
	if purchases == nil {
		purchases = []domain.Purchase{}
	}
	return &Wallet{UserID: user.ID, Balance: user.Balance, Purchases: purchases}, nil
}

/* ---------- PACKAGES ---------- */

func (s *Service) ListPackages(ctx context.Context) ([]domain.Package, error) {
	list := []domain.Package{}
	err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("price ASC, id ASC").Find(&list).Error
	return list, err
}

func (s *Service) CreatePackage(ctx context.Context, in CreatePackageRequest) (*domain.Package, error) {
	pkg := &domain.Package{
		SalonID:  in.SalonID,
		Name:     in.Name,
		Price:    in.Price,
		Visits:   in.Visits,
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(pkg).Error; err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}
	return pkg, nil
}

// BuyPackage pays for a package with points and adds its visits as a new purchase.
func (s *Service) BuyPackage(ctx context.Context, userID, packageID int64) (*domain.Purchase, error) {
	var purchase *domain.Purchase

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pkg domain.Package
		if err := tx.Where("id = ? AND is_active = ?", packageID, true).First(&pkg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return err
		}

		res := tx.Model(&domain.User{}).
			Where("id = ? AND balance >= ?", userID, pkg.Price).
			UpdateColumn("balance", gorm.Expr("balance - ?", pkg.Price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var cnt int64
			if err := tx.Model(&domain.User{}).Where("id = ?", userID).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt == 0 {
				return ErrUserNotFound
			}
			return ErrInsufficientFunds
		}

		purchase = &domain.Purchase{
			UserID:      userID,
			PackageID:   &pkg.ID,
			PackageName: pkg.Name,
			Price:       pkg.Price,
			VisitsLeft:  pkg.Visits,
			PurchasedAt: s.now(),
		}
		return tx.Create(purchase).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("package purchased", "user_id", userID, "package_id", packageID, "purchase_id", purchase.ID)
	return purchase, nil
}

/* ---------- TOP-UPS ---------- */

// InitTopUp opens a pending transaction. Its provider id is what the bank echoes back.
func (s *Service) InitTopUp(ctx context.Context, userID, amount int64, bank domain.Bank) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !bank.Valid() {
		return nil, ErrUnknownBank
	}

	txn := &domain.Transaction{
		ProviderID: uuid.NewString(),
		UserID:     userID,
		Amount:     amount,
		Bank:       bank,
		Status:     domain.TransactionPending,
	}
	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return txn, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&txns).Error
	return txns, err
}

// HandleWebhook finalizes a pending top-up exactly once. Re-deliveries of a
// final transaction are acknowledged without effect.
func (s *Service) HandleWebhook(ctx context.Context, rawBody []byte, signature string, payload WebhookPayload) (*WebhookResult, error) {
	if err := s.verifier.Verify(rawBody, signature); err != nil {
		return nil, err
	}

	status := domain.TransactionStatus(payload.Status)
	switch status {
	case domain.TransactionSuccess, domain.TransactionFailed, domain.TransactionCancelled:
	default:
		return nil, ErrInvalidStatus
	}

	result := &WebhookResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn domain.Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("provider_id = ?", payload.ProviderID).
			First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		result.Transaction = &txn

		if txn.Status != domain.TransactionPending {
			result.AlreadyFinal = true
			return nil
		}

		now := s.now()
		res := tx.Model(&domain.Transaction{}).
			Where("id = ? AND status = ?", txn.ID, domain.TransactionPending).
			Updates(map[string]any{"status": status, "raw_body": string(rawBody), "finalized_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result.AlreadyFinal = true
			return nil
		}
		txn.Status = status
		txn.FinalizedAt = &now

		if status == domain.TransactionSuccess {
			return tx.Model(&domain.User{}).
				Where("id = ?", txn.UserID).
				UpdateColumn("balance", gorm.Expr("balance + ?", txn.Amount)).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyFinal {
		s.log.Info("top-up finalized",
			"provider_id", payload.ProviderID,
			"status", string(result.Transaction.Status),
			"amount", result.Transaction.Amount,
		)
	}
	return result, nil
}
