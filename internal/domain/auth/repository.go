package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"beautybook/internal/database"
	"beautybook/internal/domain"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Preload("Purchases", func(db *gorm.DB) *gorm.DB { return db.Order("purchased_at DESC, id DESC") }).
		First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) ExistsByLoginOrPersonalID(ctx context.Context, login, personalID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("login = ? OR personal_id = ?", login, personalID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *userRepository) SetVerificationCode(ctx context.Context, userID int64, codeHash string, sentAt, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND email_verified = ?", userID, false).
		Updates(map[string]any{
			"verification_code_hash":  codeHash,
			"verification_sent_at":    sentAt,
			"verification_expires_at": expiresAt,
			"verification_attempts":   0,
		}).Error
}

func (r *userRepository) IncrementVerificationAttempts(ctx context.Context, userID int64) (int, error) {
	var attempts int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.User{}).
			Where("id = ?", userID).
			UpdateColumn("verification_attempts", gorm.Expr("verification_attempts + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).Where("id = ?", userID).Pluck("verification_attempts", &attempts).Error
	})
	return attempts, err
}

// MarkVerified flips the flag once; a second caller gets ErrAlreadyVerified.
func (r *userRepository) MarkVerified(ctx context.Context, userID int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ? AND email_verified = ?", userID, false).
		Updates(map[string]any{
			"email_verified":          true,
			"email_verified_at":       at,
			"verification_code_hash":  "",
			"verification_expires_at": nil,
			"verification_attempts":   0,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyVerified
	}
	return nil
}

func (r *userRepository) DeleteUnverified(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND email_verified = ?", userID, false).
		Delete(&domain.User{}).Error
}

func (r *userRepository) DeleteExpiredUnverified(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("email_verified = ? AND verification_expires_at IS NOT NULL AND verification_expires_at < ?", false, before).
		Delete(&domain.User{})
	return res.RowsAffected, res.Error
}
