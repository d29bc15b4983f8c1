package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

var codeRegex = regexp.MustCompile(`^\d{6}$`)

// ConfirmRegistration checks a code against the stored hash. An expired code
// removes the never-verified account.
func (s *Service) ConfirmRegistration(ctx context.Context, login, code string) error {
	if !codeRegex.MatchString(code) {
		return ErrInvalidVerificationCodeFormat
	}

	user, err := s.users.GetByLogin(ctx, normalizeLogin(login))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidVerificationCode
		}
		return err
	}

	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	now := s.now()
	if user.VerificationExpiresAt == nil || now.After(*user.VerificationExpiresAt) {
		if delErr := s.users.DeleteUnverified(ctx, user.ID); delErr != nil {
			return fmt.Errorf("delete expired registration: %w", delErr)
		}
		s.log.Info("verification code expired, registration removed", "user_id", user.ID)
		return ErrCodeExpired
	}

	if user.VerificationAttempts >= s.cfg.MaxAttempts {
		return ErrTooManyAttempts
	}

	inputHash := hashVerificationCode(code, s.cfg.CodePepper)
	if subtle.ConstantTimeCompare([]byte(inputHash), []byte(user.VerificationCodeHash)) != 1 {
		attempts, incErr := s.users.IncrementVerificationAttempts(ctx, user.ID)
		if incErr != nil {
			return incErr
		}
		if attempts >= s.cfg.MaxAttempts {
			return ErrTooManyAttempts
		}
		return ErrInvalidVerificationCode
	}

	return s.users.MarkVerified(ctx, user.ID, now)
}

type ResendResult struct {
	CodeSent bool
	DevCode  string
}

// ResendCode issues a fresh code and restarts its TTL. Unknown or verified logins
// get the same empty answer.
func (s *Service) ResendCode(ctx context.Context, login string) (*ResendResult, error) {
	user, err := s.users.GetByLogin(ctx, normalizeLogin(login))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return &ResendResult{}, nil
		}
		return nil, err
	}
	if user.EmailVerified {
		return &ResendResult{}, nil
	}

	now := s.now()
	if user.VerificationExpiresAt == nil || now.After(*user.VerificationExpiresAt) {
		if delErr := s.users.DeleteUnverified(ctx, user.ID); delErr != nil {
			return nil, fmt.Errorf("delete expired registration: %w", delErr)
		}
		return nil, ErrCodeExpired
	}
	if user.VerificationSentAt != nil && user.VerificationSentAt.Add(s.cfg.ResendCooldown).After(now) {
		return nil, ErrRateLimitExceeded
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, err
	}
	if err := s.users.SetVerificationCode(ctx, user.ID, hashVerificationCode(code, s.cfg.CodePepper), now, now.Add(s.cfg.CodeTTL)); err != nil {
		return nil, err
	}

	res := &ResendResult{CodeSent: true}
	if mailErr := s.mailer.SendVerificationCode(ctx, user.Login, code); mailErr != nil {
		s.log.Error(mailErr, "verification code delivery failed", "user_id", user.ID)
		res.CodeSent = false
		if s.cfg.ExposeDevCode {
			res.DevCode = code
		}
	}
	return res, nil
}

// SweepExpiredUnverified deletes accounts whose code expired more than retention ago
// without ever being confirmed.
func (s *Service) SweepExpiredUnverified(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.users.DeleteExpiredUnverified(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	s.metrics.AddUnverifiedSwept(n)
	return n, nil
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashVerificationCode(code, pepper string) string {
	h := sha256.Sum256([]byte(code + pepper))
	return hex.EncodeToString(h[:])
}
