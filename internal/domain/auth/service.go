package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"beautybook/internal/domain"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/metrics"
)

type Config struct {
	CodePepper     string
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	MaxAttempts    int
	// ExposeDevCode returns the plain code in API responses when mail delivery fails.
	ExposeDevCode bool
}

type Service struct {
	users   UserRepository
	tokens  TokenIssuer
	mailer  Mailer
	cfg     Config
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(users UserRepository, tokens TokenIssuer, mailer Mailer, cfg Config, log *logger.Logger, m *metrics.Metrics) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Service{
		users:   users,
		tokens:  tokens,
		mailer:  mailer,
		cfg:     cfg,
		log:     log,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Login      string
	PersonalID string
	Password   string
	Name       string
	Phone      string
	Role       domain.UserRole
}

type RegisterResult struct {
	User     *domain.User
	CodeSent bool
	DevCode  string
}

// Register creates an unverified account and sends it a one-time code.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	login := normalizeLogin(in.Login)

	exists, err := s.users.ExistsByLoginOrPersonalID(ctx, login, in.PersonalID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return nil, ErrConflict
	}

	role := in.Role
	if role == "" {
		role = domain.RoleClient
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.cfg.CodeTTL)
	user := &domain.User{
		Login:                 login,
		PersonalID:            in.PersonalID,
		PasswordHash:          hash,
		Role:                  role,
		Name:                  in.Name,
		Phone:                 in.Phone,
		VerificationCodeHash:  hashVerificationCode(code, s.cfg.CodePepper),
		VerificationSentAt:    &now,
		VerificationExpiresAt: &expiresAt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	res := &RegisterResult{User: user, CodeSent: true}
	if mailErr := s.mailer.SendVerificationCode(ctx, user.Login, code); mailErr != nil {
		s.log.Error(mailErr, "verification code delivery failed", "user_id", user.ID)
		res.CodeSent = false
		if s.cfg.ExposeDevCode {
			res.DevCode = code
		}
	}

	s.log.Info("user registered", "user_id", user.ID, "role", string(user.Role))
	return res, nil
}

type LoginResult struct {
	Token string
	User  *domain.User
}

func (s *Service) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	user, err := s.users.GetByLogin(ctx, normalizeLogin(login))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			burnPasswordCheck(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}
