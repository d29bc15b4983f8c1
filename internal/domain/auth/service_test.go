package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"beautybook/internal/database"
	"beautybook/internal/domain"
	"beautybook/internal/pkg/jwt"
	"beautybook/internal/pkg/logger"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

type testEnv struct {
	svc    *Service
	db     *gorm.DB
	mailer *MockMailer
	now    time.Time
	codes  []string
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory("auth_" + name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestEnv(t *testing.T, mailErr error) *testEnv {
	t.Helper()
	env := &testEnv{
		db:     setupDB(t),
		mailer: new(MockMailer),
		now:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	env.mailer.On("SendVerificationCode", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { env.codes = append(env.codes, args.String(2)) }).
		Return(mailErr)

	env.svc = NewService(
		NewUserRepository(env.db),
		jwt.New("test-secret", time.Hour),
		env.mailer,
		Config{
			CodePepper:     "pepper",
			CodeTTL:        5 * time.Minute,
			ResendCooldown: time.Minute,
			MaxAttempts:    5,
			ExposeDevCode:  true,
		},
		logger.Nop(),
		nil,
	)
	env.svc.now = func() time.Time { return env.now }
	return env
}

func (e *testEnv) lastCode() string {
	return e.codes[len(e.codes)-1]
}

func registerAru(t *testing.T, env *testEnv) *RegisterResult {
	t.Helper()
	res, err := env.svc.Register(context.Background(), RegisterInput{
		Login:      "Aru@Mail.kz",
		PersonalID: "990101300123",
		Password:   "s3cret-pass",
		Name:       "Aru",
	})
	require.NoError(t, err)
	return res
}

func TestRegisterConfirmLogin_RoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	res := registerAru(t, env)
	assert.True(t, res.CodeSent)
	assert.Empty(t, res.DevCode)
	assert.Equal(t, "aru@mail.kz", res.User.Login)
	assert.False(t, res.User.EmailVerified)
	assert.Equal(t, domain.RoleClient, res.User.Role)

	_, err := env.svc.Login(ctx, "aru@mail.kz", "s3cret-pass")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	env.now = env.now.Add(4 * time.Minute)
	require.NoError(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", env.lastCode()))

	login, err := env.svc.Login(ctx, "ARU@mail.kz", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.True(t, login.User.EmailVerified)
}

func TestRegister_Conflict(t *testing.T) {
	env := newTestEnv(t, nil)
	registerAru(t, env)

	_, err := env.svc.Register(context.Background(), RegisterInput{
		Login:      "other@mail.kz",
		PersonalID: "990101300123",
		Password:   "another-pass",
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Register(context.Background(), RegisterInput{
		Login:      "aru@mail.kz",
		PersonalID: "880101300999",
		Password:   "another-pass",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_MailFailureExposesDevCode(t *testing.T) {
	env := newTestEnv(t, errors.New("smtp unreachable"))

	res := registerAru(t, env)
	assert.False(t, res.CodeSent)
	assert.Equal(t, env.lastCode(), res.DevCode)

	require.NoError(t, env.svc.ConfirmRegistration(context.Background(), "aru@mail.kz", res.DevCode))
}

func TestConfirm_ExpiredCodeDeletesUser(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	res := registerAru(t, env)

	env.now = env.now.Add(5*time.Minute + time.Second)
	err := env.svc.ConfirmRegistration(ctx, "aru@mail.kz", env.lastCode())
	assert.ErrorIs(t, err, ErrCodeExpired)

	var cnt int64
	require.NoError(t, env.db.Model(&domain.User{}).Where("id = ?", res.User.ID).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestConfirm_AtExactExpiryStillValid(t *testing.T) {
	env := newTestEnv(t, nil)
	registerAru(t, env)

	env.now = env.now.Add(5 * time.Minute)
	assert.NoError(t, env.svc.ConfirmRegistration(context.Background(), "aru@mail.kz", env.lastCode()))
}

func TestConfirm_WrongCodeAndAttempts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	registerAru(t, env)

	wrong := "000000"
	if env.lastCode() == wrong {
		wrong = "111111"
	}

	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", wrong), ErrInvalidVerificationCode)
	}
	assert.ErrorIs(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", wrong), ErrTooManyAttempts)
	assert.ErrorIs(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", env.lastCode()), ErrTooManyAttempts)
}

func TestConfirm_FormatAndUnknownLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	assert.ErrorIs(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", "12ab56"), ErrInvalidVerificationCodeFormat)
	assert.ErrorIs(t, env.svc.ConfirmRegistration(ctx, "nobody@mail.kz", "123456"), ErrInvalidVerificationCode)
}

func TestConfirm_AlreadyVerified(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	registerAru(t, env)
	code := env.lastCode()

	require.NoError(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", code))
	assert.ErrorIs(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", code), ErrAlreadyVerified)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	registerAru(t, env)
	require.NoError(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", env.lastCode()))

	_, err := env.svc.Login(ctx, "aru@mail.kz", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.svc.Login(ctx, "ghost@mail.kz", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestResend_CooldownAndNewCode(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	registerAru(t, env)
	first := env.lastCode()

	_, err := env.svc.ResendCode(ctx, "aru@mail.kz")
	assert.ErrorIs(t, err, ErrRateLimitExceeded)

	env.now = env.now.Add(2 * time.Minute)
	res, err := env.svc.ResendCode(ctx, "aru@mail.kz")
	require.NoError(t, err)
	assert.True(t, res.CodeSent)
	second := env.lastCode()

	// new TTL counts from the resend
	env.now = env.now.Add(4 * time.Minute)
	if first != second {
		assert.ErrorIs(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", first), ErrInvalidVerificationCode)
	}
	assert.NoError(t, env.svc.ConfirmRegistration(ctx, "aru@mail.kz", second))
}

func TestResend_UnknownLoginIsSilent(t *testing.T) {
	env := newTestEnv(t, nil)

	res, err := env.svc.ResendCode(context.Background(), "nobody@mail.kz")
	require.NoError(t, err)
	assert.False(t, res.CodeSent)
	env.mailer.AssertNotCalled(t, "SendVerificationCode", mock.Anything, "nobody@mail.kz", mock.Anything)
}

func TestSweepExpiredUnverified(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	registerAru(t, env)
	_, err := env.svc.Register(ctx, RegisterInput{Login: "dana@mail.kz", PersonalID: "010203400567", Password: "password-1"})
	require.NoError(t, err)
	require.NoError(t, env.svc.ConfirmRegistration(ctx, "dana@mail.kz", env.lastCode()))

	env.now = env.now.Add(10 * time.Minute)
	n, err := env.svc.SweepExpiredUnverified(ctx, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = NewUserRepository(env.db).GetByLogin(ctx, "aru@mail.kz")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = NewUserRepository(env.db).GetByLogin(ctx, "dana@mail.kz")
	assert.NoError(t, err)
}
