package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"beautybook/internal/database"
	"beautybook/internal/domain"
	"beautybook/internal/pkg/logger"
)

const webhookSecret = "whsec"

type fixture struct {
	svc    *Service
	db     *gorm.DB
	signer *HMACVerifier
	seq    int
}

func setup(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenInMemory("wallet_" + name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	signer := NewHMACVerifier(webhookSecret)
	return &fixture{svc: NewService(db, signer, logger.Nop()), db: db, signer: signer}
}

func (f *fixture) user(t *testing.T, balance int64) *domain.User {
	t.Helper()
	f.seq++
	u := &domain.User{
		Login:         fmt.Sprintf("wallet%d@mail.kz", f.seq),
		PersonalID:    fmt.Sprintf("%012d", 800000000000+f.seq),
		PasswordHash:  "x",
		Role:          domain.RoleClient,
		Balance:       balance,
		EmailVerified: true,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) balance(t *testing.T, userID int64) int64 {
	t.Helper()
	var u domain.User
	require.NoError(t, f.db.First(&u, userID).Error)
	return u.Balance
}

func (f *fixture) deliver(t *testing.T, providerID, status string) (*WebhookResult, error) {
	t.Helper()
	payload := WebhookPayload{ProviderID: providerID, Status: status}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return f.svc.HandleWebhook(context.Background(), body, f.signer.Sign(body), payload)
}

func TestTopUp_SuccessWebhookCreditsOnce(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, 5)

	txn, err := f.svc.InitTopUp(ctx, u.ID, 100, domain.BankKaspi)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionPending, txn.Status)
	assert.NotEmpty(t, txn.ProviderID)

	res, err := f.deliver(t, txn.ProviderID, "success")
	require.NoError(t, err)
	assert.False(t, res.AlreadyFinal)
	assert.Equal(t, domain.TransactionSuccess, res.Transaction.Status)
	require.NotNil(t, res.Transaction.FinalizedAt)
	assert.Equal(t, int64(105), f.balance(t, u.ID))

	// повторная доставка ничего не меняет
	res, err = f.deliver(t, txn.ProviderID, "success")
	require.NoError(t, err)
	assert.True(t, res.AlreadyFinal)
	assert.Equal(t, int64(105), f.balance(t, u.ID))

	res, err = f.deliver(t, txn.ProviderID, "failed")
	require.NoError(t, err)
	assert.True(t, res.AlreadyFinal)
	assert.Equal(t, domain.TransactionSuccess, res.Transaction.Status)
}

func TestTopUp_FailedWebhookDoesNotCredit(t *testing.T) {
	f := setup(t)
	u := f.user(t, 0)

	txn, err := f.svc.InitTopUp(context.Background(), u.ID, 40, domain.BankHalyk)
	require.NoError(t, err)

	res, err := f.deliver(t, txn.ProviderID, "failed")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionFailed, res.Transaction.Status)
	assert.Equal(t, int64(0), f.balance(t, u.ID))

	var stored domain.Transaction
	require.NoError(t, f.db.First(&stored, txn.ID).Error)
	assert.Equal(t, domain.TransactionFailed, stored.Status)
	assert.Contains(t, stored.RawBody, txn.ProviderID)
}

func TestWebhook_Rejections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, 0)
	txn, err := f.svc.InitTopUp(ctx, u.ID, 10, domain.BankFreedom)
	require.NoError(t, err)

	payload := WebhookPayload{ProviderID: txn.ProviderID, Status: "success"}
	body, _ := json.Marshal(payload)

	_, err = f.svc.HandleWebhook(ctx, body, "deadbeef", payload)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	_, err = f.svc.HandleWebhook(ctx, body, "", payload)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, int64(0), f.balance(t, u.ID))

	// the "sha256=" prefix is accepted
	_, err = f.svc.HandleWebhook(ctx, body, "sha256="+f.signer.Sign(body), payload)
	require.NoError(t, err)

	_, err = f.deliver(t, "unknown-provider-id", "success")
	assert.ErrorIs(t, err, ErrTransactionNotFound)

	_, err = f.deliver(t, txn.ProviderID, "refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestInitTopUp_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, 0)

	_, err := f.svc.InitTopUp(ctx, u.ID, 0, domain.BankKaspi)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = f.svc.InitTopUp(ctx, u.ID, 10, domain.Bank("swift"))
	assert.ErrorIs(t, err, ErrUnknownBank)
}

func TestBuyPackage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.user(t, 100)

	pkg, err := f.svc.CreatePackage(ctx, CreatePackageRequest{Name: "5 visits", Price: 80, Visits: 5})
	require.NoError(t, err)

	p, err := f.svc.BuyPackage(ctx, u.ID, pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.VisitsLeft)
	assert.Equal(t, "5 visits", p.PackageName)
	assert.Equal(t, int64(20), f.balance(t, u.ID))

	_, err = f.svc.BuyPackage(ctx, u.ID, pkg.ID)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(20), f.balance(t, u.ID))

	_, err = f.svc.BuyPackage(ctx, u.ID, 9999)
	assert.ErrorIs(t, err, ErrPackageNotFound)

	w, err := f.svc.GetWallet(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), w.Balance)
	require.Len(t, w.Purchases, 1)
	assert.Equal(t, p.ID, w.Purchases[0].ID)
}

func TestListPackages_OnlyActive(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	active, err := f.svc.CreatePackage(ctx, CreatePackageRequest{Name: "Single", Price: 20, Visits: 1})
	require.NoError(t, err)
	hidden, err := f.svc.CreatePackage(ctx, CreatePackageRequest{Name: "Old", Price: 10, Visits: 1})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&domain.Package{}).Where("id = ?", hidden.ID).Update("is_active", false).Error)

	list, err := f.svc.ListPackages(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	u := f.user(t, 100)
	_, err = f.svc.BuyPackage(ctx, u.ID, hidden.ID)
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestGetWallet_UnknownUser(t *testing.T) {
	f := setup(t)
	_, err := f.svc.GetWallet(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
