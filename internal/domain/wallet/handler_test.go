package wallet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beautybook/internal/domain"
	"beautybook/internal/middleware"
	"beautybook/internal/pkg/jwt"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *fixture, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := setup(t)
	tokens := jwt.New("test-secret", time.Hour)
	h := NewHandler(f.svc)

	r := gin.New()
	api := r.Group("/api")
	h.RegisterPublicRoutes(api)
	protected := api.Group("", middleware.JWTAuth(tokens))
	h.RegisterRoutes(protected)
	h.RegisterAdminRoutes(protected.Group("", middleware.AdminOnly()))
	return r, f, tokens
}

func call(t *testing.T, r http.Handler, req *http.Request) (int, apiEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func authed(t *testing.T, tokens *jwt.Service, u *domain.User, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	tok, err := tokens.GenerateToken(u.ID, string(u.Role))
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func TestHandler_TopUpAndWebhook(t *testing.T) {
	r, f, tokens := setupRouter(t)
	u := f.user(t, 0)

	code, env := call(t, r, authed(t, tokens, u, http.MethodPost, "/api/payments/topup", gin.H{"amount": 250, "bank": "kaspi"}))
	require.Equal(t, http.StatusCreated, code)
	var txn domain.Transaction
	require.NoError(t, json.Unmarshal(env.Data, &txn))

	body := []byte(fmt.Sprintf(`{"provider_id":%q,"status":"success"}`, txn.ProviderID))

	bad := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	bad.Header.Set(signatureHeader, "00")
	code, env = call(t, r, bad)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_SIGNATURE", env.Error.Code)

	good := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	good.Header.Set(signatureHeader, f.signer.Sign(body))
	code, _ = call(t, r, good)
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, r, authed(t, tokens, u, http.MethodGet, "/api/wallet", nil))
	require.Equal(t, http.StatusOK, code)
	var w Wallet
	require.NoError(t, json.Unmarshal(env.Data, &w))
	assert.Equal(t, int64(250), w.Balance)

	code, _ = call(t, r, authed(t, tokens, u, http.MethodPost, "/api/payments/topup", gin.H{"amount": 10, "bank": "swift"}))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandler_Packages(t *testing.T) {
	r, f, tokens := setupRouter(t)
	client := f.user(t, 30)
	admin := f.user(t, 0)
	require.NoError(t, f.db.Model(admin).Update("role", domain.RoleAdmin).Error)
	admin.Role = domain.RoleAdmin

	create := gin.H{"name": "3 visits", "price": 50, "visits": 3}
	code, _ := call(t, r, authed(t, tokens, client, http.MethodPost, "/api/packages", create))
	assert.Equal(t, http.StatusForbidden, code)

	code, env := call(t, r, authed(t, tokens, admin, http.MethodPost, "/api/packages", create))
	require.Equal(t, http.StatusCreated, code)
	var pkg domain.Package
	require.NoError(t, json.Unmarshal(env.Data, &pkg))

	code, env = call(t, r, authed(t, tokens, client, http.MethodPost, fmt.Sprintf("/api/packages/%d/buy", pkg.ID), nil))
	assert.Equal(t, http.StatusPaymentRequired, code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", env.Error.Code)

	code, _ = call(t, r, authed(t, tokens, admin, http.MethodGet, "/api/packages", nil))
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, r, authed(t, tokens, client, http.MethodPost, "/api/packages/abc/buy", nil))
	assert.Equal(t, http.StatusBadRequest, code)
}
