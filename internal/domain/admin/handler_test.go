package admin

import (
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
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api/admin", middleware.JWTAuth(tokens), middleware.AdminOnly()))
	return r, f, tokens
}

func do(t *testing.T, r http.Handler, tokens *jwt.Service, userID int64, role domain.UserRole, method, path string) (int, apiEnvelope) {
	t.Helper()
	tok, err := tokens.GenerateToken(userID, string(role))
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestHandler_AdminBookings(t *testing.T) {
	r, f, tokens := setupRouter(t)
	b, client := f.reserve(t, "2026-05-01")

	code, _ := do(t, r, tokens, client.ID, domain.RoleClient, http.MethodGet, "/api/admin/bookings")
	assert.Equal(t, http.StatusForbidden, code)

	code, env := do(t, r, tokens, 1, domain.RoleAdmin, http.MethodGet, "/api/admin/bookings?status=scheduled")
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Bookings []domain.Booking `json:"bookings"`
		Total    int64            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Bookings, 1)
	assert.Equal(t, b.BookingCode, page.Bookings[0].BookingCode)

	code, _ = do(t, r, tokens, 1, domain.RoleAdmin, http.MethodGet, "/api/admin/bookings?status=lost")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, r, tokens, 1, domain.RoleAdmin, http.MethodGet, "/api/admin/bookings?date=May")
	assert.Equal(t, http.StatusBadRequest, code)

	path := fmt.Sprintf("/api/admin/bookings/%d/cancel", b.ID)
	code, _ = do(t, r, tokens, 1, domain.RoleAdmin, http.MethodPut, path)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, tokens, 1, domain.RoleAdmin, http.MethodPut, path)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "NOT_CANCELLABLE", env.Error.Code)

	code, _ = do(t, r, tokens, 1, domain.RoleAdmin, http.MethodPut, "/api/admin/bookings/999/cancel")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, r, tokens, 1, domain.RoleAdmin, http.MethodGet, "/api/admin/stats")
	assert.Equal(t, http.StatusOK, code)
}
