package catalog

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

func setupRouter(t *testing.T) (*gin.Engine, *fixture, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := setup(t)
	tokens := jwt.New("test-secret", time.Hour)
	h := NewHandler(f.svc)

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	h.RegisterOwnerRoutes(api.Group("", middleware.JWTAuth(tokens), middleware.SalonOrAdmin()))
	return r, f, tokens
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndListSlots(t *testing.T) {
	r, f, tokens := setupRouter(t)
	token, err := tokens.GenerateToken(ownerID, string(domain.RoleSalon))
	require.NoError(t, err)

	w := call(t, r, http.MethodPost, "/api/slots", token, gin.H{
		"salon_id":   f.salon.ID,
		"service_id": f.service.ID,
		"date":       "2026-05-01",
		"time":       "10:00",
		"price":      20,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodGet, fmt.Sprintf("/api/slots?salon_id=%d&date=2026-05-01", f.salon.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Slots []domain.Slot `json:"slots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Slots, 1)
	assert.Equal(t, "Lotus", body.Data.Slots[0].SalonName)
}

func TestHandler_CreateSlotValidation(t *testing.T) {
	r, f, tokens := setupRouter(t)
	token, err := tokens.GenerateToken(ownerID, string(domain.RoleSalon))
	require.NoError(t, err)

	w := call(t, r, http.MethodPost, "/api/slots", token, gin.H{
		"salon_id":   f.salon.ID,
		"service_id": f.service.ID,
		"date":       "tomorrow",
		"time":       "10:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ClientCannotManageSlots(t *testing.T) {
	r, f, tokens := setupRouter(t)
	token, err := tokens.GenerateToken(42, string(domain.RoleClient))
	require.NoError(t, err)

	w := call(t, r, http.MethodPost, "/api/slots", token, gin.H{
		"salon_id":   f.salon.ID,
		"service_id": f.service.ID,
		"date":       "2026-05-01",
		"time":       "10:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_DeleteBookedSlot(t *testing.T) {
	r, f, tokens := setupRouter(t)
	token, err := tokens.GenerateToken(ownerID, string(domain.RoleSalon))
	require.NoError(t, err)

	s := f.slot(t, "2026-05-01", "10:00", nil)
	require.NoError(t, f.db.Model(&domain.Slot{}).Where("id = ?", s.ID).Update("is_booked", true).Error)

	w := call(t, r, http.MethodDelete, fmt.Sprintf("/api/slots/%d", s.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "SLOT_BOOKED")

	free := f.slot(t, "2026-05-01", "11:00", nil)
	w = call(t, r, http.MethodDelete, fmt.Sprintf("/api/slots/%d", free.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_GetSalonNotFound(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := call(t, r, http.MethodGet, "/api/salons/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, r, http.MethodGet, "/api/salons/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
