package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vybraa/vybraa-api-v1/internal/domain"
	"github.com/vybraa/vybraa-api-v1/internal/models"
	"github.com/vybraa/vybraa-api-v1/internal/service"
	"github.com/vybraa/vybraa-api-v1/internal/service/servicetest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminRouter(t *testing.T) (*servicetest.MemStore, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := servicetest.NewMemStore()
	h := NewAdminHandler(store, service.NewConfigService(store))

	r := gin.New()
	r.GET("/admin/fees/preview", h.PreviewFee)
	return store, r
}

func TestPreviewFeeSplitsAmount(t *testing.T) {
	store, r := newAdminRouter(t)
	store.SeedSetting(&models.ConfigSetting{
		Slug:            "request_fee_charge",
		Value:           "10",
		CalculationType: domain.CalculationTypePercentage,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/fees/preview?amount=100&type=request", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `"10"`, string(body["platform_fee"]))
	assert.JSONEq(t, `"90"`, string(body["payee_amount"]))
}

func TestPreviewFeeMissingConfig(t *testing.T) {
	_, r := newAdminRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/fees/preview?amount=100", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewFeeRejectsBadAmount(t *testing.T) {
	_, r := newAdminRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/fees/preview?amount=-3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
