package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feral-file/notary-bridge/internal/api/middleware"
	"github.com/feral-file/notary-bridge/internal/api/server"
	"github.com/feral-file/notary-bridge/internal/metrics"
	"github.com/feral-file/notary-bridge/internal/mocks"
	"github.com/feral-file/notary-bridge/internal/ratelimit"
)

func setupTestServer(t *testing.T) (*server.Server, *mocks.MockAPIHandler, *mocks.MockRateLimiter) {
	ctrl := gomock.NewController(t)
	handler := mocks.NewMockAPIHandler(ctrl)
	limiter := mocks.NewMockRateLimiter(ctrl)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.FreeAddresses.Set(5)

	srv, err := server.New(server.Config{
		Host:        "127.0.0.1",
		Port:        0,
		ReadTimeout: time.Second,
		Auth:        middleware.AuthConfig{APIKeys: []string{"secret-key"}},
	}, handler, reg, limiter, zap.NewNop())
	require.NoError(t, err)
	return srv, handler, limiter
}

func TestServer_Health(t *testing.T) {
	srv, handler, _ := setupTestServer(t)

	handler.EXPECT().HealthCheck(gomock.Any()).Do(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.REQUEST_ID_HEADER))
}

func TestServer_Metrics(t *testing.T) {
	srv, _, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "notary_free_addresses 5")
}

func TestServer_RegistrationRequiresAuth(t *testing.T) {
	srv, handler, limiter := setupTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", strings.NewReader(`{"account_id":"alice@d3"}`))
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(ratelimit.Result{Allowed: true}, nil)
	handler.EXPECT().Register(gomock.Any()).Do(func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/registrations", strings.NewReader(`{"account_id":"alice@d3"}`))
	req.Header.Set("Authorization", "ApiKey secret-key")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestServer_RegistrationThrottled(t *testing.T) {
	srv, _, limiter := setupTestServer(t)

	limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(ratelimit.Result{Allowed: false, RetryAfter: 6 * time.Second}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", strings.NewReader(`{"account_id":"alice@d3"}`))
	req.Header.Set("Authorization", "ApiKey secret-key")
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "6", rec.Header().Get("Retry-After"))
}

func TestServer_ProofsAreUnauthenticated(t *testing.T) {
	srv, handler, _ := setupTestServer(t)

	handler.EXPECT().RequestProof(gomock.Any()).Do(func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/proofs", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv, _, _ := setupTestServer(t)
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestNew_InvalidJWTKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, err := server.New(server.Config{
		Auth: middleware.AuthConfig{JWTPublicKey: "garbage"},
	}, mocks.NewMockAPIHandler(ctrl), prometheus.NewRegistry(), nil, zap.NewNop())
	assert.Error(t, err)
}
