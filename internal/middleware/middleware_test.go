package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject, issuer string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(issuer string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(StructuredLoggingMiddleware(slog.Default()))
	r.GET("/me", AuthMiddleware(testSecret, issuer), func(c *gin.Context) {
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, userID)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + signToken(t, "user-1", "billing", time.Hour), http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Bearer {token}"},
		{"expired", "Bearer " + signToken(t, "user-1", "billing", -time.Hour), http.StatusUnauthorized, "Token has expired"},
		{"wrong issuer", "Bearer " + signToken(t, "user-1", "someone-else", time.Hour), http.StatusUnauthorized, "Invalid token"},
		{"missing subject", "Bearer " + signToken(t, "", "billing", time.Hour), http.StatusUnauthorized, "Invalid token claims"},
		{"garbage", "Bearer not.a.jwt", http.StatusUnauthorized, "Invalid token"},
	}

	router := newAuthRouter("billing")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(StructuredLoggingMiddleware(logger))
	r.GET("/ping", func(c *gin.Context) {
		GetLoggerFromCtx(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, 2, strings.Count(buf.String(), `"request_id":"req-123"`))
	assert.Contains(t, buf.String(), "Request completed")
}

func TestGetLoggerFromCtx_FallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, slog.Default(), GetLoggerFromCtx(req.Context()))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 2})

	r := gin.New()
	r.Use(RateLimit(instance))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/invoices/:invoiceID", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/invoices/a", "/invoices/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.requests.WithLabelValues("/invoices/:invoiceID", http.MethodGet, "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requests.WithLabelValues("unmatched", http.MethodGet, "404")))
}

func TestAnalyticsEventName(t *testing.T) {
	assert.Equal(t, "post_invoices_invoiceID_items", AnalyticsEventName(http.MethodPost, "/api/v1/invoices/:invoiceID/items"))
	assert.Equal(t, "get_dashboard_profit-loss", AnalyticsEventName(http.MethodGet, "/api/v1/dashboard/profit-loss"))
	assert.Equal(t, "", AnalyticsEventName(http.MethodGet, ""))
}
