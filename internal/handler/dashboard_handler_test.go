package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDashboardService struct{}

func (stubDashboardService) GetStats(ctx context.Context) (*service.DashboardStats, error) {
	return &service.DashboardStats{ProductCount: 3}, nil
}

func signAccessToken(t *testing.T, secret, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  float64(1),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestDashboardRouteIsRoleGated(t *testing.T) {
	t.Setenv("JWT_SECRET", "handler-secret")
	gin.SetMode(gin.TestMode)

	router := gin.New()
	NewDashboardHandler(stubDashboardService{}).RegisterRoutes(router.Group(""))

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, get(signAccessToken(t, "handler-secret", "manager")).Code)
	assert.Equal(t, http.StatusOK, get(signAccessToken(t, "handler-secret", "admin")).Code)
	assert.Equal(t, http.StatusForbidden, get(signAccessToken(t, "handler-secret", "cashier")).Code)
	assert.Equal(t, http.StatusUnauthorized, get("").Code)
}
