package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }

	router := gin.New()
	router.GET("/auth", RequireAuth(), ok)
	router.GET("/admin-only", RequireRole("admin"), ok)
	router.GET("/products", RequirePermission("products.read"), ok)
	return router
}

func doGet(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")
	router := newGuardedRouter(t)

	token := signToken(t, "mw-secret", jwt.MapClaims{"sub": float64(1), "role": "cashier"})
	w := doGet(router, "/auth", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsMissingAndBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")
	router := newGuardedRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doGet(router, "/auth", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "/auth", "garbage").Code)

	// Wrong signing key
	forged := signToken(t, "other-secret", jwt.MapClaims{"sub": float64(1)})
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "/auth", forged).Code)

	// Expired
	expired := signToken(t, "mw-secret", jwt.MapClaims{"sub": float64(1), "exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, http.StatusUnauthorized, doGet(router, "/auth", expired).Code)
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")
	router := newGuardedRouter(t)

	admin := signToken(t, "mw-secret", jwt.MapClaims{"sub": float64(1), "role": "admin"})
	assert.Equal(t, http.StatusOK, doGet(router, "/admin-only", admin).Code)

	cashier := signToken(t, "mw-secret", jwt.MapClaims{"sub": float64(2), "role": "cashier"})
	assert.Equal(t, http.StatusForbidden, doGet(router, "/admin-only", cashier).Code)
}

func TestRequirePermissionReadsTokenClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-secret")
	router := newGuardedRouter(t)

	granted := signToken(t, "mw-secret", jwt.MapClaims{
		"sub":   float64(1),
		"role":  "manager",
		"perms": []string{"products.read"},
	})
	assert.Equal(t, http.StatusOK, doGet(router, "/products", granted).Code)

	denied := signToken(t, "mw-secret", jwt.MapClaims{
		"sub":   float64(2),
		"role":  "storefront",
		"perms": []string{"brands.read"},
	})
	assert.Equal(t, http.StatusForbidden, doGet(router, "/products", denied).Code)

	// Admin passes without an explicit grant.
	admin := signToken(t, "mw-secret", jwt.MapClaims{"sub": float64(3), "role": "admin"})
	assert.Equal(t, http.StatusOK, doGet(router, "/products", admin).Code)
}
