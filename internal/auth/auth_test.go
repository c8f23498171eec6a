package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manish1808/Cybernauts/internal/apperr"
	"github.com/Manish1808/Cybernauts/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var admin = domain.Admin{ID: "a1", Email: "root@example.com", Role: domain.RoleSuperAdmin}

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)

	signed, err := tokens.Issue(admin)
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.Subject)
	assert.Equal(t, domain.RoleSuperAdmin, claims.Role)
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)
	tokens.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, err := tokens.Issue(admin)
	require.NoError(t, err)

	_, err = NewTokens("s3cret", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestTokens_RejectsOtherSecretAndAlgorithm(t *testing.T) {
	signed, err := NewTokens("other", time.Hour).Issue(admin)
	require.NoError(t, err)
	_, err = NewTokens("s3cret", time.Hour).Parse(signed)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Role: domain.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokens("s3cret", time.Hour).Parse(none)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}

func setupRouter(tokens *Tokens) *gin.Engine {
	r := gin.New()
	admins := r.Group("/admin", Middleware(tokens))
	admins.GET("/validate", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": AdminIDFrom(c), "role": RoleFrom(c)})
	})
	admins.GET("/super", RequireRole(domain.RoleSuperAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens("s3cret", time.Hour)
	r := setupRouter(tokens)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin/validate", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin/validate", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/admin/validate", "Bearer abc").Code)

	signed, err := tokens.Issue(domain.Admin{ID: "a2", Role: domain.RoleAdmin})
	require.NoError(t, err)

	w := get(r, "/admin/validate", "Bearer "+signed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"a2","role":"admin"}`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, get(r, "/admin/super", "Bearer "+signed).Code)

	super, err := tokens.Issue(admin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin/super", "Bearer "+super).Code)
}
