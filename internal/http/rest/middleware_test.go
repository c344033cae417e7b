package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cityline/cityline_api/config"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)
	return token
}

func TestRequireLoginMissingBearer(t *testing.T) {
	api := &API{Config: &config.Config{JwtSecret: "secret"}}
	called := false
	h := api.RequireLogin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireLoginInvalidToken(t *testing.T) {
	api := &API{Config: &config.Config{JwtSecret: "secret"}}
	called := false
	h := api.RequireLogin(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	r := httptest.NewRequest(http.MethodGet, "/stats", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyTokenRejectsNonAccess(t *testing.T) {
	api := &API{Config: &config.Config{JwtSecret: "secret"}}
	token := signToken(t, "secret", jwt.MapClaims{
		"typ": "refresh",
		"sub": "3f1d0c3e-9f6a-4a1e-8b7d-2c5e4f6a7b8c",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := api.verifyToken(token)

	assert.EqualError(t, err, "invalid token type")
}

func TestVerifyTokenAcceptsAccess(t *testing.T) {
	api := &API{Config: &config.Config{JwtSecret: "secret"}}
	token := signToken(t, "secret", jwt.MapClaims{
		"typ": "access",
		"sub": "3f1d0c3e-9f6a-4a1e-8b7d-2c5e4f6a7b8c",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := api.verifyToken(token)

	assert.NoError(t, err)
	assert.Equal(t, "3f1d0c3e-9f6a-4a1e-8b7d-2c5e4f6a7b8c", claims.UserID)
	assert.Equal(t, "access", claims.Type)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	api := &API{Config: &config.Config{JwtSecret: "secret"}}
	token := signToken(t, "other-secret", jwt.MapClaims{
		"typ": "access",
		"sub": "3f1d0c3e-9f6a-4a1e-8b7d-2c5e4f6a7b8c",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := api.verifyToken(token)

	assert.Error(t, err)
}
