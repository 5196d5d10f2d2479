package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/api/middleware"
	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/pkg/utils"
)

func newEngine(j *middleware.JWT) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", j.Authenticate(), func(c *gin.Context) {
		id, _ := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	r.GET("/admin", j.Authenticate(), middleware.Admin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine, path string, mutate func(*http.Request)) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthenticate(t *testing.T) {
	j := middleware.NewJWT(config.AuthConfig{JWTSecret: "k1", Issuer: "ods"})
	r := newEngine(j)

	user, err := j.GenerateToken(5, "ana", false, time.Hour)
	require.NoError(t, err)
	admin, err := j.GenerateToken(0, "admin", true, time.Hour)
	require.NoError(t, err)
	expired, err := j.GenerateToken(5, "ana", false, -time.Minute)
	require.NoError(t, err)
	foreign, err := middleware.NewJWT(config.AuthConfig{JWTSecret: "other"}).GenerateToken(5, "ana", true, time.Hour)
	require.NoError(t, err)

	bearer := func(tok string) func(*http.Request) {
		return func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) }
	}

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", nil))
	assert.Equal(t, http.StatusOK, get(r, "/me", bearer(user)))
	assert.Equal(t, http.StatusOK, get(r, "/me", func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: "token", Value: user})
	}))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", func(req *http.Request) {
		req.Header.Set("Authorization", "Token "+user)
	}))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", bearer(expired)))
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", bearer(foreign)))

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", bearer(user)))
	assert.Equal(t, http.StatusOK, get(r, "/admin", bearer(admin)))
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	j := middleware.NewJWT(config.AuthConfig{JWTSecret: "k1"})
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(time.Hour).Unix()})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.ParseToken(raw)
	assert.Error(t, err)
}

func TestParseTokenRoundTrip(t *testing.T) {
	j := middleware.NewJWT(config.AuthConfig{JWTSecret: "k1", Issuer: "ods"})
	raw, err := j.GenerateToken(12, "bia", false, time.Hour)
	require.NoError(t, err)

	claims, err := j.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.UserID)
	assert.Equal(t, "bia", claims.Username)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "ods", claims.Issuer)
}
