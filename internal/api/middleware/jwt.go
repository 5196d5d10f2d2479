package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/pkg/response"
	"github.com/sustentai/ods-platform/pkg/types"
)

// JWT signs and verifies HS256 tokens with the configured secret.
type JWT struct {
	key    []byte
	issuer string
}

func NewJWT(cfg config.AuthConfig) *JWT {
	return &JWT{key: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// GenerateToken issues a signed token.
func (j *JWT) GenerateToken(userID uint, username string, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID:   userID,
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.key)
}

// ParseToken validates and extracts claims.
func (j *JWT) ParseToken(tokenStr string) (*types.Claims, error) {
	claims := &types.Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Authenticate validates a Bearer token in the Authorization header or the
// token cookie and stores the claims under "claims".
func (j *JWT) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Authorization header format must be Bearer {token}"})
				return
			}
			tokenStr = parts[1]
		} else if cookie, err := c.Cookie("token"); err == nil {
			tokenStr = cookie
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Authorization required (header or cookie)"})
			return
		}

		claims, err := j.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Invalid token: " + err.Error()})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
