package application

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/sustentai/ods-platform/internal/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(userID uint, username string, isAdmin bool, ttl time.Duration) (string, error)
}

// AdminService authenticates the single configured moderator account.
type AdminService struct {
	username     string
	passwordHash []byte
	ttl          time.Duration
	tokens       TokenIssuer
	log          *zap.Logger
}

func NewAdminService(cfg config.AuthConfig, tokens TokenIssuer, log *zap.Logger) (*AdminService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AdminService{
		username:     cfg.AdminUser,
		passwordHash: hash,
		ttl:          cfg.AdminTokenTTL,
		tokens:       tokens,
		log:          log,
	}, nil
}

// Login returns a signed admin token and its lifetime.
func (s *AdminService) Login(username, password string) (string, time.Duration, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		s.log.Warn("admin login failed", zap.String("username", username))
		return "", 0, &Error{kind: ErrUnauthorized, msg: "invalid credentials"}
	}

	token, err := s.tokens.GenerateToken(0, s.username, true, s.ttl)
	if err != nil {
		return "", 0, &Error{kind: ErrStorage, msg: "failed to issue token", cause: err}
	}
	return token, s.ttl, nil
}
