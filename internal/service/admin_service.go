package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AdminService authenticates the configured admin account and issues the
// JWT that guards catalog and order management endpoints.
type AdminService interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type adminService struct {
	cfg config.AdminConfig
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(cfg config.AdminConfig) AdminService {
	return &adminService{cfg: cfg}
}

// Login verifies the credentials against the configured admin account and
// returns a signed access token
func (s *adminService) Login(ctx context.Context, email, password string) (string, error) {
	if s.cfg.Email == "" || s.cfg.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}

	if email != s.cfg.Email {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"email": email,
		"role":  "admin",
		"exp":   time.Now().Add(time.Duration(s.cfg.TokenExpiry) * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
