// Package services contains the application-level orchestration between
// the HTTP layer, the repositories, and the domain aggregators.
package services

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/StoryNest/storynest-go/internal/domain/repositories"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/security"
	"github.com/StoryNest/storynest-go/pkg/config"
)

// AuthResult represents the result of an authentication attempt.
type AuthResult struct {
	Token   string `json:"token,omitempty"`
	Role    string `json:"role,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthService handles console sign-in and token validation.
type AuthService struct {
	users  repositories.UserRepository
	logger *logging.ChanneledLogger
}

func NewAuthService(users repositories.UserRepository, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger,
	}
}

// Authenticate verifies credentials against the stored hash and issues a
// signed token. Only admin and editor accounts may enter the console.
func (s *AuthService) Authenticate(email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		s.logger.LogAuthOperation("login", email, false)
		return &AuthResult{Success: false, Error: "Invalid credentials"}, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.LogAuthOperation("login", email, false)
		return &AuthResult{Success: false, Error: "Invalid credentials"}, nil
	}

	role := user.RoleOrDefault()
	if role != "admin" && role != "editor" {
		s.logger.LogAuthOperation("login", email, false)
		return &AuthResult{Success: false, Error: "Account has no console access"}, nil
	}

	token, err := security.GenerateAuthToken(user.ID, user.Email, role, config.JWTSecret, config.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.LogAuthOperation("login", email, true)
	return &AuthResult{Token: token, Role: role, Success: true}, nil
}

// ValidateToken parses a console token and returns its claims.
func (s *AuthService) ValidateToken(token string) (jwt.MapClaims, error) {
	return security.ValidateJWT(token, config.JWTSecret)
}

// ValidateAdminOrEditor accepts any console-capable token.
func (s *AuthService) ValidateAdminOrEditor(token string) (jwt.MapClaims, bool) {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return nil, false
	}
	role := security.RoleFromClaims(claims)
	return claims, role == "admin" || role == "editor"
}

// ValidateAdmin accepts admin tokens only.
func (s *AuthService) ValidateAdmin(token string) (jwt.MapClaims, bool) {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return nil, false
	}
	return claims, security.RoleFromClaims(claims) == "admin"
}
