package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	"github.com/StoryNest/storynest-go/internal/domain/repositories"
	"github.com/StoryNest/storynest-go/internal/infrastructure/email"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/security"
)

var validRoles = map[string]bool{
	"admin":  true,
	"editor": true,
	"user":   true,
}

// UserService manages console and reader accounts.
type UserService struct {
	users  repositories.UserRepository
	email  email.Service // nil when email delivery is not configured
	logger *logging.ChanneledLogger
}

func NewUserService(users repositories.UserRepository, emailService email.Service, logger *logging.ChanneledLogger) *UserService {
	return &UserService{
		users:  users,
		email:  emailService,
		logger: logger,
	}
}

func (s *UserService) List() ([]*catalog.User, error) {
	return s.users.FindAll()
}

// Create provisions an account with a generated temporary password and,
// when email delivery is configured, sends a welcome message. A failed
// send is logged but does not fail the creation.
func (s *UserService) Create(emailAddr, role string) (*catalog.User, string, error) {
	if emailAddr == "" {
		return nil, "", fmt.Errorf("email is required")
	}
	if !validRoles[role] {
		return nil, "", fmt.Errorf("invalid role: %s", role)
	}

	existing, err := s.users.FindByEmail(emailAddr)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", fmt.Errorf("account already exists for %s", emailAddr)
	}

	tempPassword, err := security.GenerateTempPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &catalog.User{
		ID:           security.GenerateULID(),
		Email:        emailAddr,
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.users.Store(user); err != nil {
		return nil, "", err
	}

	if s.email != nil {
		if err := s.email.SendWelcomeEmail(emailAddr, role, tempPassword); err != nil {
			s.logger.System().Warn("Welcome email failed to send", "email", emailAddr, "error", err.Error())
		}
	}

	s.logger.Auth().Info("Account created", "id", user.ID, "role", role)
	return user, tempPassword, nil
}

func (s *UserService) UpdateRole(id, role string) error {
	if !validRoles[role] {
		return fmt.Errorf("invalid role: %s", role)
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account with id %s", id)
	}

	if err := s.users.UpdateRole(id, role); err != nil {
		return err
	}
	s.logger.Auth().Info("Account role updated", "id", id, "role", role)
	return nil
}

// Delete removes an account. Reading sessions recorded for the account
// stay in place and keep counting in historical analytics.
func (s *UserService) Delete(id string) error {
	if err := s.users.Delete(id); err != nil {
		return err
	}
	s.logger.Auth().Info("Account deleted", "id", id)
	return nil
}
