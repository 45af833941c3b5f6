package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidUsername      = errors.New("username must be 3 to 50 characters")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrPendingApproval      = errors.New("account is waiting for approval")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
// Accounts that are neither approved nor admin are refused after the password check.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.CanAuthenticate() {
		return nil, ErrPendingApproval
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// AdminSeed describes the bootstrap admin account.
type AdminSeed struct {
	Username string
	Password string
	Email    string
	Name     string
}

// EnsureAdmin creates the seed admin when the username is configured and not
// yet taken. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(seed AdminSeed) (bool, error) {
	username := strings.TrimSpace(seed.Username)
	if username == "" {
		return false, nil
	}
	if len(seed.Password) < constants.MinPasswordLength {
		return false, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := HashPassword(seed.Password)
	if err != nil {
		return false, ErrFailedToHashPassword
	}
	name := seed.Name
	if name == "" {
		name = username
	}

	admin := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        seed.Email,
		Name:         name,
		IsAdmin:      true,
		IsApproved:   true,
	}
	if err := s.userRepo.Create(admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	return true, nil
}

func validateUsername(username string) error {
	if n := len([]rune(username)); n < constants.MinUsernameLength || n > constants.MaxUsernameLength {
		return ErrInvalidUsername
	}
	return nil
}
