package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrInvalidName   = errors.New("name cannot be empty")
)

// UserService covers the user directory and self-service profile changes.
type UserService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	uploader *storage.Uploader
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, uploader *storage.Uploader) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		uploader: uploader,
	}
}

// ListUsers returns every user with its role.
func (s *UserService) ListUsers() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) findUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateRole assigns roleID to a user, or clears the role when roleID is nil.
func (s *UserService) UpdateRole(userID uint64, roleID *uint64) (*models.User, error) {
	if _, err := s.findUser(userID); err != nil {
		return nil, err
	}
	if roleID != nil {
		if _, err := s.roleRepo.FindByID(*roleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoleNotFound
			}
			return nil, fmt.Errorf("failed to find role: %w", err)
		}
	}

	if err := s.userRepo.UpdateRole(userID, roleID); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return s.findUser(userID)
}

// UpdateProfileInput carries the optional profile fields. Nil means unchanged.
type UpdateProfileInput struct {
	Name   *string
	Email  *string
	Avatar io.Reader
}

// UpdateProfile changes the caller's own name, email and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		user.Name = name
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Avatar != nil {
		media, err := s.uploader.Save(ctx, input.Avatar)
		if err != nil {
			return nil, err
		}
		user.Avatar = &media.URL
	}

	if err := s.userRepo.UpdateProfile(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *UserService) ChangePassword(userID uint64, current, next string) error {
	user, err := s.findUser(userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(current, user.PasswordHash) {
		return ErrWrongPassword
	}
	if len(next) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := HashPassword(next)
	if err != nil {
		return ErrFailedToHashPassword
	}
	if err := s.userRepo.UpdatePassword(userID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
