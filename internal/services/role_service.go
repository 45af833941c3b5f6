package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound     = errors.New("role not found")
	ErrInvalidRoleName  = errors.New("role name cannot be empty")
	ErrInvalidRoleColor = errors.New("role color must be a hex color like #6b7280")
	ErrRoleNameTaken    = errors.New("role name already exists")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// RoleService provides business logic for role operations.
type RoleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
	}
}

// ListRoles returns all roles.
func (s *RoleService) ListRoles() ([]models.Role, error) {
	roles, err := s.roleRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// CreateRoleInput represents parameters to create a new role.
type CreateRoleInput struct {
	Name  string
	Color string
}

// CreateRole creates a role. An empty color falls back to the default grey.
func (s *RoleService) CreateRole(input CreateRoleInput) (*models.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidRoleName
	}
	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = constants.DefaultRoleColor
	}
	if !hexColor.MatchString(color) {
		return nil, ErrInvalidRoleColor
	}

	role := &models.Role{
		Name:  name,
		Color: color,
	}
	if err := s.roleRepo.Create(role); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrRoleNameTaken
		}
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// DeleteRole removes a role after detaching it from its users and returns
// how many users lost it.
func (s *RoleService) DeleteRole(id uint64) (int64, error) {
	detached, err := s.roleRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRoleNotFound
		}
		return 0, fmt.Errorf("failed to delete role: %w", err)
	}
	return detached, nil
}
