package dto

import (
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
)

// RoleDTO represents a role badge in API responses
type RoleDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// UserWithRoleDTO represents a user joined with its optional role
type UserWithRoleDTO struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Avatar     *string   `json:"avatar"`
	IsAdmin    bool      `json:"isAdmin"`
	IsApproved bool      `json:"isApproved"`
	RoleID     *uint64   `json:"roleId"`
	Role       *RoleDTO  `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserSummaryDTO is the short user shape embedded in other views
type UserSummaryDTO struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar"`
}

// ToRoleDTO converts a Role model to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:    role.ID,
		Name:  role.Name,
		Color: role.Color,
	}
}

// ToRoleDTOs converts a slice of roles
func ToRoleDTOs(roles []models.Role) []RoleDTO {
	items := make([]RoleDTO, len(roles))
	for i, role := range roles {
		items[i] = ToRoleDTO(role)
	}
	return items
}

// ToUserWithRoleDTO converts a User model. A missing role yields a nil Role.
func ToUserWithRoleDTO(user models.User) UserWithRoleDTO {
	dto := UserWithRoleDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Name:       user.Name,
		Avatar:     user.Avatar,
		IsAdmin:    user.IsAdmin,
		IsApproved: user.IsApproved,
		RoleID:     user.RoleID,
		CreatedAt:  user.CreatedAt,
	}
	if user.Role != nil && user.RoleID != nil {
		role := ToRoleDTO(*user.Role)
		dto.Role = &role
	}
	return dto
}

// ToUserWithRoleDTOs converts a slice of users
func ToUserWithRoleDTOs(users []models.User) []UserWithRoleDTO {
	items := make([]UserWithRoleDTO, len(users))
	for i, user := range users {
		items[i] = ToUserWithRoleDTO(user)
	}
	return items
}

// ToUserSummaryDTO converts a User model to its summary
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
		Name:     user.Name,
		Avatar:   user.Avatar,
	}
}

// userSummaryOrNil returns nil for an unloaded relation
func userSummaryOrNil(user *models.User) *UserSummaryDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	summary := ToUserSummaryDTO(*user)
	return &summary
}
