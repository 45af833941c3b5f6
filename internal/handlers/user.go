package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/services"
	"github.com/yukikurage/staff-management-api/internal/storage"
)

// UserHandler serves the staff directory and the caller's own profile.
type UserHandler struct {
	userService *services.UserService
	maxUpload   int64
}

func NewUserHandler(userService *services.UserService, uploader *storage.Uploader) *UserHandler {
	return &UserHandler{
		userService: userService,
		maxUpload:   uploader.MaxBytes(),
	}
}

// ListUsers returns every user with their role
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserWithRoleDTOs(users))
}

// UpdateUserRole assigns or clears a user's role
func (h *UserHandler) UpdateUserRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		RoleID dto.Nullable[uint64] `json:"roleId"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !req.RoleID.Set {
		apierrors.BadRequest(c, "roleId is required")
		return
	}

	user, err := h.userService.UpdateRole(id, req.RoleID.Value)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserWithRoleDTO(*user))
}

// UpdateProfile changes the caller's name, email or avatar from a multipart form
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fh, ok := formFile(c, "avatar", h.maxUpload)
	if !ok {
		return
	}

	var input services.UpdateProfileInput
	if name, exists := c.GetPostForm("name"); exists {
		input.Name = &name
	}
	if email, exists := c.GetPostForm("email"); exists {
		input.Email = &email
	}
	if fh != nil {
		file, err := fh.Open()
		if err != nil {
			apierrors.BadRequest(c, "Failed to read avatar")
			return
		}
		defer file.Close()
		input.Avatar = file
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserWithRoleDTO(*updated))
}

// ChangePassword replaces the caller's password after checking the current one
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}

func respondUserError(c *gin.Context, err error) {
	if respondUploadError(c, err) {
		return
	}
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrRoleNotFound):
		apierrors.NotFound(c, "Role not found")
	case errors.Is(err, services.ErrWrongPassword):
		apierrors.BadRequest(c, "Current password is incorrect")
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidName):
		apierrors.BadRequest(c, "Name cannot be empty")
	default:
		apierrors.Unexpected(c, err)
	}
}
