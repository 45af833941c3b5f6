package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/services"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// ListRoles returns all roles ordered by name
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles()
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleDTOs(roles))
}

// CreateRole creates a new role
func (h *RoleHandler) CreateRole(c *gin.Context) {
	type CreateRoleRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.CreateRole(services.CreateRoleInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRoleDTO(*role))
}

// DeleteRole detaches the role from its users and deletes it
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detached, err := h.roleService.DeleteRole(id)
	if err != nil {
		respondRoleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detachedUsers": detached,
	})
}

func respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoleNotFound):
		apierrors.NotFound(c, "Role not found")
	case errors.Is(err, services.ErrInvalidRoleName), errors.Is(err, services.ErrInvalidRoleColor):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrRoleNameTaken):
		apierrors.Conflict(c, "Role name already exists")
	default:
		apierrors.Unexpected(c, err)
	}
}
