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
)

// AccessRequestHandler serves self-registration and its admin review.
type AccessRequestHandler struct {
	service *services.AccessRequestService
}

func NewAccessRequestHandler(service *services.AccessRequestService) *AccessRequestHandler {
	return &AccessRequestHandler{service: service}
}

// CreateAccessRequest submits a registration for admin approval
func (h *AccessRequestHandler) CreateAccessRequest(c *gin.Context) {
	type CreateAccessRequestRequest struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req CreateAccessRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	accessReq, err := h.service.Submit(services.SubmitAccessRequestInput{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		respondAccessRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccessRequestDTO(*accessReq))
}

// ListAccessRequests returns requests newest first, optionally filtered by ?status=
func (h *AccessRequestHandler) ListAccessRequests(c *gin.Context) {
	reqs, err := h.service.List(c.Query("status"))
	if err != nil {
		respondAccessRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccessRequestDTOs(reqs))
}

// ApproveAccessRequest creates the user account for a pending request
func (h *AccessRequestHandler) ApproveAccessRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	accessReq, user, err := h.service.Approve(id)
	if err != nil {
		respondAccessRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalDTO{
		Request: dto.ToAccessRequestDTO(*accessReq),
		User:    dto.ToUserWithRoleDTO(*user),
	})
}

// RejectAccessRequest closes a pending request
func (h *AccessRequestHandler) RejectAccessRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	accessReq, err := h.service.Reject(id)
	if err != nil {
		respondAccessRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccessRequestDTO(*accessReq))
}

func respondAccessRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidUsername):
		apierrors.BadRequest(c, fmt.Sprintf("Username must be %d to %d characters", constants.MinUsernameLength, constants.MaxUsernameLength))
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidAccessStatus):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrAccessRequestPending),
		errors.Is(err, services.ErrAccessRequestNotPending):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrAccessRequestNotFound):
		apierrors.NotFound(c, "Access request not found")
	default:
		apierrors.Unexpected(c, err)
	}
}
