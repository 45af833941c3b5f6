package dto

import (
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
)

// AccessRequestDTO represents an access request without its password hash
type AccessRequestDTO struct {
	ID        uint64                     `json:"id"`
	Username  string                     `json:"username"`
	Email     string                     `json:"email"`
	Name      string                     `json:"name"`
	Status    models.AccessRequestStatus `json:"status"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// ApprovalDTO is returned when a request is approved
type ApprovalDTO struct {
	Request AccessRequestDTO `json:"request"`
	User    UserWithRoleDTO  `json:"user"`
}

// ToAccessRequestDTO converts an AccessRequest model
func ToAccessRequestDTO(req models.AccessRequest) AccessRequestDTO {
	return AccessRequestDTO{
		ID:        req.ID,
		Username:  req.Username,
		Email:     req.Email,
		Name:      req.Name,
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	}
}

// ToAccessRequestDTOs converts a slice of access requests
func ToAccessRequestDTOs(reqs []models.AccessRequest) []AccessRequestDTO {
	items := make([]AccessRequestDTO, len(reqs))
	for i, req := range reqs {
		items[i] = ToAccessRequestDTO(req)
	}
	return items
}
