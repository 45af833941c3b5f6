package repository

import (
	"fmt"

	"github.com/yukikurage/staff-management-api/internal/models"
	"gorm.io/gorm"
)

// GormAccessRequestRepository is a GORM implementation of AccessRequestRepository
type GormAccessRequestRepository struct {
	db *gorm.DB
}

// NewAccessRequestRepository creates a new AccessRequestRepository
func NewAccessRequestRepository(db *gorm.DB) AccessRequestRepository {
	return &GormAccessRequestRepository{db: db}
}

// Create creates a new access request. A second pending request for the same
// username fails with gorm.ErrDuplicatedKey.
func (r *GormAccessRequestRepository) Create(req *models.AccessRequest) error {
	return r.db.Create(req).Error
}

// FindByID finds an access request by ID
func (r *GormAccessRequestRepository) FindByID(id uint64) (*models.AccessRequest, error) {
	var req models.AccessRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// List returns access requests, newest first
func (r *GormAccessRequestRepository) List(filter AccessRequestFilter) ([]models.AccessRequest, error) {
	var reqs []models.AccessRequest
	query := r.db.Order("created_at DESC, id DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// HasPending reports whether a pending request exists for the username
func (r *GormAccessRequestRepository) HasPending(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.AccessRequest{}).
		Where("username = ? AND status = ?", username, models.AccessRequestPending).
		Count(&count).Error
	return count > 0, err
}

// Approve creates the user and marks the request approved within a single transaction.
// The status guard makes a second approval fail even when both run concurrently.
func (r *GormAccessRequestRepository) Approve(req *models.AccessRequest, user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := transition(tx, req.ID, models.AccessRequestApproved); err != nil {
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("create user from access request: %w", err)
		}
		req.Status = models.AccessRequestApproved
		req.PendingUsername = nil
		return nil
	})
}

// UpdateStatus moves a pending request to the given status
func (r *GormAccessRequestRepository) UpdateStatus(id uint64, status models.AccessRequestStatus) error {
	return transition(r.db, id, status)
}

func transition(db *gorm.DB, id uint64, status models.AccessRequestStatus) error {
	result := db.Model(&models.AccessRequest{}).
		Where("id = ? AND status = ?", id, models.AccessRequestPending).
		Updates(map[string]interface{}{
			"status":           status,
			"pending_username": gorm.Expr("NULL"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}
