package repository

import (
	"github.com/yukikurage/staff-management-api/internal/database"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormMessageRepository is a GORM implementation of MessageRepository
type GormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &GormMessageRepository{db: db}
}

// Create creates a new message
func (r *GormMessageRepository) Create(msg *models.Message) error {
	return r.db.Omit("Sender").Create(msg).Error
}

// FindByID finds a message with its sender
func (r *GormMessageRepository) FindByID(id uint64) (*models.Message, error) {
	var msg models.Message
	if err := r.db.Preload("Sender").Preload("Sender.Role").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// List returns messages oldest first. A zero page returns everything.
func (r *GormMessageRepository) List(params utils.PaginationParams) ([]models.Message, error) {
	var msgs []models.Message
	query := r.db.Preload("Sender").Preload("Sender.Role").
		Order("created_at ASC, id ASC").
		Scopes(database.Paginate(params))
	if err := query.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// Count counts every message row
func (r *GormMessageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Count(&count).Error
	return count, err
}

// SoftDelete flags a message as deleted
func (r *GormMessageRepository) SoftDelete(id uint64) error {
	return r.db.Model(&models.Message{}).Where("id = ?", id).Update("is_deleted", true).Error
}
