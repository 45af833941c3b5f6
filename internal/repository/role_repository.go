package repository

import (
	"github.com/yukikurage/staff-management-api/internal/models"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// Create creates a new role
func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(id uint64) (*models.Role, error) {
	var role models.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns all roles ordered by name
func (r *GormRoleRepository) List() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Order("name ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Delete clears the role from all users holding it and removes it in a transaction
func (r *GormRoleRepository) Delete(id uint64) (int64, error) {
	var detached int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("role_id = ?", id).Update("role_id", nil)
		if result.Error != nil {
			return result.Error
		}
		detached = result.RowsAffected

		result = tx.Delete(&models.Role{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return detached, nil
}
