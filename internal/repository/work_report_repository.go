package repository

import (
	"github.com/yukikurage/staff-management-api/internal/models"
	"gorm.io/gorm"
)

// GormWorkReportRepository is a GORM implementation of WorkReportRepository
type GormWorkReportRepository struct {
	db *gorm.DB
}

// NewWorkReportRepository creates a new WorkReportRepository
func NewWorkReportRepository(db *gorm.DB) WorkReportRepository {
	return &GormWorkReportRepository{db: db}
}

// Create creates a new work report
func (r *GormWorkReportRepository) Create(report *models.WorkReport) error {
	return r.db.Omit("User").Create(report).Error
}

// FindByID finds a work report with its author
func (r *GormWorkReportRepository) FindByID(id uint64) (*models.WorkReport, error) {
	var report models.WorkReport
	if err := r.db.Preload("User").First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns work reports with their authors, newest first
func (r *GormWorkReportRepository) List(filter WorkReportFilter) ([]models.WorkReport, error) {
	var reports []models.WorkReport
	query := r.db.Preload("User")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// UpdateStatus writes only the review columns
func (r *GormWorkReportRepository) UpdateStatus(report *models.WorkReport) error {
	return r.db.Model(&models.WorkReport{}).Where("id = ?", report.ID).Updates(map[string]interface{}{
		"status":      report.Status,
		"reviewed_by": report.ReviewedBy,
		"reviewed_at": report.ReviewedAt,
	}).Error
}
