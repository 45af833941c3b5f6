package repository

import (
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
	"gorm.io/gorm"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create inserts a clock-in record
func (r *GormAttendanceRepository) Create(record *models.Attendance) error {
	return r.db.Omit("User").Create(record).Error
}

// FindByUserAndDate finds the record of a user for a calendar date
func (r *GormAttendanceRepository) FindByUserAndDate(userID uint64, date string) (*models.Attendance, error) {
	var record models.Attendance
	if err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns attendance records, newest date first
func (r *GormAttendanceRepository) List(filter AttendanceFilter) ([]models.Attendance, error) {
	var records []models.Attendance
	query := r.db.Preload("User")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.DateFrom != "" {
		query = query.Where("date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("date <= ?", filter.DateTo)
	}
	if err := query.Order("date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// SetClockOut stamps the clock-out time unless one is already present
func (r *GormAttendanceRepository) SetClockOut(id uint64, at time.Time) error {
	result := r.db.Model(&models.Attendance{}).
		Where("id = ? AND clock_out IS NULL", id).
		Update("clock_out", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}
