package dto

import (
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
)

// AttendanceDTO represents an attendance record with its user
type AttendanceDTO struct {
	ID       uint64          `json:"id"`
	UserID   uint64          `json:"userId"`
	Date     string          `json:"date"`
	ClockIn  time.Time       `json:"clockIn"`
	ClockOut *time.Time      `json:"clockOut"`
	User     *UserSummaryDTO `json:"user"`
}

// ToAttendanceDTO converts an Attendance model
func ToAttendanceDTO(record models.Attendance) AttendanceDTO {
	return AttendanceDTO{
		ID:       record.ID,
		UserID:   record.UserID,
		Date:     record.Date,
		ClockIn:  record.ClockIn,
		ClockOut: record.ClockOut,
		User:     userSummaryOrNil(&record.User),
	}
}

// ToAttendanceDTOs converts a slice of attendance records
func ToAttendanceDTOs(records []models.Attendance) []AttendanceDTO {
	items := make([]AttendanceDTO, len(records))
	for i, record := range records {
		items[i] = ToAttendanceDTO(record)
	}
	return items
}
