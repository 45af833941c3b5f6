package models

import "time"

// Attendance is one working day of a user. (UserID, Date) is unique.
type Attendance struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	UserID    uint64     `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"userId"`
	Date      string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	ClockIn   time.Time  `gorm:"not null" json:"clockIn"`
	ClockOut  *time.Time `json:"clockOut"`
	CreatedAt time.Time  `json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Attendance) TableName() string {
	return "attendance"
}
