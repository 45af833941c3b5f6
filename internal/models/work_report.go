package models

import "time"

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
)

func (s ReportStatus) Valid() bool {
	return s == ReportStatusPending || s == ReportStatusReviewed
}

type WorkReport struct {
	ID         uint64       `gorm:"primarykey" json:"id"`
	UserID     uint64       `gorm:"not null;index" json:"userId"`
	Title      string       `gorm:"type:varchar(255);not null" json:"title"`
	Content    string       `gorm:"type:text;not null" json:"content"`
	Status     ReportStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReviewedBy *uint64      `json:"reviewedBy"`
	ReviewedAt *time.Time   `json:"reviewedAt"`
	CreatedAt  time.Time    `json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
