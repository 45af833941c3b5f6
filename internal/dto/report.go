package dto

import (
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
)

// WorkReportDTO represents a work report with its author
type WorkReportDTO struct {
	ID         uint64              `json:"id"`
	UserID     uint64              `json:"userId"`
	Title      string              `json:"title"`
	Content    string              `json:"content"`
	Status     models.ReportStatus `json:"status"`
	ReviewedBy *uint64             `json:"reviewedBy"`
	ReviewedAt *time.Time          `json:"reviewedAt"`
	CreatedAt  time.Time           `json:"createdAt"`
	User       *UserSummaryDTO     `json:"user"`
}

// ToWorkReportDTO converts a WorkReport model
func ToWorkReportDTO(report models.WorkReport) WorkReportDTO {
	return WorkReportDTO{
		ID:         report.ID,
		UserID:     report.UserID,
		Title:      report.Title,
		Content:    report.Content,
		Status:     report.Status,
		ReviewedBy: report.ReviewedBy,
		ReviewedAt: report.ReviewedAt,
		CreatedAt:  report.CreatedAt,
		User:       userSummaryOrNil(&report.User),
	}
}

// ToWorkReportDTOs converts a slice of work reports
func ToWorkReportDTOs(reports []models.WorkReport) []WorkReportDTO {
	items := make([]WorkReportDTO, len(reports))
	for i, report := range reports {
		items[i] = ToWorkReportDTO(report)
	}
	return items
}
