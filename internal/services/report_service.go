package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/export"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound         = errors.New("work report not found")
	ErrReportPermissionDenied = errors.New("user does not have permission to view this report")
	ErrCannotReviewOwnReport  = errors.New("cannot review your own report")
	ErrInvalidReportStatus    = errors.New("invalid report status")
	ErrReportContentRequired  = errors.New("title and content are required")
)

// ReportService handles work report submission and review.
type ReportService struct {
	reportRepo repository.WorkReportRepository
	userRepo   repository.UserRepository
	notifier   *Notifier
	loc        *time.Location
	now        func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.WorkReportRepository, userRepo repository.UserRepository, notifier *Notifier, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		loc:        loc,
		now:        time.Now,
	}
}

// CreateReportInput is a new work report.
type CreateReportInput struct {
	Title   string
	Content string
}

// CreateReport stores a report for author and emails the admins.
func (s *ReportService) CreateReport(author *models.User, input CreateReportInput) (*models.WorkReport, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, ErrReportContentRequired
	}

	report := &models.WorkReport{
		UserID:  author.ID,
		Title:   title,
		Content: content,
		Status:  models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	report.User = *author

	admins, err := s.userRepo.ListAdmins()
	if err != nil {
		log.WithError(err).WithField("report_id", report.ID).Warn("Failed to load admins for report notification")
	} else {
		s.notifier.ReportSubmitted(report, author, admins)
	}
	return report, nil
}

// ListReports returns every report to admins and the caller's own otherwise.
func (s *ReportService) ListReports(actor *models.User, status *models.ReportStatus) ([]models.WorkReport, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidReportStatus
	}
	filter := repository.WorkReportFilter{Status: status}
	if !actor.IsAdmin {
		filter.UserID = &actor.ID
	}
	reports, err := s.reportRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) find(id uint64) (*models.WorkReport, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return report, nil
}

// GetReport returns a report visible to actor.
func (s *ReportService) GetReport(actor *models.User, id uint64) (*models.WorkReport, error) {
	report, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && report.UserID != actor.ID {
		return nil, ErrReportPermissionDenied
	}
	return report, nil
}

// UpdateStatus records an admin review. Admins cannot review their own reports.
func (s *ReportService) UpdateStatus(reviewer *models.User, id uint64, status models.ReportStatus) (*models.WorkReport, error) {
	if !status.Valid() {
		return nil, ErrInvalidReportStatus
	}
	report, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if report.UserID == reviewer.ID {
		return nil, ErrCannotReviewOwnReport
	}

	report.Status = status
	if status == models.ReportStatusReviewed {
		now := s.now()
		report.ReviewedBy = &reviewer.ID
		report.ReviewedAt = &now
	} else {
		report.ReviewedBy = nil
		report.ReviewedAt = nil
	}
	if err := s.reportRepo.UpdateStatus(report); err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return report, nil
}

// RenderPDF renders a report visible to actor.
func (s *ReportService) RenderPDF(actor *models.User, id uint64) (*models.WorkReport, []byte, error) {
	report, err := s.GetReport(actor, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := export.ReportPDF(*report, s.loc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render report: %w", err)
	}
	return report, data, nil
}
