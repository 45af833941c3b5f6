package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ListReports returns every report for admins and the caller's own otherwise
func (h *ReportHandler) ListReports(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var status *models.ReportStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ReportStatus(raw)
		status = &s
	}

	reports, err := h.reportService.ListReports(user, status)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkReportDTOs(reports))
}

// GetReport returns one report with its author
func (h *ReportHandler) GetReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.reportService.GetReport(user, id)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkReportDTO(*report))
}

// CreateReport submits a work report and emails the admins
func (h *ReportHandler) CreateReport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateReportRequest struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.CreateReport(user, services.CreateReportInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkReportDTO(*report))
}

// UpdateReportStatus marks a report reviewed or pending
func (h *ReportHandler) UpdateReportStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status models.ReportStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	report, err := h.reportService.UpdateStatus(user, id, req.Status)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkReportDTO(*report))
}

// ReportPDF renders a report as a PDF document
func (h *ReportHandler) ReportPDF(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, data, err := h.reportService.RenderPDF(user, id)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"report-%d.pdf\"", report.ID))
	c.Data(http.StatusOK, "application/pdf", data)
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReportNotFound):
		apierrors.NotFound(c, "Report not found")
	case errors.Is(err, services.ErrReportPermissionDenied):
		apierrors.Forbidden(c, "You do not have permission to view this report")
	case errors.Is(err, services.ErrCannotReviewOwnReport):
		apierrors.Forbidden(c, "You cannot review your own report")
	case errors.Is(err, services.ErrInvalidReportStatus), errors.Is(err, services.ErrReportContentRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.Unexpected(c, err)
	}
}
