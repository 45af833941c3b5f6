package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AttendanceHandler serves clock-in, clock-out and the attendance history.
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// listInput builds the record selection for the caller. Non-admins only see their own.
func (h *AttendanceHandler) listInput(c *gin.Context) (services.ListAttendanceInput, bool) {
	user, ok := currentUser(c)
	if !ok {
		return services.ListAttendanceInput{}, false
	}

	input := services.ListAttendanceInput{
		UserID: &user.ID,
		From:   c.Query("from"),
		To:     c.Query("to"),
	}

	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid userId")
			return input, false
		}
		if id != user.ID && !user.IsAdmin {
			apierrors.Forbidden(c, "Only admins can view other users' attendance")
			return input, false
		}
		input.UserID = &id
	} else if c.Query("all") == "true" {
		if !user.IsAdmin {
			apierrors.Forbidden(c, "Only admins can view all attendance")
			return input, false
		}
		input.UserID = nil
	}

	return input, true
}

// ListAttendance returns attendance records newest day first
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	input, ok := h.listInput(c)
	if !ok {
		return
	}

	records, err := h.attendanceService.List(input)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendanceDTOs(records))
}

// Today returns the caller's record for the current day, or null
func (h *AttendanceHandler) Today(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	record, err := h.attendanceService.Today(user.ID)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendanceDTO(*record))
}

// ClockIn opens today's record
func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	record, err := h.attendanceService.ClockIn(user.ID)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttendanceDTO(*record))
}

// ClockOut closes today's record
func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	record, err := h.attendanceService.ClockOut(user.ID)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendanceDTO(*record))
}

// Export sends the selected records as an XLSX attachment
func (h *AttendanceHandler) Export(c *gin.Context) {
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	if c.Query("userId") == "" {
		input.UserID = nil
	}

	data, err := h.attendanceService.Export(input)
	if err != nil {
		respondAttendanceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(input)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func exportFilename(input services.ListAttendanceInput) string {
	parts := []string{"attendance"}
	for _, d := range []string{input.From, input.To} {
		if d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, "_") + ".xlsx"
}

func respondAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAlreadyClockedIn),
		errors.Is(err, services.ErrNotClockedIn),
		errors.Is(err, services.ErrAlreadyClockedOut):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidDate), errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.Unexpected(c, err)
	}
}
