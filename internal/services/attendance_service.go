package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/export"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrNotClockedIn      = errors.New("not clocked in today")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrInvalidDate       = errors.New("dates must use the YYYY-MM-DD format")
	ErrInvalidDateRange  = errors.New("from must not be after to")
)

// AttendanceService tracks one clock-in/clock-out pair per user and calendar day.
// Days are cut in the configured location.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
	loc            *time.Location
	now            func() time.Time
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendanceRepo repository.AttendanceRepository, loc *time.Location) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		loc:            loc,
		now:            time.Now,
	}
}

// Location is the time zone that days are cut in.
func (s *AttendanceService) Location() *time.Location {
	return s.loc
}

func (s *AttendanceService) today() (time.Time, string) {
	now := s.now()
	return now, now.In(s.loc).Format(constants.DateLayout)
}

// Today returns the caller's record for the current day, or nil.
func (s *AttendanceService) Today(userID uint64) (*models.Attendance, error) {
	_, date := s.today()
	record, err := s.attendanceRepo.FindByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}
	return record, nil
}

// ClockIn opens today's record. A second clock-in on the same day fails,
// including when two requests race.
func (s *AttendanceService) ClockIn(userID uint64) (*models.Attendance, error) {
	now, date := s.today()
	record := &models.Attendance{
		UserID:  userID,
		Date:    date,
		ClockIn: now,
	}
	if err := s.attendanceRepo.Create(record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyClockedIn
		}
		return nil, fmt.Errorf("failed to clock in: %w", err)
	}
	return record, nil
}

// ClockOut closes today's record.
func (s *AttendanceService) ClockOut(userID uint64) (*models.Attendance, error) {
	now, date := s.today()
	record, err := s.attendanceRepo.FindByUserAndDate(userID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotClockedIn
		}
		return nil, fmt.Errorf("failed to find attendance: %w", err)
	}
	if record.ClockOut != nil {
		return nil, ErrAlreadyClockedOut
	}
	if now.Before(record.ClockIn) {
		now = record.ClockIn
	}

	if err := s.attendanceRepo.SetClockOut(record.ID, now); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrAlreadyClockedOut
		}
		return nil, fmt.Errorf("failed to clock out: %w", err)
	}
	record.ClockOut = &now
	return record, nil
}

// ListAttendanceInput selects records. A nil UserID means every user.
type ListAttendanceInput struct {
	UserID *uint64
	From   string
	To     string
}

// List returns records newest day first.
func (s *AttendanceService) List(input ListAttendanceInput) ([]models.Attendance, error) {
	if err := validateDateRange(input.From, input.To); err != nil {
		return nil, err
	}
	records, err := s.attendanceRepo.List(repository.AttendanceFilter{
		UserID:   input.UserID,
		DateFrom: input.From,
		DateTo:   input.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// Export renders the selected records as an XLSX workbook.
func (s *AttendanceService) Export(input ListAttendanceInput) ([]byte, error) {
	records, err := s.List(input)
	if err != nil {
		return nil, err
	}
	data, err := export.AttendanceXLSX(records, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to export attendance: %w", err)
	}
	return data, nil
}

func validateDateRange(from, to string) error {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(constants.DateLayout, d); err != nil {
			return ErrInvalidDate
		}
	}
	if from != "" && to != "" && from > to {
		return ErrInvalidDateRange
	}
	return nil
}
