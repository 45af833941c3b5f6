package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/utils"
)

// ErrStatusChanged is returned by conditional status updates when the row is no
// longer in the expected state.
var ErrStatusChanged = errors.New("repository: status changed concurrently")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with its role
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username with its role
	FindByUsername(username string) (*models.User, error)

	// List returns all users with their roles, ordered by name
	List() ([]models.User, error)

	// ListAdmins returns every admin account
	ListAdmins() ([]models.User, error)

	// CountAdmins counts admin accounts
	CountAdmins() (int64, error)

	// UpdateRole sets or clears the role reference of a user
	UpdateRole(userID uint64, roleID *uint64) error

	// UpdateProfile writes the editable profile fields
	UpdateProfile(user *models.User) error

	// UpdatePassword replaces the stored password hash
	UpdatePassword(userID uint64, passwordHash string) error
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	Create(role *models.Role) error
	FindByID(id uint64) (*models.Role, error)
	List() ([]models.Role, error)

	// Delete detaches the role from every user holding it, then removes it.
	// It returns how many users were detached.
	Delete(id uint64) (int64, error)
}

// AccessRequestFilter narrows access request listings
type AccessRequestFilter struct {
	Status *models.AccessRequestStatus
}

// AccessRequestRepository defines the interface for access request data access
type AccessRequestRepository interface {
	Create(req *models.AccessRequest) error
	FindByID(id uint64) (*models.AccessRequest, error)
	List(filter AccessRequestFilter) ([]models.AccessRequest, error)

	// HasPending reports whether a pending request exists for username
	HasPending(username string) (bool, error)

	// Approve creates user and moves the request from pending to approved atomically.
	// ErrStatusChanged means the request was no longer pending.
	Approve(req *models.AccessRequest, user *models.User) error

	// UpdateStatus moves a pending request to status.
	// ErrStatusChanged means the request was no longer pending.
	UpdateStatus(id uint64, status models.AccessRequestStatus) error
}

// MessageRepository defines the interface for chat message data access
type MessageRepository interface {
	Create(msg *models.Message) error
	FindByID(id uint64) (*models.Message, error)

	// List returns every message, deleted ones included, oldest first
	List(params utils.PaginationParams) ([]models.Message, error)

	// Count counts every message, deleted ones included
	Count() (int64, error)

	// SoftDelete flags a message as deleted without removing the row
	SoftDelete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssignedTo *uint64
	Status     *models.TaskStatus
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *models.Task) error

	// FindByID finds a task with its assignee and creator
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks with their assignee and creator, newest first
	List(filter TaskFilter) ([]models.Task, error)

	// Update writes every editable field of a task
	Update(task *models.Task) error

	// UpdateStatus changes only the status of a task
	UpdateStatus(id uint64, status models.TaskStatus) error
}

// AttendanceFilter narrows attendance listings
type AttendanceFilter struct {
	UserID   *uint64
	DateFrom string
	DateTo   string
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create inserts a clock-in record; a second record for the same
	// (user, date) fails with gorm.ErrDuplicatedKey
	Create(record *models.Attendance) error

	FindByUserAndDate(userID uint64, date string) (*models.Attendance, error)

	// List returns records with their user, newest date first
	List(filter AttendanceFilter) ([]models.Attendance, error)

	// SetClockOut records the clock-out time if none is set yet.
	// ErrStatusChanged means a clock-out was already recorded.
	SetClockOut(id uint64, at time.Time) error
}

// WorkReportFilter narrows work report listings
type WorkReportFilter struct {
	UserID *uint64
	Status *models.ReportStatus
}

// WorkReportRepository defines the interface for work report data access
type WorkReportRepository interface {
	Create(report *models.WorkReport) error
	FindByID(id uint64) (*models.WorkReport, error)
	List(filter WorkReportFilter) ([]models.WorkReport, error)

	// UpdateStatus changes the review status and records the reviewer
	UpdateStatus(report *models.WorkReport) error
}
