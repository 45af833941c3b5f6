package constants

import "time"

// Context and session keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "current_user"
	ContextKeyTask   = "task"

	SessionKeyUserID   = "user_id"
	SessionKeyLastSeen = "last_seen"
	SessionCookieName  = "staff_session"
)

// Session lifetime when none is configured.
const DefaultSessionMaxAge = 7 * 24 * time.Hour

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Credentials
const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// Uploads
const (
	DefaultMaxUploadBytes = 10 * 1024 * 1024
	UploadsRoute          = "/uploads"
)

// DateLayout is the calendar key used for attendance records.
const DateLayout = "2006-01-02"

// DefaultRoleColor is applied when a role is created without a color.
const DefaultRoleColor = "#6b7280"

// Task drafts
const (
	MaxAIGeneratedTasks = 20
	MaxAIInputLength    = 8000
)
