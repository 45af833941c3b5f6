package models

import "time"

type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "pending"
	AccessRequestApproved AccessRequestStatus = "approved"
	AccessRequestRejected AccessRequestStatus = "rejected"
)

// AccessRequest is a self-registration awaiting an admin decision. Approval copies
// its fields into a new User; the two rows are not linked afterwards.
//
// PendingUsername mirrors Username while the request is pending and is NULL
// otherwise, so its unique index allows one pending request per username.
type AccessRequest struct {
	ID              uint64              `gorm:"primarykey" json:"id"`
	Username        string              `gorm:"type:varchar(100);index;not null" json:"username"`
	PendingUsername *string             `gorm:"type:varchar(100);uniqueIndex:uniq_access_requests_pending_username" json:"-"`
	Email           string              `gorm:"type:varchar(255);not null" json:"email"`
	Name            string              `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash    string              `gorm:"type:varchar(255);not null" json:"-"`
	Status          AccessRequestStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}
