package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Email        string    `gorm:"type:varchar(255);not null" json:"email"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Avatar       *string   `gorm:"type:varchar(512)" json:"avatar"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"isAdmin"`
	IsApproved   bool      `gorm:"not null;default:false" json:"isApproved"`
	RoleID       *uint64   `gorm:"index" json:"roleId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// CanAuthenticate reports whether the account may log in.
func (u *User) CanAuthenticate() bool {
	return u.IsAdmin || u.IsApproved
}
