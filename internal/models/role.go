package models

import "time"

type Role struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"type:varchar(20);not null" json:"color"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Users []User `gorm:"foreignKey:RoleID" json:"-"`
}
