package models

import "time"

type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
	MessageTypeLink  MessageType = "link"
)

type Message struct {
	ID        uint64      `gorm:"primarykey" json:"id"`
	SenderID  uint64      `gorm:"not null;index" json:"senderId"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Type      MessageType `gorm:"type:varchar(20);not null;default:'text'" json:"type"`
	MediaURL  *string     `gorm:"type:varchar(512)" json:"mediaUrl"`
	IsDeleted bool        `gorm:"not null;default:false" json:"isDeleted"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt"`

	// Relations
	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
