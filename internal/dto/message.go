package dto

import (
	"time"

	"github.com/yukikurage/staff-management-api/internal/models"
)

// MessageWithSenderDTO represents a chat message joined with its sender.
// Deleted messages keep their place in the timeline with content and media hidden.
type MessageWithSenderDTO struct {
	ID        uint64             `json:"id"`
	SenderID  uint64             `json:"senderId"`
	Content   string             `json:"content"`
	Type      models.MessageType `json:"type"`
	MediaURL  *string            `json:"mediaUrl"`
	IsDeleted bool               `json:"isDeleted"`
	CreatedAt time.Time          `json:"createdAt"`
	Sender    *UserWithRoleDTO   `json:"sender"`
}

// ToMessageWithSenderDTO converts a Message model
func ToMessageWithSenderDTO(msg models.Message) MessageWithSenderDTO {
	dto := MessageWithSenderDTO{
		ID:        msg.ID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Type:      msg.Type,
		MediaURL:  msg.MediaURL,
		IsDeleted: msg.IsDeleted,
		CreatedAt: msg.CreatedAt,
	}
	if msg.IsDeleted {
		dto.Content = ""
		dto.MediaURL = nil
	}
	if msg.Sender.ID != 0 {
		sender := ToUserWithRoleDTO(msg.Sender)
		dto.Sender = &sender
	}
	return dto
}

// ToMessageWithSenderDTOs converts a slice of messages
func ToMessageWithSenderDTOs(msgs []models.Message) []MessageWithSenderDTO {
	items := make([]MessageWithSenderDTO, len(msgs))
	for i, msg := range msgs {
		items[i] = ToMessageWithSenderDTO(msg)
	}
	return items
}

// MessageDeletedDTO is the payload of a delete_message event
type MessageDeletedDTO struct {
	ID uint64 `json:"id"`
}

// UnreadCountDTO is the unread counter payload
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}
