package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/yukikurage/staff-management-api/internal/dto"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/storage"
	"github.com/yukikurage/staff-management-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrEmptyMessage     = errors.New("message needs content or a file")
	ErrNotMessageSender = errors.New("only the sender or an admin can delete this message")
)

// MessageService handles the shared chat timeline.
type MessageService struct {
	messageRepo repository.MessageRepository
	uploader    *storage.Uploader
	notifier    *Notifier
}

// NewMessageService creates a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, uploader *storage.Uploader, notifier *Notifier) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		uploader:    uploader,
		notifier:    notifier,
	}
}

// ListMessages returns the timeline oldest first, deleted messages included.
func (s *MessageService) ListMessages(params utils.PaginationParams) ([]models.Message, error) {
	msgs, err := s.messageRepo.List(params)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// UnreadCount is always zero; read receipts are not tracked.
func (s *MessageService) UnreadCount(userID uint64) int64 {
	return 0
}

// CreateMessageInput is a chat post. File is optional.
type CreateMessageInput struct {
	SenderID uint64
	Content  string
	File     io.Reader
}

// CreateMessage stores a message and broadcasts it. A file makes it an image or
// video message; content that is a single http(s) URL makes it a link.
func (s *MessageService) CreateMessage(ctx context.Context, input CreateMessageInput) (*models.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" && input.File == nil {
		return nil, ErrEmptyMessage
	}

	msg := &models.Message{
		SenderID: input.SenderID,
		Content:  content,
		Type:     models.MessageTypeText,
	}
	switch {
	case input.File != nil:
		media, err := s.uploader.Save(ctx, input.File)
		if err != nil {
			return nil, err
		}
		msg.MediaURL = &media.URL
		msg.Type = models.MessageTypeImage
		if media.Kind == storage.MediaVideo {
			msg.Type = models.MessageTypeVideo
		}
	case isLink(content):
		msg.Type = models.MessageTypeLink
		msg.MediaURL = &content
	}

	if err := s.messageRepo.Create(msg); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	created, err := s.messageRepo.FindByID(msg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	s.notifier.MessageCreated(dto.ToMessageWithSenderDTO(*created))
	return created, nil
}

// DeleteMessage hides a message. Deleting an already deleted message is a no-op.
func (s *MessageService) DeleteMessage(actor *models.User, id uint64) error {
	msg, err := s.messageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to find message: %w", err)
	}
	if msg.SenderID != actor.ID && !actor.IsAdmin {
		return ErrNotMessageSender
	}
	if msg.IsDeleted {
		return nil
	}

	if err := s.messageRepo.SoftDelete(id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	s.notifier.MessageDeleted(id)
	return nil
}

func isLink(content string) bool {
	if strings.ContainsAny(content, " \t\n") {
		return false
	}
	u, err := url.Parse(content)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
