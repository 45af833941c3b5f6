package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/services"
	"github.com/yukikurage/staff-management-api/internal/storage"
	"github.com/yukikurage/staff-management-api/internal/utils"
)

// MessageHandler serves the shared chat timeline.
type MessageHandler struct {
	messageService *services.MessageService
	maxUpload      int64
}

func NewMessageHandler(messageService *services.MessageService, uploader *storage.Uploader) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		maxUpload:      uploader.MaxBytes(),
	}
}

// ListMessages returns messages oldest first. Deleted ones keep their slot.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	messages, err := h.messageService.ListMessages(params)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMessageWithSenderDTOs(messages))
}

// UnreadCount returns the caller's unread counter
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountDTO{Count: h.messageService.UnreadCount(user.ID)})
}

// CreateMessage posts text and an optional media file from a multipart form
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	fh, ok := formFile(c, "file", h.maxUpload)
	if !ok {
		return
	}

	input := services.CreateMessageInput{
		SenderID: user.ID,
		Content:  c.PostForm("content"),
	}
	if fh != nil {
		file, err := fh.Open()
		if err != nil {
			apierrors.BadRequest(c, "Failed to read file")
			return
		}
		defer file.Close()
		input.File = file
	}

	msg, err := h.messageService.CreateMessage(c.Request.Context(), input)
	if err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageWithSenderDTO(*msg))
}

// DeleteMessage soft-deletes a message. Only its sender or an admin may do so.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.DeleteMessage(user, id); err != nil {
		respondMessageError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message deleted successfully",
	})
}

func respondMessageError(c *gin.Context, err error) {
	if respondUploadError(c, err) {
		return
	}
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		apierrors.BadRequest(c, "Message needs content or a file")
	case errors.Is(err, services.ErrMessageNotFound):
		apierrors.NotFound(c, "Message not found")
	case errors.Is(err, services.ErrNotMessageSender):
		apierrors.Forbidden(c, "Only the sender or an admin can delete this message")
	default:
		apierrors.Unexpected(c, err)
	}
}
