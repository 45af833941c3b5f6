package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staff-management-api/internal/dto"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/live"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/services"
)

func newMessageHandler(env *testEnv) *MessageHandler {
	service := services.NewMessageService(repository.NewMessageRepository(env.db), env.uploader, env.notifier)
	return NewMessageHandler(service, env.uploader)
}

func postMessage(t *testing.T, h *MessageHandler, user *models.User, content string, file []byte) *dto.MessageWithSenderDTO {
	t.Helper()
	fileField := ""
	if file != nil {
		fileField = "file"
	}
	req := multipartRequest(t, http.MethodPost, "/api/messages", map[string]string{"content": content}, fileField, "upload.bin", file)
	c, w := contextFor(req, user)
	h.CreateMessage(c)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	msg := decode[dto.MessageWithSenderDTO](t, w)
	return &msg
}

func TestMessageHandler_CreateMessage(t *testing.T) {
	env := newTestEnv(t)
	h := newMessageHandler(env)
	alice := env.createUser(t, "alice", false)

	text := postMessage(t, h, alice, "good morning", nil)
	assert.Equal(t, models.MessageTypeText, text.Type)
	require.NotNil(t, text.Sender)
	assert.Equal(t, "alice", text.Sender.Username)

	link := postMessage(t, h, alice, "https://example.com/menu", nil)
	assert.Equal(t, models.MessageTypeLink, link.Type)

	image := postMessage(t, h, alice, "", tinyGIF)
	assert.Equal(t, models.MessageTypeImage, image.Type)
	require.NotNil(t, image.MediaURL)

	events := env.events.All()
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, live.EventNewMessage, e.Type)
	}

	t.Run("empty", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/api/messages", map[string]string{"content": "  "}, "", "", nil)
		c, w := contextFor(req, alice)
		h.CreateMessage(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		tests := []struct {
			name        string
			contentType string
			body        string
		}{
			{name: "truncated multipart", contentType: "multipart/form-data; boundary=xyz", body: "--xyz\r\nContent-Disposition: form-data; name=\"content\"\r\n\r\nhello"},
			{name: "not multipart", contentType: "application/json", body: `{"content":"hello"}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(tt.body))
				req.Header.Set("Content-Type", tt.contentType)
				c, w := contextFor(req, alice)
				h.CreateMessage(c)
				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Equal(t, apierrors.ErrCodeInvalidInput, errorCode(t, w))
			})
		}
		assert.Len(t, env.events.All(), 3)
	})
}

func TestMessageHandler_ListAndDelete(t *testing.T) {
	env := newTestEnv(t)
	h := newMessageHandler(env)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	admin := env.createUser(t, "admin", true)

	first := postMessage(t, h, alice, "first", nil)
	second := postMessage(t, h, bob, "second", nil)

	t.Run("not the sender", func(t *testing.T) {
		c, w := newContext(t, http.MethodDelete, "/", nil, bob)
		setParam(c, "id", strconv.FormatUint(first.ID, 10))
		h.DeleteMessage(c)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	c, w := newContext(t, http.MethodDelete, "/", nil, alice)
	setParam(c, "id", strconv.FormatUint(first.ID, 10))
	h.DeleteMessage(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(t, http.MethodDelete, "/", nil, admin)
	setParam(c, "id", strconv.FormatUint(second.ID, 10))
	h.DeleteMessage(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(t, http.MethodDelete, "/", nil, admin)
	setParam(c, "id", "9999")
	h.DeleteMessage(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newContext(t, http.MethodGet, "/api/messages", nil, alice)
	h.ListMessages(c)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := decode[[]dto.MessageWithSenderDTO](t, w)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.True(t, msgs[0].IsDeleted)
	assert.Empty(t, msgs[0].Content)

	events := env.events.All()
	last := events[len(events)-1]
	assert.Equal(t, live.EventDeleteMessage, last.Type)
	assert.Equal(t, dto.MessageDeletedDTO{ID: second.ID}, last.Data)
}

func TestMessageHandler_UnreadCount(t *testing.T) {
	env := newTestEnv(t)
	h := newMessageHandler(env)
	alice := env.createUser(t, "alice", false)

	c, w := newContext(t, http.MethodGet, "/api/messages/unread-count", nil, alice)
	h.UnreadCount(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}
