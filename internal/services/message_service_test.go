package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staff-management-api/internal/dto"
	"github.com/yukikurage/staff-management-api/internal/live"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/utils"
)

func newMessageService(f *fixture) (*MessageService, repository.MessageRepository) {
	repo := repository.NewMessageRepository(f.db)
	return NewMessageService(repo, f.uploader, f.notifier), repo
}

func TestCreateMessage_Types(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMessageService(f)
	alice := f.createUser(t, "alice", false)
	ctx := context.Background()

	text, err := svc.CreateMessage(ctx, CreateMessageInput{SenderID: alice.ID, Content: " hello "})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeText, text.Type)
	assert.Equal(t, "hello", text.Content)
	assert.Nil(t, text.MediaURL)
	assert.Equal(t, "alice", text.Sender.Username)

	link, err := svc.CreateMessage(ctx, CreateMessageInput{SenderID: alice.ID, Content: "https://example.com/menu"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeLink, link.Type)
	require.NotNil(t, link.MediaURL)
	assert.Equal(t, "https://example.com/menu", *link.MediaURL)

	image, err := svc.CreateMessage(ctx, CreateMessageInput{SenderID: alice.ID, File: bytes.NewReader(tinyGIF)})
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeImage, image.Type)
	require.NotNil(t, image.MediaURL)

	_, err = svc.CreateMessage(ctx, CreateMessageInput{SenderID: alice.ID, Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	events := f.events.All()
	require.Len(t, events, 3)
	for i, msg := range []*models.Message{text, link, image} {
		assert.Equal(t, live.EventNewMessage, events[i].Type)
		assert.Equal(t, msg.ID, events[i].Data.(dto.MessageWithSenderDTO).ID)
	}
}

func TestIsLink(t *testing.T) {
	assert.True(t, isLink("https://example.com"))
	assert.True(t, isLink("http://example.com/a?b=c"))
	assert.False(t, isLink("see https://example.com"))
	assert.False(t, isLink("ftp://example.com"))
	assert.False(t, isLink("example.com"))
	assert.False(t, isLink("https://"))
}

func TestDeleteMessage_KeepsRow(t *testing.T) {
	f := newFixture(t)
	svc, repo := newMessageService(f)
	alice := f.createUser(t, "alice", false)
	ctx := context.Background()

	first, err := svc.CreateMessage(ctx, CreateMessageInput{SenderID: alice.ID, Content: "first"})
	require.NoError(t, err)
	_, err = svc.CreateMessage(ctx, CreateMessageInput{SenderID: alice.ID, Content: "second"})
	require.NoError(t, err)

	before, err := repo.Count()
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMessage(alice, first.ID))

	after, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	msgs, err := svc.ListMessages(utils.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.ID, msgs[0].ID)
	assert.True(t, msgs[0].IsDeleted)
	assert.Empty(t, dto.ToMessageWithSenderDTO(msgs[0]).Content)
	assert.Equal(t, "second", msgs[1].Content)

	events := f.events.All()
	require.Len(t, events, 3)
	assert.Equal(t, live.EventDeleteMessage, events[2].Type)
	assert.Equal(t, dto.MessageDeletedDTO{ID: first.ID}, events[2].Data)

	// Deleting again changes nothing and broadcasts nothing.
	require.NoError(t, svc.DeleteMessage(alice, first.ID))
	assert.Len(t, f.events.All(), 3)
}

func TestDeleteMessage_Permissions(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMessageService(f)
	alice := f.createUser(t, "alice", false)
	bob := f.createUser(t, "bob", false)
	admin := f.createUser(t, "admin", true)
	ctx := context.Background()

	msg, err := svc.CreateMessage(ctx, CreateMessageInput{SenderID: alice.ID, Content: "hi"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteMessage(bob, msg.ID), ErrNotMessageSender)
	assert.NoError(t, svc.DeleteMessage(admin, msg.ID))
	assert.ErrorIs(t, svc.DeleteMessage(admin, 9999), ErrMessageNotFound)
}

func TestListMessages_Paginates(t *testing.T) {
	f := newFixture(t)
	svc, _ := newMessageService(f)
	alice := f.createUser(t, "alice", false)
	for _, content := range []string{"one", "two", "three"} {
		_, err := svc.CreateMessage(context.Background(), CreateMessageInput{SenderID: alice.ID, Content: content})
		require.NoError(t, err)
	}

	page, err := svc.ListMessages(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "three", page[0].Content)

	assert.Zero(t, svc.UnreadCount(alice.ID))
}
