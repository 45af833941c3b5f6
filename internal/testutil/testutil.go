// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staff-management-api/internal/database"
	"github.com/yukikurage/staff-management-api/internal/live"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database that lives as long as the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	// Every connection to ":memory:" is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// Mail is one captured email.
type Mail struct {
	To      []string
	Subject string
	Body    string
}

// Mailbox is a mailer.Sender that records instead of sending.
type Mailbox struct {
	mu   sync.Mutex
	sent []Mail
}

func (m *Mailbox) Send(_ context.Context, to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, Mail{To: append([]string(nil), to...), Subject: subject, Body: body})
	return nil
}

// Sent returns a copy of the captured emails.
func (m *Mailbox) Sent() []Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Mail(nil), m.sent...)
}

// Events records broadcast events.
type Events struct {
	mu     sync.Mutex
	events []live.Event
}

func (e *Events) Broadcast(event live.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

// All returns a copy of the recorded events.
func (e *Events) All() []live.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]live.Event(nil), e.events...)
}
