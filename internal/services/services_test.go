package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/outbox"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/storage"
	"github.com/yukikurage/staff-management-api/internal/testutil"
	"gorm.io/gorm"
)

const testPassword = "password123"

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	mail     *testutil.Mailbox
	events   *testutil.Events
	notifier *Notifier
	uploader *storage.Uploader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	mail := &testutil.Mailbox{}
	events := &testutil.Events{}

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		mail:     mail,
		events:   events,
		notifier: NewNotifier(outbox.NewInline(), mail, events, "https://staff.example.com"),
		uploader: storage.NewUploader(store, 1024*1024, "/uploads"),
	}
}

func (f *fixture) createUser(t *testing.T, username string, admin bool) *models.User {
	t.Helper()
	hash, err := HashPassword(testPassword)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
		Name:         username,
		IsAdmin:      admin,
		IsApproved:   true,
	}
	require.NoError(t, f.users.Create(user))
	return user
}
