package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users)
	user := f.createUser(t, "alice", false)

	got, err := svc.Login(LoginInput{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Username: "nobody", Password: testPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RejectsUnapprovedUser(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users)
	user := f.createUser(t, "pending", false)
	require.NoError(t, f.db.Model(user).Update("is_approved", false).Error)

	_, err := svc.Login(LoginInput{Username: "pending", Password: testPassword})
	assert.ErrorIs(t, err, ErrPendingApproval)

	// Admins authenticate regardless of the approval flag.
	admin := f.createUser(t, "boss", true)
	require.NoError(t, f.db.Model(admin).Update("is_approved", false).Error)
	_, err = svc.Login(LoginInput{Username: "boss", Password: testPassword})
	assert.NoError(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users)

	created, err := svc.EnsureAdmin(AdminSeed{})
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.EnsureAdmin(AdminSeed{Username: "admin", Password: "123"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	seed := AdminSeed{Username: "admin", Password: "admin-password", Email: "admin@example.com"}
	created, err = svc.EnsureAdmin(seed)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(seed)
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := svc.Login(LoginInput{Username: "admin", Password: "admin-password"})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "admin", admin.Name)

	count, err := f.users.CountAdmins()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.users)
	user := f.createUser(t, "alice", false)

	got, err := svc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = svc.GetUser(12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
