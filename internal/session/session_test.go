package session

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/permission"
	"github.com/talkincode/toughstock/internal/storage"
)

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	m := NewManager(kv)

	_, err := m.Current(ctx)
	assert.True(t, domain.IsNotFound(err))
	assert.False(t, m.HasPermission(ctx, permission.ActionView))

	sess, err := m.Login(ctx, " alice ", "Manager")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Username: "alice", Role: domain.RoleManager}, sess)

	// the session survives a new manager over the same storage
	cur, err := NewManager(kv).Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, cur)

	assert.True(t, m.HasPermission(ctx, permission.ActionEdit))
	assert.False(t, m.HasPermission(ctx, permission.ActionDelete))

	require.NoError(t, m.Logout(ctx))
	require.NoError(t, m.Logout(ctx))
	_, err = m.Current(ctx)
	assert.True(t, domain.IsNotFound(err))
}

func TestLoginValidation(t *testing.T) {
	m := NewManager(storage.NewMemory())
	_, err := m.Login(context.Background(), "", "root")
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "role")
}

func TestLoginPersistFailure(t *testing.T) {
	kv := storage.NewMemory()
	kv.FailWrites = errors.New("read only")
	_, err := NewManager(kv).Login(context.Background(), "bob", domain.RoleAdmin)
	assert.True(t, domain.IsPersistence(err))
}

func TestDarkMode(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemory())

	on, err := m.DarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = m.ToggleDarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = m.DarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, on)

	require.NoError(t, m.SetDarkMode(ctx, false))
	on, err = m.DarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, on)
}
