// Package session keeps the current role label and UI preferences in durable storage.
package session

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/permission"
	"github.com/talkincode/toughstock/internal/storage"
	"go.uber.org/zap"
)

// Manager reads and writes the "user" and "darkMode" keys.
type Manager struct {
	kv storage.KV
}

func NewManager(kv storage.KV) *Manager {
	return &Manager{kv: kv}
}

// Login replaces the current session. No credentials are checked.
func (m *Manager) Login(ctx context.Context, username string, role domain.Role) (domain.Session, error) {
	username = strings.TrimSpace(username)
	role = domain.Role(strings.ToLower(strings.TrimSpace(string(role))))
	verr := &domain.ValidationError{}
	if username == "" {
		verr.Add("username", "Username is required")
	}
	if !domain.IsValidRole(role) {
		verr.Add("role", "Role must be admin, manager or viewer")
	}
	if err := verr.OrNil(); err != nil {
		return domain.Session{}, err
	}
	sess := domain.Session{Username: username, Role: role}
	if err := storage.SetJSON(ctx, m.kv, map[string]interface{}{domain.KeyUser: sess}); err != nil {
		return sess, err
	}
	zap.L().Info("session started", zap.String("namespace", "session"),
		zap.String("username", username), zap.String("role", string(role)))
	return sess, nil
}

// Logout clears the session. Logging out twice is not an error.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, domain.KeyUser); err != nil {
		return errors.Wrapf(domain.ErrPersistence, "delete %s: %v", domain.KeyUser, err)
	}
	return nil
}

// Current returns the active session or ErrNotFound.
func (m *Manager) Current(ctx context.Context) (domain.Session, error) {
	var sess domain.Session
	ok, err := storage.GetJSON(ctx, m.kv, domain.KeyUser, &sess)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok || sess.Username == "" {
		return domain.Session{}, errors.Wrap(domain.ErrNotFound, "no active session")
	}
	return sess, nil
}

// HasPermission checks action against the current role. It is false without a session.
func (m *Manager) HasPermission(ctx context.Context, action permission.Action) bool {
	sess, err := m.Current(ctx)
	if err != nil {
		return false
	}
	return permission.IsAllowed(action, sess.Role)
}

// DarkMode returns the stored preference, false when unset.
func (m *Manager) DarkMode(ctx context.Context) (bool, error) {
	var on bool
	if _, err := storage.GetJSON(ctx, m.kv, domain.KeyDarkMode, &on); err != nil {
		return false, err
	}
	return on, nil
}

func (m *Manager) SetDarkMode(ctx context.Context, on bool) error {
	return storage.SetJSON(ctx, m.kv, map[string]interface{}{domain.KeyDarkMode: on})
}

// ToggleDarkMode flips the preference and returns the new value.
func (m *Manager) ToggleDarkMode(ctx context.Context) (bool, error) {
	on, err := m.DarkMode(ctx)
	if err != nil {
		return false, err
	}
	on = !on
	return on, m.SetDarkMode(ctx, on)
}
