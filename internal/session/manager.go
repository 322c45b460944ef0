package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"deptportal/internal/domain/auth"
	"deptportal/internal/platform/crypto"
	"deptportal/internal/platform/logging"
)

const CookieName = "portal_session"

// Manager binds server-side sessions to the browser through a signed cookie.
type Manager struct {
	store  Store
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) (*Manager, error) {
	key, err := crypto.DeriveKey(secret, crypto.PurposeSessionCookie)
	if err != nil {
		return nil, err
	}
	return &Manager{store: store, key: key, ttl: ttl, secure: secure, now: time.Now}, nil
}

// Set starts a new session holding the API token and the acting user.
func (m *Manager) Set(ctx context.Context, w http.ResponseWriter, token, employeeID, role string) (Session, error) {
	now := m.now()
	s := Session{
		ID:         uuid.NewString(),
		Token:      token,
		EmployeeID: employeeID,
		Role:       role,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	value, err := auth.SignSessionCookie(m.key, s.ID, m.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("sign session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return s, nil
}

// Get returns the current session; ok is false when the request carries
// none or it no longer exists.
func (m *Manager) Get(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}
	claims, err := auth.ParseSessionCookie(m.key, cookie.Value)
	if err != nil {
		return Session{}, false
	}
	s, err := m.store.Load(r.Context(), claims.SessionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.FromContext(r.Context()).Warn().Err(err).Msg("session load failed")
		}
		return Session{}, false
	}
	return s, true
}

// Clear removes the session and expires the cookie.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var err error
	if s, ok := m.Get(r); ok {
		err = m.store.Delete(ctx, s.ID)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return err
}

// Discard deletes a session server-side without touching the cookie.
func (m *Manager) Discard(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Flash queues a toast on the stored session. A session removed since the
// request started stays removed.
func (m *Manager) Flash(ctx context.Context, s Session, kind, message string) error {
	current, err := m.store.Load(ctx, s.ID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	current.Flashes = append(current.Flashes, Flash{Kind: kind, Message: message})
	return m.store.Save(ctx, current)
}

// PopFlashes returns and clears the queued toasts.
func (m *Manager) PopFlashes(ctx context.Context, s Session) ([]Flash, error) {
	if len(s.Flashes) == 0 {
		return nil, nil
	}
	current, err := m.store.Load(ctx, s.ID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	flashes := current.Flashes
	if len(flashes) == 0 {
		return nil, nil
	}
	current.Flashes = nil
	if err := m.store.Save(ctx, current); err != nil {
		return flashes, err
	}
	return flashes, nil
}
