// Package session turns the session table into request identity: it issues
// the session cookie on sign-in, resolves it on every request and destroys
// it on sign-out.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
)

// DefaultCookieName is the cookie that carries the session id.
const DefaultCookieName = "sessionid"

// DefaultTTL matches a two-week sign-in.
const DefaultTTL = 14 * 24 * time.Hour

// Caller is the identity resolved for one request.
type Caller struct {
	UserID    int
	SessionID string
}

// Manager issues, resolves and destroys sessions.
type Manager struct {
	Store      repo.SessionStore
	TTL        time.Duration
	CookieName string
	Secure     bool

	// Now is overridable for tests.
	Now func() time.Time
}

// NewManager returns a Manager with default cookie name and TTL.
func NewManager(store repo.SessionStore) *Manager {
	return &Manager{
		Store:      store,
		TTL:        DefaultTTL,
		CookieName: DefaultCookieName,
		Now:        time.Now,
	}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) cookieName() string {
	if m.CookieName == "" {
		return DefaultCookieName
	}
	return m.CookieName
}

func (m *Manager) ttl() time.Duration {
	if m.TTL <= 0 {
		return DefaultTTL
	}
	return m.TTL
}

// Begin signs userID in: any session already named by the request cookie is
// destroyed, a fresh one is stored, and its cookie is set on w.
func (m *Manager) Begin(ctx context.Context, w http.ResponseWriter, r *http.Request, userID int) (Caller, error) {
	if c, err := r.Cookie(m.cookieName()); err == nil && c.Value != "" {
		if err := m.Store.Delete(ctx, c.Value); err != nil {
			return Caller{}, fmt.Errorf("drop previous session: %w", err)
		}
	}

	id, err := newID()
	if err != nil {
		return Caller{}, err
	}
	expires := m.now().Add(m.ttl())
	if err := m.Store.Create(ctx, models.Session{ID: id, UserID: userID, ExpiresAt: expires}); err != nil {
		return Caller{}, fmt.Errorf("create session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName(),
		Value:    id,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(m.ttl().Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return Caller{UserID: userID, SessionID: id}, nil
}

// Resolve returns the caller named by the request's session cookie. ok is
// false when there is no cookie, the session is unknown, or it has expired.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (caller Caller, ok bool, err error) {
	c, err := r.Cookie(m.cookieName())
	if err != nil || c.Value == "" {
		return Caller{}, false, nil
	}

	s, err := m.Store.Get(ctx, c.Value)
	if errors.Is(err, repo.ErrNotFound) {
		return Caller{}, false, nil
	}
	if err != nil {
		return Caller{}, false, fmt.Errorf("lookup session: %w", err)
	}
	if s.Expired(m.now()) {
		if err := m.Store.Delete(ctx, s.ID); err != nil {
			return Caller{}, false, fmt.Errorf("drop expired session: %w", err)
		}
		return Caller{}, false, nil
	}
	return Caller{UserID: s.UserID, SessionID: s.ID}, true, nil
}

// End destroys the caller's session and clears the cookie. Ending a session
// that a concurrent request already ended is not an error.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, caller Caller) error {
	if err := m.Store.Delete(ctx, caller.SessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
