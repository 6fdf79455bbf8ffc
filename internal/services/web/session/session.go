// Package session binds browser sessions to directory API tokens.
//
// A session is created after a successful login, persisted through a
// storage.SessionStore, and referenced from the browser by a signed cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/webctx"
	webstorage "github.com/louisbranch/userdirectory/internal/services/web/storage"
)

// DefaultTTL bounds a session when no TTL is configured.
const DefaultTTL = 24 * time.Hour

var (
	errStoreRequired = errors.New("session store is required")
	errCodecRequired = errors.New("session cookie codec is required")
	// ErrTokenRequired reports a Create call without a directory token.
	ErrTokenRequired = errors.New("directory token is required")
)

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the session lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager creates, resolves and destroys browser sessions.
type Manager struct {
	store  webstorage.SessionStore
	codec  *sessioncookie.Codec
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

// NewManager builds a Manager backed by store and codec.
func NewManager(store webstorage.SessionStore, codec *sessioncookie.Codec, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errStoreRequired
	}
	if codec == nil {
		return nil, errCodecRequired
	}
	m := &Manager{
		store:  store,
		codec:  codec,
		ttl:    DefaultTTL,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Create persists a new session for token and writes its cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, r *http.Request, token, email string) (webstorage.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return webstorage.Session{}, ErrTokenRequired
	}
	now := m.now().UTC()
	session := webstorage.Session{
		ID:          m.newID(),
		AccessToken: token,
		Email:       strings.TrimSpace(email),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}
	if err := m.store.SaveSession(ctx, session); err != nil {
		return webstorage.Session{}, fmt.Errorf("save session: %w", err)
	}
	if err := m.codec.Write(w, r, session.ID, session.ExpiresAt); err != nil {
		return webstorage.Session{}, fmt.Errorf("write session cookie: %w", err)
	}
	return session, nil
}

// Resolve returns the live session for r. A session already attached to the
// request context wins over a cookie lookup.
func (m *Manager) Resolve(r *http.Request) (webstorage.Session, bool) {
	if session, ok := webctx.Session(r); ok {
		return session, true
	}
	return m.resolveUncached(r)
}

func (m *Manager) resolveUncached(r *http.Request) (webstorage.Session, bool) {
	if r == nil {
		return webstorage.Session{}, false
	}
	claims, ok := m.codec.Read(r)
	if !ok {
		return webstorage.Session{}, false
	}
	session, err := m.store.LoadSession(r.Context(), claims.SessionID)
	if err != nil {
		if !errors.Is(err, webstorage.ErrNotFound) {
			m.logger.Printf("session lookup failed session_id=%s err=%v", claims.SessionID, err)
		}
		return webstorage.Session{}, false
	}
	return session, true
}

// Destroy removes the request's session and clears its cookie. It returns the
// id of the removed session, or "" when the request had none.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	m.codec.Clear(w, r)
	var sessionID string
	if session, ok := webctx.Session(r); ok {
		sessionID = session.ID
	} else if r != nil {
		if claims, ok := m.codec.Read(r); ok {
			sessionID = claims.SessionID
		}
	}
	if sessionID == "" {
		return "", nil
	}
	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return sessionID, fmt.Errorf("delete session: %w", err)
	}
	return sessionID, nil
}

// Attach resolves the session once per request and stores it on the context
// for the rest of the handler chain.
func (m *Manager) Attach() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session, ok := m.resolveUncached(r); ok {
				r = r.WithContext(webctx.WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Viewer resolves app chrome state from the request session.
func (m *Manager) Viewer(r *http.Request) module.Viewer {
	session, ok := m.Resolve(r)
	if !ok {
		return module.Viewer{}
	}
	return module.Viewer{Email: session.Email, SignedIn: true}
}
