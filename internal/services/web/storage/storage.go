// Package storage declares persistence contracts for web-owned session data.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a missing or expired session.
var ErrNotFound = errors.New("session not found")

// Session binds one browser session to the directory API token issued at login.
type Session struct {
	ID          string
	AccessToken string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ExpiresAt   time.Time
}

// SessionStore persists browser sessions across process restarts.
type SessionStore interface {
	SaveSession(ctx context.Context, session Session) error
	LoadSession(ctx context.Context, id string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
}
