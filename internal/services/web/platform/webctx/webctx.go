// Package webctx carries the resolved browser session on the request context.
package webctx

import (
	"context"
	"net/http"

	webstorage "github.com/louisbranch/userdirectory/internal/services/web/storage"
)

type sessionKey struct{}

// WithSession returns ctx carrying session.
func WithSession(ctx context.Context, session webstorage.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// Session returns the session resolved for r, if any.
func Session(r *http.Request) (webstorage.Session, bool) {
	if r == nil {
		return webstorage.Session{}, false
	}
	return SessionFromContext(r.Context())
}

// SessionFromContext returns the session carried by ctx, if any.
func SessionFromContext(ctx context.Context) (webstorage.Session, bool) {
	if ctx == nil {
		return webstorage.Session{}, false
	}
	session, ok := ctx.Value(sessionKey{}).(webstorage.Session)
	if !ok || session.ID == "" {
		return webstorage.Session{}, false
	}
	return session, true
}
