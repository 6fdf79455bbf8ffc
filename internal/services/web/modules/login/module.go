// Package login serves the sign-in form and the sign-out action.
package login

import (
	"log"
	"net/http"

	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/publichandler"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
)

// Module provides the public sign-in routes.
type Module struct {
	gateway  AuthGateway
	sessions Sessions
	base     publichandler.Base
	onLogout func(sessionID string)
	logger   *log.Logger
}

// Option configures a Module.
type Option func(*Module)

// WithGateway sets the credential exchange gateway.
func WithGateway(gateway AuthGateway) Option {
	return func(m *Module) { m.gateway = gateway }
}

// WithSessions sets the browser session manager.
func WithSessions(sessions Sessions) Option {
	return func(m *Module) { m.sessions = sessions }
}

// WithBase sets the shared public handler base.
func WithBase(base publichandler.Base) Option {
	return func(m *Module) { m.base = base }
}

// WithLogoutHook runs fn with the id of every destroyed session.
func WithLogoutHook(fn func(sessionID string)) Option {
	return func(m *Module) { m.onLogout = fn }
}

// WithLogger sets the logger for upstream and session failures.
func WithLogger(logger *log.Logger) Option {
	return func(m *Module) { m.logger = logger }
}

// New returns a login module.
func New(opts ...Option) Module {
	var m Module
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// ID returns a stable module identifier.
func (Module) ID() string { return "login" }

// Healthy reports whether the login module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil || m.sessions == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires the sign-in route handlers at the site root.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway, m.logger)
	h := newHandlers(svc, m.base, m.sessions, m.onLogout, m.logger)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
