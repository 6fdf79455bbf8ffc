// Package directory serves the paginated user directory with inline edit and
// two-step delete.
package directory

import (
	"log"
	"net/http"
	"time"

	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
)

// Module provides authenticated directory routes.
type Module struct {
	gateway DirectoryGateway
	base    modulehandler.Base
	logger  *log.Logger
	store   *stateStore
}

// Option configures a Module.
type Option func(*moduleConfig)

type moduleConfig struct {
	gateway DirectoryGateway
	base    modulehandler.Base
	logger  *log.Logger
	idleTTL time.Duration
}

// WithGateway sets the remote directory gateway.
func WithGateway(gateway DirectoryGateway) Option {
	return func(c *moduleConfig) { c.gateway = gateway }
}

// WithBase sets the shared protected handler base.
func WithBase(base modulehandler.Base) Option {
	return func(c *moduleConfig) { c.base = base }
}

// WithLogger sets the logger for upstream failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *moduleConfig) { c.logger = logger }
}

// WithIdleTTL sets how long an untouched session snapshot is kept.
func WithIdleTTL(ttl time.Duration) Option {
	return func(c *moduleConfig) { c.idleTTL = ttl }
}

// New returns a directory module. Without a gateway it runs degraded and every
// fetch fails with the fixed notice.
func New(opts ...Option) Module {
	cfg := moduleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return Module{
		gateway: cfg.gateway,
		base:    cfg.base,
		logger:  cfg.logger,
		store:   newStateStore(cfg.idleTTL, nil),
	}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "directory" }

// Healthy reports whether the directory module has an operational gateway.
func (m Module) Healthy() bool {
	if m.gateway == nil {
		return false
	}
	_, unavailable := m.gateway.(unavailableGateway)
	return !unavailable
}

// Mount wires directory route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	svc := newService(m.gateway, m.store, m.logger)
	h := newHandlers(svc, m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.UsersPrefix, Handler: mux}, nil
}

// DropSession forgets the directory snapshot of a signed-out session.
func (m Module) DropSession(sessionID string) {
	if m.store == nil {
		return
	}
	newService(m.gateway, m.store, m.logger).drop(sessionID)
}
