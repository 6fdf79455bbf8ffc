// Package web hosts the browser-facing user directory service.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/userdirectory/internal/platform/timeouts"
	webapp "github.com/louisbranch/userdirectory/internal/services/web/app"
	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules"
	flashnotice "github.com/louisbranch/userdirectory/internal/services/web/platform/flash"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/userdirectory/internal/services/web/session"
	"github.com/louisbranch/userdirectory/internal/services/web/storage/sqlite"
)

const noticeSessionExpired = "web.login.notice_session_expired"

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr   string
	APIBaseURL string
	APIKey     string
	APITimeout time.Duration
	DBPath     string
	// SessionKey signs session cookies. It must be non-empty.
	SessionKey          []byte
	SessionTTL          time.Duration
	TrustForwardedProto bool
	Logger              *log.Logger
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
	logger     *log.Logger
}

// Dependencies carries the collaborators NewHandler wires into modules.
type Dependencies struct {
	Directory           *directoryapi.Client
	Sessions            *session.Manager
	TrustForwardedProto bool
	Logger              *log.Logger
}

// NewHandler builds the root handler from the default module registry.
func NewHandler(deps Dependencies) (http.Handler, error) {
	if deps.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: deps.TrustForwardedProto}
	moduleDeps := modules.Dependencies{
		Sessions:      deps.Sessions,
		ResolveViewer: deps.Sessions.Viewer,
		Flash:         flashnotice.Writer{Policy: policy},
		Logger:        logger,
	}
	// Interface fields stay nil without a client so modules degrade.
	if deps.Directory != nil {
		moduleDeps.AuthGateway = deps.Directory
		moduleDeps.DirectoryGateway = deps.Directory
	}
	registry := modules.DefaultModules(moduleDeps)
	flash := moduleDeps.Flash
	return webapp.BuildRootHandler(webapp.Config{
		PublicModules:    registry.Public,
		ProtectedModules: registry.Protected,
		Authenticated: func(r *http.Request) bool {
			_, ok := deps.Sessions.Resolve(r)
			return ok
		},
		SessionExpired: func(w http.ResponseWriter, r *http.Request) {
			if _, err := deps.Sessions.Destroy(r.Context(), w, r); err != nil {
				logger.Printf("clear expired session: %v", err)
			}
			flash.Write(w, r, flashnotice.Info(noticeSessionExpired))
		},
		AttachSession:       deps.Sessions.Attach(),
		RequestSchemePolicy: policy,
		Logger:              logger,
	})
}

// NewServer validates config, opens the session store and constructs a web
// server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("api base url is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	if cfg.APITimeout <= 0 {
		cfg.APITimeout = timeouts.UpstreamRequest
	}

	client, err := directoryapi.New(cfg.APIBaseURL,
		directoryapi.WithTimeout(cfg.APITimeout),
		directoryapi.WithAPIKey(cfg.APIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("build directory client: %w", err)
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	codec, err := sessioncookie.NewCodec(cfg.SessionKey, policy)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build session cookie codec: %w", err)
	}
	sessions, err := session.NewManager(store, codec,
		session.WithTTL(cfg.SessionTTL),
		session.WithLogger(logger),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build session manager: %w", err)
	}

	handler, err := NewHandler(Dependencies{
		Directory:           client,
		Sessions:            sessions,
		TrustForwardedProto: cfg.TrustForwardedProto,
		Logger:              logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		logger: logger,
	}, nil
}

func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("session database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create session database dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	return store, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes the HTTP listener and the session store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Printf("close session store: %v", err)
		}
	}
}
