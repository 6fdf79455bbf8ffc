package app

import (
	"io"
	"log"
	"net/http"

	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/observability"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
	webstatic "github.com/louisbranch/userdirectory/internal/services/web/static"
)

// BuildRootHandler composes the module groups with the health check, the
// embedded stylesheet and the shared middleware chain.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	authenticated := cfg.Authenticated
	if authenticated == nil {
		authenticated = func(*http.Request) bool { return false }
	}
	composed, err := Compose(ComposeInput{
		AuthRequired:        authenticated,
		SessionExpired:      cfg.SessionExpired,
		PublicModules:       cfg.PublicModules,
		ProtectedModules:    cfg.ProtectedModules,
		RequestSchemePolicy: cfg.RequestSchemePolicy,
	})
	if err != nil {
		return nil, err
	}

	rootMux := http.NewServeMux()
	rootMux.Handle("GET "+routepath.Health, healthHandler(append(append([]module.Module{}, cfg.PublicModules...), cfg.ProtectedModules...)))
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(webstatic.FS)))
	rootMux.Handle(routepath.Root, composed)
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(logger),
		httpx.RequestID(),
		observability.Tracing(),
		observability.RequestLogger(logger),
		cfg.AttachSession,
	), nil
}

// healthHandler answers 200 when every module reports a configured upstream
// and 503 otherwise. The process serves a degraded UI either way.
func healthHandler(modules []module.Module) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, body := http.StatusOK, "OK"
		for _, m := range modules {
			reporter, ok := m.(module.HealthReporter)
			if ok && !reporter.Healthy() {
				status, body = http.StatusServiceUnavailable, "DEGRADED "+m.ID()
				break
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body+"\n")
	})
}
