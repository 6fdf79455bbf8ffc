package app

import (
	"log"
	"net/http"

	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/requestmeta"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	PublicModules    []module.Module
	ProtectedModules []module.Module

	// Authenticated reports whether a request carries a live session.
	Authenticated func(*http.Request) bool
	// SessionExpired handles a protected request whose cookie outlived its
	// session.
	SessionExpired func(http.ResponseWriter, *http.Request)
	// AttachSession resolves the browser session once per request.
	AttachSession httpx.Middleware

	RequestSchemePolicy requestmeta.SchemePolicy
	Logger              *log.Logger
}
