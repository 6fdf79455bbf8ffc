// Package publichandler provides a shared base for unauthenticated web module handlers.
// It centralizes error handling, localization, and page rendering that would
// otherwise be duplicated across public modules.
package publichandler

import (
	"net/http"

	"github.com/a-h/templ"
	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	flashnotice "github.com/louisbranch/userdirectory/internal/services/web/platform/flash"
	webi18n "github.com/louisbranch/userdirectory/internal/services/web/platform/i18n"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/pagerender"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/userdirectory/internal/services/web/templates"
)

// Base provides shared error handling and page rendering for public modules.
type Base struct {
	resolveViewer module.ResolveViewer
	flash         flashnotice.Writer
}

// Option configures a Base.
type Option func(*Base)

// WithResolveViewer attaches a viewer resolver for app-chrome rendering.
func WithResolveViewer(rv module.ResolveViewer) Option {
	return func(b *Base) { b.resolveViewer = rv }
}

// WithFlash sets the flash cookie writer.
func WithFlash(flash flashnotice.Writer) Option {
	return func(b *Base) { b.flash = flash }
}

// NewBase builds a public handler base with the given options.
func NewBase(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		o(&b)
	}
	return b
}

// ResolveRequestViewer resolves viewer state for the request.
// Returns a zero Viewer when no resolver is configured.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
}

// IsViewerSignedIn reports whether the current request is authenticated.
func (b Base) IsViewerSignedIn(r *http.Request) bool {
	return b.ResolveRequestViewer(r).SignedIn
}

// ConsumeNotice reads and clears the pending flash notice.
func (b Base) ConsumeNotice(w http.ResponseWriter, r *http.Request) (flashnotice.Notice, bool) {
	return b.flash.Consume(w, r)
}

// WriteNotice stores a flash notice for the next full page.
func (b Base) WriteNotice(w http.ResponseWriter, r *http.Request, notice flashnotice.Notice) {
	b.flash.Write(w, r, notice)
}

// PageLocalizer resolves a localizer and language tag from the request.
func (Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r)
}

// WritePublicPage renders a public page. HTMX requests receive fragment alone.
func (b Base) WritePublicPage(w http.ResponseWriter, r *http.Request, title string, statusCode int, body templ.Component, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Body:       body,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteNotFound renders a localized 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WriteError renders a user-safe error response: app error pages for not-found
// and server errors, plain-text status messages for everything else.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}
