// Package modulehandler provides a composable base for protected web module handlers.
//
// Protected modules (those mounted under /app/) share handler infrastructure
// for viewer resolution, localization, flash notices, page rendering, and
// error handling. Modules embed Base rather than duplicating it.
package modulehandler

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

// Base carries the request-scoped resolvers used by protected module handlers.
type Base struct {
	resolveViewer module.ResolveViewer
	flash         flashnotice.Writer
}

// NewBase builds a handler base from a viewer resolver and flash cookie writer.
func NewBase(resolveViewer module.ResolveViewer, flash flashnotice.Writer) Base {
	return Base{resolveViewer: resolveViewer, flash: flash}
}

// NewTestBase builds a handler base with no-op resolvers suitable for tests
// that do not exercise viewer state.
func NewTestBase() Base {
	return Base{resolveViewer: func(*http.Request) module.Viewer { return module.Viewer{} }}
}

// ResolveRequestViewer resolves app chrome viewer state for a request.
func (b Base) ResolveRequestViewer(r *http.Request) module.Viewer {
	if b.resolveViewer == nil {
		return module.Viewer{}
	}
	return b.resolveViewer(r)
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
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WritePage renders a module page. HTMX requests receive fragment alone and
// full-page requests receive body inside the app shell.
func (b Base) WritePage(
	w http.ResponseWriter,
	r *http.Request,
	title string,
	statusCode int,
	body templ.Component,
	fragment templ.Component,
) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Body:       body,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}
