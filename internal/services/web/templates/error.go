package templates

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
)

// AppErrorPageTitle returns the browser page title for app error pages.
func AppErrorPageTitle(statusCode int, loc Localizer) string {
	if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, "web.error.title_not_found")
	}
	return T(loc, "web.error.title_server")
}

func appErrorMessage(statusCode int, loc Localizer) string {
	if normalizeAppErrorStatus(statusCode) == http.StatusNotFound {
		return T(loc, "web.error.body_not_found")
	}
	return T(loc, "web.error.body_server")
}

func normalizeAppErrorStatus(statusCode int) int {
	if statusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// AppErrorState renders the error panel for 404 and 5xx pages.
func AppErrorState(statusCode int, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<section class="app-error"`)
		h.attr("data-status", itoa(normalizeAppErrorStatus(statusCode)))
		h.raw("><h1>")
		h.text(AppErrorPageTitle(statusCode, loc))
		h.raw("</h1><p>")
		h.text(appErrorMessage(statusCode, loc))
		h.raw("</p><a")
		h.attr("href", routepath.Root)
		h.raw(">")
		h.text(T(loc, "web.error.back"))
		h.raw("</a></section>")
		return h.err
	})
}
