// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	flashnotice "github.com/louisbranch/userdirectory/internal/services/web/platform/flash"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/userdirectory/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/userdirectory/internal/services/web/templates"
)

// RequestResolver resolves viewer state and the pending flash notice for a request.
type RequestResolver interface {
	ResolveRequestViewer(r *http.Request) module.Viewer
	ConsumeNotice(w http.ResponseWriter, r *http.Request) (flashnotice.Notice, bool)
}

// ModulePage describes a page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	// Body is rendered inside the app shell for full-page requests.
	Body templ.Component
	// Fragment is rendered alone for HTMX requests. Body is used when nil.
	Fragment templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WriteModulePage writes a page using shared app-shell rendering contracts.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver RequestResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	body := page.Body
	if body == nil {
		body = emptyComponent{}
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = body
	}

	ctx := httpx.RequestContext(r)
	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := fragment.Render(ctx, &buf); err != nil {
			return err
		}
		httpx.WriteHTML(w, statusCode, buf.Bytes())
		return nil
	}

	loc, lang := webi18n.ResolveLocalizer(w, r)
	viewer := module.Viewer{}
	if resolver != nil {
		viewer = resolver.ResolveRequestViewer(r)
	}
	opts := webtemplates.LayoutOptions{
		Title:  page.Title,
		Lang:   lang,
		Viewer: webtemplates.Viewer{Email: viewer.Email, SignedIn: viewer.SignedIn},
		Toast:  resolveFlashToast(w, r, resolver, loc),
	}
	if r != nil && r.URL != nil {
		opts.CurrentPath = r.URL.Path
		opts.CurrentQuery = r.URL.RawQuery
	}
	if err := webtemplates.Layout(opts, loc).Render(templ.WithChildren(ctx, body), &buf); err != nil {
		return err
	}
	httpx.WriteHTML(w, statusCode, buf.Bytes())
	return nil
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, resolver RequestResolver, loc webi18n.Localizer) *webtemplates.Toast {
	if resolver == nil {
		return nil
	}
	notice, ok := resolver.ConsumeNotice(w, r)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(loc.Sprintf(notice.Key))
	if message == "" {
		message = strings.TrimSpace(notice.Key)
	}
	if message == "" {
		return nil
	}
	return &webtemplates.Toast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}
