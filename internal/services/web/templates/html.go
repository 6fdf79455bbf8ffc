package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func newHTMLWriter(w io.Writer) *htmlWriter {
	return &htmlWriter{w: w}
}

func (h *htmlWriter) raw(parts ...string) {
	for _, part := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

func (h *htmlWriter) text(value string) {
	h.raw(templ.EscapeString(value))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// flag writes a boolean attribute when on is true.
func (h *htmlWriter) flag(name string, on bool) {
	if on {
		h.raw(" ", name)
	}
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

// swapAttrs writes the htmx attributes that replace target with the response.
func (h *htmlWriter) swapAttrs(method, url, target string) {
	h.attr("hx-"+method, url)
	h.attr("hx-target", target)
	h.attr("hx-swap", "outerHTML")
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

// children returns the component's children with the children slot cleared
// on the returned context.
func children(ctx context.Context) (context.Context, templ.Component) {
	child := templ.GetChildren(ctx)
	if child == nil {
		child = templ.NopComponent
	}
	return templ.ClearChildren(ctx), child
}
