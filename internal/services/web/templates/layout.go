package templates

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	platformi18n "github.com/louisbranch/userdirectory/internal/platform/i18n"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
	"golang.org/x/text/language"
)

const (
	htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4"
	// htmxConfig lets 4xx and 5xx fragments swap so rejected actions still
	// re-render the current view.
	htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[2345]..","swap":true}]}`

	langParam = "lang"
)

// Viewer is the signed-in identity shown in the app chrome.
type Viewer struct {
	Email    string
	SignedIn bool
}

// Toast is a one-shot notice rendered at the top of a full page.
type Toast struct {
	Kind    string
	Message string
}

// LayoutOptions describes the document shell around page content.
type LayoutOptions struct {
	Title        string
	Lang         string
	CurrentPath  string
	CurrentQuery string
	Viewer       Viewer
	Toast        *Toast
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// Layout renders the full HTML document with children inside main.
func Layout(opts LayoutOptions, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx, body := children(ctx)
		h := newHTMLWriter(w)
		lang := strings.TrimSpace(opts.Lang)
		if lang == "" {
			lang = platformi18n.DefaultTag().String()
		}
		appName := T(loc, "web.layout.title")
		title := appName
		if t := strings.TrimSpace(opts.Title); t != "" && t != appName {
			title = t + " | " + appName
		}

		h.raw("<!doctype html><html")
		h.attr("lang", lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<meta name="htmx-config"`)
		h.attr("content", htmxConfig)
		h.raw("><title>")
		h.text(title)
		h.raw(`</title><link rel="stylesheet"`)
		h.attr("href", routepath.StaticPrefix+"app.css")
		h.raw("><script defer")
		h.attr("src", htmxScriptURL)
		h.raw("></script></head><body>")

		h.raw(`<header class="topbar"><a class="brand"`)
		if opts.Viewer.SignedIn {
			h.attr("href", routepath.AppUsers)
		} else {
			h.attr("href", routepath.Login)
		}
		h.raw(">")
		h.text(appName)
		h.raw("</a>")
		if opts.Viewer.SignedIn {
			h.raw(`<nav class="nav"><a`)
			h.attr("href", routepath.AppUsers)
			h.raw(">")
			h.text(T(loc, "web.layout.nav_users"))
			h.raw(`</a><span class="viewer">`)
			h.text(T(loc, "web.layout.signed_in_as", opts.Viewer.Email))
			h.raw(`</span><form class="logout" method="post"`)
			h.attr("action", routepath.Logout)
			h.raw(`><button type="submit">`)
			h.text(T(loc, "web.layout.nav_logout"))
			h.raw("</button></form></nav>")
		}
		h.raw(`<ul class="languages">`)
		for _, option := range LanguageOptions(opts.CurrentPath, opts.CurrentQuery, lang, loc) {
			h.raw("<li><a")
			h.attr("href", option.URL)
			h.attr("hreflang", option.Tag)
			if option.Active {
				h.attr("aria-current", "true")
			}
			h.raw(">")
			h.text(option.Label)
			h.raw("</a></li>")
		}
		h.raw("</ul></header>")

		if opts.Toast != nil && strings.TrimSpace(opts.Toast.Message) != "" {
			h.render(ctx, ToastNotice(*opts.Toast))
		}

		h.raw(`<main id="main">`)
		h.render(ctx, body)
		h.raw("</main></body></html>")
		return h.err
	})
}

// ToastNotice renders a one-shot page notice.
func ToastNotice(toast Toast) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<div id="toast" role="status"`)
		h.attr("class", "toast toast-"+kindClass(toast.Kind))
		h.raw(">")
		h.text(toast.Message)
		h.raw("</div>")
		return h.err
	})
}

// LanguageOptions lists supported languages with links that keep the current
// path and query.
func LanguageOptions(currentPath, currentQuery, active string, loc Localizer) []LanguageOption {
	path := strings.TrimSpace(currentPath)
	if path == "" {
		path = routepath.Root
	}
	tags := platformi18n.SupportedTags()
	options := make([]LanguageOption, 0, len(tags))
	for _, tag := range tags {
		values, err := url.ParseQuery(currentQuery)
		if err != nil {
			values = url.Values{}
		}
		values.Set(langParam, tag.String())
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  languageLabel(loc, tag),
			URL:    path + "?" + values.Encode(),
			Active: strings.EqualFold(tag.String(), active),
		})
	}
	return options
}

func languageLabel(loc Localizer, tag language.Tag) string {
	if tag.String() == language.BrazilianPortuguese.String() {
		return T(loc, "web.layout.lang_pt_br")
	}
	return T(loc, "web.layout.lang_en")
}

func kindClass(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "success":
		return "success"
	case "error":
		return "error"
	default:
		return "info"
	}
}
