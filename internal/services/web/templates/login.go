package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
)

const (
	loginFormID      = "login-form"
	loginErrorID     = "login-error"
	loginIndicatorID = "login-busy"
)

// LoginView is the render model of the sign-in form. The password is never
// rendered back; htmx failures only swap the error region.
type LoginView struct {
	Email string
	// ErrorMessage is already user-facing: a server message or localized fallback.
	ErrorMessage string
	Submitting   bool
}

// LoginForm renders the sign-in form. htmx posts replace only the error region
// so typed values stay in the browser.
func LoginForm(view LoginView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw("<form")
		h.attr("id", loginFormID)
		h.attr("class", "login-form")
		h.attr("method", "post")
		h.attr("action", routepath.Login)
		h.swapAttrs("post", routepath.Login, "#"+loginErrorID)
		h.attr("hx-disabled-elt", "find button[type='submit']")
		h.attr("hx-indicator", "#"+loginIndicatorID)
		h.raw(">")

		h.render(ctx, LoginError(view))
		h.raw(`<label for="login-email">`)
		h.text(T(loc, "web.login.email"))
		h.raw(`</label><input id="login-email" name="email" type="email" autocomplete="username" required`)
		h.attr("value", view.Email)
		h.raw(`><label for="login-password">`)
		h.text(T(loc, "web.login.password"))
		h.raw(`</label><input id="login-password" name="password" type="password" autocomplete="current-password" required><button type="submit"`)
		h.flag("disabled", view.Submitting)
		h.raw(">")
		h.text(T(loc, "web.login.submit"))
		h.raw("</button><span")
		h.attr("id", loginIndicatorID)
		if view.Submitting {
			h.attr("class", "htmx-indicator busy")
		} else {
			h.attr("class", "htmx-indicator")
		}
		h.raw(` aria-live="polite">`)
		h.text(T(loc, "web.login.submitting"))
		h.raw("</span></form>")
		return h.err
	})
}

// LoginError renders the always-present error region of the sign-in form.
func LoginError(view LoginView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw("<div")
		h.attr("id", loginErrorID)
		h.raw(` aria-live="polite">`)
		if view.ErrorMessage != "" {
			h.raw(`<p class="form-error" role="alert">`)
			h.text(view.ErrorMessage)
			h.raw("</p>")
		}
		h.raw("</div>")
		return h.err
	})
}

// LoginPage renders the sign-in card around the form.
func LoginPage(view LoginView, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<section class="login"><h1>`)
		h.text(T(loc, "web.login.heading"))
		h.raw("</h1>")
		h.render(ctx, LoginForm(view, loc))
		h.raw("</section>")
		return h.err
	})
}
