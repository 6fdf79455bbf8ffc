package login

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	module "github.com/louisbranch/userdirectory/internal/services/web/module"
	flashnotice "github.com/louisbranch/userdirectory/internal/services/web/platform/flash"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/publichandler"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
)

type loginHarness struct {
	mux       *http.ServeMux
	gw        *fakeAuthGateway
	sessions  *fakeSessions
	loggedOut []string
}

func newLoginHarness(t *testing.T, signedIn bool) *loginHarness {
	t.Helper()
	h := &loginHarness{gw: &fakeAuthGateway{token: "QpwL5tke4Pnpja7X4"}, sessions: &fakeSessions{destroyID: "session-1"}}
	base := publichandler.NewBase(
		publichandler.WithResolveViewer(func(*http.Request) module.Viewer {
			return module.Viewer{SignedIn: signedIn, Email: "eve.holt@reqres.in"}
		}),
		publichandler.WithFlash(flashnotice.Writer{}),
	)
	logger := log.New(&bytes.Buffer{}, "", 0)
	h.mux = http.NewServeMux()
	registerRoutes(h.mux, newHandlers(newService(h.gw, logger), base, h.sessions, func(id string) {
		h.loggedOut = append(h.loggedOut, id)
	}, logger))
	return h
}

func postForm(target string, form url.Values, htmx bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return req
}

func assertBody(t *testing.T, body string, markers ...string) {
	t.Helper()
	for _, marker := range markers {
		if !strings.Contains(body, marker) {
			t.Fatalf("body missing marker %q:\n%s", marker, body)
		}
	}
}

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, handlers{})
}

func TestRootRedirectsToLogin(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Root, nil))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != routepath.Login {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestLoginPageRendersForm(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Login, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	assertBody(t, rr.Body.String(), "<!doctype html>", `id="login-form"`, `name="email"`, `name="password"`)
}

func TestLoginPageRedirectsSignedInViewer(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, true)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Login, nil))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != routepath.AppUsers {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestLoginSubmitMissingPassword(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, postForm(routepath.Login, url.Values{"email": {"eve.holt@reqres.in"}}, true))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	assertBody(t, rr.Body.String(), `<div id="login-error"`, "Password is required.")
	if strings.Contains(rr.Body.String(), "<!doctype html>") || strings.Contains(rr.Body.String(), "<form") {
		t.Fatal("htmx failure should swap only the error region")
	}
	if h.gw.callCount() != 0 {
		t.Fatalf("upstream calls = %d, want 0", h.gw.callCount())
	}
}

func TestLoginSubmitUpstreamRejection(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	h.gw.token = ""
	h.gw.err = &directoryapi.StatusError{Op: "login", StatusCode: 400, Message: "user not found"}
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, postForm(routepath.Login, url.Values{"email": {"a@b.com"}, "password": {"pw"}}, true))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	assertBody(t, rr.Body.String(), `role="alert">user not found</p>`)
	if strings.Contains(rr.Body.String(), `value="pw"`) {
		t.Fatal("password echoed back to the client")
	}
	if len(h.sessions.created) != 0 {
		t.Fatal("session created after failure")
	}
}

func TestLoginSubmitFailureWithoutHTMXKeepsEmailOnly(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	h.gw.token = ""
	h.gw.err = &directoryapi.StatusError{Op: "login", StatusCode: 400, Message: "user not found"}
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, postForm(routepath.Login, url.Values{"email": {"a@b.com"}, "password": {"cityslicka"}}, false))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
	body := rr.Body.String()
	assertBody(t, body, "<!doctype html>", `id="login-form"`, `value="a@b.com"`, "user not found")
	if strings.Contains(body, "cityslicka") {
		t.Fatal("password echoed back to the client")
	}
}

func TestLoginSubmitTransportFailureUsesFallback(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	h.gw.token = ""
	h.gw.err = &url.Error{Op: "Post", URL: "https://reqres.in/api/login", Err: http.ErrHandlerTimeout}
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, postForm(routepath.Login, url.Values{"email": {"a@b.com"}, "password": {"pw"}}, true))
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	assertBody(t, rr.Body.String(), "Login failed. Please try again.")
}

func TestLoginSubmitSuccessCreatesSessionAndRedirects(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, postForm(routepath.Login, url.Values{"email": {" eve.holt@reqres.in "}, "password": {"cityslicka"}}, false))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != routepath.AppUsers {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
	if len(h.sessions.created) != 1 {
		t.Fatalf("sessions = %d, want 1", len(h.sessions.created))
	}
	created := h.sessions.created[0]
	if created.AccessToken != "QpwL5tke4Pnpja7X4" || created.Email != "eve.holt@reqres.in" {
		t.Fatalf("session = %+v", created)
	}
	var flash bool
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flashnotice.CookieName && cookie.Value != "" {
			flash = true
		}
	}
	if !flash {
		t.Fatal("expected success flash cookie")
	}
}

func TestLoginSubmitSuccessOverHTMX(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, false)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, postForm(routepath.Login, url.Values{"email": {"eve.holt@reqres.in"}, "password": {"cityslicka"}}, true))
	if rr.Code != http.StatusOK || rr.Header().Get("HX-Redirect") != routepath.AppUsers {
		t.Fatalf("status = %d HX-Redirect = %q", rr.Code, rr.Header().Get("HX-Redirect"))
	}
}

func TestLogoutDestroysSessionAndRunsHook(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, true)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, postForm(routepath.Logout, url.Values{}, false))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != routepath.Login {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
	if h.sessions.destroyed != 1 {
		t.Fatalf("destroyed = %d, want 1", h.sessions.destroyed)
	}
	if len(h.loggedOut) != 1 || h.loggedOut[0] != "session-1" {
		t.Fatalf("logout hook ids = %v", h.loggedOut)
	}
}

func TestLogoutRequiresPost(t *testing.T) {
	t.Parallel()

	h := newLoginHarness(t, true)
	rr := httptest.NewRecorder()
	h.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Logout, nil))
	if rr.Code == http.StatusFound {
		t.Fatal("GET /logout signed the viewer out")
	}
	if h.sessions.destroyed != 0 {
		t.Fatalf("destroyed = %d, want 0", h.sessions.destroyed)
	}
}
