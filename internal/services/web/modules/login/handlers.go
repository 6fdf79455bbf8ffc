package login

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/login/loginflow"
	flashnotice "github.com/louisbranch/userdirectory/internal/services/web/platform/flash"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/publichandler"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/userdirectory/internal/services/web/templates"
)

const (
	noticeSignedIn  = "web.login.notice_success"
	noticeSignedOut = "web.login.notice_logged_out"
)

var errSessionsRequired = errors.New("login sessions are not configured")

// loginService defines the service operations used by login handlers.
type loginService interface {
	submit(ctx context.Context, creds directoryapi.Credentials) outcome
}

type handlers struct {
	publichandler.Base
	service  loginService
	sessions Sessions
	onLogout func(sessionID string)
	logger   *log.Logger
}

func newHandlers(s loginService, base publichandler.Base, sessions Sessions, onLogout func(string), logger *log.Logger) handlers {
	if logger == nil {
		logger = log.Default()
	}
	return handlers{Base: base, service: s, sessions: sessions, onLogout: onLogout, logger: logger}
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.IsViewerSignedIn(r) {
		httpx.WriteRedirect(w, r, routepath.AppUsers)
		return
	}
	h.renderForm(w, r, http.StatusOK, loginflow.State{})
}

func (h handlers) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	creds := directoryapi.Credentials{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	result := h.service.submit(r.Context(), creds)
	if result.state.Phase != loginflow.PhaseSucceeded {
		h.renderForm(w, r, result.status, result.state)
		return
	}
	if h.sessions == nil {
		h.WriteError(w, r, errSessionsRequired)
		return
	}
	if _, err := h.sessions.Create(r.Context(), w, r, string(result.state.Token), creds.Email); err != nil {
		h.logger.Printf("login session create failed err=%v", err)
		h.WriteError(w, r, err)
		return
	}
	h.WriteNotice(w, r, flashnotice.Success(noticeSignedIn))
	httpx.WriteRedirect(w, r, routepath.AppUsers)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		sessionID, err := h.sessions.Destroy(r.Context(), w, r)
		if err != nil {
			h.logger.Printf("logout session destroy failed err=%v", err)
		}
		if sessionID != "" && h.onLogout != nil {
			h.onLogout(sessionID)
		}
	}
	h.WriteNotice(w, r, flashnotice.Info(noticeSignedOut))
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, state loginflow.State) {
	loc, _ := h.PageLocalizer(w, r)
	view := loginView(state, loc)
	h.WritePublicPage(w, r,
		webtemplates.T(loc, "web.login.title"),
		status,
		webtemplates.LoginPage(view, loc),
		webtemplates.LoginError(view),
	)
}

func loginView(state loginflow.State, loc webtemplates.Localizer) webtemplates.LoginView {
	view := webtemplates.LoginView{
		Email:      state.Credentials.Email,
		Submitting: state.Phase == loginflow.PhaseSubmitting,
	}
	if state.Failing() {
		view.ErrorMessage = state.ServerMessage
		if view.ErrorMessage == "" {
			view.ErrorMessage = webtemplates.T(loc, state.ReasonKey)
		}
	}
	return view
}
