package directory

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory/viewstate"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/httpx"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/webctx"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/userdirectory/internal/services/web/templates"
)

// directoryService defines the service operations used by directory handlers.
type directoryService interface {
	current(o owner) viewstate.State
	mount(ctx context.Context, o owner, page int) (viewstate.State, error)
	changePage(ctx context.Context, o owner, page int) (viewstate.State, error)
	beginEdit(o owner, id int) (viewstate.State, error)
	submitEdit(ctx context.Context, o owner, id int, form editForm) (viewstate.State, error)
	cancelEdit(o owner, id int) (viewstate.State, error)
	requestDelete(o owner, id int) (viewstate.State, error)
	confirmDelete(ctx context.Context, o owner, id int) (viewstate.State, error)
	dismissDelete(o owner, id int) (viewstate.State, error)
	dismissNotice(o owner) (viewstate.State, error)
}

type handlers struct {
	modulehandler.Base
	service directoryService
}

func newHandlers(s directoryService, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	page, err := parsePage(r)
	if err != nil {
		h.writeResult(w, r, h.service.current(o), err, overlay{})
		return
	}
	var state viewstate.State
	if httpx.IsHTMXRequest(r) {
		state, err = h.service.changePage(r.Context(), o, page)
	} else {
		state, err = h.service.mount(r.Context(), o, page)
	}
	h.writeResult(w, r, state, err, overlay{})
}

func (h handlers) handleEdit(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(o owner, id int) {
		state, err := h.service.beginEdit(o, id)
		h.writeResult(w, r, state, err, overlay{})
	})
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(o owner, id int) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		form := editForm{
			FirstName: r.PostFormValue("first_name"),
			LastName:  r.PostFormValue("last_name"),
			Email:     r.PostFormValue("email"),
		}
		state, err := h.service.submitEdit(r.Context(), o, id, form)
		extra := overlay{}
		if errors.Is(err, viewstate.ErrDraftInvalid) {
			extra.draft = &form
		}
		h.writeResult(w, r, state, err, extra)
	})
}

func (h handlers) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(o owner, id int) {
		state, err := h.service.cancelEdit(o, id)
		h.writeResult(w, r, state, err, overlay{})
	})
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(o owner, id int) {
		state, err := h.service.requestDelete(o, id)
		h.writeResult(w, r, state, err, overlay{})
	})
}

func (h handlers) handleDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(o owner, id int) {
		state, err := h.service.confirmDelete(r.Context(), o, id)
		h.writeResult(w, r, state, err, overlay{})
	})
}

func (h handlers) handleDeleteDismiss(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(o owner, id int) {
		state, err := h.service.dismissDelete(o, id)
		h.writeResult(w, r, state, err, overlay{})
	})
}

func (h handlers) handleNoticeDismiss(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	state, err := h.service.dismissNotice(o)
	h.writeResult(w, r, state, err, overlay{})
}

func (h handlers) withUser(w http.ResponseWriter, r *http.Request, fn func(owner, int)) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(strings.TrimSpace(r.PathValue("id")))
	if err != nil || id < 1 {
		h.WriteNotFound(w, r)
		return
	}
	fn(o, id)
}

func (h handlers) requireOwner(w http.ResponseWriter, r *http.Request) (owner, bool) {
	session, ok := webctx.Session(r)
	if !ok {
		httpx.WriteRedirect(w, r, routepath.Login)
		return owner{}, false
	}
	return owner{sessionID: session.ID, token: directoryapi.Token(session.AccessToken)}, true
}

// writeResult renders the directory. A rejected action renders the unchanged
// snapshot with the status and message of the rejection.
func (h handlers) writeResult(w http.ResponseWriter, r *http.Request, state viewstate.State, err error, extra overlay) {
	status := http.StatusOK
	if err != nil {
		code, key, known := rejection(err)
		if !known {
			h.WriteError(w, r, err)
			return
		}
		status = code
		extra.noticeKey = key
	}
	loc, _ := h.PageLocalizer(w, r)
	view := directoryView(state, extra)
	h.WritePage(w, r,
		webtemplates.T(loc, "web.directory.title"),
		status,
		webtemplates.DirectoryPage(view, loc),
		webtemplates.Directory(view, loc),
	)
}

func rejection(err error) (status int, key string, known bool) {
	switch {
	case errors.Is(err, viewstate.ErrDraftInvalid):
		return http.StatusBadRequest, "web.directory.error_draft_invalid", true
	case errors.Is(err, viewstate.ErrInvalidPage):
		return http.StatusBadRequest, "web.directory.error_invalid_page", true
	case errors.Is(err, viewstate.ErrUnknownUser):
		return http.StatusNotFound, "web.directory.error_unknown_user", true
	case errors.Is(err, viewstate.ErrEditInProgress):
		return http.StatusConflict, "web.directory.error_edit_in_progress", true
	case errors.Is(err, viewstate.ErrNotConfirmed):
		return http.StatusConflict, "web.directory.error_not_confirmed", true
	case errors.Is(err, viewstate.ErrActionInFlight), errors.Is(err, viewstate.ErrNoDraft):
		return http.StatusConflict, "web.directory.error_busy", true
	default:
		return 0, "", false
	}
}

func parsePage(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(routepath.PageQueryKey))
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, viewstate.ErrInvalidPage
	}
	return page, nil
}
