package directory

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory/viewstate"
)

// DirectoryGateway performs the remote calls behind the directory screen.
type DirectoryGateway interface {
	ListUsers(ctx context.Context, token directoryapi.Token, page int) (directoryapi.Page, error)
	UpdateUser(ctx context.Context, token directoryapi.Token, user directoryapi.User) (directoryapi.User, error)
	DeleteUser(ctx context.Context, token directoryapi.Token, id int) error
}

// owner identifies the browser session a snapshot belongs to and the token
// its remote calls carry.
type owner struct {
	sessionID string
	token     directoryapi.Token
}

// editForm holds the submitted values of the inline edit form.
type editForm struct {
	FirstName string
	LastName  string
	Email     string
}

type service struct {
	gateway DirectoryGateway
	store   *stateStore
	logger  *log.Logger
}

func newService(gateway DirectoryGateway, store *stateStore, logger *log.Logger) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	if store == nil {
		store = newStateStore(0, nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return service{gateway: gateway, store: store, logger: logger}
}

// current returns the stored snapshot without applying an action.
func (s service) current(o owner) viewstate.State {
	return s.store.load(o.sessionID)
}

// mount starts a fresh snapshot on page and loads it.
func (s service) mount(ctx context.Context, o owner, page int) (viewstate.State, error) {
	if page < 1 {
		return s.current(o), viewstate.ErrInvalidPage
	}
	s.store.reset(o.sessionID)
	return s.fetch(ctx, o, page)
}

// changePage loads page into the existing snapshot.
func (s service) changePage(ctx context.Context, o owner, page int) (viewstate.State, error) {
	return s.fetch(ctx, o, page)
}

func (s service) fetch(ctx context.Context, o owner, page int) (viewstate.State, error) {
	requested, err := s.store.update(o.sessionID, viewstate.PageRequested{Page: page})
	if err != nil {
		return requested, err
	}
	seq := requested.FetchSeq

	var resolution viewstate.Action
	result, err := s.gateway.ListUsers(ctx, o.token, page)
	if err != nil {
		s.logger.Printf("directory fetch failed page=%d status=%d err=%v", page, directoryapi.StatusCode(err), err)
		resolution = viewstate.PageFailed{Seq: seq, Reason: viewstate.NoticeFetchFailed}
	} else {
		resolution = viewstate.PageLoaded{Seq: seq, Page: viewstate.Page{TotalPages: result.TotalPages, Users: result.Data}}
	}
	return s.resolve(o, resolution)
}

func (s service) beginEdit(o owner, id int) (viewstate.State, error) {
	return s.store.update(o.sessionID, viewstate.EditBegan{ID: id})
}

func (s service) submitEdit(ctx context.Context, o owner, id int, form editForm) (viewstate.State, error) {
	submitted, err := s.store.update(o.sessionID, viewstate.EditSubmitted{Draft: viewstate.User{
		ID:        id,
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
	}})
	if err != nil {
		return submitted, err
	}
	draft := *submitted.Draft

	updated, err := s.gateway.UpdateUser(ctx, o.token, draft)
	if err != nil {
		s.logger.Printf("directory update failed user_id=%d status=%d err=%v", id, directoryapi.StatusCode(err), err)
		return s.resolve(o, viewstate.EditFailed{ID: id, Reason: failureReason(err)})
	}
	// The response may echo only part of the record.
	return s.resolve(o, viewstate.EditSucceeded{ID: id, User: draft.Merge(updated)})
}

func (s service) cancelEdit(o owner, id int) (viewstate.State, error) {
	return s.store.update(o.sessionID, viewstate.EditCanceled{ID: id})
}

func (s service) requestDelete(o owner, id int) (viewstate.State, error) {
	return s.store.update(o.sessionID, viewstate.DeleteRequested{ID: id})
}

func (s service) confirmDelete(ctx context.Context, o owner, id int) (viewstate.State, error) {
	confirmed, err := s.store.update(o.sessionID, viewstate.DeleteConfirmed{ID: id})
	if err != nil {
		return confirmed, err
	}
	if err := s.gateway.DeleteUser(ctx, o.token, id); err != nil {
		s.logger.Printf("directory delete failed user_id=%d status=%d err=%v", id, directoryapi.StatusCode(err), err)
		return s.resolve(o, viewstate.DeleteFailed{ID: id, Reason: failureReason(err)})
	}
	return s.resolve(o, viewstate.DeleteSucceeded{ID: id})
}

func (s service) dismissDelete(o owner, id int) (viewstate.State, error) {
	return s.store.update(o.sessionID, viewstate.DeleteDismissed{ID: id})
}

func (s service) dismissNotice(o owner) (viewstate.State, error) {
	return s.store.update(o.sessionID, viewstate.NoticeDismissed{})
}

// drop forgets the snapshot of sessionID.
func (s service) drop(sessionID string) {
	s.store.drop(sessionID)
}

// resolve applies a network resolution. A superseded page response is
// discarded and the current snapshot is returned.
func (s service) resolve(o owner, action viewstate.Action) (viewstate.State, error) {
	next, err := s.store.update(o.sessionID, action)
	if errors.Is(err, viewstate.ErrStaleResponse) {
		return next, nil
	}
	return next, err
}

func failureReason(err error) string {
	if code := directoryapi.StatusCode(err); code != 0 {
		return "status " + strconv.Itoa(code)
	}
	return "request failed"
}
