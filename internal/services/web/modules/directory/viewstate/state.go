// Package viewstate models the user directory as an immutable snapshot
// transitioned by discrete actions.
//
// An action is either a user intent (open a page, begin an edit, confirm a
// delete) or the resolution of a network call. Reduce never mutates its input;
// every accepted action yields a new State.
package viewstate

import (
	"slices"
	"strings"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
)

// User is one directory record.
type User = directoryapi.User

// NoticeKind classifies the single directory notice.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Localization keys of the fixed directory notices.
const (
	NoticeFetchFailed  = "web.directory.error_fetch"
	NoticeUpdateFailed = "web.directory.error_update"
	NoticeDeleteFailed = "web.directory.error_delete"
	NoticeUpdated      = "web.directory.notice_updated"
	NoticeDeleted      = "web.directory.notice_deleted"
)

// Notice is the single-slot status message. The newest notice replaces the
// previous one.
type Notice struct {
	Kind NoticeKind
	Key  string
}

// State is one immutable snapshot of the directory.
type State struct {
	CurrentPage int
	TotalPages  int
	// Items is the last successfully fetched page, in server order.
	Items []User

	Fetch    Status
	FetchSeq uint64
	// LoadError is the reason of the last failed fetch. It stays set until the
	// next fetch starts.
	LoadError string

	// Draft is the single open edit, nil when no record is being edited.
	Draft *User
	Edit  Status

	// ConfirmDelete is the id awaiting delete confirmation, 0 for none.
	ConfirmDelete int
	Deleting      map[int]Status

	Notice *Notice
}

// New returns the state of a freshly mounted directory on page 1.
func New() State {
	return State{CurrentPage: 1}
}

// HasLoadError reports whether a sticky fetch failure is shown.
func (s State) HasLoadError() bool {
	return s.LoadError != ""
}

// Find returns the record with id on the current page.
func (s State) Find(id int) (User, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return User{}, false
	}
	return s.Items[i], true
}

// DeleteStatus returns the delete status of id.
func (s State) DeleteStatus(id int) Status {
	return s.Deleting[id]
}

func (s State) indexOf(id int) int {
	return slices.IndexFunc(s.Items, func(u User) bool { return u.ID == id })
}

func (s State) editPendingFor(id int) bool {
	return s.Draft != nil && s.Draft.ID == id && s.Edit.IsPending()
}

func (s State) withDeleting(id int, status Status, keep bool) map[int]Status {
	next := make(map[int]Status, len(s.Deleting)+1)
	for k, v := range s.Deleting {
		next[k] = v
	}
	if keep {
		next[id] = status
	} else {
		delete(next, id)
	}
	if len(next) == 0 {
		return nil
	}
	return next
}

func newNotice(kind NoticeKind, key string) *Notice {
	return &Notice{Kind: kind, Key: key}
}

func validateDraft(draft User) error {
	var missing []string
	if strings.TrimSpace(draft.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(draft.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(draft.Email) == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return &FieldError{Fields: missing}
	}
	return nil
}

func clonePtr(u User) *User {
	return &u
}
