package viewstate

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidPage reports a page number below 1.
	ErrInvalidPage = errors.New("page must be a positive integer")
	// ErrActionInFlight reports a second invocation of an action that is still pending.
	ErrActionInFlight = errors.New("action already in flight")
	// ErrEditInProgress reports an attempt to open a second draft.
	ErrEditInProgress = errors.New("another user is being edited")
	// ErrUnknownUser reports an id that is not on the current page.
	ErrUnknownUser = errors.New("user is not on the current page")
	// ErrNoDraft reports an edit action without a matching open draft.
	ErrNoDraft = errors.New("no draft is open for this user")
	// ErrDraftInvalid reports a draft missing required fields.
	ErrDraftInvalid = errors.New("draft is missing required fields")
	// ErrNotConfirmed reports a delete without a prior confirmation.
	ErrNotConfirmed = errors.New("delete was not confirmed")
	// ErrStaleResponse reports a page response for a superseded request.
	ErrStaleResponse = errors.New("stale page response")
)

// FieldError lists the draft fields that failed validation.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return ErrDraftInvalid.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *FieldError) Unwrap() error {
	return ErrDraftInvalid
}
