// Package loginflow models one sign-in attempt as Idle, Submitting, then
// Succeeded or Failed.
package loginflow

import (
	"errors"
	"strings"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
)

// Phase tags the lifecycle of a sign-in attempt.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Localization keys of the sign-in failures.
const (
	ReasonFallback         = "web.login.error_fallback"
	ReasonEmailRequired    = "web.login.error_email_required"
	ReasonPasswordRequired = "web.login.error_password_required"
)

var (
	// ErrSubmitInFlight reports a second submit while one is pending.
	ErrSubmitInFlight = errors.New("sign-in already in flight")
	// ErrNotSubmitting reports a resolution without a pending submit.
	ErrNotSubmitting = errors.New("no sign-in is in flight")
)

// State is one immutable snapshot of the sign-in form.
type State struct {
	Phase       Phase
	Credentials directoryapi.Credentials
	Token       directoryapi.Token
	// ServerMessage is the upstream error text, shown verbatim when set.
	ServerMessage string
	// ReasonKey is the localization key shown when ServerMessage is empty.
	ReasonKey string
}

// Action is a transition of the sign-in form.
type Action interface {
	apply(State) (State, error)
}

// Submitted starts a sign-in with Credentials.
type Submitted struct {
	Credentials directoryapi.Credentials
}

// Succeeded resolves the pending sign-in with Token.
type Succeeded struct {
	Token directoryapi.Token
}

// Failed resolves the pending sign-in with a failure. An empty ServerMessage
// falls back to the localized generic message.
type Failed struct {
	ServerMessage string
}

// Reduce applies action to s. On error the returned state is s unchanged.
func Reduce(s State, action Action) (State, error) {
	if action == nil {
		return s, nil
	}
	next, err := action.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// Failing reports whether a failure message should be shown.
func (s State) Failing() bool {
	return s.Phase == PhaseFailed
}

func (a Submitted) apply(s State) (State, error) {
	if s.Phase == PhaseSubmitting {
		return s, ErrSubmitInFlight
	}
	next := State{Credentials: a.Credentials}
	if err := a.Credentials.Validate(); err != nil {
		// Missing fields fail before any request is sent.
		next.Phase = PhaseFailed
		next.ReasonKey = ReasonPasswordRequired
		if errors.Is(err, directoryapi.ErrEmailRequired) {
			next.ReasonKey = ReasonEmailRequired
		}
		return next, nil
	}
	next.Phase = PhaseSubmitting
	return next, nil
}

func (a Succeeded) apply(s State) (State, error) {
	if s.Phase != PhaseSubmitting {
		return s, ErrNotSubmitting
	}
	next := s
	next.Phase = PhaseSucceeded
	next.Token = a.Token
	return next, nil
}

func (a Failed) apply(s State) (State, error) {
	if s.Phase != PhaseSubmitting {
		return s, ErrNotSubmitting
	}
	next := s
	next.Phase = PhaseFailed
	next.ServerMessage = strings.TrimSpace(a.ServerMessage)
	next.ReasonKey = ReasonFallback
	return next, nil
}
