package domain

import (
	"sync"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory/viewstate"
)

// Workspace is the per-server state shared by tool calls: the bearer token
// and the directory snapshot of the last listed page.
type Workspace struct {
	mu    sync.Mutex
	token directoryapi.Token
	state viewstate.State
}

// NewWorkspace returns a workspace signed in with token, which may be empty.
func NewWorkspace(token directoryapi.Token) *Workspace {
	return &Workspace{token: token, state: viewstate.New()}
}

// Token returns the current bearer token.
func (w *Workspace) Token() directoryapi.Token {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token
}

// SignIn replaces the token and starts a fresh directory snapshot.
func (w *Workspace) SignIn(token directoryapi.Token) {
	w.mu.Lock()
	defer w.mu.Unlock()
	seq := w.state.FetchSeq
	w.token = token
	w.state = viewstate.New()
	w.state.FetchSeq = seq
}

// State returns the current directory snapshot.
func (w *Workspace) State() viewstate.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// apply reduces action into the snapshot. A rejected action leaves it
// unchanged.
func (w *Workspace) apply(action viewstate.Action) (viewstate.State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next, err := viewstate.Reduce(w.state, action)
	if err != nil {
		return w.state, err
	}
	w.state = next
	return next, nil
}
