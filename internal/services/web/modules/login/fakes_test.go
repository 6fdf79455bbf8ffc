package login

import (
	"context"
	"net/http"
	"sync"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
	webstorage "github.com/louisbranch/userdirectory/internal/services/web/storage"
)

// fakeAuthGateway implements AuthGateway with configurable results and call
// tracking. When release is set every call blocks until it is closed.
type fakeAuthGateway struct {
	mu      sync.Mutex
	token   directoryapi.Token
	err     error
	calls   []directoryapi.Credentials
	entered chan struct{}
	release chan struct{}
}

func (f *fakeAuthGateway) Login(_ context.Context, creds directoryapi.Credentials) (directoryapi.Token, error) {
	f.mu.Lock()
	f.calls = append(f.calls, creds)
	entered, release := f.entered, f.release
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.err
}

func (f *fakeAuthGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeSessions implements Sessions and records created and destroyed sessions.
type fakeSessions struct {
	mu         sync.Mutex
	created    []webstorage.Session
	destroyID  string
	destroyed  int
	createErr  error
	destroyErr error
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, _ *http.Request, token string, email string) (webstorage.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return webstorage.Session{}, f.createErr
	}
	session := webstorage.Session{ID: "session-1", AccessToken: token, Email: email}
	f.created = append(f.created, session)
	http.SetCookie(w, &http.Cookie{Name: "ud_session", Value: "signed"})
	return session, nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed++
	return f.destroyID, f.destroyErr
}
