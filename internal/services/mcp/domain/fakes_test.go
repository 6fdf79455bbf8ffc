package domain

import (
	"bytes"
	"context"
	"log"
	"sync"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
)

type fakeClient struct {
	mu sync.Mutex

	token     directoryapi.Token
	loginErr  error
	page      directoryapi.Page
	listErr   error
	updateErr error
	updateOut *directoryapi.User
	deleteErr error

	logins  []directoryapi.Credentials
	tokens  []directoryapi.Token
	updates []directoryapi.User
	deletes []int
}

func (f *fakeClient) Login(_ context.Context, creds directoryapi.Credentials) (directoryapi.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, creds)
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeClient) ListUsers(_ context.Context, token directoryapi.Token, _ int) (directoryapi.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.listErr != nil {
		return directoryapi.Page{}, f.listErr
	}
	return f.page, nil
}

func (f *fakeClient) UpdateUser(_ context.Context, token directoryapi.Token, user directoryapi.User) (directoryapi.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.updates = append(f.updates, user)
	if f.updateErr != nil {
		return directoryapi.User{}, f.updateErr
	}
	if f.updateOut != nil {
		return *f.updateOut, nil
	}
	return user, nil
}

func (f *fakeClient) DeleteUser(_ context.Context, token directoryapi.Token, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func samplePage() directoryapi.Page {
	return directoryapi.Page{Page: 1, PerPage: 6, Total: 3, TotalPages: 1, Data: []directoryapi.User{
		{ID: 1, Email: "george.bluth@reqres.in", FirstName: "George", LastName: "Bluth"},
		{ID: 2, Email: "janet.weaver@reqres.in", FirstName: "Janet", LastName: "Weaver"},
		{ID: 3, Email: "emma.wong@reqres.in", FirstName: "Emma", LastName: "Wong"},
	}}
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return log.New(buf, "", 0), buf
}
