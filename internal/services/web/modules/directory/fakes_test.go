package directory

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"
)

// fakeGateway implements DirectoryGateway for tests with configurable return
// values and call tracking. The before hooks run outside any lock so tests can
// issue overlapping service calls.
type fakeGateway struct {
	mu sync.Mutex

	pages     map[int]directoryapi.Page
	listErr   error
	updateErr error
	deleteErr error
	// updateResp replaces the echo of the submitted record when set.
	updateResp *directoryapi.User

	beforeList   func(page int)
	beforeDelete func(id int)

	listCalls []int
	updates   []directoryapi.User
	deletes   []int
	tokens    []directoryapi.Token
}

func (f *fakeGateway) ListUsers(_ context.Context, token directoryapi.Token, page int) (directoryapi.Page, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	f.tokens = append(f.tokens, token)
	hook := f.beforeList
	f.mu.Unlock()
	if hook != nil {
		hook(page)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return directoryapi.Page{}, f.listErr
	}
	return f.pages[page], nil
}

func (f *fakeGateway) UpdateUser(_ context.Context, token directoryapi.Token, user directoryapi.User) (directoryapi.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, user)
	f.tokens = append(f.tokens, token)
	if f.updateErr != nil {
		return directoryapi.User{}, f.updateErr
	}
	if f.updateResp != nil {
		return *f.updateResp, nil
	}
	return user, nil
}

func (f *fakeGateway) DeleteUser(_ context.Context, token directoryapi.Token, id int) error {
	f.mu.Lock()
	f.deletes = append(f.deletes, id)
	f.tokens = append(f.tokens, token)
	hook := f.beforeDelete
	f.mu.Unlock()
	if hook != nil {
		hook(id)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteErr
}

func (f *fakeGateway) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deletes)
}

func (f *fakeGateway) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

// twoPages returns six users on page 1 and one on page 2.
func twoPages() map[int]directoryapi.Page {
	first := make([]directoryapi.User, 0, 6)
	for i := 1; i <= 6; i++ {
		first = append(first, directoryapi.User{
			ID:        i,
			Email:     fmt.Sprintf("user%d@reqres.in", i),
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  fmt.Sprintf("Last%d", i),
			Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", i),
		})
	}
	return map[int]directoryapi.Page{
		1: {Page: 1, PerPage: 6, Total: 7, TotalPages: 2, Data: first},
		2: {Page: 2, PerPage: 6, Total: 7, TotalPages: 2, Data: []directoryapi.User{
			{ID: 7, Email: "michael.lawson@reqres.in", FirstName: "Michael", LastName: "Lawson"},
		}},
	}
}

func bufferLogger() (*log.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return log.New(buf, "", 0), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
