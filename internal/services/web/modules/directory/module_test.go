package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/userdirectory/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/webctx"
	"github.com/louisbranch/userdirectory/internal/services/web/routepath"
	webstorage "github.com/louisbranch/userdirectory/internal/services/web/storage"
)

func TestModuleIDAndHealth(t *testing.T) {
	t.Parallel()

	if got := New().ID(); got != "directory" {
		t.Fatalf("ID() = %q, want directory", got)
	}
	if New().Healthy() {
		t.Fatal("Healthy() = true without gateway")
	}
	if New(WithGateway(unavailableGateway{})).Healthy() {
		t.Fatal("Healthy() = true with unavailable gateway")
	}
	if !New(WithGateway(&fakeGateway{})).Healthy() {
		t.Fatal("Healthy() = false with gateway")
	}
}

func TestModuleMountServesDirectory(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{pages: twoPages()}
	logger, _ := bufferLogger()
	m := New(WithGateway(gw), WithBase(modulehandler.NewTestBase()), WithLogger(logger))
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.UsersPrefix {
		t.Fatalf("Prefix = %q, want %q", mount.Prefix, routepath.UsersPrefix)
	}

	req := httptest.NewRequest(http.MethodGet, routepath.UsersPrefix, nil)
	req = req.WithContext(webctx.WithSession(req.Context(), webstorage.Session{ID: "s1", AccessToken: "token"}))
	rr := httptest.NewRecorder()
	mount.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if m.store.len() != 1 {
		t.Fatalf("stored sessions = %d, want 1", m.store.len())
	}

	m.DropSession("s1")
	if m.store.len() != 0 {
		t.Fatalf("stored sessions after drop = %d, want 0", m.store.len())
	}
}

func TestModuleMountsShareState(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{pages: twoPages()}
	m := New(WithGateway(gw))
	svc := newService(m.gateway, m.store, nil)
	if _, err := svc.mount(context.Background(), owner{sessionID: "s1"}, 2); err != nil {
		t.Fatalf("mount() error = %v", err)
	}
	if got := m.store.load("s1"); got.CurrentPage != 2 {
		t.Fatalf("CurrentPage = %d, want 2", got.CurrentPage)
	}
}
