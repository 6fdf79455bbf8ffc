package directory

import (
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory/viewstate"
)

func TestStateStoreUpdateKeepsStateOnRejection(t *testing.T) {
	t.Parallel()

	store := newStateStore(time.Hour, nil)
	state, err := store.update("s1", viewstate.PageRequested{Page: 2})
	if err != nil {
		t.Fatalf("update() error = %v", err)
	}
	rejected, err := store.update("s1", viewstate.PageRequested{Page: 0})
	if !errors.Is(err, viewstate.ErrInvalidPage) {
		t.Fatalf("update() error = %v, want ErrInvalidPage", err)
	}
	if rejected.CurrentPage != 2 || rejected.FetchSeq != state.FetchSeq {
		t.Fatalf("rejected state = %+v, want stored snapshot", rejected)
	}
	if got := store.load("s1"); got.CurrentPage != 2 {
		t.Fatalf("stored page = %d, want 2", got.CurrentPage)
	}
}

func TestStateStoreIsolatesSessions(t *testing.T) {
	t.Parallel()

	store := newStateStore(time.Hour, nil)
	if _, err := store.update("a", viewstate.PageRequested{Page: 3}); err != nil {
		t.Fatalf("update() error = %v", err)
	}
	if got := store.load("b"); got.CurrentPage != 1 || got.Fetch.IsPending() {
		t.Fatalf("session b = %+v, want fresh state", got)
	}
}

func TestStateStoreResetKeepsFetchSequence(t *testing.T) {
	t.Parallel()

	store := newStateStore(time.Hour, nil)
	requested, err := store.update("s1", viewstate.PageRequested{Page: 1})
	if err != nil {
		t.Fatalf("update() error = %v", err)
	}
	store.reset("s1")

	fresh := store.load("s1")
	if fresh.FetchSeq != requested.FetchSeq || fresh.Fetch.IsPending() {
		t.Fatalf("reset state = %+v", fresh)
	}
	if _, err := store.update("s1", viewstate.PageLoaded{Seq: requested.FetchSeq}); !errors.Is(err, viewstate.ErrStaleResponse) {
		t.Fatalf("response of replaced snapshot error = %v, want ErrStaleResponse", err)
	}
}

func TestStateStoreEvictsIdleSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newStateStore(10*time.Minute, func() time.Time { return now })
	store.load("old")

	now = now.Add(6 * time.Minute)
	store.load("recent")
	if store.len() != 2 {
		t.Fatalf("len() = %d, want 2", store.len())
	}

	now = now.Add(6 * time.Minute)
	store.load("recent")
	if store.len() != 1 {
		t.Fatalf("len() = %d, want 1 after eviction", store.len())
	}
}

func TestStateStoreDrop(t *testing.T) {
	t.Parallel()

	store := newStateStore(time.Hour, nil)
	store.load("s1")
	store.drop("s1")
	if store.len() != 0 {
		t.Fatalf("len() = %d, want 0", store.len())
	}
}
