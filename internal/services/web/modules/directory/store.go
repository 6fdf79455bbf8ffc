package directory

import (
	"sync"
	"time"

	"github.com/louisbranch/userdirectory/internal/services/web/modules/directory/viewstate"
)

// DefaultIdleTTL is how long an untouched session snapshot is kept.
const DefaultIdleTTL = 30 * time.Minute

type storeEntry struct {
	state   viewstate.State
	touched time.Time
}

// stateStore holds one directory snapshot per browser session. The mutex
// guards the map only while a reduction runs.
type stateStore struct {
	mu        sync.Mutex
	entries   map[string]*storeEntry
	idleTTL   time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func newStateStore(idleTTL time.Duration, now func() time.Time) *stateStore {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if now == nil {
		now = time.Now
	}
	return &stateStore{entries: map[string]*storeEntry{}, idleTTL: idleTTL, now: now}
}

// load returns the snapshot of sessionID, or a fresh one.
func (s *stateStore) load(sessionID string) viewstate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryLocked(sessionID).state
}

// update reduces action over the snapshot of sessionID and stores the result.
// A rejected action leaves the snapshot untouched and returns it with the error.
func (s *stateStore) update(sessionID string, action viewstate.Action) (viewstate.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entryLocked(sessionID)
	next, err := viewstate.Reduce(entry.state, action)
	if err != nil {
		return entry.state, err
	}
	entry.state = next
	return next, nil
}

// reset replaces the snapshot of sessionID with a fresh one. The fetch
// sequence carries over so responses of the replaced snapshot stay stale.
func (s *stateStore) reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entryLocked(sessionID)
	fresh := viewstate.New()
	fresh.FetchSeq = entry.state.FetchSeq
	entry.state = fresh
}

func (s *stateStore) drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

func (s *stateStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *stateStore) entryLocked(sessionID string) *storeEntry {
	now := s.now()
	s.sweepLocked(now)
	entry, ok := s.entries[sessionID]
	if !ok {
		entry = &storeEntry{state: viewstate.New()}
		s.entries[sessionID] = entry
	}
	entry.touched = now
	return entry
}

// sweepLocked evicts idle snapshots at most once per half TTL.
func (s *stateStore) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.idleTTL/2 {
		return
	}
	s.lastSweep = now
	for id, entry := range s.entries {
		if now.Sub(entry.touched) > s.idleTTL {
			delete(s.entries, id)
		}
	}
}
