package annotationinfra

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Abraxas-365/jobtrack/pkg/kernel"
	"github.com/Abraxas-365/jobtrack/pkg/logx"
	"github.com/Abraxas-365/jobtrack/tracker/annotation"
)

type memoryEntry struct {
	data    []byte
	touched time.Time
}

// MemorySessionStore keeps sessions in process. Sessions are stored encoded so
// callers never share state with the store.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[kernel.SessionID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionStore creates a store whose sessions expire after ttl without use.
// A ttl of zero keeps sessions until they are deleted.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		entries: make(map[kernel.SessionID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemorySessionStore) Create(_ context.Context, session *annotation.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return storeError("marshal", session.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(session.ID); ok {
		return annotation.ErrSessionAlreadyExists().WithDetail("session_id", session.ID)
	}
	s.entries[session.ID] = memoryEntry{data: data, touched: s.now()}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id kernel.SessionID) (*annotation.Session, error) {
	s.mu.Lock()
	entry, ok := s.live(id)
	if ok {
		entry.touched = s.now()
		s.entries[id] = entry
	}
	s.mu.Unlock()

	if !ok {
		return nil, annotation.ErrSessionNotFound().WithDetail("session_id", id)
	}

	var session annotation.Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, annotation.ErrInvalidState().WithCause(err).WithDetail("session_id", id)
	}
	return &session, nil
}

func (s *MemorySessionStore) Update(_ context.Context, session *annotation.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return storeError("marshal", session.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(session.ID); !ok {
		return annotation.ErrSessionNotFound().WithDetail("session_id", session.ID)
	}
	s.entries[session.ID] = memoryEntry{data: data, touched: s.now()}
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id kernel.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(id); !ok {
		return annotation.ErrSessionNotFound().WithDetail("session_id", id)
	}
	delete(s.entries, id)
	return nil
}

// Count returns the number of sessions that have not expired
func (s *MemorySessionStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, entry := range s.entries {
		if !s.expired(entry) {
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored sessions, expired ones included
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired sessions and returns how many were removed
func (s *MemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired sessions every interval until ctx is done
func (s *MemorySessionStore) StartJanitor(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					logx.Infof("Expired %d idle annotation sessions", n)
				}
			}
		}
	}()
}

// live must be called with mu held
func (s *MemorySessionStore) live(id kernel.SessionID) (memoryEntry, bool) {
	entry, ok := s.entries[id]
	if !ok || s.expired(entry) {
		return memoryEntry{}, false
	}
	return entry, true
}

func (s *MemorySessionStore) expired(entry memoryEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.touched) > s.ttl
}
