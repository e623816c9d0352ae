package chat

import (
	"sync"
	"time"

	"github.com/placementprep/interview-backend/internal/entity"
)

type storeEntry struct {
	history  []entity.ChatMessage
	deadline time.Time
}

// Store keeps live conversation histories in memory. Entries expire after a
// TTL and are removed by a single background sweeper instead of one timer
// per session. By default the deadline is fixed at open time; with sliding
// expiry enabled every append pushes it out again.
type Store struct {
	mu      sync.Mutex
	entries map[string]*storeEntry

	ttl     time.Duration
	sliding bool
	now     func() time.Time

	stop chan struct{}
	done chan struct{}
}

func NewStore(ttl time.Duration, sliding bool) *Store {
	return &Store{
		entries: make(map[string]*storeEntry),
		ttl:     ttl,
		sliding: sliding,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run sweeps expired entries every interval until Stop is called.
func (s *Store) Run(interval time.Duration) {
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop shuts down the sweeper and waits for it to exit.
func (s *Store) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Store) sweep() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if now.After(entry.deadline) {
			delete(s.entries, id)
		}
	}
}

// Open seeds a fresh history for a session, discarding any existing entry.
func (s *Store) Open(sessionID string, history []entity.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = &storeEntry{
		history:  append([]entity.ChatMessage(nil), history...),
		deadline: s.now().Add(s.ttl),
	}
}

// Append adds messages to a live session's history. It reports false when the
// session is absent or already past its deadline.
func (s *Store) Append(sessionID string, messages ...entity.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.live(sessionID)
	if !ok {
		return false
	}
	entry.history = append(entry.history, messages...)
	if s.sliding {
		entry.deadline = s.now().Add(s.ttl)
	}
	return true
}

// History returns a copy of a live session's history.
func (s *Store) History(sessionID string) ([]entity.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.live(sessionID)
	if !ok {
		return nil, false
	}
	return append([]entity.ChatMessage(nil), entry.history...), true
}

// Clear removes a session and returns whatever history it held.
func (s *Store) Clear(sessionID string) []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil
	}
	delete(s.entries, sessionID)
	return entry.history
}

// ActiveCount returns the number of live, unexpired sessions.
func (s *Store) ActiveCount() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, entry := range s.entries {
		if !now.After(entry.deadline) {
			count++
		}
	}
	return count
}

// live returns the entry for sessionID if it has not expired, lazily dropping
// it when the sweeper has not caught it yet. Callers must hold s.mu.
func (s *Store) live(sessionID string) (*storeEntry, bool) {
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	if s.now().After(entry.deadline) {
		delete(s.entries, sessionID)
		return nil, false
	}
	return entry, true
}
