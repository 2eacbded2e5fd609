package dashboard

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/bryanwahyu/supplychain-insight/internal/domain/procurement"
)

// Session owns the analysis history of one dashboard user. It is idle or
// waiting; only one analysis may run at a time.
type Session struct {
	ID string

	busy atomic.Bool

	mu      sync.Mutex
	history []procurement.HistoryEntry
}

func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Busy reports whether an analysis is in flight.
func (s *Session) Busy() bool { return s.busy.Load() }

func (s *Session) begin() bool { return s.busy.CompareAndSwap(false, true) }

func (s *Session) end() { s.busy.Store(false) }

func (s *Session) append(e procurement.HistoryEntry) {
	s.mu.Lock()
	s.history = append(s.history, e)
	s.mu.Unlock()
}

// History returns a copy of the entries, oldest first.
func (s *Session) History() []procurement.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]procurement.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Clear drops the history.
func (s *Session) Clear() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Sessions keeps live sessions. A session ends, and its history is dropped,
// when it is idle for the TTL, evicted by size, or ended explicitly.
type Sessions struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Session]
}

func NewSessions(size int, ttl time.Duration) *Sessions {
	if size <= 0 {
		size = 1024
	}
	onEvict := func(_ string, s *Session) { s.Clear() }
	return &Sessions{cache: expirable.NewLRU[string, *Session](size, onEvict, ttl)}
}

// GetOrCreate returns the session for id, creating a new one (with a fresh id)
// when id is unknown or expired. Every hit extends the session's lifetime.
func (s *Sessions) GetOrCreate(id string) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.cache.Get(id); ok {
			s.cache.Add(id, sess)
			return sess, false
		}
	}
	sess = NewSession(uuid.NewString())
	s.cache.Add(sess.ID, sess)
	return sess, true
}

// Get looks up a live session without creating one.
func (s *Sessions) Get(id string) (*Session, bool) {
	return s.cache.Get(id)
}

// End removes the session and clears its history.
func (s *Sessions) End(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(id)
}

func (s *Sessions) Len() int { return s.cache.Len() }
