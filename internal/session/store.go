// Package session provides the conversation session store: per-context
// message history with bounded size, idle expiry and per-session locking.
package session

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/uuid"

	"github.com/fincompare/fincompare/internal/config"
	"github.com/fincompare/fincompare/internal/port/llm"
)

// Session owns the accumulated history for one context identifier.
// Callers must hold the session lock for the whole turn so concurrent
// requests on the same context cannot interleave history mutation.
type Session struct {
	ID string

	mu         sync.Mutex
	history    []llm.Message
	maxHistory int
}

// Lock acquires the session for a turn.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// History returns a copy of the stored messages. The session lock must be held.
func (s *Session) History() []llm.Message {
	out := make([]llm.Message, len(s.history))
	copy(out, s.history)
	return out
}

// Append adds messages to the history, dropping the oldest entries once the
// configured bound is exceeded. The session lock must be held.
func (s *Session) Append(msgs ...llm.Message) {
	s.history = append(s.history, msgs...)
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		overflow := len(s.history) - s.maxHistory
		s.history = append(s.history[:0:0], s.history[overflow:]...)
	}
}

// Len returns the number of stored messages. The session lock must be held.
func (s *Session) Len() int { return len(s.history) }

// Store maps context identifiers to sessions. Ristretto bounds the number of
// live sessions (least-valuable eviction) and expires idle ones.
type Store struct {
	mu    sync.Mutex
	cache *ristretto.Cache[string, *Session]

	maxHistory int
	idleTTL    time.Duration
}

// NewStore creates a session store sized per the given config.
func NewStore(cfg config.Session) (*Store, error) {
	// Each session costs 1 so MaxCost is a session count; without
	// IgnoreInternalCost ristretto adds its per-entry overhead and a
	// count-sized budget rejects every insert.
	cache, err := ristretto.NewCache(&ristretto.Config[string, *Session]{
		NumCounters:        int64(cfg.MaxSessions) * 10,
		MaxCost:            int64(cfg.MaxSessions),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Store{
		cache:      cache,
		maxHistory: cfg.MaxHistory,
		idleTTL:    cfg.IdleTTL,
	}, nil
}

// GetOrCreate returns the session for the given context identifier, creating
// it (and minting an identifier when none is supplied) on first reference.
// Each lookup refreshes the session's idle expiry.
func (st *Store) GetOrCreate(contextID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if contextID != "" {
		if sess, ok := st.cache.Get(contextID); ok {
			st.touch(sess)
			return sess
		}
	} else {
		contextID = uuid.NewString()
	}

	sess := &Session{ID: contextID, maxHistory: st.maxHistory}
	st.touch(sess)
	return sess
}

// Evict removes a session from the store.
func (st *Store) Evict(contextID string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.cache.Del(contextID)
}

// touch (re)inserts the session, resetting its idle TTL.
// Must be called with st.mu held.
func (st *Store) touch(sess *Session) {
	st.cache.SetWithTTL(sess.ID, sess, 1, st.idleTTL)
	st.cache.Wait()
}

// Close releases the underlying cache.
func (st *Store) Close() {
	st.cache.Close()
}
