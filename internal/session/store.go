// Package session holds the in-memory state of résumé refinement conversations.
package session

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/oklog/ulid/v2"

	"github.com/jonathan/resume-refiner/internal/types"
)

// ErrNotFound is returned for unknown or evicted session ids
var ErrNotFound = errors.New("session not found")

// Default bounds used when Config leaves them unset
const (
	DefaultTTL         = 2 * time.Hour
	DefaultMaxSessions = 10000
)

// Config bounds the store. Sessions idle for longer than TTL expire, and once MaxSessions
// is reached the least recently active session is evicted.
type Config struct {
	TTL         time.Duration
	MaxSessions int
	// OnEvict is called with the final snapshot of every session that leaves the store.
	// It runs while the store holds its internal lock and must not call back into the store.
	OnEvict func(types.Session)
}

// entry guards one session. Mutations take the entry lock, so appends and data
// replacement are atomic per session while different sessions proceed independently.
type entry struct {
	mu      sync.Mutex
	session types.Session
	evicted atomic.Bool
}

// Store is a TTL and capacity bounded session table, safe for concurrent use
type Store struct {
	lru *expirable.LRU[string, *entry]
	now func() time.Time
}

// NewStore creates a session store
func NewStore(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}

	onEvict := func(id string, e *entry) {
		if !e.evicted.CompareAndSwap(false, true) {
			return
		}
		e.mu.Lock()
		snapshot := e.session.Clone()
		e.mu.Unlock()

		log.Printf("[session] evicted %s (idle since %s)", id, snapshot.LastActivityAt.Format(time.RFC3339))
		if cfg.OnEvict != nil {
			cfg.OnEvict(snapshot)
		}
	}

	return &Store{
		lru: expirable.NewLRU[string, *entry](cfg.MaxSessions, onEvict, cfg.TTL),
		now: time.Now,
	}
}

// Create stores a new session and returns its snapshot. It always succeeds.
func (s *Store) Create(originalText string, data types.ParsedCvData) types.Session {
	now := s.now().UTC()
	e := &entry{session: types.Session{
		ID:             ulid.Make().String(),
		OriginalText:   originalText,
		Data:           data.Clone(),
		Transcript:     []types.ChatMessage{},
		CreatedAt:      now,
		LastActivityAt: now,
	}}
	s.lru.Add(e.session.ID, e)
	return e.session.Clone()
}

// Get returns a snapshot of the session. Reads do not count as activity.
func (s *Store) Get(id string) (types.Session, error) {
	e, ok := s.lru.Peek(id)
	if !ok {
		return types.Session{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Touch records activity on the session without changing it
func (s *Store) Touch(id string) (types.Session, error) {
	return s.Update(id, func(*types.Session) {})
}

// AppendMessage records activity and appends one transcript entry
func (s *Store) AppendMessage(id string, msg types.ChatMessage) (types.Session, error) {
	return s.Update(id, func(sess *types.Session) {
		sess.Transcript = append(sess.Transcript, msg)
	})
}

// ReplaceData records activity and replaces the structured CV data wholesale
func (s *Store) ReplaceData(id string, data types.ParsedCvData) (types.Session, error) {
	data = data.Clone()
	return s.Update(id, func(sess *types.Session) {
		sess.Data = data
	})
}

// SetCountryCode records the country phone numbers in this session are formatted for
func (s *Store) SetCountryCode(id, countryCode string) (types.Session, error) {
	return s.Update(id, func(sess *types.Session) {
		sess.CountryCode = countryCode
	})
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.lru.Len()
}

// Update applies mutate to the session under its lock, records activity, and returns the
// resulting snapshot. mutate must replace Data wholesale and must not retain the pointer.
func (s *Store) Update(id string, mutate func(*types.Session)) (types.Session, error) {
	e, ok := s.lru.Peek(id)
	if !ok {
		return types.Session{}, ErrNotFound
	}
	return s.update(id, e, mutate)
}

func (s *Store) update(id string, e *entry, mutate func(*types.Session)) (types.Session, error) {
	e.mu.Lock()
	if e.evicted.Load() {
		e.mu.Unlock()
		return types.Session{}, ErrNotFound
	}
	mutate(&e.session)
	e.session.LastActivityAt = s.now().UTC()
	snapshot := e.session.Clone()
	e.mu.Unlock()

	// Re-adding refreshes both recency and expiry.
	s.lru.Add(id, e)
	if e.evicted.Load() {
		// Evicted between the check and Add: drop the re-added entry without a second event.
		s.lru.Remove(id)
		return types.Session{}, ErrNotFound
	}
	return snapshot, nil
}
