// Package session keeps the wizard sessions served over HTTP.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/bidguide/internal/questions"
	"github.com/dgallion1/bidguide/internal/wizard"
	"github.com/google/uuid"
)

// Session is one browser's wizard plus the question list it edits.
// The question list outlives wizard restarts.
type Session struct {
	mu sync.Mutex

	ID        string
	Questions *questions.Store
	Engine    *wizard.Engine
	CreatedAt time.Time

	filename    string
	contentHash string
	updatedAt   time.Time
}

// New creates a session with a fresh engine over gen.
func New(gen wizard.Generator, initialQuestions []string, log *slog.Logger) *Session {
	id := uuid.New().String()
	now := time.Now()
	return &Session{
		ID:        id,
		Questions: questions.NewStore(initialQuestions),
		Engine:    wizard.New(gen, log.With("session_id", id)),
		CreatedAt: now,
		updatedAt: now,
	}
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedAt = time.Now()
}

// SetDocument records which upload the current run is about.
func (s *Session) SetDocument(filename, contentHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = filename
	s.contentHash = contentHash
	s.updatedAt = time.Now()
}

// ClearDocument forgets the upload on restart.
func (s *Session) ClearDocument() {
	s.SetDocument("", "")
}

// Document returns the recorded upload name and content hash.
func (s *Session) Document() (filename, contentHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename, s.contentHash
}

// UpdatedAt returns the last time the session was used.
func (s *Session) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the session and marks it used, or nil.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	sess := s.sessions[id]
	s.mu.Unlock()
	if sess != nil {
		sess.Touch()
	}
	return sess
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes sessions idle for longer than the TTL and returns
// how many were removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.UpdatedAt()) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
