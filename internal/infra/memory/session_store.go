package memory

import (
	"context"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// The map lock only guards membership; each session carries its own lock so
// unrelated identifiers never wait on each other.
type SessionStore struct {
	now      func() time.Time
	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.RWMutex
	session domain.Session
}

func NewSessionStore() *SessionStore {
	return NewSessionStoreWithClock(time.Now)
}

// NewSessionStoreWithClock is useful for deterministic timestamps in tests.
func NewSessionStoreWithClock(now func() time.Time) *SessionStore {
	return &SessionStore{
		now:      now,
		sessions: make(map[string]*entry),
	}
}

// Create logs the identifier in, adopting a session started by earlier
// actions. It fails only when that session is already logged in.
func (s *SessionStore) Create(_ context.Context, email string) (domain.Session, error) {
	e := s.getOrCreate(email)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.session.Login(s.now()); err != nil {
		return domain.Session{}, err
	}
	return e.session.Clone(), nil
}

func (s *SessionStore) Update(_ context.Context, email string, fn func(*domain.Session)) (domain.Session, error) {
	e := s.getOrCreate(email)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.session)
	return e.session.Clone(), nil
}

func (s *SessionStore) Get(_ context.Context, email string) (domain.Session, bool, error) {
	s.mu.RLock()
	e, ok := s.sessions[email]
	s.mu.RUnlock()
	if !ok {
		return domain.Session{}, false, nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.Clone(), true, nil
}

// Len reports how many identifiers hold a session.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) getOrCreate(email string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[email]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[email]; ok {
		return e
	}
	e = &entry{session: domain.NewSession(email, s.now())}
	s.sessions[email] = e
	return e
}
