package session_test

import (
	"context"
	"sync"
	"time"

	"github.com/pulsehq/pulse/pkg/session"
)

// memStore is an in-memory session.Store used by manager and sweeper tests.
type memStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	failWith error
	calls    int
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*session.Session)}
}

func (s *memStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *memStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// expire rewrites the stored expiry so tests can age a session without
// waiting.
func (s *memStore) expire(token string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[token]; ok {
		sess.ExpiresAt = at
	}
}

func (s *memStore) Create(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return s.failWith
	}
	if _, exists := s.sessions[sess.Token]; exists {
		return session.ErrDuplicateToken
	}
	cp := *sess
	s.sessions[sess.Token] = &cp
	return nil
}

func (s *memStore) FindByToken(_ context.Context, token string, now time.Time) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	sess, ok := s.sessions[token]
	if !ok || !sess.ExpiresAt.After(now) {
		return nil, session.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memStore) DeleteByToken(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return false, s.failWith
	}
	if _, ok := s.sessions[token]; !ok {
		return false, nil
	}
	delete(s.sessions, token)
	return true, nil
}

func (s *memStore) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return 0, s.failWith
	}
	var count int64
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
			count++
		}
	}
	return count, nil
}

func (s *memStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return 0, s.failWith
	}
	var count int64
	for token, sess := range s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(s.sessions, token)
			count++
		}
	}
	return count, nil
}

var _ session.Store = (*memStore)(nil)
