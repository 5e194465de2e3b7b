package account_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsehq/pulse/pkg/auth"
	"github.com/pulsehq/pulse/pkg/session"
)

// memSessionStore is an in-memory session.Store backing the route tests.
type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]*session.Session)}
}

// expire rewrites a stored session's expiry, simulating the passage of time.
func (s *memSessionStore) expire(token string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[token]; ok {
		sess.ExpiresAt = at
	}
}

func (s *memSessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *memSessionStore) Create(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.Token]; ok {
		return session.ErrDuplicateToken
	}
	cp := *sess
	s.sessions[sess.Token] = &cp
	return nil
}

func (s *memSessionStore) FindByToken(_ context.Context, token string, now time.Time) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok || !sess.ExpiresAt.After(now) {
		return nil, session.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *memSessionStore) DeleteByToken(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return false, nil
	}
	delete(s.sessions, token)
	return true, nil
}

func (s *memSessionStore) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
			count++
		}
	}
	return count, nil
}

func (s *memSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for token, sess := range s.sessions {
		if sess.ExpiresAt.Before(now) {
			delete(s.sessions, token)
			count++
		}
	}
	return count, nil
}

var _ session.Store = (*memSessionStore)(nil)

// memUserStore is an in-memory auth.UserStore backing the route tests.
type memUserStore struct {
	mu     sync.Mutex
	users  map[uuid.UUID]*auth.User
	hashes map[uuid.UUID][]byte
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:  make(map[uuid.UUID]*auth.User),
		hashes: make(map[uuid.UUID][]byte),
	}
}

func (s *memUserStore) CreateUser(_ context.Context, user *auth.User, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return auth.ErrEmailAlreadyExists
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	s.hashes[user.ID] = passwordHash
	return nil
}

func (s *memUserStore) GetUserByID(_ context.Context, id uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memUserStore) GetPasswordHash(_ context.Context, id uuid.UUID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, ok := s.hashes[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return hash, nil
}

var _ auth.UserStore = (*memUserStore)(nil)
