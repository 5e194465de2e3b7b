package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsehq/pulse/pkg/auth"
	"github.com/pulsehq/pulse/pkg/session"
)

// memUserStore is an in-memory auth.UserStore.
type memUserStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*auth.User
	hashes   map[uuid.UUID][]byte
	failWith error
	calls    int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		users:  make(map[uuid.UUID]*auth.User),
		hashes: make(map[uuid.UUID][]byte),
	}
}

func (s *memUserStore) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *memUserStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *memUserStore) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	delete(s.hashes, id)
}

func (s *memUserStore) CreateUser(_ context.Context, user *auth.User, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failWith != nil {
		return s.failWith
	}
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
	s.calls++
	if s.failWith != nil {
		return nil, s.failWith
	}
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
	s.calls++
	if s.failWith != nil {
		return nil, s.failWith
	}
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
	s.calls++
	if s.failWith != nil {
		return nil, s.failWith
	}
	hash, ok := s.hashes[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return hash, nil
}

var _ auth.UserStore = (*memUserStore)(nil)

// fakeSessionManager is an in-memory auth.SessionManager.
type fakeSessionManager struct {
	mu          sync.Mutex
	sessions    map[string]*session.Session
	validateErr error
	calls       int
	deleted     []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: make(map[string]*session.Session)}
}

func (m *fakeSessionManager) add(token, userID string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = &session.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
}

func (m *fakeSessionManager) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *fakeSessionManager) deletedTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func (m *fakeSessionManager) ValidateSession(_ context.Context, token string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	sess, ok := m.sessions[token]
	if !ok || !sess.ExpiresAt.After(time.Now()) {
		return nil, session.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (m *fakeSessionManager) DeleteSession(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.deleted = append(m.deleted, token)
	if _, ok := m.sessions[token]; !ok {
		return false, nil
	}
	delete(m.sessions, token)
	return true, nil
}

var _ auth.SessionManager = (*fakeSessionManager)(nil)
