package memory

import (
	"context"
	"sync"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
)

// SessionStore keeps one session per user for the lifetime of the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]entity.Session)}
}

func (s *SessionStore) Put(_ context.Context, sess entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, userID string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

// Touch applies the known session fields; unknown keys are ignored.
func (s *SessionStore) Touch(_ context.Context, userID string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range fields {
		str, _ := v.(string)
		switch k {
		case "email":
			sess.Email = str
		case "name":
			sess.Name = str
		case "avatar_url":
			sess.AvatarURL = str
		}
	}
	s.sessions[userID] = sess
	return nil
}

func (s *SessionStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

var _ repository.SessionRepository = (*SessionStore)(nil)
