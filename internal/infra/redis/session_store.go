package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"student-app/internal/app"
	"student-app/internal/domain"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Sessions live in a local map; Redis only carries a liveness marker per running quiz
// so other tooling can see which subjects have a quiz in progress.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[domain.ID]*app.QuizSession
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[domain.ID]*app.QuizSession),
	}
}

func (s *SessionStore) Put(session *app.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SubjectID()] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(session.SubjectID()), session.ModuleID().String(), s.ttl).Err()
}

func (s *SessionStore) Get(subjectID domain.ID) (*app.QuizSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[subjectID]
	return session, ok
}

func (s *SessionStore) Delete(subjectID domain.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[subjectID]; !ok {
		return
	}
	delete(s.sessions, subjectID)
	_ = s.client.Del(context.Background(), s.key(subjectID)).Err()
}

func (s *SessionStore) key(subjectID domain.ID) string {
	return "quiz:session:" + subjectID.String()
}
