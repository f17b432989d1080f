package memory

import (
	"sync"

	"student-app/internal/app"
	"student-app/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.ID]*app.QuizSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.ID]*app.QuizSession),
	}
}

// Put stores a session, replacing any quiz already running for the same subject.
func (s *SessionStore) Put(session *app.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.SubjectID()] = session
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
	delete(s.sessions, subjectID)
}
