package app

import (
	"sync"
	"time"

	"student-app/internal/domain"
)

// AnswerOutcome is returned after each answered question.
type AnswerOutcome struct {
	QuestionID    domain.ID `json:"questionId"`
	Selected      string    `json:"selectedOption"`
	CorrectOption string    `json:"correctOption"`
	Correct       bool      `json:"correct"`
	Answered      int       `json:"answered"`
	Total         int       `json:"total"`
}

// QuizOutcome is the graded result of a finished quiz.
type QuizOutcome struct {
	ModuleID  domain.ID             `json:"moduleId"`
	SubjectID domain.ID             `json:"subjectId"`
	Answers   []domain.AnswerRecord `json:"answers"`
	Score     int                   `json:"score"`
	Total     int                   `json:"total"`
	ResultID  int64                 `json:"resultId"`
	Persisted bool                  `json:"persisted"`
	StartedAt time.Time             `json:"startedAt"`
}

// QuizSession is the in-memory state of one quiz being taken.
type QuizSession struct {
	moduleID  domain.ID
	subjectID domain.ID
	questions []domain.Question
	startedAt time.Time

	mu         sync.Mutex
	selections map[domain.ID]string
}

// NewQuizSession is exported for infrastructure layers that need to seed sessions.
func NewQuizSession(moduleID, subjectID domain.ID, questions []domain.Question) *QuizSession {
	return NewQuizSessionWithClock(moduleID, subjectID, questions, time.Now)
}

// NewQuizSessionWithClock is test-only for deterministic timestamps.
func NewQuizSessionWithClock(moduleID, subjectID domain.ID, questions []domain.Question, now func() time.Time) *QuizSession {
	return &QuizSession{
		moduleID:   moduleID,
		subjectID:  subjectID,
		questions:  questions,
		startedAt:  now(),
		selections: make(map[domain.ID]string, len(questions)),
	}
}

func (s *QuizSession) SubjectID() domain.ID { return s.subjectID }

func (s *QuizSession) ModuleID() domain.ID { return s.moduleID }

func (s *QuizSession) answer(questionID domain.ID, option string) (AnswerOutcome, error) {
	question, ok := s.question(questionID)
	if !ok {
		return AnswerOutcome{}, domain.ErrQuestionNotFound
	}
	selected := domain.NormalizeOption(option)
	if !domain.IsOptionLabel(selected) {
		return AnswerOutcome{}, domain.ErrInvalidOption
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[questionID] = selected

	correct := domain.NormalizeOption(question.CorrectAnswer)
	return AnswerOutcome{
		QuestionID:    questionID,
		Selected:      selected,
		CorrectOption: correct,
		Correct:       selected == correct,
		Answered:      len(s.selections),
		Total:         len(s.questions),
	}, nil
}

func (s *QuizSession) outcome() QuizOutcome {
	s.mu.Lock()
	selections := make(map[domain.ID]string, len(s.selections))
	for k, v := range s.selections {
		selections[k] = v
	}
	s.mu.Unlock()

	answers, score := domain.GradeAnswers(s.questions, selections)
	return QuizOutcome{
		ModuleID:  s.moduleID,
		SubjectID: s.subjectID,
		Answers:   answers,
		Score:     score,
		Total:     len(s.questions),
		StartedAt: s.startedAt,
	}
}

func (s *QuizSession) question(id domain.ID) (domain.Question, bool) {
	for _, q := range s.questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}
