package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"student-app/internal/domain"
)

// ModuleStore abstracts the local persistence layer (SQLite in production).
type ModuleStore interface {
	IngestModule(ctx context.Context, doc *domain.ModuleDocument) error
	RecordResult(ctx context.Context, in domain.ResultInput) (int64, error)
	GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error)
	GetResultsForSubject(ctx context.Context, subjectID domain.ID) ([]domain.ResultView, error)
	GetModule(ctx context.Context, moduleID domain.ID) (domain.Module, error)
	GetSubject(ctx context.Context, subjectID domain.ID) (domain.Subject, error)
	ListSubjects(ctx context.Context, moduleID domain.ID) ([]domain.Subject, error)
	GetTheoryPages(ctx context.Context, subjectID domain.ID) ([]domain.TheoryPage, error)
	GetQuestions(ctx context.Context, subjectID domain.ID) ([]domain.Question, error)
}

// ModuleSource fetches module documents from wherever content is published
// (remote API, content database, static fixtures).
type ModuleSource interface {
	FetchModule(ctx context.Context, moduleID domain.ID) (*domain.ModuleDocument, error)
}

// ProgressRepository serves module progress, possibly from a cache. Invalidate must drop
// every cached entry; it is called after each successful ingestion or result write.
type ProgressRepository interface {
	GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error)
	Invalidate(ctx context.Context)
}

// SessionRepository abstracts where in-progress quizzes are kept.
type SessionRepository interface {
	Put(session *QuizSession)
	Get(subjectID domain.ID) (*QuizSession, bool)
	Delete(subjectID domain.ID)
}

// LearningService contains the app's use cases: syncing modules, taking quizzes and
// reading progress and result history.
type LearningService struct {
	store    ModuleStore
	source   ModuleSource
	progress ProgressRepository
	sessions SessionRepository
	log      zerolog.Logger
}

// NewLearningService wires the service. A nil progress repository reads progress straight
// from the store; a nil source turns SyncModule into a no-op.
func NewLearningService(store ModuleStore, source ModuleSource, progress ProgressRepository, sessions SessionRepository, log zerolog.Logger) *LearningService {
	if progress == nil {
		progress = uncachedProgress{store: store}
	}
	return &LearningService{
		store:    store,
		source:   source,
		progress: progress,
		sessions: sessions,
		log:      log,
	}
}

// SyncModule runs one foreground sync: fetch the module and ingest it. A fetch failure or
// an empty response is not an error; the previously stored module stays usable and the
// next foreground event retries. It reports whether a document was ingested.
func (s *LearningService) SyncModule(ctx context.Context, moduleID domain.ID) (bool, error) {
	if s.source == nil {
		return false, nil
	}
	doc, err := s.source.FetchModule(ctx, moduleID)
	if err != nil {
		s.log.Warn().Err(err).Stringer("module_id", moduleID).Msg("module fetch failed, keeping local copy")
		return false, nil
	}
	if doc == nil {
		s.log.Warn().Stringer("module_id", moduleID).Msg("module fetch returned nothing")
		return false, nil
	}
	if err := s.IngestModule(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

// IngestModule writes a module document to the store. A nil document is a no-op.
func (s *LearningService) IngestModule(ctx context.Context, doc *domain.ModuleDocument) error {
	if doc == nil {
		return nil
	}
	if err := s.store.IngestModule(ctx, doc); err != nil {
		s.log.Error().Err(err).Stringer("module_id", doc.ID).Msg("module ingestion failed")
		return err
	}
	s.progress.Invalidate(ctx)
	s.log.Info().
		Stringer("module_id", doc.ID).
		Int("subjects", len(doc.Subjects)).
		Msg("module ingested")
	return nil
}

// RecordResult appends one completed quiz attempt and returns the new result id.
func (s *LearningService) RecordResult(ctx context.Context, studentID int64, moduleID, subjectID domain.ID, answers []domain.AnswerRecord, score, totalQuestions int) (int64, error) {
	id, err := s.store.RecordResult(ctx, domain.ResultInput{
		StudentID:      studentID,
		ModuleID:       moduleID,
		SubjectID:      subjectID,
		Answers:        answers,
		Score:          score,
		TotalQuestions: totalQuestions,
	})
	if err != nil {
		s.log.Warn().Err(err).
			Stringer("subject_id", subjectID).
			Int("score", score).
			Int("total", totalQuestions).
			Msg("quiz result not saved")
		return 0, err
	}
	s.progress.Invalidate(ctx)
	return id, nil
}

func (s *LearningService) GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error) {
	return s.progress.GetModuleProgress(ctx, moduleID)
}

func (s *LearningService) GetResultsForSubject(ctx context.Context, subjectID domain.ID) ([]domain.ResultView, error) {
	return s.store.GetResultsForSubject(ctx, subjectID)
}

func (s *LearningService) GetModule(ctx context.Context, moduleID domain.ID) (domain.Module, error) {
	return s.store.GetModule(ctx, moduleID)
}

func (s *LearningService) ListSubjects(ctx context.Context, moduleID domain.ID) ([]domain.Subject, error) {
	return s.store.ListSubjects(ctx, moduleID)
}

func (s *LearningService) GetTheoryPages(ctx context.Context, subjectID domain.ID) ([]domain.TheoryPage, error) {
	return s.store.GetTheoryPages(ctx, subjectID)
}

// StartQuiz begins (or restarts) the quiz for a subject and returns its questions. The
// session's module is the one stored for the subject; a zero moduleID means "whichever
// module owns it" and any other mismatch is ErrNotFound.
func (s *LearningService) StartQuiz(ctx context.Context, moduleID, subjectID domain.ID) ([]domain.Question, error) {
	subject, err := s.store.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if moduleID != 0 && moduleID != subject.ModuleID {
		return nil, fmt.Errorf("subject %d does not belong to module %d: %w", subjectID, moduleID, domain.ErrNotFound)
	}

	questions, err := s.store.GetQuestions(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("subject %d has no questions: %w", subjectID, domain.ErrNotFound)
	}
	s.sessions.Put(NewQuizSession(subject.ModuleID, subjectID, questions))
	return questions, nil
}

// AnswerQuestion records the student's choice for one question of the running quiz.
func (s *LearningService) AnswerQuestion(_ context.Context, subjectID, questionID domain.ID, option string) (AnswerOutcome, error) {
	session, ok := s.sessions.Get(subjectID)
	if !ok {
		return AnswerOutcome{}, domain.ErrSessionNotFound
	}
	return session.answer(questionID, option)
}

// FinishQuiz grades the running quiz and records the result. The outcome is returned even
// when saving fails so the student still sees their score; Persisted reports whether the
// result reached the store.
func (s *LearningService) FinishQuiz(ctx context.Context, subjectID domain.ID) (QuizOutcome, error) {
	session, ok := s.sessions.Get(subjectID)
	if !ok {
		return QuizOutcome{}, domain.ErrSessionNotFound
	}
	s.sessions.Delete(subjectID)

	outcome := session.outcome()
	id, err := s.RecordResult(ctx, domain.DefaultStudentID, outcome.ModuleID, outcome.SubjectID, outcome.Answers, outcome.Score, outcome.Total)
	if err != nil {
		return outcome, err
	}
	outcome.ResultID = id
	outcome.Persisted = true
	return outcome, nil
}

// IsStorageFailure reports whether err came from the store rather than bad input.
func IsStorageFailure(err error) bool {
	return errors.Is(err, domain.ErrStorageFailure)
}

type uncachedProgress struct {
	store ModuleStore
}

func (p uncachedProgress) GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error) {
	return p.store.GetModuleProgress(ctx, moduleID)
}

func (uncachedProgress) Invalidate(context.Context) {}
