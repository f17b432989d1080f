package app_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"student-app/internal/app"
	"student-app/internal/domain"
	"student-app/internal/infra/memory"
	"student-app/internal/infra/sqlite"
)

func TestSyncModuleIngestsFetchedDocument(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	service := app.NewLearningService(store, staticSource(), nil, memory.NewSessionStore(), zerolog.Nop())

	synced, err := service.SyncModule(ctx, 6)
	if err != nil || !synced {
		t.Fatalf("sync: synced=%v err=%v", synced, err)
	}
	module, err := service.GetModule(ctx, 6)
	if err != nil {
		t.Fatalf("get module: %v", err)
	}
	if module.Title != "Day 1" || module.ClassName != "Class 5" {
		t.Fatalf("unexpected module %+v", module)
	}
	pages, err := service.GetTheoryPages(ctx, 101)
	if err != nil || len(pages) != 2 || pages[0].PageNumber != 1 {
		t.Fatalf("unexpected pages %+v err=%v", pages, err)
	}
}

func TestSyncModuleKeepsLocalCopyWhenFetchFails(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if err := store.IngestModule(ctx, englishModule()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var logs bytes.Buffer
	service := app.NewLearningService(store, failingSource{}, nil, memory.NewSessionStore(), zerolog.New(&logs))

	synced, err := service.SyncModule(ctx, 6)
	if err != nil || synced {
		t.Fatalf("expected no-op, got synced=%v err=%v", synced, err)
	}
	if !strings.Contains(logs.String(), `"level":"warn"`) {
		t.Fatalf("expected a warning, got %q", logs.String())
	}
	subjects, err := service.ListSubjects(ctx, 6)
	if err != nil || len(subjects) != 1 {
		t.Fatalf("local copy should remain, got %+v err=%v", subjects, err)
	}
}

func TestSyncModuleWithoutDocumentIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	service := app.NewLearningService(store, staticSource(), nil, memory.NewSessionStore(), zerolog.Nop())
	synced, err := service.SyncModule(ctx, 42)
	if err != nil || synced {
		t.Fatalf("unknown module: synced=%v err=%v", synced, err)
	}

	offline := app.NewLearningService(store, nil, nil, memory.NewSessionStore(), zerolog.Nop())
	synced, err = offline.SyncModule(ctx, 6)
	if err != nil || synced {
		t.Fatalf("nil source: synced=%v err=%v", synced, err)
	}
	if _, err := offline.GetModule(ctx, 6); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

func TestSyncModuleRejectsMalformedDocument(t *testing.T) {
	ctx := context.Background()
	bad := *englishModule()
	bad.Subjects = []domain.SubjectDocument{{Name: "No id"}}
	source := memory.NewStaticModuleSource(map[domain.ID]domain.ModuleDocument{6: bad})
	service := app.NewLearningService(newStore(t), source, nil, memory.NewSessionStore(), zerolog.Nop())

	synced, err := service.SyncModule(ctx, 6)
	if synced || !errors.Is(err, domain.ErrMalformedDocument) {
		t.Fatalf("expected malformed document, got synced=%v err=%v", synced, err)
	}
}

func TestQuizFlowRecordsResultAndRefreshesProgress(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	progress := memory.NewProgressCache(store, time.Hour)
	service := app.NewLearningService(store, staticSource(), progress, memory.NewSessionStore(), zerolog.Nop())

	if _, err := service.SyncModule(ctx, 6); err != nil {
		t.Fatalf("sync: %v", err)
	}
	before, err := service.GetModuleProgress(ctx, 6)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if before.Status != domain.StatusStart {
		t.Fatalf("expected start, got %s", before.Status)
	}

	questions, err := service.StartQuiz(ctx, 6, 101)
	if err != nil || len(questions) != 2 {
		t.Fatalf("start quiz: %d questions, err=%v", len(questions), err)
	}
	first, err := service.AnswerQuestion(ctx, 101, 5001, " A ")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if !first.Correct || first.Selected != "a" {
		t.Fatalf("unexpected outcome %+v", first)
	}
	if _, err := service.AnswerQuestion(ctx, 101, 5002, "c"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	outcome, err := service.FinishQuiz(ctx, 101)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !outcome.Persisted || outcome.ResultID == 0 || outcome.Score != 1 || outcome.Total != 2 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	after, err := service.GetModuleProgress(ctx, 6)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if after.Status != domain.StatusCompleted || after.Completed != 1 {
		t.Fatalf("cached progress should be invalidated, got %+v", after)
	}

	results, err := service.GetResultsForSubject(ctx, 101)
	if err != nil || len(results) != 1 {
		t.Fatalf("results: %+v err=%v", results, err)
	}
	if results[0].Answers[1].SelectedOption != "c" || results[0].Answers[1].IsCorrect {
		t.Fatalf("unexpected stored answers %+v", results[0].Answers)
	}
	if _, err := service.FinishQuiz(ctx, 101); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session should be gone, got %v", err)
	}
}

func TestFinishQuizReturnsOutcomeWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if err := store.IngestModule(ctx, englishModule()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	service := app.NewLearningService(brokenResults{store}, nil, nil, memory.NewSessionStore(), zerolog.Nop())

	if _, err := service.StartQuiz(ctx, 6, 101); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.AnswerQuestion(ctx, 101, 5001, "a"); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := service.AnswerQuestion(ctx, 101, 5002, "b"); err != nil {
		t.Fatalf("answer: %v", err)
	}

	outcome, err := service.FinishQuiz(ctx, 101)
	if !app.IsStorageFailure(err) {
		t.Fatalf("expected storage failure, got %v", err)
	}
	if outcome.Persisted || outcome.Score != 2 || outcome.Total != 2 {
		t.Fatalf("score should still be reported, got %+v", outcome)
	}
	if domain.Performance(outcome.Score, outcome.Total) != "Perfect Score!" {
		t.Fatalf("unexpected performance")
	}
}

func TestStartQuizRequiresQuestions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	empty := &domain.ModuleDocument{ID: 7, Subjects: []domain.SubjectDocument{{ID: 201, Name: "Art", OrderIndex: 1}}}
	if err := store.IngestModule(ctx, empty); err != nil {
		t.Fatalf("seed: %v", err)
	}
	service := app.NewLearningService(store, nil, nil, memory.NewSessionStore(), zerolog.Nop())

	if _, err := service.StartQuiz(ctx, 7, 201); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStartQuizTakesModuleFromStoredSubject(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if err := store.IngestModule(ctx, englishModule()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	service := app.NewLearningService(store, nil, nil, memory.NewSessionStore(), zerolog.Nop())

	if _, err := service.StartQuiz(ctx, 7, 101); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected module mismatch to be not found, got %v", err)
	}
	if _, err := service.StartQuiz(ctx, 6, 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected unknown subject to be not found, got %v", err)
	}

	if _, err := service.StartQuiz(ctx, 0, 101); err != nil {
		t.Fatalf("start: %v", err)
	}
	outcome, err := service.FinishQuiz(ctx, 101)
	if err != nil || !outcome.Persisted {
		t.Fatalf("finish: %+v err=%v", outcome, err)
	}
	if outcome.ModuleID != 6 {
		t.Fatalf("expected module 6 from the stored subject, got %d", outcome.ModuleID)
	}
	results, err := service.GetResultsForSubject(ctx, 101)
	if err != nil || len(results) != 1 {
		t.Fatalf("results: %+v err=%v", results, err)
	}
	if results[0].ModuleID != 6 || results[0].ModuleTitle != "Day 1" {
		t.Fatalf("unexpected stored result %+v", results[0])
	}
}

func TestAnswerQuestionErrors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	if err := store.IngestModule(ctx, englishModule()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	service := app.NewLearningService(store, nil, nil, memory.NewSessionStore(), zerolog.Nop())

	if _, err := service.AnswerQuestion(ctx, 101, 5001, "a"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected no session, got %v", err)
	}
	if _, err := service.StartQuiz(ctx, 6, 101); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.AnswerQuestion(ctx, 101, 9999, "a"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected unknown question, got %v", err)
	}
	if _, err := service.AnswerQuestion(ctx, 101, 5001, "e"); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected invalid option, got %v", err)
	}
}

func TestRecordResultRejectsInvalidInputWithoutInvalidating(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	progress := &countingProgress{ProgressLoader: store}
	service := app.NewLearningService(store, nil, progress, memory.NewSessionStore(), zerolog.Nop())

	answers := []domain.AnswerRecord{{QuestionID: 5001, SelectedOption: "a", CorrectOption: "a"}}
	_, err := service.RecordResult(ctx, domain.DefaultStudentID, 6, 101, answers, 2, 1)
	if !errors.Is(err, domain.ErrScoreOutOfRange) || app.IsStorageFailure(err) {
		t.Fatalf("expected score out of range, got %v", err)
	}
	if progress.invalidations != 0 {
		t.Fatalf("failed write must not invalidate, got %d", progress.invalidations)
	}

	if _, err := service.RecordResult(ctx, domain.DefaultStudentID, 6, 101, answers, 1, 1); err != nil {
		t.Fatalf("record: %v", err)
	}
	if progress.invalidations != 1 {
		t.Fatalf("expected one invalidation, got %d", progress.invalidations)
	}
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "student.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func staticSource() *memory.StaticModuleSource {
	return memory.NewStaticModuleSource(map[domain.ID]domain.ModuleDocument{6: *englishModule()})
}

type failingSource struct{}

func (failingSource) FetchModule(context.Context, domain.ID) (*domain.ModuleDocument, error) {
	return nil, errors.New("network unreachable")
}

// brokenResults is a store whose result writes always fail.
type brokenResults struct {
	*sqlite.Store
}

func (brokenResults) RecordResult(context.Context, domain.ResultInput) (int64, error) {
	return 0, errors.Join(domain.ErrStorageFailure, errors.New("disk full"))
}

type countingProgress struct {
	memory.ProgressLoader
	invalidations int
}

func (p *countingProgress) Invalidate(context.Context) { p.invalidations++ }

func englishModule() *domain.ModuleDocument {
	return &domain.ModuleDocument{
		ID:        6,
		Title:     "Day 1",
		Date:      "2025-01-06",
		ClassName: "Class 5",
		Subjects: []domain.SubjectDocument{
			{
				ID:         101,
				Name:       "English",
				OrderIndex: 1,
				TheoryPages: []domain.PageDocument{
					{ID: 1001, PageNumber: 1, Content: "Nouns"},
					{ID: 1002, PageNumber: 2, Content: "Verbs"},
				},
				Questions: []domain.QuestionDocument{
					{ID: 5001, QuestionText: "Pick the noun", Options: domain.Options{A: "cat", B: "run", C: "the", D: "fast"}, CorrectAnswer: "a"},
					{ID: 5002, QuestionText: "Pick the verb", Options: domain.Options{A: "dog", B: "run", C: "house", D: "blue"}, CorrectAnswer: "b"},
				},
			},
		},
	}
}
