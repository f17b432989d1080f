package domain

import "errors"

var (
	// ErrMalformedDocument is returned when a fetched module lacks required identifiers
	// or violates ordering constraints.
	ErrMalformedDocument = errors.New("malformed module document")
	// ErrStorageFailure wraps any error raised by the underlying store.
	ErrStorageFailure = errors.New("storage failure")
	// ErrNotFound indicates a lookup target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidResult is the parent of every result precondition failure.
	ErrInvalidResult = errors.New("invalid quiz result")
	// ErrScoreOutOfRange is returned when score is outside [0, total_questions].
	ErrScoreOutOfRange = errors.New("score out of range")
	// ErrAnswerCountMismatch is returned when len(answers) != total_questions.
	ErrAnswerCountMismatch = errors.New("answer count does not match total questions")
	// ErrInvalidOption is returned for an option label outside {a,b,c,d}.
	ErrInvalidOption = errors.New("invalid option label")
	// ErrMissingReference is returned when a result names no module or no subject.
	ErrMissingReference = errors.New("missing module or subject id")

	// ErrSessionNotFound is returned when no quiz is in progress for a subject.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuestionNotFound indicates a submitted question ID is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
)
