package domain

import (
	"encoding/json"
	"fmt"
)

// EncodeAnswers serializes an attempt's answers for the results.answers column.
// The format is a JSON array of {questionId, selectedOption, correctOption, isCorrect}.
func EncodeAnswers(answers []AnswerRecord) (string, error) {
	if answers == nil {
		answers = []AnswerRecord{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return string(raw), nil
}

// DecodeAnswers is the inverse of EncodeAnswers. An empty column decodes to no answers.
func DecodeAnswers(raw string) ([]AnswerRecord, error) {
	answers := []AnswerRecord{}
	if raw == "" {
		return answers, nil
	}
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return answers, nil
}

// Normalize checks the recording preconditions and returns a copy whose answers have
// normalized labels and recomputed IsCorrect flags. Caller-provided IsCorrect values are
// ignored.
func (in ResultInput) Normalize() (ResultInput, error) {
	if in.ModuleID == 0 || in.SubjectID == 0 {
		return ResultInput{}, fmt.Errorf("%w: %w: module %d, subject %d",
			ErrInvalidResult, ErrMissingReference, in.ModuleID, in.SubjectID)
	}
	if in.TotalQuestions < 0 || len(in.Answers) != in.TotalQuestions {
		return ResultInput{}, fmt.Errorf("%w: %w: got %d answers for %d questions",
			ErrInvalidResult, ErrAnswerCountMismatch, len(in.Answers), in.TotalQuestions)
	}
	if in.Score < 0 || in.Score > in.TotalQuestions {
		return ResultInput{}, fmt.Errorf("%w: %w: %d not in [0, %d]",
			ErrInvalidResult, ErrScoreOutOfRange, in.Score, in.TotalQuestions)
	}

	answers := make([]AnswerRecord, len(in.Answers))
	for i, a := range in.Answers {
		a.SelectedOption = NormalizeOption(a.SelectedOption)
		a.CorrectOption = NormalizeOption(a.CorrectOption)
		if !IsOptionLabel(a.CorrectOption) {
			return ResultInput{}, fmt.Errorf("%w: %w: correct option %q for question %d",
				ErrInvalidResult, ErrInvalidOption, a.CorrectOption, a.QuestionID)
		}
		if a.SelectedOption != "" && !IsOptionLabel(a.SelectedOption) {
			return ResultInput{}, fmt.Errorf("%w: %w: selected option %q for question %d",
				ErrInvalidResult, ErrInvalidOption, a.SelectedOption, a.QuestionID)
		}
		a.IsCorrect = a.SelectedOption == a.CorrectOption
		answers[i] = a
	}

	out := in
	out.Answers = answers
	if out.StudentID == 0 {
		out.StudentID = DefaultStudentID
	}
	return out, nil
}
