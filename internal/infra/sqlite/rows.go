package sqlite

import (
	"time"

	"github.com/uptrace/bun"

	"student-app/internal/domain"
)

// createdAtLayout is fixed width so string order matches chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type moduleRow struct {
	bun.BaseModel `bun:"table:modules"`

	ID        int64  `bun:"id,pk"`
	Title     string `bun:"title"`
	Date      string `bun:"date"`
	ClassName string `bun:"class_name"`
}

type subjectRow struct {
	bun.BaseModel `bun:"table:subjects"`

	ID         int64  `bun:"id,pk"`
	ModuleID   int64  `bun:"module_id"`
	Name       string `bun:"name"`
	OrderIndex int    `bun:"order_index"`
}

type theoryPageRow struct {
	bun.BaseModel `bun:"table:theory_pages"`

	ID         int64  `bun:"id,pk"`
	SubjectID  int64  `bun:"subject_id"`
	PageNumber int    `bun:"page_number"`
	Content    string `bun:"content"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID            int64  `bun:"id,pk"`
	SubjectID     int64  `bun:"subject_id"`
	QuestionText  string `bun:"question_text"`
	OptionA       string `bun:"option_a"`
	OptionB       string `bun:"option_b"`
	OptionC       string `bun:"option_c"`
	OptionD       string `bun:"option_d"`
	CorrectAnswer string `bun:"correct_answer"`
}

type resultRow struct {
	bun.BaseModel `bun:"table:results"`

	ID             int64  `bun:"id,pk,autoincrement"`
	StudentID      int64  `bun:"student_id"`
	ModuleID       int64  `bun:"module_id"`
	SubjectID      int64  `bun:"subject_id"`
	Answers        string `bun:"answers"`
	Score          int    `bun:"score"`
	TotalQuestions int    `bun:"total_questions"`
	Completed      bool   `bun:"completed"`
	Synced         bool   `bun:"synced"`
	CreatedAt      string `bun:"created_at"`
}

// resultViewRow is a results row joined with subject and module names.
type resultViewRow struct {
	resultRow
	SubjectName *string `bun:"subject_name"`
	ModuleTitle *string `bun:"module_title"`
}

type subjectProgressRow struct {
	ID         int64  `bun:"id"`
	Name       string `bun:"name"`
	OrderIndex int    `bun:"order_index"`
	Completed  bool   `bun:"completed"`
}

func (r moduleRow) toDomain() domain.Module {
	return domain.Module{ID: domain.ID(r.ID), Title: r.Title, Date: r.Date, ClassName: r.ClassName}
}

func (r subjectRow) toDomain() domain.Subject {
	return domain.Subject{ID: domain.ID(r.ID), ModuleID: domain.ID(r.ModuleID), Name: r.Name, OrderIndex: r.OrderIndex}
}

func (r theoryPageRow) toDomain() domain.TheoryPage {
	return domain.TheoryPage{ID: domain.ID(r.ID), SubjectID: domain.ID(r.SubjectID), PageNumber: r.PageNumber, Content: r.Content}
}

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:           domain.ID(r.ID),
		SubjectID:    domain.ID(r.SubjectID),
		QuestionText: r.QuestionText,
		Options: domain.Options{
			A: r.OptionA,
			B: r.OptionB,
			C: r.OptionC,
			D: r.OptionD,
		},
		CorrectAnswer: r.CorrectAnswer,
	}
}

func (r resultRow) toDomain() (domain.Result, error) {
	answers, err := domain.DecodeAnswers(r.Answers)
	if err != nil {
		return domain.Result{}, err
	}
	createdAt, err := time.Parse(createdAtLayout, r.CreatedAt)
	if err != nil {
		// Accept any RFC 3339 timestamp, e.g. millisecond precision.
		createdAt, err = time.Parse(time.RFC3339Nano, r.CreatedAt)
		if err != nil {
			return domain.Result{}, err
		}
	}
	return domain.Result{
		ID:             r.ID,
		StudentID:      r.StudentID,
		ModuleID:       domain.ID(r.ModuleID),
		SubjectID:      domain.ID(r.SubjectID),
		Answers:        answers,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Completed:      r.Completed,
		Synced:         r.Synced,
		CreatedAt:      createdAt.UTC(),
	}, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
