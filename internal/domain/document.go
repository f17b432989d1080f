package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ModuleDocument is the module payload served by the remote API:
//
//	{id, title, date, class_name, subjects: [{id, name, order_index,
//	  theory_pages: [{id, page_number, content}],
//	  questions: [{id, question_text, options: {a,b,c,d}, correct_answer}]}]}
type ModuleDocument struct {
	ID        ID                `json:"id" validate:"required"`
	Title     string            `json:"title"`
	Date      string            `json:"date"`
	ClassName string            `json:"class_name"`
	Subjects  []SubjectDocument `json:"subjects" validate:"unique=ID,unique=OrderIndex,dive"`
}

type SubjectDocument struct {
	ID          ID                 `json:"id" validate:"required"`
	Name        string             `json:"name"`
	OrderIndex  int                `json:"order_index"`
	TheoryPages []PageDocument     `json:"theory_pages" validate:"unique=ID,unique=PageNumber,dive"`
	Questions   []QuestionDocument `json:"questions" validate:"unique=ID,dive"`
}

type PageDocument struct {
	ID         ID     `json:"id" validate:"required"`
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

type QuestionDocument struct {
	ID            ID      `json:"id" validate:"required"`
	QuestionText  string  `json:"question_text"`
	Options       Options `json:"options"`
	CorrectAnswer string  `json:"correct_answer" validate:"required,oneof=a b c d"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func documentValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Normalize trims labels and lower-cases the correct answers in place.
func (d *ModuleDocument) Normalize() {
	for i := range d.Subjects {
		for j := range d.Subjects[i].Questions {
			q := &d.Subjects[i].Questions[j]
			q.CorrectAnswer = NormalizeOption(q.CorrectAnswer)
		}
	}
}

// Validate checks required identifiers and ordering constraints. Failures wrap
// ErrMalformedDocument.
func (d *ModuleDocument) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil document", ErrMalformedDocument)
	}
	if err := documentValidator().Struct(d); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]string, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrMalformedDocument, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return d.checkChildOwnership()
}

// checkChildOwnership rejects a page or question id listed under more than one subject;
// the rows are keyed by id, so the later subject would silently take it over.
func (d *ModuleDocument) checkChildOwnership() error {
	pages := make(map[ID]ID)
	questions := make(map[ID]ID)
	for _, s := range d.Subjects {
		for _, p := range s.TheoryPages {
			if owner, ok := pages[p.ID]; ok && owner != s.ID {
				return fmt.Errorf("%w: theory page %d listed under subjects %d and %d", ErrMalformedDocument, p.ID, owner, s.ID)
			}
			pages[p.ID] = s.ID
		}
		for _, q := range s.Questions {
			if owner, ok := questions[q.ID]; ok && owner != s.ID {
				return fmt.Errorf("%w: question %d listed under subjects %d and %d", ErrMalformedDocument, q.ID, owner, s.ID)
			}
			questions[q.ID] = s.ID
		}
	}
	return nil
}

// Module returns the module row described by the document.
func (d *ModuleDocument) Module() Module {
	return Module{ID: d.ID, Title: d.Title, Date: d.Date, ClassName: d.ClassName}
}

// NormalizeOption lower-cases and trims an option label.
func NormalizeOption(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// IsOptionLabel reports whether label is one of a, b, c, d.
func IsOptionLabel(label string) bool {
	switch label {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}
