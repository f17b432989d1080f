package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

const englishModuleJSON = `{
	"id": "6",
	"title": "Day 1",
	"date": "2025-01-06",
	"class_name": "Class 5",
	"subjects": [{
		"id": 101,
		"name": "English",
		"order_index": 1,
		"theory_pages": [
			{"id": 1001, "page_number": 1, "content": "Nouns"},
			{"id": 1002, "page_number": 2, "content": "Verbs"}
		],
		"questions": [
			{"id": 5001, "question_text": "Pick the noun", "options": {"a": "cat", "b": "run", "c": "the", "d": "fast"}, "correct_answer": "A"},
			{"id": 5002, "question_text": "Pick the verb", "options": {"a": "dog", "b": "run", "c": "house", "d": "blue"}, "correct_answer": "b"}
		]
	}]
}`

func TestModuleDocumentDecodesMixedIDs(t *testing.T) {
	var doc ModuleDocument
	if err := json.Unmarshal([]byte(englishModuleJSON), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.ID != 6 {
		t.Fatalf("expected module id 6, got %d", doc.ID)
	}
	if len(doc.Subjects) != 1 || doc.Subjects[0].ID != 101 {
		t.Fatalf("unexpected subjects: %+v", doc.Subjects)
	}
	if doc.Subjects[0].Questions[0].Options.A != "cat" {
		t.Fatalf("expected option a to be cat, got %q", doc.Subjects[0].Questions[0].Options.A)
	}

	doc.Normalize()
	if err := doc.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := doc.Subjects[0].Questions[0].CorrectAnswer; got != "a" {
		t.Fatalf("expected normalized answer a, got %q", got)
	}
}

func TestIDRejectsNonNumericString(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`"abc"`), &id); err == nil {
		t.Fatalf("expected error for non numeric id")
	}
}

func TestValidateRejectsMalformedDocuments(t *testing.T) {
	cases := map[string]func(d *ModuleDocument){
		"missing module id": func(d *ModuleDocument) { d.ID = 0 },
		"missing subject id": func(d *ModuleDocument) { d.Subjects[0].ID = 0 },
		"missing page id": func(d *ModuleDocument) { d.Subjects[0].TheoryPages[1].ID = 0 },
		"missing question id": func(d *ModuleDocument) { d.Subjects[0].Questions[0].ID = 0 },
		"bad correct answer": func(d *ModuleDocument) { d.Subjects[0].Questions[0].CorrectAnswer = "e" },
		"duplicate page number": func(d *ModuleDocument) { d.Subjects[0].TheoryPages[1].PageNumber = 1 },
		"duplicate order index": func(d *ModuleDocument) {
			d.Subjects = append(d.Subjects, SubjectDocument{ID: 102, Name: "Math", OrderIndex: 1})
		},
		"duplicate subject id": func(d *ModuleDocument) {
			d.Subjects = append(d.Subjects, SubjectDocument{ID: 101, Name: "Math", OrderIndex: 2})
		},
		"duplicate page id": func(d *ModuleDocument) { d.Subjects[0].TheoryPages[1].ID = 1001 },
		"duplicate question id": func(d *ModuleDocument) { d.Subjects[0].Questions[1].ID = 5001 },
		"question shared by two subjects": func(d *ModuleDocument) {
			d.Subjects = append(d.Subjects, SubjectDocument{
				ID: 102, Name: "Math", OrderIndex: 2,
				Questions: []QuestionDocument{{ID: 5001, QuestionText: "2+2", CorrectAnswer: "b"}},
			})
		},
		"page shared by two subjects": func(d *ModuleDocument) {
			d.Subjects = append(d.Subjects, SubjectDocument{
				ID: 102, Name: "Math", OrderIndex: 2,
				TheoryPages: []PageDocument{{ID: 1002, PageNumber: 1, Content: "Sums"}},
			})
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			var doc ModuleDocument
			if err := json.Unmarshal([]byte(englishModuleJSON), &doc); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			doc.Normalize()
			mutate(&doc)
			err := doc.Validate()
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("expected ErrMalformedDocument, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsModuleWithoutSubjects(t *testing.T) {
	doc := ModuleDocument{ID: 9, Title: "Empty"}
	if err := doc.Validate(); err != nil {
		t.Fatalf("expected empty module to be valid, got %v", err)
	}
}
