package sqlite

import (
	"context"

	"github.com/uptrace/bun"

	"student-app/internal/domain"
)

// IngestModule upserts a fetched module and all of its subjects, theory pages and
// questions in a single transaction. A nil document is a no-op.
//
// Rows are written module -> subjects -> pages/questions and matched by id, so
// re-ingesting the same document leaves the store unchanged. Any failure rolls the whole
// document back; readers see either the previous version or the new one, never a mix.
func (s *Store) IngestModule(ctx context.Context, doc *domain.ModuleDocument) error {
	if doc == nil {
		return nil
	}
	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return err
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		module := moduleRow{
			ID:        int64(doc.ID),
			Title:     doc.Title,
			Date:      doc.Date,
			ClassName: doc.ClassName,
		}
		if _, err := tx.NewInsert().
			Model(&module).
			On("CONFLICT (id) DO UPDATE").
			Set("title = EXCLUDED.title").
			Set("date = EXCLUDED.date").
			Set("class_name = EXCLUDED.class_name").
			Exec(ctx); err != nil {
			return err
		}

		for _, subject := range doc.Subjects {
			if err := upsertSubject(ctx, tx, doc.ID, subject); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("ingest module "+doc.ID.String(), err)
	}
	return nil
}

func upsertSubject(ctx context.Context, tx bun.Tx, moduleID domain.ID, subject domain.SubjectDocument) error {
	row := subjectRow{
		ID:         int64(subject.ID),
		ModuleID:   int64(moduleID),
		Name:       subject.Name,
		OrderIndex: subject.OrderIndex,
	}
	if _, err := tx.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("module_id = EXCLUDED.module_id").
		Set("name = EXCLUDED.name").
		Set("order_index = EXCLUDED.order_index").
		Exec(ctx); err != nil {
		return err
	}

	if len(subject.TheoryPages) > 0 {
		pages := make([]theoryPageRow, 0, len(subject.TheoryPages))
		for _, p := range subject.TheoryPages {
			pages = append(pages, theoryPageRow{
				ID:         int64(p.ID),
				SubjectID:  int64(subject.ID),
				PageNumber: p.PageNumber,
				Content:    p.Content,
			})
		}
		if _, err := tx.NewInsert().
			Model(&pages).
			On("CONFLICT (id) DO UPDATE").
			Set("subject_id = EXCLUDED.subject_id").
			Set("page_number = EXCLUDED.page_number").
			Set("content = EXCLUDED.content").
			Exec(ctx); err != nil {
			return err
		}
	}

	if len(subject.Questions) > 0 {
		questions := make([]questionRow, 0, len(subject.Questions))
		for _, q := range subject.Questions {
			questions = append(questions, questionRow{
				ID:            int64(q.ID),
				SubjectID:     int64(subject.ID),
				QuestionText:  q.QuestionText,
				OptionA:       q.Options.A,
				OptionB:       q.Options.B,
				OptionC:       q.Options.C,
				OptionD:       q.Options.D,
				CorrectAnswer: q.CorrectAnswer,
			})
		}
		if _, err := tx.NewInsert().
			Model(&questions).
			On("CONFLICT (id) DO UPDATE").
			Set("subject_id = EXCLUDED.subject_id").
			Set("question_text = EXCLUDED.question_text").
			Set("option_a = EXCLUDED.option_a").
			Set("option_b = EXCLUDED.option_b").
			Set("option_c = EXCLUDED.option_c").
			Set("option_d = EXCLUDED.option_d").
			Set("correct_answer = EXCLUDED.correct_answer").
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
