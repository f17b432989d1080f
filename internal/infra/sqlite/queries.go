package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"student-app/internal/domain"
)

// GetModuleProgress derives completion state for a module from stored results. A subject
// counts as completed when at least one completed result exists for it.
func (s *Store) GetModuleProgress(ctx context.Context, moduleID domain.ID) (domain.ModuleProgress, error) {
	var rows []subjectProgressRow
	err := s.db.NewSelect().
		TableExpr("subjects AS s").
		ColumnExpr("s.id, s.name, s.order_index").
		ColumnExpr("EXISTS (SELECT 1 FROM results AS r WHERE r.subject_id = s.id AND r.completed = 1) AS completed").
		Where("s.module_id = ?", int64(moduleID)).
		OrderExpr("s.order_index ASC, s.id ASC").
		Scan(ctx, &rows)
	if err != nil {
		return domain.ModuleProgress{}, storageErr("module progress", err)
	}

	subjects := make([]domain.SubjectProgress, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, domain.SubjectProgress{
			SubjectID:  domain.ID(row.ID),
			Name:       row.Name,
			OrderIndex: row.OrderIndex,
			Completed:  row.Completed,
		})
	}
	return domain.NewModuleProgress(moduleID, subjects), nil
}

func (s *Store) GetModule(ctx context.Context, moduleID domain.ID) (domain.Module, error) {
	var row moduleRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", int64(moduleID)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Module{}, domain.ErrNotFound
		}
		return domain.Module{}, storageErr("get module", err)
	}
	return row.toDomain(), nil
}

// GetSubject returns one subject, or domain.ErrNotFound.
func (s *Store) GetSubject(ctx context.Context, subjectID domain.ID) (domain.Subject, error) {
	var row subjectRow
	err := s.db.NewSelect().Model(&row).Where("id = ?", int64(subjectID)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Subject{}, domain.ErrNotFound
		}
		return domain.Subject{}, storageErr("get subject", err)
	}
	return row.toDomain(), nil
}

// ListSubjects returns the subjects of a module in display order.
func (s *Store) ListSubjects(ctx context.Context, moduleID domain.ID) ([]domain.Subject, error) {
	var rows []subjectRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("module_id = ?", int64(moduleID)).
		OrderExpr("order_index ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, storageErr("list subjects", err)
	}
	subjects := make([]domain.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.toDomain())
	}
	return subjects, nil
}

// GetTheoryPages returns a subject's pages ordered by page number.
func (s *Store) GetTheoryPages(ctx context.Context, subjectID domain.ID) ([]domain.TheoryPage, error) {
	var rows []theoryPageRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("subject_id = ?", int64(subjectID)).
		OrderExpr("page_number ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, storageErr("theory pages", err)
	}
	pages := make([]domain.TheoryPage, 0, len(rows))
	for _, row := range rows {
		pages = append(pages, row.toDomain())
	}
	return pages, nil
}

// GetQuestions returns a subject's quiz questions ordered by id.
func (s *Store) GetQuestions(ctx context.Context, subjectID domain.ID) ([]domain.Question, error) {
	var rows []questionRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("subject_id = ?", int64(subjectID)).
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, storageErr("questions", err)
	}
	questions := make([]domain.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, row.toDomain())
	}
	return questions, nil
}
