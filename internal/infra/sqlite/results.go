package sqlite

import (
	"context"

	"student-app/internal/domain"
)

// RecordResult appends one completed quiz attempt and returns its id. Results are never
// updated or deduplicated; every call that passes validation inserts a new row.
func (s *Store) RecordResult(ctx context.Context, in domain.ResultInput) (int64, error) {
	in, err := in.Normalize()
	if err != nil {
		return 0, err
	}
	answers, err := domain.EncodeAnswers(in.Answers)
	if err != nil {
		return 0, err
	}

	row := resultRow{
		StudentID:      in.StudentID,
		ModuleID:       int64(in.ModuleID),
		SubjectID:      int64(in.SubjectID),
		Answers:        answers,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		Completed:      true,
		Synced:         false,
		CreatedAt:      s.now().UTC().Format(createdAtLayout),
	}
	res, err := s.db.NewInsert().Model(&row).Exec(ctx)
	if err != nil {
		return 0, storageErr("record result", err)
	}
	if row.ID == 0 {
		id, err := res.LastInsertId()
		if err != nil {
			return 0, storageErr("record result", err)
		}
		row.ID = id
	}
	return row.ID, nil
}

// GetResultsForSubject returns every attempt for a subject, most recent first, with the
// subject name and module title attached. No attempts yields an empty slice.
func (s *Store) GetResultsForSubject(ctx context.Context, subjectID domain.ID) ([]domain.ResultView, error) {
	var rows []resultViewRow
	err := s.db.NewSelect().
		TableExpr("results AS r").
		ColumnExpr("r.*").
		ColumnExpr("s.name AS subject_name").
		ColumnExpr("m.title AS module_title").
		Join("LEFT JOIN subjects AS s ON s.id = r.subject_id").
		Join("LEFT JOIN modules AS m ON m.id = r.module_id").
		Where("r.subject_id = ?", int64(subjectID)).
		OrderExpr("r.created_at DESC, r.id DESC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, storageErr("results for subject", err)
	}

	views := make([]domain.ResultView, 0, len(rows))
	for _, row := range rows {
		result, err := row.resultRow.toDomain()
		if err != nil {
			return nil, storageErr("decode result", err)
		}
		views = append(views, domain.ResultView{
			Result:      result,
			SubjectName: derefString(row.SubjectName),
			ModuleTitle: derefString(row.ModuleTitle),
		})
	}
	return views, nil
}
