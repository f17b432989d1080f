package sqlite

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS modules (
		id INTEGER PRIMARY KEY NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		class_name TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS subjects (
		id INTEGER PRIMARY KEY NOT NULL,
		module_id INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE IF NOT EXISTS theory_pages (
		id INTEGER PRIMARY KEY NOT NULL,
		subject_id INTEGER NOT NULL,
		page_number INTEGER NOT NULL DEFAULT 0,
		content TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY NOT NULL,
		subject_id INTEGER NOT NULL,
		question_text TEXT NOT NULL DEFAULT '',
		option_a TEXT NOT NULL DEFAULT '',
		option_b TEXT NOT NULL DEFAULT '',
		option_c TEXT NOT NULL DEFAULT '',
		option_d TEXT NOT NULL DEFAULT '',
		correct_answer TEXT NOT NULL
	);`,
	// AUTOINCREMENT keeps result ids monotonic and never reused.
	`CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id INTEGER NOT NULL DEFAULT 1,
		module_id INTEGER NOT NULL,
		subject_id INTEGER NOT NULL,
		answers TEXT NOT NULL,
		score INTEGER NOT NULL,
		total_questions INTEGER NOT NULL,
		completed INTEGER NOT NULL DEFAULT 1,
		synced INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_subjects_module ON subjects(module_id, order_index);`,
	`CREATE INDEX IF NOT EXISTS idx_theory_pages_subject ON theory_pages(subject_id, page_number);`,
	`CREATE INDEX IF NOT EXISTS idx_questions_subject ON questions(subject_id);`,
	`CREATE INDEX IF NOT EXISTS idx_results_subject_created ON results(subject_id, created_at);`,
}

// InitSchema creates every relation and index that is absent. Running it against an
// initialized store is a no-op.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return storageErr("init schema", err)
		}
	}
	return nil
}
