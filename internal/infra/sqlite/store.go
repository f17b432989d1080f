package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"student-app/internal/domain"
)

// DefaultPath is the store file used when none is configured.
const DefaultPath = "studentApp.db"

// Store is the local file-backed store for modules, subjects, pages, questions and
// quiz results. It is opened once per process and closed on shutdown.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

// Open opens (creating if needed) the store at path and initializes the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	return OpenWithClock(ctx, path, time.Now)
}

// OpenWithClock is Open with an injectable clock for result timestamps.
func OpenWithClock(ctx context.Context, path string, now func() time.Time) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}

	sqldb, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorageFailure, path, err)
	}
	// One connection: the app has a single writer and reader context.
	sqldb.SetMaxOpenConns(1)

	store := &Store{
		db:  bun.NewDB(sqldb, sqlitedialect.New()),
		now: now,
	}
	if err := store.InitSchema(ctx); err != nil {
		_ = store.db.Close()
		return nil, err
	}
	return store, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (s *Store) Close() error {
	return s.db.Close()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageFailure, op, err)
}
