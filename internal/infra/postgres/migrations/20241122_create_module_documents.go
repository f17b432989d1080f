package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createModuleDocumentsSQL = `
CREATE TABLE IF NOT EXISTS module_documents (
	id BIGINT PRIMARY KEY,
	data JSONB NOT NULL,
	published_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrations holds the content-database schema.
var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createModuleDocumentsSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS module_documents`)
			return err
		},
	)
}
