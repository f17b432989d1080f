package cli

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"student-app/internal/config"
	pgmigrations "student-app/internal/infra/postgres/migrations"
	"student-app/internal/infra/sqlite"
	"student-app/internal/logger"
)

// NewMigrateCmd creates the local schema and, when a content database is configured,
// applies its migrations.
func NewMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the local schema and migrate the content database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log := logger.Setup(cfg.Log.Level, cfg.Log.Format)
			return runMigrations(cmd.Context(), cfg, log)
		},
	}
}

func runMigrations(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	store, err := sqlite.Open(ctx, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	log.Info().Str("path", cfg.Store.Path).Msg("local schema ready")

	if cfg.Postgres.URL == "" {
		return nil
	}
	return migrateContentDB(ctx, cfg.Postgres.URL, log)
}

func migrateContentDB(ctx context.Context, dsn string, log zerolog.Logger) error {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info().Msg("content database up to date")
		return nil
	}
	log.Info().Str("group", group.String()).Msg("content migrations applied")
	return nil
}
