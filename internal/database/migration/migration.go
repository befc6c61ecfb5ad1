package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_lookups",
		SQL: `CREATE TABLE IF NOT EXISTS lookups (
  id          UUID        PRIMARY KEY,
  user_id     TEXT        NOT NULL,
  outcome     TEXT        NOT NULL,
  status      INTEGER     NOT NULL DEFAULT 0,
  duration_ms BIGINT      NOT NULL DEFAULT 0 CHECK (duration_ms >= 0),
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_lookups_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups (created_at DESC);`,
	},
	{
		Name: "create_index_lookups_outcome",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_lookups_outcome ON lookups (outcome);`,
	},
}

// EnsureMigrated creates the lookups schema unless the table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	logger = logger.With("component", "database", "db_host", dbHost)

	logger.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.lookups') IS NOT NULL").Scan(&exists); err != nil {
		logger.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logger.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	logger.InfoContext(ctx, "db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logger.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logger.InfoContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	logger.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
