package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates GIN indexes ent's schema-derived migrations
// don't cover: full-text search over trigger conditions, and JSONB
// containment queries over step params (for tooling that needs to find
// every step referencing a given action field without a full table scan).
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_triggers_condition_expression_gin
		ON triggers USING gin(to_tsvector('english', condition_expression))`)
	if err != nil {
		return fmt.Errorf("failed to create condition_expression GIN index: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_steps_params_gin
		ON steps USING gin(params jsonb_path_ops)`)
	if err != nil {
		return fmt.Errorf("failed to create step params GIN index: %w", err)
	}

	return nil
}
