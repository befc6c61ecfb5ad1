package postgres

import (
	"context"
	"database/sql"

	"userlookup/internal/model"
	"userlookup/internal/repository"
)

// LookupPostgres is a PostgreSQL implementation of repository.LookupRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type LookupPostgres struct {
	db *sql.DB
}

// NewLookupPostgres creates a new LookupPostgres repository.
func NewLookupPostgres(db *sql.DB) *LookupPostgres {
	return &LookupPostgres{db: db}
}

var _ repository.LookupRepository = (*LookupPostgres)(nil)

// Create inserts a lookup row.
func (r *LookupPostgres) Create(ctx context.Context, l *model.Lookup) error {
	const q = `
		INSERT INTO lookups (id, user_id, outcome, status, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		l.ID,
		l.Identifier,
		string(l.Outcome),
		l.Status,
		l.DurationMs,
		l.CreatedAt,
	)
	return err
}

// Recent returns the newest lookups first.
func (r *LookupPostgres) Recent(ctx context.Context, limit int) ([]model.Lookup, error) {
	const q = `
		SELECT id, user_id, outcome, status, duration_ms, created_at
		FROM lookups
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Lookup, 0)
	for rows.Next() {
		var (
			l       model.Lookup
			outcome string
		)
		if err := rows.Scan(
			&l.ID,
			&l.Identifier,
			&outcome,
			&l.Status,
			&l.DurationMs,
			&l.CreatedAt,
		); err != nil {
			return nil, err
		}
		l.Outcome = model.Outcome(outcome)
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
