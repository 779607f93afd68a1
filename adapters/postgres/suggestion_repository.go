package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"dqsuggest/domain/suggestion"
	"dqsuggest/internal/errors"
	"dqsuggest/ports"
)

// Schema creates the tables the repository needs.
const Schema = `
CREATE TABLE IF NOT EXISTS suggestion_runs (
	run_id      TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	row_count   BIGINT NOT NULL,
	suggestions JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// suggestionRepository implements the SuggestionRepository port on
// Postgres.
type suggestionRepository struct {
	db *sqlx.DB
}

// NewSuggestionRepository creates a suggestion-run repository.
func NewSuggestionRepository(db *sqlx.DB) ports.SuggestionRepository {
	return &suggestionRepository{db: db}
}

// Connect opens a Postgres connection and ensures the schema exists.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to postgres")
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ensure schema")
	}
	return db, nil
}

// SaveRun inserts one suggestion run.
func (r *suggestionRepository) SaveRun(ctx context.Context, run ports.SuggestionRun) error {
	payload, err := json.Marshal(run.Suggestions)
	if err != nil {
		return errors.Wrap(err, "failed to marshal suggestions")
	}

	query := `INSERT INTO suggestion_runs (run_id, source, row_count, suggestions)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, run.RunID, run.Source, run.RowCount, payload); err != nil {
		return &errors.AppError{Code: errors.CodeDatabase, Message: "failed to save suggestion run", Cause: err}
	}
	return nil
}

// GetRun retrieves a suggestion run by ID.
func (r *suggestionRepository) GetRun(ctx context.Context, runID string) (*ports.SuggestionRun, error) {
	query := `SELECT run_id, source, row_count, suggestions
		FROM suggestion_runs WHERE run_id = $1`

	var run ports.SuggestionRun
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, runID).Scan(&run.RunID, &run.Source, &run.RowCount, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("suggestion run not found: " + runID)
		}
		return nil, errors.Wrap(err, "failed to get suggestion run")
	}

	var records []suggestion.ExportRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal suggestions")
	}
	run.Suggestions = records

	return &run, nil
}
