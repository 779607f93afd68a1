package ports

import (
	"context"

	"dqsuggest/domain/suggestion"
)

// SuggestionRun is the persisted shape of one suggestion run.
type SuggestionRun struct {
	RunID       string                    `db:"run_id" json:"run_id"`
	Source      string                    `db:"source" json:"source"`
	RowCount    int64                     `db:"row_count" json:"row_count"`
	Suggestions []suggestion.ExportRecord `json:"suggestions"`
}

// SuggestionRepository persists suggestion runs for later inspection or
// constraint registration. Persistence is an external collaborator; the
// core only ever hands over export records.
type SuggestionRepository interface {
	SaveRun(ctx context.Context, run SuggestionRun) error
	GetRun(ctx context.Context, runID string) (*SuggestionRun, error)
}
