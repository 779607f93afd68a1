package runner

import (
	"context"

	"github.com/google/uuid"

	"dqsuggest/domain/check"
	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
	"dqsuggest/internal"
	"dqsuggest/internal/compiler"
	"dqsuggest/internal/config"
	"dqsuggest/internal/errors"
	"dqsuggest/internal/profiler"
	"dqsuggest/internal/rules"
	"dqsuggest/internal/verifier"
	"dqsuggest/ports"
)

// Config holds the knobs of one suggestion run.
type Config struct {
	// Columns restricts the run to a subset; empty means every declared
	// column. Requesting a column the dataset does not declare is a
	// configuration error surfaced before profiling.
	Columns []string

	// ExcludedColumns are dropped from the run after column resolution.
	ExcludedColumns []string

	// DisabledRules switches rules off by name. Unknown names are a
	// configuration error.
	DisabledRules []string

	// SplitRatio is the training fraction in (0,1). Zero disables the
	// train/test split and every suggestion goes unevaluated.
	SplitRatio float64

	// Seed drives the deterministic split assignment.
	Seed int64

	HistogramCap    int
	SketchThreshold int
}

// FromAppConfig maps the application configuration onto a run config.
func FromAppConfig(c config.SuggestionConfig) Config {
	return Config{
		ExcludedColumns: c.ExcludedColumns,
		DisabledRules:   c.DisabledRules,
		SplitRatio:      c.SplitRatio,
		Seed:            c.Seed,
		HistogramCap:    c.HistogramCap,
		SketchThreshold: c.SketchThreshold,
	}
}

// Report is the outcome of one suggestion run: the dataset profile for
// introspection plus every compiled suggestion, each optionally annotated
// with its hold-out verdict.
type Report struct {
	RunID       string                  `json:"run_id"`
	Profile     *profile.DatasetProfile `json:"profile"`
	Suggestions []suggestion.Evaluated  `json:"suggestions"`
}

// Export flattens the report into the externally consumable records.
func (r *Report) Export() []suggestion.ExportRecord {
	records := make([]suggestion.ExportRecord, 0, len(r.Suggestions))
	for _, ev := range r.Suggestions {
		records = append(records, ev.Export())
	}
	return records
}

// Runner orchestrates a suggestion run: optional train/test split,
// profiling of the training portion, rule application, compilation, and
// hold-out verification of the compiled constraints.
type Runner struct {
	registry *rules.Registry
	logger   *internal.Logger
}

// New creates a runner. A nil registry means the default rule catalog.
func New(registry *rules.Registry, logger *internal.Logger) *Runner {
	if registry == nil {
		registry = rules.DefaultRegistry()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Runner{registry: registry, logger: logger}
}

// Run executes the suggestion flow against a dataset.
func (r *Runner) Run(ctx context.Context, ds ports.Dataset, cfg Config) (*Report, error) {
	columns, err := resolveColumns(ds, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.SplitRatio != 0 && (cfg.SplitRatio <= 0 || cfg.SplitRatio >= 1) {
		return nil, errors.ConfigInvalidf("train/test split ratio must be in (0,1), got %v", cfg.SplitRatio)
	}

	registry, err := r.registry.Without(cfg.DisabledRules)
	if err != nil {
		return nil, err
	}

	// Narrow the dataset before splitting so excluded columns never reach
	// the profiler or the hold-out verifier.
	train := ds.Select(columns)
	var holdout ports.Dataset
	if cfg.SplitRatio != 0 {
		train, holdout = train.Split(cfg.SplitRatio, cfg.Seed)
		r.logger.Debug("split dataset with ratio %v seed %d", cfg.SplitRatio, cfg.Seed)
	}

	prof, err := r.profiler(cfg).Profile(ctx, train, columns)
	if err != nil {
		return nil, err
	}
	r.logger.Info("profiled %d columns over %d rows", len(prof.ColumnOrder), prof.RowCount)

	suggestions := registry.Apply(prof)

	evaluated, err := compiler.CompileAll(suggestions)
	if err != nil {
		return nil, err
	}

	if holdout != nil && len(evaluated) > 0 {
		if err := r.evaluateHoldOut(ctx, holdout, evaluated); err != nil {
			return nil, err
		}
	}

	return &Report{
		RunID:       uuid.NewString(),
		Profile:     prof,
		Suggestions: evaluated,
	}, nil
}

// ProfileOnly runs the profiler without suggestion, for standalone
// introspection of a dataset.
func (r *Runner) ProfileOnly(ctx context.Context, ds ports.Dataset, cfg Config) (*profile.DatasetProfile, error) {
	columns, err := resolveColumns(ds, cfg)
	if err != nil {
		return nil, err
	}
	return r.profiler(cfg).Profile(ctx, ds.Select(columns), columns)
}

func (r *Runner) profiler(cfg Config) *profiler.Profiler {
	return profiler.New(profiler.Config{
		HistogramCap:    cfg.HistogramCap,
		SketchThreshold: cfg.SketchThreshold,
	})
}

// evaluateHoldOut verifies every compiled constraint against the held-out
// split and attaches the per-constraint verdicts to the suggestions.
func (r *Runner) evaluateHoldOut(ctx context.Context, holdout ports.Dataset, evaluated []suggestion.Evaluated) error {
	constraints := make([]check.Constraint, len(evaluated))
	for i, ev := range evaluated {
		constraints[i] = ev.Constraint
	}

	result, err := verifier.New().Run(ctx, holdout, []check.Check{{
		Name:        "hold-out evaluation",
		Level:       check.LevelWarning,
		Constraints: constraints,
	}})
	if err != nil {
		return errors.Wrap(err, "hold-out verification failed")
	}

	outcomes := result.Checks[0].Constraints
	for i := range evaluated {
		evaluated[i].HoldOut = &suggestion.HoldOutOutcome{
			Status:  outcomes[i].Status,
			Metric:  outcomes[i].Metric,
			Message: outcomes[i].Message,
		}
	}
	return nil
}

// resolveColumns validates requested columns against the dataset and
// applies exclusions, preserving the dataset's column order.
func resolveColumns(ds ports.Dataset, cfg Config) ([]string, error) {
	declared := ds.Columns()
	known := make(map[string]bool, len(declared))
	for _, c := range declared {
		known[c] = true
	}

	for _, c := range cfg.Columns {
		if !known[c] {
			return nil, errors.ConfigInvalidf("requested column %q does not exist in the dataset", c)
		}
	}

	requested := cfg.Columns
	if len(requested) == 0 {
		requested = declared
	}

	excluded := make(map[string]bool, len(cfg.ExcludedColumns))
	for _, c := range cfg.ExcludedColumns {
		excluded[c] = true
	}

	columns := make([]string, 0, len(requested))
	for _, c := range requested {
		if !excluded[c] {
			columns = append(columns, c)
		}
	}
	return columns, nil
}
