package profiler

import (
	"context"

	"dqsuggest/domain/profile"
	"dqsuggest/internal/errors"
	"dqsuggest/internal/sketch"
	"dqsuggest/ports"
)

// Config defines the profiling parameters.
type Config struct {
	// HistogramCap is the maximum distinct-value count for which the
	// exact value histogram is kept. Columns above the cap get no
	// value-range suggestions.
	HistogramCap int

	// SketchThreshold is the distinct-value count above which the exact
	// set is dropped and the cardinality estimate comes from the sketch.
	SketchThreshold int

	// SketchPrecision selects the HyperLogLog register count (2^p).
	SketchPrecision uint8
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		HistogramCap:    256,
		SketchThreshold: 10000,
		SketchPrecision: sketch.DefaultPrecision,
	}
}

// Profiler computes per-column statistical profiles from a tabular
// dataset. It is a pure function of the input data and its config; the
// dataset port owns all I/O.
type Profiler struct {
	cfg Config
}

// New creates a profiler with the given config.
func New(cfg Config) *Profiler {
	if cfg.HistogramCap <= 0 {
		cfg.HistogramCap = DefaultConfig().HistogramCap
	}
	if cfg.SketchThreshold <= 0 {
		cfg.SketchThreshold = DefaultConfig().SketchThreshold
	}
	return &Profiler{cfg: cfg}
}

// Profile scans the dataset once and produces a DatasetProfile for the
// requested columns (all declared columns when none are given). A zero-row
// dataset yields an empty but valid profile.
func (p *Profiler) Profile(ctx context.Context, ds ports.Dataset, columns []string) (*profile.DatasetProfile, error) {
	if len(columns) == 0 {
		columns = ds.Columns()
	}

	accs := p.NewAccumulators(columns)

	err := ds.Scan(ctx, func(row ports.Row) error {
		for _, acc := range accs {
			acc.Observe(row.Value(acc.column))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "dataset scan failed")
	}

	return FinishAccumulators(accs)
}

// NewAccumulators builds one empty accumulator per column, in column
// order. Callers running partitioned scans create one set per partition
// and merge them with MergeAccumulators.
func (p *Profiler) NewAccumulators(columns []string) []*Accumulator {
	accs := make([]*Accumulator, len(columns))
	for i, col := range columns {
		accs[i] = NewAccumulator(col, p.cfg)
	}
	return accs
}

// MergeAccumulators folds the right-hand accumulator set into the left,
// column by column. Both sets must cover the same columns in the same
// order.
func MergeAccumulators(into, from []*Accumulator) error {
	if len(into) != len(from) {
		return errors.Internalf("accumulator sets differ in size: %d vs %d", len(into), len(from))
	}
	for i := range into {
		if err := into[i].Merge(from[i]); err != nil {
			return err
		}
	}
	return nil
}

// FinishAccumulators materializes a DatasetProfile from accumulators.
func FinishAccumulators(accs []*Accumulator) (*profile.DatasetProfile, error) {
	dp := &profile.DatasetProfile{
		Columns:     make(map[string]profile.ColumnProfile, len(accs)),
		ColumnOrder: make([]string, 0, len(accs)),
	}
	for _, acc := range accs {
		col, err := acc.Finish()
		if err != nil {
			return nil, err
		}
		dp.Columns[col.Column] = col
		dp.ColumnOrder = append(dp.ColumnOrder, col.Column)
		if col.SampleSize > dp.RowCount {
			dp.RowCount = col.SampleSize
		}
	}
	return dp, nil
}
