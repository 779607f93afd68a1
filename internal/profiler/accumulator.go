package profiler

import (
	"github.com/montanaflynn/stats"

	"dqsuggest/domain/profile"
	"dqsuggest/internal/errors"
	"dqsuggest/internal/sketch"
	"dqsuggest/ports"
)

// Accumulator aggregates one column's statistics incrementally. Partial
// accumulators built over disjoint row ranges merge associatively and
// commutatively into the same result as a single sequential pass, which is
// what lets the scan be parallelized by an execution substrate.
type Accumulator struct {
	column string
	cfg    Config

	rows       int64
	nulls      int64
	typeCounts profile.TypeHistogram
	numeric    []float64

	// hist keeps exact value frequencies until the cap is exceeded, after
	// which it is dropped for good (value-range rules then stay silent).
	hist         map[string]int64
	histDisabled bool

	// distinct keeps the exact value set until it outgrows the sketch
	// threshold; the sketch runs alongside from the start so the switch
	// loses nothing.
	distinct map[string]struct{}
	sketch   *sketch.HyperLogLog
}

// NewAccumulator creates an empty accumulator for a column.
func NewAccumulator(column string, cfg Config) *Accumulator {
	return &Accumulator{
		column:     column,
		cfg:        cfg,
		typeCounts: make(profile.TypeHistogram),
		hist:       make(map[string]int64),
		distinct:   make(map[string]struct{}),
		sketch:     sketch.NewHyperLogLog(cfg.SketchPrecision),
	}
}

// Observe folds one cell into the accumulator.
func (a *Accumulator) Observe(cell ports.Cell) {
	a.rows++
	if cell.Null {
		a.nulls++
		return
	}

	kind := Classify(cell.Raw)
	a.typeCounts[kind]++

	if kind.IsNumeric() {
		if v, ok := NumericValue(cell.Raw); ok {
			a.numeric = append(a.numeric, v)
		}
	}

	a.sketch.Add(cell.Raw)

	if !a.histDisabled {
		a.hist[cell.Raw]++
		if len(a.hist) > a.cfg.HistogramCap {
			a.hist = nil
			a.histDisabled = true
		}
	}

	if a.distinct != nil {
		a.distinct[cell.Raw] = struct{}{}
		if len(a.distinct) > a.cfg.SketchThreshold {
			a.distinct = nil
		}
	}
}

// Merge folds another accumulator for the same column into this one.
func (a *Accumulator) Merge(b *Accumulator) error {
	if a.column != b.column {
		return errors.Internalf("cannot merge accumulators for columns %q and %q", a.column, b.column)
	}

	a.rows += b.rows
	a.nulls += b.nulls
	for kind, n := range b.typeCounts {
		a.typeCounts[kind] += n
	}
	a.numeric = append(a.numeric, b.numeric...)

	if err := a.sketch.Merge(b.sketch); err != nil {
		return err
	}

	if a.histDisabled || b.histDisabled {
		a.hist = nil
		a.histDisabled = true
	} else {
		for v, n := range b.hist {
			a.hist[v] += n
		}
		if len(a.hist) > a.cfg.HistogramCap {
			a.hist = nil
			a.histDisabled = true
		}
	}

	if a.distinct == nil || b.distinct == nil {
		a.distinct = nil
	} else {
		for v := range b.distinct {
			a.distinct[v] = struct{}{}
		}
		if len(a.distinct) > a.cfg.SketchThreshold {
			a.distinct = nil
		}
	}

	return nil
}

// Finish materializes the accumulated state into an immutable profile.
func (a *Accumulator) Finish() (profile.ColumnProfile, error) {
	p := profile.ColumnProfile{
		Column:     a.column,
		SampleSize: a.rows,
		NullCount:  a.nulls,
		TypeCounts: a.typeCounts,
	}

	if a.rows > 0 {
		p.Completeness = 1 - float64(a.nulls)/float64(a.rows)
	} else {
		p.Completeness = 1
	}

	p.InferredType = DominantKind(a.typeCounts)

	if a.distinct != nil {
		p.ApproxDistinct = int64(len(a.distinct))
		p.DistinctExact = true
	} else {
		p.ApproxDistinct = a.sketch.Estimate()
	}

	if p.InferredType.IsNumeric() && len(a.numeric) > 0 {
		summary, err := numericSummary(a.numeric)
		if err != nil {
			return profile.ColumnProfile{}, errors.Wrapf(err, "numeric summary for column %q", a.column)
		}
		p.Numeric = summary
	}

	if !a.histDisabled && len(a.hist) > 0 {
		p.Histogram = a.hist
	}

	return p, nil
}

func numericSummary(values []float64) (*profile.NumericSummary, error) {
	data := stats.Float64Data(values)

	min, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return nil, err
	}

	return &profile.NumericSummary{
		Min:    min,
		Max:    max,
		Mean:   mean,
		StdDev: stdDev,
	}, nil
}
