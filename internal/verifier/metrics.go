package verifier

import (
	"fmt"
	"math"

	"dqsuggest/domain/check"
	"dqsuggest/domain/profile"
	"dqsuggest/internal/errors"
	"dqsuggest/internal/profiler"
	"dqsuggest/ports"
)

// metricAccumulator computes one constraint's metric incrementally during
// the single verification scan.
type metricAccumulator interface {
	observe(cell ports.Cell)
	value() float64
	name() string
}

func newAccumulator(c check.Constraint) (metricAccumulator, error) {
	switch c.Analyzer {
	case check.AnalyzerCompleteness:
		return &completenessAcc{}, nil
	case check.AnalyzerDataType:
		return &typeMatchAcc{expected: c.ExpectedType}, nil
	case check.AnalyzerMinimum:
		return &minimumAcc{min: math.Inf(1)}, nil
	case check.AnalyzerContainment:
		acc := &containmentAcc{allowed: make(map[string]bool, len(c.AllowedValues))}
		for _, v := range c.AllowedValues {
			acc.allowed[v] = true
		}
		return acc, nil
	case check.AnalyzerUniqueValueRatio:
		return &uniqueValueRatioAcc{counts: make(map[string]int64)}, nil
	}
	// Checks also arrive from callers (HTTP, CLI), so an unknown analyzer
	// must surface instead of being scored as some other metric.
	return nil, errors.InvalidInputf("unrecognized analyzer %q for column %q", c.Analyzer, c.Column)
}

// completenessAcc measures the non-null fraction.
type completenessAcc struct {
	rows    int64
	nonNull int64
}

func (a *completenessAcc) observe(cell ports.Cell) {
	a.rows++
	if !cell.Null {
		a.nonNull++
	}
}

func (a *completenessAcc) value() float64 {
	if a.rows == 0 {
		return 1
	}
	return float64(a.nonNull) / float64(a.rows)
}

func (a *completenessAcc) name() string { return "completeness" }

// typeMatchAcc measures the fraction of non-null values whose inferred
// kind satisfies the expected kind.
type typeMatchAcc struct {
	expected profile.ValueKind
	nonNull  int64
	matches  int64
}

func (a *typeMatchAcc) observe(cell ports.Cell) {
	if cell.Null {
		return
	}
	a.nonNull++
	if typeMatches(profiler.Classify(cell.Raw), a.expected) {
		a.matches++
	}
}

func (a *typeMatchAcc) value() float64 {
	if a.nonNull == 0 {
		return 1
	}
	return float64(a.matches) / float64(a.nonNull)
}

func (a *typeMatchAcc) name() string { return "data type match ratio" }

// typeMatches reports whether an observed kind satisfies an expected one.
// Integral values satisfy a Fractional expectation since every whole
// number is a valid decimal.
func typeMatches(observed, expected profile.ValueKind) bool {
	if observed == expected {
		return true
	}
	if expected == profile.KindFractional && observed == profile.KindIntegral {
		return true
	}
	if expected == profile.KindString && observed != profile.KindNull {
		return true
	}
	return false
}

// minimumAcc tracks the minimum over values that coerce to a number. With
// no numeric values the metric stays +Inf and lower-bound predicates pass
// vacuously.
type minimumAcc struct {
	min float64
}

func (a *minimumAcc) observe(cell ports.Cell) {
	if cell.Null {
		return
	}
	if v, ok := profiler.NumericValue(cell.Raw); ok && v < a.min {
		a.min = v
	}
}

func (a *minimumAcc) value() float64 { return a.min }

func (a *minimumAcc) name() string { return "minimum" }

// containmentAcc measures the fraction of non-null values inside the
// allowed set.
type containmentAcc struct {
	allowed map[string]bool
	nonNull int64
	in      int64
}

func (a *containmentAcc) observe(cell ports.Cell) {
	if cell.Null {
		return
	}
	a.nonNull++
	if a.allowed[cell.Raw] {
		a.in++
	}
}

func (a *containmentAcc) value() float64 {
	if a.nonNull == 0 {
		return 1
	}
	return float64(a.in) / float64(a.nonNull)
}

func (a *containmentAcc) name() string { return "containment ratio" }

// uniqueValueRatioAcc measures the fraction of non-null values occurring
// exactly once.
type uniqueValueRatioAcc struct {
	counts  map[string]int64
	nonNull int64
}

func (a *uniqueValueRatioAcc) observe(cell ports.Cell) {
	if cell.Null {
		return
	}
	a.nonNull++
	a.counts[cell.Raw]++
}

func (a *uniqueValueRatioAcc) value() float64 {
	if a.nonNull == 0 {
		return 1
	}
	var singletons int64
	for _, n := range a.counts {
		if n == 1 {
			singletons++
		}
	}
	return float64(singletons) / float64(a.nonNull)
}

func (a *uniqueValueRatioAcc) name() string { return "unique value ratio" }

// failureMessage instantiates the message template with the observed
// metric value.
func failureMessage(acc metricAccumulator, c check.Constraint, metric float64) string {
	return fmt.Sprintf("%s of %s is %v, expected %s", acc.name(), c.Column, metric, c.Predicate)
}
