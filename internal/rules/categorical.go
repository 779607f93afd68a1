package rules

import (
	"sort"

	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
)

// CategoricalRange suggests an is-contained-in constraint over the full
// observed value set. It fires only while the value histogram survived the
// distinct-count cap; columns above the cap get no value-range suggestion
// regardless of their data.
type CategoricalRange struct{}

func (CategoricalRange) Name() suggestion.RuleID {
	return suggestion.RuleCategoricalRange
}

func (CategoricalRange) Evaluate(p profile.ColumnProfile) []suggestion.Suggestion {
	if len(p.Histogram) == 0 {
		return nil
	}
	return []suggestion.Suggestion{{
		Column: p.Column,
		Rule:   suggestion.RuleCategoricalRange,
		Values: valuesByFrequency(p.Histogram),
	}}
}

// FractionalCategoricalRange suggests a partial value-range constraint:
// the smallest high-frequency value prefix covering at least 90% of
// non-null rows, asserted with a containment-ratio threshold instead of
// full containment. It stays silent when the prefix would be the whole
// value set, which CategoricalRange already covers.
type FractionalCategoricalRange struct{}

// targetCoverage is the share of non-null rows the retained value prefix
// must explain.
const targetCoverage = 0.9

func (FractionalCategoricalRange) Name() suggestion.RuleID {
	return suggestion.RuleFractionalCategoricalRange
}

func (FractionalCategoricalRange) Evaluate(p profile.ColumnProfile) []suggestion.Suggestion {
	if len(p.Histogram) < 2 {
		return nil
	}
	nonNull := p.NonNullCount()
	if nonNull == 0 {
		return nil
	}

	values := valuesByFrequency(p.Histogram)

	var covered int64
	prefix := 0
	for _, v := range values {
		covered += p.Histogram[v]
		prefix++
		if float64(covered)/float64(nonNull) >= targetCoverage {
			break
		}
	}
	if prefix == len(values) {
		return nil
	}

	coverage := float64(covered) / float64(nonNull)
	return []suggestion.Suggestion{{
		Column:    p.Column,
		Rule:      suggestion.RuleFractionalCategoricalRange,
		Values:    values[:prefix],
		Threshold: floorTwoDecimals(coverage),
	}}
}

// valuesByFrequency orders histogram keys by descending count, then
// lexically, so suggestions stay deterministic across runs.
func valuesByFrequency(hist map[string]int64) []string {
	values := make([]string, 0, len(hist))
	for v := range hist {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if hist[values[i]] != hist[values[j]] {
			return hist[values[i]] > hist[values[j]]
		}
		return values[i] < values[j]
	})
	return values
}
