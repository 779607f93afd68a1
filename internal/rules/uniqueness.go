package rules

import (
	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
)

// UniqueIfApproximatelyUnique suggests a uniqueness constraint when the
// distinct count matches the non-null row count. The distinct count may be
// a sketch estimate, so estimated counts get a tolerance matching the
// sketch's standard error; exact counts must match exactly.
type UniqueIfApproximatelyUnique struct{}

// estimateTolerance absorbs HyperLogLog error at the default precision
// (~1.6% standard error).
const estimateTolerance = 0.02

func (UniqueIfApproximatelyUnique) Name() suggestion.RuleID {
	return suggestion.RuleUniqueIfApproximatelyUnique
}

func (UniqueIfApproximatelyUnique) Evaluate(p profile.ColumnProfile) []suggestion.Suggestion {
	nonNull := p.NonNullCount()
	if nonNull == 0 {
		return nil
	}

	ratio := float64(p.ApproxDistinct) / float64(nonNull)
	unique := false
	if p.DistinctExact {
		unique = p.ApproxDistinct == nonNull
	} else {
		unique = ratio >= 1-estimateTolerance && ratio <= 1+estimateTolerance
	}
	if !unique {
		return nil
	}

	return []suggestion.Suggestion{{
		Column: p.Column,
		Rule:   suggestion.RuleUniqueIfApproximatelyUnique,
	}}
}
