package rules

import (
	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
)

// CompleteIfComplete suggests a non-null constraint for columns observed
// with no missing values. Mutually exclusive with RetainCompleteness.
type CompleteIfComplete struct{}

func (CompleteIfComplete) Name() suggestion.RuleID {
	return suggestion.RuleCompleteIfComplete
}

func (CompleteIfComplete) Evaluate(p profile.ColumnProfile) []suggestion.Suggestion {
	if p.SampleSize == 0 || p.NullCount != 0 {
		return nil
	}
	return []suggestion.Suggestion{{
		Column: p.Column,
		Rule:   suggestion.RuleCompleteIfComplete,
	}}
}

// RetainCompleteness suggests a completeness lower bound for columns with
// missing values, set to the observed completeness rounded down to two
// decimal places so the constraint keeps holding under small drift.
type RetainCompleteness struct{}

func (RetainCompleteness) Name() suggestion.RuleID {
	return suggestion.RuleRetainCompleteness
}

func (RetainCompleteness) Evaluate(p profile.ColumnProfile) []suggestion.Suggestion {
	if p.SampleSize == 0 || p.NullCount == 0 {
		return nil
	}
	threshold := floorTwoDecimals(p.Completeness)
	if threshold <= 0 {
		// Entirely (or almost entirely) null columns carry no retainable
		// completeness level.
		return nil
	}
	return []suggestion.Suggestion{{
		Column:    p.Column,
		Rule:      suggestion.RuleRetainCompleteness,
		Threshold: threshold,
	}}
}
