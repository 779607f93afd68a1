package rules

import (
	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
)

// NonNegativeNumbers suggests a non-negativity constraint for numeric
// columns whose observed minimum is at least zero. Any observed negative
// value keeps the rule silent.
type NonNegativeNumbers struct{}

func (NonNegativeNumbers) Name() suggestion.RuleID {
	return suggestion.RuleNonNegativeNumbers
}

func (NonNegativeNumbers) Evaluate(p profile.ColumnProfile) []suggestion.Suggestion {
	// The numeric summary is only present when the dominant kind is
	// numeric, which scopes this rule.
	if p.Numeric == nil || p.Numeric.Min < 0 {
		return nil
	}
	return []suggestion.Suggestion{{
		Column: p.Column,
		Rule:   suggestion.RuleNonNegativeNumbers,
	}}
}
