package rules

import (
	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
)

// RetainType suggests a data-type constraint when the dominant inferred
// kind of a raw string column is stricter than String. The dominant kind
// is the plurality bucket of the type histogram, ties broken by the
// Boolean > Integral > Fractional > String priority.
type RetainType struct{}

func (RetainType) Name() suggestion.RuleID {
	return suggestion.RuleRetainType
}

func (RetainType) Evaluate(p profile.ColumnProfile) []suggestion.Suggestion {
	if p.NonNullCount() == 0 {
		return nil
	}
	if p.InferredType == profile.KindString || p.InferredType == profile.KindUnknown {
		return nil
	}
	return []suggestion.Suggestion{{
		Column:   p.Column,
		Rule:     suggestion.RuleRetainType,
		DataType: p.InferredType,
	}}
}
