package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dqsuggest/domain/check"
	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
	"dqsuggest/internal/errors"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name            string
		in              suggestion.Suggestion
		wantAnalyzer    check.AnalyzerKind
		wantPredicate   check.Predicate
		wantDescription string
		wantCode        string
	}{
		{
			name:            "is complete",
			in:              suggestion.Suggestion{Column: "id", Rule: suggestion.RuleCompleteIfComplete},
			wantAnalyzer:    check.AnalyzerCompleteness,
			wantPredicate:   check.Predicate{Op: check.CompareGE, Threshold: 1},
			wantDescription: "'id' is not null",
			wantCode:        `isComplete("id")`,
		},
		{
			name:            "completeness threshold",
			in:              suggestion.Suggestion{Column: "opt", Rule: suggestion.RuleRetainCompleteness, Threshold: 0.75},
			wantAnalyzer:    check.AnalyzerCompleteness,
			wantPredicate:   check.Predicate{Op: check.CompareGE, Threshold: 0.75},
			wantDescription: "'opt' has less than 25% missing values",
			wantCode:        `hasCompleteness("opt", 0.75)`,
		},
		{
			name:            "data type",
			in:              suggestion.Suggestion{Column: "amount", Rule: suggestion.RuleRetainType, DataType: profile.KindFractional},
			wantAnalyzer:    check.AnalyzerDataType,
			wantPredicate:   check.Predicate{Op: check.CompareGE, Threshold: 1},
			wantDescription: "'amount' has type Fractional",
			wantCode:        `hasDataType("amount", Fractional)`,
		},
		{
			name:            "non-negative",
			in:              suggestion.Suggestion{Column: "qty", Rule: suggestion.RuleNonNegativeNumbers},
			wantAnalyzer:    check.AnalyzerMinimum,
			wantPredicate:   check.Predicate{Op: check.CompareGE, Threshold: 0},
			wantDescription: "'qty' has no negative values",
			wantCode:        `isNonNegative("qty")`,
		},
		{
			name: "value range",
			in: suggestion.Suggestion{
				Column: "status", Rule: suggestion.RuleCategoricalRange,
				Values: []string{"ACTIVE", "INACTIVE"},
			},
			wantAnalyzer:    check.AnalyzerContainment,
			wantPredicate:   check.Predicate{Op: check.CompareGE, Threshold: 1},
			wantDescription: "'status' has value range 'ACTIVE', 'INACTIVE'",
			wantCode:        `isContainedIn("status", []string{"ACTIVE", "INACTIVE"})`,
		},
		{
			name: "fractional value range",
			in: suggestion.Suggestion{
				Column: "code", Rule: suggestion.RuleFractionalCategoricalRange,
				Values: []string{"a", "b"}, Threshold: 0.93,
			},
			wantAnalyzer:    check.AnalyzerContainment,
			wantPredicate:   check.Predicate{Op: check.CompareGE, Threshold: 0.93},
			wantDescription: "'code' has value range 'a', 'b' for at least 93% of values",
			wantCode:        `isContainedIn("code", []string{"a", "b"}, 0.93)`,
		},
		{
			name:            "uniqueness",
			in:              suggestion.Suggestion{Column: "id", Rule: suggestion.RuleUniqueIfApproximatelyUnique},
			wantAnalyzer:    check.AnalyzerUniqueValueRatio,
			wantPredicate:   check.Predicate{Op: check.CompareGE, Threshold: 1},
			wantDescription: "'id' is unique",
			wantCode:        `isUnique("id")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.in
			c, err := Compile(&s)
			require.NoError(t, err)
			require.Equal(t, tt.wantAnalyzer, c.Analyzer)
			require.Equal(t, tt.wantPredicate, c.Predicate)
			require.Equal(t, tt.wantDescription, c.Description)
			require.Equal(t, tt.wantCode, s.Code)

			// The suggestion is annotated in place so exports carry the
			// same description and predicate as the constraint.
			require.Equal(t, c.Description, s.Description)
			require.Equal(t, c.Predicate, s.Predicate)
		})
	}
}

func TestCompileUnknownRule(t *testing.T) {
	s := suggestion.Suggestion{Column: "x", Rule: "NoSuchRule"}
	_, err := Compile(&s)
	require.True(t, errors.HasCode(err, errors.CodeInternal),
		"unknown rule should surface as an internal error, got %v", err)
}

func TestCompileAllStopsOnFirstError(t *testing.T) {
	in := []suggestion.Suggestion{
		{Column: "a", Rule: suggestion.RuleCompleteIfComplete},
		{Column: "b", Rule: "NoSuchRule"},
	}
	_, err := CompileAll(in)
	require.Error(t, err)
}
