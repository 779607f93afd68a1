package verifier

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"dqsuggest/adapters/memory"
	"dqsuggest/domain/check"
	"dqsuggest/domain/profile"
	"dqsuggest/internal/errors"
)

func TestRunNonNegativeFailure(t *testing.T) {
	// A negative value slips in; the constraint fails with the observed
	// minimum, and the check's level decides the overall status.
	ds := memory.FromRecords(
		[]string{"amount"},
		[][]string{{"3.5"}, {"0"}, {"-2.5"}, {"7"}},
	)

	constraint := check.Constraint{
		Column:      "amount",
		Analyzer:    check.AnalyzerMinimum,
		Predicate:   check.Predicate{Op: check.CompareGE, Threshold: 0},
		Description: "'amount' has no negative values",
	}

	tests := []struct {
		name       string
		level      check.Level
		wantStatus check.Status
	}{
		{"error level fails the run", check.LevelError, check.StatusError},
		{"warning level degrades the run", check.LevelWarning, check.StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := New().Run(context.Background(), ds, []check.Check{{
				Name:        "amount checks",
				Level:       tt.level,
				Constraints: []check.Constraint{constraint},
			}})
			require.NoError(t, err, "a failing constraint is an outcome, not an error")
			require.Equal(t, tt.wantStatus, result.Status)
			require.NotEmpty(t, result.RunID)

			cr := result.Checks[0].Constraints[0]
			require.Equal(t, check.ConstraintFailure, cr.Status)
			require.Equal(t, -2.5, cr.Metric)
			require.Contains(t, cr.Message, "minimum of amount is -2.5")
		})
	}
}

func TestRunEvaluatesEveryConstraint(t *testing.T) {
	ds := memory.FromRecords(
		[]string{"id", "status"},
		[][]string{
			{"1", "ACTIVE"},
			{"", "INACTIVE"},
			{"3", "RETIRED"},
		},
	)

	checks := []check.Check{{
		Name:  "core",
		Level: check.LevelError,
		Constraints: []check.Constraint{
			{
				Column:      "id",
				Analyzer:    check.AnalyzerCompleteness,
				Predicate:   check.Predicate{Op: check.CompareGE, Threshold: 1},
				Description: "'id' is not null",
			},
			{
				Column:        "status",
				Analyzer:      check.AnalyzerContainment,
				Predicate:     check.Predicate{Op: check.CompareGE, Threshold: 1},
				AllowedValues: []string{"ACTIVE", "INACTIVE"},
				Description:   "'status' has value range 'ACTIVE', 'INACTIVE'",
			},
		},
	}}

	result, err := New().Run(context.Background(), ds, checks)
	require.NoError(t, err)

	// The first constraint failing must not stop evaluation of the rest.
	require.Len(t, result.Checks[0].Constraints, 2)

	completeness := result.Checks[0].Constraints[0]
	require.Equal(t, check.ConstraintFailure, completeness.Status)
	require.InDelta(t, 2.0/3.0, completeness.Metric, 1e-9)

	containment := result.Checks[0].Constraints[1]
	require.Equal(t, check.ConstraintFailure, containment.Status)
	require.InDelta(t, 2.0/3.0, containment.Metric, 1e-9)
	require.True(t, strings.Contains(containment.Message, "containment ratio"))
}

func TestRunPassingChecks(t *testing.T) {
	ds := memory.FromRecords(
		[]string{"id", "kind"},
		[][]string{
			{"a1", "1"},
			{"a2", "2"},
			{"a3", "3.5"},
		},
	)

	checks := []check.Check{{
		Name:  "all green",
		Level: check.LevelError,
		Constraints: []check.Constraint{
			{
				Column:    "id",
				Analyzer:  check.AnalyzerUniqueValueRatio,
				Predicate: check.Predicate{Op: check.CompareGE, Threshold: 1},
			},
			{
				Column:       "kind",
				Analyzer:     check.AnalyzerDataType,
				Predicate:    check.Predicate{Op: check.CompareGE, Threshold: 1},
				ExpectedType: profile.KindFractional,
			},
		},
	}}

	result, err := New().Run(context.Background(), ds, checks)
	require.NoError(t, err)
	require.Equal(t, check.StatusSuccess, result.Status)
	for _, cr := range result.Checks[0].Constraints {
		require.Equal(t, check.ConstraintSuccess, cr.Status)
		require.Empty(t, cr.Message)
	}
}

func TestRunWarningDoesNotMaskError(t *testing.T) {
	ds := memory.FromRecords(
		[]string{"a"},
		[][]string{{""}},
	)

	failing := check.Constraint{
		Column:    "a",
		Analyzer:  check.AnalyzerCompleteness,
		Predicate: check.Predicate{Op: check.CompareGE, Threshold: 1},
	}

	result, err := New().Run(context.Background(), ds, []check.Check{
		{Name: "strict", Level: check.LevelError, Constraints: []check.Constraint{failing}},
		{Name: "advisory", Level: check.LevelWarning, Constraints: []check.Constraint{failing}},
	})
	require.NoError(t, err)
	require.Equal(t, check.StatusError, result.Status)
	require.Equal(t, check.StatusError, result.Checks[0].Status)
	require.Equal(t, check.StatusWarning, result.Checks[1].Status)
}

func TestRunEmptyDatasetPassesVacuously(t *testing.T) {
	ds := memory.FromRecords([]string{"a"}, nil)

	result, err := New().Run(context.Background(), ds, []check.Check{{
		Name:  "vacuous",
		Level: check.LevelError,
		Constraints: []check.Constraint{
			{Column: "a", Analyzer: check.AnalyzerCompleteness, Predicate: check.Predicate{Op: check.CompareGE, Threshold: 1}},
			{Column: "a", Analyzer: check.AnalyzerMinimum, Predicate: check.Predicate{Op: check.CompareGE, Threshold: 0}},
			{Column: "a", Analyzer: check.AnalyzerContainment, Predicate: check.Predicate{Op: check.CompareGE, Threshold: 1}},
		},
	}})
	require.NoError(t, err)
	require.Equal(t, check.StatusSuccess, result.Status)
}

func TestRunRejectsUnrecognizedAnalyzer(t *testing.T) {
	// Checks can arrive from callers, not just the compiler. A mis-cased
	// analyzer must fail the run up front; evaluating it as some other
	// metric could pass a column of negative values.
	ds := memory.FromRecords(
		[]string{"amount"},
		[][]string{{"-5"}, {"-7"}},
	)

	_, err := New().Run(context.Background(), ds, []check.Check{{
		Name:  "typo",
		Level: check.LevelError,
		Constraints: []check.Constraint{{
			Column:    "amount",
			Analyzer:  "Minimum",
			Predicate: check.Predicate{Op: check.CompareGE, Threshold: 0},
		}},
	}})
	require.True(t, errors.HasCode(err, errors.CodeInvalidInput),
		"expected INVALID_INPUT, got %v", err)
	require.Contains(t, err.Error(), "Minimum")
}

func TestTypeMatches(t *testing.T) {
	tests := []struct {
		observed, expected profile.ValueKind
		want               bool
	}{
		{profile.KindIntegral, profile.KindIntegral, true},
		{profile.KindIntegral, profile.KindFractional, true},
		{profile.KindFractional, profile.KindIntegral, false},
		{profile.KindBoolean, profile.KindString, true},
		{profile.KindBoolean, profile.KindIntegral, false},
	}
	for _, tt := range tests {
		if got := typeMatches(tt.observed, tt.expected); got != tt.want {
			t.Errorf("typeMatches(%s, %s) = %v, want %v", tt.observed, tt.expected, got, tt.want)
		}
	}
}
