package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"dqsuggest/adapters/memory"
	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
	"dqsuggest/internal/errors"
	"dqsuggest/ports"
)

// ordersDataset is a 16-row sample with one clean categorical column, one
// skewed categorical column, a numeric column with missing values and a
// boolean column with missing values.
func ordersDataset() *memory.Dataset {
	return memory.FromRecords(
		[]string{"productName", "status", "totalNumber", "valuable"},
		[][]string{
			{"thingA", "ACTIVE", "23.5", "true"},
			{"thingA", "ACTIVE", "23.5", "false"},
			{"thingA", "ACTIVE", "12.25", "true"},
			{"thingA", "ACTIVE", "", "false"},
			{"thingB", "ACTIVE", "0.5", "true"},
			{"thingB", "ACTIVE", "7.75", ""},
			{"thingB", "ACTIVE", "5.0", ""},
			{"thingC", "ACTIVE", "5.0", "true"},
			{"thingC", "ACTIVE", "100.75", ""},
			{"thingC", "ACTIVE", "3.5", "false"},
			{"thingD", "INACTIVE", "3.5", ""},
			{"thingD", "INACTIVE", "", "true"},
			{"thingD", "INACTIVE", "8.25", ""},
			{"thingE", "INACTIVE", "", "false"},
			{"thingE", "UNKNOWN", "9.5", "true"},
			{"thingE", "UNKNOWN", "", ""},
		},
	)
}

func findSuggestion(t *testing.T, rep *Report, rule suggestion.RuleID, column string) *suggestion.Evaluated {
	t.Helper()
	for i := range rep.Suggestions {
		ev := &rep.Suggestions[i]
		if ev.Suggestion.Rule == rule && ev.Suggestion.Column == column {
			return ev
		}
	}
	return nil
}

func TestRunSuggestsExpectedConstraints(t *testing.T) {
	rep, err := New(nil, nil).Run(context.Background(), ordersDataset(), Config{})
	require.NoError(t, err)
	require.NotEmpty(t, rep.RunID)
	require.Equal(t, int64(16), rep.Profile.RowCount)

	t.Run("complete columns get is-complete", func(t *testing.T) {
		for _, col := range []string{"productName", "status"} {
			require.NotNil(t, findSuggestion(t, rep, suggestion.RuleCompleteIfComplete, col),
				"expected an is-complete suggestion for %s", col)
			require.Nil(t, findSuggestion(t, rep, suggestion.RuleRetainCompleteness, col),
				"complete column %s must not also get a threshold", col)
		}
	})

	t.Run("incomplete columns get a floored threshold", func(t *testing.T) {
		total := findSuggestion(t, rep, suggestion.RuleRetainCompleteness, "totalNumber")
		require.NotNil(t, total)
		require.Equal(t, 0.75, total.Suggestion.Threshold)
		require.Equal(t, `hasCompleteness("totalNumber", 0.75)`, total.Suggestion.Code)

		valuable := findSuggestion(t, rep, suggestion.RuleRetainCompleteness, "valuable")
		require.NotNil(t, valuable)
		// Observed completeness 10/16 = 0.625, rounded down.
		require.Equal(t, 0.62, valuable.Suggestion.Threshold)

		require.Nil(t, findSuggestion(t, rep, suggestion.RuleCompleteIfComplete, "totalNumber"))
		require.Nil(t, findSuggestion(t, rep, suggestion.RuleCompleteIfComplete, "valuable"))
	})

	t.Run("dominant kinds become type constraints", func(t *testing.T) {
		total := findSuggestion(t, rep, suggestion.RuleRetainType, "totalNumber")
		require.NotNil(t, total)
		require.Equal(t, profile.KindFractional, total.Suggestion.DataType)

		valuable := findSuggestion(t, rep, suggestion.RuleRetainType, "valuable")
		require.NotNil(t, valuable)
		require.Equal(t, profile.KindBoolean, valuable.Suggestion.DataType)

		require.Nil(t, findSuggestion(t, rep, suggestion.RuleRetainType, "productName"),
			"string columns carry no type constraint")
	})

	t.Run("non-negative numeric column", func(t *testing.T) {
		require.NotNil(t, findSuggestion(t, rep, suggestion.RuleNonNegativeNumbers, "totalNumber"))
		require.Nil(t, findSuggestion(t, rep, suggestion.RuleNonNegativeNumbers, "productName"))
	})

	t.Run("low-cardinality columns get value ranges", func(t *testing.T) {
		status := findSuggestion(t, rep, suggestion.RuleCategoricalRange, "status")
		require.NotNil(t, status)
		require.Equal(t, []string{"ACTIVE", "INACTIVE", "UNKNOWN"}, status.Suggestion.Values)
	})

	t.Run("no uniqueness for repeated values", func(t *testing.T) {
		for _, col := range []string{"productName", "status", "totalNumber", "valuable"} {
			require.Nil(t, findSuggestion(t, rep, suggestion.RuleUniqueIfApproximatelyUnique, col))
		}
	})

	t.Run("no hold-out annotations without a split", func(t *testing.T) {
		for _, ev := range rep.Suggestions {
			require.Nil(t, ev.HoldOut)
		}
	})
}

func TestRunEmptyDataset(t *testing.T) {
	ds := memory.FromRecords([]string{"a", "b"}, nil)
	rep, err := New(nil, nil).Run(context.Background(), ds, Config{})
	require.NoError(t, err, "an empty dataset is a valid input, not an error")
	require.Empty(t, rep.Suggestions)
	require.Equal(t, int64(0), rep.Profile.RowCount)
}

func TestRunConfigErrors(t *testing.T) {
	ds := ordersDataset()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown column", Config{Columns: []string{"noSuchColumn"}}},
		{"split ratio at one", Config{SplitRatio: 1}},
		{"negative split ratio", Config{SplitRatio: -0.5}},
		{"unknown disabled rule", Config{DisabledRules: []string{"NoSuchRule"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, nil).Run(context.Background(), ds, tt.cfg)
			require.True(t, errors.HasCode(err, errors.CodeConfigInvalid),
				"expected CONFIG_INVALID, got %v", err)
		})
	}
}

func TestRunDisabledRules(t *testing.T) {
	rep, err := New(nil, nil).Run(context.Background(), ordersDataset(), Config{
		DisabledRules: []string{string(suggestion.RuleCategoricalRange)},
	})
	require.NoError(t, err)
	for _, ev := range rep.Suggestions {
		require.NotEqual(t, suggestion.RuleCategoricalRange, ev.Suggestion.Rule)
	}
}

func TestRunExcludedColumns(t *testing.T) {
	rep, err := New(nil, nil).Run(context.Background(), ordersDataset(), Config{
		ExcludedColumns: []string{"valuable", "totalNumber"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"productName", "status"}, rep.Profile.ColumnOrder)
	for _, ev := range rep.Suggestions {
		require.Contains(t, []string{"productName", "status"}, ev.Suggestion.Column)
	}
}

func TestRunWithSplitAnnotatesHoldOut(t *testing.T) {
	// A larger dataset keeps both partitions non-empty at ratio 0.8.
	records := make([][]string, 200)
	for i := range records {
		records[i] = []string{fmt.Sprintf("id-%d", i), fmt.Sprintf("%d.5", i%7)}
	}
	ds := memory.FromRecords([]string{"id", "amount"}, records)

	run := func() *Report {
		rep, err := New(nil, nil).Run(context.Background(), ds, Config{
			SplitRatio: 0.8,
			Seed:       42,
		})
		require.NoError(t, err)
		return rep
	}

	rep := run()
	require.NotEmpty(t, rep.Suggestions)
	require.Less(t, rep.Profile.RowCount, int64(200), "profiling should only see the training split")
	for _, ev := range rep.Suggestions {
		require.NotNil(t, ev.HoldOut, "every suggestion should carry a hold-out verdict")
	}

	// Same seed, same data, same outcome.
	require.Equal(t, rep.Export(), run().Export())
}

// selectRecorder wraps a dataset and records what Select was asked for.
type selectRecorder struct {
	*memory.Dataset
	selected [][]string
}

func (s *selectRecorder) Select(columns []string) ports.Dataset {
	s.selected = append(s.selected, columns)
	return s.Dataset.Select(columns)
}

func TestRunNarrowsDatasetToResolvedColumns(t *testing.T) {
	ds := &selectRecorder{Dataset: ordersDataset()}

	rep, err := New(nil, nil).Run(context.Background(), ds, Config{
		ExcludedColumns: []string{"valuable"},
	})
	require.NoError(t, err)

	require.Len(t, ds.selected, 1)
	require.Equal(t, []string{"productName", "status", "totalNumber"}, ds.selected[0])
	require.Equal(t, []string{"productName", "status", "totalNumber"}, rep.Profile.ColumnOrder)
}

func TestProfileOnly(t *testing.T) {
	prof, err := New(nil, nil).ProfileOnly(context.Background(), ordersDataset(), Config{
		Columns: []string{"status"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"status"}, prof.ColumnOrder)
	require.Equal(t, int64(16), prof.Columns["status"].SampleSize)

	_, err = New(nil, nil).ProfileOnly(context.Background(), ordersDataset(), Config{
		Columns: []string{"ghost"},
	})
	require.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
}
