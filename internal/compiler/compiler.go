package compiler

import (
	"fmt"
	"math"
	"strings"

	"dqsuggest/domain/check"
	"dqsuggest/domain/suggestion"
	"dqsuggest/internal/errors"
)

// Compile turns a rule's suggestion into an executable constraint and
// fills the suggestion's description, code string and predicate. The code
// string is a declarative representation that recreates the same
// constraint without re-running suggestion.
//
// Compilation is total over the rule catalog: every suggestion a
// registered rule emits must compile. An unrecognized rule ID therefore
// signals a registry bug, not a user error.
func Compile(s *suggestion.Suggestion) (check.Constraint, error) {
	var c check.Constraint

	switch s.Rule {
	case suggestion.RuleCompleteIfComplete:
		c = check.Constraint{
			Column:      s.Column,
			Analyzer:    check.AnalyzerCompleteness,
			Predicate:   check.Predicate{Op: check.CompareGE, Threshold: 1},
			Description: fmt.Sprintf("'%s' is not null", s.Column),
		}
		s.Code = fmt.Sprintf("isComplete(%q)", s.Column)

	case suggestion.RuleRetainCompleteness:
		c = check.Constraint{
			Column:      s.Column,
			Analyzer:    check.AnalyzerCompleteness,
			Predicate:   check.Predicate{Op: check.CompareGE, Threshold: s.Threshold},
			Description: fmt.Sprintf("'%s' has less than %d%% missing values", s.Column, missingPercent(s.Threshold)),
			Hint:        fmt.Sprintf("completeness should be above %.2f", s.Threshold),
		}
		s.Code = fmt.Sprintf("hasCompleteness(%q, %.2f)", s.Column, s.Threshold)

	case suggestion.RuleRetainType:
		c = check.Constraint{
			Column:       s.Column,
			Analyzer:     check.AnalyzerDataType,
			Predicate:    check.Predicate{Op: check.CompareGE, Threshold: 1},
			ExpectedType: s.DataType,
			Description:  fmt.Sprintf("'%s' has type %s", s.Column, s.DataType),
		}
		s.Code = fmt.Sprintf("hasDataType(%q, %s)", s.Column, s.DataType)

	case suggestion.RuleNonNegativeNumbers:
		c = check.Constraint{
			Column:      s.Column,
			Analyzer:    check.AnalyzerMinimum,
			Predicate:   check.Predicate{Op: check.CompareGE, Threshold: 0},
			Description: fmt.Sprintf("'%s' has no negative values", s.Column),
		}
		s.Code = fmt.Sprintf("isNonNegative(%q)", s.Column)

	case suggestion.RuleCategoricalRange:
		c = check.Constraint{
			Column:        s.Column,
			Analyzer:      check.AnalyzerContainment,
			Predicate:     check.Predicate{Op: check.CompareGE, Threshold: 1},
			AllowedValues: s.Values,
			Description:   fmt.Sprintf("'%s' has value range %s", s.Column, check.QuoteValues(s.Values)),
		}
		s.Code = fmt.Sprintf("isContainedIn(%q, %s)", s.Column, goStringSlice(s.Values))

	case suggestion.RuleFractionalCategoricalRange:
		c = check.Constraint{
			Column:        s.Column,
			Analyzer:      check.AnalyzerContainment,
			Predicate:     check.Predicate{Op: check.CompareGE, Threshold: s.Threshold},
			AllowedValues: s.Values,
			Description: fmt.Sprintf("'%s' has value range %s for at least %d%% of values",
				s.Column, check.QuoteValues(s.Values), coveragePercent(s.Threshold)),
		}
		s.Code = fmt.Sprintf("isContainedIn(%q, %s, %.2f)", s.Column, goStringSlice(s.Values), s.Threshold)

	case suggestion.RuleUniqueIfApproximatelyUnique:
		c = check.Constraint{
			Column:      s.Column,
			Analyzer:    check.AnalyzerUniqueValueRatio,
			Predicate:   check.Predicate{Op: check.CompareGE, Threshold: 1},
			Description: fmt.Sprintf("'%s' is unique", s.Column),
		}
		s.Code = fmt.Sprintf("isUnique(%q)", s.Column)

	default:
		return check.Constraint{}, errors.Internalf(
			"constraint compiler received unrecognized rule %q for column %q", s.Rule, s.Column)
	}

	s.Description = c.Description
	s.Predicate = c.Predicate
	return c, nil
}

// CompileAll compiles every suggestion in place, pairing each with its
// constraint.
func CompileAll(suggestions []suggestion.Suggestion) ([]suggestion.Evaluated, error) {
	out := make([]suggestion.Evaluated, 0, len(suggestions))
	for i := range suggestions {
		c, err := Compile(&suggestions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, suggestion.Evaluated{Suggestion: suggestions[i], Constraint: c})
	}
	return out, nil
}

// missingPercent reports the maximum allowed missing share implied by a
// completeness threshold, as a whole percentage.
func missingPercent(threshold float64) int {
	return int(math.Round((1 - threshold) * 100))
}

func coveragePercent(threshold float64) int {
	return int(math.Round(threshold * 100))
}

func goStringSlice(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}
