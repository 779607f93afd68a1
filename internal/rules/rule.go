package rules

import (
	"math"

	"dqsuggest/domain/profile"
	"dqsuggest/domain/suggestion"
	"dqsuggest/internal/errors"
)

// Rule is one heuristic: a pure function from a column profile to zero or
// more suggestions. Rules are independent; none may read another rule's
// output within a run.
type Rule interface {
	Name() suggestion.RuleID
	Evaluate(p profile.ColumnProfile) []suggestion.Suggestion
}

// Registry holds rules in registration order. Suggestion order within a
// column is registration order, so a fixed registry plus fixed input data
// reproduces the exact same suggestion list.
type Registry struct {
	rules []Rule
}

// NewRegistry creates a registry with the given rules.
func NewRegistry(rules ...Rule) *Registry {
	return &Registry{rules: rules}
}

// DefaultRegistry returns the full heuristic catalog in its canonical
// order.
func DefaultRegistry() *Registry {
	return NewRegistry(
		CompleteIfComplete{},
		RetainCompleteness{},
		RetainType{},
		NonNegativeNumbers{},
		CategoricalRange{},
		FractionalCategoricalRange{},
		UniqueIfApproximatelyUnique{},
	)
}

// Register appends a rule. New rules slot in without touching existing
// ones.
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Rules returns the registered rules in order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Without returns a copy of the registry with the named rules removed. A
// name matching no registered rule is a configuration error.
func (r *Registry) Without(disabled []string) (*Registry, error) {
	known := make(map[string]bool, len(r.rules))
	for _, rule := range r.rules {
		known[string(rule.Name())] = true
	}
	drop := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		if !known[name] {
			return nil, errors.ConfigInvalidf("unknown rule %q in disabled rules", name)
		}
		drop[name] = true
	}

	out := &Registry{}
	for _, rule := range r.rules {
		if !drop[string(rule.Name())] {
			out.rules = append(out.rules, rule)
		}
	}
	return out, nil
}

// Apply runs every rule against every column profile, columns in input
// order, rules in registration order.
func (r *Registry) Apply(dp *profile.DatasetProfile) []suggestion.Suggestion {
	var out []suggestion.Suggestion
	for _, column := range dp.ColumnOrder {
		p := dp.Columns[column]
		for _, rule := range r.rules {
			out = append(out, rule.Evaluate(p)...)
		}
	}
	return out
}

// floorTwoDecimals rounds a fraction down to two decimal places, the
// safety margin applied to suggested thresholds.
func floorTwoDecimals(v float64) float64 {
	return math.Floor(v*100) / 100
}
