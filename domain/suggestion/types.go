package suggestion

import (
	"dqsuggest/domain/check"
	"dqsuggest/domain/profile"
)

// RuleID identifies the heuristic rule that produced a suggestion. The
// names mirror the upstream constraint-suggestion catalog so exported
// records stay recognizable.
type RuleID string

const (
	RuleCompleteIfComplete          RuleID = "CompleteIfCompleteRule"
	RuleRetainCompleteness          RuleID = "RetainCompletenessRule"
	RuleRetainType                  RuleID = "RetainTypeRule"
	RuleNonNegativeNumbers          RuleID = "NonNegativeNumbersRule"
	RuleCategoricalRange            RuleID = "CategoricalRangeRule"
	RuleFractionalCategoricalRange  RuleID = "FractionalCategoricalRangeRule"
	RuleUniqueIfApproximatelyUnique RuleID = "UniqueIfApproximatelyUniqueRule"
)

// Suggestion is a candidate data-quality constraint proposed by one rule
// for one column. Rules fill the column, rule ID and parameters; the
// compiler fills the description, the code string and the predicate.
// Suggestions do not outlive a single run.
type Suggestion struct {
	Column string `json:"column_name"`
	Rule   RuleID `json:"rule_id"`

	// Rule parameters, populated depending on the rule kind.
	Threshold float64           `json:"threshold,omitempty"`
	Values    []string          `json:"values,omitempty"`
	DataType  profile.ValueKind `json:"data_type,omitempty"`

	// Compiled artifacts.
	Description string          `json:"description"`
	Code        string          `json:"code_for_constraint"`
	Predicate   check.Predicate `json:"predicate"`
}

// HoldOutOutcome annotates a suggestion with its evaluation against the
// held-out split, when the run used one.
type HoldOutOutcome struct {
	Status  check.ConstraintStatus `json:"status"`
	Metric  float64                `json:"metric"`
	Message string                 `json:"message,omitempty"`
}

// Evaluated pairs a compiled suggestion with its constraint and the
// optional hold-out verdict.
type Evaluated struct {
	Suggestion Suggestion       `json:"suggestion"`
	Constraint check.Constraint `json:"constraint"`
	HoldOut    *HoldOutOutcome  `json:"hold_out,omitempty"`
}

// ExportRecord is the externally consumable flat row for one suggestion.
type ExportRecord struct {
	ColumnName        string `json:"column_name"`
	Description       string `json:"description"`
	CodeForConstraint string `json:"code_for_constraint"`
	RuleID            string `json:"rule_id"`
	HoldOutStatus     string `json:"hold_out_status,omitempty"`
}

// Export flattens an evaluated suggestion into its record form.
func (e Evaluated) Export() ExportRecord {
	rec := ExportRecord{
		ColumnName:        e.Suggestion.Column,
		Description:       e.Suggestion.Description,
		CodeForConstraint: e.Suggestion.Code,
		RuleID:            string(e.Suggestion.Rule),
	}
	if e.HoldOut != nil {
		rec.HoldOutStatus = string(e.HoldOut.Status)
	}
	return rec
}
