package check

import (
	"fmt"
	"strings"

	"dqsuggest/domain/profile"
)

// Level is the severity attached to a check. A failing constraint inside a
// check contributes the check's level to the overall verification status.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Status is the outcome of a verification run or of a single check.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// ConstraintStatus is the outcome of evaluating one constraint. A failing
// predicate is a normal outcome, never an error.
type ConstraintStatus string

const (
	ConstraintSuccess ConstraintStatus = "success"
	ConstraintFailure ConstraintStatus = "failure"
)

// AnalyzerKind selects which metric the verifier computes for a constraint.
type AnalyzerKind string

const (
	AnalyzerCompleteness     AnalyzerKind = "completeness"
	AnalyzerDataType         AnalyzerKind = "data_type"
	AnalyzerMinimum          AnalyzerKind = "minimum"
	AnalyzerContainment      AnalyzerKind = "containment"
	AnalyzerUniqueValueRatio AnalyzerKind = "unique_value_ratio"
)

// Comparison is the operator half of a predicate.
type Comparison string

const (
	CompareGE Comparison = ">="
	CompareGT Comparison = ">"
	CompareLE Comparison = "<="
	CompareLT Comparison = "<"
	CompareEQ Comparison = "=="
)

// Predicate is an inspectable assertion over a metric value: a comparison
// operator plus a threshold. Keeping it a data value rather than a closure
// lets constraints serialize to code strings and replay across runs.
type Predicate struct {
	Op        Comparison `json:"op"`
	Threshold float64    `json:"threshold"`
}

// Eval applies the predicate to an observed metric value.
func (p Predicate) Eval(v float64) bool {
	switch p.Op {
	case CompareGE:
		return v >= p.Threshold
	case CompareGT:
		return v > p.Threshold
	case CompareLE:
		return v <= p.Threshold
	case CompareLT:
		return v < p.Threshold
	case CompareEQ:
		return v == p.Threshold
	}
	return false
}

func (p Predicate) String() string {
	return fmt.Sprintf("x %s %v", p.Op, p.Threshold)
}

// Constraint is a compiled, immutable check unit: which metric to compute,
// the predicate over it, and how to report the outcome.
type Constraint struct {
	Column        string            `json:"column"`
	Analyzer      AnalyzerKind      `json:"analyzer"`
	Predicate     Predicate         `json:"predicate"`
	ExpectedType  profile.ValueKind `json:"expected_type,omitempty"`
	AllowedValues []string          `json:"allowed_values,omitempty"`
	Description   string            `json:"description"`
	Hint          string            `json:"hint,omitempty"`
}

// Check is a named, leveled group of constraints evaluated together.
type Check struct {
	Name        string       `json:"name"`
	Level       Level        `json:"level"`
	Constraints []Constraint `json:"constraints"`
}

// ConstraintResult records one constraint's evaluation.
type ConstraintResult struct {
	Constraint Constraint       `json:"constraint"`
	Status     ConstraintStatus `json:"status"`
	Metric     float64          `json:"metric"`
	Message    string           `json:"message,omitempty"`
}

// CheckResult records one check's evaluation. Its status is the check's
// level when any constraint failed, success otherwise.
type CheckResult struct {
	Name        string             `json:"name"`
	Level       Level              `json:"level"`
	Status      Status             `json:"status"`
	Constraints []ConstraintResult `json:"constraints"`
}

// VerificationResult is the full report of one verification run. It is
// produced fresh per run and never mutated afterwards.
type VerificationResult struct {
	RunID  string        `json:"run_id"`
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks"`
}

// ExportRecord is the externally consumable flat row for one constraint
// outcome.
type ExportRecord struct {
	CheckName             string           `json:"check_name"`
	CheckLevel            Level            `json:"check_level"`
	CheckStatus           Status           `json:"check_status"`
	ConstraintDescription string           `json:"constraint_description"`
	ConstraintStatus      ConstraintStatus `json:"constraint_status"`
	ConstraintMessage     string           `json:"constraint_message,omitempty"`
}

// Export flattens the result into one record per constraint.
func (r *VerificationResult) Export() []ExportRecord {
	var records []ExportRecord
	for _, cr := range r.Checks {
		for _, con := range cr.Constraints {
			records = append(records, ExportRecord{
				CheckName:             cr.Name,
				CheckLevel:            cr.Level,
				CheckStatus:           cr.Status,
				ConstraintDescription: con.Constraint.Description,
				ConstraintStatus:      con.Status,
				ConstraintMessage:     con.Message,
			})
		}
	}
	return records
}

// CombineStatus folds a failing check's level into a running overall status,
// keeping the maximum severity seen so far.
func CombineStatus(current Status, level Level) Status {
	if current == StatusError {
		return StatusError
	}
	switch level {
	case LevelError:
		return StatusError
	case LevelWarning:
		return StatusWarning
	}
	return current
}

// QuoteValues renders a value set for descriptions: 'a', 'b', 'c'.
func QuoteValues(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
