package verifier

import (
	"context"

	"github.com/google/uuid"

	"dqsuggest/domain/check"
	"dqsuggest/internal/errors"
	"dqsuggest/ports"
)

// Verifier evaluates compiled constraints, grouped into leveled checks,
// against a dataset. Constraints are evaluated independently and in full:
// one failure never short-circuits the rest, so every run yields a
// complete report. A failing predicate is a recorded outcome, never an
// error.
type Verifier struct{}

// New creates a verifier.
func New() *Verifier {
	return &Verifier{}
}

// Run computes every constraint's metric in a single dataset scan and
// reports per-constraint and per-check outcomes. The overall status is the
// maximum severity among failing constraints' check levels.
func (v *Verifier) Run(ctx context.Context, ds ports.Dataset, checks []check.Check) (*check.VerificationResult, error) {
	type slot struct {
		constraint check.Constraint
		acc        metricAccumulator
	}

	slots := make([][]slot, len(checks))
	for i, chk := range checks {
		slots[i] = make([]slot, len(chk.Constraints))
		for j, c := range chk.Constraints {
			acc, err := newAccumulator(c)
			if err != nil {
				return nil, err
			}
			slots[i][j] = slot{constraint: c, acc: acc}
		}
	}

	err := ds.Scan(ctx, func(row ports.Row) error {
		for i := range slots {
			for j := range slots[i] {
				s := &slots[i][j]
				s.acc.observe(row.Value(s.constraint.Column))
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "verification scan failed")
	}

	result := &check.VerificationResult{
		RunID:  uuid.NewString(),
		Status: check.StatusSuccess,
	}

	for i, chk := range checks {
		cr := check.CheckResult{
			Name:   chk.Name,
			Level:  chk.Level,
			Status: check.StatusSuccess,
		}

		for _, s := range slots[i] {
			metric := s.acc.value()
			res := check.ConstraintResult{
				Constraint: s.constraint,
				Metric:     metric,
				Status:     check.ConstraintSuccess,
			}
			if !s.constraint.Predicate.Eval(metric) {
				res.Status = check.ConstraintFailure
				res.Message = failureMessage(s.acc, s.constraint, metric)
			}
			cr.Constraints = append(cr.Constraints, res)
		}

		for _, res := range cr.Constraints {
			if res.Status == check.ConstraintFailure {
				cr.Status = check.Status(chk.Level)
				result.Status = check.CombineStatus(result.Status, chk.Level)
				break
			}
		}

		result.Checks = append(result.Checks, cr)
	}

	return result, nil
}
