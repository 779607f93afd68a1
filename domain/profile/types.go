package profile

import "encoding/json"

// ValueKind is the tagged classification of a single observed value,
// assigned by priority-ordered parse attempts (Boolean, Integral,
// Fractional, then String).
type ValueKind uint8

const (
	KindUnknown ValueKind = iota
	KindNull
	KindBoolean
	KindIntegral
	KindFractional
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindIntegral:
		return "Integral"
	case KindFractional:
		return "Fractional"
	case KindString:
		return "String"
	}
	return "Unknown"
}

func (k ValueKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ValueKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*k = ParseValueKind(s)
	return nil
}

// ParseValueKind maps a kind name back to its tag. Unrecognized names
// collapse to KindUnknown.
func ParseValueKind(s string) ValueKind {
	switch s {
	case "Null":
		return KindNull
	case "Boolean":
		return KindBoolean
	case "Integral":
		return KindIntegral
	case "Fractional":
		return KindFractional
	case "String":
		return KindString
	}
	return KindUnknown
}

// IsNumeric reports whether the kind carries numeric values.
func (k ValueKind) IsNumeric() bool {
	return k == KindIntegral || k == KindFractional
}

// TypeHistogram counts observed non-null values per inferred kind.
type TypeHistogram map[ValueKind]int64

// NonNullCount sums every bucket. Together with the null count this must
// equal the column's row count.
func (h TypeHistogram) NonNullCount() int64 {
	var total int64
	for _, n := range h {
		total += n
	}
	return total
}

// NumericSummary holds statistics computed over values that coerced to a
// numeric kind. Present on a profile only when the column's dominant kind
// is numeric.
type NumericSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ColumnProfile is the complete statistical summary of one column.
// Produced once by the profiler and consumed read-only by suggestion rules.
type ColumnProfile struct {
	Column         string           `json:"column"`
	SampleSize     int64            `json:"sample_size"`
	NullCount      int64            `json:"null_count"`
	Completeness   float64          `json:"completeness"`
	TypeCounts     TypeHistogram    `json:"type_counts"`
	InferredType   ValueKind        `json:"inferred_type"`
	ApproxDistinct int64            `json:"approx_distinct"`
	DistinctExact  bool             `json:"distinct_exact"`
	Numeric        *NumericSummary  `json:"numeric,omitempty"`
	Histogram      map[string]int64 `json:"histogram,omitempty"`
}

// NonNullCount returns the number of non-null values observed.
func (p ColumnProfile) NonNullCount() int64 {
	return p.SampleSize - p.NullCount
}

// DatasetProfile maps column names to their profiles. ColumnOrder preserves
// the input column order so downstream output stays deterministic.
type DatasetProfile struct {
	RowCount    int64                    `json:"row_count"`
	Columns     map[string]ColumnProfile `json:"columns"`
	ColumnOrder []string                 `json:"column_order"`
}

// Profile returns the profile for a column, if present.
func (dp *DatasetProfile) Profile(column string) (ColumnProfile, bool) {
	p, ok := dp.Columns[column]
	return p, ok
}
