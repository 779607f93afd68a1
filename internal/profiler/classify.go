package profiler

import (
	"math"
	"strconv"
	"strings"

	"dqsuggest/domain/profile"
)

// Classify assigns a single raw value its kind via priority-ordered parse
// attempts: Boolean, then Integral, then Fractional, then String. The
// priority order also breaks plurality ties when a dominant kind is chosen
// for a column.
func Classify(raw string) profile.ValueKind {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return profile.KindString
	}

	if strings.EqualFold(trimmed, "true") || strings.EqualFold(trimmed, "false") {
		return profile.KindBoolean
	}

	if _, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return profile.KindIntegral
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if !math.IsInf(f, 0) && !math.IsNaN(f) {
			return profile.KindFractional
		}
	}

	return profile.KindString
}

// NumericValue parses a raw value as a number. The ok result is false for
// values that did not coerce to a numeric kind.
func NumericValue(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	kind := Classify(trimmed)
	if !kind.IsNumeric() {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// kindPriority orders kinds for dominant-type tie breaking.
var kindPriority = []profile.ValueKind{
	profile.KindBoolean,
	profile.KindIntegral,
	profile.KindFractional,
	profile.KindString,
}

// DominantKind picks the kind holding the plurality of non-null values,
// breaking ties by the fixed Boolean > Integral > Fractional > String
// priority. A column with no observed values has no dominant kind.
func DominantKind(counts profile.TypeHistogram) profile.ValueKind {
	best := profile.KindUnknown
	var bestCount int64
	for _, kind := range kindPriority {
		if n := counts[kind]; n > bestCount {
			best = kind
			bestCount = n
		}
	}
	return best
}
