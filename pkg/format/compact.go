package format

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
)

// Infinity is rendered for any non-finite value.
const Infinity = "∞"

// Compact renders n with a k/M/B suffix and a fixed number of decimals
// (e.g. 1250000 -> "1.25M", 999 -> "999", 12.34 -> "12.3", 0 -> "0.00").
// Output is locale independent and never uses thousands separators.
func Compact(n float64) string {
	if !mathutil.IsFinite(n) {
		return Infinity
	}

	abs := math.Abs(n)
	switch {
	case abs >= 1_000_000_000:
		return Fixed(n/1_000_000_000, 2) + "B"
	case abs >= 1_000_000:
		return Fixed(n/1_000_000, 2) + "M"
	case abs >= 1_000:
		return Fixed(n/1_000, 2) + "k"
	case abs >= 100:
		return Fixed(n, 0)
	case abs >= 10:
		return Fixed(n, 1)
	default:
		return Fixed(n, 2)
	}
}

// Percent renders a 0-1 rate as a percentage with at most one decimal and no
// trailing zeros (0.038 -> "3.8", 0.18 -> "18").
func Percent(rate float64) string {
	if !mathutil.IsFinite(rate) {
		return Infinity
	}
	return Number(math.Round(rate*constants.PercentPrecision) / 10)
}

// Number renders n in its shortest round-trippable decimal form.
func Number(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// exactDigits covers every fractional digit of a float64, down to the
// smallest subnormal.
const exactDigits = 1100

// Fixed renders v with exactly places decimals, rounding the stored binary
// value. Only exact ties (0.125 to two places) round away from zero, so
// 2.675, stored just below the midpoint, renders as "2.67".
func Fixed(v float64, places int) string {
	if !mathutil.IsFinite(v) {
		return Infinity
	}
	if places < 0 {
		places = 0
	}
	if isTie(v, places) {
		v = math.Nextafter(v, math.Copysign(math.Inf(1), v))
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}

// isTie reports whether the exact decimal expansion of v is a 5 followed
// only by zeros after places decimals.
func isTie(v float64, places int) bool {
	digits := new(big.Float).SetFloat64(math.Abs(v)).Text('f', exactDigits)
	dot := strings.IndexByte(digits, '.')
	if dot < 0 || len(digits)-dot-1 <= places {
		return false
	}
	return strings.TrimRight(digits[dot+1+places:], "0") == "5"
}
