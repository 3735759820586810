// Package format provides human-readable renderings of planner figures.
package format

import (
	"math"
	"strings"

	"github.com/iwvelando/arr-planner/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a dollar amount with thousands separators, dropping the
// cents when the amount is whole (e.g. "$1,000,000", "$19.99", "-$5").
func Currency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return Infinity
	}

	sign := ""
	if amount < 0 {
		sign = "-"
	}
	abs := math.Abs(amount)
	if strings.HasSuffix(Fixed(abs, 2), ".00") {
		return sign + printer.Sprintf("$%.0f", abs)
	}
	return sign + printer.Sprintf("$%.2f", abs)
}
