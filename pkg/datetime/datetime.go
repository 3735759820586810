// Package datetime provides date formatting helpers for post listings.
package datetime

import (
	"time"

	"github.com/iwvelando/arr-planner/pkg/constants"
)

const (
	// DateLayout is the format expected in the content index and is also the
	// machine-readable output date format.
	DateLayout = constants.DateLayout

	// DisplayLayout is the long form shown next to post titles.
	DisplayLayout = constants.DisplayDateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// Display formats t for readers, e.g. "March 4, 2025". The zero time
// renders as an empty string.
func Display(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DisplayLayout)
}

// ISO formats t as YYYY-MM-DD for datetime attributes and feeds.
func ISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// Newer reports whether a is strictly after b, comparing calendar days in UTC.
func Newer(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad > bd
}
