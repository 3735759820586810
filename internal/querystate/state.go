// Package querystate converts planner state to and from the shareable query
// string. The host UI calls Decode when a page loads and Encode after every
// change; nothing here is reactive.
package querystate

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/format"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
)

// Stage identifies one of the three overridable conversion rates by its
// query key.
type Stage string

const (
	ExposureToVisit Stage = constants.QueryE2V
	VisitToTrial    Stage = constants.QueryV2T
	TrialToPaid     Stage = constants.QueryT2P
)

// keyOrder is the order keys are written by Encode.
var keyOrder = []string{
	constants.QueryScenario,
	constants.QueryARR,
	constants.QueryMonths,
	constants.QueryPrice,
	constants.QueryE2V,
	constants.QueryV2T,
	constants.QueryT2P,
}

// State is everything needed to reconstruct the planner from a URL.
type State struct {
	Scenario arrplanner.ScenarioKey
	Inputs   arrplanner.Inputs
}

// Default is the state of a planner opened without a query string.
func Default() State {
	return State{
		Scenario: arrplanner.Base,
		Inputs:   arrplanner.DefaultInputs(),
	}
}

// Decode builds a State from query values. Unknown or malformed values fall
// back to defaults; rate overrides start from the selected preset.
func Decode(values url.Values) State {
	scenario := arrplanner.ParseScenarioKey(values.Get(constants.QueryScenario))
	preset := arrplanner.PresetRates(scenario)

	return State{
		Scenario: scenario,
		Inputs: arrplanner.Inputs{
			ARRTarget:    ParseNumber(values.Get(constants.QueryARR), constants.DefaultARRTarget),
			Months:       ParseNumber(values.Get(constants.QueryMonths), constants.DefaultMonths),
			MonthlyPrice: ParseNumber(values.Get(constants.QueryPrice), constants.DefaultMonthlyPrice),
			Rates: arrplanner.Rates{
				ExposureToVisit: rateOverride(values, constants.QueryE2V, preset.ExposureToVisit),
				VisitToTrial:    rateOverride(values, constants.QueryV2T, preset.VisitToTrial),
				TrialToPaid:     rateOverride(values, constants.QueryT2P, preset.TrialToPaid),
			},
		},
	}
}

// ParseQuery decodes a raw query string. raw may be a bare query, start with
// "?", or be a full URL.
func ParseQuery(raw string) (State, error) {
	values, err := ParseValues(raw)
	if err != nil {
		return State{}, err
	}
	return Decode(values), nil
}

// ParseValues extracts the query values from raw, which may be a bare query,
// start with "?", or be a full URL. Any fragment is dropped.
func ParseValues(raw string) (url.Values, error) {
	trimmed := strings.TrimSpace(raw)
	if idx := strings.IndexByte(trimmed, '?'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.IndexByte(trimmed, '#'); idx >= 0 {
		trimmed = trimmed[:idx]
	}

	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse planner query %q: %w", raw, err)
	}
	return values, nil
}

// Merge layers the keys present in values on top of s. A scenario key
// selects that preset first, so rate keys in the same values still win.
// Blank or malformed values leave the current setting in place.
func (s State) Merge(values url.Values) State {
	if _, ok := values[constants.QueryScenario]; ok {
		s = s.SelectScenario(arrplanner.ScenarioKey(values.Get(constants.QueryScenario)))
	}

	in := &s.Inputs
	in.ARRTarget = ParseNumber(values.Get(constants.QueryARR), in.ARRTarget)
	in.Months = ParseNumber(values.Get(constants.QueryMonths), in.Months)
	in.MonthlyPrice = ParseNumber(values.Get(constants.QueryPrice), in.MonthlyPrice)

	for _, stage := range []Stage{ExposureToVisit, VisitToTrial, TrialToPaid} {
		if raw := values.Get(string(stage)); strings.TrimSpace(raw) != "" {
			s = s.WithRate(stage, raw)
		}
	}
	return s
}

func rateOverride(values url.Values, key string, preset float64) float64 {
	raw := values.Get(key)
	if strings.TrimSpace(raw) == "" {
		return preset
	}
	return FromPercentInput(raw, preset)
}

// Encode writes the state as a query string in a fixed key order. ARR and
// months are written as whole numbers (months at least 1) and rates as
// one-decimal percentages.
func (s State) Encode() string {
	values := s.Values()
	var b strings.Builder
	for i, key := range keyOrder {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(values.Get(key)))
	}
	return b.String()
}

// Values returns the encoded state as url.Values.
func (s State) Values() url.Values {
	r := s.Inputs.Rates
	return url.Values{
		constants.QueryScenario: {string(arrplanner.ParseScenarioKey(string(s.Scenario)))},
		constants.QueryARR:      {format.Number(math.Round(s.Inputs.ARRTarget))},
		constants.QueryMonths:   {format.Number(encodedMonths(s.Inputs.Months))},
		constants.QueryPrice:    {format.Number(s.Inputs.MonthlyPrice)},
		constants.QueryE2V:      {ToPercentString(r.ExposureToVisit)},
		constants.QueryV2T:      {ToPercentString(r.VisitToTrial)},
		constants.QueryT2P:      {ToPercentString(r.TrialToPaid)},
	}
}

// encodedMonths is the horizon the calculator will use for a positive
// months value, so a link for 0.4 months reloads as 1 month rather than
// falling back to the default. Other values are written rounded and fall
// back on both sides.
func encodedMonths(months float64) float64 {
	rounded := math.Round(months)
	if months > 0 {
		return math.Max(constants.MinimumMonths, rounded)
	}
	return rounded
}

// URL returns path with the encoded state attached.
func (s State) URL(path string) string {
	return path + "?" + s.Encode()
}

// SelectScenario switches to key and resets every rate to its preset.
// Selecting the same key again yields the same state.
func (s State) SelectScenario(key arrplanner.ScenarioKey) State {
	resolved := arrplanner.ParseScenarioKey(string(key))
	s.Scenario = resolved
	s.Inputs.Rates = arrplanner.PresetRates(resolved)
	return s
}

// WithRate applies a percent input (e.g. "2.5" for 2.5%) to one stage. An
// unknown stage leaves the state unchanged.
func (s State) WithRate(stage Stage, percentInput string) State {
	r := &s.Inputs.Rates
	switch stage {
	case ExposureToVisit:
		r.ExposureToVisit = FromPercentInput(percentInput, r.ExposureToVisit)
	case VisitToTrial:
		r.VisitToTrial = FromPercentInput(percentInput, r.VisitToTrial)
	case TrialToPaid:
		r.TrialToPaid = FromPercentInput(percentInput, r.TrialToPaid)
	}
	return s
}

// ParseNumber parses a decimal string, returning fallback when value is
// blank or not a finite number.
func ParseNumber(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !mathutil.IsFinite(n) {
		return fallback
	}
	return n
}

// ToPercentString renders a 0-1 rate as a one-decimal percent (0.038 -> "3.8").
func ToPercentString(rate float64) string {
	return format.Percent(rate)
}

// FromPercentInput converts a percent string to a 0-1 rate clamped to [0,1].
// A blank input reads as 0; anything else that is not a finite number
// returns fallback unchanged.
func FromPercentInput(s string, fallback float64) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || !mathutil.IsFinite(n) {
		return fallback
	}
	return mathutil.Clamp01(mathutil.FromPercent(n))
}
