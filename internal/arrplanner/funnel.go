// Package arrplanner implements the ARR reality check: a fixed four-stage
// funnel (exposure -> visit -> trial -> paid) inverted from a revenue target.
package arrplanner

import (
	"strings"

	"github.com/iwvelando/arr-planner/pkg/constants"
)

// ScenarioKey names one of the fixed funnel presets.
type ScenarioKey string

const (
	Conservative ScenarioKey = "conservative"
	Base         ScenarioKey = "base"
	Strong       ScenarioKey = "strong"
)

// Rates holds the three stage conversion probabilities, each in [0,1].
type Rates struct {
	ExposureToVisit float64 `json:"exposureToVisit" yaml:"exposureToVisit"`
	VisitToTrial    float64 `json:"visitToTrial" yaml:"visitToTrial"`
	TrialToPaid     float64 `json:"trialToPaid" yaml:"trialToPaid"`
}

// Scenario is a named preset of conversion rates.
type Scenario struct {
	Key   ScenarioKey `json:"key"`
	Label string      `json:"label"`
	Rates Rates       `json:"rates"`
}

// scenarioOrder is also the display order.
var scenarioOrder = [...]Scenario{
	{
		Key:   Conservative,
		Label: "Conservative",
		Rates: Rates{ExposureToVisit: 0.01, VisitToTrial: 0.02, TrialToPaid: 0.10},
	},
	{
		Key:   Base,
		Label: "Base",
		Rates: Rates{ExposureToVisit: 0.02, VisitToTrial: 0.038, TrialToPaid: 0.18},
	},
	{
		Key:   Strong,
		Label: "Strong",
		Rates: Rates{ExposureToVisit: 0.05, VisitToTrial: 0.06, TrialToPaid: 0.25},
	},
}

// Scenarios returns the presets in display order. The slice is a copy.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarioOrder))
	copy(out, scenarioOrder[:])
	return out
}

// ParseScenarioKey maps s to a known key, falling back to Base for anything
// unrecognized. Matching is exact.
func ParseScenarioKey(s string) ScenarioKey {
	switch ScenarioKey(s) {
	case Conservative, Base, Strong:
		return ScenarioKey(s)
	}
	return ScenarioKey(constants.DefaultScenario)
}

// Valid reports whether k is one of the preset keys.
func (k ScenarioKey) Valid() bool {
	return ParseScenarioKey(string(k)) == k
}

// Lookup returns the preset for key, or the Base preset if key is unknown.
func Lookup(key ScenarioKey) Scenario {
	resolved := ParseScenarioKey(string(key))
	for _, s := range scenarioOrder {
		if s.Key == resolved {
			return s
		}
	}
	// unreachable: ParseScenarioKey only returns keys present above
	return scenarioOrder[1]
}

// PresetRates returns the conversion rates of the preset named by key.
func PresetRates(key ScenarioKey) Rates {
	return Lookup(key).Rates
}

// ScenarioKeys lists the preset keys joined by sep, for help text.
func ScenarioKeys(sep string) string {
	keys := make([]string, 0, len(scenarioOrder))
	for _, s := range scenarioOrder {
		keys = append(keys, string(s.Key))
	}
	return strings.Join(keys, sep)
}
