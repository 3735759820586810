// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/pkg/output"
)

// FindScenario finds the result for a scenario key in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []output.Result, key arrplanner.ScenarioKey) *output.Result {
	for i := range results {
		if results[i].State.Scenario == key {
			return &results[i]
		}
	}
	return nil
}

// FindStage finds a funnel stage by key, e.g. "visits".
func FindStage(stages []arrplanner.Stage, key string) *arrplanner.Stage {
	for i := range stages {
		if stages[i].Key == key {
			return &stages[i]
		}
	}
	return nil
}
