package main

import (
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/output"
	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Compare every scenario preset for the same target",
	Long: "Evaluate the conservative, base and strong presets against the same ARR target,\n" +
		"horizon and price. Rate flags are ignored since each preset supplies its own rates.",
	RunE: runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	return runPlanner(cmd, compareScenarios)
}

func compareScenarios(state querystate.State) []output.Result {
	scenarios := arrplanner.Scenarios()
	results := make([]output.Result, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, output.Evaluate(state.SelectScenario(s.Key)))
	}
	return results
}
