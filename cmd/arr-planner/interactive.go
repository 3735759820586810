package main

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/output"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Fill in the planner inputs with a terminal form",
	RunE:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// formValues holds the text of every form field.
type formValues struct {
	Scenario string
	ARR      string
	Months   string
	Price    string
	E2V      string
	V2T      string
	T2P      string
}

func newFormValues(state querystate.State) formValues {
	v := state.Values()
	return formValues{
		Scenario: v.Get(constants.QueryScenario),
		ARR:      v.Get(constants.QueryARR),
		Months:   v.Get(constants.QueryMonths),
		Price:    v.Get(constants.QueryPrice),
		E2V:      v.Get(constants.QueryE2V),
		V2T:      v.Get(constants.QueryV2T),
		T2P:      v.Get(constants.QueryT2P),
	}
}

// resetRates fills the rate fields from the chosen scenario's preset.
func (f *formValues) resetRates() {
	preset := newFormValues(querystate.Default().SelectScenario(arrplanner.ScenarioKey(f.Scenario)))
	f.E2V, f.V2T, f.T2P = preset.E2V, preset.V2T, preset.T2P
}

func (f formValues) values() url.Values {
	return url.Values{
		constants.QueryScenario: {f.Scenario},
		constants.QueryARR:      {f.ARR},
		constants.QueryMonths:   {f.Months},
		constants.QueryPrice:    {f.Price},
		constants.QueryE2V:      {f.E2V},
		constants.QueryV2T:      {f.V2T},
		constants.QueryT2P:      {f.T2P},
	}
}

func validatePositive(s string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a number")
	}
	if n <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func validatePercent(s string) error {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return errors.New("enter a percentage")
	}
	if n < 0 || n > constants.PercentageMultiplier {
		return errors.New("must be between 0 and 100")
	}
	return nil
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}
	start, err := resolveState(conf, flagQuery, cmd.Flags())
	if err != nil {
		return err
	}

	fv := newFormValues(start)
	initialScenario := fv.Scenario

	options := make([]huh.Option[string], 0, 3)
	for _, s := range arrplanner.Scenarios() {
		options = append(options, huh.NewOption(s.Label, string(s.Key)))
	}

	scenarioForm := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Scenario").
			Description("Preset conversion rates; you can adjust them next.").
			Options(options...).
			Value(&fv.Scenario),
	))
	if err := scenarioForm.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}
	if fv.Scenario != initialScenario {
		fv.resetRates()
	}

	inputsForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("ARR target ($)").Value(&fv.ARR).Validate(validatePositive),
			huh.NewInput().Title("Months to get there").Value(&fv.Months).Validate(validatePositive),
			huh.NewInput().Title("Monthly price ($)").Value(&fv.Price).Validate(validatePositive),
		).Title("Target"),
		huh.NewGroup(
			huh.NewInput().Title("Exposure to visit (%)").Value(&fv.E2V).Validate(validatePercent),
			huh.NewInput().Title("Visit to trial (%)").Value(&fv.V2T).Validate(validatePercent),
			huh.NewInput().Title("Trial to paid (%)").Value(&fv.T2P).Validate(validatePercent),
		).Title("Conversion rates"),
	)
	if err := inputsForm.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	state := querystate.Default().Merge(fv.values())
	return output.PrettyFormat(cmd.OutOrStdout(), []output.Result{output.Evaluate(state)})
}
