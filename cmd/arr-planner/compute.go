package main

import (
	"net/url"
	"strconv"

	"github.com/iwvelando/arr-planner/internal/config"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/output"
	"github.com/iwvelando/arr-planner/pkg/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	flagQuery        string
	flagScenario     string
	flagOutputFormat string
)

// numericFlags map planner flags onto their query keys.
var numericFlags = []struct {
	name  string
	key   string
	usage string
}{
	{"arr", constants.QueryARR, "ARR target in dollars"},
	{"months", constants.QueryMonths, "months to reach the target"},
	{"price", constants.QueryPrice, "monthly price per paying user"},
	{"e2v", constants.QueryE2V, "exposure to visit rate in percent"},
	{"v2t", constants.QueryV2T, "visit to trial rate in percent"},
	{"t2p", constants.QueryT2P, "trial to paid rate in percent"},
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute the funnel for one set of inputs",
	Long: "Compute the funnel volumes for an ARR target. Inputs are layered: flags override\n" +
		"--query, which overrides the config file, which overrides the defaults.",
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)
}

func addPlannerFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&flagQuery, "query", "q", "", "share link or query string to start from")
	flags.StringVarP(&flagScenario, "scenario", "s", "", "scenario preset (conservative, base, strong)")
	flags.StringVarP(&flagOutputFormat, "output-format", "o", "", "type of output override: pretty, csv, json")
	for _, f := range numericFlags {
		flags.Float64(f.name, 0, f.usage)
	}
}

func runCompute(cmd *cobra.Command, _ []string) error {
	return runPlanner(cmd, func(state querystate.State) []output.Result {
		return []output.Result{output.Evaluate(state)}
	})
}

// runPlanner is the shared path of compute and scenarios: load config, build
// the logger, resolve the state, and render whatever results evaluate returns.
func runPlanner(cmd *cobra.Command, evaluate func(querystate.State) []output.Result) error {
	conf, err := loadConfiguration(cmd)
	if err != nil {
		return err
	}

	logger, err := initializeLogger(conf.Logging, flagLogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := resolveOutputFormat(conf.Output.Format, flagOutputFormat)
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runPlanner"),
		)
	}

	state, err := resolveState(conf, flagQuery, cmd.Flags())
	if err != nil {
		return err
	}
	logger.Debug("resolved planner state",
		zap.String("op", "main.runPlanner"),
		zap.String("query", state.Encode()),
	)

	return output.Write(cmd.OutOrStdout(), outputFormat, evaluate(state))
}

func resolveOutputFormat(configured, override string) string {
	if override != "" {
		return override
	}
	if configured != "" {
		return configured
	}
	return constants.OutputFormatPretty
}

// resolveState layers, lowest first: defaults, the config file, the query,
// then any flags set on the command line.
func resolveState(conf *config.Configuration, query string, flags *pflag.FlagSet) (querystate.State, error) {
	state := conf.State()

	if query != "" {
		values, err := querystate.ParseValues(query)
		if err != nil {
			return querystate.State{}, err
		}
		state = state.Merge(values)
	}

	return state.Merge(flagValues(flags)), nil
}

// flagValues returns the planner flags that were explicitly set, keyed like
// the query string.
func flagValues(flags *pflag.FlagSet) url.Values {
	values := url.Values{}
	if flags.Changed("scenario") {
		scenario, _ := flags.GetString("scenario")
		values.Set(constants.QueryScenario, scenario)
	}
	for _, f := range numericFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetFloat64(f.name)
		if err != nil {
			continue
		}
		values.Set(f.key, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return values
}
