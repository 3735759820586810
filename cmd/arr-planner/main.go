// Command arr-planner works backwards from an ARR target to the funnel
// volumes it implies, and serves the planner web page.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/arr-planner/internal/config"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "arr-planner",
	Short:         "ARR reality check",
	Long:          "Work backwards from an ARR target to the paying users, trials, visits and exposures it takes.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCompute,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	addPlannerFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q}\n", err.Error())
		os.Exit(1)
	}
}

// loadConfiguration reads the planner configuration. A missing file is only
// an error when --config was given explicitly.
func loadConfiguration(cmd *cobra.Command) (*config.Configuration, error) {
	if _, err := os.Stat(flagConfig); errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return &config.Configuration{}, nil
	}

	conf, err := config.LoadConfiguration(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", flagConfig, err)
	}
	return conf, nil
}
