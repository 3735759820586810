// Package config defines the planner configuration file and the functions
// for loading it and turning it into a starting planner state.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the arr-planner CLI.
type Configuration struct {
	Planner PlannerConfig `yaml:"planner,omitempty" mapstructure:"planner"`
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `yaml:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// PlannerConfig seeds the planner. Zero amounts mean "use the default".
type PlannerConfig struct {
	Scenario     string     `yaml:"scenario,omitempty" mapstructure:"scenario"`
	ARRTarget    float64    `yaml:"arrTarget,omitempty" mapstructure:"arrTarget"`
	Months       float64    `yaml:"months,omitempty" mapstructure:"months"`
	MonthlyPrice float64    `yaml:"monthlyPrice,omitempty" mapstructure:"monthlyPrice"`
	Rates        RateConfig `yaml:"rates,omitempty" mapstructure:"rates"`
}

// RateConfig holds optional percentage overrides (2 means 2%) applied on top
// of the scenario preset.
type RateConfig struct {
	ExposureToVisit *float64 `yaml:"exposureToVisit,omitempty" mapstructure:"exposureToVisit"`
	VisitToTrial    *float64 `yaml:"visitToTrial,omitempty" mapstructure:"visitToTrial"`
	TrialToPaid     *float64 `yaml:"trialToPaid,omitempty" mapstructure:"trialToPaid"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys present in the file can be overridden from the
// environment with the ARR_ prefix, e.g. ARR_PLANNER_MONTHS=24.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// State builds the starting planner state: the scenario preset, then any
// configured amounts and rate overrides.
func (c *Configuration) State() querystate.State {
	state := querystate.Default().SelectScenario(arrplanner.ScenarioKey(c.Planner.Scenario))

	if c.Planner.ARRTarget != 0 {
		state.Inputs.ARRTarget = c.Planner.ARRTarget
	}
	if c.Planner.Months != 0 {
		state.Inputs.Months = c.Planner.Months
	}
	if c.Planner.MonthlyPrice != 0 {
		state.Inputs.MonthlyPrice = c.Planner.MonthlyPrice
	}

	rates := c.Planner.Rates
	if rates.ExposureToVisit != nil {
		state.Inputs.Rates.ExposureToVisit = mathutil.Clamp01(mathutil.FromPercent(*rates.ExposureToVisit))
	}
	if rates.VisitToTrial != nil {
		state.Inputs.Rates.VisitToTrial = mathutil.Clamp01(mathutil.FromPercent(*rates.VisitToTrial))
	}
	if rates.TrialToPaid != nil {
		state.Inputs.Rates.TrialToPaid = mathutil.Clamp01(mathutil.FromPercent(*rates.TrialToPaid))
	}

	return state
}

// ValidateConfiguration reports settings that will be silently replaced by a
// default or clamped when the planner runs.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	p := c.Planner

	if p.Scenario != "" && !arrplanner.ScenarioKey(p.Scenario).Valid() {
		warnings = append(warnings, fmt.Sprintf("Unknown scenario '%s' - falling back to %s (expected one of %s)",
			p.Scenario, constants.DefaultScenario, arrplanner.ScenarioKeys(", ")))
	}
	if p.ARRTarget < 0 {
		warnings = append(warnings, fmt.Sprintf("ARR target %.2f is not positive - default %.0f will be used",
			p.ARRTarget, constants.DefaultARRTarget))
	}
	if p.Months < 0 {
		warnings = append(warnings, fmt.Sprintf("Months %.2f is not positive - default %.0f will be used",
			p.Months, constants.DefaultMonths))
	} else if p.Months > 0 && p.Months < 0.5 {
		warnings = append(warnings, fmt.Sprintf("Months %.2f rounds below one month - a one month horizon will be used", p.Months))
	}
	if p.MonthlyPrice < 0 {
		warnings = append(warnings, fmt.Sprintf("Monthly price %.2f is not positive - default %.0f will be used",
			p.MonthlyPrice, constants.DefaultMonthlyPrice))
	}

	for _, rate := range []struct {
		name  string
		value *float64
	}{
		{"exposureToVisit", p.Rates.ExposureToVisit},
		{"visitToTrial", p.Rates.VisitToTrial},
		{"trialToPaid", p.Rates.TrialToPaid},
	} {
		if rate.value == nil {
			continue
		}
		switch {
		case *rate.value < 0 || *rate.value > constants.PercentageMultiplier:
			warnings = append(warnings, fmt.Sprintf("Rate %s of %.2f%% is outside 0-100%% and will be clamped", rate.name, *rate.value))
		case *rate.value == 0:
			warnings = append(warnings, fmt.Sprintf("Rate %s is 0%% - upstream funnel volumes will be infinite", rate.name))
		}
	}

	return warnings
}
