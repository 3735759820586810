// Package output provides renderings of planner results for terminals,
// spreadsheets, and JSON clients.
package output

import (
	"github.com/iwvelando/arr-planner/internal/arrplanner"
	"github.com/iwvelando/arr-planner/internal/querystate"
	"github.com/iwvelando/arr-planner/pkg/format"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
)

// Result is one planner evaluation: the state it was computed from, the
// sanitized inputs that were actually used, and the outputs.
type Result struct {
	State     querystate.State
	Effective arrplanner.Inputs
	Outputs   arrplanner.Outputs
	Summary   string
}

// Evaluate computes the planner for state.
func Evaluate(state querystate.State) Result {
	out := arrplanner.Compute(state.Inputs)
	return Result{
		State:     state,
		Effective: arrplanner.Sanitize(state.Inputs),
		Outputs:   out,
		Summary:   arrplanner.Summarize(state.Inputs, out),
	}
}

// Document is the JSON shape of a Result. Infinite volumes are null.
type Document struct {
	Scenario string     `json:"scenario"`
	Label    string     `json:"label"`
	Query    string     `json:"query"`
	Inputs   InputsDoc  `json:"inputs"`
	Outputs  OutputsDoc `json:"outputs"`
	Stages   []StageDoc `json:"stages"`
	Summary  string     `json:"summary"`
}

// InputsDoc lists the effective inputs with rates both as fractions and as
// the percent strings used in share links.
type InputsDoc struct {
	ARRTarget    float64           `json:"arrTarget"`
	Months       float64           `json:"months"`
	MonthlyPrice float64           `json:"monthlyPrice"`
	Rates        arrplanner.Rates  `json:"rates"`
	Percent      map[string]string `json:"percent"`
}

// OutputsDoc mirrors arrplanner.Outputs.
type OutputsDoc struct {
	PaidUsersTotal    *float64 `json:"paidUsersTotal"`
	PaidUsersPerMonth *float64 `json:"paidUsersPerMonth"`
	TrialsTotal       *float64 `json:"trialsTotal"`
	TrialsPerMonth    *float64 `json:"trialsPerMonth"`
	VisitsTotal       *float64 `json:"visitsTotal"`
	VisitsPerMonth    *float64 `json:"visitsPerMonth"`
	ExposuresTotal    *float64 `json:"exposuresTotal"`
	ExposuresPerMonth *float64 `json:"exposuresPerMonth"`
}

// StageDoc is one funnel row with compact display strings.
type StageDoc struct {
	Key             string   `json:"key"`
	Label           string   `json:"label"`
	Total           *float64 `json:"total"`
	PerMonth        *float64 `json:"perMonth"`
	TotalDisplay    string   `json:"totalDisplay"`
	PerMonthDisplay string   `json:"perMonthDisplay"`
}

// NewDocument converts r to its JSON shape.
func NewDocument(r Result) Document {
	rates := r.Effective.Rates
	o := r.Outputs

	stages := arrplanner.Stages(o)
	stageDocs := make([]StageDoc, 0, len(stages))
	for _, s := range stages {
		stageDocs = append(stageDocs, StageDoc{
			Key:             s.Key,
			Label:           s.Label,
			Total:           finite(s.Total),
			PerMonth:        finite(s.PerMonth),
			TotalDisplay:    format.Compact(s.Total),
			PerMonthDisplay: format.Compact(s.PerMonth),
		})
	}

	return Document{
		Scenario: string(r.State.Scenario),
		Label:    arrplanner.Lookup(r.State.Scenario).Label,
		Query:    r.State.Encode(),
		Inputs: InputsDoc{
			ARRTarget:    r.Effective.ARRTarget,
			Months:       r.Effective.Months,
			MonthlyPrice: r.Effective.MonthlyPrice,
			Rates:        rates,
			Percent: map[string]string{
				"exposureToVisit": format.Percent(rates.ExposureToVisit),
				"visitToTrial":    format.Percent(rates.VisitToTrial),
				"trialToPaid":     format.Percent(rates.TrialToPaid),
			},
		},
		Outputs: OutputsDoc{
			PaidUsersTotal:    finite(o.PaidUsersTotal),
			PaidUsersPerMonth: finite(o.PaidUsersPerMonth),
			TrialsTotal:       finite(o.TrialsTotal),
			TrialsPerMonth:    finite(o.TrialsPerMonth),
			VisitsTotal:       finite(o.VisitsTotal),
			VisitsPerMonth:    finite(o.VisitsPerMonth),
			ExposuresTotal:    finite(o.ExposuresTotal),
			ExposuresPerMonth: finite(o.ExposuresPerMonth),
		},
		Stages:  stageDocs,
		Summary: r.Summary,
	}
}

func finite(v float64) *float64 {
	if !mathutil.IsFinite(v) {
		return nil
	}
	return &v
}
