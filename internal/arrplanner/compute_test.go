package arrplanner

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/arr-planner/pkg/mathutil"
)

func baseInputs() Inputs {
	return Inputs{
		ARRTarget:    1_000_000,
		Months:       36,
		MonthlyPrice: 20,
		Rates:        Rates{ExposureToVisit: 0.02, VisitToTrial: 0.038, TrialToPaid: 0.18},
	}
}

func TestComputeBaseScenario(t *testing.T) {
	out := Compute(baseInputs())

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"PaidUsersTotal", out.PaidUsersTotal, 4166.67},
		{"PaidUsersPerMonth", out.PaidUsersPerMonth, 115.74},
		{"TrialsTotal", out.TrialsTotal, 23148.15},
		{"TrialsPerMonth", out.TrialsPerMonth, 643.00},
		{"VisitsTotal", out.VisitsTotal, 609161.79},
		{"VisitsPerMonth", out.VisitsPerMonth, 16921.16},
		{"ExposuresTotal", out.ExposuresTotal, 30458089.67},
		{"ExposuresPerMonth", out.ExposuresPerMonth, 846058.05},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			if !mathutil.WithinTolerance(c.got, c.expected, 0.01) {
				t.Errorf("%s = %.4f, expected %.2f", c.name, c.got, c.expected)
			}
		})
	}
}

func TestComputePaidUsersAlwaysFinite(t *testing.T) {
	rateValues := []float64{0, 0.001, 0.5, 1}
	for _, e2v := range rateValues {
		for _, v2t := range rateValues {
			for _, t2p := range rateValues {
				in := Inputs{
					ARRTarget:    250_000,
					Months:       18,
					MonthlyPrice: 49,
					Rates:        Rates{ExposureToVisit: e2v, VisitToTrial: v2t, TrialToPaid: t2p},
				}
				out := Compute(in)
				if !mathutil.IsFinite(out.PaidUsersTotal) || !mathutil.IsFinite(out.PaidUsersPerMonth) {
					t.Fatalf("paid users not finite for rates %+v: %+v", in.Rates, out)
				}
			}
		}
	}
}

func TestComputeZeroRatesPropagateInfinity(t *testing.T) {
	tests := []struct {
		name         string
		rates        Rates
		infTrials    bool
		infVisits    bool
		infExposures bool
	}{
		{
			name:         "trial to paid zero",
			rates:        Rates{ExposureToVisit: 0.05, VisitToTrial: 0.06, TrialToPaid: 0},
			infTrials:    true,
			infVisits:    true,
			infExposures: true,
		},
		{
			name:         "visit to trial zero",
			rates:        Rates{ExposureToVisit: 0.05, VisitToTrial: 0, TrialToPaid: 0.25},
			infVisits:    true,
			infExposures: true,
		},
		{
			name:         "exposure to visit zero",
			rates:        Rates{ExposureToVisit: 0, VisitToTrial: 0.06, TrialToPaid: 0.25},
			infExposures: true,
		},
		{
			name:  "all positive",
			rates: Rates{ExposureToVisit: 0.05, VisitToTrial: 0.06, TrialToPaid: 0.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			in.Rates = tt.rates
			out := Compute(in)

			assertInf := func(label string, v float64, want bool) {
				t.Helper()
				if math.IsInf(v, 1) != want {
					t.Errorf("%s = %v, expected +Inf: %v", label, v, want)
				}
			}
			assertInf("TrialsTotal", out.TrialsTotal, tt.infTrials)
			assertInf("TrialsPerMonth", out.TrialsPerMonth, tt.infTrials)
			assertInf("VisitsTotal", out.VisitsTotal, tt.infVisits)
			assertInf("VisitsPerMonth", out.VisitsPerMonth, tt.infVisits)
			assertInf("ExposuresTotal", out.ExposuresTotal, tt.infExposures)
			assertInf("ExposuresPerMonth", out.ExposuresPerMonth, tt.infExposures)
		})
	}
}

func TestComputeFallbacks(t *testing.T) {
	expected := Compute(baseInputs())

	tests := []struct {
		name   string
		mutate func(*Inputs)
	}{
		{"negative arr target", func(in *Inputs) { in.ARRTarget = -5 }},
		{"zero arr target", func(in *Inputs) { in.ARRTarget = 0 }},
		{"NaN arr target", func(in *Inputs) { in.ARRTarget = math.NaN() }},
		{"infinite arr target", func(in *Inputs) { in.ARRTarget = math.Inf(1) }},
		{"negative months", func(in *Inputs) { in.Months = -1 }},
		{"NaN months", func(in *Inputs) { in.Months = math.NaN() }},
		{"fractional months round", func(in *Inputs) { in.Months = 36.4 }},
		{"zero price", func(in *Inputs) { in.MonthlyPrice = 0 }},
		{"infinite price", func(in *Inputs) { in.MonthlyPrice = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInputs()
			tt.mutate(&in)
			if got := Compute(in); got != expected {
				t.Errorf("Compute(%+v) = %+v, expected %+v", in, got, expected)
			}
		})
	}
}

func TestComputeRateClamping(t *testing.T) {
	in := baseInputs()
	in.Rates = Rates{ExposureToVisit: 2, VisitToTrial: math.NaN(), TrialToPaid: -0.5}
	out := Compute(in)

	// t2p clamps to 0 which makes every upstream stage infinite
	if !math.IsInf(out.TrialsTotal, 1) {
		t.Errorf("TrialsTotal = %v, expected +Inf", out.TrialsTotal)
	}

	in.Rates = Rates{ExposureToVisit: 2, VisitToTrial: 1.5, TrialToPaid: 1}
	out = Compute(in)
	if !mathutil.WithinTolerance(out.ExposuresTotal, out.PaidUsersTotal, 1e-9) {
		t.Errorf("rates above 1 should clamp to 1: exposures %v, paid %v", out.ExposuresTotal, out.PaidUsersTotal)
	}
}

func TestSanitizeMonthsMinimum(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0.4, 1},
		{0.5, 1},
		{1.49, 1},
		{1.5, 2},
		{35.5, 36},
		{0, 36},
	}

	for _, tt := range tests {
		got := Sanitize(Inputs{Months: tt.input}).Months
		if got != tt.expected {
			t.Errorf("Sanitize(months=%v).Months = %v, expected %v", tt.input, got, tt.expected)
		}
	}

	out := Compute(Inputs{ARRTarget: 1200, Months: 0.4, MonthlyPrice: 10, Rates: PresetRates(Base)})
	if !mathutil.IsFinite(out.PaidUsersPerMonth) {
		t.Fatalf("PaidUsersPerMonth = %v, expected finite value for sub-month horizon", out.PaidUsersPerMonth)
	}
	if out.PaidUsersPerMonth != out.PaidUsersTotal {
		t.Errorf("one-month horizon should put every paid user in the first month, got %v of %v",
			out.PaidUsersPerMonth, out.PaidUsersTotal)
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	in := baseInputs()
	first := Compute(in)
	for i := 0; i < 10; i++ {
		if got := Compute(in); got != first {
			t.Fatalf("Compute returned %+v on iteration %d, expected %+v", got, i, first)
		}
	}
}

func TestStages(t *testing.T) {
	out := Compute(baseInputs())
	stages := Stages(out)

	if len(stages) != 4 {
		t.Fatalf("expected 4 stages, got %d", len(stages))
	}
	wantKeys := []string{"paidUsers", "trials", "visits", "exposures"}
	for i, key := range wantKeys {
		if stages[i].Key != key {
			t.Errorf("stage %d key = %s, expected %s", i, stages[i].Key, key)
		}
	}
	if stages[3].Total != out.ExposuresTotal || stages[3].PerMonth != out.ExposuresPerMonth {
		t.Errorf("exposures stage mismatch: %+v", stages[3])
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		inputs   Inputs
		contains []string
	}{
		{
			name:     "base assumptions",
			inputs:   baseInputs(),
			contains: []string{"You need ~116 new paid users/month", "~16.92k visits/month", "current assumptions"},
		},
		{
			name: "cheap product with fast growth",
			inputs: Inputs{
				ARRTarget:    1_000_000,
				Months:       12,
				MonthlyPrice: 10,
				Rates:        PresetRates(Base),
			},
			contains: []string{"constraint is likely distribution", "~694 new paid users/month", "~101.53k visits/month"},
		},
		{
			name: "zero conversion rate",
			inputs: Inputs{
				ARRTarget:    1_000_000,
				Months:       36,
				MonthlyPrice: 20,
				Rates:        Rates{ExposureToVisit: 0.02, VisitToTrial: 0, TrialToPaid: 0.18},
			},
			contains: []string{"set to 0%", "infinite"},
		},
		{
			name: "invalid price falls back before distribution check",
			inputs: Inputs{
				ARRTarget:    1_000_000,
				Months:       12,
				MonthlyPrice: -1,
				Rates:        PresetRates(Base),
			},
			contains: []string{"constraint is likely distribution"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Summarize(tt.inputs, Compute(tt.inputs))
			for _, want := range tt.contains {
				if !strings.Contains(summary, want) {
					t.Errorf("summary %q does not contain %q", summary, want)
				}
			}
		})
	}
}
