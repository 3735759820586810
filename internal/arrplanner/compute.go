package arrplanner

import (
	"math"

	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
)

// Inputs are the user-facing planner parameters. Any value is accepted;
// Compute sanitizes before doing arithmetic.
type Inputs struct {
	ARRTarget    float64 `json:"arrTarget" yaml:"arrTarget"`
	Months       float64 `json:"months" yaml:"months"`
	MonthlyPrice float64 `json:"monthlyPrice" yaml:"monthlyPrice"`
	Rates        Rates   `json:"rates" yaml:"rates"`
}

// Outputs are the per-stage volumes required to hit the ARR target. A stage
// behind a zero conversion rate is +Inf, as is everything upstream of it.
type Outputs struct {
	PaidUsersTotal    float64
	PaidUsersPerMonth float64
	TrialsTotal       float64
	TrialsPerMonth    float64
	VisitsTotal       float64
	VisitsPerMonth    float64
	ExposuresTotal    float64
	ExposuresPerMonth float64
}

// DefaultInputs returns the planner defaults with the Base preset rates.
func DefaultInputs() Inputs {
	return Inputs{
		ARRTarget:    constants.DefaultARRTarget,
		Months:       constants.DefaultMonths,
		MonthlyPrice: constants.DefaultMonthlyPrice,
		Rates:        PresetRates(Base),
	}
}

// Sanitize replaces unusable inputs with defaults: non-finite or
// non-positive amounts fall back, months is rounded to a whole number of at
// least one, and each rate is clamped to [0,1] with NaN treated as 0.
func Sanitize(in Inputs) Inputs {
	months := math.Round(mathutil.SafePositive(in.Months, constants.DefaultMonths))
	if months < constants.MinimumMonths {
		months = constants.MinimumMonths
	}

	return Inputs{
		ARRTarget:    mathutil.SafePositive(in.ARRTarget, constants.DefaultARRTarget),
		Months:       months,
		MonthlyPrice: mathutil.SafePositive(in.MonthlyPrice, constants.DefaultMonthlyPrice),
		Rates:        in.Rates.Clamp(),
	}
}

// Clamp bounds every rate to [0,1].
func (r Rates) Clamp() Rates {
	return Rates{
		ExposureToVisit: mathutil.Clamp01(r.ExposureToVisit),
		VisitToTrial:    mathutil.Clamp01(r.VisitToTrial),
		TrialToPaid:     mathutil.Clamp01(r.TrialToPaid),
	}
}

// Compute back-calculates the funnel from the revenue target. It never fails
// and has no side effects.
func Compute(raw Inputs) Outputs {
	in := Sanitize(raw)
	r := in.Rates

	// ARR = paid users * monthly price * 12
	paid := in.ARRTarget / (in.MonthlyPrice * constants.MonthsPerYear)
	trials := divideOrInf(paid, r.TrialToPaid)
	visits := divideOrInf(trials, r.VisitToTrial)
	exposures := divideOrInf(visits, r.ExposureToVisit)

	return Outputs{
		PaidUsersTotal:    paid,
		PaidUsersPerMonth: paid / in.Months,
		TrialsTotal:       trials,
		TrialsPerMonth:    trials / in.Months,
		VisitsTotal:       visits,
		VisitsPerMonth:    visits / in.Months,
		ExposuresTotal:    exposures,
		ExposuresPerMonth: exposures / in.Months,
	}
}

func divideOrInf(volume, rate float64) float64 {
	if rate > 0 {
		return volume / rate
	}
	return math.Inf(1)
}
