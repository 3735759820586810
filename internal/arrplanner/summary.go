package arrplanner

import (
	"fmt"

	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/iwvelando/arr-planner/pkg/format"
	"github.com/iwvelando/arr-planner/pkg/mathutil"
)

// Stage is one row of a rendered funnel breakdown.
type Stage struct {
	Key      string
	Label    string
	Total    float64
	PerMonth float64
}

// Stages returns the funnel from the paid end outward.
func Stages(out Outputs) []Stage {
	return []Stage{
		{Key: "paidUsers", Label: "Paying users", Total: out.PaidUsersTotal, PerMonth: out.PaidUsersPerMonth},
		{Key: "trials", Label: "Trials", Total: out.TrialsTotal, PerMonth: out.TrialsPerMonth},
		{Key: "visits", Label: "Visits", Total: out.VisitsTotal, PerMonth: out.VisitsPerMonth},
		{Key: "exposures", Label: "Exposures", Total: out.ExposuresTotal, PerMonth: out.ExposuresPerMonth},
	}
}

// Summarize returns the one-sentence reading of a result. in is sanitized
// before its price is compared.
func Summarize(in Inputs, out Outputs) string {
	if !mathutil.IsFinite(out.VisitsPerMonth) {
		return "One of your conversion rates is set to 0%, which makes required traffic infinite."
	}

	price := Sanitize(in).MonthlyPrice
	paid := format.Compact(out.PaidUsersPerMonth)
	visits := format.Compact(out.VisitsPerMonth)

	if price <= constants.DistributionPriceCeiling && out.PaidUsersPerMonth > constants.DistributionPaidPerMonth {
		return fmt.Sprintf("At this price point, the constraint is likely distribution. "+
			"You're signing ~%s new paid users/month, which implies ~%s visits/month.", paid, visits)
	}

	return fmt.Sprintf("You need ~%s new paid users/month, implying ~%s visits/month under your current assumptions.",
		paid, visits)
}
