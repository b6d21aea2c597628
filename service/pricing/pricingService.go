// Package pricing computes order totals. The engine is pure: the same plan,
// cycle, and add-on set always produce the same total, so the server can
// recompute authoritatively whatever a client claims to have previewed.
package pricing

import (
	"fmt"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

// Total returns base cycle price plus scaled add-on prices.
//
// Monthly add-ons scale with the order cycle (x3 quarterly, x12 yearly);
// yearly and one_time add-ons are charged at their listed price. Inactive
// plans or add-ons are rejected, never silently dropped.
func Total(plan model.Plan, cycle model.BillingCycle, addons []model.AddOn) (float64, error) {
	if !cycle.Valid() {
		return 0, apperr.New(apperr.CodeValidation, fmt.Sprintf("invalid billing cycle %q", cycle))
	}
	if !plan.IsActive {
		return 0, apperr.New(apperr.CodeValidation, "plan is not active")
	}

	total := plan.PriceFor(cycle)
	for _, a := range addons {
		if !a.IsActive {
			return 0, apperr.New(apperr.CodeValidation, fmt.Sprintf("add-on %s is not active", a.ID))
		}
		total += AddOnPrice(a, cycle)
	}
	if total < 0 {
		return 0, apperr.New(apperr.CodeValidation, "computed total is negative")
	}
	return total, nil
}

// AddOnPrice scales a single add-on for the given order cycle.
func AddOnPrice(a model.AddOn, cycle model.BillingCycle) float64 {
	if a.BillingCycle != model.AddOnMonthly {
		return a.Price
	}
	switch cycle {
	case model.CycleQuarterly:
		return a.Price * 3
	case model.CycleYearly:
		return a.Price * 12
	default:
		return a.Price
	}
}
