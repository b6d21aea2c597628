package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brijeshkrdube/kloudserver-sub000/model"
	"github.com/brijeshkrdube/kloudserver-sub000/service/pricing"
	"github.com/brijeshkrdube/kloudserver-sub000/util/apperr"
)

func activePlan() model.Plan {
	return model.Plan{
		ID:             "p1",
		Name:           "VPS Basic",
		Type:           model.PlanVPS,
		PriceMonthly:   19.99,
		PriceQuarterly: 54.00,
		PriceYearly:    199.00,
		IsActive:       true,
	}
}

func TestTotal_PlanOnly(t *testing.T) {
	p := activePlan()

	cases := []struct {
		cycle model.BillingCycle
		want  float64
	}{
		{model.CycleMonthly, 19.99},
		{model.CycleQuarterly, 54.00},
		{model.CycleYearly, 199.00},
	}
	for _, c := range cases {
		got, err := pricing.Total(p, c.cycle, nil)
		require.NoError(t, err, c.cycle)
		require.Equal(t, c.want, got, c.cycle)
	}
}

func TestTotal_MonthlyAddOnScalesWithCycle(t *testing.T) {
	p := activePlan()
	backup := model.AddOn{ID: "a1", Price: 5, BillingCycle: model.AddOnMonthly, IsActive: true}

	// Quarterly order: $54 base + $5 x 3 = $69.
	got, err := pricing.Total(p, model.CycleQuarterly, []model.AddOn{backup})
	require.NoError(t, err)
	require.Equal(t, 69.00, got)

	got, err = pricing.Total(p, model.CycleYearly, []model.AddOn{backup})
	require.NoError(t, err)
	require.Equal(t, 199.00+60.00, got)

	got, err = pricing.Total(p, model.CycleMonthly, []model.AddOn{backup})
	require.NoError(t, err)
	require.Equal(t, 24.99, got)
}

func TestTotal_NonMonthlyAddOnsUnscaled(t *testing.T) {
	p := activePlan()
	addons := []model.AddOn{
		{ID: "a1", Price: 30, BillingCycle: model.AddOnYearly, IsActive: true},
		{ID: "a2", Price: 10, BillingCycle: model.AddOnOneTime, IsActive: true},
	}

	got, err := pricing.Total(p, model.CycleYearly, addons)
	require.NoError(t, err)
	require.Equal(t, 239.00, got)
}

func TestTotal_InvalidCycle(t *testing.T) {
	_, err := pricing.Total(activePlan(), "weekly", nil)
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.Code(err))
}

func TestTotal_InactivePlan(t *testing.T) {
	p := activePlan()
	p.IsActive = false

	_, err := pricing.Total(p, model.CycleMonthly, nil)
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.Code(err))
}

func TestTotal_InactiveAddOnRejected(t *testing.T) {
	p := activePlan()
	dead := model.AddOn{ID: "a9", Price: 5, BillingCycle: model.AddOnMonthly, IsActive: false}

	_, err := pricing.Total(p, model.CycleMonthly, []model.AddOn{dead})
	require.Error(t, err)
	require.Equal(t, apperr.CodeValidation, apperr.Code(err))
}

func TestTotal_Deterministic(t *testing.T) {
	p := activePlan()
	addons := []model.AddOn{{ID: "a1", Price: 5, BillingCycle: model.AddOnMonthly, IsActive: true}}

	first, err := pricing.Total(p, model.CycleQuarterly, addons)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := pricing.Total(p, model.CycleQuarterly, addons)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
