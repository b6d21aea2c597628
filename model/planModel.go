// model/plan.go
package model

import "time"

type BillingCycle string

const (
	CycleMonthly   BillingCycle = "monthly"
	CycleQuarterly BillingCycle = "quarterly"
	CycleYearly    BillingCycle = "yearly"
)

func (c BillingCycle) Valid() bool {
	return c == CycleMonthly || c == CycleQuarterly || c == CycleYearly
}

// Days is the service term length used for renewal dates.
func (c BillingCycle) Days() int {
	switch c {
	case CycleQuarterly:
		return 90
	case CycleYearly:
		return 365
	default:
		return 30
	}
}

type PlanType string

const (
	PlanVPS       PlanType = "vps"
	PlanShared    PlanType = "shared"
	PlanDedicated PlanType = "dedicated"
)

type Plan struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           PlanType  `json:"type"`
	CPU            string    `json:"cpu"`
	RAM            string    `json:"ram"`
	Storage        string    `json:"storage"`
	Bandwidth      string    `json:"bandwidth"`
	PriceMonthly   float64   `json:"price_monthly"`
	PriceQuarterly float64   `json:"price_quarterly"`
	PriceYearly    float64   `json:"price_yearly"`
	Features       []string  `json:"features"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// PriceFor returns the cycle price as configured on the plan. Cycles carry
// independent pricing; a quarterly price is not 3x the monthly one.
func (p Plan) PriceFor(c BillingCycle) float64 {
	switch c {
	case CycleQuarterly:
		return p.PriceQuarterly
	case CycleYearly:
		return p.PriceYearly
	default:
		return p.PriceMonthly
	}
}

type AddOnCycle string

const (
	AddOnMonthly AddOnCycle = "monthly"
	AddOnYearly  AddOnCycle = "yearly"
	AddOnOneTime AddOnCycle = "one_time"
)

func (c AddOnCycle) Valid() bool {
	return c == AddOnMonthly || c == AddOnYearly || c == AddOnOneTime
}

type AddOn struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Price        float64    `json:"price"`
	BillingCycle AddOnCycle `json:"billing_cycle"`
	Description  *string    `json:"description,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}
