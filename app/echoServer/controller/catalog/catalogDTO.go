package catalog

type CreatePlanReq struct {
	Name           string   `json:"name" validate:"required"`
	Type           string   `json:"type" validate:"required,oneof=vps shared dedicated"`
	CPU            string   `json:"cpu" validate:"required"`
	RAM            string   `json:"ram" validate:"required"`
	Storage        string   `json:"storage" validate:"required"`
	Bandwidth      string   `json:"bandwidth" validate:"required"`
	PriceMonthly   float64  `json:"price_monthly" validate:"gte=0"`
	PriceQuarterly float64  `json:"price_quarterly" validate:"gte=0"`
	PriceYearly    float64  `json:"price_yearly" validate:"gte=0"`
	Features       []string `json:"features"`
}

type UpdatePlanReq struct {
	Name           *string  `json:"name"`
	CPU            *string  `json:"cpu"`
	RAM            *string  `json:"ram"`
	Storage        *string  `json:"storage"`
	Bandwidth      *string  `json:"bandwidth"`
	PriceMonthly   *float64 `json:"price_monthly" validate:"omitempty,gte=0"`
	PriceQuarterly *float64 `json:"price_quarterly" validate:"omitempty,gte=0"`
	PriceYearly    *float64 `json:"price_yearly" validate:"omitempty,gte=0"`
	Features       []string `json:"features"`
	IsActive       *bool    `json:"is_active"`
}

type CreateAddOnReq struct {
	Name         string  `json:"name" validate:"required"`
	Type         string  `json:"type" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	BillingCycle string  `json:"billing_cycle" validate:"required,oneof=monthly yearly one_time"`
	Description  *string `json:"description"`
}

type UpdateAddOnReq struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"is_active"`
}
