package order

type CreateOrderReq struct {
	PlanID        string   `json:"plan_id" validate:"required"`
	BillingCycle  string   `json:"billing_cycle" validate:"required,oneof=monthly quarterly yearly"`
	OS            string   `json:"os" validate:"required"`
	ControlPanel  *string  `json:"control_panel"`
	AddOns        []string `json:"addons"`
	PaymentMethod string   `json:"payment_method" validate:"required,oneof=wallet bank_transfer crypto"`
	Notes         *string  `json:"notes"`
}

type PaymentProofReq struct {
	ProofURL       string  `json:"proof_url" validate:"required"`
	TransactionRef *string `json:"transaction_ref"`
}

type PaymentDecisionReq struct {
	Status string `json:"status" validate:"required,oneof=paid failed"`
}
