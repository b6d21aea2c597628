package wallet

type SubmitTopupReq struct {
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=bank_transfer crypto"`
	TransactionRef *string `json:"transaction_ref"`
	ProofURL       *string `json:"proof_url"`
}

type ProcessTopupReq struct {
	Status     string  `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes *string `json:"admin_notes"`
}

type AdjustWalletReq struct {
	Balance     float64 `json:"balance" validate:"gte=0"`
	Description string  `json:"description"`
}
