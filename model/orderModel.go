// model/order.go
package model

import "time"

type PaymentMethod string

const (
	PayWallet       PaymentMethod = "wallet"
	PayBankTransfer PaymentMethod = "bank_transfer"
	PayCrypto       PaymentMethod = "crypto"
)

func (m PaymentMethod) Valid() bool {
	return m == PayWallet || m == PayBankTransfer || m == PayCrypto
}

// External returns true for methods settled by staff-verified proof.
func (m PaymentMethod) External() bool {
	return m == PayBankTransfer || m == PayCrypto
}

type PaymentStatus string

const (
	PaymentPending      PaymentStatus = "pending"
	PaymentVerification PaymentStatus = "pending_verification"
	PaymentPaid         PaymentStatus = "paid"
	PaymentFailed       PaymentStatus = "failed"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderActive    OrderStatus = "active"
	OrderCancelled OrderStatus = "cancelled"
)

// Order snapshots the plan name and computed amount at creation time; later
// plan price edits never change it.
type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	PlanID          string        `json:"plan_id"`
	PlanName        string        `json:"plan_name"`
	BillingCycle    BillingCycle  `json:"billing_cycle"`
	OS              string        `json:"os"`
	ControlPanel    *string       `json:"control_panel,omitempty"`
	AddOns          []string      `json:"addons"`
	Amount          float64       `json:"amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	OrderStatus     OrderStatus   `json:"order_status"`
	PaymentProofURL *string       `json:"payment_proof_url,omitempty"`
	PaymentRef      *string       `json:"payment_reference,omitempty"`
	Notes           *string       `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
