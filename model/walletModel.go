// model/wallet.go
package model

import "time"

type TransactionType string

const (
	TxCredit TransactionType = "credit"
	TxDebit  TransactionType = "debit"
)

// WalletTransaction rows are append-only; the user's balance always equals
// sum(credits) - sum(debits).
type WalletTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Reference   *string         `json:"reference,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

type TopupStatus string

const (
	TopupPending  TopupStatus = "pending"
	TopupApproved TopupStatus = "approved"
	TopupRejected TopupStatus = "rejected"
)

type TopupRequest struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Amount         float64       `json:"amount"`
	PaymentMethod  PaymentMethod `json:"payment_method"`
	TransactionRef *string       `json:"transaction_reference,omitempty"`
	ProofURL       *string       `json:"proof_url,omitempty"`
	Status         TopupStatus   `json:"status"`
	ProcessedBy    *string       `json:"processed_by,omitempty"`
	ProcessedAt    *time.Time    `json:"processed_at,omitempty"`
	AdminNotes     *string       `json:"admin_notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
