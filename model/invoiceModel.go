// model/invoice.go
package model

import "time"

type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "unpaid"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	OrderID       *string       `json:"order_id,omitempty"`
	ServerID      *string       `json:"server_id,omitempty"`
	InvoiceNumber string        `json:"invoice_number"`
	Amount        float64       `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	Description   string        `json:"description"`
	DueDate       time.Time     `json:"due_date"`
	PaidDate      *time.Time    `json:"paid_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}
