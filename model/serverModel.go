// model/server.go
package model

import "time"

type ServerStatus string

const (
	ServerActive    ServerStatus = "active"
	ServerSuspended ServerStatus = "suspended"
)

// Server is the provisioned service record created from a paid order.
// Credential storage and display belong to the provisioning collaborator.
type Server struct {
	ID            string       `json:"id"`
	OrderID       string       `json:"order_id"`
	UserID        string       `json:"user_id"`
	IPAddress     string       `json:"ip_address"`
	Hostname      string       `json:"hostname"`
	Username      string       `json:"username"`
	Password      string       `json:"password"`
	SSHPort       int          `json:"ssh_port"`
	OS            string       `json:"os"`
	ControlPanel  *string      `json:"control_panel,omitempty"`
	PanelURL      *string      `json:"panel_url,omitempty"`
	Status        ServerStatus `json:"status"`
	PlanName      string       `json:"plan_name"`
	BillingCycle  BillingCycle `json:"billing_cycle"`
	RenewalAmount float64      `json:"renewal_amount"`
	RenewalDate   time.Time    `json:"renewal_date"`
	CreatedAt     time.Time    `json:"created_at"`
}
