package model

import "time"

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// User is owned by the auth collaborator; this core only reads it and
// mutates wallet_balance through the ledger.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Company       *string   `json:"company,omitempty"`
	Role          string    `json:"role"`
	WalletBalance float64   `json:"wallet_balance"`
	IsVerified    bool      `json:"is_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func IsStaff(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
