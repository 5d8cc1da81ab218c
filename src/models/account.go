package models

import "time"

// Valid account types, mirrored by the accounts.type CHECK constraint.
var AccountTypes = map[string]bool{
	"checking":   true,
	"savings":    true,
	"credit":     true,
	"investment": true,
}

type Account struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	InstitutionName  *string   `json:"institution_name"`
	CurrentBalance   float64   `json:"current_balance"`
	AvailableBalance *float64  `json:"available_balance"`
	CreditLimit      *float64  `json:"credit_limit"`
	IsManual         bool      `json:"is_manual"`
	IsActive         bool      `json:"is_active"`
	PlaidAccountID   *string   `json:"plaid_account_id,omitempty"`
	PlaidItemID      *int64    `json:"plaid_item_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
