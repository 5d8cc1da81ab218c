package models

import "time"

// Positive amounts are expenses, negative amounts are inflows (Plaid convention).
type Transaction struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	AccountID          int64     `json:"account_id"`
	Amount             float64   `json:"amount"`
	Description        string    `json:"description"`
	MerchantName       *string   `json:"merchant_name"`
	Category           string    `json:"category"`
	Date               time.Time `json:"date"`
	Pending            bool      `json:"pending"`
	Notes              *string   `json:"notes"`
	PlaidTransactionID *string   `json:"plaid_transaction_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
}
