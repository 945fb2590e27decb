package account

import "time"

// Status is the synthetic state of a customer account.
type Status string

const (
	StatusActive              Status = "active"
	StatusRestricted          Status = "restricted"
	StatusPendingVerification Status = "pending_verification"
	StatusLocked              Status = "locked"
)

// Currency used by every synthetic account.
const Currency = "BRL"

// Transaction is an immutable entry in an account history.
type Transaction struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

// Record is the per-user synthetic account state.
type Record struct {
	UserID        string        `json:"user_id"`
	AccountNumber string        `json:"account_number"`
	Status        Status        `json:"status"`
	Balance       float64       `json:"balance"`
	Currency      string        `json:"currency"`
	LastLogin     time.Time     `json:"last_login"`
	Transactions  []Transaction `json:"transactions"`
}
