package models

import "time"

// Wallet holds a user's balance in minor currency units. The balance is
// mutated only inside a ledger transaction, never through this struct.
type Wallet struct {
	UserID     string    `json:"user_id"`
	Balance    int64     `json:"balance"`
	CardNumber string    `json:"card_number"`
	UpdatedAt  time.Time `json:"updated_at"`
}
