package models

import "time"

// TransferHistory correlates the two ledger entries of one transfer through
// their shared transaction code. One row per successful transfer.
type TransferHistory struct {
	ID              string    `json:"id"`
	SenderID        string    `json:"sender_id"`
	ReceiverID      string    `json:"receiver_id"`
	TransactionCode string    `json:"transaction_code"`
	CreatedAt       time.Time `json:"created_at"`
}
