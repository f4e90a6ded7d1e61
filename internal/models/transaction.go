package models

import "time"

// Transaction type codes. The catalog in the database is the source of
// truth; these constants name the two codes the transfer engine uses.
const (
	TypeTransfer = "transfer"
	TypeReceive  = "receive"
)

// PaymentMethodInternal is the fixed settlement channel for wallet-to-wallet
// transfers.
const PaymentMethodInternal = "bwa"

type TransactionStatus string

const (
	TxnSuccess TransactionStatus = "success"
	TxnPending TransactionStatus = "pending"
	TxnFailed  TransactionStatus = "failed"
)

// Transaction is one side of a money movement. Rows are append-only.
type Transaction struct {
	ID                string            `json:"id"`
	UserID            string            `json:"user_id"`
	TransactionTypeID int32             `json:"transaction_type_id"`
	PaymentMethodID   int32             `json:"payment_method_id"`
	Description       string            `json:"description"`
	Amount            int64             `json:"amount"`
	TransactionCode   string            `json:"transaction_code"`
	Status            TransactionStatus `json:"status"`
	CreatedAt         time.Time         `json:"created_at"`
}
