package services

import "errors"

// Failures a transfer can surface. Everything raised before the atomic unit
// opens leaves the store untouched; everything raised inside it has already
// been rolled back by the time the caller sees it.
var (
	ErrInvalidPIN           = errors.New("invalid pin")
	ErrReceiverNotFound     = errors.New("receiver not found")
	ErrSelfTransfer         = errors.New("cannot transfer to yourself")
	ErrInsufficientBalance  = errors.New("balance is not enough")
	ErrConfigurationMissing = errors.New("reference data missing")
	ErrTransferTimedOut     = errors.New("transfer timed out")
	ErrInvalidLogin         = errors.New("invalid email or password")
)

// TransferFailedError wraps an unexpected persistence fault. The cause is
// for logs only; clients get the opaque message.
type TransferFailedError struct{ Cause error }

func (e *TransferFailedError) Error() string { return "transfer failed" }

func (e *TransferFailedError) Unwrap() error { return e.Cause }
