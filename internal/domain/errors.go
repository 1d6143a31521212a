package domain

import "errors"

// Validation
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCurrency = errors.New("unsupported currency")
	ErrInvalidRail     = errors.New("invalid transfer rail")
	ErrLimitExceeded   = errors.New("amount exceeds transfer rail limit")
)

// Ledger
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Banking
var (
	ErrAccountNotFound    = errors.New("bank account not found")
	ErrAccountNotVerified = errors.New("bank account not verified")
	ErrTransferNotFound   = errors.New("bank transfer not found")
	ErrTransferSettled    = errors.New("bank transfer already in a terminal state")
	ErrSettlementFailed   = errors.New("settlement failed")
)
