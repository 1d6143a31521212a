// internal/domain/wallet.domain.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a point-in-time snapshot of one user's balances. Wallets are
// provisioned lazily on first reference and live for the process lifetime.
type Wallet struct {
	UserID   string                       `json:"user_id"`
	Balances map[Currency]decimal.Decimal `json:"balances"`
}

// NewWallet returns a wallet with every supported currency at zero.
func NewWallet(userID string) *Wallet {
	balances := make(map[Currency]decimal.Decimal, len(Currencies()))
	for _, c := range Currencies() {
		balances[c] = decimal.Zero
	}
	return &Wallet{UserID: userID, Balances: balances}
}

type TransactionType string

const (
	TransactionSend    TransactionType = "send"
	TransactionReceive TransactionType = "receive"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one immutable leg of a transfer in a user's ledger. A
// peer-to-peer payment writes two of these, one per side, cross-referencing
// each other through RecipientID/SenderID and sharing a timestamp.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Currency    Currency          `json:"currency"`
	Amount      decimal.Decimal   `json:"amount"`
	RecipientID string            `json:"recipient_id,omitempty"` // counterparty on a send leg
	SenderID    string            `json:"sender_id,omitempty"`    // counterparty on a receive leg
	Status      TransactionStatus `json:"status"`
	TxHash      string            `json:"tx_hash,omitempty"` // simulated chain reference
	Timestamp   time.Time         `json:"timestamp"`
}
