// internal/domain/banking.domain.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankTransferType string

const (
	BankTransferDeposit    BankTransferType = "deposit"
	BankTransferWithdrawal BankTransferType = "withdrawal"
)

// TransferRail is the simulated settlement rail. WIRE settles faster than
// ACH, modeling same-day vs multi-day rails.
type TransferRail string

const (
	RailACH  TransferRail = "ACH"
	RailWire TransferRail = "WIRE"
)

func (r TransferRail) Valid() bool {
	return r == RailACH || r == RailWire
}

// MaxAmount is the per-transfer cap for the rail, in USD.
func (r TransferRail) MaxAmount() decimal.Decimal {
	if r == RailWire {
		return decimal.NewFromInt(1_000_000)
	}
	return decimal.NewFromInt(100_000)
}

type BankTransferStatus string

const (
	BankTransferPending    BankTransferStatus = "pending"
	BankTransferProcessing BankTransferStatus = "processing"
	BankTransferCompleted  BankTransferStatus = "completed"
	BankTransferFailed     BankTransferStatus = "failed"
	BankTransferCancelled  BankTransferStatus = "cancelled"
)

// Terminal reports whether no further transition may leave the status.
func (s BankTransferStatus) Terminal() bool {
	switch s {
	case BankTransferCompleted, BankTransferFailed, BankTransferCancelled:
		return true
	}
	return false
}

type BankAccountType string

const (
	AccountChecking BankAccountType = "checking"
	AccountSavings  BankAccountType = "savings"
)

func (t BankAccountType) Valid() bool {
	return t == AccountChecking || t == AccountSavings
}

// BankAccount is an external account linked by a user. Account numbers are
// masked before leaving the registry.
type BankAccount struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	AccountNumber     string          `json:"account_number"`
	RoutingNumber     string          `json:"routing_number"`
	AccountType       BankAccountType `json:"account_type"`
	BankName          string          `json:"bank_name"`
	AccountHolderName string          `json:"account_holder_name"`
	IsVerified        bool            `json:"is_verified"`
	IsPrimary         bool            `json:"is_primary"`
	CreatedAt         time.Time       `json:"created_at"`
	LastUsed          *time.Time      `json:"last_used,omitempty"`
}

// BankTransaction records one wallet<->bank money movement. It is created in
// `processing` and moved exactly once to a terminal status by settlement.
type BankTransaction struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	BankAccountID string             `json:"bank_account_id"`
	Type          BankTransferType   `json:"type"`
	Amount        decimal.Decimal    `json:"amount"`
	Rail          TransferRail       `json:"rail"`
	Status        BankTransferStatus `json:"status"`
	Description   string             `json:"description,omitempty"`
	FailureReason string             `json:"failure_reason,omitempty"`
	Timestamp     time.Time          `json:"timestamp"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
}

// BankTransferRequest is the inbound shape for deposits and withdrawals.
type BankTransferRequest struct {
	UserID        string           `json:"user_id"`
	BankAccountID string           `json:"bank_account_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Type          BankTransferType `json:"type"`
	Rail          TransferRail     `json:"rail"`
	Description   string           `json:"description,omitempty"`
}
