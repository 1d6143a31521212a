package banking

import (
	"context"

	"wallet-ledger/internal/domain"
)

// SettlementGateway models the external execution of a transfer on its rail.
// The settlement state machine calls it once per scheduled transfer; an error
// forces the failed terminal state (with refund for withdrawals).
type SettlementGateway interface {
	Settle(ctx context.Context, tx domain.BankTransaction) error
}

// SimulatedGateway always settles. Real ACH/wire execution is out of scope;
// failure behavior is exercised by substituting this implementation.
type SimulatedGateway struct{}

func (SimulatedGateway) Settle(ctx context.Context, tx domain.BankTransaction) error {
	return nil
}
