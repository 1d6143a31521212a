// internal/usecase/banking/service.go
package banking

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/utils/id"
	"wallet-ledger/internal/worker"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AccountRegistry is the bank account collaborator: it answers whether an
// account exists, who owns it, and whether it is verified.
type AccountRegistry interface {
	Account(userID, accountID string) (*domain.BankAccount, error)
	MarkUsed(accountID string)
}

// WalletFunds is the slice of the transfer engine the settlement machine
// needs: USD credits with ledger entries, and reserve/release primitives.
type WalletFunds interface {
	AddFunds(userID string, currency domain.Currency, amount decimal.Decimal) (decimal.Decimal, error)
	ReserveFunds(userID string, currency domain.Currency, amount decimal.Decimal) error
	ReleaseFunds(userID string, currency domain.Currency, amount decimal.Decimal)
	Balance(userID string, currency domain.Currency) decimal.Decimal
}

// Service is the bank settlement state machine. Requests are validated
// synchronously, recorded in `processing`, and settled by a deferred
// callback that always drives the record to a terminal state.
//
// Deposits credit after settlement so a failed transfer never delivers
// funds. Withdrawals debit before settlement so in-flight funds cannot be
// spent twice, and refund on failure.
type Service struct {
	txns     *repository.BankTransactionRepository
	accounts AccountRegistry
	funds    WalletFunds
	gateway  SettlementGateway
	sched    worker.Scheduler
	log      *zap.Logger
}

func New(txns *repository.BankTransactionRepository, accounts AccountRegistry, funds WalletFunds, gateway SettlementGateway, sched worker.Scheduler, log *zap.Logger) *Service {
	return &Service{
		txns:     txns,
		accounts: accounts,
		funds:    funds,
		gateway:  gateway,
		sched:    sched,
		log:      log,
	}
}

// Deposit accepts a bank-to-wallet transfer. The USD credit happens only
// when the scheduled settlement fires and succeeds.
func (s *Service) Deposit(ctx context.Context, req domain.BankTransferRequest) (*domain.BankTransaction, error) {
	acct, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	tx := s.newTransaction(req, domain.BankTransferDeposit, fmt.Sprintf("Deposit from %s", acct.BankName))
	s.txns.Create(tx)

	s.sched.Schedule(req.Rail, func() { s.settleDeposit(tx.ID) })

	s.log.Info("bank deposit accepted",
		zap.String("tx_id", tx.ID),
		zap.String("user_id", req.UserID),
		zap.String("rail", string(req.Rail)),
		zap.String("amount", req.Amount.String()))
	return &tx, nil
}

// Withdraw accepts a wallet-to-bank transfer. The USD balance is debited
// immediately; settlement failure refunds it in full.
func (s *Service) Withdraw(ctx context.Context, req domain.BankTransferRequest) (*domain.BankTransaction, error) {
	acct, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	if err := s.funds.ReserveFunds(req.UserID, domain.CurrencyUSD, req.Amount); err != nil {
		return nil, err
	}

	tx := s.newTransaction(req, domain.BankTransferWithdrawal, fmt.Sprintf("Withdrawal to %s", acct.BankName))
	s.txns.Create(tx)

	s.sched.Schedule(req.Rail, func() { s.settleWithdrawal(tx.ID) })

	s.log.Info("bank withdrawal accepted",
		zap.String("tx_id", tx.ID),
		zap.String("user_id", req.UserID),
		zap.String("rail", string(req.Rail)),
		zap.String("amount", req.Amount.String()))
	return &tx, nil
}

// Transactions returns the user's bank transfers, most recent first.
func (s *Service) Transactions(userID string, limit int) []domain.BankTransaction {
	if limit <= 0 {
		limit = 50
	}
	return s.txns.ListByUser(userID, limit)
}

// Transaction returns a single bank transfer; polling it is the only way to
// observe post-acceptance settlement failure.
func (s *Service) Transaction(txID string) (*domain.BankTransaction, error) {
	return s.txns.Get(txID)
}

func (s *Service) validate(req domain.BankTransferRequest) (*domain.BankAccount, error) {
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if !req.Rail.Valid() {
		return nil, domain.ErrInvalidRail
	}
	if req.Amount.GreaterThan(req.Rail.MaxAmount()) {
		return nil, fmt.Errorf("%w: %s cap is %s USD", domain.ErrLimitExceeded, req.Rail, req.Rail.MaxAmount())
	}

	acct, err := s.accounts.Account(req.UserID, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if !acct.IsVerified {
		return nil, domain.ErrAccountNotVerified
	}
	return acct, nil
}

func (s *Service) newTransaction(req domain.BankTransferRequest, kind domain.BankTransferType, defaultDescription string) domain.BankTransaction {
	description := req.Description
	if description == "" {
		description = defaultDescription
	}
	return domain.BankTransaction{
		ID:            id.Generate("btx"),
		UserID:        req.UserID,
		BankAccountID: req.BankAccountID,
		Type:          kind,
		Amount:        req.Amount,
		Rail:          req.Rail,
		Status:        domain.BankTransferProcessing,
		Description:   description,
		Timestamp:     time.Now(),
	}
}

// settleDeposit runs on the scheduler. Every path ends in a terminal status.
func (s *Service) settleDeposit(txID string) {
	tx, err := s.txns.Get(txID)
	if err != nil {
		s.log.Error("settlement for unknown deposit", zap.String("tx_id", txID), zap.Error(err))
		return
	}

	ctx := context.Background()
	if err := s.gateway.Settle(ctx, *tx); err != nil {
		s.fail(txID, "deposit", err)
		return
	}
	if _, err := s.funds.AddFunds(tx.UserID, domain.CurrencyUSD, tx.Amount); err != nil {
		s.fail(txID, "deposit", fmt.Errorf("%w: could not credit wallet: %v", domain.ErrSettlementFailed, err))
		return
	}

	s.complete(tx, "deposit")
}

// settleWithdrawal runs on the scheduler. On failure the reserved funds are
// credited back before the record is marked failed; skipping the refund
// would break balance conservation.
func (s *Service) settleWithdrawal(txID string) {
	tx, err := s.txns.Get(txID)
	if err != nil {
		s.log.Error("settlement for unknown withdrawal", zap.String("tx_id", txID), zap.Error(err))
		return
	}

	ctx := context.Background()
	if err := s.gateway.Settle(ctx, *tx); err != nil {
		s.funds.ReleaseFunds(tx.UserID, domain.CurrencyUSD, tx.Amount)
		s.fail(txID, "withdrawal", err)
		return
	}

	s.complete(tx, "withdrawal")
}

func (s *Service) complete(tx *domain.BankTransaction, kind string) {
	if err := s.txns.MarkCompleted(tx.ID); err != nil {
		s.log.Error("could not complete "+kind, zap.String("tx_id", tx.ID), zap.Error(err))
		return
	}
	s.accounts.MarkUsed(tx.BankAccountID)
	s.log.Info(kind+" settled", zap.String("tx_id", tx.ID))
}

func (s *Service) fail(txID, kind string, cause error) {
	if err := s.txns.MarkFailed(txID, cause.Error()); err != nil {
		s.log.Error("could not fail "+kind, zap.String("tx_id", txID), zap.Error(err))
		return
	}
	s.log.Warn(kind+" settlement failed", zap.String("tx_id", txID), zap.Error(cause))
}
