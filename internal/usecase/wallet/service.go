// internal/usecase/wallet/service.go
package wallet

import (
	"time"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service is the transfer engine: it orchestrates peer-to-peer payments and
// direct credits against the ledger store and serves the read-only views.
type Service struct {
	repo     *repository.LedgerRepository
	Notifier *Notifier
	log      *zap.Logger
}

func New(repo *repository.LedgerRepository, notifier *Notifier, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		Notifier: notifier,
		log:      log,
	}
}

// PaymentRequest is one peer-to-peer payment order.
type PaymentRequest struct {
	UserID      string          `json:"user_id"`
	RecipientID string          `json:"recipient_id"`
	Currency    domain.Currency `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
}

// GetWallet returns the user's wallet snapshot, provisioning it if unknown.
func (s *Service) GetWallet(userID string) *domain.Wallet {
	return s.repo.GetOrCreateWallet(userID)
}

// Balance returns the current balance, zero for unknown users.
func (s *Service) Balance(userID string, currency domain.Currency) decimal.Decimal {
	return s.repo.BalanceOf(userID, currency)
}

// Transactions returns the user's ledger, oldest first.
func (s *Service) Transactions(userID string) []domain.Transaction {
	return s.repo.Transactions(userID)
}

// AddFunds credits a wallet with no counterparty (deposit simulation and
// bank settlement both land here) and appends a completed receive entry.
// Returns the new balance.
func (s *Service) AddFunds(userID string, currency domain.Currency, amount decimal.Decimal) (decimal.Decimal, error) {
	if !currency.Valid() {
		return decimal.Zero, domain.ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}

	entry := &domain.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      domain.TransactionReceive,
		Currency:  currency,
		Amount:    amount,
		Status:    domain.TransactionCompleted,
		Timestamp: time.Now(),
	}
	if err := s.repo.Credit(userID, currency, amount, entry); err != nil {
		return decimal.Zero, err
	}

	balance := s.repo.BalanceOf(userID, currency)
	s.log.Info("funds added",
		zap.String("user_id", userID),
		zap.String("currency", string(currency)),
		zap.String("amount", amount.String()))
	s.Notifier.NotifyBalance(userID, s.repo.GetOrCreateWallet(userID))
	return balance, nil
}

// SendPayment moves amount from sender to recipient as a single atomic
// operation and writes both ledger legs with a shared timestamp. An unknown
// recipient id is not rejected: a fresh empty wallet is provisioned for it.
// Returns the sender-side entry.
func (s *Service) SendPayment(req PaymentRequest) (*domain.Transaction, error) {
	if !req.Currency.Valid() {
		return nil, domain.ErrInvalidCurrency
	}
	if !req.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now()
	sendEntry := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		Type:        domain.TransactionSend,
		Currency:    req.Currency,
		Amount:      req.Amount,
		RecipientID: req.RecipientID,
		Status:      domain.TransactionCompleted,
		Timestamp:   now,
	}
	if req.Currency.OnChain() {
		sendEntry.TxHash = utils.SimulateChainTxHash()
	}
	receiveEntry := domain.Transaction{
		ID:        uuid.NewString(),
		UserID:    req.RecipientID,
		Type:      domain.TransactionReceive,
		Currency:  req.Currency,
		Amount:    req.Amount,
		SenderID:  req.UserID,
		Status:    domain.TransactionCompleted,
		Timestamp: now,
	}

	if err := s.repo.Transfer(req.UserID, req.RecipientID, req.Currency, req.Amount, sendEntry, receiveEntry); err != nil {
		return nil, err
	}

	s.log.Info("payment sent",
		zap.String("from", req.UserID),
		zap.String("to", req.RecipientID),
		zap.String("currency", string(req.Currency)),
		zap.String("amount", req.Amount.String()))
	s.Notifier.NotifyBalance(req.UserID, s.repo.GetOrCreateWallet(req.UserID))
	s.Notifier.NotifyBalance(req.RecipientID, s.repo.GetOrCreateWallet(req.RecipientID))
	return &sendEntry, nil
}

// ReserveFunds debits a balance ahead of an asynchronous settlement so the
// funds cannot be spent twice while the transfer is in flight. No ledger
// entry is written; the bank transfer record is the history for this move.
func (s *Service) ReserveFunds(userID string, currency domain.Currency, amount decimal.Decimal) error {
	if err := s.repo.Debit(userID, currency, amount); err != nil {
		return err
	}
	s.Notifier.NotifyBalance(userID, s.repo.GetOrCreateWallet(userID))
	return nil
}

// ReleaseFunds is the compensating credit for a reservation whose settlement
// failed. It restores the balance without a ledger entry.
func (s *Service) ReleaseFunds(userID string, currency domain.Currency, amount decimal.Decimal) {
	if err := s.repo.Credit(userID, currency, amount, nil); err != nil {
		// Only a non-positive amount can fail here, and reservations are
		// validated positive before they are taken.
		s.log.Error("refund failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	s.Notifier.NotifyBalance(userID, s.repo.GetOrCreateWallet(userID))
}
