package repository

import (
	"sync"
	"time"

	"wallet-ledger/internal/domain"
)

// BankTransactionRepository stores bank transfer records in memory. Records
// are created in `processing` and transition exactly once to a terminal
// status; the repository rejects any second transition.
type BankTransactionRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.BankTransaction
	byUser map[string][]string // ids in creation order
}

func NewBankTransactionRepository() *BankTransactionRepository {
	return &BankTransactionRepository{
		byID:   make(map[string]*domain.BankTransaction),
		byUser: make(map[string][]string),
	}
}

func (r *BankTransactionRepository) Create(tx domain.BankTransaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := tx
	r.byID[tx.ID] = &stored
	r.byUser[tx.UserID] = append(r.byUser[tx.UserID], tx.ID)
}

func (r *BankTransactionRepository) Get(id string) (*domain.BankTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	snap := *tx
	return &snap, nil
}

// MarkCompleted transitions a transfer to completed and stamps the
// completion time.
func (r *BankTransactionRepository) MarkCompleted(id string) error {
	return r.transition(id, func(tx *domain.BankTransaction) {
		now := time.Now()
		tx.Status = domain.BankTransferCompleted
		tx.CompletedAt = &now
	})
}

// MarkFailed transitions a transfer to failed with a human-readable reason.
func (r *BankTransactionRepository) MarkFailed(id, reason string) error {
	return r.transition(id, func(tx *domain.BankTransaction) {
		tx.Status = domain.BankTransferFailed
		tx.FailureReason = reason
	})
}

// MarkCancelled is for the account registry's use; the settlement path never
// cancels a scheduled transfer.
func (r *BankTransactionRepository) MarkCancelled(id string) error {
	return r.transition(id, func(tx *domain.BankTransaction) {
		tx.Status = domain.BankTransferCancelled
	})
}

func (r *BankTransactionRepository) transition(id string, apply func(*domain.BankTransaction)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.byID[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	if tx.Status.Terminal() {
		return domain.ErrTransferSettled
	}
	apply(tx)
	return nil
}

// ListByUser returns the user's transfers most-recent-first, bounded by
// limit. limit <= 0 means no bound.
func (r *BankTransactionRepository) ListByUser(userID string, limit int) []domain.BankTransaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	n := len(ids)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.BankTransaction, 0, n)
	for i := len(ids) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, *r.byID[ids[i]])
	}
	return out
}
