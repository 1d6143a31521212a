package repository

import (
	"sort"
	"sync"
	"time"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/utils/id"
)

// LinkAccountInput carries the fields a user submits when linking an
// external bank account.
type LinkAccountInput struct {
	AccountNumber     string
	RoutingNumber     string
	AccountType       domain.BankAccountType
	BankName          string
	AccountHolderName string
}

// BankAccountRepository is the in-memory bank account registry. Accounts are
// linked unverified; verification is a demo stand-in for micro-deposits.
// Account numbers are masked on every read path.
type BankAccountRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.BankAccount
	byUser map[string][]string
}

func NewBankAccountRepository() *BankAccountRepository {
	return &BankAccountRepository{
		byID:   make(map[string]*domain.BankAccount),
		byUser: make(map[string][]string),
	}
}

// Link registers a new account. The user's first account becomes primary.
func (r *BankAccountRepository) Link(userID string, input LinkAccountInput) *domain.BankAccount {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct := &domain.BankAccount{
		ID:                id.Generate("ba"),
		UserID:            userID,
		AccountNumber:     input.AccountNumber,
		RoutingNumber:     input.RoutingNumber,
		AccountType:       input.AccountType,
		BankName:          input.BankName,
		AccountHolderName: input.AccountHolderName,
		IsVerified:        false,
		IsPrimary:         len(r.byUser[userID]) == 0,
		CreatedAt:         time.Now(),
	}
	r.byID[acct.ID] = acct
	r.byUser[userID] = append(r.byUser[userID], acct.ID)

	return masked(acct)
}

// Account returns the account if it exists and belongs to userID.
func (r *BankAccountRepository) Account(userID, accountID string) (*domain.BankAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acct, ok := r.byID[accountID]
	if !ok || acct.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	return masked(acct), nil
}

// List returns the user's accounts, primary first, then newest first.
func (r *BankAccountRepository) List(userID string) []domain.BankAccount {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.BankAccount, 0, len(r.byUser[userID]))
	for _, acctID := range r.byUser[userID] {
		out = append(out, *masked(r.byID[acctID]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsPrimary != out[j].IsPrimary {
			return out[i].IsPrimary
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Verify marks the account verified. Demo semantics: no micro-deposit round
// trip, the flag just flips.
func (r *BankAccountRepository) Verify(userID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.byID[accountID]
	if !ok || acct.UserID != userID {
		return domain.ErrAccountNotFound
	}
	acct.IsVerified = true
	return nil
}

// SetPrimary makes accountID the user's primary account and demotes the rest.
func (r *BankAccountRepository) SetPrimary(userID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.byID[accountID]
	if !ok || target.UserID != userID {
		return domain.ErrAccountNotFound
	}
	for _, acctID := range r.byUser[userID] {
		r.byID[acctID].IsPrimary = false
	}
	target.IsPrimary = true
	return nil
}

// Remove unlinks an account.
func (r *BankAccountRepository) Remove(userID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.byID[accountID]
	if !ok || acct.UserID != userID {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, accountID)
	ids := r.byUser[userID]
	for i, acctID := range ids {
		if acctID == accountID {
			r.byUser[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// MarkUsed stamps the account's last-used time; called after a settlement
// completes against it.
func (r *BankAccountRepository) MarkUsed(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if acct, ok := r.byID[accountID]; ok {
		now := time.Now()
		acct.LastUsed = &now
	}
}

// masked copies the account with all but the last four digits of the account
// number hidden.
func masked(acct *domain.BankAccount) *domain.BankAccount {
	snap := *acct
	snap.AccountNumber = maskAccountNumber(acct.AccountNumber)
	return &snap
}

func maskAccountNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}
