package repository

import (
	"sync"

	"wallet-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// walletState is the live, mutable record for one user. Its mutex serializes
// every balance mutation touching the wallet, including settlement callbacks.
type walletState struct {
	mu       sync.Mutex
	balances map[domain.Currency]decimal.Decimal
}

// LedgerRepository is the single source of truth for balances and the
// append-only transaction log. Wallets are provisioned lazily; nothing is
// ever deleted. Operations on disjoint wallets may run concurrently.
type LedgerRepository struct {
	mu      sync.RWMutex // guards the wallet registry, not balances
	wallets map[string]*walletState

	logMu sync.RWMutex
	logs  map[string][]domain.Transaction
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		wallets: make(map[string]*walletState),
		logs:    make(map[string][]domain.Transaction),
	}
}

// walletFor returns the live state for a user, provisioning an empty wallet
// on first reference.
func (r *LedgerRepository) walletFor(userID string) *walletState {
	r.mu.RLock()
	w, ok := r.wallets[userID]
	r.mu.RUnlock()
	if ok {
		return w
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok = r.wallets[userID]; ok {
		return w
	}
	w = &walletState{balances: make(map[domain.Currency]decimal.Decimal, len(domain.Currencies()))}
	for _, c := range domain.Currencies() {
		w.balances[c] = decimal.Zero
	}
	r.wallets[userID] = w
	return w
}

// GetOrCreateWallet returns a snapshot of the user's wallet, provisioning it
// if the user is unknown. Never fails.
func (r *LedgerRepository) GetOrCreateWallet(userID string) *domain.Wallet {
	w := r.walletFor(userID)
	snap := &domain.Wallet{UserID: userID, Balances: make(map[domain.Currency]decimal.Decimal, len(w.balances))}

	w.mu.Lock()
	defer w.mu.Unlock()
	for c, b := range w.balances {
		snap.Balances[c] = b
	}
	return snap
}

// BalanceOf returns the current balance, zero for an unknown user or currency.
func (r *LedgerRepository) BalanceOf(userID string, currency domain.Currency) decimal.Decimal {
	r.mu.RLock()
	w, ok := r.wallets[userID]
	r.mu.RUnlock()
	if !ok {
		return decimal.Zero
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[currency]
}

// Credit increases a balance and, when entry is non-nil, appends it to the
// owner's ledger. A nil entry is used for compensating refunds, which restore
// the balance without writing a wallet ledger line.
func (r *LedgerRepository) Credit(userID string, currency domain.Currency, amount decimal.Decimal, entry *domain.Transaction) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	w := r.walletFor(userID)
	w.mu.Lock()
	w.balances[currency] = w.balances[currency].Add(amount)
	w.mu.Unlock()

	if entry != nil {
		r.AppendTransaction(*entry)
	}
	return nil
}

// Debit decreases a balance. The precondition check and the mutation are one
// atomic step under the wallet lock, so two racing debits cannot both pass on
// the same funds. Debit writes no ledger entry; callers attach their own.
func (r *LedgerRepository) Debit(userID string, currency domain.Currency, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	w := r.walletFor(userID)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balances[currency].LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	w.balances[currency] = w.balances[currency].Sub(amount)
	return nil
}

// Transfer moves amount between two wallets and appends both ledger legs,
// all-or-nothing. Both wallet locks are held for the duration; they are
// acquired in ascending user-id order so two users paying each other
// concurrently cannot deadlock.
func (r *LedgerRepository) Transfer(senderID, recipientID string, currency domain.Currency, amount decimal.Decimal, sendEntry, receiveEntry domain.Transaction) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	sender := r.walletFor(senderID)
	recipient := r.walletFor(recipientID)

	unlock := lockPair(senderID, sender, recipientID, recipient)
	defer unlock()

	if sender.balances[currency].LessThan(amount) {
		return domain.ErrInsufficientBalance
	}
	sender.balances[currency] = sender.balances[currency].Sub(amount)
	recipient.balances[currency] = recipient.balances[currency].Add(amount)

	r.logMu.Lock()
	r.logs[senderID] = append(r.logs[senderID], sendEntry)
	r.logs[recipientID] = append(r.logs[recipientID], receiveEntry)
	r.logMu.Unlock()
	return nil
}

// AppendTransaction adds an immutable record to the owner's log.
func (r *LedgerRepository) AppendTransaction(entry domain.Transaction) {
	r.logMu.Lock()
	defer r.logMu.Unlock()
	r.logs[entry.UserID] = append(r.logs[entry.UserID], entry)
}

// Transactions returns a copy of the user's ledger, oldest first.
func (r *LedgerRepository) Transactions(userID string) []domain.Transaction {
	r.logMu.RLock()
	defer r.logMu.RUnlock()
	log := r.logs[userID]
	out := make([]domain.Transaction, len(log))
	copy(out, log)
	return out
}

// lockPair locks two wallet states in canonical order. A self-transfer locks
// the single wallet once.
func lockPair(aID string, a *walletState, bID string, b *walletState) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	if aID > bID {
		a, b = b, a
	}
	a.mu.Lock()
	b.mu.Lock()
	return func() {
		b.mu.Unlock()
		a.mu.Unlock()
	}
}
