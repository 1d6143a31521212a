package banking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/usecase/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// manualScheduler captures callbacks so tests settle on demand instead of
// waiting on timers.
type manualScheduler struct {
	mu    sync.Mutex
	queue []func()
	rails []domain.TransferRail
}

func (m *manualScheduler) Schedule(rail domain.TransferRail, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
	m.rails = append(m.rails, rail)
}

func (m *manualScheduler) Fire() {
	m.mu.Lock()
	queue := m.queue
	m.queue = nil
	m.mu.Unlock()
	for _, fn := range queue {
		fn()
	}
}

func (m *manualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

type failingGateway struct{ reason string }

func (g failingGateway) Settle(ctx context.Context, tx domain.BankTransaction) error {
	return errors.New(g.reason)
}

type fixture struct {
	svc      *Service
	wallet   *wallet.Service
	accounts *repository.BankAccountRepository
	txns     *repository.BankTransactionRepository
	sched    *manualScheduler
}

func newFixture(gateway SettlementGateway) *fixture {
	log := zap.NewNop()
	ledger := repository.NewLedgerRepository()
	walletUC := wallet.New(ledger, wallet.NewNotifier(log), log)
	txns := repository.NewBankTransactionRepository()
	accounts := repository.NewBankAccountRepository()
	sched := &manualScheduler{}
	return &fixture{
		svc:      New(txns, accounts, walletUC, gateway, sched, log),
		wallet:   walletUC,
		accounts: accounts,
		txns:     txns,
		sched:    sched,
	}
}

func (f *fixture) linkVerifiedAccount(t *testing.T, userID string) *domain.BankAccount {
	t.Helper()
	acct := f.accounts.Link(userID, repository.LinkAccountInput{
		AccountNumber:     "12345678",
		RoutingNumber:     "021000021",
		AccountType:       domain.AccountChecking,
		BankName:          "Demo Bank",
		AccountHolderName: "Alice Example",
	})
	require.NoError(t, f.accounts.Verify(userID, acct.ID))
	return acct
}

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func depositReq(userID, accountID string, amount, rail string) domain.BankTransferRequest {
	return domain.BankTransferRequest{
		UserID:        userID,
		BankAccountID: accountID,
		Amount:        amt(amount),
		Rail:          domain.TransferRail(rail),
	}
}

func TestDepositCreditsAfterSettlement(t *testing.T) {
	f := newFixture(SimulatedGateway{})
	acct := f.linkVerifiedAccount(t, "alice")

	tx, err := f.svc.Deposit(context.Background(), depositReq("alice", acct.ID, "500", "WIRE"))
	require.NoError(t, err)

	// The caller gets a processing record back; no funds move yet.
	assert.Equal(t, domain.BankTransferProcessing, tx.Status)
	assert.Equal(t, "Deposit from Demo Bank", tx.Description)
	assert.True(t, f.wallet.Balance("alice", domain.CurrencyUSD).IsZero())

	f.sched.Fire()

	settled, err := f.svc.Transaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransferCompleted, settled.Status)
	require.NotNil(t, settled.CompletedAt)
	assert.Equal(t, "500", f.wallet.Balance("alice", domain.CurrencyUSD).String())

	// The settlement credit shows up as a receive entry in the ledger.
	txns := f.wallet.Transactions("alice")
	require.Len(t, txns, 1)
	assert.Equal(t, domain.TransactionReceive, txns[0].Type)

	// Completing against the account stamps its last-used time.
	got, err := f.accounts.Account("alice", acct.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastUsed)
}

func TestDepositUnverifiedAccountRejectedWithoutRecord(t *testing.T) {
	f := newFixture(SimulatedGateway{})
	acct := f.accounts.Link("alice", repository.LinkAccountInput{
		AccountNumber:     "12345678",
		RoutingNumber:     "021000021",
		AccountType:       domain.AccountChecking,
		BankName:          "Demo Bank",
		AccountHolderName: "Alice Example",
	})

	_, err := f.svc.Deposit(context.Background(), depositReq("alice", acct.ID, "500", "WIRE"))
	require.ErrorIs(t, err, domain.ErrAccountNotVerified)

	assert.Empty(t, f.svc.Transactions("alice", 0))
	assert.Zero(t, f.sched.Pending())
}

func TestDepositValidation(t *testing.T) {
	f := newFixture(SimulatedGateway{})
	acct := f.linkVerifiedAccount(t, "alice")

	cases := []struct {
		name    string
		req     domain.BankTransferRequest
		wantErr error
	}{
		{"unknown account", depositReq("alice", "ba_missing", "10", "ACH"), domain.ErrAccountNotFound},
		{"foreign account", depositReq("bob", acct.ID, "10", "ACH"), domain.ErrAccountNotFound},
		{"zero amount", depositReq("alice", acct.ID, "0", "ACH"), domain.ErrInvalidAmount},
		{"negative amount", depositReq("alice", acct.ID, "-5", "ACH"), domain.ErrInvalidAmount},
		{"bad rail", depositReq("alice", acct.ID, "10", "SEPA"), domain.ErrInvalidRail},
		{"over ACH cap", depositReq("alice", acct.ID, "100000.01", "ACH"), domain.ErrLimitExceeded},
		{"over WIRE cap", depositReq("alice", acct.ID, "1000001", "WIRE"), domain.ErrLimitExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Deposit(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	// At-cap amounts pass.
	_, err := f.svc.Deposit(context.Background(), depositReq("alice", acct.ID, "100000", "ACH"))
	assert.NoError(t, err)
}

func TestDepositGatewayFailureCreditsNothing(t *testing.T) {
	f := newFixture(failingGateway{reason: "rail unavailable"})
	acct := f.linkVerifiedAccount(t, "alice")

	tx, err := f.svc.Deposit(context.Background(), depositReq("alice", acct.ID, "500", "ACH"))
	require.NoError(t, err)

	f.sched.Fire()

	settled, err := f.svc.Transaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransferFailed, settled.Status)
	assert.Equal(t, "rail unavailable", settled.FailureReason)
	assert.True(t, f.wallet.Balance("alice", domain.CurrencyUSD).IsZero())
	assert.Empty(t, f.wallet.Transactions("alice"))
}

func TestWithdrawDebitsImmediately(t *testing.T) {
	f := newFixture(SimulatedGateway{})
	acct := f.linkVerifiedAccount(t, "alice")
	_, err := f.wallet.AddFunds("alice", domain.CurrencyUSD, amt("200"))
	require.NoError(t, err)

	tx, err := f.svc.Withdraw(context.Background(), depositReq("alice", acct.ID, "150", "ACH"))
	require.NoError(t, err)

	// Funds are reserved before settlement so they cannot be spent twice.
	assert.Equal(t, domain.BankTransferProcessing, tx.Status)
	assert.Equal(t, "Withdrawal to Demo Bank", tx.Description)
	assert.Equal(t, "50", f.wallet.Balance("alice", domain.CurrencyUSD).String())

	f.sched.Fire()

	settled, err := f.svc.Transaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransferCompleted, settled.Status)
	assert.Equal(t, "50", f.wallet.Balance("alice", domain.CurrencyUSD).String())
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	f := newFixture(SimulatedGateway{})
	acct := f.linkVerifiedAccount(t, "alice")
	_, err := f.wallet.AddFunds("alice", domain.CurrencyUSD, amt("100"))
	require.NoError(t, err)

	_, err = f.svc.Withdraw(context.Background(), depositReq("alice", acct.ID, "100.01", "ACH"))
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	// No debit, no record, nothing scheduled.
	assert.Equal(t, "100", f.wallet.Balance("alice", domain.CurrencyUSD).String())
	assert.Empty(t, f.svc.Transactions("alice", 0))
	assert.Zero(t, f.sched.Pending())
}

func TestWithdrawFailureRefundsInFull(t *testing.T) {
	f := newFixture(failingGateway{reason: "account closed at receiving bank"})
	acct := f.linkVerifiedAccount(t, "alice")
	_, err := f.wallet.AddFunds("alice", domain.CurrencyUSD, amt("50"))
	require.NoError(t, err)

	tx, err := f.svc.Withdraw(context.Background(), depositReq("alice", acct.ID, "50", "ACH"))
	require.NoError(t, err)
	assert.True(t, f.wallet.Balance("alice", domain.CurrencyUSD).IsZero())

	f.sched.Fire()

	settled, err := f.svc.Transaction(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransferFailed, settled.Status)
	assert.NotEmpty(t, settled.FailureReason)

	// Compensation restored the pre-withdrawal balance exactly.
	assert.Equal(t, "50", f.wallet.Balance("alice", domain.CurrencyUSD).String())
}

func TestTransactionsMostRecentFirstWithDefaultLimit(t *testing.T) {
	f := newFixture(SimulatedGateway{})
	acct := f.linkVerifiedAccount(t, "alice")

	var last *domain.BankTransaction
	for i := 0; i < 3; i++ {
		tx, err := f.svc.Deposit(context.Background(), depositReq("alice", acct.ID, "10", "WIRE"))
		require.NoError(t, err)
		last = tx
	}

	got := f.svc.Transactions("alice", 0)
	require.Len(t, got, 3)
	assert.Equal(t, last.ID, got[0].ID)

	bounded := f.svc.Transactions("alice", 2)
	assert.Len(t, bounded, 2)
}

func TestCustomDescriptionIsKept(t *testing.T) {
	f := newFixture(SimulatedGateway{})
	acct := f.linkVerifiedAccount(t, "alice")

	req := depositReq("alice", acct.ID, "10", "WIRE")
	req.Description = "payroll top-up"
	tx, err := f.svc.Deposit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "payroll top-up", tx.Description)
}
