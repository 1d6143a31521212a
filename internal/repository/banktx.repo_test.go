package repository

import (
	"fmt"
	"testing"
	"time"

	"wallet-ledger/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBankTx(id, userID string) domain.BankTransaction {
	return domain.BankTransaction{
		ID:            id,
		UserID:        userID,
		BankAccountID: "ba_1",
		Type:          domain.BankTransferDeposit,
		Amount:        amt("100"),
		Rail:          domain.RailACH,
		Status:        domain.BankTransferProcessing,
		Timestamp:     time.Now(),
	}
}

func TestBankTransactionLifecycle(t *testing.T) {
	repo := NewBankTransactionRepository()
	repo.Create(newBankTx("btx_1", "alice"))

	require.NoError(t, repo.MarkCompleted("btx_1"))

	tx, err := repo.Get("btx_1")
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransferCompleted, tx.Status)
	require.NotNil(t, tx.CompletedAt)

	// Terminal states are final.
	assert.ErrorIs(t, repo.MarkFailed("btx_1", "late failure"), domain.ErrTransferSettled)
	assert.ErrorIs(t, repo.MarkCancelled("btx_1"), domain.ErrTransferSettled)
}

func TestBankTransactionMarkFailedKeepsReason(t *testing.T) {
	repo := NewBankTransactionRepository()
	repo.Create(newBankTx("btx_1", "alice"))

	require.NoError(t, repo.MarkFailed("btx_1", "settlement rejected by bank"))

	tx, err := repo.Get("btx_1")
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransferFailed, tx.Status)
	assert.Equal(t, "settlement rejected by bank", tx.FailureReason)
	assert.Nil(t, tx.CompletedAt)
}

func TestBankTransactionUnknownID(t *testing.T) {
	repo := NewBankTransactionRepository()
	_, err := repo.Get("btx_missing")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
	assert.ErrorIs(t, repo.MarkCompleted("btx_missing"), domain.ErrTransferNotFound)
}

func TestListByUserMostRecentFirstBounded(t *testing.T) {
	repo := NewBankTransactionRepository()
	for i := 0; i < 5; i++ {
		repo.Create(newBankTx(fmt.Sprintf("btx_%d", i), "alice"))
	}
	repo.Create(newBankTx("btx_other", "bob"))

	got := repo.ListByUser("alice", 3)
	require.Len(t, got, 3)
	assert.Equal(t, "btx_4", got[0].ID)
	assert.Equal(t, "btx_3", got[1].ID)
	assert.Equal(t, "btx_2", got[2].ID)

	all := repo.ListByUser("alice", 0)
	assert.Len(t, all, 5)
}
