package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"paydesk/internal/apperror"
	"paydesk/internal/domain"
	"paydesk/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUsers(t *testing.T) (*Users, *gorm.DB) {
	t.Helper()
	gdb := testutil.NewDB(t)
	log, _ := testutil.NewLogger()
	return NewUsers(gdb, nil, time.Minute, log), gdb
}

func TestAccountsListsOwnAccounts(t *testing.T) {
	ctx := context.Background()
	s, _ := newUsers(t)

	got, err := s.Accounts(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, testutil.User1MainAcct, got[0].ID)
	assert.Equal(t, "main_user1_account", got[0].Name)
	assert.True(t, decimal.NewFromInt(1000).Equal(got[0].Balance))
	assert.Equal(t, int16(1), got[0].IsActive)

	got, err = s.Accounts(ctx, testutil.AdminID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "main_admin_account", got[0].Name)
	assert.Equal(t, "second_admin_account", got[1].Name)

	got, err = s.Accounts(ctx, testutil.User3ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTransactionsJoinAccountName(t *testing.T) {
	ctx := context.Background()
	s, _ := newUsers(t)

	page, err := s.Transactions(ctx, testutil.User1ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	tx := page.Transactions[0]
	assert.Equal(t, "main_user1_account", tx.AccountName)
	assert.Equal(t, domain.StatusPending, tx.Status)
	require.NotNil(t, tx.ExternalID)
	assert.Equal(t, "asfaewqgsdg2tgafGFR32fsdg4", *tx.ExternalID)
	assert.True(t, decimal.NewFromInt(500).Equal(tx.Amount))
	assert.False(t, tx.CreatedAt.IsZero())
}

func TestTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := newUsers(t)

	page, err := s.Transactions(ctx, testutil.AdminID, 1)
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	assert.Equal(t, int64(2), page.Transactions[0].ID)
	assert.Equal(t, int64(1), page.Transactions[1].ID)
}

func TestTransactionsPaging(t *testing.T) {
	ctx := context.Background()
	s, gdb := newUsers(t)
	for i := 0; i < 25; i++ {
		ext := fmt.Sprintf("page-%02d", i)
		require.NoError(t, gdb.Create(&domain.Transaction{
			AccountID:  testutil.User1MainAcct,
			Type:       domain.TypeDebit,
			Amount:     decimal.NewFromInt(int64(i + 1)),
			Status:     domain.StatusCompleted,
			ExternalID: &ext,
		}).Error)
	}

	first, err := s.Transactions(ctx, testutil.User1ID, 1)
	require.NoError(t, err)
	assert.Len(t, first.Transactions, TransactionsPerPage)

	second, err := s.Transactions(ctx, testutil.User1ID, 2)
	require.NoError(t, err)
	assert.Len(t, second.Transactions, 6)

	beyond, err := s.Transactions(ctx, testutil.User1ID, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond.Transactions)
}

func TestTransactionsRejectsBadPage(t *testing.T) {
	s, _ := newUsers(t)

	for _, page := range []int{0, -1} {
		_, err := s.Transactions(context.Background(), testutil.User1ID, page)
		appErr := apperror.From(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		assert.Equal(t, DetailBadPage, appErr.Detail)
	}
}

func TestAccountsServedFromCache(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)
	log, _ := testutil.NewLogger()
	s := NewUsers(gdb, rdb, time.Minute, log)

	_, err := s.Accounts(ctx, testutil.User1ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists("accounts:user:2"))

	require.NoError(t, gdb.Model(&domain.Account{}).Where("id = ?", testutil.User1MainAcct).Update("name", "renamed").Error)
	got, err := s.Accounts(ctx, testutil.User1ID)
	require.NoError(t, err)
	assert.Equal(t, "main_user1_account", got[0].Name)

	mr.Del("accounts:user:2")
	got, err = s.Accounts(ctx, testutil.User1ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got[0].Name)
}
