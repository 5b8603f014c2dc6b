package service

import (
	"context" // Context for cancellation
	"fmt"     // String formatting
	"time"    // Time handling

	"paydesk/internal/apperror" // Application errors
	"paydesk/internal/domain"   // Domain models
	"paydesk/internal/utils"    // Cache helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // ORM library
)

// TransactionView is a transaction joined with its account name
type TransactionView struct {
	ID          int64           `json:"id"`           // Transaction id
	AccountName string          `json:"account_name"` // Owning account
	Type        string          `json:"type"`         // debit or credit
	Amount      decimal.Decimal `json:"amount"`       // Posted amount
	Status      string          `json:"status"`       // Lifecycle status
	ExternalID  *string         `json:"external_id"`  // Upstream id, if any
	CreatedAt   time.Time       `json:"created_at"`   // Creation time
}

// TransactionsPage is one page of a user's history
type TransactionsPage struct {
	Transactions []TransactionView `json:"transactions"`
}

// Users serves the views of a plain user
type Users struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
	log logrus.FieldLogger
}

// NewUsers builds the user views. rdb may be nil.
func NewUsers(db *gorm.DB, rdb *redis.Client, ttl time.Duration, log logrus.FieldLogger) *Users {
	return &Users{db: db, rdb: rdb, ttl: ttl, log: log}
}

// Accounts lists the user's accounts, oldest first
func (s *Users) Accounts(ctx context.Context, userID int64) ([]AccountView, error) {
	key := fmt.Sprintf("%s%d", utils.CacheUserAccountsPrefix, userID) // accounts:user:N
	out := []AccountView{}
	if found, err := utils.GetCache(ctx, s.rdb, key, &out); err == nil && found {
		return out, nil
	}

	var accounts []domain.Account
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&accounts).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	for _, a := range accounts {
		out = append(out, newAccountView(a))
	}

	if err := utils.SetCache(ctx, s.rdb, key, out, s.ttl); err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to cache accounts")
	}
	return out, nil
}

// Transactions returns one page of the user's transactions across all of
// their accounts, newest first
func (s *Users) Transactions(ctx context.Context, userID int64, page int) (TransactionsPage, error) {
	if err := checkPage(page); err != nil {
		return TransactionsPage{}, err
	}
	key := fmt.Sprintf("%s%d:page:%d", utils.CacheUserTransactionsPrefix, userID, page) // txhistory:user:N:page:P
	out := TransactionsPage{Transactions: []TransactionView{}}
	if found, err := utils.GetCache(ctx, s.rdb, key, &out); err == nil && found {
		return out, nil
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("transactions.id, accounts.name AS account_name, transactions.type, transactions.amount, "+
			"transactions.status, transactions.external_id, transactions.created_at").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", userID).
		Order("transactions.created_at DESC, transactions.id DESC"). // Newest first
		Limit(TransactionsPerPage).
		Offset((page - 1) * TransactionsPerPage).
		Scan(&out.Transactions).Error; err != nil {
		return TransactionsPage{}, apperror.Internal(err)
	}

	if err := utils.SetCache(ctx, s.rdb, key, out, s.ttl); err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to cache transactions")
	}
	return out, nil
}
