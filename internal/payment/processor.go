// Package payment verifies inbound payment webhooks and posts them against
// the target account in a single unit of work.
package payment

import (
	"context" // Context for cancellation
	"errors"  // Error handling
	"fmt"     // String formatting
	"strconv" // Number formatting

	"paydesk/internal/apperror" // Application errors
	"paydesk/internal/domain"   // Domain models
	"paydesk/internal/utils"    // Cache helpers

	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Structured logging
	"gorm.io/gorm"                  // ORM library
)

// Resolution tells which branch account resolution took
type Resolution string

const (
	AccountFound   Resolution = "found"
	AccountCreated Resolution = "created"
)

// Detail returns the human readable prefix for the resolution
func (r Resolution) Detail() string {
	if r == AccountCreated {
		return "A new account has been created"
	}
	return "User account found"
}

// DetailInvalidSignature is returned for payloads failing the signature check
const DetailInvalidSignature = "Invalid signature"

// Result describes a posted payment
type Result struct {
	AccountID     int64           // Account credited
	Resolution    Resolution      // Found or Created
	TransactionID int64           // Internal transaction id
	Amount        decimal.Decimal // Amount applied
	Balance       decimal.Decimal // Balance after posting
	Detail        string          // Message returned to the caller
}

// Processor posts signed webhooks
type Processor struct {
	db     *gorm.DB
	secret string
	rdb    *redis.Client
	log    logrus.FieldLogger
}

// NewProcessor builds a Processor. rdb may be nil when no read cache runs.
func NewProcessor(db *gorm.DB, secret string, rdb *redis.Client, log logrus.FieldLogger) *Processor {
	return &Processor{db: db, secret: secret, rdb: rdb, log: log}
}

// Process verifies the signature, resolves or creates the account, records
// the transaction and applies the amount. The webhook's external id is only
// protected by the store's unique constraint: a replay fails on insert and
// the whole unit of work rolls back.
func (p *Processor) Process(ctx context.Context, w Webhook) (Result, error) {
	fields := logrus.Fields{
		"external_id": w.TransactionID,
		"account_id":  w.AccountID,
		"user_id":     w.UserID,
		"amount":      w.Amount,
	}
	if !Verify(w, p.secret) {
		p.log.WithFields(fields).Warn("Webhook rejected: invalid signature")
		return Result{}, apperror.Unauthenticated(DetailInvalidSignature)
	}
	// The amount is trusted once the signature holds; there is no range check.
	amount, err := decimal.NewFromString(w.Amount)
	if err != nil {
		return Result{}, apperror.BadRequest("Invalid amount")
	}

	var res Result // Filled inside the transaction
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acct, resolution, err := resolveAccount(tx, w.AccountID, w.UserID)
		if err != nil {
			return err
		}

		externalID := w.TransactionID
		t := domain.Transaction{
			AccountID:  acct.ID,
			Type:       domain.TypeDebit, // Mock processing always books a debit
			Amount:     amount,
			Status:     domain.StatusPending,
			ExternalID: &externalID,
		}
		if err := tx.Create(&t).Error; err != nil { // Unique external_id guards replays
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict(fmt.Sprintf("Transaction with ID %s already exists", w.TransactionID))
			}
			return err
		}

		if err := tx.Model(&domain.Account{ID: acct.ID}).
			Update("balance", gorm.Expr("balance + CAST(? AS DECIMAL(15,2))", amount.String())).Error; err != nil {
			return err
		}
		if err := tx.Model(&t).Update("status", domain.StatusCompleted).Error; err != nil { // Pending -> completed
			return err
		}
		if err := tx.Select("balance").First(&acct, acct.ID).Error; err != nil { // Re-read the new balance
			return err
		}

		res = Result{
			AccountID:     acct.ID,
			Resolution:    resolution,
			TransactionID: t.ID,
			Amount:        amount,
			Balance:       acct.Balance,
			Detail:        fmt.Sprintf("%s. The amount was charged: %s", resolution.Detail(), w.Amount),
		}
		return nil
	})
	if err != nil {
		appErr := apperror.From(err)
		entry := p.log.WithFields(fields).WithField("error", err.Error())
		if appErr.Kind == apperror.KindConflict {
			entry.Warn("Webhook rejected: duplicate transaction")
		} else {
			entry.Error("Webhook processing failed")
		}
		return Result{}, appErr
	}

	p.invalidate(ctx, w.UserID) // Only after commit
	p.log.WithFields(fields).WithFields(logrus.Fields{
		"resolved_account": res.AccountID,
		"resolution":       string(res.Resolution),
		"transaction_id":   res.TransactionID,
	}).Info("Webhook transaction completed")
	return res, nil
}

// resolveAccount finds the account by id and owner, or provisions a fresh
// zero-balance account for the owner. Concurrent first payments for the
// same missing account may each provision one; that race is accepted.
func resolveAccount(tx *gorm.DB, accountID, userID int64) (domain.Account, Resolution, error) {
	var acct domain.Account
	err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acct).Error
	if err == nil {
		return acct, AccountFound, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Account{}, "", err
	}
	acct = domain.Account{
		UserID:   userID,
		Name:     domain.PlaceholderAccountName(userID),
		Balance:  decimal.Zero,
		IsActive: 1,
	}
	if err := tx.Create(&acct).Error; err != nil {
		return domain.Account{}, "", err
	}
	return acct, AccountCreated, nil
}

// invalidate drops cached views that show the user's balances
func (p *Processor) invalidate(ctx context.Context, userID int64) {
	uid := strconv.FormatInt(userID, 10)
	for _, err := range []error{
		utils.DeleteCache(ctx, p.rdb, utils.CacheUserAccountsPrefix+uid),
		utils.DeleteCachePrefix(ctx, p.rdb, utils.CacheUserTransactionsPrefix+uid+":"),
		utils.DeleteCachePrefix(ctx, p.rdb, utils.CacheAdminUsersPrefix),
	} {
		if err != nil {
			p.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Warn("Cache invalidation failed")
		}
	}
}
