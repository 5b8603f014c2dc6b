package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TypeDebit  = "debit"
	TypeCredit = "credit"
)

// Transaction statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Transaction Model
type Transaction struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`                                                                             // Primary key
	AccountID  int64           `gorm:"index;not null"`                                                                                       // Foreign key to Account
	Account    *Account        `gorm:"constraint:OnUpdate:CASCADE;"`                                                                         // Owning account, used for the constraint only
	Type       string          `gorm:"size:10;not null;check:chk_transaction_type,type IN ('debit','credit')"`                               // debit or credit
	Amount     decimal.Decimal `gorm:"type:numeric(15,2);not null"`                                                                          // Posted amount
	Status     string          `gorm:"size:20;not null;check:chk_transaction_status,status IN ('pending','completed','failed','cancelled')"` // Lifecycle status
	ExternalID *string         `gorm:"size:100;uniqueIndex"`                                                                                 // Upstream correlation id, idempotency key
	CreatedAt  time.Time       `gorm:"autoCreateTime"`                                                                                       // Creation time
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`                                                                                       // Last status change
}
