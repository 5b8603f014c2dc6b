package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account Model
type Account struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`                                // Primary key
	UserID    int64           `gorm:"index;not null"`                                          // Foreign key to User
	User      *User           `gorm:"constraint:OnUpdate:CASCADE;"`                            // Owner, used for the constraint only
	Name      string          `gorm:"size:100;not null"`                                       // Display name
	Balance   decimal.Decimal `gorm:"type:numeric(15,2);not null"`                             // Account balance
	CreatedAt time.Time       `gorm:"autoCreateTime"`                                          // Creation time
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`                                          // Last balance change
	IsActive  int16           `gorm:"not null;check:chk_account_is_active,is_active IN (0,1)"` // 0 or 1
}

// PlaceholderAccountName names an account provisioned by an inbound payment
func PlaceholderAccountName(userID int64) string {
	return fmt.Sprintf("user_account: %d", userID)
}
