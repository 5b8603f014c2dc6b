// Package service holds the read views and admin writes behind the
// authorization gate. Callers pass the authenticated principal's id; no
// method here checks sessions or roles.
package service

import (
	"time" // Time handling

	"paydesk/internal/apperror" // Application errors
	"paydesk/internal/domain"   // Domain models

	"github.com/shopspring/decimal" // Decimal amounts
)

// Page sizes
const (
	TransactionsPerPage = 20 // User transaction history
	UsersPerPage        = 10 // Admin users-with-accounts listing
)

// DetailBadPage is returned for page numbers below 1
const DetailBadPage = "Page number must be greater than 0"

// AccountView is an account as the views show it
type AccountView struct {
	ID        int64           `json:"id"`         // Account id
	Name      string          `json:"name"`       // Display name
	Balance   decimal.Decimal `json:"balance"`    // Current balance
	CreatedAt time.Time       `json:"created_at"` // Creation time
	UpdatedAt time.Time       `json:"updated_at"` // Last balance change
	IsActive  int16           `json:"is_active"`  // 0 or 1
}

func newAccountView(a domain.Account) AccountView {
	return AccountView{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		IsActive:  a.IsActive,
	}
}

func checkPage(page int) error {
	if page <= 0 {
		return apperror.BadRequest(DetailBadPage)
	}
	return nil
}
