package payment

import "github.com/google/uuid"

// Webhook is the payload the upstream payment system posts
type Webhook struct {
	TransactionID string // Upstream correlation id, stored as external_id
	AccountID     int64  // Target account
	UserID        int64  // Owner of the target account
	Amount        string // Decimal amount, as sent on the wire
	Signature     string // Lower-case hex SHA-256, see Sign
}

// MockWebhook builds a correctly signed payload with a fresh transaction id,
// standing in for the upstream payment system
func MockWebhook(secret string, accountID, userID int64, amount string) Webhook {
	w := Webhook{
		TransactionID: uuid.NewString(),
		AccountID:     accountID,
		UserID:        userID,
		Amount:        amount,
	}
	w.Signature = Sign(w.AccountID, w.Amount, w.TransactionID, w.UserID, secret)
	return w
}
