package payment

import (
	"crypto/sha256" // Signature digest
	"crypto/subtle" // Constant time compare
	"encoding/hex"  // Hex encoding
	"strconv"       // Number formatting
)

// Sign computes the webhook signature: lower-case hex SHA-256 over
// account_id, amount, transaction_id, user_id and the shared secret,
// concatenated without separators. The amount is hashed exactly as sent.
func Sign(accountID int64, amount, transactionID string, userID int64, secret string) string {
	msg := strconv.FormatInt(accountID, 10) + amount + transactionID + strconv.FormatInt(userID, 10) + secret
	sum := sha256.Sum256([]byte(msg))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the signature of w and compares it in constant time
func Verify(w Webhook, secret string) bool {
	want := Sign(w.AccountID, w.Amount, w.TransactionID, w.UserID, secret)
	return subtle.ConstantTimeCompare([]byte(want), []byte(w.Signature)) == 1
}
