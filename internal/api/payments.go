package api

import (
	"encoding/json"
	"net/http"

	"paydesk/internal/middleware"
	"paydesk/internal/payment"

	"github.com/gin-gonic/gin"
)

// WebhookRequest is the payload posted by the payment system, as a form or
// as JSON. The amount keeps its exact text because the signature covers it.
type WebhookRequest struct {
	TransactionID string      `form:"transaction_id" json:"transaction_id" binding:"required"`
	AccountID     int64       `form:"account_id" json:"account_id" binding:"required"`
	UserID        int64       `form:"user_id" json:"user_id" binding:"required"`
	Amount        json.Number `form:"amount" json:"amount" binding:"required"`
	Signature     string      `form:"signature" json:"signature" binding:"required"`
}

// MockPaymentRequest is the test-payment form; the server fills in the
// transaction id and signature
type MockPaymentRequest struct {
	AccountID int64       `form:"account_id" json:"account_id" binding:"required"`
	UserID    int64       `form:"user_id" json:"user_id" binding:"required"`
	Amount    json.Number `form:"amount" json:"amount" binding:"required"`
}

// WebhookHandler verifies and posts an inbound payment
func WebhookHandler(p *payment.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WebhookRequest
		if err := c.ShouldBind(&req); err != nil {
			invalid(c, err)
			return
		}
		process(c, p, payment.Webhook{
			TransactionID: req.TransactionID,
			AccountID:     req.AccountID,
			UserID:        req.UserID,
			Amount:        req.Amount.String(),
			Signature:     req.Signature,
		})
	}
}

// MockPaymentHandler simulates the payment system: it signs a payload with
// a fresh transaction id and posts it
func MockPaymentHandler(p *payment.Processor, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MockPaymentRequest
		if err := c.ShouldBind(&req); err != nil {
			invalid(c, err)
			return
		}
		process(c, p, payment.MockWebhook(secret, req.AccountID, req.UserID, req.Amount.String()))
	}
}

func process(c *gin.Context, p *payment.Processor, w payment.Webhook) {
	res, err := p.Process(c.Request.Context(), w)
	if err != nil {
		middleware.Fail(c, err) // Bad signature, duplicate id or storage failure
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": res.Detail})
}
