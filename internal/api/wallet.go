package api

import (
	"net/http" // HTTP status codes

	"paydesk/internal/middleware" // Principal lookup
	"paydesk/internal/service"    // User views

	"github.com/gin-gonic/gin" // Gin web framework
)

// MeHandler returns the authenticated principal. It serves both the admin
// and the user profile; the role gate in front of it decides which.
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c) // Set by the role gate
		if !ok {
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// AccountsHandler lists the user's accounts with their balances
func AccountsHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		accounts, err := users.Accounts(c.Request.Context(), p.ID)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, accounts) // Plain list, oldest account first
	}
}

// TransactionsHandler returns one page of the user's transaction history
func TransactionsHandler(users *service.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := principal(c)
		if !ok {
			return
		}
		page, ok := pageParam(c) // ?page=N, default 1
		if !ok {
			return
		}
		res, err := users.Transactions(c.Request.Context(), p.ID, page)
		if err != nil {
			middleware.Fail(c, err) // Page below 1 or storage failure
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
