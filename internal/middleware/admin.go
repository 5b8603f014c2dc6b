package middleware

import (
	"context" // Gate signature

	"paydesk/internal/auth" // Authorization gate

	"github.com/gin-gonic/gin" // Gin web framework
)

const principalKey = "principal" // Context key of the authorized principal

type authenticate func(ctx context.Context, token string) (auth.Principal, error)

// RequireAdmin validates the session and lets administrators through
func RequireAdmin(gate *auth.Gate, k Cookies) gin.HandlerFunc {
	return gateWith(gate.AuthenticateAdmin, k)
}

// RequireUser validates the session and lets plain users through.
// Administrators are refused here as well.
func RequireUser(gate *auth.Gate, k Cookies) gin.HandlerFunc {
	return gateWith(gate.AuthenticateUser, k)
}

func gateWith(check authenticate, k Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := check(c.Request.Context(), SessionToken(c)) // Session first, then role
		if err != nil {
			k.Fail(c, err) // Abort with the gate's status
			return
		}
		c.Set(principalKey, p) // Store principal in context
		c.Next()               // Proceed to the next handler
	}
}

// CurrentPrincipal returns the principal stored by RequireAdmin or RequireUser
func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
