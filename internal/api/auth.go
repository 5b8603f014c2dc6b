package api

import (
	"net/http" // HTTP status codes

	"paydesk/internal/auth"       // Credential flows
	"paydesk/internal/middleware" // Session cookie helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `form:"email" binding:"required"`    // Email must be provided
	Password string `form:"password" binding:"required"` // Password must be provided
}

// LoginHandler authenticates a user and sets the session cookie
func LoginHandler(creds *auth.Credentials, cookies middleware.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind form to struct
		if err := c.ShouldBind(&req); err != nil {
			invalid(c, err) // Missing fields
			return
		}
		ident, err := creds.Login(c.Request.Context(), middleware.SessionToken(c), req.Email, req.Password)
		if err != nil {
			middleware.Fail(c, err) // Active session, unknown user or bad password
			return
		}
		if err := cookies.Set(c, ident); err != nil {
			middleware.Fail(c, err) // Signing failed
			return
		}
		c.JSON(http.StatusOK, gin.H{"detail": auth.DetailLoginOK})
	}
}

// LogoutHandler revokes the presented session and clears the cookie
func LogoutHandler(creds *auth.Credentials, cookies middleware.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := creds.Logout(c.Request.Context(), middleware.SessionToken(c))
		if err != nil {
			cookies.Fail(c, err) // No or stale session
			return
		}
		cookies.Clear(c)
		c.JSON(http.StatusOK, gin.H{"detail": detail})
	}
}

// RemoveAllSessionsHandler ends every session of the cookie's owner. It
// answers 200 whether or not the cookie resolved.
func RemoveAllSessionsHandler(creds *auth.Credentials, cookies middleware.Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, clear, err := creds.RemoveAllSessions(c.Request.Context(), middleware.SessionToken(c))
		if err != nil {
			middleware.Fail(c, err) // Storage failure
			return
		}
		if clear {
			cookies.Clear(c)
		}
		c.JSON(http.StatusOK, gin.H{"detail": detail})
	}
}
