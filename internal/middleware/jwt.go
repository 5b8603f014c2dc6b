package middleware

import (
	"net/http" // Cookie attributes
	"strings"  // SameSite parsing
	"time"     // Cookie expiry

	"paydesk/internal/apperror" // Error taxonomy
	"paydesk/internal/config"   // Cookie settings
	"paydesk/internal/session"  // Session identity
	"paydesk/internal/utils"    // Signed cookie helpers

	"github.com/gin-gonic/gin" // Gin web framework
)

const tokenKey = "sessionToken" // Context key of the presented session token

// forgedToken stands in for a cookie whose signature does not verify. It can
// never match a stored token, so such a cookie behaves like a stale one.
const forgedToken = "forged:cookie"

// Cookies issues, reads and clears the signed session cookie
type Cookies struct {
	Name     string        // Cookie name
	Secret   string        // HS256 signing key
	Path     string        // Path attribute
	Secure   bool          // Secure attribute
	HTTPOnly bool          // HttpOnly attribute
	SameSite http.SameSite // SameSite attribute
}

// NewCookies builds the cookie settings from configuration
func NewCookies(cfg *config.Config) Cookies {
	return Cookies{
		Name:     cfg.CookieName,
		Secret:   cfg.CookieSecret,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		HTTPOnly: cfg.CookieHTTPOnly,
		SameSite: ParseSameSite(cfg.CookieSameSite),
	}
}

// ParseSameSite maps lax, strict and none to the http constants
func ParseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Set writes the cookie for a freshly created session
func (k Cookies) Set(c *gin.Context, ident session.Identity) error {
	value, err := utils.SignSessionCookie(utils.SessionCookie{
		SessionToken: ident.Token,
		UserID:       ident.UserID,
		ExpiresAt:    ident.ExpiresAt,
	}, k.Secret)
	if err != nil {
		return err
	}
	maxAge := int(time.Until(ident.ExpiresAt).Seconds()) // Browser drops the cookie with the session
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(k.SameSite)
	c.SetCookie(k.Name, value, maxAge, k.Path, "", k.Secure, k.HTTPOnly)
	return nil
}

// Clear expires the cookie on the client
func (k Cookies) Clear(c *gin.Context) {
	c.SetSameSite(k.SameSite)
	c.SetCookie(k.Name, "", -1, k.Path, "", k.Secure, k.HTTPOnly)
}

// Fail aborts like Fail and also clears the cookie when the session behind
// it is unknown or expired
func (k Cookies) Fail(c *gin.Context, err error) {
	if appErr := apperror.From(err); appErr.Kind == apperror.KindUnauthenticated && appErr.Code == http.StatusUnauthorized {
		k.Clear(c)
	}
	Fail(c, err)
}

// SessionCookie extracts the session token from the signed cookie. It never
// aborts: the gates and flows downstream decide what a missing token means.
func SessionCookie(k Cookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""                  // No cookie
		raw, err := c.Cookie(k.Name) // Read the cookie
		if err == nil && raw != "" {
			parsed, err := utils.ParseSessionCookie(raw, k.Secret) // Verify the signature
			if err != nil {
				token = forgedToken
			} else {
				token = parsed.SessionToken
			}
		}
		c.Set(tokenKey, token) // Store token in context
		c.Next()               // Proceed to the next handler
	}
}

// SessionToken returns the token extracted by SessionCookie
func SessionToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
