// Package api exposes the core operations over HTTP with gin.
package api

import (
	"net/http" // HTTP status codes
	"time"     // CORS preflight cache

	"paydesk/internal/auth"       // Credential flows and gate
	"paydesk/internal/middleware" // Cookies, gates, request ids
	"paydesk/internal/payment"    // Webhook processor
	"paydesk/internal/service"    // Views and admin writes

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus"  // Logging library
	"gorm.io/gorm"                // GORM ORM library
)

// Deps is everything the router needs
type Deps struct {
	DB            *gorm.DB           // Store, pinged by /healthz
	Log           logrus.FieldLogger // Request logger
	Cookies       middleware.Cookies // Session cookie settings
	Credentials   *auth.Credentials  // Login, logout, remove-all
	Gate          *auth.Gate         // Role filters
	Users         *service.Users     // User views
	Admins        *service.Admins    // Admin operations
	Payments      *payment.Processor // Webhook processor
	PaymentSecret string             // Signs mock payments
	CORSOrigins   []string           // Allowed origins, empty disables CORS
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()                                     // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestID(d.Log)) // Panic recovery and request logs
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true, // The session travels as a cookie
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.SessionCookie(d.Cookies)) // Presented token, if any

	r.GET("/healthz", healthHandler(d.DB)) // Liveness and store reachability

	// SSO routes
	sso := r.Group("/api/v1/sso")
	sso.POST("/login", LoginHandler(d.Credentials, d.Cookies))                             // Login endpoint
	sso.POST("/logout", LogoutHandler(d.Credentials, d.Cookies))                           // Logout endpoint
	sso.DELETE("/sessions/remove-all", RemoveAllSessionsHandler(d.Credentials, d.Cookies)) // Log out everywhere

	// Admin routes (admin role only)
	admins := r.Group("/api/v1/admins")
	admins.Use(middleware.RequireAdmin(d.Gate, d.Cookies))
	admins.GET("/me", MeHandler())                                   // Admin profile
	admins.POST("/users/create-user", CreateUserHandler(d.Admins))   // Create user
	admins.DELETE("/users/delete-user", DeleteUserHandler(d.Admins)) // Delete user by email
	admins.PATCH("/users/update-user", UpdateUserHandler(d.Admins))  // Sparse update by email
	admins.GET("/users-with-accounts", ListUsersHandler(d.Admins))   // Paginated listing

	// User routes (plain users only)
	users := r.Group("/api/v1/users")
	users.Use(middleware.RequireUser(d.Gate, d.Cookies))
	users.GET("/me", MeHandler())                            // User profile
	users.GET("/accounts", AccountsHandler(d.Users))         // Accounts with balances
	users.GET("/transactions", TransactionsHandler(d.Users)) // Transaction history

	// Payment routes, authenticated by signature
	r.POST("/api/v1/payments/webhook", WebhookHandler(d.Payments))                  // Signed webhook
	r.POST("/handle-test-payment", MockPaymentHandler(d.Payments, d.PaymentSecret)) // Mock payment system

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
