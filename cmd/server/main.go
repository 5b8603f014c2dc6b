package main

import (
	"context"   // Context for Redis and shutdown
	"errors"    // Server closed check
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal handling
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"paydesk/internal/api"        // HTTP routes
	"paydesk/internal/auth"       // Credential flows and gate
	"paydesk/internal/config"     // Configuration
	"paydesk/internal/db"         // Store
	"paydesk/internal/middleware" // Cookie settings
	"paydesk/internal/payment"    // Webhook processor
	"paydesk/internal/service"    // Views and admin writes
	"paydesk/internal/session"    // Session manager
	"paydesk/internal/utils"      // Password hashing

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}
	log := logrus.StandardLogger()

	// Both secrets are required; there are no built-in defaults
	if cfg.SecretPaymentKey == "" {
		logrus.Fatal("SECRET_PAYMENT_KEY must be set")
	}
	if cfg.CookieSecret == "" {
		logrus.Fatal("COOKIE_SECRET must be set")
	}

	gdb, err := db.Open(cfg) // Connect to the configured database
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client, the read cache is optional
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	} else {
		logrus.Info("REDIS_ADDR not set, read cache disabled")
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	hasher := utils.NewBcryptHasher()
	sessions := session.NewManager(gdb, cfg.SessionTTL, session.WithLogger(log))
	r := api.NewRouter(api.Deps{
		DB:            gdb,
		Log:           log,
		Cookies:       middleware.NewCookies(cfg),
		Credentials:   auth.NewCredentials(gdb, sessions, hasher, log),
		Gate:          auth.NewGate(sessions, gdb),
		Users:         service.NewUsers(gdb, redisClient, cfg.CacheTTL, log),
		Admins:        service.NewAdmins(gdb, redisClient, cfg.CacheTTL, hasher, log),
		Payments:      payment.NewProcessor(gdb, cfg.SecretPaymentKey, redisClient, log),
		PaymentSecret: cfg.SecretPaymentKey,
		CORSOrigins:   cfg.CORSOrigins,
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.RunSweeper(ctx, cfg.SessionSweepInterval) // Purge expired sessions

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("port", cfg.AppPort).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
