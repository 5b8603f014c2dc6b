// Package session issues, validates and revokes the opaque session tokens
// that gate every protected operation.
package session

import (
	"context"         // Context for cancellation
	"crypto/rand"     // Token entropy
	"encoding/base64" // Token encoding
	"errors"          // Error handling
	"net/http"        // HTTP status codes
	"time"            // Time handling

	"paydesk/internal/apperror" // Application errors
	"paydesk/internal/domain"   // Domain models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // ORM library
)

// TokenBytes is the entropy of a session token
const TokenBytes = 32

// Details reported when no active session backs a request
const (
	DetailMissing = "Session not found"
	DetailExpired = "Session expired or not found"
)

// Identity is a validated session
type Identity struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Manager owns the sessions table
type Manager struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
	log logrus.FieldLogger
}

// Option customizes a Manager
type Option func(*Manager)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager builds a Manager issuing sessions that live for ttl
func NewManager(db *gorm.DB, ttl time.Duration, opts ...Option) *Manager {
	m := &Manager{
		db:  db,
		ttl: ttl,
		now: time.Now,
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the lifetime of new sessions
func (m *Manager) TTL() time.Duration { return m.ttl }

// GenerateToken returns a URL-safe random token
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes) // 256 bits
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create persists a new session for userID
func (m *Manager) Create(ctx context.Context, userID int64) (Identity, error) {
	token, err := GenerateToken()
	if err != nil {
		return Identity{}, apperror.Internal(err)
	}
	now := m.now().UTC() // Stored in UTC
	row := domain.Session{
		SessionToken: token,
		UserID:       userID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.db.WithContext(ctx).Create(&row).Error; err != nil {
		m.log.WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to create session")
		return Identity{}, apperror.Internal(err)
	}
	return Identity{Token: token, UserID: userID, ExpiresAt: row.ExpiresAt}, nil
}

// Validate resolves an active session. A missing token, an unknown token
// and an expired session all come back as KindUnauthenticated; only the
// missing token answers 422 so clients can tell "no cookie" from "stale cookie".
func (m *Manager) Validate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperror.Unauthenticated(DetailMissing).WithCode(http.StatusUnprocessableEntity)
	}
	var row domain.Session
	err := m.db.WithContext(ctx).
		Where("session_token = ? AND expires_at > ?", token, m.now().UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Identity{}, apperror.Unauthenticated(DetailExpired)
	}
	if err != nil {
		return Identity{}, apperror.Internal(err)
	}
	return Identity{Token: row.SessionToken, UserID: row.UserID, ExpiresAt: row.ExpiresAt}, nil
}

// Revoke deletes the session matching token. Unknown tokens are not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.db.WithContext(ctx).Where("session_token = ?", token).Delete(&domain.Session{}).Error; err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// RevokeAll deletes every session of the user owning token, expired or not.
// It reports false when token resolves to no session at all.
func (m *Manager) RevokeAll(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var row domain.Session
	err := m.db.WithContext(ctx).Where("session_token = ?", token).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperror.Internal(err)
	}
	res := m.db.WithContext(ctx).Where("user_id = ?", row.UserID).Delete(&domain.Session{}) // Every session of the owner
	if res.Error != nil {
		return false, apperror.Internal(res.Error)
	}
	m.log.WithFields(logrus.Fields{"user_id": row.UserID, "sessions": res.RowsAffected}).Info("All sessions revoked")
	return true, nil
}

// PurgeExpired removes sessions whose expiry has passed
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).Where("expires_at <= ?", m.now().UTC()).Delete(&domain.Session{})
	if res.Error != nil {
		return 0, apperror.Internal(res.Error)
	}
	return res.RowsAffected, nil
}

// RunSweeper purges expired sessions every interval until ctx is done
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval) // Sweep interval
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.PurgeExpired(ctx)
			if err != nil {
				m.log.WithField("error", err.Error()).Warn("Expired session sweep failed")
				continue
			}
			if n > 0 {
				m.log.WithField("sessions", n).Info("Expired sessions purged")
			}
		}
	}
}
