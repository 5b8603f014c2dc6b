package auth

import (
	"context" // Context for cancellation
	"errors"  // Error handling

	"paydesk/internal/apperror" // Application errors
	"paydesk/internal/domain"   // Domain models
	"paydesk/internal/session"  // Session manager
	"paydesk/internal/utils"    // Cache and password helpers

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // ORM library
)

// Flow details
const (
	DetailActiveSession  = "The user has an active session"
	DetailUnknownUser    = "The user does not exist"
	DetailBadCredentials = "Invalid email or password"
	DetailLoginOK        = "Login successful"
	DetailLogoutOK       = "Logout successful"
	DetailAllRemoved     = "All sessions deleted!"
)

// Credentials runs login, logout and "log out everywhere"
type Credentials struct {
	db       *gorm.DB
	sessions *session.Manager
	hasher   utils.Hasher
	log      logrus.FieldLogger
}

// NewCredentials wires the credential flows
func NewCredentials(db *gorm.DB, sessions *session.Manager, hasher utils.Hasher, log logrus.FieldLogger) *Credentials {
	return &Credentials{db: db, sessions: sessions, hasher: hasher, log: log}
}

// Login checks email and password and opens a session. A caller already
// holding an active session must log out first. A presented token that
// cannot be checked counts as no session.
func (c *Credentials) Login(ctx context.Context, presented, email, password string) (session.Identity, error) {
	if presented != "" {
		_, err := c.sessions.Validate(ctx, presented)
		if err == nil {
			return session.Identity{}, apperror.New(apperror.KindAlreadyAuthenticated, DetailActiveSession)
		}
		if !apperror.Is(err, apperror.KindUnauthenticated) {
			c.log.WithField("error", err.Error()).Warn("Active session check failed, treating as no session")
		}
	}

	var u domain.User
	err := c.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Identity{}, apperror.Unauthenticated(DetailUnknownUser)
	}
	if err != nil {
		return session.Identity{}, apperror.Internal(err)
	}
	if !c.hasher.Verify(password, u.PasswordHash) { // bcrypt compare
		c.log.WithField("user_id", u.ID).Warn("Login rejected: bad password")
		return session.Identity{}, apperror.Unauthenticated(DetailBadCredentials)
	}

	ident, err := c.sessions.Create(ctx, u.ID) // New opaque token
	if err != nil {
		return session.Identity{}, err
	}
	c.log.WithFields(logrus.Fields{"user_id": u.ID, "expires_at": ident.ExpiresAt}).Info("User logged in")
	return ident, nil
}

// Logout revokes the presented session, which must be active
func (c *Credentials) Logout(ctx context.Context, token string) (string, error) {
	ident, err := c.sessions.Validate(ctx, token)
	if err != nil {
		return "", err
	}
	if err := c.sessions.Revoke(ctx, ident.Token); err != nil {
		return "", err
	}
	c.log.WithField("user_id", ident.UserID).Info("User logged out")
	return DetailLogoutOK, nil
}

// RemoveAllSessions revokes every session of the token's owner. A token that
// resolves to nothing is reported, not failed. clear tells the boundary to
// drop the client credential.
func (c *Credentials) RemoveAllSessions(ctx context.Context, token string) (detail string, clear bool, err error) {
	if token == "" {
		return session.DetailMissing, false, nil
	}
	found, err := c.sessions.RevokeAll(ctx, token)
	if err != nil {
		return "", false, err
	}
	if !found {
		return session.DetailMissing, true, nil
	}
	return DetailAllRemoved, true, nil
}
