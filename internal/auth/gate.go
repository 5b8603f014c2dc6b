// Package auth derives who is calling from a validated session and runs the
// credential flows that create and destroy sessions.
package auth

import (
	"context" // Context for cancellation
	"errors"  // Error handling

	"paydesk/internal/apperror" // Application errors
	"paydesk/internal/domain"   // Domain models
	"paydesk/internal/session"  // Session manager

	"gorm.io/gorm" // ORM library
)

// Forbidden details reported by the role filters
const (
	DetailNotAdmin = "User not found or user is not an administrator"
	DetailNotUser  = "User not found"
)

// Principal is an authenticated caller that passed a role filter
type Principal struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Token    string `json:"-"`
}

// Gate applies the admin and plain-user role filters
type Gate struct {
	sessions *session.Manager
	db       *gorm.DB
}

// NewGate builds a Gate on top of the session manager
func NewGate(sessions *session.Manager, db *gorm.DB) *Gate {
	return &Gate{sessions: sessions, db: db}
}

// Admin returns the caller when userID is an active administrator
func (g *Gate) Admin(ctx context.Context, userID int64) (Principal, error) {
	var u domain.User
	err := g.db.WithContext(ctx).
		Where("id = ? AND role_id = ? AND is_active = 1", userID, domain.RoleAdminID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Principal{}, apperror.Forbidden(DetailNotAdmin) // Wrong role, inactive or deleted
	}
	if err != nil {
		return Principal{}, apperror.Internal(err)
	}
	return Principal{ID: u.ID, Email: u.Email, FullName: u.FullName()}, nil
}

// User returns the caller when userID is an active plain user. Admins do
// not pass this filter: the user views are for account holders only.
func (g *Gate) User(ctx context.Context, userID int64) (Principal, error) {
	var u domain.User
	err := g.db.WithContext(ctx).
		Where("id = ? AND role_id = ? AND is_active = 1", userID, domain.RoleUserID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Principal{}, apperror.Forbidden(DetailNotUser) // Wrong role, inactive or deleted
	}
	if err != nil {
		return Principal{}, apperror.Internal(err)
	}
	return Principal{ID: u.ID, Email: u.Email, FullName: u.FullName()}, nil
}

// AuthenticateAdmin validates the session, then applies the admin filter.
// Session problems win over role problems.
func (g *Gate) AuthenticateAdmin(ctx context.Context, token string) (Principal, error) {
	ident, err := g.sessions.Validate(ctx, token) // Session first
	if err != nil {
		return Principal{}, err
	}
	p, err := g.Admin(ctx, ident.UserID)
	if err != nil {
		return Principal{}, err
	}
	p.Token = ident.Token
	return p, nil
}

// AuthenticateUser validates the session, then applies the plain-user filter
func (g *Gate) AuthenticateUser(ctx context.Context, token string) (Principal, error) {
	ident, err := g.sessions.Validate(ctx, token) // Session first
	if err != nil {
		return Principal{}, err
	}
	p, err := g.User(ctx, ident.UserID)
	if err != nil {
		return Principal{}, err
	}
	p.Token = ident.Token
	return p, nil
}
