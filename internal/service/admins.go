package service

import (
	"context" // Context for cancellation
	"errors"  // Error handling
	"fmt"     // String formatting
	"strings" // String helpers
	"time"    // Time handling

	"paydesk/internal/apperror" // Application errors
	"paydesk/internal/domain"   // Domain models
	"paydesk/internal/utils"    // Cache and password helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
	"gorm.io/gorm"                 // ORM library
)

// Admin write outcomes
const (
	DetailUserCreated     = "New user created!"
	DetailCreateRejected  = "User is registered or field failed validation"
	DetailUserNotFound    = "User with this email not found"
	DetailEmailTaken      = "User with this email already exists"
	DetailUnknownRole     = "Role does not exist"
	DetailNothingToUpdate = "No fields to update"
	DetailUserUpdated     = "User successfully updated"
	DetailUserHasAccounts = "User still owns accounts and cannot be deleted"
	detailUserDeletedFmt  = "User with email %s successfully deleted"
)

// CreateUserInput carries the fields of a new user
type CreateUserInput struct {
	Email     string
	RoleID    int64
	Password  string
	FirstName string
	LastName  *string
}

// CreateUserResult reports the created user
type CreateUserResult struct {
	Detail    string `json:"detail"`
	NewUserID int64  `json:"new_user_id"`
}

// UpdateUserInput is a sparse patch addressed by email. Nil or blank
// fields and a zero role id are left unchanged.
type UpdateUserInput struct {
	Email        string
	NewEmail     *string
	NewRoleID    *int64
	NewFirstName *string
	NewLastName  *string
	NewPassword  *string
}

// UpdateUserResult reports the outcome of a patch. UpdatedUserID is zero
// when the patch was empty.
type UpdateUserResult struct {
	Detail        string `json:"detail"`
	UpdatedUserID int64  `json:"updated_user_id,omitempty"`
}

// UserWithAccounts is one row of the admin listing
type UserWithAccounts struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email"`
	FullName  string        `json:"full_name"`
	RoleID    *int64        `json:"role_id"`
	FirstName string        `json:"first_name"`
	LastName  *string       `json:"last_name"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Accounts  []AccountView `json:"accounts"`
}

// UsersPage is one page of the admin listing
type UsersPage struct {
	Users          []UserWithAccounts `json:"users"`
	Page           int                `json:"page"`
	MaxUserPerPage int                `json:"max_user_per_page"`
}

// Admins serves the administrator operations
type Admins struct {
	db     *gorm.DB
	rdb    *redis.Client
	ttl    time.Duration
	hasher utils.Hasher
	log    logrus.FieldLogger
}

// NewAdmins builds the admin service. rdb may be nil.
func NewAdmins(db *gorm.DB, rdb *redis.Client, ttl time.Duration, hasher utils.Hasher, log logrus.FieldLogger) *Admins {
	return &Admins{db: db, rdb: rdb, ttl: ttl, hasher: hasher, log: log}
}

// CreateUser registers an active user with the given role
func (s *Admins) CreateUser(ctx context.Context, in CreateUserInput) (CreateUserResult, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return CreateUserResult{}, apperror.Internal(err)
	}
	roleID := in.RoleID
	u := domain.User{
		RoleID:       &roleID,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     blankToNil(in.LastName),
		PasswordHash: hash,
		IsActive:     1,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			return CreateUserResult{}, apperror.BadRequest(DetailCreateRejected)
		}
		return CreateUserResult{}, apperror.Internal(err)
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role_id": roleID}).Info("User created")
	s.invalidate(ctx)
	return CreateUserResult{Detail: DetailUserCreated, NewUserID: u.ID}, nil
}

// DeleteUser removes the user with the given email together with their
// sessions. Users who still own accounts are refused.
func (s *Admins) DeleteUser(ctx context.Context, email string) (string, error) {
	var deleted domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(DetailUserNotFound)
			}
			return err
		}
		var owned int64
		if err := tx.Model(&domain.Account{}).Where("user_id = ?", deleted.ID).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 { // Accounts keep their owner
			return apperror.Conflict(DetailUserHasAccounts)
		}
		if err := tx.Where("user_id = ?", deleted.ID).Delete(&domain.Session{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", deleted.ID).Delete(&domain.User{})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
				return apperror.Conflict(DetailUserHasAccounts)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound(DetailUserNotFound)
		}
		return nil
	})
	if err != nil {
		return "", apperror.From(err)
	}

	s.log.WithField("user_id", deleted.ID).Info("User deleted")
	s.invalidate(ctx)
	return fmt.Sprintf(detailUserDeletedFmt, email), nil
}

// UpdateUser applies a sparse patch to the user with the given email
func (s *Admins) UpdateUser(ctx context.Context, in UpdateUserInput) (UpdateUserResult, error) {
	changes := map[string]any{}
	if v := blankToNil(in.NewEmail); v != nil {
		changes["email"] = *v
	}
	if in.NewRoleID != nil && *in.NewRoleID != 0 { // Zero is an empty form value
		changes["role_id"] = *in.NewRoleID
	}
	if v := blankToNil(in.NewFirstName); v != nil {
		changes["first_name"] = *v
	}
	if v := blankToNil(in.NewLastName); v != nil {
		changes["last_name"] = *v
	}
	if v := blankToNil(in.NewPassword); v != nil {
		hash, err := s.hasher.Hash(*v)
		if err != nil {
			return UpdateUserResult{}, apperror.Internal(err)
		}
		changes["password_hash"] = hash
	}
	if len(changes) == 0 {
		return UpdateUserResult{Detail: DetailNothingToUpdate}, nil
	}

	var u domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", in.Email).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound(DetailUserNotFound)
			}
			return err
		}
		if err := tx.Model(&u).Updates(changes).Error; err != nil {
			switch {
			case errors.Is(err, gorm.ErrDuplicatedKey):
				return apperror.Conflict(DetailEmailTaken)
			case errors.Is(err, gorm.ErrForeignKeyViolated):
				return apperror.BadRequest(DetailUnknownRole)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return UpdateUserResult{}, apperror.From(err)
	}

	fields := make([]string, 0, len(changes))
	for k := range changes {
		fields = append(fields, k)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "fields": strings.Join(fields, ",")}).Info("User updated")
	s.invalidate(ctx)
	return UpdateUserResult{Detail: DetailUserUpdated, UpdatedUserID: u.ID}, nil
}

// ListUsersWithAccounts returns one page of active users ordered by id,
// each with all of their accounts
func (s *Admins) ListUsersWithAccounts(ctx context.Context, page int) (UsersPage, error) {
	if err := checkPage(page); err != nil {
		return UsersPage{}, err
	}
	key := fmt.Sprintf("%s%d", utils.CacheAdminUsersPrefix, page) // admin:users:page=N
	out := UsersPage{Users: []UserWithAccounts{}, Page: page, MaxUserPerPage: UsersPerPage}
	if found, err := utils.GetCache(ctx, s.rdb, key, &out); err == nil && found {
		return out, nil
	}

	db := s.db.WithContext(ctx)
	var users []domain.User
	if err := db.Where("is_active = ?", 1).
		Order("id").
		Limit(UsersPerPage).
		Offset((page - 1) * UsersPerPage).
		Find(&users).Error; err != nil {
		return UsersPage{}, apperror.Internal(err)
	}
	if len(users) > 0 {
		ids := make([]int64, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		var accounts []domain.Account
		if err := db.Where("user_id IN ?", ids).Order("id").Find(&accounts).Error; err != nil { // One query for the whole page
			return UsersPage{}, apperror.Internal(err)
		}
		byUser := make(map[int64][]AccountView, len(users))
		for _, a := range accounts {
			byUser[a.UserID] = append(byUser[a.UserID], newAccountView(a))
		}
		for _, u := range users {
			accts := byUser[u.ID]
			if accts == nil {
				accts = []AccountView{}
			}
			out.Users = append(out.Users, UserWithAccounts{
				ID:        u.ID,
				Email:     u.Email,
				FullName:  u.FullName(),
				RoleID:    u.RoleID,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				CreatedAt: u.CreatedAt,
				UpdatedAt: u.UpdatedAt,
				Accounts:  accts,
			})
		}
	}

	if err := utils.SetCache(ctx, s.rdb, key, out, s.ttl); err != nil {
		s.log.WithField("error", err.Error()).Warn("Failed to cache users page")
	}
	return out, nil
}

// invalidate drops every cached listing page
func (s *Admins) invalidate(ctx context.Context) {
	if err := utils.DeleteCachePrefix(ctx, s.rdb, utils.CacheAdminUsersPrefix); err != nil {
		s.log.WithField("error", err.Error()).Warn("Cache invalidation failed")
	}
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
