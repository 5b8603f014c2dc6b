package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"paydesk/internal/apperror"
	"paydesk/internal/domain"
	"paydesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdmins(t *testing.T) (*Admins, *gorm.DB) {
	t.Helper()
	gdb := testutil.NewDB(t)
	log, _ := testutil.NewLogger()
	return NewAdmins(gdb, nil, time.Minute, testutil.Hasher, log), gdb
}

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	s, gdb := newAdmins(t)

	res, err := s.CreateUser(ctx, CreateUserInput{
		Email:     "new@user.user",
		RoleID:    domain.RoleUserID,
		Password:  "pw",
		FirstName: "New",
		LastName:  strPtr(" "),
	})
	require.NoError(t, err)
	assert.Equal(t, DetailUserCreated, res.Detail)
	assert.Equal(t, int64(6), res.NewUserID)

	var u domain.User
	require.NoError(t, gdb.First(&u, res.NewUserID).Error)
	assert.Equal(t, int16(1), u.IsActive)
	assert.Nil(t, u.LastName)
	assert.True(t, testutil.Hasher.Verify("pw", u.PasswordHash))
	assert.False(t, testutil.Hasher.Verify("other", u.PasswordHash))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s, _ := newAdmins(t)

	_, err := s.CreateUser(context.Background(), CreateUserInput{
		Email:     "test_user1@user.user",
		RoleID:    domain.RoleUserID,
		Password:  "pw",
		FirstName: "Dup",
	})

	appErr := apperror.From(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, DetailCreateRejected, appErr.Detail)
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Given an unknown email When deleting Then not found", func(t *testing.T) {
		s, _ := newAdmins(t)
		_, err := s.DeleteUser(ctx, "nonexistent@x.x")
		appErr := apperror.From(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperror.KindNotFound, appErr.Kind)
		assert.Equal(t, DetailUserNotFound, appErr.Detail)
	})

	t.Run("Given a user without accounts When deleting Then the user and sessions are gone", func(t *testing.T) {
		s, gdb := newAdmins(t)
		now := time.Now().UTC()
		require.NoError(t, gdb.Create(&domain.Session{SessionToken: "tok", UserID: testutil.User3ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}).Error)

		detail, err := s.DeleteUser(ctx, "test_user3@user.user")
		require.NoError(t, err)
		assert.Equal(t, "User with email test_user3@user.user successfully deleted", detail)

		var n int64
		require.NoError(t, gdb.Model(&domain.User{}).Where("email = ?", "test_user3@user.user").Count(&n).Error)
		assert.Zero(t, n)
		require.NoError(t, gdb.Model(&domain.Session{}).Where("user_id = ?", testutil.User3ID).Count(&n).Error)
		assert.Zero(t, n)
	})

	t.Run("Given a user owning accounts When deleting Then conflict and nothing changes", func(t *testing.T) {
		s, gdb := newAdmins(t)
		_, err := s.DeleteUser(ctx, "test_user1@user.user")
		assert.Equal(t, DetailUserHasAccounts, apperror.From(err).Detail)
		assert.True(t, apperror.Is(err, apperror.KindConflict))

		var n int64
		require.NoError(t, gdb.Model(&domain.User{}).Where("id = ?", testutil.User1ID).Count(&n).Error)
		assert.Equal(t, int64(1), n)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Given only blank fields When updating Then nothing to update", func(t *testing.T) {
		s, _ := newAdmins(t)
		res, err := s.UpdateUser(ctx, UpdateUserInput{Email: "test_user2@user.user", NewEmail: strPtr(""), NewFirstName: strPtr("  ")})
		require.NoError(t, err)
		assert.Equal(t, DetailNothingToUpdate, res.Detail)
		assert.Zero(t, res.UpdatedUserID)
	})

	t.Run("Given a zero role id When updating Then the role is kept", func(t *testing.T) {
		s, gdb := newAdmins(t)
		zero := int64(0)
		res, err := s.UpdateUser(ctx, UpdateUserInput{Email: "test_user2@user.user", NewRoleID: &zero, NewFirstName: strPtr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, DetailUserUpdated, res.Detail)

		var u domain.User
		require.NoError(t, gdb.First(&u, testutil.User2ID).Error)
		assert.Equal(t, "Renamed", u.FirstName)
		require.NotNil(t, u.RoleID)
		assert.Equal(t, domain.RoleUserID, *u.RoleID)
	})

	t.Run("Given an unknown email When updating Then not found", func(t *testing.T) {
		s, _ := newAdmins(t)
		_, err := s.UpdateUser(ctx, UpdateUserInput{Email: "ghost@user.user", NewFirstName: strPtr("Ghost")})
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Given a taken email When updating Then conflict", func(t *testing.T) {
		s, _ := newAdmins(t)
		_, err := s.UpdateUser(ctx, UpdateUserInput{Email: "test_user2@user.user", NewEmail: strPtr("test_user1@user.user")})
		appErr := apperror.From(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusConflict, appErr.Code)
		assert.Equal(t, DetailEmailTaken, appErr.Detail)
	})

	t.Run("Given new fields When updating Then only they change", func(t *testing.T) {
		s, gdb := newAdmins(t)
		res, err := s.UpdateUser(ctx, UpdateUserInput{
			Email:        "test_user2@user.user",
			NewFirstName: strPtr("Johnny"),
			NewLastName:  strPtr("Doe"),
			NewPassword:  strPtr("fresh"),
		})
		require.NoError(t, err)
		assert.Equal(t, DetailUserUpdated, res.Detail)
		assert.Equal(t, testutil.User2ID, res.UpdatedUserID)

		var u domain.User
		require.NoError(t, gdb.First(&u, testutil.User2ID).Error)
		assert.Equal(t, "Johnny Doe", u.FullName())
		assert.Equal(t, "test_user2@user.user", u.Email)
		assert.True(t, testutil.Hasher.Verify("fresh", u.PasswordHash))
		require.NotNil(t, u.RoleID)
		assert.Equal(t, domain.RoleUserID, *u.RoleID)
	})
}

func TestListUsersWithAccounts(t *testing.T) {
	ctx := context.Background()
	s, gdb := newAdmins(t)
	require.NoError(t, gdb.Model(&domain.User{}).Where("id = ?", testutil.User4ID).Update("is_active", 0).Error)

	page, err := s.ListUsersWithAccounts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, UsersPerPage, page.MaxUserPerPage)
	require.Len(t, page.Users, 4)
	assert.Equal(t, testutil.AdminID, page.Users[0].ID)
	assert.Len(t, page.Users[0].Accounts, 2)
	assert.Equal(t, "Alex Smith", page.Users[1].FullName)
	assert.Len(t, page.Users[1].Accounts, 1)
	assert.NotNil(t, page.Users[3].Accounts)
	assert.Empty(t, page.Users[3].Accounts)

	empty, err := s.ListUsersWithAccounts(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, empty.Users)

	_, err = s.ListUsersWithAccounts(ctx, 0)
	assert.Equal(t, DetailBadPage, apperror.From(err).Detail)
}

func TestAdminWritesInvalidateListing(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)
	log, _ := testutil.NewLogger()
	s := NewAdmins(gdb, rdb, time.Minute, testutil.Hasher, log)

	before, err := s.ListUsersWithAccounts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, before.Users, 5)
	assert.True(t, mr.Exists("admin:users:page=1"))

	_, err = s.CreateUser(ctx, CreateUserInput{Email: "cached@user.user", RoleID: domain.RoleUserID, Password: "pw", FirstName: "C"})
	require.NoError(t, err)
	assert.False(t, mr.Exists("admin:users:page=1"))

	after, err := s.ListUsersWithAccounts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, after.Users, 6)
}
