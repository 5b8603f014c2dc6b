package db_test

import (
	"testing"

	"paydesk/internal/config"
	"paydesk/internal/db"
	"paydesk/internal/domain"
	"paydesk/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorSelectsDriver(t *testing.T) {
	tests := []struct {
		driver  string
		want    string
		wantErr bool
	}{
		{driver: "postgres", want: "postgres"},
		{driver: "mysql", want: "mysql"},
		{driver: "sqlite", want: "sqlite"},
		{driver: "oracle", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := db.Dialector(&config.Config{DBDriver: tt.driver, DBPath: "x.db"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestSeedMatchesReferenceData(t *testing.T) {
	gdb := testutil.NewDB(t)

	var admin domain.User
	require.NoError(t, gdb.Where("email = ?", db.SeedAdminEmail).First(&admin).Error)
	assert.Equal(t, testutil.AdminID, admin.ID)
	require.NotNil(t, admin.RoleID)
	assert.Equal(t, domain.RoleAdminID, *admin.RoleID)
	assert.True(t, testutil.Hasher.Verify(db.SeedAdminPassword, admin.PasswordHash))

	var john domain.User
	require.NoError(t, gdb.First(&john, testutil.User2ID).Error)
	assert.Equal(t, "test_user2@user.user", john.Email)

	var acct domain.Account
	require.NoError(t, gdb.First(&acct, testutil.User2MainAcct).Error)
	assert.Equal(t, testutil.User2ID, acct.UserID)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(250)), "balance %s", acct.Balance)

	var txCount int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Count(&txCount).Error)
	assert.Equal(t, int64(3), txCount)
}

func TestSeedIsIdempotent(t *testing.T) {
	gdb := testutil.NewDB(t)

	require.NoError(t, db.Seed(gdb, testutil.Hasher))

	var users int64
	require.NoError(t, gdb.Model(&domain.User{}).Count(&users).Error)
	assert.Equal(t, int64(5), users)
}
