package db

import (
	"fmt" // Error wrapping

	"paydesk/internal/domain" // Importing domain models
	"paydesk/internal/utils"  // Password hashing

	"github.com/shopspring/decimal" // Fixed point amounts
	"gorm.io/gorm"                  // GORM ORM library
)

// Seed credentials
const (
	SeedAdminEmail    = "admin@admin.admin"
	SeedAdminPassword = "admin"
	SeedUserPassword  = "user"
)

// Seed inserts the reference roles and the demo users, accounts and
// transactions. It does nothing when the roles table is already populated.
func Seed(db *gorm.DB, hasher utils.Hasher) error {
	var roles int64
	if err := db.Model(&domain.Role{}).Count(&roles).Error; err != nil {
		return err
	}
	if roles > 0 {
		return nil // Already seeded
	}
	adminHash, err := hasher.Hash(SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	userHash, err := hasher.Hash(SeedUserPassword)
	if err != nil {
		return fmt.Errorf("hash user password: %w", err)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&[]domain.Role{
			{ID: domain.RoleUserID, Name: "user"},
			{ID: domain.RoleAdminID, Name: "admin"},
		}).Error; err != nil {
			return err
		}

		adminRole, userRole := domain.RoleAdminID, domain.RoleUserID
		smith := "Smith"
		users := []domain.User{
			{RoleID: &adminRole, Email: SeedAdminEmail, FirstName: "admin", PasswordHash: adminHash, IsActive: 1},
			{RoleID: &userRole, Email: "test_user1@user.user", FirstName: "Alex", LastName: &smith, PasswordHash: userHash, IsActive: 1},
			{RoleID: &userRole, Email: "test_user2@user.user", FirstName: "John", PasswordHash: userHash, IsActive: 1},
			{RoleID: &userRole, Email: "test_user3@user.user", FirstName: "Anna", LastName: &smith, PasswordHash: userHash, IsActive: 1},
			{RoleID: &userRole, Email: "test_user4@user.user", FirstName: "Julia", PasswordHash: userHash, IsActive: 1},
		}
		if err := tx.Create(&users).Error; err != nil {
			return err
		}

		accounts := []domain.Account{
			{UserID: users[0].ID, Name: "main_admin_account", Balance: decimal.NewFromInt(500), IsActive: 1},
			{UserID: users[0].ID, Name: "second_admin_account", Balance: decimal.Zero, IsActive: 1},
			{UserID: users[1].ID, Name: "main_user1_account", Balance: decimal.NewFromInt(1000), IsActive: 1},
			{UserID: users[2].ID, Name: "main_user2_account", Balance: decimal.NewFromInt(250), IsActive: 1},
		}
		if err := tx.Create(&accounts).Error; err != nil {
			return err
		}

		ext := func(s string) *string { return &s }
		txs := []domain.Transaction{
			{AccountID: accounts[0].ID, Type: domain.TypeDebit, Amount: decimal.NewFromInt(500), Status: domain.StatusCompleted, ExternalID: ext("FSwr1r2tafk12j1kgg543g")},
			{AccountID: accounts[0].ID, Type: domain.TypeDebit, Amount: decimal.NewFromInt(200), Status: domain.StatusCancelled, ExternalID: ext("FDSAfewf32fwg54yudhdfhd43")},
			{AccountID: accounts[2].ID, Type: domain.TypeDebit, Amount: decimal.NewFromInt(500), Status: domain.StatusPending, ExternalID: ext("asfaewqgsdg2tgafGFR32fsdg4")},
		}
		return tx.Create(&txs).Error
	})
}
