package domain

// Role identifiers seeded by the migration
const (
	RoleUserID  int64 = 1 // Plain user
	RoleAdminID int64 = 2 // Administrator
)

// Role Model
type Role struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`                                                    // Primary key
	Name string `gorm:"size:20;uniqueIndex;not null;check:chk_role_name,name IN ('user','admin')" json:"name"` // user or admin
}
