package domain

import "time"

// User Model
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`                             // Primary key
	RoleID       *int64    `gorm:"index"`                                                // Foreign key to Role
	Role         *Role     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`       // Role reference, never preloaded by the core
	Email        string    `gorm:"size:255;uniqueIndex;not null"`                        // Unique login
	FirstName    string    `gorm:"size:100;not null"`                                    // First name
	LastName     *string   `gorm:"size:100"`                                             // Optional last name
	PasswordHash []byte    `gorm:"not null"`                                             // bcrypt hash
	CreatedAt    time.Time `gorm:"autoCreateTime"`                                       // Registration time
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`                                       // Last admin edit
	IsActive     int16     `gorm:"not null;check:chk_user_is_active,is_active IN (0,1)"` // 0 or 1
}

// FullName joins first and last name the way the profile views show it
func (u User) FullName() string {
	if u.LastName != nil && *u.LastName != "" {
		return u.FirstName + " " + *u.LastName
	}
	return u.FirstName
}
