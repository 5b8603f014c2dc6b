package domain

import "time"

// Session Model
type Session struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`      // Primary key
	SessionToken string    `gorm:"size:100;uniqueIndex;not null"` // Opaque random token
	UserID       int64     `gorm:"index;not null"`                // Foreign key to User
	User         *User     `gorm:"constraint:OnUpdate:CASCADE;"`  // Owner, used for the constraint only
	CreatedAt    time.Time `gorm:"not null"`                      // Login time
	ExpiresAt    time.Time `gorm:"index;not null"`                // Session is active while now < ExpiresAt
}
