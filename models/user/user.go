package user

import (
	"time"
)

// UserStatus represents the lifecycle status of a user account
type UserStatus string

const (
	StatusPendingEmail UserStatus = "pending_email"
	StatusActive       UserStatus = "active"
	StatusLocked       UserStatus = "locked"
	StatusDisabled     UserStatus = "disabled"
)

// Role represents a user role
type Role struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"type:varchar(50);not null;unique" json:"code"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// User model. Email is stored lowercased; PasswordHash stays nil until a
// password is set (OTP-only users have none).
type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"type:varchar(255);not null;unique" json:"email"`
	PasswordHash *string    `gorm:"type:varchar(255)" json:"-"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:pending_email" json:"status"`
	RoleID       uint       `gorm:"not null;index" json:"role_id"`
	Role         Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasPassword reports whether the user has a password set
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsActive reports whether the user completed email verification
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
