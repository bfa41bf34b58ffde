package otp

import (
	"time"
)

// OTPPurpose scopes the validity of an OTP code
type OTPPurpose string

const (
	PurposeLogin         OTPPurpose = "login"
	PurposeRegister      OTPPurpose = "register"
	PurposePasswordReset OTPPurpose = "password_reset"
)

// ParsePurpose validates a raw purpose string
func ParsePurpose(raw string) (OTPPurpose, bool) {
	switch OTPPurpose(raw) {
	case PurposeLogin, PurposeRegister, PurposePasswordReset:
		return OTPPurpose(raw), true
	}
	return "", false
}

// EmailOTPToken represents a one-time code issued for a (user, purpose) scope.
// Only the bcrypt hash of the code is persisted. Consumed tokens are retained
// for audit; unused ones are deleted when a new code is issued for the scope.
type EmailOTPToken struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"not null;index:idx_email_otp_tokens_scope" json:"user_id"`
	Purpose   OTPPurpose `gorm:"type:varchar(20);not null;index:idx_email_otp_tokens_scope" json:"purpose"`
	OTPHash   string     `gorm:"column:otp_hash;type:varchar(255);not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired checks if the token has expired
func (t *EmailOTPToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IsUsed checks if the token was already consumed
func (t *EmailOTPToken) IsUsed() bool {
	return t.UsedAt != nil
}

// IsValid checks if the token can still satisfy a consumption attempt
func (t *EmailOTPToken) IsValid() bool {
	return !t.IsUsed() && !t.IsExpired()
}
