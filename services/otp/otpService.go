package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"finance-tracker/database"
	otpModel "finance-tracker/models/otp"
	userModel "finance-tracker/models/user"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// CodeTTL is how long an issued code stays consumable
	CodeTTL = 5 * time.Minute
	// ResendCooldown is the minimum interval between issuances per (user, purpose)
	ResendCooldown = 60 * time.Second
	// DefaultHashCost is the bcrypt cost for OTP-code hashes
	DefaultHashCost = 10
)

// Notifier delivers the plaintext code out of band
type Notifier interface {
	SendOTPEmail(to, code string) error
}

// Service handles OTP issuance and consumption
type Service struct {
	DB       *gorm.DB
	Notifier Notifier
	HashCost int
}

// NewOTPService creates a new OTP service
func NewOTPService(db *gorm.DB, notifier Notifier) *Service {
	return &Service{
		DB:       db,
		Notifier: notifier,
		HashCost: DefaultHashCost,
	}
}

// IssueResult is the discriminated outcome of an issuance attempt
type IssueResult struct {
	OK          bool
	Throttled   bool
	WaitSeconds int
	Reason      string
	User        *userModel.User
}

// ConsumeResult is the discriminated outcome of a consumption attempt
type ConsumeResult struct {
	OK     bool
	Reason string
}

// NormalizeEmail trims and lowercases an email so the same logical user is
// resolved regardless of input casing or whitespace
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateCode returns a uniformly random 6-digit code in [100000, 999999]
func (s *Service) GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GetOrCreateUser resolves a user by normalized email, creating a
// pending_email user with the default role on first contact
func (s *Service) GetOrCreateUser(email string) (*userModel.User, error) {
	email = NormalizeEmail(email)

	var user userModel.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	role, err := database.EnsureDefaultRole(s.DB)
	if err != nil {
		return nil, err
	}

	user = userModel.User{
		Email:  email,
		Status: userModel.StatusPendingEmail,
		RoleID: role.ID,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Issue creates and delivers a new OTP for (email, purpose).
//
// The cooldown is checked against the most recent token for the scope no
// matter whether it was used or expired; that throttles resend abuse without
// a separate rate-limit store. On success all prior unused tokens for the
// scope are deleted, so at most one code is consumable at any time.
// A delivery failure is returned as an error after the token is stored.
func (s *Service) Issue(email string, purpose otpModel.OTPPurpose) (*IssueResult, error) {
	email = NormalizeEmail(email)

	user, err := s.GetOrCreateUser(email)
	if err != nil {
		return nil, err
	}

	var recent otpModel.EmailOTPToken
	err = s.DB.Where("user_id = ? AND purpose = ?", user.ID, purpose).
		Order("created_at DESC").
		First(&recent).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check recent OTP: %w", err)
	}
	if err == nil {
		elapsed := time.Since(recent.CreatedAt)
		if elapsed < ResendCooldown {
			wait := int(math.Ceil((ResendCooldown - elapsed).Seconds()))
			return &IssueResult{
				Throttled:   true,
				WaitSeconds: wait,
				Reason:      fmt.Sprintf("Espera %ds para solicitar otro código.", wait),
			}, nil
		}
	}

	// Invalidate prior unused codes for this scope, expired ones included
	err = s.DB.Where("user_id = ? AND purpose = ? AND used_at IS NULL", user.ID, purpose).
		Delete(&otpModel.EmailOTPToken{}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate existing OTPs: %w", err)
	}

	code, err := s.GenerateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	otpHash, err := bcrypt.GenerateFromPassword([]byte(code), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash OTP: %w", err)
	}

	token := &otpModel.EmailOTPToken{
		UserID:    user.ID,
		Purpose:   purpose,
		OTPHash:   string(otpHash),
		ExpiresAt: time.Now().Add(CodeTTL),
	}
	if err := s.DB.Create(token).Error; err != nil {
		return nil, fmt.Errorf("failed to create OTP record: %w", err)
	}

	// The token is already stored; a failed delivery surfaces to the caller
	// but does not roll it back
	if err := s.Notifier.SendOTPEmail(email, code); err != nil {
		return nil, fmt.Errorf("failed to deliver OTP email: %w", err)
	}

	return &IssueResult{OK: true, User: user}, nil
}

// Consume validates a code against the scope's latest valid token and marks
// it used. The mark-used step is a single conditional update, so under
// concurrent attempts on the same token exactly one succeeds.
func (s *Service) Consume(userID uint, code string, purpose otpModel.OTPPurpose) (*ConsumeResult, error) {
	var token otpModel.EmailOTPToken
	err := s.DB.Where("user_id = ? AND purpose = ? AND used_at IS NULL AND expires_at > ?",
		userID, purpose, time.Now()).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ConsumeResult{Reason: "OTP inválido o expirado"}, nil
		}
		return nil, fmt.Errorf("failed to find OTP record: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(token.OTPHash), []byte(code)) != nil {
		return &ConsumeResult{Reason: "OTP incorrecto"}, nil
	}

	res := s.DB.Model(&otpModel.EmailOTPToken{}).
		Where("id = ? AND used_at IS NULL", token.ID).
		Update("used_at", time.Now())
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark OTP as used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Lost a concurrent consumption race
		return &ConsumeResult{Reason: "OTP inválido o expirado"}, nil
	}

	return &ConsumeResult{OK: true}, nil
}
