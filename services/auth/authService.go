package auth

import (
	"errors"
	"fmt"

	authTypes "finance-tracker/types/auth"

	otpModel "finance-tracker/models/otp"
	userModel "finance-tracker/models/user"
	otpService "finance-tracker/services/otp"
	tokenService "finance-tracker/services/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

// Service orchestrates registration, login and password flows on top of the
// OTP and token services
type Service struct {
	DB       *gorm.DB
	OTP      *otpService.Service
	Token    *tokenService.Service
	HashCost int
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, otp *otpService.Service, token *tokenService.Service) *Service {
	return &Service{
		DB:       db,
		OTP:      otp,
		Token:    token,
		HashCost: otpService.DefaultHashCost,
	}
}

// Result is the discriminated outcome of an auth operation. Status carries
// the HTTP status the controller should answer with when OK is false.
type Result struct {
	OK      bool
	Status  int
	Message string
	Token   string
	User    *authTypes.AuthUser
}

func failure(status int, message string) *Result {
	return &Result{Status: status, Message: message}
}

func authUser(u *userModel.User) *authTypes.AuthUser {
	return &authTypes.AuthUser{ID: u.ID, Email: u.Email, Status: string(u.Status)}
}

func (s *Service) findByEmail(email string) (*userModel.User, error) {
	var user userModel.User
	err := s.DB.Where("email = ?", otpService.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

// Register creates a pending user with a password and sends a register OTP.
// An email that already has a password set is a conflict; a pending user
// without one (created by an earlier OTP request) is treated as not yet
// registered and gets the password attached.
func (s *Service) Register(email, password string) (*Result, error) {
	if len(password) < minPasswordLen {
		return failure(400, fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen)), nil
	}

	existing, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.HasPassword() {
		return failure(409, "El correo ya está registrado"), nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(passwordHash)

	if existing != nil {
		err = s.DB.Model(existing).Update("password_hash", hash).Error
	} else {
		user, createErr := s.OTP.GetOrCreateUser(email)
		if createErr != nil {
			return nil, createErr
		}
		err = s.DB.Model(user).Update("password_hash", hash).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store password: %w", err)
	}

	issue, err := s.OTP.Issue(email, otpModel.PurposeRegister)
	if err != nil {
		return nil, err
	}
	if issue.Throttled {
		return failure(429, issue.Reason), nil
	}

	return &Result{OK: true, Message: "Usuario creado. Revisa tu correo para validar con el OTP."}, nil
}

// VerifyRegisterOTP consumes a register code and activates the user when it
// is still pending. Re-verifying an already active user succeeds without a
// state change.
func (s *Service) VerifyRegisterOTP(email, code string) (*Result, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return failure(404, "usuario no existe"), nil
	}

	consumed, err := s.OTP.Consume(user.ID, code, otpModel.PurposeRegister)
	if err != nil {
		return nil, err
	}
	if !consumed.OK {
		return failure(400, consumed.Reason), nil
	}

	if err := s.activateIfPending(user); err != nil {
		return nil, err
	}
	return &Result{OK: true, Message: "Correo verificado. Ya puedes iniciar sesión."}, nil
}

// RequestOTP issues a code for the given purpose, creating the user on first
// contact
func (s *Service) RequestOTP(email string, purpose otpModel.OTPPurpose) (*Result, error) {
	issue, err := s.OTP.Issue(email, purpose)
	if err != nil {
		return nil, err
	}
	if issue.Throttled {
		return failure(429, issue.Reason), nil
	}
	return &Result{OK: true, Message: "Código enviado. Revisa tu correo."}, nil
}

// LoginWithPassword verifies a password for an active user and signs a
// session token
func (s *Service) LoginWithPassword(email, password string) (*Result, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return failure(404, "usuario no existe"), nil
	}
	if !user.IsActive() {
		return failure(403, "Debes validar tu correo primero"), nil
	}
	if !user.HasPassword() {
		return failure(400, "Este usuario no tiene contraseña"), nil
	}

	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return failure(400, "Credenciales inválidas"), nil
	}

	signed, err := s.Token.Sign(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Result{OK: true, Token: signed, User: authUser(user)}, nil
}

// LoginWithOTP consumes a code for the given purpose, activates a still
// pending user and signs a session token
func (s *Service) LoginWithOTP(email, code string, purpose otpModel.OTPPurpose) (*Result, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return failure(404, "usuario no existe"), nil
	}

	consumed, err := s.OTP.Consume(user.ID, code, purpose)
	if err != nil {
		return nil, err
	}
	if !consumed.OK {
		return failure(400, consumed.Reason), nil
	}

	if err := s.activateIfPending(user); err != nil {
		return nil, err
	}

	signed, err := s.Token.Sign(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Result{OK: true, Token: signed, User: authUser(user)}, nil
}

// RequestPasswordReset issues a password_reset code when the user exists.
// The result is success either way so the endpoint cannot be used to probe
// which emails are registered; a cooldown still surfaces as a throttle.
func (s *Service) RequestPasswordReset(email string) (*Result, error) {
	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &Result{OK: true}, nil
	}

	issue, err := s.OTP.Issue(email, otpModel.PurposePasswordReset)
	if err != nil {
		return nil, err
	}
	if issue.Throttled {
		return failure(429, issue.Reason), nil
	}
	return &Result{OK: true}, nil
}

// ResetPassword consumes a password_reset code and replaces the password.
// Proving control over the email also activates a still pending user.
func (s *Service) ResetPassword(email, code, newPassword string) (*Result, error) {
	if len(newPassword) < minPasswordLen {
		return failure(400, fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen)), nil
	}

	user, err := s.findByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return failure(404, "usuario no existe"), nil
	}

	consumed, err := s.OTP.Consume(user.ID, code, otpModel.PurposePasswordReset)
	if err != nil {
		return nil, err
	}
	if !consumed.OK {
		return failure(400, consumed.Reason), nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	updates := map[string]interface{}{"password_hash": string(passwordHash)}
	if user.Status == userModel.StatusPendingEmail {
		updates["status"] = userModel.StatusActive
	}
	if err := s.DB.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return &Result{OK: true, Message: "Contraseña actualizada."}, nil
}

// ChangePassword replaces the password of an authenticated user. When a
// password already exists the current one must be supplied and match; a
// user who only ever logged in via OTP can set one without it.
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) (*Result, error) {
	if len(newPassword) < minPasswordLen {
		return failure(400, fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen)), nil
	}

	var user userModel.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(404, "usuario no existe"), nil
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.HasPassword() {
		if currentPassword == "" {
			return failure(400, "currentPassword requerido"), nil
		}
		if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(currentPassword)) != nil {
			return failure(400, "Contraseña actual incorrecta"), nil
		}
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.DB.Model(&user).Update("password_hash", string(passwordHash)).Error; err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return &Result{OK: true, Message: "Contraseña actualizada."}, nil
}

// SetPassword attaches a password to an authenticated user without asking
// for the current one; the session itself is the proof of identity here
func (s *Service) SetPassword(userID uint, newPassword string) (*Result, error) {
	if len(newPassword) < minPasswordLen {
		return failure(400, fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen)), nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	res := s.DB.Model(&userModel.User{}).
		Where("id = ?", userID).
		Update("password_hash", string(passwordHash))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return failure(404, "usuario no existe"), nil
	}
	return &Result{OK: true, Message: "Contraseña establecida."}, nil
}

// GetUser loads the authenticated user's public profile
func (s *Service) GetUser(userID uint) (*authTypes.AuthUser, error) {
	var user userModel.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return authUser(&user), nil
}

// activateIfPending promotes pending_email to active. The transition only
// ever moves forward; active, locked and disabled users are left untouched.
func (s *Service) activateIfPending(user *userModel.User) error {
	if user.Status != userModel.StatusPendingEmail {
		return nil
	}
	err := s.DB.Model(user).Update("status", userModel.StatusActive).Error
	if err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	return nil
}
