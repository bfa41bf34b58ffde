package auth

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (req *RegisterRequest) Validate() error {
	return validate.Struct(req)
}

// VerifyRegisterRequest is the payload for POST /auth/verify-register
type VerifyRegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (req *VerifyRegisterRequest) Validate() error {
	return validate.Struct(req)
}

// LoginPasswordRequest is the payload for POST /auth/login-password
type LoginPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (req *LoginPasswordRequest) Validate() error {
	return validate.Struct(req)
}

// LoginOtpRequest is the payload for POST /auth/login
type LoginOtpRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Code    string `json:"code" validate:"required,len=6,numeric"`
	Purpose string `json:"purpose" validate:"required,oneof=login register password_reset"`
}

func (req *LoginOtpRequest) Validate() error {
	return validate.Struct(req)
}

// RequestResetRequest is the payload for POST /auth/request-password-reset
type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (req *RequestResetRequest) Validate() error {
	return validate.Struct(req)
}

// ResetPasswordRequest is the payload for POST /auth/reset-password
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

func (req *ResetPasswordRequest) Validate() error {
	return validate.Struct(req)
}

// ChangePasswordRequest is the payload for POST /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

func (req *ChangePasswordRequest) Validate() error {
	return validate.Struct(req)
}

// SetPasswordRequest is the payload for POST /auth/set-password
type SetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

func (req *SetPasswordRequest) Validate() error {
	return validate.Struct(req)
}

// AuthUser is the public view of a user returned with a session token
type AuthUser struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}
