package otp

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// SendOTPRequest is the payload for POST /auth/send-otp and /auth/resend-otp
type SendOTPRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Purpose string `json:"purpose" validate:"required,oneof=login register password_reset"`
}

func (req *SendOTPRequest) Validate() error {
	return validate.Struct(req)
}
