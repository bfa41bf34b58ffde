package auth

import (
	"fmt"

	"finance-tracker/logger"
	"finance-tracker/middleware"
	otpModel "finance-tracker/models/otp"
	authService "finance-tracker/services/auth"
	"finance-tracker/types"
	authTypes "finance-tracker/types/auth"
	otpTypes "finance-tracker/types/otp"
	"finance-tracker/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController handles authentication HTTP requests
type AuthController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
	Auth   *authService.Service
}

// NewAuthController creates a new auth controller
func NewAuthController(db *gorm.DB, asyncLogger *logger.AsyncLogger, auth *authService.Service) *AuthController {
	return &AuthController{
		DB:     db,
		Logger: asyncLogger,
		Auth:   auth,
	}
}

func (ac *AuthController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (ac *AuthController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.logAPIRequest(c)
	return result
}

func (ac *AuthController) sendResult(c *fiber.Ctx, result *authService.Result) error {
	if !result.OK {
		return ac.sendResponseWithLog(c, result.Status, types.ApiResponse{
			Message: result.Message,
			Status:  result.Status,
		})
	}
	response := types.ApiResponse{
		Message: result.Message,
		Status:  fiber.StatusOK,
		Token:   result.Token,
	}
	if result.User != nil {
		response.Data = result.User
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, response)
}

func (ac *AuthController) badRequest(c *fiber.Ctx, message string) error {
	return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusBadRequest,
	})
}

func (ac *AuthController) internalError(c *fiber.Ctx, context string, err error) error {
	logger.Error(context, err)
	return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
		Message: "Error interno",
		Status:  fiber.StatusInternalServerError,
	})
}

// Register creates a pending user with a password and sends a register OTP
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	result, err := ac.Auth.Register(req.Email, req.Password)
	if err != nil {
		return ac.internalError(c, "Register failed", err)
	}
	return ac.sendResult(c, result)
}

// VerifyRegister consumes the register OTP and activates the account
func (ac *AuthController) VerifyRegister(c *fiber.Ctx) error {
	var req authTypes.VerifyRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	result, err := ac.Auth.VerifyRegisterOTP(req.Email, req.Code)
	if err != nil {
		return ac.internalError(c, "Register verification failed", err)
	}
	return ac.sendResult(c, result)
}

// SendOTP issues a code for the requested purpose
func (ac *AuthController) SendOTP(c *fiber.Ctx) error {
	var req otpTypes.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	purpose, ok := otpModel.ParsePurpose(req.Purpose)
	if !ok {
		return ac.badRequest(c, "Propósito inválido")
	}

	result, err := ac.Auth.RequestOTP(req.Email, purpose)
	if err != nil {
		return ac.internalError(c, "OTP issuance failed", err)
	}
	return ac.sendResult(c, result)
}

// LoginPassword authenticates with email and password
func (ac *AuthController) LoginPassword(c *fiber.Ctx) error {
	var req authTypes.LoginPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	result, err := ac.Auth.LoginWithPassword(req.Email, req.Password)
	if err != nil {
		return ac.internalError(c, "Password login failed", err)
	}
	return ac.sendResult(c, result)
}

// LoginOTP authenticates with an OTP code
func (ac *AuthController) LoginOTP(c *fiber.Ctx) error {
	var req authTypes.LoginOtpRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if req.Purpose == "" {
		req.Purpose = string(otpModel.PurposeLogin)
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	purpose, ok := otpModel.ParsePurpose(req.Purpose)
	if !ok {
		return ac.badRequest(c, "Propósito inválido")
	}

	result, err := ac.Auth.LoginWithOTP(req.Email, req.Code, purpose)
	if err != nil {
		return ac.internalError(c, "OTP login failed", err)
	}
	return ac.sendResult(c, result)
}

// RequestPasswordReset issues a password_reset OTP. The answer is the same
// whether or not the email exists, and a cooldown is reported as success
// too, so this endpoint discloses nothing about registered emails.
func (ac *AuthController) RequestPasswordReset(c *fiber.Ctx) error {
	var req authTypes.RequestResetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	result, err := ac.Auth.RequestPasswordReset(req.Email)
	if err != nil {
		return ac.internalError(c, "Password reset request failed", err)
	}
	if !result.OK {
		logger.Warning(fmt.Sprintf("Password reset throttled: %s", result.Message))
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Si el correo existe, enviaremos un código.",
		Status:  fiber.StatusOK,
	})
}

// ResetPassword consumes a password_reset OTP and replaces the password
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	var req authTypes.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	result, err := ac.Auth.ResetPassword(req.Email, req.Code, req.NewPassword)
	if err != nil {
		return ac.internalError(c, "Password reset failed", err)
	}
	return ac.sendResult(c, result)
}

// ChangePassword replaces the authenticated user's password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "No autorizado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var req authTypes.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	result, err := ac.Auth.ChangePassword(userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return ac.internalError(c, "Password change failed", err)
	}
	return ac.sendResult(c, result)
}

// SetPassword attaches a password to an OTP-only account
func (ac *AuthController) SetPassword(c *fiber.Ctx) error {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "No autorizado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var req authTypes.SetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return ac.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return ac.badRequest(c, err.Error())
	}

	result, err := ac.Auth.SetPassword(userID, req.NewPassword)
	if err != nil {
		return ac.internalError(c, "Password set failed", err)
	}
	return ac.sendResult(c, result)
}

// Me returns the authenticated user's profile
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		return ac.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "No autorizado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	user, err := ac.Auth.GetUser(userID)
	if err != nil {
		return ac.internalError(c, "Profile lookup failed", err)
	}
	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    user,
	})
}
