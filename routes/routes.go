package routes

import (
	aiController "finance-tracker/controllers/ai"
	authController "finance-tracker/controllers/auth"
	financeController "finance-tracker/controllers/finance"
	"finance-tracker/controllers/server"
	emailService "finance-tracker/httpServices/email"
	"finance-tracker/logger"
	"finance-tracker/middleware"
	aiService "finance-tracker/services/ai"
	authService "finance-tracker/services/auth"
	financeService "finance-tracker/services/finance"
	otpService "finance-tracker/services/otp"
	tokenService "finance-tracker/services/token"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires every service, controller and route onto the app
func SetupRoutes(app *fiber.App, db *gorm.DB, tokens *tokenService.Service) {
	asyncLogger := logger.NewAsyncLogger(db)

	otp := otpService.NewOTPService(db, emailService.NewClient())
	auth := authService.NewAuthService(db, otp, tokens)
	finance := financeService.NewFinanceService(db)
	ai := aiService.NewAIService()

	authCtrl := authController.NewAuthController(db, asyncLogger, auth)
	financeCtrl := financeController.NewFinanceController(db, asyncLogger, finance)
	aiCtrl := aiController.NewAIController(asyncLogger, ai)
	healthCtrl := server.NewHealthController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/health", healthCtrl.Health)

	/*=============================================================================
	| Auth Routes (public)
	===============================================================================*/
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authCtrl.Register)
	authGroup.Post("/verify-register", authCtrl.VerifyRegister)
	authGroup.Post("/verify-register-otp", authCtrl.VerifyRegister)
	authGroup.Post("/send-otp", authCtrl.SendOTP)
	authGroup.Post("/resend-otp", authCtrl.SendOTP)
	authGroup.Post("/login", authCtrl.LoginOTP)
	authGroup.Post("/login-password", authCtrl.LoginPassword)
	authGroup.Post("/request-password-reset", authCtrl.RequestPasswordReset)
	authGroup.Post("/resend-password-reset", authCtrl.RequestPasswordReset)
	authGroup.Post("/reset-password", authCtrl.ResetPassword)

	/*=============================================================================
	| Auth Routes (session required)
	===============================================================================*/
	authProtected := authGroup.Use(middleware.RequireAuthentication(tokens))
	authProtected.Get("/me", authCtrl.Me)
	authProtected.Post("/change-password", authCtrl.ChangePassword)
	authProtected.Post("/set-password", authCtrl.SetPassword)

	/*=============================================================================
	| Finance Routes
	===============================================================================*/
	financeGroup := app.Group("/finance").Use(middleware.RequireAuthentication(tokens))

	financeGroup.Post("/accounts/initialize", financeCtrl.InitializeAccount)
	financeGroup.Get("/accounts", financeCtrl.ListAccounts)
	financeGroup.Post("/accounts", financeCtrl.CreateAccount)
	financeGroup.Put("/accounts/:id", financeCtrl.UpdateAccount)
	financeGroup.Delete("/accounts/:id", financeCtrl.DeleteAccount)
	financeGroup.Get("/accounts/:id/balance", financeCtrl.GetAccountBalance)

	financeGroup.Get("/categories", financeCtrl.ListCategories)
	financeGroup.Post("/categories", financeCtrl.CreateCategory)
	financeGroup.Put("/categories/:id", financeCtrl.UpdateCategory)
	financeGroup.Delete("/categories/:id", financeCtrl.DeleteCategory)

	financeGroup.Get("/transactions", financeCtrl.ListTransactions)
	financeGroup.Post("/transactions", financeCtrl.CreateTransaction)
	financeGroup.Patch("/transactions/:id", financeCtrl.UpdateTransaction)
	financeGroup.Delete("/transactions/:id", financeCtrl.DeleteTransaction)

	financeGroup.Get("/summary", financeCtrl.GetSummary)

	/*=============================================================================
	| AI Routes
	===============================================================================*/
	aiGroup := app.Group("/ai").Use(middleware.RequireAuthentication(tokens))
	aiGroup.Post("/tips", aiCtrl.GetTips)
	aiGroup.Post("/categorize", aiCtrl.Categorize)
}
