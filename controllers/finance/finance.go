package finance

import (
	"errors"
	"time"

	"finance-tracker/logger"
	"finance-tracker/middleware"
	financeService "finance-tracker/services/finance"
	"finance-tracker/types"
	"finance-tracker/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FinanceController handles account, category, transaction and summary
// HTTP requests
type FinanceController struct {
	DB      *gorm.DB
	Logger  *logger.AsyncLogger
	Finance *financeService.Service
}

// NewFinanceController creates a new finance controller
func NewFinanceController(db *gorm.DB, asyncLogger *logger.AsyncLogger, finance *financeService.Service) *FinanceController {
	return &FinanceController{
		DB:      db,
		Logger:  asyncLogger,
		Finance: finance,
	}
}

func (fc *FinanceController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	fc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (fc *FinanceController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	fc.logAPIRequest(c)
	return result
}

func (fc *FinanceController) badRequest(c *fiber.Ctx, message string) error {
	return fc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusBadRequest,
	})
}

// sendServiceError maps a service failure onto the right HTTP status
func (fc *FinanceController) sendServiceError(c *fiber.Ctx, context string, err error) error {
	var reqErr *financeService.RequestError
	if errors.As(err, &reqErr) {
		return fc.sendResponseWithLog(c, reqErr.Status, types.ApiResponse{
			Message: reqErr.Message,
			Status:  reqErr.Status,
		})
	}
	logger.Error(context, err)
	return fc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
		Message: "Error interno",
		Status:  fiber.StatusInternalServerError,
	})
}

// requireUser reads the authenticated user id; the zero return means the
// response was already written
func (fc *FinanceController) requireUser(c *fiber.Ctx) (uint, bool) {
	userID, ok := middleware.AuthenticatedUserID(c)
	if !ok {
		_ = fc.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "No autorizado",
			Status:  fiber.StatusUnauthorized,
		})
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Date-only values are accepted too
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
