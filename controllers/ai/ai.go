package ai

import (
	"finance-tracker/logger"
	"finance-tracker/middleware"
	aiService "finance-tracker/services/ai"
	"finance-tracker/types"
	aiTypes "finance-tracker/types/ai"
	"finance-tracker/utils"

	"github.com/gofiber/fiber/v2"
)

// AIController handles savings-tips and categorization HTTP requests
type AIController struct {
	Logger *logger.AsyncLogger
	AI     *aiService.Service
}

// NewAIController creates a new AI controller
func NewAIController(asyncLogger *logger.AsyncLogger, ai *aiService.Service) *AIController {
	return &AIController{
		Logger: asyncLogger,
		AI:     ai,
	}
}

func (aic *AIController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	aic.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (aic *AIController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	aic.logAPIRequest(c)
	return result
}

func (aic *AIController) badRequest(c *fiber.Ctx, message string) error {
	return aic.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
		Message: message,
		Status:  fiber.StatusBadRequest,
	})
}

// GetTips produces a savings plan, from Gemini or the fallback
func (aic *AIController) GetTips(c *fiber.Ctx) error {
	if _, ok := middleware.AuthenticatedUserID(c); !ok {
		return aic.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "No autorizado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var req aiTypes.TipsRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return aic.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return aic.badRequest(c, err.Error())
	}

	result, err := aic.AI.GetTips(c.Context(), &req)
	if err != nil {
		logger.Error("Tips generation failed", err)
		return aic.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Error interno",
			Status:  fiber.StatusInternalServerError,
		})
	}
	return aic.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    result,
	})
}

// Categorize classifies an expense description
func (aic *AIController) Categorize(c *fiber.Ctx) error {
	if _, ok := middleware.AuthenticatedUserID(c); !ok {
		return aic.sendResponseWithLog(c, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "No autorizado",
			Status:  fiber.StatusUnauthorized,
		})
	}

	var req aiTypes.CategorizeRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return aic.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return aic.badRequest(c, err.Error())
	}

	result, err := aic.AI.Categorize(c.Context(), &req)
	if err != nil {
		logger.Error("Categorization failed", err)
		return aic.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Error interno",
			Status:  fiber.StatusInternalServerError,
		})
	}
	return aic.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    result,
	})
}
