package finance

import (
	"finance-tracker/logger"
	"finance-tracker/types"
	financeTypes "finance-tracker/types/finance"

	"github.com/gofiber/fiber/v2"
)

// ListCategories returns the user's categories
func (fc *FinanceController) ListCategories(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	categories, err := fc.Finance.ListCategories(userID)
	if err != nil {
		return fc.sendServiceError(c, "Category listing failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    categories,
	})
}

// CreateCategory creates a category
func (fc *FinanceController) CreateCategory(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	var req financeTypes.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return fc.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fc.badRequest(c, err.Error())
	}

	category, err := fc.Finance.CreateCategory(userID, &req)
	if err != nil {
		return fc.sendServiceError(c, "Category creation failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Categoría creada",
		Status:  fiber.StatusCreated,
		Data:    category,
	})
}

// UpdateCategory applies a partial update to a category
func (fc *FinanceController) UpdateCategory(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return fc.badRequest(c, "ID inválido")
	}

	var req financeTypes.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return fc.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fc.badRequest(c, err.Error())
	}

	category, err := fc.Finance.UpdateCategory(userID, categoryID, &req)
	if err != nil {
		return fc.sendServiceError(c, "Category update failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Categoría actualizada",
		Status:  fiber.StatusOK,
		Data:    category,
	})
}

// DeleteCategory removes a category, detaching its transactions
func (fc *FinanceController) DeleteCategory(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return fc.badRequest(c, "ID inválido")
	}

	if err := fc.Finance.DeleteCategory(userID, categoryID); err != nil {
		return fc.sendServiceError(c, "Category deletion failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Categoría eliminada",
		Status:  fiber.StatusOK,
	})
}
