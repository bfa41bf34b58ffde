package finance

import (
	"finance-tracker/logger"
	"finance-tracker/types"
	financeTypes "finance-tracker/types/finance"

	"github.com/gofiber/fiber/v2"
)

// InitializeAccount creates the user's first account with an opening balance
func (fc *FinanceController) InitializeAccount(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	var req financeTypes.InitializeAccountRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return fc.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fc.badRequest(c, err.Error())
	}

	result, err := fc.Finance.InitializeAccount(userID, &req)
	if err != nil {
		return fc.sendServiceError(c, "Account initialization failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Cuenta inicializada",
		Status:  fiber.StatusCreated,
		Data:    result,
	})
}

// ListAccounts returns the user's accounts
func (fc *FinanceController) ListAccounts(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	accounts, err := fc.Finance.ListAccounts(userID)
	if err != nil {
		return fc.sendServiceError(c, "Account listing failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    accounts,
	})
}

// CreateAccount creates an additional account
func (fc *FinanceController) CreateAccount(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	var req financeTypes.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return fc.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fc.badRequest(c, err.Error())
	}

	account, err := fc.Finance.CreateAccount(userID, &req)
	if err != nil {
		return fc.sendServiceError(c, "Account creation failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Cuenta creada",
		Status:  fiber.StatusCreated,
		Data:    account,
	})
}

// UpdateAccount applies a partial update to an account
func (fc *FinanceController) UpdateAccount(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return fc.badRequest(c, "ID inválido")
	}

	var req financeTypes.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return fc.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fc.badRequest(c, err.Error())
	}

	account, err := fc.Finance.UpdateAccount(userID, accountID, &req)
	if err != nil {
		return fc.sendServiceError(c, "Account update failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Cuenta actualizada",
		Status:  fiber.StatusOK,
		Data:    account,
	})
}

// DeleteAccount removes an account and its transactions
func (fc *FinanceController) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return fc.badRequest(c, "ID inválido")
	}

	if err := fc.Finance.DeleteAccount(userID, accountID); err != nil {
		return fc.sendServiceError(c, "Account deletion failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Cuenta eliminada",
		Status:  fiber.StatusOK,
	})
}

// GetAccountBalance returns an account's balance as of an optional cutoff
func (fc *FinanceController) GetAccountBalance(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	accountID, err := parseIDParam(c, "id")
	if err != nil {
		return fc.badRequest(c, "ID inválido")
	}

	asOf, err := parseTimeQuery(c, "asOf")
	if err != nil {
		return fc.badRequest(c, "asOf inválido")
	}

	balance, err := fc.Finance.GetAccountBalance(userID, accountID, asOf)
	if err != nil {
		return fc.sendServiceError(c, "Balance computation failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    balance,
	})
}
