package finance

import (
	"finance-tracker/logger"
	financeModel "finance-tracker/models/finance"
	"finance-tracker/types"
	financeTypes "finance-tracker/types/finance"

	"github.com/gofiber/fiber/v2"
)

func parseListQuery(c *fiber.Ctx) (*financeTypes.ListTransactionsQuery, error) {
	q := &financeTypes.ListTransactionsQuery{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 0),
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return nil, err
	}
	q.From = from

	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return nil, err
	}
	q.To = to

	if accountID := c.QueryInt("accountId", 0); accountID > 0 {
		id := uint(accountID)
		q.AccountID = &id
	}
	if categoryID := c.QueryInt("categoryId", 0); categoryID > 0 {
		id := uint(categoryID)
		q.CategoryID = &id
	}

	if direction := c.Query("direction"); direction != "" {
		if _, ok := financeModel.ParseDirection(direction); !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Dirección inválida")
		}
		q.Direction = direction
	}
	return q, nil
}

// ListTransactions returns a filtered page of transactions
func (fc *FinanceController) ListTransactions(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	q, err := parseListQuery(c)
	if err != nil {
		return fc.badRequest(c, "Filtros inválidos")
	}

	page, err := fc.Finance.ListTransactions(userID, q)
	if err != nil {
		return fc.sendServiceError(c, "Transaction listing failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    page,
	})
}

// CreateTransaction records a money movement
func (fc *FinanceController) CreateTransaction(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	var req financeTypes.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return fc.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fc.badRequest(c, err.Error())
	}

	txn, err := fc.Finance.CreateTransaction(userID, &req)
	if err != nil {
		return fc.sendServiceError(c, "Transaction creation failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Message: "Transacción creada",
		Status:  fiber.StatusCreated,
		Data:    txn,
	})
}

// UpdateTransaction applies a partial update to a transaction
func (fc *FinanceController) UpdateTransaction(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	txnID, err := parseIDParam(c, "id")
	if err != nil {
		return fc.badRequest(c, "ID inválido")
	}

	var req financeTypes.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return fc.badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return fc.badRequest(c, err.Error())
	}

	txn, err := fc.Finance.UpdateTransaction(userID, txnID, &req)
	if err != nil {
		return fc.sendServiceError(c, "Transaction update failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Transacción actualizada",
		Status:  fiber.StatusOK,
		Data:    txn,
	})
}

// DeleteTransaction removes a transaction
func (fc *FinanceController) DeleteTransaction(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	txnID, err := parseIDParam(c, "id")
	if err != nil {
		return fc.badRequest(c, "ID inválido")
	}

	if err := fc.Finance.DeleteTransaction(userID, txnID); err != nil {
		return fc.sendServiceError(c, "Transaction deletion failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "Transacción eliminada",
		Status:  fiber.StatusOK,
	})
}

// GetSummary aggregates totals and the outflow-by-category breakdown
func (fc *FinanceController) GetSummary(c *fiber.Ctx) error {
	userID, ok := fc.requireUser(c)
	if !ok {
		return nil
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return fc.badRequest(c, "from inválido")
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return fc.badRequest(c, "to inválido")
	}

	summary, err := fc.Finance.GetSummary(userID, from, to)
	if err != nil {
		return fc.sendServiceError(c, "Summary computation failed", err)
	}
	return fc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Message: "OK",
		Status:  fiber.StatusOK,
		Data:    summary,
	})
}
