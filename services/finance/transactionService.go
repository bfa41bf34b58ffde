package finance

import (
	"errors"
	"fmt"

	financeModel "finance-tracker/models/finance"
	financeTypes "finance-tracker/types/finance"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *Service) ensureTransactionOwned(userID, txnID uint) (*financeModel.Transaction, error) {
	var txn financeModel.Transaction
	err := s.DB.Where("id = ? AND user_id = ?", txnID, userID).First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestError(404, "No encontrada")
		}
		return nil, fmt.Errorf("failed to look up transaction: %w", err)
	}
	return &txn, nil
}

func (s *Service) filteredQuery(userID uint, q *financeTypes.ListTransactionsQuery) *gorm.DB {
	tx := s.DB.Model(&financeModel.Transaction{}).Where("user_id = ?", userID)
	if q.From != nil {
		tx = tx.Where("occurred_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("occurred_at <= ?", *q.To)
	}
	if q.AccountID != nil {
		tx = tx.Where("account_id = ?", *q.AccountID)
	}
	if q.CategoryID != nil {
		tx = tx.Where("category_id = ?", *q.CategoryID)
	}
	if q.Direction != "" {
		tx = tx.Where("direction = ?", q.Direction)
	}
	return tx
}

// ListTransactions returns a filtered page of the user's transactions,
// newest occurrence first
func (s *Service) ListTransactions(userID uint, q *financeTypes.ListTransactionsQuery) (*financeTypes.TransactionPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var total int64
	if err := s.filteredQuery(userID, q).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	var items []financeModel.Transaction
	err := s.filteredQuery(userID, q).
		Order("occurred_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &financeTypes.TransactionPage{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    items,
	}, nil
}

// CreateTransaction records a money movement after verifying that the target
// account and category belong to the user
func (s *Service) CreateTransaction(userID uint, req *financeTypes.CreateTransactionRequest) (*financeModel.Transaction, error) {
	if _, err := s.ensureAccountOwned(userID, req.AccountID); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.ensureCategoryOwned(userID, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	direction, ok := financeModel.ParseDirection(req.Direction)
	if !ok {
		return nil, requestError(400, "Dirección inválida")
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	txn := &financeModel.Transaction{
		UserID:     userID,
		AccountID:  req.AccountID,
		CategoryID: req.CategoryID,
		Direction:  direction,
		Amount:     req.Amount,
		Currency:   currency,
		OccurredAt: req.OccurredAt,
		Note:       req.Note,
	}
	if err := s.DB.Create(txn).Error; err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

// UpdateTransaction applies a partial update to an owned transaction. Moving
// it to a different account or category re-checks ownership of the target.
func (s *Service) UpdateTransaction(userID, txnID uint, req *financeTypes.UpdateTransactionRequest) (*financeModel.Transaction, error) {
	current, err := s.ensureTransactionOwned(userID, txnID)
	if err != nil {
		return nil, err
	}

	nextAccountID := current.AccountID
	if req.AccountID != nil {
		nextAccountID = *req.AccountID
	}
	if _, err := s.ensureAccountOwned(userID, nextAccountID); err != nil {
		return nil, err
	}

	nextCategoryID := current.CategoryID
	if req.ClearCategory {
		nextCategoryID = nil
	} else if req.CategoryID != nil {
		nextCategoryID = req.CategoryID
	}
	if nextCategoryID != nil {
		if _, err := s.ensureCategoryOwned(userID, *nextCategoryID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{
		"account_id":  nextAccountID,
		"category_id": nextCategoryID,
	}
	if req.Direction != nil {
		direction, ok := financeModel.ParseDirection(*req.Direction)
		if !ok {
			return nil, requestError(400, "Dirección inválida")
		}
		updates["direction"] = direction
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.OccurredAt != nil {
		updates["occurred_at"] = *req.OccurredAt
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if err := s.DB.Model(current).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return current, nil
}

// DeleteTransaction removes an owned transaction
func (s *Service) DeleteTransaction(userID, txnID uint) error {
	txn, err := s.ensureTransactionOwned(userID, txnID)
	if err != nil {
		return err
	}
	if err := s.DB.Delete(txn).Error; err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}
