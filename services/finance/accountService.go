package finance

import (
	"errors"
	"fmt"
	"time"

	financeModel "finance-tracker/models/finance"
	financeTypes "finance-tracker/types/finance"

	"gorm.io/gorm"
)

const defaultCurrency = "USD"

// InitializeResult bundles the account and opening transaction created by
// InitializeAccount
type InitializeResult struct {
	Account     *financeModel.Account     `json:"account"`
	Transaction *financeModel.Transaction `json:"transaction"`
	Balance     float64                   `json:"balance"`
}

func (s *Service) ensureAccountOwned(userID, accountID uint) (*financeModel.Account, error) {
	var account financeModel.Account
	err := s.DB.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestError(404, "Cuenta no encontrada o no pertenece al usuario")
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return &account, nil
}

// InitializeAccount creates the user's first account together with an
// opening-balance inflow. It only works while the user has no accounts, and
// both rows are written in one database transaction so a failure cannot
// leave the account without its opening entry.
func (s *Service) InitializeAccount(userID uint, req *financeTypes.InitializeAccountRequest) (*InitializeResult, error) {
	var count int64
	err := s.DB.Model(&financeModel.Account{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}
	if count > 0 {
		return nil, requestError(400, "El usuario ya tiene cuentas. Usa el endpoint normal para crear más cuentas.")
	}
	if req.InitialAmount <= 0 {
		return nil, requestError(400, "El monto inicial debe ser mayor a 0")
	}

	accountType, ok := financeModel.ParseAccountType(req.Type)
	if !ok {
		return nil, requestError(400, "Tipo de cuenta inválido")
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	result := &InitializeResult{Balance: req.InitialAmount}
	note := "Balance inicial"

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		account := &financeModel.Account{
			UserID:   userID,
			Name:     req.Name,
			Type:     accountType,
			Currency: currency,
		}
		if err := tx.Create(account).Error; err != nil {
			return err
		}

		txn := &financeModel.Transaction{
			UserID:     userID,
			AccountID:  account.ID,
			Direction:  financeModel.DirectionInflow,
			Amount:     req.InitialAmount,
			Currency:   currency,
			OccurredAt: time.Now(),
			Note:       &note,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		result.Account = account
		result.Transaction = txn
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize account: %w", err)
	}
	return result, nil
}

// ListAccounts returns the user's accounts, newest first
func (s *Service) ListAccounts(userID uint) ([]financeModel.Account, error) {
	var accounts []financeModel.Account
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// CreateAccount creates an additional account for the user
func (s *Service) CreateAccount(userID uint, req *financeTypes.CreateAccountRequest) (*financeModel.Account, error) {
	accountType, ok := financeModel.ParseAccountType(req.Type)
	if !ok {
		return nil, requestError(400, "Tipo de cuenta inválido")
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	account := &financeModel.Account{
		UserID:   userID,
		Name:     req.Name,
		Type:     accountType,
		Currency: currency,
	}
	if err := s.DB.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// UpdateAccount applies a partial update to an owned account
func (s *Service) UpdateAccount(userID, accountID uint, req *financeTypes.UpdateAccountRequest) (*financeModel.Account, error) {
	account, err := s.ensureAccountOwned(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Type != nil {
		accountType, ok := financeModel.ParseAccountType(*req.Type)
		if !ok {
			return nil, requestError(400, "Tipo de cuenta inválido")
		}
		updates["type"] = accountType
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if len(updates) > 0 {
		if err := s.DB.Model(account).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update account: %w", err)
		}
	}
	return account, nil
}

// DeleteAccount removes an owned account and every transaction on it
func (s *Service) DeleteAccount(userID, accountID uint) error {
	account, err := s.ensureAccountOwned(userID, accountID)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND account_id = ?", userID, accountID).
			Delete(&financeModel.Transaction{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete account transactions: %w", err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	})
}

// GetAccountBalance computes the account's accumulated balance up to asOf,
// as sum(inflow) minus sum(outflow). Amounts come back as two-decimal
// strings so money formatting stays stable across clients.
func (s *Service) GetAccountBalance(userID, accountID uint, asOf *time.Time) (*financeTypes.BalanceResponse, error) {
	if _, err := s.ensureAccountOwned(userID, accountID); err != nil {
		return nil, err
	}

	cutoff := time.Now()
	if asOf != nil {
		cutoff = *asOf
	}

	sumDirection := func(direction financeModel.TxnDirection) (float64, error) {
		var total float64
		err := s.DB.Model(&financeModel.Transaction{}).
			Where("user_id = ? AND account_id = ? AND direction = ? AND occurred_at <= ?",
				userID, accountID, direction, cutoff).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
		return total, err
	}

	inflow, err := sumDirection(financeModel.DirectionInflow)
	if err != nil {
		return nil, fmt.Errorf("failed to sum inflows: %w", err)
	}
	outflow, err := sumDirection(financeModel.DirectionOutflow)
	if err != nil {
		return nil, fmt.Errorf("failed to sum outflows: %w", err)
	}

	return &financeTypes.BalanceResponse{
		AccountID: accountID,
		AsOf:      cutoff.Format(time.RFC3339),
		Inflow:    fmt.Sprintf("%.2f", inflow),
		Outflow:   fmt.Sprintf("%.2f", outflow),
		Balance:   fmt.Sprintf("%.2f", inflow-outflow),
	}, nil
}
