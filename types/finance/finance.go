package finance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// InitializeAccountRequest is the payload for POST /finance/accounts/initialize.
// Creates the user's first account together with its opening-balance inflow.
type InitializeAccountRequest struct {
	Name          string  `json:"name" validate:"required"`
	Type          string  `json:"type" validate:"required,oneof=cash bank credit_card wallet investment other"`
	InitialAmount float64 `json:"initialAmount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3,uppercase"`
}

func (req *InitializeAccountRequest) Validate() error {
	return validate.Struct(req)
}

// CreateAccountRequest is the payload for POST /finance/accounts
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=cash bank credit_card wallet investment other"`
	Currency string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

func (req *CreateAccountRequest) Validate() error {
	return validate.Struct(req)
}

// UpdateAccountRequest is the payload for PUT /finance/accounts/:id
type UpdateAccountRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Type     *string `json:"type" validate:"omitempty,oneof=cash bank credit_card wallet investment other"`
	Currency *string `json:"currency" validate:"omitempty,len=3,uppercase"`
}

func (req *UpdateAccountRequest) Validate() error {
	return validate.Struct(req)
}

// BalanceResponse carries an account balance as of a point in time.
// Amounts are two-decimal strings for stable money formatting.
type BalanceResponse struct {
	AccountID uint   `json:"account_id"`
	AsOf      string `json:"as_of"`
	Inflow    string `json:"inflow"`
	Outflow   string `json:"outflow"`
	Balance   string `json:"balance"`
}

// CreateCategoryRequest is the payload for POST /finance/categories
type CreateCategoryRequest struct {
	Name  string  `json:"name" validate:"required"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

func (req *CreateCategoryRequest) Validate() error {
	return validate.Struct(req)
}

// UpdateCategoryRequest is the payload for PUT /finance/categories/:id
type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

func (req *UpdateCategoryRequest) Validate() error {
	return validate.Struct(req)
}

// CreateTransactionRequest is the payload for POST /finance/transactions
type CreateTransactionRequest struct {
	AccountID  uint      `json:"accountId" validate:"required"`
	CategoryID *uint     `json:"categoryId"`
	Direction  string    `json:"direction" validate:"required,oneof=inflow outflow"`
	Amount     float64   `json:"amount" validate:"required,gt=0"`
	Currency   string    `json:"currency" validate:"omitempty,len=3,uppercase"`
	OccurredAt time.Time `json:"occurredAt" validate:"required"`
	Note       *string   `json:"note"`
}

func (req *CreateTransactionRequest) Validate() error {
	return validate.Struct(req)
}

// UpdateTransactionRequest is the payload for PATCH /finance/transactions/:id
type UpdateTransactionRequest struct {
	AccountID     *uint      `json:"accountId"`
	CategoryID    *uint      `json:"categoryId"`
	ClearCategory bool       `json:"clearCategory"`
	Direction     *string    `json:"direction" validate:"omitempty,oneof=inflow outflow"`
	Amount        *float64   `json:"amount" validate:"omitempty,gt=0"`
	Currency      *string    `json:"currency" validate:"omitempty,len=3,uppercase"`
	OccurredAt    *time.Time `json:"occurredAt"`
	Note          *string    `json:"note"`
}

func (req *UpdateTransactionRequest) Validate() error {
	return validate.Struct(req)
}

// ListTransactionsQuery carries the filters for GET /finance/transactions
type ListTransactionsQuery struct {
	Page       int
	PageSize   int
	From       *time.Time
	To         *time.Time
	AccountID  *uint
	CategoryID *uint
	Direction  string
}

// TransactionPage is a paginated listing result
type TransactionPage struct {
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Total    int64       `json:"total"`
	Items    interface{} `json:"items"`
}

// SummaryTotals aggregates inflow/outflow over a period
type SummaryTotals struct {
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

// ExpenseByCategory is one row of the outflow-by-category breakdown
type ExpenseByCategory struct {
	CategoryID   *uint   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Total        float64 `json:"total"`
}

// SummaryResponse is the result of GET /finance/summary
type SummaryResponse struct {
	From               time.Time           `json:"from"`
	To                 time.Time           `json:"to"`
	Totals             SummaryTotals       `json:"totals"`
	ExpensesByCategory []ExpenseByCategory `json:"expenses_by_category"`
}
