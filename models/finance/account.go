package finance

import (
	"time"
)

// AccountType classifies a financial account
type AccountType string

const (
	AccountCash       AccountType = "cash"
	AccountBank       AccountType = "bank"
	AccountCreditCard AccountType = "credit_card"
	AccountWallet     AccountType = "wallet"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

// ParseAccountType validates a raw account type string
func ParseAccountType(raw string) (AccountType, bool) {
	switch AccountType(raw) {
	case AccountCash, AccountBank, AccountCreditCard, AccountWallet, AccountInvestment, AccountOther:
		return AccountType(raw), true
	}
	return "", false
}

// Account represents a user's financial account
type Account struct {
	ID       uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   uint        `gorm:"not null;index" json:"user_id"`
	Name     string      `gorm:"type:varchar(255);not null" json:"name"`
	Type     AccountType `gorm:"type:varchar(20);not null" json:"type"`
	Currency string      `gorm:"type:varchar(3);not null;default:USD" json:"currency"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
