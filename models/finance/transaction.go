package finance

import (
	"time"
)

// TxnDirection indicates whether money entered or left an account
type TxnDirection string

const (
	DirectionInflow  TxnDirection = "inflow"
	DirectionOutflow TxnDirection = "outflow"
)

// ParseDirection validates a raw direction string
func ParseDirection(raw string) (TxnDirection, bool) {
	switch TxnDirection(raw) {
	case DirectionInflow, DirectionOutflow:
		return TxnDirection(raw), true
	}
	return "", false
}

// Transaction represents a single money movement on an account
type Transaction struct {
	ID         uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint         `gorm:"not null;index" json:"user_id"`
	AccountID  uint         `gorm:"not null;index" json:"account_id"`
	CategoryID *uint        `gorm:"index" json:"category_id,omitempty"`
	Direction  TxnDirection `gorm:"type:varchar(10);not null" json:"direction"`
	Amount     float64      `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency   string       `gorm:"type:varchar(3);not null;default:USD" json:"currency"`
	OccurredAt time.Time    `gorm:"not null;index" json:"occurred_at"`
	Note       *string      `gorm:"type:text" json:"note,omitempty"`

	Account  *Account  `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
