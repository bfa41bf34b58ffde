package finance

import (
	"time"
)

// Category represents a user-defined expense/income category
type Category struct {
	ID     uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint    `gorm:"not null;index" json:"user_id"`
	Name   string  `gorm:"type:varchar(100);not null" json:"name"`
	Icon   *string `gorm:"type:varchar(100)" json:"icon,omitempty"`
	Color  *string `gorm:"type:varchar(20)" json:"color,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
