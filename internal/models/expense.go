package models

import (
	"gorm.io/gorm"

	"outgo/internal/currency"
)

// Expense represents a single recorded expense. OccurredAt is the economic
// date ("YYYY-MM-DD") used both for month filtering and for the historical
// FX-rate lookup; CreatedAt breaks ordering ties between same-day expenses.
type Expense struct {
	Base
	UserID     string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount     float64 `gorm:"not null" json:"amount"`
	Currency   string  `gorm:"size:3;not null" json:"currency"`
	CategoryID string  `gorm:"type:uuid;not null" json:"category_id"`
	OccurredAt string  `gorm:"size:10;not null;index" json:"occurred_at"`
	Note       string  `json:"note"`
}

// AfterFind re-normalizes the stored currency so records written by older
// app versions (lowercase or blank currency) are safe to compare against.
func (e *Expense) AfterFind(tx *gorm.DB) error {
	e.Currency = currency.Normalize(e.Currency)
	return nil
}
