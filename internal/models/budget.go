package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"outgo/internal/currency"
)

// Budget is a monthly spending limit. The primary key is the deterministic
// composite "{userID}_{month}" so there is at most one budget per user per
// calendar month; setting it again overwrites rather than duplicates.
type Budget struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Month     string    `gorm:"size:7;not null" json:"month"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"size:3;not null" json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BudgetKey builds the deterministic budget primary key for a user and
// month ("YYYY-MM").
func BudgetKey(userID, month string) string {
	return fmt.Sprintf("%s_%s", userID, month)
}

// AfterFind re-normalizes the stored currency, as with expenses.
func (b *Budget) AfterFind(tx *gorm.DB) error {
	b.Currency = currency.Normalize(b.Currency)
	return nil
}
