package models

import (
	"time"

	"gorm.io/gorm"

	"outgo/internal/currency"
)

// Profile holds per-user display settings. A user without a profile row
// behaves as if BaseCurrency were "EUR".
type Profile struct {
	UserID       string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	BaseCurrency string    `gorm:"size:3;not null" json:"base_currency"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AfterFind re-normalizes the stored base currency.
func (p *Profile) AfterFind(tx *gorm.DB) error {
	p.BaseCurrency = currency.Normalize(p.BaseCurrency)
	return nil
}
