package models

// UnknownCategoryName labels totals for expenses whose category was deleted.
// Expenses keep their category_id after the category is gone; the amount
// still counts toward the month under the dangling key.
const UnknownCategoryName = "Unknown category"

// Category represents a user-defined expense category
type Category struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Color  string `json:"color,omitempty"`
}
