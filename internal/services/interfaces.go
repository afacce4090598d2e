package services

import (
	"context"

	"outgo/internal/models"
	"outgo/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// ExpenseInput carries the user-editable fields of an expense.
type ExpenseInput struct {
	Amount     float64
	Currency   string
	CategoryID string
	OccurredAt string // YYYY-MM-DD
	Note       string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, input ExpenseInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpensesInMonth(userID, month string) ([]models.Expense, error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	// UpsertBudget creates or overwrites the budget for (userID, month).
	// Calling it twice for the same month leaves exactly one record.
	UpsertBudget(userID, month string, amount float64, currencyCode string) (*models.Budget, error)
	// GetBudgetForMonth returns nil (without error) when no budget is set.
	GetBudgetForMonth(userID, month string) (*models.Budget, error)
	DeleteBudget(userID, month string) error
}

// ProfileServicer defines the contract for per-user settings.
type ProfileServicer interface {
	// GetProfile returns a default-EUR profile when none is stored.
	GetProfile(userID string) (*models.Profile, error)
	SetBaseCurrency(userID, currencyCode string) (*models.Profile, error)
}

// CategoryTotal is one category's share of a month, sorted descending by
// total for presentation.
type CategoryTotal struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
}

// MonthlySummary aggregates one calendar month in the user's base currency.
// UnconvertedExpenseIDs lists expenses whose rate lookup failed; their
// amounts are absent from the totals (documented under-count, surfaced so
// clients can render those lines as unavailable).
type MonthlySummary struct {
	Month                 string          `json:"month"`
	BaseCurrency          string          `json:"base_currency"`
	Total                 float64         `json:"total"`
	ByCategory            []CategoryTotal `json:"by_category"`
	UnconvertedExpenseIDs []string        `json:"unconverted_expense_ids,omitempty"`
}

// BudgetStatus is the outcome of comparing a month's spending against its
// budget, both expressed in the budget's currency.
type BudgetStatus struct {
	Month          string  `json:"month"`
	BudgetAmount   float64 `json:"budget_amount"`
	BudgetCurrency string  `json:"budget_currency"`
	Spent          float64 `json:"spent"`
	OverBudget     bool    `json:"over_budget"`
	Alerted        bool    `json:"alerted"`
}

// SummaryServicer defines the contract for monthly aggregation and the
// budget-alert check. GetBudgetStatus is the side-effect-free read;
// CheckBudget additionally dispatches the alert and belongs on write paths.
type SummaryServicer interface {
	MonthlySummary(ctx context.Context, userID, month string) (*MonthlySummary, error)
	GetBudgetStatus(ctx context.Context, userID, month string) (*BudgetStatus, error)
	CheckBudget(ctx context.Context, userID, month string) (*BudgetStatus, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
