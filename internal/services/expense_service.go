package services

import (
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"outgo/internal/currency"
	"outgo/internal/dates"
	apperrors "outgo/internal/errors"
	"outgo/internal/models"
	"outgo/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// validateInput checks an expense's user-editable fields. Rejections here
// never reach storage.
func (s *expenseService) validateInput(userID string, input ExpenseInput) error {
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
	}
	if !dates.ValidDay(input.OccurredAt) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "occurred_at must be a valid YYYY-MM-DD date")
	}
	if input.CategoryID == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}

	// The category must exist and belong to the user at creation/update
	// time; it may be deleted later without touching the expense.
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", input.CategoryID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CreateExpense validates and stores a new expense.
func (s *expenseService) CreateExpense(userID string, input ExpenseInput) (*models.Expense, error) {
	if err := s.validateInput(userID, input); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		UserID:     userID,
		Amount:     input.Amount,
		Currency:   currency.Normalize(input.Currency),
		CategoryID: input.CategoryID,
		OccurredAt: input.OccurredAt,
		Note:       strings.TrimSpace(input.Note),
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetUserExpenses returns the user's expenses, newest first (occurred_at
// descending, creation time breaking ties).
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("occurred_at DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpensesInMonth returns the user's expenses whose occurred_at falls
// inside the month's half-open range [start, endExclusive). Zero-padded
// date strings compare correctly, so the filter is plain string comparison.
func (s *expenseService) GetExpensesInMonth(userID, month string) ([]models.Expense, error) {
	r, err := dates.MonthRange(month)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be YYYY-MM")
	}

	var expenses []models.Expense
	if err := s.db.
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, r.Start, r.EndExclusive).
		Order("occurred_at DESC, created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetExpenseByID returns an expense by ID if it belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense validates and overwrites an expense's editable fields.
func (s *expenseService) UpdateExpense(userID, expenseID string, input ExpenseInput) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := s.validateInput(userID, input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"amount":      input.Amount,
		"currency":    currency.Normalize(input.Currency),
		"category_id": input.CategoryID,
		"occurred_at": input.OccurredAt,
		"note":        strings.TrimSpace(input.Note),
	}

	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
