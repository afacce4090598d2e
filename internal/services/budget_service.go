package services

import (
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"outgo/internal/currency"
	"outgo/internal/dates"
	apperrors "outgo/internal/errors"
	"outgo/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// UpsertBudget creates or overwrites the budget for (userID, month). The
// deterministic primary key makes the write idempotent on the row: no
// duplicate budgets can accumulate for the same month.
func (s *budgetService) UpsertBudget(userID, month string, amount float64, currencyCode string) (*models.Budget, error) {
	if !dates.ValidMonth(month) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be YYYY-MM")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be a positive number")
	}

	budget := &models.Budget{
		ID:       models.BudgetKey(userID, month),
		UserID:   userID,
		Month:    month,
		Amount:   amount,
		Currency: currency.Normalize(currencyCode),
	}

	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "currency", "updated_at"}),
	}).Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetBudgetForMonth returns the month's budget, or nil when none is set.
// Absence is a normal state, not an error.
func (s *budgetService) GetBudgetForMonth(userID, month string) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Where("id = ?", models.BudgetKey(userID, month)).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// DeleteBudget removes the month's budget if present.
func (s *budgetService) DeleteBudget(userID, month string) error {
	result := s.db.Where("id = ? AND user_id = ?", models.BudgetKey(userID, month), userID).
		Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}
