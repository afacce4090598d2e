package services

import (
	"context"
	"fmt"
	"sort"

	"outgo/internal/dates"
	"outgo/internal/fx"
	"outgo/internal/logger"
	"outgo/internal/models"
	"outgo/internal/notifier"
	"outgo/internal/pagination"
)

// summaryService aggregates a month's expenses in the user's base currency
// and runs the budget-alert check.
type summaryService struct {
	converter  *fx.Converter
	expenses   ExpenseServicer
	categories CategoryServicer
	budgets    BudgetServicer
	profiles   ProfileServicer
	dispatcher notifier.Dispatcher
}

// NewSummaryService creates a new SummaryServicer. All data access goes
// through the injected services.
func NewSummaryService(
	converter *fx.Converter,
	expenses ExpenseServicer,
	categories CategoryServicer,
	budgets BudgetServicer,
	profiles ProfileServicer,
	dispatcher notifier.Dispatcher,
) SummaryServicer {
	return &summaryService{
		converter:  converter,
		expenses:   expenses,
		categories: categories,
		budgets:    budgets,
		profiles:   profiles,
		dispatcher: dispatcher,
	}
}

// ShouldAlert is the budget comparison predicate: reaching the budget
// exactly counts as over. Both values must already be in the same currency.
func ShouldAlert(spent, budget float64) bool {
	return spent >= budget
}

// aggregate converts each expense at its own occurred_at date into the
// target currency and accumulates the month total and per-category totals.
// A failed conversion skips that expense and continues; the skipped ids
// are returned so callers can surface the under-count. Accumulation order
// does not affect the sums.
func (s *summaryService) aggregate(ctx context.Context, expenses []models.Expense, target string) (total float64, byCategory map[string]float64, skipped []string) {
	byCategory = make(map[string]float64)
	for _, e := range expenses {
		converted, err := s.converter.Convert(ctx, e.OccurredAt, e.Amount, e.Currency, target)
		if err != nil {
			logger.Get().Warnw("skipping expense with failed rate lookup",
				"expense_id", e.ID,
				"date", e.OccurredAt,
				"from", e.Currency,
				"to", target,
				"error", err.Error(),
			)
			skipped = append(skipped, e.ID)
			continue
		}
		total += converted
		byCategory[e.CategoryID] += converted
	}
	return total, byCategory, skipped
}

// MonthlySummary loads a month's expenses and categories and aggregates
// them in the user's base currency. The totals cover exactly the expenses
// that converted successfully; the rest are listed in
// UnconvertedExpenseIDs.
func (s *summaryService) MonthlySummary(ctx context.Context, userID, month string) (*MonthlySummary, error) {
	profile, err := s.profiles.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.GetExpensesInMonth(userID, month)
	if err != nil {
		return nil, err
	}

	categoryNames, err := s.categoryNames(userID)
	if err != nil {
		return nil, err
	}

	total, byCategory, skipped := s.aggregate(ctx, expenses, profile.BaseCurrency)

	totals := make([]CategoryTotal, 0, len(byCategory))
	for categoryID, sum := range byCategory {
		name, ok := categoryNames[categoryID]
		if !ok {
			name = models.UnknownCategoryName
		}
		totals = append(totals, CategoryTotal{CategoryID: categoryID, Name: name, Total: sum})
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })

	return &MonthlySummary{
		Month:                 month,
		BaseCurrency:          profile.BaseCurrency,
		Total:                 total,
		ByCategory:            totals,
		UnconvertedExpenseIDs: skipped,
	}, nil
}

// categoryNames maps the user's category ids to display names.
func (s *summaryService) categoryNames(userID string) (map[string]string, error) {
	page := pagination.PageRequest{Page: 1, PageSize: 200}
	names := make(map[string]string)
	for {
		result, err := s.categories.GetUserCategories(userID, page)
		if err != nil {
			return nil, err
		}
		for _, c := range result.Data {
			names[c.ID] = c.Name
		}
		if page.Page >= result.TotalPages {
			return names, nil
		}
		page.Page++
	}
}

// GetBudgetStatus compares the month's spending against its budget without
// any side effects, so read paths can poll it freely. Returns nil (without
// error) when no budget is set for the month. The alignment conversion from
// base currency into the budget's currency uses the month's start date; if
// that single required lookup fails, the error propagates rather than
// comparing incommensurate values.
func (s *summaryService) GetBudgetStatus(ctx context.Context, userID, month string) (*BudgetStatus, error) {
	budget, err := s.budgets.GetBudgetForMonth(userID, month)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, nil
	}

	summary, err := s.MonthlySummary(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	r, err := dates.MonthRange(month)
	if err != nil {
		return nil, err
	}

	spent, err := s.converter.Convert(ctx, r.Start, summary.Total, summary.BaseCurrency, budget.Currency)
	if err != nil {
		return nil, err
	}

	return &BudgetStatus{
		Month:          month,
		BudgetAmount:   budget.Amount,
		BudgetCurrency: budget.Currency,
		Spent:          spent,
		OverBudget:     ShouldAlert(spent, budget.Amount),
	}, nil
}

// CheckBudget computes the month's budget status and fires a push
// notification when the budget is reached or exceeded. Only write paths
// (expense create and update) call this; reads use GetBudgetStatus so
// polling never re-alerts. Dispatch failures are logged and never
// propagate.
func (s *summaryService) CheckBudget(ctx context.Context, userID, month string) (*BudgetStatus, error) {
	status, err := s.GetBudgetStatus(ctx, userID, month)
	if err != nil || status == nil {
		return status, err
	}

	if status.OverBudget {
		payload := notifier.Payload{
			Title: "Budget alert",
			Body: fmt.Sprintf("You've spent %.2f %s of your %.2f %s budget for %s.",
				status.Spent, status.BudgetCurrency, status.BudgetAmount, status.BudgetCurrency, month),
			URL: "/app/dashboard",
		}
		if err := s.dispatcher.Send(ctx, userID, payload); err != nil {
			logger.Get().Warnw("budget alert delivery failed",
				"user_id", userID,
				"month", month,
				"error", err.Error(),
			)
		} else {
			status.Alerted = true
		}
	}

	return status, nil
}
