package db

import (
	"context"
	"fmt"

	"github.com/fintrack/backend/models"
)

// MonthsOfHistory is how many monthly buckets MonthlyTotals returns at most.
const MonthsOfHistory = 12

// MonthlyTotals sums the user's income and expenses per calendar month for
// the most recent months that have data, newest first.
func (s *Storage) MonthlyTotals(ctx context.Context, userID int64) ([]models.MonthlyTotal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	month := s.monthOf("date")
	query := `SELECT ` + month + ` AS month,
	COALESCE(ROUND(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 2), 0) AS total_income,
	COALESCE(ROUND(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 2), 0) AS total_expenses
FROM transactions
WHERE user_id = ?
GROUP BY ` + month + `
ORDER BY month DESC
LIMIT ?`

	rows, err := s.DB.QueryContext(ctx, s.rebind(query), userID, MonthsOfHistory)
	if err != nil {
		return nil, fmt.Errorf("select monthly totals: %w", err)
	}
	defer rows.Close()

	totals := []models.MonthlyTotal{}
	for rows.Next() {
		var m models.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.TotalIncome, &m.TotalExpenses); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		totals = append(totals, m)
	}
	return totals, rows.Err()
}

// CategoryTotals sums the user's transactions per category. Transactions
// without a category are left out.
func (s *Storage) CategoryTotals(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT c.name, c.type, COALESCE(ROUND(SUM(t.amount), 2), 0) AS total
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.user_id = ?
GROUP BY c.id, c.name, c.type
ORDER BY total DESC, c.name`

	rows, err := s.DB.QueryContext(ctx, s.rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("select category totals: %w", err)
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var c models.CategoryTotal
		if err := rows.Scan(&c.Name, &c.Type, &c.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, c)
	}
	return totals, rows.Err()
}
