package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cedisense/cedisense/internal/model"
)

// Aggregate is the sum/count/average of a filtered expense set. Average is
// zero when the set is empty.
type Aggregate struct {
	Total   model.Money
	Average model.Money
	Count   int
}

// AggregateExpenses computes sum, count and average over the filtered set.
func (s *SQLiteStorage) AggregateExpenses(ctx context.Context, filter ListFilter) (Aggregate, error) {
	if err := validateContext(ctx); err != nil {
		return Aggregate{}, err
	}
	if err := validateString(filter.UserID, "userID"); err != nil {
		return Aggregate{}, err
	}

	query := `SELECT COALESCE(SUM(amount_cents), 0), COUNT(*) FROM expenses WHERE user_id = ?`
	args := []any{filter.UserID}

	var err error
	if query, args, err = applyWindow(query, args, filter); err != nil {
		return Aggregate{}, err
	}

	var totalCents int64
	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&totalCents, &count); err != nil {
		return Aggregate{}, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	agg := Aggregate{Total: model.Money(totalCents), Count: count}
	if count > 0 {
		agg.Average = model.Money(totalCents / int64(count))
	}
	return agg, nil
}

// CategoryTotals groups the filtered set by category with per-group sum and
// count, ordered descending by total. Ties keep insertion order via the
// smallest row id, so repeated runs return the same ranking.
func (s *SQLiteStorage) CategoryTotals(ctx context.Context, filter ListFilter) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(filter.UserID, "userID"); err != nil {
		return nil, err
	}

	query := `SELECT category, SUM(amount_cents), COUNT(*), MIN(id) AS first_id FROM expenses WHERE user_id = ?`
	args := []any{filter.UserID}

	var err error
	if query, args, err = applyWindow(query, args, filter); err != nil {
		return nil, err
	}
	query += ` GROUP BY category ORDER BY SUM(amount_cents) DESC, first_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var totals []model.CategoryTotal
	for rows.Next() {
		var (
			category   string
			totalCents int64
			count      int
			firstID    sql.NullInt64
		)
		if err := rows.Scan(&category, &totalCents, &count, &firstID); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, model.CategoryTotal{
			Category: model.Category(category),
			Total:    model.Money(totalCents),
			Count:    count,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}
