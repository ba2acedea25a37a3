package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cedisense/cedisense/internal/common"
	"github.com/cedisense/cedisense/internal/model"
)

const dateLayout = "2006-01-02"

// ListFilter narrows an expense query. Start is inclusive and End exclusive,
// so callers can express calendar windows without off-by-one day arithmetic.
type ListFilter struct {
	Start    *time.Time
	End      *time.Time
	Category *model.Category
	UserID   string
}

// CreateExpense persists a new expense and fills in its generated identity
// and timestamps.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, expense *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(expense); err != nil {
		return err
	}

	now := time.Now().UTC()
	var aiPredicted any
	if expense.AIPredicted != nil {
		aiPredicted = string(*expense.AIPredicted)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, amount_cents, description, category, ai_predicted_category, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.UserID,
		int64(expense.Amount),
		expense.Description,
		string(expense.Category),
		aiPredicted,
		expense.Date.Format(dateLayout),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read expense id: %w", err)
	}

	expense.ID = id
	expense.CreatedAt = now
	expense.UpdatedAt = now

	slog.Debug("created expense", "id", id, "user", expense.UserID, "category", expense.Category)
	return nil
}

// GetExpense returns one expense owned by the given user.
func (s *SQLiteStorage) GetExpense(ctx context.Context, userID string, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_cents, description, category, ai_predicted_category, date, created_at, updated_at
		FROM expenses
		WHERE id = ? AND user_id = ?`, id, userID)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
		}
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns the expenses matching the filter, newest first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, filter ListFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(filter.UserID, "userID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, amount_cents, description, category, ai_predicted_category, date, created_at, updated_at
		FROM expenses
		WHERE user_id = ?`
	args := []any{filter.UserID}

	var err error
	if query, args, err = applyWindow(query, args, filter); err != nil {
		return nil, err
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []model.Expense
	for rows.Next() {
		expense, scanErr := scanExpense(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes an expense owned by the given user.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, userID string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
	}
	return nil
}

// SetAIPrediction stores the chain's prediction on an expense. Re-running
// categorization overwrites a previous prediction; nothing else touches this
// column.
func (s *SQLiteStorage) SetAIPrediction(ctx context.Context, userID string, id int64, category model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if !model.ValidCategory(category) {
		return fmt.Errorf("%w: %q", common.ErrInvalidCategory, category)
	}

	return s.updateExpenseColumn(ctx, userID, id, "ai_predicted_category", string(category))
}

// OverrideCategory applies a manual category override. Only the category
// column changes; the stored AI prediction is preserved for comparison.
func (s *SQLiteStorage) OverrideCategory(ctx context.Context, userID string, id int64, category model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if !model.ValidCategory(category) {
		return fmt.Errorf("%w: %q", common.ErrInvalidCategory, category)
	}

	return s.updateExpenseColumn(ctx, userID, id, "category", string(category))
}

// updateExpenseColumn updates a single column plus updated_at.
func (s *SQLiteStorage) updateExpenseColumn(ctx context.Context, userID string, id int64, column, value string) error {
	// column is always a compile-time constant from this package.
	query := fmt.Sprintf(`UPDATE expenses SET %s = ?, updated_at = ? WHERE id = ? AND user_id = ?`, column)

	result, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*model.Expense, error) {
	var (
		expense     model.Expense
		amountCents int64
		category    string
		aiPredicted sql.NullString
		date        string
	)

	if err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&amountCents,
		&expense.Description,
		&category,
		&aiPredicted,
		&date,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}

	parsedDate, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense date %q: %w", date, err)
	}

	expense.Amount = model.Money(amountCents)
	expense.Category = model.Category(category)
	expense.Date = parsedDate
	if aiPredicted.Valid {
		cat := model.Category(aiPredicted.String)
		expense.AIPredicted = &cat
	}

	return &expense, nil
}

// applyWindow appends the filter's window and category conditions.
func applyWindow(query string, args []any, filter ListFilter) (string, []any, error) {
	if filter.Start != nil && filter.End != nil && filter.Start.After(*filter.End) {
		return "", nil, ErrInvalidDateRange
	}
	if filter.Start != nil {
		query += ` AND date >= ?`
		args = append(args, filter.Start.Format(dateLayout))
	}
	if filter.End != nil {
		query += ` AND date < ?`
		args = append(args, filter.End.Format(dateLayout))
	}
	if filter.Category != nil {
		query += ` AND category = ?`
		args = append(args, string(*filter.Category))
	}
	return query, args, nil
}
