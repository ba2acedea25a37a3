// Package insights computes statistical summaries over a user's expense
// history: monthly aggregates, top categories, weekly spending trends and a
// simple one-sided outlier test.
//
// Every operation is a pure function of (user, window parameters, store
// contents): nothing is cached or persisted, windows are calendar-based on
// the expense date, and concurrent calls are independent.
package insights

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Defaults for the window parameters.
const (
	DefaultTopN         = 5
	DefaultWindowDays   = 30
	DefaultTrendWeeks   = 4
	anomalyMinimumCount = 3
	anomalySigmaFactor  = 1.5
)

// Engine computes insights for one user.
type Engine struct {
	now    func() time.Time
	store  Store
	userID string
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the engine's notion of "today". Tests use this to
// pin calendar windows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an insights engine scoped to one user.
func NewEngine(store Store, userID string, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		userID: userID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// today returns the current calendar day, time-of-day stripped.
func (e *Engine) today() time.Time {
	now := e.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthlySummary aggregates one calendar month, defaulting to the current
// one. A month with no expenses yields zero totals and an empty breakdown,
// never a division by zero.
func (e *Engine) MonthlySummary(ctx context.Context, year int, month time.Month) (model.MonthlySummary, error) {
	if year == 0 || month == 0 {
		now := e.now()
		year, month = now.Year(), now.Month()
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	filter := storage.ListFilter{UserID: e.userID, Start: &start, End: &end}

	agg, err := e.store.AggregateExpenses(ctx, filter)
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to aggregate month: %w", err)
	}

	byCategory, err := e.store.CategoryTotals(ctx, filter)
	if err != nil {
		return model.MonthlySummary{}, fmt.Errorf("failed to break down month by category: %w", err)
	}

	return model.MonthlySummary{
		Year:           year,
		Month:          month,
		TotalAmount:    agg.Total,
		TotalExpenses:  agg.Count,
		AverageExpense: agg.Average,
		ByCategory:     byCategory,
	}, nil
}

// TopCategories returns up to five categories by descending total over the
// trailing window of days ending today, inclusive. Ties keep the store's
// stable insertion order.
func (e *Engine) TopCategories(ctx context.Context, days int) ([]model.CategoryTotal, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}

	today := e.today()
	start := today.AddDate(0, 0, -days)
	end := today.AddDate(0, 0, 1)

	totals, err := e.store.CategoryTotals(ctx, storage.ListFilter{UserID: e.userID, Start: &start, End: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to rank categories: %w", err)
	}

	if len(totals) > DefaultTopN {
		totals = totals[:DefaultTopN]
	}
	return totals, nil
}

// SpendingTrend buckets the recent past into trailing weeks. Bucket i covers
// the half-open range [today-(i+1) weeks, today-i weeks), so buckets never
// overlap and the most recent week comes first.
func (e *Engine) SpendingTrend(ctx context.Context, weeks int) ([]model.WeeklyTotal, error) {
	if weeks <= 0 {
		weeks = DefaultTrendWeeks
	}

	today := e.today()
	trend := make([]model.WeeklyTotal, 0, weeks)
	for i := 0; i < weeks; i++ {
		start := today.AddDate(0, 0, -7*(i+1))
		end := today.AddDate(0, 0, -7*i)

		agg, err := e.store.AggregateExpenses(ctx, storage.ListFilter{UserID: e.userID, Start: &start, End: &end})
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate week %d: %w", i+1, err)
		}

		trend = append(trend, model.WeeklyTotal{
			Label: fmt.Sprintf("Week %d", i+1),
			Start: start,
			End:   end,
			Total: agg.Total,
		})
	}

	return trend, nil
}

// DetectAnomalies flags expenses in the trailing window whose amount exceeds
// mean + 1.5 population standard deviations. Fewer than three expenses is
// below the statistical-validity floor and yields an empty list. When every
// amount is equal (zero deviation) the threshold degrades to twice the mean.
func (e *Engine) DetectAnomalies(ctx context.Context, days int) ([]model.Anomaly, error) {
	if days <= 0 {
		days = DefaultWindowDays
	}

	today := e.today()
	start := today.AddDate(0, 0, -days)
	end := today.AddDate(0, 0, 1)

	expenses, err := e.store.ListExpenses(ctx, storage.ListFilter{UserID: e.userID, Start: &start, End: &end})
	if err != nil {
		return nil, fmt.Errorf("failed to list window expenses: %w", err)
	}

	if len(expenses) < anomalyMinimumCount {
		return nil, nil
	}

	amounts := make([]float64, len(expenses))
	var sum float64
	for i, expense := range expenses {
		amounts[i] = expense.Amount.Float64()
		sum += amounts[i]
	}
	mean := sum / float64(len(amounts))

	var variance float64
	for _, amount := range amounts {
		variance += (amount - mean) * (amount - mean)
	}
	variance /= float64(len(amounts))
	stddev := math.Sqrt(variance)

	threshold := mean * 2
	if stddev > 0 {
		threshold = mean + anomalySigmaFactor*stddev
	}

	var anomalies []model.Anomaly
	for _, expense := range expenses {
		if expense.Amount.Float64() > threshold {
			anomalies = append(anomalies, model.Anomaly{
				ID:          expense.ID,
				Description: expense.Description,
				Amount:      expense.Amount,
				Date:        expense.Date,
			})
		}
	}

	return anomalies, nil
}

// Snapshot computes every insight in one shot for dashboard-style callers.
// The four computations are independent reads, so they fan out concurrently.
func (e *Engine) Snapshot(ctx context.Context) (model.InsightSnapshot, error) {
	var snapshot model.InsightSnapshot

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot.Monthly, err = e.MonthlySummary(ctx, 0, 0)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.TopCategories, err = e.TopCategories(ctx, DefaultWindowDays)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.Anomalies, err = e.DetectAnomalies(ctx, DefaultWindowDays)
		return err
	})
	g.Go(func() error {
		var err error
		snapshot.Trend, err = e.SpendingTrend(ctx, DefaultTrendWeeks)
		return err
	})

	if err := g.Wait(); err != nil {
		return model.InsightSnapshot{}, err
	}
	return snapshot, nil
}
