package insights_test

import (
	"context"
	"testing"
	"time"

	"github.com/cedisense/cedisense/internal/insights"
	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/storage"
	"github.com/cedisense/cedisense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedToday pins "today" to 2025-06-15 so calendar windows are stable.
var fixedToday = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)

func newEngine(store insights.Store) *insights.Engine {
	return insights.NewEngine(store, "ama", insights.WithClock(func() time.Time { return fixedToday }))
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMonthlySummary(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	testutil.SeedExpense(t, store, "ama", 4550, "Pizza dinner", model.CategoryFood, day("2025-06-03"))
	testutil.SeedExpense(t, store, "ama", 2500, "Uber ride", model.CategoryTransport, day("2025-06-10"))
	testutil.SeedExpense(t, store, "ama", 12000, "Amazon purchase", model.CategoryShopping, day("2025-06-12"))
	// Outside the month.
	testutil.SeedExpense(t, store, "ama", 9999, "May dinner", model.CategoryFood, day("2025-05-20"))
	// Another user.
	testutil.SeedExpense(t, store, "kofi", 5000, "June dinner", model.CategoryFood, day("2025-06-05"))

	summary, err := engine.MonthlySummary(context.Background(), 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, time.June, summary.Month)
	assert.Equal(t, model.Money(19050), summary.TotalAmount)
	assert.Equal(t, 3, summary.TotalExpenses)
	assert.Equal(t, model.Money(6350), summary.AverageExpense)

	require.Len(t, summary.ByCategory, 3)
	assert.Equal(t, model.CategoryShopping, summary.ByCategory[0].Category)
	assert.Equal(t, model.CategoryFood, summary.ByCategory[1].Category)
	assert.Equal(t, model.CategoryTransport, summary.ByCategory[2].Category)
}

func TestMonthlySummary_EmptyMonth(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	summary, err := engine.MonthlySummary(context.Background(), 2025, time.January)
	require.NoError(t, err)

	assert.Equal(t, model.Money(0), summary.TotalAmount)
	assert.Equal(t, 0, summary.TotalExpenses)
	assert.Equal(t, model.Money(0), summary.AverageExpense, "empty month must not divide by zero")
	assert.Empty(t, summary.ByCategory)
}

func TestTopCategories(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	// shopping=500.00, food=90.25, transport=70.25 within the window.
	testutil.SeedExpense(t, store, "ama", 50000, "New laptop", model.CategoryShopping, day("2025-06-01"))
	testutil.SeedExpense(t, store, "ama", 9025, "Groceries", model.CategoryFood, day("2025-06-05"))
	testutil.SeedExpense(t, store, "ama", 7025, "Fuel", model.CategoryTransport, day("2025-06-15"))
	// Outside the trailing 30 days.
	testutil.SeedExpense(t, store, "ama", 99999, "Old hotel", model.CategoryTravel, day("2025-04-01"))

	top, err := engine.TopCategories(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, model.CategoryShopping, top[0].Category)
	assert.Equal(t, model.Money(50000), top[0].Total)
	assert.Equal(t, model.CategoryFood, top[1].Category)
	assert.Equal(t, model.CategoryTransport, top[2].Category)
}

func TestTopCategories_CapsAtFive(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	categories := []model.Category{
		model.CategoryFood, model.CategoryTransport, model.CategoryShopping,
		model.CategoryEntertainment, model.CategoryBills, model.CategoryHealthcare,
	}
	for i, cat := range categories {
		testutil.SeedExpense(t, store, "ama", model.Money(1000*(i+1)), "expense", cat, day("2025-06-10"))
	}

	top, err := engine.TopCategories(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, top, 5)
	assert.Equal(t, model.CategoryHealthcare, top[0].Category)
}

func TestSpendingTrend(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	// Week 1 covers [2025-06-08, 2025-06-15), week 2 [2025-06-01, 2025-06-08).
	testutil.SeedExpense(t, store, "ama", 3000, "This week", model.CategoryFood, day("2025-06-10"))
	testutil.SeedExpense(t, store, "ama", 5000, "Last week", model.CategoryFood, day("2025-06-03"))
	// Today itself is outside the half-open week buckets.
	testutil.SeedExpense(t, store, "ama", 7000, "Today", model.CategoryFood, day("2025-06-15"))

	trend, err := engine.SpendingTrend(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, trend, 2)

	assert.Equal(t, "Week 1", trend[0].Label)
	assert.Equal(t, model.Money(3000), trend[0].Total)
	assert.Equal(t, "Week 2", trend[1].Label)
	assert.Equal(t, model.Money(5000), trend[1].Total)

	// Buckets tile the full span without overlap.
	assert.Equal(t, trend[1].End, trend[0].Start)
	assert.Equal(t, day("2025-06-15"), trend[0].End)
	assert.Equal(t, day("2025-06-01"), trend[1].Start)
}

func TestDetectAnomalies(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	// mean ≈ 87.21, population σ ≈ 171.5, threshold ≈ 344.4: only the
	// 500.00 expense exceeds it.
	amounts := []model.Money{2550, 1500, 50000, 1275, 1850, 2200, 1675}
	for i, amount := range amounts {
		testutil.SeedExpense(t, store, "ama", amount, "expense", model.CategoryOther,
			day("2025-06-01").AddDate(0, 0, i))
	}

	anomalies, err := engine.DetectAnomalies(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, anomalies, 1)
	assert.Equal(t, model.Money(50000), anomalies[0].Amount)
}

func TestDetectAnomalies_StatisticalFloor(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	testutil.SeedExpense(t, store, "ama", 2550, "one", model.CategoryFood, day("2025-06-10"))
	testutil.SeedExpense(t, store, "ama", 99999, "two", model.CategoryFood, day("2025-06-11"))

	anomalies, err := engine.DetectAnomalies(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, anomalies, "fewer than 3 expenses is statistically insufficient")
}

func TestDetectAnomalies_AllEqualAmounts(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	for i := 0; i < 4; i++ {
		testutil.SeedExpense(t, store, "ama", 2000, "coffee", model.CategoryFood,
			day("2025-06-01").AddDate(0, 0, i))
	}

	// Zero deviation degrades the threshold to twice the mean; equal
	// amounts never exceed it.
	anomalies, err := engine.DetectAnomalies(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestSnapshot(t *testing.T) {
	store := testutil.SetupTestDB(t)
	engine := newEngine(store)

	testutil.SeedExpense(t, store, "ama", 4550, "Pizza dinner", model.CategoryFood, day("2025-06-03"))
	testutil.SeedExpense(t, store, "ama", 2500, "Uber ride", model.CategoryTransport, day("2025-06-10"))
	testutil.SeedExpense(t, store, "ama", 50000, "New laptop", model.CategoryShopping, day("2025-06-12"))

	snapshot, err := engine.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.Monthly.TotalExpenses)
	assert.NotEmpty(t, snapshot.TopCategories)
	assert.Len(t, snapshot.Trend, insights.DefaultTrendWeeks)
}

// storageFilterSanity guards the assumption the engine makes about the
// store: End is exclusive.
func TestStorageFilterSanity(t *testing.T) {
	store := testutil.SetupTestDB(t)

	testutil.SeedExpense(t, store, "ama", 1000, "boundary", model.CategoryFood, day("2025-06-15"))

	start, end := day("2025-06-01"), day("2025-06-15")
	expenses, err := store.ListExpenses(context.Background(), storage.ListFilter{UserID: "ama", Start: &start, End: &end})
	require.NoError(t, err)
	assert.Empty(t, expenses)
}
