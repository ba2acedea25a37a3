package model

import "time"

// CategoryTotal is an amount and count aggregated by category.
type CategoryTotal struct {
	Category Category
	Total    Money
	Count    int
}

// MonthlySummary aggregates one user's expenses for a calendar month.
// ByCategory is ordered descending by total.
type MonthlySummary struct {
	ByCategory     []CategoryTotal
	Year           int
	Month          time.Month
	TotalAmount    Money
	TotalExpenses  int
	AverageExpense Money
}

// WeeklyTotal is one bucket of a spending trend: the half-open window
// [Start, End) and the sum of amounts within it.
type WeeklyTotal struct {
	Start time.Time
	End   time.Time
	Label string
	Total Money
}

// Anomaly identifies an expense whose amount exceeded the outlier threshold
// for its window.
type Anomaly struct {
	Date        time.Time
	Description string
	ID          int64
	Amount      Money
}

// InsightSnapshot bundles every insight for one user, computed on demand and
// never persisted.
type InsightSnapshot struct {
	Monthly       MonthlySummary
	TopCategories []CategoryTotal
	Anomalies     []Anomaly
	Trend         []WeeklyTotal
}
