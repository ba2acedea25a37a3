package cli

import (
	"fmt"
	"strings"

	"github.com/cedisense/cedisense/internal/model"
)

// RenderResult formats a categorization result for terminal display.
func RenderResult(description string, result model.CategorizationResult) string {
	var b strings.Builder

	b.WriteString(BoldStyle.Render(description))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s", SuccessStyle.Render("category:"), result.Category))
	b.WriteString(fmt.Sprintf("  %s %.0f%%", SubtleStyle.Render("confidence:"), result.Confidence*100))
	b.WriteString(fmt.Sprintf("  %s %s", SubtleStyle.Render("method:"), result.Method))
	if result.MatchedKeyword != "" {
		b.WriteString(fmt.Sprintf("  %s %q", SubtleStyle.Render("keyword:"), result.MatchedKeyword))
	}

	return b.String()
}

// RenderExpenses formats a list of expenses as an aligned table, most recent
// first, matching the store's ordering.
func RenderExpenses(expenses []model.Expense) string {
	if len(expenses) == 0 {
		return SubtleStyle.Render("No expenses found.")
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-6s %-12s %-13s %10s  %s", "ID", "DATE", "CATEGORY", "AMOUNT", "DESCRIPTION")))
	b.WriteString("\n")
	for _, e := range expenses {
		line := fmt.Sprintf("%-6d %-12s %-13s %10s  %s", e.ID, e.DateKey(), e.Category, e.Amount, e.Description)
		if e.AIPredicted != nil && *e.AIPredicted != e.Category {
			line += SubtleStyle.Render(fmt.Sprintf("  (predicted %s)", *e.AIPredicted))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderSummary formats a monthly summary with its category breakdown.
func RenderSummary(summary model.MonthlySummary) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(fmt.Sprintf("%s %s %d", ChartIcon, summary.Month, summary.Year)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  total:    %s\n", BoldStyle.Render(summary.TotalAmount.String())))
	b.WriteString(fmt.Sprintf("  expenses: %d\n", summary.TotalExpenses))
	b.WriteString(fmt.Sprintf("  average:  %s\n", summary.AverageExpense))

	if len(summary.ByCategory) > 0 {
		b.WriteString("\n")
		b.WriteString(renderCategoryTotals(summary.ByCategory, summary.TotalAmount))
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderTopCategories formats a ranked category list with share-of-total
// percentages.
func RenderTopCategories(totals []model.CategoryTotal) string {
	if len(totals) == 0 {
		return SubtleStyle.Render("No spending in this window.")
	}

	var grand model.Money
	for _, t := range totals {
		grand += t.Total
	}
	return renderCategoryTotals(totals, grand)
}

func renderCategoryTotals(totals []model.CategoryTotal, grand model.Money) string {
	var b strings.Builder
	for _, t := range totals {
		share := 0.0
		if grand > 0 {
			share = t.Total.Float64() / grand.Float64() * 100
		}
		b.WriteString(fmt.Sprintf("  %-14s %10s  %s\n",
			t.Category, t.Total, SubtleStyle.Render(fmt.Sprintf("%2d expenses, %.0f%%", t.Count, share))))
	}
	return b.String()
}

// RenderTrend formats weekly buckets as a simple horizontal bar chart scaled
// to the largest week.
func RenderTrend(trend []model.WeeklyTotal) string {
	if len(trend) == 0 {
		return SubtleStyle.Render("No trend data.")
	}

	var max model.Money
	for _, week := range trend {
		if week.Total > max {
			max = week.Total
		}
	}

	const barWidth = 30
	var b strings.Builder
	for _, week := range trend {
		bar := ""
		if max > 0 {
			bar = strings.Repeat("█", int(int64(week.Total)*barWidth/int64(max)))
		}
		b.WriteString(fmt.Sprintf("  %-8s %s %s %s\n",
			week.Label,
			SubtleStyle.Render(week.Start.Format("Jan 02")+"–"+week.End.AddDate(0, 0, -1).Format("Jan 02")),
			SuccessStyle.Render(bar),
			week.Total))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderAnomalies formats flagged outlier expenses.
func RenderAnomalies(anomalies []model.Anomaly) string {
	if len(anomalies) == 0 {
		return FormatSuccess("No unusual spending detected.")
	}

	var b strings.Builder
	b.WriteString(WarningStyle.Render(fmt.Sprintf("%s %d unusually large expense(s):", WarningIcon, len(anomalies))))
	b.WriteString("\n")
	for _, a := range anomalies {
		b.WriteString(fmt.Sprintf("  #%-5d %s %10s  %s\n", a.ID, a.Date.Format("2006-01-02"), a.Amount, a.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSnapshot formats the full insight bundle.
func RenderSnapshot(snapshot model.InsightSnapshot) string {
	sections := []string{
		RenderSummary(snapshot.Monthly),
		TitleStyle.Render("Top categories (30 days)") + "\n" + RenderTopCategories(snapshot.TopCategories),
		TitleStyle.Render("Weekly trend") + "\n" + RenderTrend(snapshot.Trend),
		RenderAnomalies(snapshot.Anomalies),
	}
	return strings.Join(sections, "\n\n")
}
