package main

import (
	"fmt"
	"time"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/cedisense/cedisense/internal/insights"
	"github.com/spf13/cobra"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Statistical insights over your spending",
		Long: `Compute insights over stored expenses. Without a subcommand the full
snapshot is shown: monthly summary, top categories, weekly trend and
anomalies, computed concurrently.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			snapshot, err := insights.NewEngine(store, currentUser()).Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute insights: %w", err)
			}

			fmt.Println(cli.RenderSnapshot(snapshot)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.AddCommand(insightsSummaryCmd())
	cmd.AddCommand(insightsTopCmd())
	cmd.AddCommand(insightsTrendCmd())
	cmd.AddCommand(insightsAnomaliesCmd())

	return cmd
}

func insightsSummaryCmd() *cobra.Command {
	var (
		year  int
		month int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly spending summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if month < 0 || month > 12 {
				return fmt.Errorf("invalid month %d", month)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			summary, err := insights.NewEngine(store, currentUser()).MonthlySummary(ctx, year, time.Month(month))
			if err != nil {
				return fmt.Errorf("failed to compute summary: %w", err)
			}

			fmt.Println(cli.RenderSummary(summary)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default: current)")
	cmd.Flags().IntVar(&month, "month", 0, "calendar month 1-12 (default: current)")

	return cmd
}

func insightsTopCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Top spending categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			top, err := insights.NewEngine(store, currentUser()).TopCategories(ctx, days)
			if err != nil {
				return fmt.Errorf("failed to rank categories: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Top categories (%d days)", days))) //nolint:forbidigo // User-facing output
			fmt.Println(cli.RenderTopCategories(top))                                         //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", insights.DefaultWindowDays, "trailing window in days")

	return cmd
}

func insightsTrendCmd() *cobra.Command {
	var weeks int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Weekly spending trend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			trend, err := insights.NewEngine(store, currentUser()).SpendingTrend(ctx, weeks)
			if err != nil {
				return fmt.Errorf("failed to compute trend: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Weekly trend")) //nolint:forbidigo // User-facing output
			fmt.Println(cli.RenderTrend(trend))                //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().IntVar(&weeks, "weeks", insights.DefaultTrendWeeks, "number of trailing weeks")

	return cmd
}

func insightsAnomaliesCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Unusually large expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			anomalies, err := insights.NewEngine(store, currentUser()).DetectAnomalies(ctx, days)
			if err != nil {
				return fmt.Errorf("failed to detect anomalies: %w", err)
			}

			fmt.Println(cli.RenderAnomalies(anomalies)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", insights.DefaultWindowDays, "trailing window in days")

	return cmd
}
