package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/cedisense/cedisense/internal/insights"
	"github.com/cedisense/cedisense/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// demoExpense is one seeded record: amount in display form, days before
// today.
type demoExpense struct {
	description string
	amount      string
	daysAgo     int
}

// demoData spreads spending over the trailing month, with one deliberately
// outsized purchase so anomaly detection has something to find.
var demoData = []demoExpense{
	{"Grocery shopping at the market", "85.50", 2},
	{"Uber ride to the office", "18.00", 3},
	{"Netflix subscription", "45.99", 4},
	{"Lunch at the cafe downtown", "32.25", 5},
	{"Fuel for the car", "120.00", 7},
	{"Pharmacy vitamins", "28.75", 8},
	{"New laptop", "4500.00", 9},
	{"Electricity bill", "210.40", 11},
	{"Pizza dinner with friends", "64.00", 12},
	{"Taxi home after dinner", "22.50", 12},
	{"Cinema tickets", "50.00", 14},
	{"Textbook for evening course", "95.00", 16},
	{"Restaurant breakfast", "27.80", 18},
	{"Bus pass top-up", "40.00", 19},
	{"Internet bill", "150.00", 21},
	{"Gym membership", "99.00", 23},
	{"Grocery run", "77.35", 25},
	{"Hotel booking for the weekend", "380.00", 27},
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed sample expenses and show the insights they produce",
		Long: `Seed a demo user with a month of sample expenses, categorize each one
through the chain, and render the resulting insight snapshot. Safe to run
repeatedly; each run adds another batch under the "demo" user.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			const demoUser = "demo"

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			svc, cleanup, err := initEngine(slog.Default())
			if err != nil {
				return err
			}
			defer cleanup()

			bar := progressbar.NewOptions(len(demoData),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Seeding demo expenses..."),
			)

			today := time.Now().UTC().Truncate(24 * time.Hour)
			for _, d := range demoData {
				amount, err := model.ParseMoney(d.amount)
				if err != nil {
					return fmt.Errorf("bad demo amount %q: %w", d.amount, err)
				}

				result, err := svc.Categorize(ctx, d.description)
				if err != nil {
					return fmt.Errorf("failed to categorize %q: %w", d.description, err)
				}

				predicted := result.Category
				expense := model.Expense{
					UserID:      demoUser,
					Description: d.description,
					Amount:      amount,
					Date:        today.AddDate(0, 0, -d.daysAgo),
					Category:    result.Category,
					AIPredicted: &predicted,
				}
				if err := store.CreateExpense(ctx, &expense); err != nil {
					return fmt.Errorf("failed to seed expense: %w", err)
				}
				_ = bar.Add(1)
			}
			fmt.Println() //nolint:forbidigo // User-facing output

			snapshot, err := insights.NewEngine(store, demoUser).Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute insights: %w", err)
			}

			fmt.Println(cli.RenderSnapshot(snapshot))                                                        //nolint:forbidigo // User-facing output
			fmt.Println()                                                                                    //nolint:forbidigo // User-facing output
			fmt.Println(cli.FormatInfo(`Explore further with --user demo, e.g. 'cedisense expenses list --user demo'`)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
