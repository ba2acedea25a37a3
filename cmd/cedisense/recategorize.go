package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/cedisense/cedisense/internal/engine"
	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func recategorizeCmd() *cobra.Command {
	var (
		fromDate    string
		toDate      string
		categoryStr string
		dryRun      bool
		predictOnly bool
	)

	cmd := &cobra.Command{
		Use:   "recategorize",
		Short: "Re-run categorization over stored expenses",
		Long: `Re-run the categorization chain over existing expenses and store the new
predictions. Useful after training the text model or swapping the rule table.

Examples:
  # Recategorize everything currently filed under "other"
  cedisense recategorize --category other

  # Recategorize a date range, keeping manual categories untouched
  cedisense recategorize --from 2025-01-01 --to 2025-06-30 --predict-only

  # See what would change first
  cedisense recategorize --dry-run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := storage.ListFilter{UserID: currentUser()}
			if fromDate != "" {
				start, err := parseDay(fromDate, "--from")
				if err != nil {
					return err
				}
				filter.Start = &start
			}
			if toDate != "" {
				parsed, err := parseDay(toDate, "--to")
				if err != nil {
					return err
				}
				end := parsed.AddDate(0, 0, 1)
				filter.End = &end
			}
			if categoryStr != "" {
				category := model.Category(strings.ToLower(categoryStr))
				if !model.ValidCategory(category) {
					return fmt.Errorf("unknown category %q (run 'cedisense categories')", categoryStr)
				}
				filter.Category = &category
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			expenses, err := store.ListExpenses(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to find expenses: %w", err)
			}
			if len(expenses) == 0 {
				fmt.Println(cli.FormatInfo("No expenses found matching criteria")) //nolint:forbidigo // User-facing output
				return nil
			}

			svc, cleanup, err := initEngine(slog.Default())
			if err != nil {
				return err
			}
			defer cleanup()

			changed, err := recategorizeExpenses(ctx, store, svc, expenses, dryRun, predictOnly)
			if err != nil {
				return err
			}

			fmt.Println() //nolint:forbidigo // User-facing output
			if dryRun {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("%d of %d expenses would change category", changed, len(expenses)))) //nolint:forbidigo // User-facing output
			} else {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recategorized %d expenses, %d changed category", len(expenses), changed))) //nolint:forbidigo // User-facing output
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "earliest date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&toDate, "to", "", "latest date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&categoryStr, "category", "", "only expenses currently in this category")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing")
	cmd.Flags().BoolVar(&predictOnly, "predict-only", false, "store predictions without changing categories")

	return cmd
}

// recategorizeExpenses re-runs the chain over the given expenses. The fresh
// prediction is persisted for every processed expense, so a re-run always
// replaces a stale ai_predicted_category even when the predicted category
// matches the current one. The category column only changes when the
// prediction differs and predictOnly is unset. Returns how many expenses had
// a differing prediction.
func recategorizeExpenses(ctx context.Context, store *storage.SQLiteStorage, svc *engine.Service, expenses []model.Expense, dryRun, predictOnly bool) (int, error) {
	bar := progressbar.NewOptions(len(expenses),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Recategorizing..."),
	)

	var changed int
	for i := range expenses {
		expense := &expenses[i]

		result, err := svc.Categorize(ctx, expense.Description)
		if err != nil {
			return changed, fmt.Errorf("failed to categorize expense %d: %w", expense.ID, err)
		}
		_ = bar.Add(1)

		differs := result.Category != expense.Category
		if differs {
			changed++
		}

		if dryRun {
			if differs {
				fmt.Printf("\n#%d %q: %s -> %s (%s)", //nolint:forbidigo // User-facing output
					expense.ID, expense.Description, expense.Category, result.Category, result.Method)
			}
			continue
		}

		if err := store.SetAIPrediction(ctx, expense.UserID, expense.ID, result.Category); err != nil {
			return changed, fmt.Errorf("failed to store prediction for expense %d: %w", expense.ID, err)
		}
		if differs && !predictOnly {
			if err := store.OverrideCategory(ctx, expense.UserID, expense.ID, result.Category); err != nil {
				return changed, fmt.Errorf("failed to update expense %d: %w", expense.ID, err)
			}
		}
	}

	return changed, nil
}
