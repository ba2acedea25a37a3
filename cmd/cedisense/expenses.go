package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/storage"
	"github.com/spf13/cobra"
)

func expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "Manage expense records",
	}

	cmd.AddCommand(expensesAddCmd())
	cmd.AddCommand(expensesListCmd())
	cmd.AddCommand(expensesDeleteCmd())

	return cmd
}

func expensesAddCmd() *cobra.Command {
	var (
		amountStr   string
		categoryStr string
		dateStr     string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record a new expense",
		Long: `Record an expense. Without --category the description runs through the
categorization chain and the prediction is stored alongside the expense.

Examples:
  cedisense expenses add "Pizza dinner with friends" --amount 45.50
  cedisense expenses add "MTN airtime" --amount 20 --category bills --date 2025-06-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			description := strings.Join(args, " ")

			amount, err := model.ParseMoney(amountStr)
			if err != nil {
				return fmt.Errorf("invalid --amount: %w", err)
			}

			date := time.Now().UTC().Truncate(24 * time.Hour)
			if dateStr != "" {
				if date, err = parseDay(dateStr, "--date"); err != nil {
					return err
				}
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			expense := model.Expense{
				UserID:      currentUser(),
				Description: description,
				Amount:      amount,
				Date:        date,
			}

			if categoryStr != "" {
				category := model.Category(strings.ToLower(categoryStr))
				if !model.ValidCategory(category) {
					return fmt.Errorf("unknown category %q (run 'cedisense categories')", categoryStr)
				}
				expense.Category = category
			} else {
				svc, cleanup, err := initEngine(slog.Default())
				if err != nil {
					return err
				}
				defer cleanup()

				result, err := svc.Categorize(ctx, description)
				if err != nil {
					return fmt.Errorf("categorization failed: %w", err)
				}
				expense.Category = result.Category
				predicted := result.Category
				expense.AIPredicted = &predicted

				fmt.Println(cli.RenderResult(description, result)) //nolint:forbidigo // User-facing output
			}

			if err := store.CreateExpense(ctx, &expense); err != nil {
				return fmt.Errorf("failed to record expense: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded expense #%d: %s (%s, %s)", //nolint:forbidigo // User-facing output
				expense.ID, expense.Description, expense.Amount, expense.Category)))
			return nil
		},
	}

	cmd.Flags().StringVar(&amountStr, "amount", "", "expense amount, e.g. 45.50 (required)")
	cmd.Flags().StringVar(&categoryStr, "category", "", "category (omit to categorize automatically)")
	cmd.Flags().StringVar(&dateStr, "date", "", "expense date YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func expensesListCmd() *cobra.Command {
	var (
		fromDate    string
		toDate      string
		categoryStr string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, most recent first",
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
				// The filter end is exclusive; include the named day.
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
				return fmt.Errorf("failed to list expenses: %w", err)
			}

			fmt.Println(cli.RenderExpenses(expenses)) //nolint:forbidigo // User-facing output
			return nil
		},
	}

	cmd.Flags().StringVar(&fromDate, "from", "", "earliest date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&toDate, "to", "", "latest date YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&categoryStr, "category", "", "only this category")

	return cmd
}

func expensesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteExpense(ctx, currentUser(), id); err != nil {
				return fmt.Errorf("failed to delete expense: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted expense #%d", id))) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
