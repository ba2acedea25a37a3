package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/cedisense/cedisense/internal/model"
	"github.com/spf13/cobra"
)

func overrideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "override <id> <category>",
		Short: "Manually set an expense's category",
		Long: `Override the category of one expense. The stored AI prediction is kept
for comparison, so the model's accuracy stays measurable.

Example:
  cedisense override 42 food`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid expense id %q: %w", args[0], err)
			}

			category := model.Category(strings.ToLower(args[1]))
			if !model.ValidCategory(category) {
				return fmt.Errorf("unknown category %q (run 'cedisense categories')", args[1])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.OverrideCategory(ctx, currentUser(), id, category); err != nil {
				return fmt.Errorf("failed to override category: %w", err)
			}

			expense, err := store.GetExpense(ctx, currentUser(), id)
			if err != nil {
				return fmt.Errorf("failed to read back expense: %w", err)
			}

			msg := fmt.Sprintf("Expense #%d is now %s", id, category)
			if expense.AIPredicted != nil && *expense.AIPredicted != category {
				msg += fmt.Sprintf(" (model predicted %s)", *expense.AIPredicted)
			}
			fmt.Println(cli.FormatSuccess(msg)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
