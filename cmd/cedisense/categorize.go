package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize <description>",
		Short: "Categorize a description without storing anything",
		Long: `Run a free-text expense description through the categorization chain
and print the predicted category. Nothing is persisted.

Examples:
  cedisense categorize "Uber ride to the airport"
  cedisense categorize lunch at mama's kitchen`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			description := strings.Join(args, " ")

			svc, cleanup, err := initEngine(slog.Default())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := svc.Categorize(ctx, description)
			if err != nil {
				return fmt.Errorf("categorization failed: %w", err)
			}

			fmt.Println(cli.RenderResult(description, result)) //nolint:forbidigo // User-facing output
			return nil
		},
	}
}
