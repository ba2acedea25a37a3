package main

import (
	"fmt"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories",
		RunE: func(_ *cobra.Command, _ []string) error {
			table, err := ruleTable()
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render("Categories")) //nolint:forbidigo // User-facing output
			for _, category := range table.Categories() {
				keywords := ""
				for _, entry := range table.Entries() {
					if entry.Category == category {
						keywords = cli.SubtleStyle.Render(fmt.Sprintf("  (%d keywords)", len(entry.Keywords)))
						break
					}
				}
				fmt.Printf("  %s%s\n", category, keywords) //nolint:forbidigo // User-facing output
			}
			return nil
		},
	}
}
