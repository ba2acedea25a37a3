package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cedisense/cedisense/internal/cli"
	"github.com/cedisense/cedisense/internal/config"
	"github.com/cedisense/cedisense/internal/textcat"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train <corpus.csv>",
		Short: "Train the text categorizer from a labeled corpus",
		Long: `Train the primary text categorization model on a CSV corpus of
"description,category" rows and store the versioned model artifact. The
categorization chain picks the artifact up on its next run.

Example:
  cedisense train corpus.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			samples, err := textcat.ReadCorpusFile(config.ExpandPath(args[0]))
			if err != nil {
				return fmt.Errorf("failed to read corpus: %w", err)
			}

			classifier, err := textcat.Train(samples, slog.Default())
			if err != nil {
				return fmt.Errorf("training failed: %w", err)
			}

			artifactPath := config.ModelArtifactPath(viper.GetString("model.dir"), textcat.ArtifactVersion)
			if err := os.MkdirAll(filepath.Dir(artifactPath), 0o755); err != nil {
				return fmt.Errorf("failed to create model directory: %w", err)
			}
			if err := classifier.Save(artifactPath); err != nil {
				return fmt.Errorf("failed to save model artifact: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Trained on %d samples, artifact saved to %s", //nolint:forbidigo // User-facing output
				len(samples), artifactPath)))
			return nil
		},
	}
}
