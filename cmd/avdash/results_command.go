package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"avtranscribe/internal/logging"
	"avtranscribe/internal/results"
)

func newResultsCommand(ctx *commandContext) *cobra.Command {
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Manage the transcription results store",
	}
	resultsCmd.AddCommand(newResultsImportCommand(ctx))
	return resultsCmd
}

func newResultsImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <json-file|->",
		Short: "Load transcription rows from a JSON array into the results store",
		Long: `Reads a JSON array of rows keyed by results column name (FILE_NAME,
TRANSCRIPT, TRANSCRIPT_WITH_SPEAKERS, ...) and inserts them in one
transaction. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer f.Close()
				in = f
			}
			return ctx.withStore(cmd, func(runCtx context.Context, store *results.Store, logger *slog.Logger) error {
				n, err := store.ImportJSON(runCtx, in)
				if err != nil {
					return err
				}
				logging.WithContext(runCtx, logger).Info("imported transcription results",
					logging.Int("rows", n),
					logging.String("table", store.Table()),
				)
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"imported": n, "table": store.Table()})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows into %s\n", n, store.Table())
				return nil
			})
		},
	}
}
