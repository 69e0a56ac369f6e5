package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rulebot/internal/adapters/driving/watcher"
)

var indexWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [pdf]",
	Short: "Split the rule manual into rule passages",
	Long: `Extracts the text of every page of the rule manual, splits it at rule
markers such as <SG1> and writes the passages to the chunk collection.

Without an argument the manual configured under data.manual is used.
Requires pdftotext (poppler-utils).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the embedding index from the chunk collection",
	Long: `Embeds every rule passage and writes the index artifact used by retrieval.

With --watch the index is rebuilt whenever the chunk collection changes,
for example after running 'rulebot ingest' in another terminal.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "rebuild when the chunk collection changes")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}

	report, err := ingestService.Ingest(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Extracted %d pages into %d rule passages.\n", report.Pages, report.Chunks)
	cmd.Printf("Chunk collection: %s\n", report.Path)
	cmd.Println("Run 'rulebot index' to rebuild the embedding index.")
	return nil
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return notConfigured("index")
	}

	err := buildIndex(cmd.Context(), cmd)
	if !indexWatch {
		return err
	}
	if err != nil {
		cmd.PrintErrf("Initial build failed: %v\n", err)
	}

	if chunksPath == "" {
		return errors.New("chunk collection path not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(chunksPath, func(ctx context.Context) error {
		return buildIndex(ctx, cmd)
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", w.Path())
	return w.Run(ctx)
}

func buildIndex(ctx context.Context, cmd *cobra.Command) error {
	report, err := indexService.Build(ctx)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	cmd.Printf("Indexed %d passages (%d dimensions), build %s\n", report.Embedded, report.Dimensions, report.BuildID)
	if len(report.Skipped) > 0 {
		cmd.Printf("Skipped %d passages that could not be embedded:\n", len(report.Skipped))
		for _, c := range report.Skipped {
			cmd.Printf("  %s (page %d)\n", c.RuleID, c.PageNumber)
		}
	}
	cmd.Printf("Index: %s\n", report.Path)
	return nil
}
