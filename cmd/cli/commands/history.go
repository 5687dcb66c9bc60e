package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type HistoryOptions struct {
	SourceID string
	Limit    int
	Verbose  bool
}

func NewHistoryCmd() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored quality history for a source",
		Long: `History lists the stored quality snapshots for a source identifier,
newest last. Source identifiers are printed in every analysis report.`,
		Example: `  # Show the last 30 runs for a source
  dataprobe history --source orders.csv

  # Show the last 5 runs
  dataprobe history --source orders.csv --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runHistory(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.SourceID, "source", "s", "", "Source identifier (required)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 30, "Maximum entries to show")

	cmd.MarkFlagRequired("source")

	return cmd
}

func runHistory(opts *HistoryOptions) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	logger := newLogger(opts.Verbose)

	ctx, cancel := signalContext()
	defer cancel()

	store, err := openHistoryStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("cannot open history store: %w", err)
	}
	defer store.Close()

	entries, err := store.LoadHistory(ctx, opts.SourceID, opts.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No history recorded for %q\n", opts.SourceID)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Timestamp", "Score", "Grade", "Rows", "Issues"})
	for _, entry := range entries {
		table.Append([]string{
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(entry.QualityScore, 'f', 1, 64),
			entry.Grade,
			strconv.Itoa(entry.TotalRows),
			strconv.Itoa(entry.TotalIssues),
		})
	}
	table.Render()
	return nil
}
