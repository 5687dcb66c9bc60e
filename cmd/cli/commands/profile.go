package commands

import (
	"github.com/spf13/cobra"

	"github.com/dataprobe/dataprobe/internal/ingest"
	"github.com/dataprobe/dataprobe/internal/validation"
	"github.com/dataprobe/dataprobe/pkg/constants"
)

type ProfileOptions struct {
	InputFile    string
	SampleSize   int
	OutputFormat string
	OutputFile   string
	Verbose      bool
}

func NewProfileCmd() *cobra.Command {
	opts := &ProfileOptions{}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Compute descriptive statistics for each column",
		Long: `Profile infers column types and computes per-column statistics:
null and unique counts, most common values, and numeric or string length
distributions. No validation issues are reported.`,
		Example: `  # Profile a CSV file
  dataprobe profile --input orders.csv

  # Profile with JSON output
  dataprobe profile --input orders.csv --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runProfile(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input file to profile (- for stdin JSON)")
	cmd.Flags().IntVar(&opts.SampleSize, "sample-size", 0, "Rows sampled for type inference")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "", "Output format (text, json)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")

	return cmd
}

func runProfile(opts *ProfileOptions) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	logger := newLogger(opts.Verbose)

	engineConfig := cfg.Engine
	engineConfig.CheckDuplicates = false
	engineConfig.DetectOutliers = constants.OutlierMethodNone
	engineConfig.EnableBenfordsLaw = false
	engineConfig.EnableCorrelation = false
	engineConfig.EnablePatternDetection = false
	if opts.SampleSize > 0 {
		engineConfig.SampleSize = opts.SampleSize
	}

	ctx, cancel := signalContext()
	defer cancel()

	engine, err := validation.NewEngine(&engineConfig, logger)
	if err != nil {
		return err
	}

	loader := ingest.NewLoader(logger)
	dataset, err := loadDataset(loader, opts.InputFile)
	if err != nil {
		return err
	}

	result, err := engine.Analyze(ctx, dataset, nil)
	if err != nil {
		return err
	}

	return writeAnalysis(cfg, opts.OutputFormat, opts.OutputFile, result)
}
