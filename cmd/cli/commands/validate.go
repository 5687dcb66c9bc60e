package commands

import (
	"github.com/spf13/cobra"

	"github.com/dataprobe/dataprobe/internal/ingest"
	"github.com/dataprobe/dataprobe/internal/validation"
	"github.com/dataprobe/dataprobe/pkg/models"
)

type ValidateOptions struct {
	InputFile        string
	SchemaFile       string
	DetectOutliers   string
	Fuzzy            bool
	NoDuplicates     bool
	MaxIssuesPerType int
	OutputFormat     string
	OutputFile       string
	Verbose          bool
}

func NewValidateCmd() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate tabular data against a schema",
		Long: `Validate runs the validation stages only: type checks, constraint
checks, duplicate and outlier detection. Statistical analyses are skipped.`,
		Example: `  # Validate against a schema
  dataprobe validate --input orders.csv --schema schema.yaml

  # Validate with inferred types, JSON output
  dataprobe validate --input orders.csv --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runValidate(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input file to validate (- for stdin JSON)")
	cmd.Flags().StringVarP(&opts.SchemaFile, "schema", "s", "", "Column schema file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.DetectOutliers, "outliers", "", "Outlier method (iqr, zscore, none)")
	cmd.Flags().BoolVar(&opts.Fuzzy, "fuzzy", false, "Detect near-duplicate rows")
	cmd.Flags().BoolVar(&opts.NoDuplicates, "no-duplicates", false, "Skip duplicate detection")
	cmd.Flags().IntVar(&opts.MaxIssuesPerType, "max-issues", 0, "Recorded issue cap per issue type")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "", "Output format (text, json)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")

	return cmd
}

func runValidate(opts *ValidateOptions) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	logger := newLogger(opts.Verbose)

	engineConfig := cfg.Engine
	engineConfig.EnableBenfordsLaw = false
	engineConfig.EnableCorrelation = false
	engineConfig.EnablePatternDetection = false
	if opts.DetectOutliers != "" {
		engineConfig.DetectOutliers = opts.DetectOutliers
	}
	if opts.Fuzzy {
		engineConfig.FuzzyDuplicates = true
	}
	if opts.NoDuplicates {
		engineConfig.CheckDuplicates = false
	}
	if opts.MaxIssuesPerType > 0 {
		engineConfig.MaxIssuesPerType = opts.MaxIssuesPerType
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

	var schema []models.ColumnTypeDefinition
	if schema, err = loadSchema(opts.SchemaFile); err != nil {
		return err
	}

	result, err := engine.Analyze(ctx, dataset, schema)
	if err != nil {
		return err
	}

	return writeAnalysis(cfg, opts.OutputFormat, opts.OutputFile, result)
}
