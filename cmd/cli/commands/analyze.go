package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dataprobe/dataprobe/cmd/cli/config"
	"github.com/dataprobe/dataprobe/internal/ingest"
	"github.com/dataprobe/dataprobe/internal/validation"
	"github.com/dataprobe/dataprobe/pkg/models"
)

type AnalyzeOptions struct {
	InputFile        string
	SchemaFile       string
	DetectOutliers   string
	ZScoreThreshold  float64
	Fuzzy            bool
	NoDuplicates     bool
	NoBenford        bool
	NoCorrelation    bool
	NoSeasonal       bool
	WithHistory      bool
	MaxIssuesPerType int
	OutputFormat     string
	OutputFile       string
	Verbose          bool
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full quality analysis pipeline over tabular data",
		Long: `Analyze validates, profiles and scores a CSV or JSON dataset, then runs
the statistical analyses: Benford's law conformance, correlation and
seasonal pattern detection. With --history the run is compared against
prior runs of the same source.`,
		Example: `  # Analyze a CSV file
  dataprobe analyze --input orders.csv

  # Analyze with a schema and JSON output
  dataprobe analyze --input orders.csv --schema schema.yaml --format json

  # Enable fuzzy duplicates and historical comparison
  dataprobe analyze --input orders.csv --fuzzy --history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			return runAnalyze(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.InputFile, "input", "i", "", "Input file to analyze (- for stdin JSON)")
	cmd.Flags().StringVarP(&opts.SchemaFile, "schema", "s", "", "Column schema file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.DetectOutliers, "outliers", "", "Outlier method (iqr, zscore, none)")
	cmd.Flags().Float64Var(&opts.ZScoreThreshold, "zscore-threshold", 0, "Z-score cutoff for outlier detection")
	cmd.Flags().BoolVar(&opts.Fuzzy, "fuzzy", false, "Detect near-duplicate rows")
	cmd.Flags().BoolVar(&opts.NoDuplicates, "no-duplicates", false, "Skip duplicate detection")
	cmd.Flags().BoolVar(&opts.NoBenford, "no-benford", false, "Skip Benford's law analysis")
	cmd.Flags().BoolVar(&opts.NoCorrelation, "no-correlation", false, "Skip correlation analysis")
	cmd.Flags().BoolVar(&opts.NoSeasonal, "no-seasonal", false, "Skip seasonal pattern detection")
	cmd.Flags().BoolVar(&opts.WithHistory, "history", false, "Compare against stored run history")
	cmd.Flags().IntVar(&opts.MaxIssuesPerType, "max-issues", 0, "Recorded issue cap per issue type")
	cmd.Flags().StringVar(&opts.OutputFormat, "format", "", "Output format (text, json)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "-", "Output file (- for stdout)")

	return cmd
}

func runAnalyze(opts *AnalyzeOptions) error {
	cfg, err := loadCLIConfig()
	if err != nil {
		return err
	}
	logger := newLogger(opts.Verbose)

	engineConfig := applyAnalyzeFlags(cfg.Engine, opts)

	ctx, cancel := signalContext()
	defer cancel()

	engine, err := validation.NewEngine(&engineConfig, logger)
	if err != nil {
		return err
	}

	if opts.WithHistory || cfg.History.Enabled {
		store, err := openHistoryStore(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("cannot open history store: %w", err)
		}
		defer store.Close()
		engine.WithHistoryStore(store, cfg.History.Window)
	}

	loader := ingest.NewLoader(logger)
	dataset, err := loadDataset(loader, opts.InputFile)
	if err != nil {
		return err
	}

	schema, err := loadSchema(opts.SchemaFile)
	if err != nil {
		return err
	}

	result, err := engine.Analyze(ctx, dataset, schema)
	if err != nil {
		return err
	}

	return writeAnalysis(cfg, opts.OutputFormat, opts.OutputFile, result)
}

// applyAnalyzeFlags layers the command's flags over the loaded engine
// config. Analyze runs the full pipeline, so the statistical analyses are
// switched on here and the No* flags opt back out.
func applyAnalyzeFlags(base models.Config, opts *AnalyzeOptions) models.Config {
	base.EnableBenfordsLaw = true
	base.EnableCorrelation = true
	base.EnablePatternDetection = true

	if opts.DetectOutliers != "" {
		base.DetectOutliers = opts.DetectOutliers
	}
	if opts.ZScoreThreshold > 0 {
		base.ZScoreThreshold = opts.ZScoreThreshold
	}
	if opts.Fuzzy {
		base.FuzzyDuplicates = true
	}
	if opts.NoDuplicates {
		base.CheckDuplicates = false
	}
	if opts.NoBenford {
		base.EnableBenfordsLaw = false
	}
	if opts.NoCorrelation {
		base.EnableCorrelation = false
	}
	if opts.NoSeasonal {
		base.EnablePatternDetection = false
	}
	if opts.MaxIssuesPerType > 0 {
		base.MaxIssuesPerType = opts.MaxIssuesPerType
	}
	return base
}

func writeAnalysis(cfg *config.CLIConfig, format, outputFile string, result *models.AnalysisReport) error {
	if format == "" {
		format = cfg.DefaultFormat
	}
	out, closeOut, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeOut()

	writer, err := newReportWriter(format, out, cfg.MaxIssues)
	if err != nil {
		return err
	}
	return writer.Write(result)
}
