package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/dataprobe/dataprobe/cmd/cli/config"
	"github.com/dataprobe/dataprobe/internal/ingest"
	"github.com/dataprobe/dataprobe/internal/report"
	"github.com/dataprobe/dataprobe/internal/storage"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// reportWriter is the common surface of the text and JSON writers.
type reportWriter interface {
	Write(report *models.AnalysisReport) error
}

func loadCLIConfig() (*config.CLIConfig, error) {
	return config.LoadConfig(viper.ConfigFileUsed())
}

func newLogger(verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func loadDataset(loader *ingest.Loader, inputFile string) (*models.Dataset, error) {
	if inputFile == "" || inputFile == "-" {
		return loader.LoadJSON(os.Stdin)
	}
	return loader.LoadFile(inputFile)
}

func loadSchema(schemaFile string) ([]models.ColumnTypeDefinition, error) {
	if schemaFile == "" {
		return nil, nil
	}
	return ingest.LoadSchema(schemaFile)
}

// openOutput resolves the output target; "-" means stdout. The returned
// closer is a no-op for stdout.
func openOutput(outputFile string) (io.Writer, func(), error) {
	if outputFile == "" || outputFile == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create output file: %w", err)
	}
	color.NoColor = true
	return f, func() { f.Close() }, nil
}

func newReportWriter(format string, out io.Writer, maxIssues int) (reportWriter, error) {
	switch format {
	case "json":
		return report.NewJSONWriter(out), nil
	case "text", "":
		return report.NewTextWriter(out, maxIssues), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", format)
	}
}

func openHistoryStore(ctx context.Context, cfg *config.CLIConfig, logger *logrus.Logger) (interfaces.HistoryStore, error) {
	store, err := storage.NewHistoryStore(&cfg.History.Storage, logger)
	if err != nil {
		return nil, err
	}
	if err := store.Connect(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
