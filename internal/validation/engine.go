package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dataprobe/dataprobe/internal/analytics"
	"github.com/dataprobe/dataprobe/internal/history"
	"github.com/dataprobe/dataprobe/internal/inference"
	"github.com/dataprobe/dataprobe/internal/observability/metrics"
	"github.com/dataprobe/dataprobe/internal/profile"
	"github.com/dataprobe/dataprobe/internal/quality"
	"github.com/dataprobe/dataprobe/pkg/constants"
	"github.com/dataprobe/dataprobe/pkg/errors"
	"github.com/dataprobe/dataprobe/pkg/interfaces"
	"github.com/dataprobe/dataprobe/pkg/models"
)

// Engine sequences the validation, profiling, scoring and analysis stages
// over one dataset. Execution is single-goroutine and sequential; each
// stage is isolated so a failure degrades to a run warning instead of
// aborting the pipeline.
type Engine struct {
	config        *models.Config
	logger        *logrus.Logger
	inferencer    *inference.TypeInferencer
	profiler      *profile.Profiler
	scorer        *quality.Scorer
	benford       *analytics.BenfordAnalyzer
	correlation   *analytics.CorrelationAnalyzer
	seasonal      *analytics.SeasonalAnalyzer
	historyStore  interfaces.HistoryStore
	historyWindow int
	metrics       *metrics.Metrics
}

// NewEngine creates an analysis engine. The config is validated once here;
// a nil config uses the documented defaults.
func NewEngine(config *models.Config, logger *logrus.Logger) (*Engine, error) {
	if config == nil {
		config = models.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeConfiguration, "INVALID_CONFIG", "invalid engine configuration")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Engine{
		config:      config,
		logger:      logger,
		inferencer:  inference.NewTypeInferencer(config.SampleSize, logger),
		profiler:    profile.NewProfiler(logger),
		scorer:      quality.NewScorer(nil, logger),
		benford:     analytics.NewBenfordAnalyzer(logger),
		correlation: analytics.NewCorrelationAnalyzer(logger),
		seasonal:    analytics.NewSeasonalAnalyzer(config.SampleSize, logger),
	}, nil
}

// WithHistoryStore enables historical comparison against the given store.
// Window bounds how many prior entries are loaded (capped at 100).
func (e *Engine) WithHistoryStore(store interfaces.HistoryStore, window int) *Engine {
	e.historyStore = store
	e.historyWindow = window
	return e
}

// WithMetrics enables prometheus instrumentation.
func (e *Engine) WithMetrics(m *metrics.Metrics) *Engine {
	e.metrics = m
	return e
}

// Analyze runs the full pipeline over the dataset. Only structural input
// problems return an error; analytical stage failures appear as warnings
// on the report, whose scores are computed from whatever completed.
func (e *Engine) Analyze(ctx context.Context, dataset *models.Dataset, schema []models.ColumnTypeDefinition) (*models.AnalysisReport, error) {
	start := time.Now()

	if err := checkStructure(dataset, schema); err != nil {
		if e.metrics != nil {
			e.metrics.ObserveRun("rejected", 0, 0)
		}
		return nil, err
	}

	types := e.resolveTypes(dataset, schema)
	collector := NewCollector(e.config.MaxIssuesPerType, e.config.IssueLimitMultiplier)
	var warnings []string

	e.logger.WithFields(logrus.Fields{
		"rows":    len(dataset.Rows),
		"columns": len(dataset.Headers),
		"schema":  len(schema) > 0,
	}).Info("Starting analysis run")

	for _, stage := range e.validationStages(types) {
		if ctx.Err() != nil {
			warnings = append(warnings, fmt.Sprintf("run cancelled before %s", stage.Name()))
			break
		}
		e.runStage(stage.Name(), &warnings, func() error {
			return stage.Validate(ctx, dataset, types, collector)
		})
	}

	report := &models.AnalysisReport{
		ID:          uuid.NewString(),
		SourceID:    history.ResolveSourceID(dataset),
		Timestamp:   start,
		RowCount:    len(dataset.Rows),
		ColumnCount: len(dataset.Headers),
	}

	var profiles *models.ProfileResult
	e.runStage(constants.StageProfiling, &warnings, func() error {
		var err error
		profiles, err = e.profiler.ProfileDataset(ctx, dataset, types)
		return err
	})
	report.Profile = profiles

	e.runStage(constants.StageScoring, &warnings, func() error {
		if profiles == nil {
			return fmt.Errorf("no profiles available")
		}
		report.Quality = e.scorer.Score(quality.ScoreInput{
			Breakdown:        collector.Breakdown(),
			Profiles:         profiles.Columns,
			TotalRows:        len(dataset.Rows),
			UniqueDeclared:   e.uniqueDeclared(types),
			OutliersByColumn: collector.ColumnCounts(models.IssueOutlier),
		})
		return nil
	})

	if e.config.EnableBenfordsLaw {
		e.runStage(constants.StageBenford, &warnings, func() error {
			results, err := e.benford.Analyze(ctx, dataset, types)
			report.Benford = results
			return err
		})
	}
	if e.config.EnableCorrelation {
		e.runStage(constants.StageCorrelation, &warnings, func() error {
			matrix, err := e.correlation.Analyze(ctx, dataset, types)
			report.Correlations = matrix
			return err
		})
	}
	if e.config.EnablePatternDetection {
		e.runStage(constants.StageSeasonal, &warnings, func() error {
			patterns, err := e.seasonal.Analyze(ctx, dataset, types)
			report.Seasonal = patterns
			return err
		})
	}

	if e.historyStore != nil && report.Quality != nil {
		e.runStage(constants.StageHistory, &warnings, func() error {
			detector := history.NewAnomalyDetector(e.historyStore,
				&history.AnomalyDetectorConfig{Window: e.historyWindow}, e.logger)
			analysis, err := detector.Analyze(ctx, report.SourceID, models.HistoricalMetric{
				Timestamp:    start,
				QualityScore: report.Quality.Overall,
				Grade:        report.Quality.Grade,
				TotalRows:    len(dataset.Rows),
				TotalIssues:  collector.Breakdown().Total(),
				Breakdown:    collector.Breakdown(),
				DataQuality:  report.Quality.Overall,
			})
			report.History = analysis
			return err
		})
	}

	report.Validation = &models.ValidationResult{
		Issues:          collector.Issues(),
		Breakdown:       collector.Breakdown(),
		InvalidRowCount: collector.InvalidRowCount(),
		ColumnTypes:     types,
		Warnings:        warnings,
	}
	report.Duration = time.Since(start)

	if e.metrics != nil {
		score := 0.0
		if report.Quality != nil {
			score = report.Quality.Overall
		}
		e.metrics.ObserveRun("completed", len(dataset.Rows), score)
		byType := make(map[string]int)
		for t, n := range collector.Counts() {
			byType[string(t)] = n
		}
		e.metrics.ObserveIssues(byType)
	}

	e.logger.WithFields(logrus.Fields{
		"issues":   collector.Breakdown().Total(),
		"warnings": len(warnings),
		"duration": report.Duration,
	}).Info("Analysis run completed")

	return report, nil
}

// checkStructure enforces the only fatal input conditions: rows and
// headers must be present and array-shaped, and a supplied schema may only
// reference known columns.
func checkStructure(dataset *models.Dataset, schema []models.ColumnTypeDefinition) error {
	if dataset == nil || dataset.Rows == nil {
		return errors.NewInputError("INVALID_ROWS", errors.ErrInvalidRows.Error())
	}
	if dataset.Headers == nil {
		return errors.NewInputError("INVALID_HEADERS", errors.ErrInvalidHeaders.Error())
	}

	known := make(map[string]struct{}, len(dataset.Headers))
	for _, h := range dataset.Headers {
		known[h] = struct{}{}
	}
	for _, def := range schema {
		if def.Name == "" {
			return errors.NewInputError("MALFORMED_SCHEMA", "schema entry without a column name")
		}
		if _, ok := known[def.Name]; !ok {
			return errors.NewInputError("MALFORMED_SCHEMA",
				fmt.Sprintf("schema references unknown column %q", def.Name))
		}
	}
	return nil
}

// resolveTypes merges the supplied schema with inference: schema entries
// win, remaining columns are inferred in auto-detect mode or treated as
// unchecked otherwise.
func (e *Engine) resolveTypes(dataset *models.Dataset, schema []models.ColumnTypeDefinition) map[string]models.ColumnTypeDefinition {
	types := make(map[string]models.ColumnTypeDefinition, len(dataset.Headers))

	var inferred map[string]models.ColumnTypeDefinition
	if e.config.AutoDetectTypes {
		inferred = e.inferencer.InferTypes(dataset)
	}

	declared := make(map[string]models.ColumnTypeDefinition, len(schema))
	for _, def := range schema {
		declared[def.Name] = def
	}

	for _, header := range dataset.Headers {
		if def, ok := declared[header]; ok {
			types[header] = def
		} else if def, ok := inferred[header]; ok {
			types[header] = def
		} else {
			types[header] = models.ColumnTypeDefinition{Name: header, Type: models.TypeAny}
		}
	}
	return types
}

// validationStages assembles the enabled validators in pipeline order.
func (e *Engine) validationStages(types map[string]models.ColumnTypeDefinition) []interfaces.Validator {
	stages := []interfaces.Validator{
		NewTypeValidator(e.config.CheckMissingValues, e.logger),
		NewConstraintValidator(e.logger),
	}

	if e.config.CheckDuplicates {
		stages = append(stages, NewDuplicateDetector(&DuplicateDetectorConfig{
			KeyColumns:     e.config.DuplicateColumns,
			Fuzzy:          e.config.FuzzyDuplicates,
			FuzzyThreshold: e.config.FuzzySimilarityThreshold,
		}, e.logger))
	}

	if e.config.DetectOutliers != constants.OutlierMethodNone {
		stages = append(stages, NewOutlierDetector(&OutlierDetectorConfig{
			Method:          e.config.DetectOutliers,
			ZScoreThreshold: e.config.ZScoreThreshold,
		}, e.logger))
	}

	if e.uniqueDeclared(types) {
		stages = append(stages, NewUniqueValidator(e.config.UniqueColumns, e.logger))
	}

	return stages
}

func (e *Engine) uniqueDeclared(types map[string]models.ColumnTypeDefinition) bool {
	if len(e.config.UniqueColumns) > 0 {
		return true
	}
	for _, def := range types {
		if def.Unique {
			return true
		}
	}
	return false
}

// runStage executes one pipeline stage with failure isolation: a panic or
// error is downgraded to a warning and the stage's contribution stays
// empty.
func (e *Engine) runStage(name string, warnings *[]string, fn func() error) {
	start := time.Now()
	degraded := false

	func() {
		defer func() {
			if r := recover(); r != nil {
				degraded = true
				*warnings = append(*warnings, fmt.Sprintf("%s failed: %v", name, r))
				e.logger.WithFields(logrus.Fields{
					"stage": name,
					"panic": r,
				}).Error("Pipeline stage panicked")
			}
		}()
		if err := fn(); err != nil {
			degraded = true
			*warnings = append(*warnings, fmt.Sprintf("%s failed: %v", name, err))
			e.logger.WithFields(logrus.Fields{
				"stage": name,
				"error": err,
			}).Warn("Pipeline stage degraded")
		}
	}()

	if e.metrics != nil {
		e.metrics.ObserveStage(name, time.Since(start), degraded)
	}
}
