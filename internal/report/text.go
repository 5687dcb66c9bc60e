package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/dataprobe/dataprobe/pkg/models"
)

// TextWriter renders an analysis report as colored tables for terminal
// output.
type TextWriter struct {
	out       io.Writer
	maxIssues int
}

// NewTextWriter creates a text report writer. maxIssues bounds the issue
// table; zero means the default of 25.
func NewTextWriter(out io.Writer, maxIssues int) *TextWriter {
	if maxIssues <= 0 {
		maxIssues = 25
	}
	return &TextWriter{out: out, maxIssues: maxIssues}
}

// Write renders the full report: summary, quality score, issues, profiles
// and whichever analyses ran.
func (w *TextWriter) Write(report *models.AnalysisReport) error {
	w.writeSummary(report)
	if report.Quality != nil {
		w.writeQuality(report.Quality)
	}
	if report.Validation != nil {
		w.writeIssues(report.Validation)
	}
	if report.Profile != nil {
		w.writeProfiles(report.Profile)
	}
	w.writeBenford(report.Benford)
	if report.Correlations != nil {
		w.writeCorrelations(report.Correlations)
	}
	w.writeSeasonal(report.Seasonal)
	if report.History != nil {
		w.writeHistory(report.History)
	}
	if report.Validation != nil && len(report.Validation.Warnings) > 0 {
		w.writeWarnings(report.Validation.Warnings)
	}
	return nil
}

func (w *TextWriter) writeSummary(report *models.AnalysisReport) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w.out, "\n%s\n", bold("Data Quality Report"))
	fmt.Fprintf(w.out, "Source:   %s\n", report.SourceID)
	fmt.Fprintf(w.out, "Rows:     %d\n", report.RowCount)
	fmt.Fprintf(w.out, "Columns:  %d\n", report.ColumnCount)
	fmt.Fprintf(w.out, "Duration: %s\n\n", report.Duration.Round(1e6))
}

func (w *TextWriter) writeQuality(score *models.QualityScore) {
	table := tablewriter.NewWriter(w.out)
	table.Header([]string{"Overall", "Grade", "Completeness", "Validity", "Uniqueness", "Consistency"})
	table.Append([]string{
		formatScore(score.Overall),
		gradeColor(score.Grade),
		formatScore(score.Completeness),
		formatScore(score.Validity),
		formatScore(score.Uniqueness),
		formatScore(score.Consistency),
	})
	table.Render()
	fmt.Fprintln(w.out)
}

func (w *TextWriter) writeIssues(result *models.ValidationResult) {
	b := result.Breakdown
	fmt.Fprintf(w.out, "Issues: %d total (%d invalid rows)\n", b.Total(), result.InvalidRowCount)
	if b.Total() == 0 {
		fmt.Fprintln(w.out)
		return
	}

	table := tablewriter.NewWriter(w.out)
	table.Header([]string{"Row", "Column", "Type", "Severity", "Message"})
	shown := result.Issues
	if len(shown) > w.maxIssues {
		shown = shown[:w.maxIssues]
	}
	for _, issue := range shown {
		table.Append([]string{
			strconv.Itoa(issue.RowNumber),
			issue.Column,
			string(issue.Type),
			severityColor(issue.Severity),
			issue.Message,
		})
	}
	table.Render()
	if len(result.Issues) > w.maxIssues {
		fmt.Fprintf(w.out, "... and %d more recorded issues\n", len(result.Issues)-w.maxIssues)
	}
	fmt.Fprintln(w.out)
}

func (w *TextWriter) writeProfiles(profile *models.ProfileResult) {
	table := tablewriter.NewWriter(w.out)
	table.Header([]string{"Column", "Type", "Nulls", "Unique", "Min", "Max", "Mean"})
	for _, p := range profile.Columns {
		min, max, mean := "-", "-", "-"
		if p.NumericStats != nil {
			min = formatScore(p.NumericStats.Min)
			max = formatScore(p.NumericStats.Max)
			mean = formatScore(p.NumericStats.Mean)
		}
		table.Append([]string{
			p.Name,
			string(p.DetectedType),
			fmt.Sprintf("%d (%.1f%%)", p.NullCount, p.NullPercent),
			strconv.Itoa(p.UniqueCount),
			min, max, mean,
		})
	}
	table.Render()
	fmt.Fprintln(w.out)
}

func (w *TextWriter) writeBenford(analyses []models.BenfordAnalysis) {
	if len(analyses) == 0 {
		return
	}
	table := tablewriter.NewWriter(w.out)
	table.Header([]string{"Column", "Samples", "Chi-Square", "P-Value", "Deviation", "Compliant"})
	for _, a := range analyses {
		compliant := color.GreenString("yes")
		if !a.IsCompliant {
			compliant = color.RedString("no")
		}
		table.Append([]string{
			a.Column,
			strconv.Itoa(a.SampleSize),
			fmt.Sprintf("%.2f", a.ChiSquare),
			fmt.Sprintf("%.4f", a.PValue),
			fmt.Sprintf("%.1f%%", a.Deviation),
			compliant,
		})
	}
	table.Render()
	for _, a := range analyses {
		if a.Violation != nil {
			fmt.Fprintf(w.out, "%s %s\n", color.YellowString("[%s]", a.Violation.Severity), a.Violation.Message)
		}
	}
	fmt.Fprintln(w.out)
}

func (w *TextWriter) writeCorrelations(matrix *models.CorrelationMatrix) {
	if len(matrix.Pairs) == 0 {
		return
	}
	pairs := make([]models.CorrelationPair, len(matrix.Pairs))
	copy(pairs, matrix.Pairs)
	sort.Slice(pairs, func(i, j int) bool {
		return abs(pairs[i].Coefficient) > abs(pairs[j].Coefficient)
	})

	table := tablewriter.NewWriter(w.out)
	table.Header([]string{"Column A", "Column B", "Coefficient", "Strength", "Direction"})
	for _, p := range pairs {
		table.Append([]string{
			p.ColumnA, p.ColumnB,
			fmt.Sprintf("%.3f", p.Coefficient),
			p.Strength, p.Direction,
		})
	}
	table.Render()
	fmt.Fprintln(w.out)
}

func (w *TextWriter) writeSeasonal(patterns []models.SeasonalPattern) {
	if len(patterns) == 0 {
		return
	}
	for _, p := range patterns {
		fmt.Fprintf(w.out, "Seasonality: %s by %s\n", p.ValueColumn, p.DateColumn)
		table := tablewriter.NewWriter(w.out)
		table.Header([]string{"Bucket", "Count", "Mean", "Z-Score", "Anomalous"})
		for _, bs := range p.DayOfWeek {
			flag := ""
			if bs.Anomalous {
				flag = color.RedString("yes")
			}
			table.Append([]string{
				bs.Label,
				strconv.Itoa(bs.Count),
				formatScore(bs.Mean),
				fmt.Sprintf("%.2f", bs.ZScore),
				flag,
			})
		}
		table.Render()
		if p.Trend != nil {
			fmt.Fprintf(w.out, "Trend: %s (%.1f%% change, r^2=%.2f)\n",
				p.Trend.Direction, p.Trend.PercentChange, p.Trend.RSquared)
		}
		fmt.Fprintln(w.out)
	}
}

func (w *TextWriter) writeHistory(analysis *models.HistoryAnalysis) {
	fmt.Fprintf(w.out, "History: %d prior runs for %s\n", analysis.Points, analysis.SourceID)
	for _, a := range analysis.Anomalies {
		fmt.Fprintf(w.out, "%s %s\n", color.RedString("[%s]", a.Severity), a.Message)
	}
	if analysis.Forecast != nil {
		fmt.Fprintf(w.out, "Forecast: next score %.1f (confidence %.2f, %d points)\n",
			analysis.Forecast.NextScore, analysis.Forecast.Confidence, analysis.Forecast.Basis)
	}
	fmt.Fprintln(w.out)
}

func (w *TextWriter) writeWarnings(warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(w.out, "%s %s\n", color.YellowString("warning:"), warning)
	}
	fmt.Fprintln(w.out)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func gradeColor(grade string) string {
	switch grade {
	case "A", "B":
		return color.GreenString(grade)
	case "C", "D":
		return color.YellowString(grade)
	default:
		return color.RedString(grade)
	}
}

func severityColor(severity models.Severity) string {
	switch severity {
	case models.SeverityError:
		return color.RedString(string(severity))
	case models.SeverityWarning:
		return color.YellowString(string(severity))
	default:
		return string(severity)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
