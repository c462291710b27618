package screener

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/avoronin/resume-screener/internal/ai"
	"go.uber.org/zap"
)

// reportPlaceholder is written when the model fails to produce a report.
const reportPlaceholder = "Unable to generate candidate report."

var csvHeader = []string{
	"file_name",
	"skills_found",
	"skills_match_percent",
	"experience_years",
	"strengths",
	"weaknesses",
	"relevance_score",
	"additional_insights",
	"overall_score",
	"qualified",
}

// ExportCSV flattens every stored result into a table row and writes a CSV
// file to path. List-valued fields are joined with ", ". The written rows,
// header included, are returned for in-process use.
func (s *Screener) ExportCSV(path string) ([][]string, error) {
	rows := make([][]string, 0, s.Len()+1)
	rows = append(rows, csvHeader)

	for _, result := range s.Results() {
		analysis := result.Analysis
		rows = append(rows, []string{
			result.FileName,
			strings.Join(analysis.SkillsFound, ", "),
			formatScore(analysis.SkillsMatchPercent),
			formatScore(analysis.ExperienceYears),
			strings.Join(analysis.Strengths, ", "),
			strings.Join(analysis.Weaknesses, ", "),
			formatScore(analysis.RelevanceScore),
			analysis.AdditionalInsights,
			formatScore(result.OverallScore),
			strconv.FormatBool(result.Qualified),
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating csv file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	return rows, nil
}

// WriteReports requests a narrative assessment for each of the top n
// candidates and writes one text file per candidate into dir (current
// directory when empty). A failed model call degrades to a fixed placeholder
// instead of aborting. The written file paths are returned.
func (s *Screener) WriteReports(ctx context.Context, reporter ai.Reporter, n int, dir string) ([]string, error) {
	written := make([]string, 0, n)

	for _, result := range s.TopCandidates(n) {
		report, err := reporter.Report(ctx, result.ReportCard())
		if err != nil {
			s.logger.Warn("generating candidate report",
				zap.String("file", result.FileName),
				zap.Error(err),
			)
			report = reportPlaceholder
		}

		name := filepath.Join(dir, reportFileName(result.FileName))
		if err := os.WriteFile(name, []byte(report), 0o644); err != nil {
			return written, fmt.Errorf("writing report %s: %w", name, err)
		}

		s.logger.Info("candidate report saved",
			zap.String("file", result.FileName),
			zap.String("report", name),
		)
		written = append(written, name)
	}

	return written, nil
}

// DumpToTmpFile writes all stored results as indented JSON to a temp file
// and returns its name.
func (s *Screener) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "screening_results_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Results()); err != nil {
		return "", err
	}

	return file.Name(), nil
}

func reportFileName(resumeFile string) string {
	base := strings.TrimSuffix(resumeFile, filepath.Ext(resumeFile))
	return fmt.Sprintf("report_%s.txt", base)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
