// Package screener runs the resume screening pipeline: text extraction,
// AI analysis, scoring and ranking of candidates.
package screener

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/avoronin/resume-screener/internal/ai"
	"github.com/avoronin/resume-screener/internal/extract"
	"go.uber.org/zap"
)

// ErrNoText marks files whose extraction succeeded but produced no content.
var ErrNoText = errors.New("no text extracted")

// Screener holds the screening criteria and accumulates results for one run.
// Results are keyed by source file path; insertion order is kept so ranking
// ties break stably.
type Screener struct {
	criteria *ai.Criteria
	analyzer ai.Analyzer
	logger   *zap.Logger

	results map[string]*Result
	order   []string

	// swapped out in tests
	extractText func(path string) (string, error)
}

func New(criteria *ai.Criteria, analyzer ai.Analyzer, logger *zap.Logger) *Screener {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Screener{
		criteria:    criteria,
		analyzer:    analyzer,
		logger:      logger,
		results:     make(map[string]*Result),
		extractText: extract.Text,
	}
}

// ProcessResume runs extraction, analysis and scoring for a single file and
// stores the result keyed by path. Unsupported or unreadable files and files
// with no extractable text return an error without entering the store. An AI
// failure still stores the file with the zero-confidence fallback record so
// it shows up as unqualified.
func (s *Screener) ProcessResume(ctx context.Context, path string) (*Result, error) {
	fileName := filepath.Base(path)

	text, err := s.extractText(path)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", fileName, err)
	}

	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoText, fileName)
	}

	s.logger.Info("processing resume", zap.String("file", fileName))

	analysis, err := s.analyzer.Analyze(ctx, s.criteria, text)
	if err != nil {
		s.logger.Warn("ai analysis failed, storing fallback record",
			zap.String("file", fileName),
			zap.Error(err),
		)
		analysis = ai.Fallback()
	}

	result := newResult(fileName, analysis)
	s.insert(path, result)

	return result, nil
}

// ProcessDirectory screens every regular file with a supported extension in
// dir, in directory listing order. Per-file failures are logged and skipped.
// It returns the number of resumes that entered the store.
func (s *Screener) ProcessDirectory(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading resumes directory: %w", err)
	}

	processed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !extract.Supported(entry.Name()) {
			s.logger.Info("skipping unsupported file", zap.String("file", entry.Name()))
			continue
		}

		if _, err := s.ProcessResume(ctx, filepath.Join(dir, entry.Name())); err != nil {
			s.logger.Warn("skipping resume", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		processed++
	}

	return processed, nil
}

// Len returns the number of stored results.
func (s *Screener) Len() int {
	return len(s.results)
}

// Results returns the stored results in insertion order. The returned slice
// is a copy; callers may reorder it freely.
func (s *Screener) Results() []*Result {
	results := make([]*Result, 0, len(s.order))
	for _, path := range s.order {
		results = append(results, s.results[path])
	}
	return results
}

// TopCandidates returns at most n results ordered by overall score,
// descending. Ties keep their insertion order, so repeated calls yield the
// same ranking.
func (s *Screener) TopCandidates(n int) []*Result {
	ranked := s.Results()
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})

	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	return ranked[:n]
}

func (s *Screener) insert(path string, result *Result) {
	if _, ok := s.results[path]; !ok {
		s.order = append(s.order, path)
	}
	s.results[path] = result
}
