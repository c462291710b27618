package screener

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/avoronin/resume-screener/internal/ai"
)

func storedScreener(t *testing.T) *Screener {
	t.Helper()

	analyzer := &fakeAnalyzer{analyses: map[string]*ai.Analysis{
		"resume a": {
			SkillsFound:        []string{"React", "CSS"},
			SkillsMatchPercent: 50,
			ExperienceYears:    3,
			ExperienceMatch:    true,
			Strengths:          []string{"Ships fast", "Curious"},
			Weaknesses:         []string{"No testing culture"},
			RelevanceScore:     80,
			AdditionalInsights: "Solid portfolio",
		},
		"resume b": {},
	}}

	s := testScreener(analyzer, map[string]string{
		"jane_doe.pdf":  "resume a",
		"john_roe.docx": "resume b",
	})

	for _, path := range []string{"jane_doe.pdf", "john_roe.docx"} {
		if _, err := s.ProcessResume(context.Background(), path); err != nil {
			t.Fatalf("processing %s: %v", path, err)
		}
	}

	return s
}

func TestExportCSV(t *testing.T) {
	s := storedScreener(t)
	output := filepath.Join(t.TempDir(), "results.csv")

	rows, err := s.ExportCSV(output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}

	header := rows[0]
	if header[0] != "file_name" || header[len(header)-1] != "qualified" {
		t.Fatalf("unexpected header: %v", header)
	}

	jane := rows[1]
	if jane[0] != "jane_doe.pdf" {
		t.Fatalf("expected insertion order in rows, got %q first", jane[0])
	}
	if jane[1] != "React, CSS" {
		t.Fatalf("expected comma-joined skills, got %q", jane[1])
	}
	if jane[4] != "Ships fast, Curious" {
		t.Fatalf("expected comma-joined strengths, got %q", jane[4])
	}
	if jane[8] != "74" {
		t.Fatalf("expected overall score 74, got %q", jane[8])
	}
	if jane[9] != "true" {
		t.Fatalf("expected qualified true, got %q", jane[9])
	}

	john := rows[2]
	if john[8] != "0" || john[9] != "false" {
		t.Fatalf("expected zero unqualified row, got score %q qualified %q", john[8], john[9])
	}

	// The file on disk matches the returned rows.
	file, err := os.Open(output)
	if err != nil {
		t.Fatalf("opening exported csv: %v", err)
	}
	defer file.Close()

	read, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("reading exported csv: %v", err)
	}

	if len(read) != len(rows) {
		t.Fatalf("expected %d rows on disk, got %d", len(rows), len(read))
	}
	for i := range rows {
		for j := range rows[i] {
			if read[i][j] != rows[i][j] {
				t.Fatalf("row %d column %d mismatch: %q vs %q", i, j, read[i][j], rows[i][j])
			}
		}
	}
}

type fakeReporter struct {
	reports map[string]string
	err     error
}

func (f *fakeReporter) Report(_ context.Context, card *ai.ReportCard) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reports[card.FileName], nil
}

func TestWriteReports(t *testing.T) {
	s := storedScreener(t)
	dir := t.TempDir()

	reporter := &fakeReporter{reports: map[string]string{
		"jane_doe.pdf":  "Jane is a strong candidate.",
		"john_roe.docx": "John needs more experience.",
	}}

	written, err := s.WriteReports(context.Background(), reporter, 2, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(written) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(written))
	}

	// Ranked order: jane (74) before john (0).
	if filepath.Base(written[0]) != "report_jane_doe.txt" {
		t.Fatalf("unexpected first report name: %s", written[0])
	}
	if filepath.Base(written[1]) != "report_john_roe.txt" {
		t.Fatalf("unexpected second report name: %s", written[1])
	}

	content, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if string(content) != "Jane is a strong candidate." {
		t.Fatalf("unexpected report content: %q", content)
	}
}

func TestWriteReportsFallsBackToPlaceholder(t *testing.T) {
	s := storedScreener(t)
	dir := t.TempDir()

	reporter := &fakeReporter{err: errors.New("model unavailable")}

	written, err := s.WriteReports(context.Background(), reporter, 1, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(written) != 1 {
		t.Fatalf("expected 1 report, got %d", len(written))
	}

	content, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	if string(content) != reportPlaceholder {
		t.Fatalf("expected the placeholder report, got %q", content)
	}
}

func TestDumpToTmpFile(t *testing.T) {
	s := storedScreener(t)

	filename, err := s.DumpToTmpFile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.Remove(filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("reading dump: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("expected a non-empty dump")
	}
}
