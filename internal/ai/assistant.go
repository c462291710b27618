package ai

import "context"

// Criteria describes the job requirements every resume is screened against.
// It is built once per run and never mutated afterwards.
type Criteria struct {
	JobDescription     string
	RequiredSkills     []string
	MinExperienceYears int
}

// ReportCard aggregates everything known about a scored candidate for
// narrative reporting.
type ReportCard struct {
	FileName     string
	Analysis     *Analysis
	OverallScore float64
	Qualified    bool
}

// Analyzer assesses a single resume text against the screening criteria.
type Analyzer interface {
	Analyze(ctx context.Context, criteria *Criteria, resumeText string) (*Analysis, error)
}

// Reporter produces a free-text assessment report for a scored candidate.
type Reporter interface {
	Report(ctx context.Context, card *ReportCard) (string, error)
}
