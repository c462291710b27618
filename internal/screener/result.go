package screener

import (
	"github.com/avoronin/resume-screener/internal/ai"
)

// Scoring weights: 40% required-skills match, 30% experience requirement,
// 30% overall relevance. A candidate qualifies at 70 and above.
const (
	skillsWeight       = 0.4
	experienceWeight   = 30
	relevanceWeight    = 0.3
	qualifiedThreshold = 70
)

// Result is the screening outcome for one resume file. It is created once
// and never mutated after insertion into the store.
type Result struct {
	FileName     string       `json:"file_name"`
	Analysis     *ai.Analysis `json:"analysis"`
	OverallScore float64      `json:"overall_score"`
	Qualified    bool         `json:"qualified"`
}

func newResult(fileName string, analysis *ai.Analysis) *Result {
	score := Score(analysis)

	return &Result{
		FileName:     fileName,
		Analysis:     analysis,
		OverallScore: score,
		Qualified:    score >= qualifiedThreshold,
	}
}

// Score combines the parsed analysis fields into the weighted overall score.
// The inputs are trusted as reported: a model reply that breaks the 0-100
// contract can push the result above 100, and that value is kept as-is.
func Score(analysis *ai.Analysis) float64 {
	experience := 0.0
	if analysis.ExperienceMatch {
		experience = 1
	}

	return skillsWeight*analysis.SkillsMatchPercent +
		experienceWeight*experience +
		relevanceWeight*analysis.RelevanceScore
}

// ReportCard packages the result for narrative report generation.
func (r *Result) ReportCard() *ai.ReportCard {
	return &ai.ReportCard{
		FileName:     r.FileName,
		Analysis:     r.Analysis,
		OverallScore: r.OverallScore,
		Qualified:    r.Qualified,
	}
}
