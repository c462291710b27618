package ai

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// Analysis is the structured assessment the model returns for one resume.
// JSON tags mirror the schema requested in the analysis prompt.
type Analysis struct {
	SkillsFound        []string `json:"skills_found"`
	SkillsMatchPercent float64  `json:"skills_match_percent"`
	ExperienceYears    float64  `json:"experience_years"`
	ExperienceMatch    bool     `json:"experience_match"`
	Strengths          []string `json:"strengths"`
	Weaknesses         []string `json:"weaknesses"`
	RelevanceScore     float64  `json:"relevance_score"`
	AdditionalInsights string   `json:"additional_insights"`
}

// Fallback returns the default zero-confidence analysis stored when the model
// call fails or its reply cannot be parsed. The resulting record always ranks
// last and never qualifies.
func Fallback() *Analysis {
	return &Analysis{
		SkillsFound:        []string{},
		Strengths:          []string{},
		Weaknesses:         []string{"Unable to analyze resume properly"},
		AdditionalInsights: "Error occurred during AI analysis",
	}
}

// ParseAnalysis extracts an Analysis from the model's free-form reply. It
// handles markdown code fences and stray non-ASCII bytes and never fails:
// any decode problem yields the Fallback record instead.
func ParseAnalysis(raw string) *Analysis {
	cleaned := extractJSON(raw)
	cleaned = stripNonASCII(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		return Fallback()
	}

	return &analysis
}

// extractJSON returns the content of a ```json fenced block when present,
// otherwise the whole reply with surrounding fences and backticks removed.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if start := strings.Index(raw, "```json"); start != -1 {
		raw = raw[start+len("```json"):]
		if end := strings.Index(raw, "```"); end != -1 {
			raw = raw[:end]
		}
		return strings.TrimSpace(raw)
	}

	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func stripNonASCII(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
