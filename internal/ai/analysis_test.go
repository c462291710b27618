package ai

import (
	"strings"
	"testing"
)

func TestParseAnalysisHandlesCodeBlock(t *testing.T) {
	raw := "Here is the assessment:\n```json\n{\"skills_found\": [\"Go\", \"Docker\"], \"skills_match_percent\": 75, \"experience_years\": 4, \"experience_match\": true, \"strengths\": [\"Solid backend background\"], \"weaknesses\": [], \"relevance_score\": 80, \"additional_insights\": \"Strong candidate\"}\n```\nLet me know if you need more."

	analysis := ParseAnalysis(raw)

	if analysis.SkillsMatchPercent != 75 {
		t.Fatalf("expected skills match 75, got %v", analysis.SkillsMatchPercent)
	}

	if !analysis.ExperienceMatch {
		t.Fatal("expected experience match to be true")
	}

	if analysis.RelevanceScore != 80 {
		t.Fatalf("expected relevance 80, got %v", analysis.RelevanceScore)
	}

	if len(analysis.SkillsFound) != 2 || analysis.SkillsFound[0] != "Go" {
		t.Fatalf("unexpected skills found: %v", analysis.SkillsFound)
	}

	if analysis.AdditionalInsights != "Strong candidate" {
		t.Fatalf("unexpected insights: %q", analysis.AdditionalInsights)
	}
}

func TestParseAnalysisHandlesBareJSON(t *testing.T) {
	raw := `{"skills_found": ["React"], "skills_match_percent": 50, "experience_years": 2, "experience_match": false, "strengths": [], "weaknesses": ["No cloud experience"], "relevance_score": 40, "additional_insights": ""}`

	analysis := ParseAnalysis(raw)

	if analysis.SkillsMatchPercent != 50 {
		t.Fatalf("expected skills match 50, got %v", analysis.SkillsMatchPercent)
	}

	if analysis.ExperienceMatch {
		t.Fatal("expected experience match to be false")
	}

	if len(analysis.Weaknesses) != 1 || analysis.Weaknesses[0] != "No cloud experience" {
		t.Fatalf("unexpected weaknesses: %v", analysis.Weaknesses)
	}
}

func TestParseAnalysisStripsNonASCII(t *testing.T) {
	raw := "```json\n{\"skills_found\": [], \"skills_match_percent\": 10 , \"experience_years\": 1, \"experience_match\": false, \"strengths\": [], \"weaknesses\": [], \"relevance_score\": 20, \"additional_insights\": \"ok\"}\n```"

	analysis := ParseAnalysis(raw)

	if analysis.SkillsMatchPercent != 10 {
		t.Fatalf("expected skills match 10, got %v", analysis.SkillsMatchPercent)
	}
}

func TestParseAnalysisFallsBackOnMalformedJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "plain prose", raw: "I could not assess this resume, sorry."},
		{name: "truncated object", raw: `{"skills_found": ["Go"`},
		{name: "empty response", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			analysis := ParseAnalysis(tt.raw)

			if analysis.SkillsMatchPercent != 0 {
				t.Fatalf("expected zero skills match, got %v", analysis.SkillsMatchPercent)
			}
			if analysis.RelevanceScore != 0 {
				t.Fatalf("expected zero relevance, got %v", analysis.RelevanceScore)
			}
			if analysis.ExperienceMatch {
				t.Fatal("expected experience match to be false")
			}
			if len(analysis.Weaknesses) != 1 || !strings.Contains(analysis.Weaknesses[0], "Unable to analyze") {
				t.Fatalf("expected the synthetic weakness, got %v", analysis.Weaknesses)
			}
		})
	}
}

func TestFallbackContents(t *testing.T) {
	fallback := Fallback()

	if len(fallback.SkillsFound) != 0 || len(fallback.Strengths) != 0 {
		t.Fatalf("expected empty skill and strength lists, got %v / %v", fallback.SkillsFound, fallback.Strengths)
	}

	if fallback.AdditionalInsights == "" {
		t.Fatal("expected an explanatory insights string")
	}
}
