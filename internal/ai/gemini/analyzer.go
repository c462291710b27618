package gemini

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/avoronin/resume-screener/internal/ai"
	"github.com/avoronin/resume-screener/internal/logger"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Analyzer screens resume texts against job criteria through a Gemini model.
// It implements both ai.Analyzer and ai.Reporter.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var analysisPromptTemplate string

//go:embed report_prompt.md
var reportPromptTemplate string

const (
	defaultMaxLogLength = 200

	// maxResumeLength caps the resume text embedded in a prompt so the
	// request stays within the model's input limits.
	maxResumeLength = 30000
)

func NewAnalyzer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Analyzer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Analyze sends the screening prompt to Gemini and parses the structured reply.
// A transport failure is returned as an error; an unparsable reply degrades to
// the fallback analysis so the pipeline stays total.
func (a *Analyzer) Analyze(ctx context.Context, criteria *ai.Criteria, resumeText string) (*ai.Analysis, error) {
	if criteria == nil {
		return nil, fmt.Errorf("screening criteria are required")
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, fmt.Errorf("resume text must not be empty")
	}

	prompt := buildAnalysisPrompt(criteria, resumeText)

	a.logger.Debug("gemini analyze request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini analyze response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return ai.ParseAnalysis(raw), nil
}

// Report asks Gemini for a narrative assessment of a scored candidate.
func (a *Analyzer) Report(ctx context.Context, card *ai.ReportCard) (string, error) {
	if card == nil || card.Analysis == nil {
		return "", fmt.Errorf("report card with analysis is required")
	}

	prompt := buildReportPrompt(card)

	a.logger.Debug("gemini report request",
		zap.String("file", card.FileName),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	return a.generator.GenerateContent(ctx, prompt)
}

func buildAnalysisPrompt(criteria *ai.Criteria, resumeText string) string {
	prompt := strings.ReplaceAll(analysisPromptTemplate, "{{JOB_DESCRIPTION}}", criteria.JobDescription)
	prompt = strings.ReplaceAll(prompt, "{{REQUIRED_SKILLS}}", strings.Join(criteria.RequiredSkills, ", "))
	prompt = strings.ReplaceAll(prompt, "{{MINIMUM_EXPERIENCE_YEARS}}", strconv.Itoa(criteria.MinExperienceYears))
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", truncateResume(resumeText))
	return prompt
}

func buildReportPrompt(card *ai.ReportCard) string {
	analysis := card.Analysis

	qualified := "No"
	if card.Qualified {
		qualified = "Yes"
	}

	prompt := strings.ReplaceAll(reportPromptTemplate, "{{FILE_NAME}}", card.FileName)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS_FOUND}}", strings.Join(analysis.SkillsFound, ", "))
	prompt = strings.ReplaceAll(prompt, "{{SKILLS_MATCH_PERCENT}}", formatScore(analysis.SkillsMatchPercent))
	prompt = strings.ReplaceAll(prompt, "{{EXPERIENCE_YEARS}}", formatScore(analysis.ExperienceYears))
	prompt = strings.ReplaceAll(prompt, "{{STRENGTHS}}", strings.Join(analysis.Strengths, ", "))
	prompt = strings.ReplaceAll(prompt, "{{WEAKNESSES}}", strings.Join(analysis.Weaknesses, ", "))
	prompt = strings.ReplaceAll(prompt, "{{RELEVANCE_SCORE}}", formatScore(analysis.RelevanceScore))
	prompt = strings.ReplaceAll(prompt, "{{ADDITIONAL_INSIGHTS}}", analysis.AdditionalInsights)
	prompt = strings.ReplaceAll(prompt, "{{OVERALL_SCORE}}", formatScore(card.OverallScore))
	prompt = strings.ReplaceAll(prompt, "{{QUALIFIED}}", qualified)
	return prompt
}

func truncateResume(text string) string {
	runes := []rune(text)
	if len(runes) <= maxResumeLength {
		return text
	}
	return string(runes[:maxResumeLength])
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
