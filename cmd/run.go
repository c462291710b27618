package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/avoronin/resume-screener/internal/ai"
	"github.com/avoronin/resume-screener/internal/ai/gemini"
	"github.com/avoronin/resume-screener/internal/logger"
	"github.com/avoronin/resume-screener/internal/screener"
	"github.com/avoronin/resume-screener/internal/secrets"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptExport     = "Export results and candidate reports"
	PromptExportOnly = "Export results without candidate reports"
	PromptDumpToFile = "Dump results to file"
	PromptNo         = "No"

	apiKeyEnv = "GEMINI_API_KEY"

	defaultOutput  = "resume_screening_results.csv"
	defaultTop     = 5
	defaultReports = 3
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptExport, PromptExportOnly, PromptDumpToFile, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen a directory of resumes against the configured job",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "export results and reports without asking for confirmation")
	runCmd.Flags().StringP("resumes-dir", "r", "", "directory with resume files to screen")
	runCmd.Flags().StringP("output", "o", "", "path for the csv results file")

	viper.BindPFlag("resumes-dir", runCmd.Flags().Lookup("resumes-dir"))
	viper.BindPFlag("output", runCmd.Flags().Lookup("output"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	// Best-effort: the api key may live in a .env file next to the config.
	_ = godotenv.Load()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Job == nil || strings.TrimSpace(config.Job.Description) == "" {
		logger.Fatal("job description is required under job.description to screen resumes")
	}

	resumesDir := strings.TrimSpace(config.ResumesDir)
	if resumesDir == "" {
		logger.Fatal("resumes directory is required under resumes-dir")
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set the GEMINI_API_KEY environment variable or the ai.gemini.api-key-file key in the configuration file"),
		)
	}

	s, err := newScreener(ctx, config, apiKey, logger)
	if err != nil {
		logger.Fatal("building the screener", zap.Error(err))
	}

	logger.Info("starting the screening",
		zap.String("dir", resumesDir),
		zap.Strings("required_skills", config.Job.RequiredSkills),
		zap.Int("minimum_experience_years", config.Job.MinimumExperienceYears),
	)

	processed, err := s.Screener.ProcessDirectory(ctx, resumesDir)
	if err != nil {
		logger.Fatal("processing resumes directory", zap.Error(err))
	}

	if s.Screener.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no resume files were successfully processed"))
		return
	}

	logger.Info("successfully processed resumes", zap.Int("count", processed))

	printTopCandidates(s.Screener, topCount(config), logger)

	action := PromptExport
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(ctx, action, s, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// screenerDeps bundles the screener with the reporter used for narrative reports.
type screenerDeps struct {
	Screener *screener.Screener
	Reporter ai.Reporter
}

func newScreener(ctx context.Context, config *Config, apiKey string, log *zap.Logger) (*screenerDeps, error) {
	if config.AI != nil && config.AI.Provider != "" {
		provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
		if provider != "gemini" {
			return nil, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
		}
	}

	model := ""
	maxLogLength := 0
	if config.AI != nil && config.AI.Gemini != nil {
		model = config.AI.Gemini.Model
		maxLogLength = config.AI.Gemini.MaxLogLength
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, model)
	if err != nil {
		return nil, fmt.Errorf("building gemini generator: %w", err)
	}

	analyzer := gemini.NewAnalyzer(generator, maxLogLength,
		logger.WithCommonFields(log, "gemini", generator.Model()))

	criteria := &ai.Criteria{
		JobDescription:     config.Job.Description,
		RequiredSkills:     config.Job.RequiredSkills,
		MinExperienceYears: config.Job.MinimumExperienceYears,
	}

	return &screenerDeps{
		Screener: screener.New(criteria, analyzer, log),
		Reporter: analyzer,
	}, nil
}

func resolveAPIKey(config *Config) (string, error) {
	src := secrets.Source{
		Name:  "gemini api key",
		Value: os.Getenv(apiKeyEnv),
	}

	if config.AI != nil && config.AI.Gemini != nil {
		src.File = strings.TrimSpace(config.AI.Gemini.APIKeyFile)
	}

	return secrets.Load(src)
}

func printTopCandidates(s *screener.Screener, n int, logger *zap.Logger) {
	logger.Info("top candidates", zap.Int("count", len(s.TopCandidates(n))))

	for i, result := range s.TopCandidates(n) {
		logger.Info("candidate",
			zap.Int("rank", i+1),
			zap.String("file", result.FileName),
			zap.Float64("overall_score", result.OverallScore),
			zap.Float64("experience_years", result.Analysis.ExperienceYears),
			zap.Strings("skills_found", result.Analysis.SkillsFound),
			zap.Strings("strengths", result.Analysis.Strengths),
			zap.Bool("qualified", result.Qualified),
		)
	}
}

func handleAction(ctx context.Context, action string, s *screenerDeps, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptExport:
		written, err := s.Screener.WriteReports(ctx, s.Reporter, reportCount(config), "")
		if err != nil {
			return fmt.Errorf("writing candidate reports: %w", err)
		}
		logger.Info("candidate reports written", zap.Strings("files", written))
		return export(s.Screener, config, logger)
	case PromptExportOnly:
		return export(s.Screener, config, logger)
	case PromptDumpToFile:
		filename, err := s.Screener.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping results to file", zap.String("filename", filename))
		return nil
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func export(s *screener.Screener, config *Config, logger *zap.Logger) error {
	output := strings.TrimSpace(config.Output)
	if output == "" {
		output = defaultOutput
	}

	rows, err := s.ExportCSV(output)
	if err != nil {
		return fmt.Errorf("exporting results: %w", err)
	}

	logger.Info("results exported", zap.String("output", output), zap.Int("rows", len(rows)-1))
	return errExit
}

func topCount(config *Config) int {
	if config.Top > 0 {
		return config.Top
	}
	return defaultTop
}

func reportCount(config *Config) int {
	if config.Reports > 0 {
		return config.Reports
	}
	return defaultReports
}
