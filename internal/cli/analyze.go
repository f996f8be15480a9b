package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Shimizu-Technology/exam-topics-api/internal/config"
	"github.com/Shimizu-Technology/exam-topics-api/internal/logging"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/gemini"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/pdf"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/topics"
)

// topicAnalyzer is the part of topics.Analyzer the command needs.
type topicAnalyzer interface {
	Analyze(ctx context.Context, path string) (string, error)
	AnalyzeMany(ctx context.Context, paths []string) (string, error)
}

// newAnalyzer builds the analyzer; tests replace it.
var newAnalyzer = defaultAnalyzer

var analyzeTimeout time.Duration

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.pdf>...",
	Short: "Print the top exam topics for one or more PDF papers",
	Long: `Extracts the text of every given PDF and prints one topic list for
all of them together. Papers are combined in the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "overall time limit for the analysis")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logging.NewWithOutput(cmd.ErrOrStderr(), level, "text")

	analyzer, err := newAnalyzer(log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	var result string
	if len(args) == 1 {
		result, err = analyzer.Analyze(ctx, args[0])
	} else {
		result, err = analyzer.AnalyzeMany(ctx, args)
	}
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	cmd.Println(result)
	return nil
}

func defaultAnalyzer(log *logrus.Logger) (topicAnalyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	generator := gemini.New(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	})
	if !generator.IsConfigured() {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	return topics.NewAnalyzer(pdf.NewExtractor(), generator,
		topics.WithLogger(log),
		topics.WithExtractConcurrency(cfg.ExtractConcurrency),
	), nil
}
