package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dgallion1/bidguide/internal/config"
	"github.com/dgallion1/bidguide/internal/guide"
	"github.com/dgallion1/bidguide/internal/intake"
	"github.com/dgallion1/bidguide/internal/questions"
	"github.com/dgallion1/bidguide/internal/tui"
	"github.com/dgallion1/bidguide/internal/wizard"
	"github.com/spf13/cobra"
)

var (
	questionsFile string
	logFile       string
	glamourStyle  string
)

var rootCmd = &cobra.Command{
	Use:   "bidguide-tui <announcement.pdf>",
	Short: "Plan a public procurement proposal from an announcement PDF",
	Long: `bidguide-tui reads a procurement announcement PDF, walks through a short
question list, and asks the configured LLM for a proposal planning guide.

The generator is configured from the environment exactly like the server
(GENERATOR_PROVIDER, GEMINI_API_KEY, ANTHROPIC_API_KEY, OPENAI_API_KEY, ...).`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&questionsFile, "questions", "", "YAML file with a questions: list (default: built-in list or QUESTIONS_FILE)")
	rootCmd.Flags().StringVar(&logFile, "log-file", filepath.Join(os.TempDir(), "bidguide-tui.log"), "where to write logs")
	rootCmd.Flags().StringVar(&glamourStyle, "style", "", "glamour style for the guide (dark, light, notty); auto-detected when empty")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]

	// The terminal belongs to the UI, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	log := slog.New(slog.NewJSONHandler(f, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if questionsFile == "" {
		questionsFile = cfg.QuestionsFile
	}
	initial, err := questions.LoadFile(questionsFile)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	completer, err := guide.NewCompleter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init generator: %w", err)
	}
	if c, ok := completer.(interface{ Close() }); ok {
		defer c.Close()
	}
	generator := guide.NewGenerator(completer, nil, log)

	model := tui.New(ctx, tui.Options{
		PDFPath:         pdfPath,
		Engine:          wizard.New(generator, log),
		Questions:       questions.NewStore(initial),
		Intake:          intake.New(intake.PDFExtractor{}, cfg.MaxUploadBytes, log),
		GenerateTimeout: cfg.GenerateTimeout,
		GlamourStyle:    glamourStyle,
		Log:             log,
	})

	log.Info("starting bidguide-tui", "pdf", pdfPath, "provider", cfg.GeneratorProvider, "model", generator.Model())
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
