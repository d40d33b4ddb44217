// Package guide turns a document and its Q&A transcript into a
// proposal-planning guide through a text-generation backend.
package guide

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/bidguide/internal/qa"
)

// Completer sends one prompt to a model and returns its text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Generator formats the guide request and records call latency.
type Generator struct {
	completer Completer
	Stats     *LLMStats
	log       *slog.Logger
}

func NewGenerator(c Completer, stats *LLMStats, log *slog.Logger) *Generator {
	if stats == nil {
		stats = NewLLMStats(time.Hour)
	}
	return &Generator{completer: c, Stats: stats, log: log}
}

// Model names the backend model in use.
func (g *Generator) Model() string { return g.completer.Model() }

// Generate sends exactly one request and returns the response verbatim.
// Failures are returned as *GenerationError.
func (g *Generator) Generate(ctx context.Context, documentText string, answers []qa.Answer) (string, error) {
	prompt := BuildPrompt(documentText, answers)

	start := time.Now()
	text, err := g.completer.Complete(ctx, prompt)
	elapsed := time.Since(start).Milliseconds()
	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	g.Stats.Record(elapsed, err == nil)

	if err != nil {
		g.log.Error("guide generation failed", "model", g.completer.Model(), "duration_ms", elapsed, "error", err)
		return "", &GenerationError{Err: err}
	}
	g.log.Info("guide generated", "model", g.completer.Model(), "duration_ms", elapsed,
		"prompt_chars", len(prompt), "prompt_tokens_est", EstimateTokens(prompt), "answers", len(answers), "guide_chars", len(text))
	return text, nil
}
