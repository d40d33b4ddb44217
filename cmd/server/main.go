package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bidguide/internal/api"
	"github.com/dgallion1/bidguide/internal/config"
	"github.com/dgallion1/bidguide/internal/guide"
	"github.com/dgallion1/bidguide/internal/intake"
	"github.com/dgallion1/bidguide/internal/pipeline"
	"github.com/dgallion1/bidguide/internal/questions"
	"github.com/dgallion1/bidguide/internal/session"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	defaultQuestions, err := questions.LoadFile(cfg.QuestionsFile)
	if err != nil {
		log.Error("load questions", "path", cfg.QuestionsFile, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	completer, err := guide.NewCompleter(ctx, cfg)
	if err != nil {
		log.Error("init generator", "provider", cfg.GeneratorProvider, "error", err)
		os.Exit(1)
	}
	generator := guide.NewGenerator(completer, nil, log)

	// Initialize pipeline.
	sessions := session.NewStore(cfg.SessionTTL)
	orch := pipeline.NewOrchestrator(cfg, sessions, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(api.Deps{
		Sessions:         sessions,
		Orchestrator:     orch,
		Intake:           intake.New(intake.PDFExtractor{}, cfg.MaxUploadBytes, log),
		Generator:        generator,
		DefaultQuestions: defaultQuestions,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown. HTTP drains first; a handler still running past the
	// shutdown deadline gets ErrStopped from Submit and fails its wizard.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown", "error", err)
		}

		orch.Stop()

		if c, ok := completer.(interface{ Close() }); ok {
			c.Close()
		}
	}()

	log.Info("starting bidguide",
		"port", cfg.Port,
		"provider", cfg.GeneratorProvider,
		"model", generator.Model(),
		"questions", len(questions.Active(defaultQuestions)),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-stopped
}
