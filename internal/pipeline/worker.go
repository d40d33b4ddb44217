package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/bidguide/internal/session"
)

// Worker runs one session's guide generation at a time.
type Worker struct {
	log     *slog.Logger
	timeout time.Duration
}

func NewWorker(log *slog.Logger, timeout time.Duration) *Worker {
	return &Worker{log: log, timeout: timeout}
}

// Process generates the guide for sess under the per-call timeout. The
// outcome lands in the session's wizard state.
func (w *Worker) Process(ctx context.Context, sess *session.Session) {
	log := w.log.With("session_id", sess.ID)
	filename, hash := sess.Document()
	if len(hash) > 16 {
		hash = hash[:16]
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	err := sess.Engine.Generate(ctx)
	sess.Touch()
	if err != nil {
		log.Error("generation failed", "filename", filename, "content_hash", hash,
			"duration_ms", time.Since(start).Milliseconds(), "error", err)
		return
	}
	log.Info("generation complete", "filename", filename, "content_hash", hash,
		"duration_ms", time.Since(start).Milliseconds())
}
