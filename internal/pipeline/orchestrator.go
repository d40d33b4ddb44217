package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/bidguide/internal/config"
	"github.com/dgallion1/bidguide/internal/session"
)

// MsgBusy is shown when a generation cannot be queued.
const MsgBusy = "요청이 많아 기획 가이드 생성을 시작하지 못했습니다. 잠시 후 다시 시도해 주세요."

// QueueFullError is returned by Submit when every slot is taken.
type QueueFullError struct {
	Size int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("generation queue is full (%d)", e.Size)
}

func (e *QueueFullError) UserMessage() string { return MsgBusy }

// StoppedError is returned by Submit once Stop has begun.
type StoppedError struct{}

func (*StoppedError) Error() string { return "generation workers are stopped" }

func (*StoppedError) UserMessage() string { return MsgBusy }

// ErrStopped is the error Submit returns after Stop.
var ErrStopped error = &StoppedError{}

// Orchestrator runs guide generation for sessions on a bounded worker
// pool and evicts idle sessions.
type Orchestrator struct {
	sessions *session.Store
	queue    chan *session.Session
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex // guards stopped and the close of queue
	stopped bool
}

func NewOrchestrator(cfg config.Config, sessions *session.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		queue:    make(chan *session.Session, cfg.MaxQueueSize),
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines and the session cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.log, o.cfg.GenerateTimeout)
			for {
				select {
				case <-workerCtx.Done():
					return
				case sess, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, sess)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval(o.cfg.SessionTTL))
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.sessions.Cleanup(); n > 0 {
					o.log.Info("evicted idle sessions", "count", n, "remaining", o.sessions.Len())
				}
			}
		}
	}()
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if d := ttl / 4; d > 0 && d < 5*time.Minute {
		return d
	}
	return 5 * time.Minute
}

// Stop cancels the workers and waits for them to exit. Submit calls
// racing with or following Stop fail the wizard with ErrStopped.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a session whose wizard is in Generating. When the queue
// is full, or Stop has run, the wizard is failed with MsgBusy and the
// error is returned.
func (o *Orchestrator) Submit(sess *session.Session) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.stopped {
		return o.abandon(sess, ErrStopped)
	}
	select {
	case o.queue <- sess:
		return nil
	default:
		return o.abandon(sess, &QueueFullError{Size: o.cfg.MaxQueueSize})
	}
}

func (o *Orchestrator) abandon(sess *session.Session, err error) error {
	if abandonErr := sess.Engine.Abandon(err); abandonErr != nil {
		o.log.Warn("abandon failed", "session_id", sess.ID, "error", abandonErr)
	}
	return err
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
