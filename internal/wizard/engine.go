// Package wizard implements the conversation state machine that takes a
// user from document upload through the question sequence to a
// generated guide.
package wizard

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dgallion1/bidguide/internal/qa"
	"github.com/dgallion1/bidguide/internal/questions"
)

// Generator produces the guide from the document text and answers.
type Generator interface {
	Generate(ctx context.Context, documentText string, answers []qa.Answer) (string, error)
}

// Engine owns one wizard run at a time. All methods are safe for
// concurrent use; each event is applied atomically.
type Engine struct {
	mu  sync.Mutex
	gen Generator
	log *slog.Logger

	state      State
	document   string
	questions  []string
	transcript []qa.Message
	answers    []qa.Answer
	index      int

	generating bool // a Generate call is in flight
}

func New(gen Generator, log *slog.Logger) *Engine {
	return &Engine{gen: gen, log: log, state: Initial{}}
}

// Start moves Initial to Collecting with the document text and a
// snapshot of the active questions. With no active questions the wizard
// goes straight to Generating and Start returns StepGenerate.
func (e *Engine) Start(activeQuestions []string, documentText string) (Step, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.state.(Initial); !ok {
		return StepAsked, invalid("start", e.state)
	}

	e.document = documentText
	e.questions = questions.Active(activeQuestions)
	e.transcript = nil
	e.answers = nil
	e.index = 0
	e.state = Collecting{}
	e.log.Info("wizard collecting", "questions", len(e.questions), "document_chars", len(documentText))

	if len(e.questions) == 0 {
		e.enterGeneratingLocked()
		return StepGenerate, nil
	}
	e.transcript = append(e.transcript, qa.Message{Role: qa.RoleModel, Text: e.questions[0]})
	return StepAsked, nil
}

// Reject records an ingestion failure and moves Initial to Failed.
func (e *Engine) Reject(cause error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.state.(Initial); !ok {
		return invalid("reject", e.state)
	}
	e.state = Failed{Message: UserMessage(cause)}
	e.log.Warn("wizard failed at intake", "error", cause)
	return nil
}

// Submit records an answer to the current question. The answer record,
// the user message, the index and the next question are updated as one
// step, so len(answers) == index holds between calls.
func (e *Engine) Submit(answer string) (Step, error) {
	answer = strings.TrimSpace(answer)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.state.(Collecting); !ok {
		return StepAsked, invalid("submit", e.state)
	}
	if answer == "" {
		return StepAsked, ErrBlankAnswer
	}

	e.answers = append(e.answers, qa.Answer{Question: e.questions[e.index], Answer: answer})
	e.transcript = append(e.transcript, qa.Message{Role: qa.RoleUser, Text: answer})
	e.index++

	if e.index < len(e.questions) {
		e.transcript = append(e.transcript, qa.Message{Role: qa.RoleModel, Text: e.questions[e.index]})
		return StepAsked, nil
	}
	e.enterGeneratingLocked()
	return StepGenerate, nil
}

func (e *Engine) enterGeneratingLocked() {
	e.state = Generating{}
	e.log.Info("wizard generating", "answers", len(e.answers))
}

// Generate runs the guide generator for a wizard in Generating and
// applies the outcome: Done with the guide, or Failed with a user
// message. The generator is called without holding the lock. The
// returned error is the failure cause, already reflected in the state.
func (e *Engine) Generate(ctx context.Context) error {
	e.mu.Lock()
	if _, ok := e.state.(Generating); !ok {
		s := e.state
		e.mu.Unlock()
		return invalid("generate", s)
	}
	if e.generating {
		e.mu.Unlock()
		return ErrGenerationRunning
	}
	e.generating = true
	document := e.document
	answers := make([]qa.Answer, len(e.answers))
	copy(answers, e.answers)
	e.mu.Unlock()

	var (
		guide string
		err   error
	)
	if document == "" {
		err = &PreconditionError{Reason: "document text is not available"}
	} else {
		guide, err = e.gen.Generate(ctx, document, answers)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.generating = false
	if err != nil {
		e.state = Failed{Message: UserMessage(err)}
		e.log.Error("wizard failed at generation", "error", err)
		return err
	}
	e.state = Done{Guide: guide}
	e.log.Info("wizard done", "guide_chars", len(guide))
	return nil
}

// Abandon fails a wizard whose generation could not be started.
func (e *Engine) Abandon(cause error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.state.(Generating); !ok || e.generating {
		return invalid("abandon", e.state)
	}
	e.state = Failed{Message: UserMessage(cause)}
	e.log.Error("wizard generation abandoned", "error", cause)
	return nil
}

// Restart clears the run from Done or Failed and returns to Initial.
func (e *Engine) Restart() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state.(type) {
	case Done, Failed:
	default:
		return invalid("restart", e.state)
	}
	e.state = Initial{}
	e.document = ""
	e.questions = nil
	e.transcript = nil
	e.answers = nil
	e.index = 0
	e.log.Info("wizard restarted")
	return nil
}

// State returns the current state variant.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsLastQuestion reports whether the question being asked is the final one.
func (e *Engine) IsLastQuestion() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isLastLocked()
}

func (e *Engine) isLastLocked() bool {
	_, collecting := e.state.(Collecting)
	return collecting && e.index == len(e.questions)-1
}

// Snapshot is a read-only copy of the wizard.
type Snapshot struct {
	Phase          Phase        `json:"state"`
	Questions      []string     `json:"questions"`
	Transcript     []qa.Message `json:"transcript"`
	Answers        []qa.Answer  `json:"answers"`
	QuestionIndex  int          `json:"question_index"`
	IsLastQuestion bool         `json:"is_last_question"`
	Guide          string       `json:"guide,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// Snapshot returns a copy of everything readable in the current run.
// Transcript and answers survive a failed generation until Restart.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Phase:          e.state.Phase(),
		Questions:      append([]string{}, e.questions...),
		Transcript:     append([]qa.Message{}, e.transcript...),
		Answers:        append([]qa.Answer{}, e.answers...),
		QuestionIndex:  e.index,
		IsLastQuestion: e.isLastLocked(),
	}
	switch s := e.state.(type) {
	case Done:
		snap.Guide = s.Guide
	case Failed:
		snap.Error = s.Message
	}
	return snap
}
