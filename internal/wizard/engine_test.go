package wizard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/bidguide/internal/guide"
	"github.com/dgallion1/bidguide/internal/intake"
	"github.com/dgallion1/bidguide/internal/qa"
)

type call struct {
	document string
	answers  []qa.Answer
}

type fakeGenerator struct {
	mu    sync.Mutex
	guide string
	err   error
	calls []call
}

func (f *fakeGenerator) Generate(_ context.Context, documentText string, answers []qa.Answer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{document: documentText, answers: answers})
	return f.guide, f.err
}

func newEngine(gen Generator) *Engine {
	return New(gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestEngine_TwoAnswersThenDone(t *testing.T) {
	gen := &fakeGenerator{guide: "# 기획 가이드\n본문"}
	e := newEngine(gen)

	step, err := e.Start([]string{"목적은?", "예산은?"}, "공고문내용")
	require.NoError(t, err)
	assert.Equal(t, StepAsked, step)
	assert.Equal(t, []qa.Message{{Role: qa.RoleModel, Text: "목적은?"}}, e.Snapshot().Transcript)
	assert.False(t, e.IsLastQuestion())

	step, err = e.Submit("신규 서비스")
	require.NoError(t, err)
	assert.Equal(t, StepAsked, step)
	assert.True(t, e.IsLastQuestion())

	step, err = e.Submit("1억원")
	require.NoError(t, err)
	assert.Equal(t, StepGenerate, step)
	assert.Equal(t, PhaseGenerating, e.State().Phase())

	require.NoError(t, e.Generate(context.Background()))

	wantAnswers := []qa.Answer{
		{Question: "목적은?", Answer: "신규 서비스"},
		{Question: "예산은?", Answer: "1억원"},
	}
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "공고문내용", gen.calls[0].document)
	assert.Equal(t, wantAnswers, gen.calls[0].answers)

	snap := e.Snapshot()
	assert.Equal(t, PhaseDone, snap.Phase)
	assert.Equal(t, "# 기획 가이드\n본문", snap.Guide)
	assert.Equal(t, wantAnswers, snap.Answers)
	assert.Equal(t, Done{Guide: "# 기획 가이드\n본문"}, e.State())
	assert.Equal(t, []qa.Message{
		{Role: qa.RoleModel, Text: "목적은?"},
		{Role: qa.RoleUser, Text: "신규 서비스"},
		{Role: qa.RoleModel, Text: "예산은?"},
		{Role: qa.RoleUser, Text: "1억원"},
	}, snap.Transcript)
}

func TestGenerate_PromptCarriesPairsInOrder(t *testing.T) {
	var prompts []string
	completer := completerFunc(func(p string) (string, error) {
		prompts = append(prompts, p)
		return "가이드", nil
	})
	gen := guide.NewGenerator(completer, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	e := newEngine(gen)

	_, err := e.Start([]string{"목적은?", "예산은?"}, "공고문내용")
	require.NoError(t, err)
	_, err = e.Submit("신규 서비스")
	require.NoError(t, err)
	_, err = e.Submit("1억원")
	require.NoError(t, err)
	require.NoError(t, e.Generate(context.Background()))

	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "공고문내용")
	assert.Contains(t, prompts[0], "질문: 목적은?\n답변: 신규 서비스\n\n질문: 예산은?\n답변: 1억원")
	assert.Equal(t, "가이드", e.Snapshot().Guide)
}

type completerFunc func(string) (string, error)

func (f completerFunc) Complete(_ context.Context, p string) (string, error) { return f(p) }
func (f completerFunc) Model() string                                        { return "func" }

func TestReject_WrongTypeFails(t *testing.T) {
	e := newEngine(&fakeGenerator{})
	require.NoError(t, e.Reject(&intake.ValidationError{ContentType: "text/plain"}))

	snap := e.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, intake.MsgWrongType, snap.Error)
}

func TestReject_ExtractionErrorFails(t *testing.T) {
	gen := &fakeGenerator{}
	e := newEngine(gen)
	require.NoError(t, e.Reject(&intake.ExtractionError{Message: intake.MsgParseFailed, Page: 2, Err: errors.New("bad")}))

	snap := e.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, intake.MsgParseFailed, snap.Error)
	assert.Empty(t, gen.calls)
	assert.ErrorIs(t, e.Generate(context.Background()), ErrInvalidState)
}

func TestStart_AllBlankQuestionsGoStraightToGenerating(t *testing.T) {
	gen := &fakeGenerator{guide: "g"}
	e := newEngine(gen)

	step, err := e.Start([]string{"", "  "}, "공고문내용")
	require.NoError(t, err)
	assert.Equal(t, StepGenerate, step)
	assert.Equal(t, PhaseGenerating, e.State().Phase())
	assert.Empty(t, e.Snapshot().Transcript)

	require.NoError(t, e.Generate(context.Background()))
	require.Len(t, gen.calls, 1)
	assert.Empty(t, gen.calls[0].answers)
	assert.Equal(t, PhaseDone, e.State().Phase())
}

func TestGenerate_FailureKeepsTranscript(t *testing.T) {
	cause := errors.New("backend down")
	gen := &fakeGenerator{err: &guide.GenerationError{Err: cause}}
	e := newEngine(gen)

	_, err := e.Start([]string{"목적은?", "예산은?"}, "공고문내용")
	require.NoError(t, err)
	_, err = e.Submit("신규 서비스")
	require.NoError(t, err)
	_, err = e.Submit("1억원")
	require.NoError(t, err)

	err = e.Generate(context.Background())
	assert.ErrorIs(t, err, cause)

	snap := e.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, guide.MsgGenerationFailed, snap.Error)
	assert.Len(t, snap.Answers, 2)
	assert.Len(t, snap.Transcript, 4)

	require.NoError(t, e.Restart())
	snap = e.Snapshot()
	assert.Equal(t, PhaseInitial, snap.Phase)
	assert.Empty(t, snap.Answers)
	assert.Empty(t, snap.Transcript)
	assert.Empty(t, snap.Error)
}

func TestSubmit_TranscriptGrowsTwoPerAnswer(t *testing.T) {
	qs := []string{"q1", "q2", "q3", "q4"}
	e := newEngine(&fakeGenerator{guide: "g"})
	_, err := e.Start(qs, "doc")
	require.NoError(t, err)

	for n := 1; n < len(qs); n++ {
		_, err := e.Submit("a")
		require.NoError(t, err)
		snap := e.Snapshot()
		assert.Len(t, snap.Answers, n)
		assert.Equal(t, n, snap.QuestionIndex, "len(answers) == index")
		assert.Len(t, snap.Transcript, 2*n+1)
		assert.Equal(t, qa.Message{Role: qa.RoleModel, Text: qs[n]}, snap.Transcript[2*n])
	}

	step, err := e.Submit("last")
	require.NoError(t, err)
	assert.Equal(t, StepGenerate, step)
	assert.Len(t, e.Snapshot().Transcript, 2*len(qs))
}

func TestSubmit_BlankAnswerChangesNothing(t *testing.T) {
	e := newEngine(&fakeGenerator{})
	_, err := e.Start([]string{"q1", "q2"}, "doc")
	require.NoError(t, err)
	before := e.Snapshot()

	for _, blank := range []string{"", "   ", "\t\n"} {
		_, err := e.Submit(blank)
		assert.ErrorIs(t, err, ErrBlankAnswer)
	}
	assert.Equal(t, before, e.Snapshot())
}

func TestSubmit_TrimsAnswer(t *testing.T) {
	e := newEngine(&fakeGenerator{})
	_, err := e.Start([]string{"q1", "q2"}, "doc")
	require.NoError(t, err)
	_, err = e.Submit("  신규 서비스 \n")
	require.NoError(t, err)
	assert.Equal(t, "신규 서비스", e.Snapshot().Answers[0].Answer)
}

func TestStart_FiltersBlankQuestions(t *testing.T) {
	e := newEngine(&fakeGenerator{})
	_, err := e.Start([]string{"", "q1", " ", "q2"}, "doc")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1", "q2"}, e.Snapshot().Questions)
}

func TestGenerate_MissingDocumentIsPrecondition(t *testing.T) {
	gen := &fakeGenerator{guide: "g"}
	e := newEngine(gen)
	_, err := e.Start(nil, "")
	require.NoError(t, err)

	err = e.Generate(context.Background())
	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Empty(t, gen.calls)

	snap := e.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, MsgDocumentMissing, snap.Error)
}

func TestInvalidEvents(t *testing.T) {
	e := newEngine(&fakeGenerator{guide: "g"})

	_, err := e.Submit("a")
	assert.ErrorIs(t, err, ErrInvalidState, "submit in initial")
	assert.ErrorIs(t, e.Restart(), ErrInvalidState, "restart in initial")
	assert.ErrorIs(t, e.Generate(context.Background()), ErrInvalidState, "generate in initial")

	_, err = e.Start([]string{"q"}, "doc")
	require.NoError(t, err)
	_, err = e.Start([]string{"q"}, "doc")
	assert.ErrorIs(t, err, ErrInvalidState, "start twice")
	assert.ErrorIs(t, e.Reject(errors.New("x")), ErrInvalidState, "reject while collecting")
	assert.ErrorIs(t, e.Restart(), ErrInvalidState, "restart while collecting")

	_, err = e.Submit("a")
	require.NoError(t, err)
	_, err = e.Submit("b")
	assert.ErrorIs(t, err, ErrInvalidState, "submit while generating")
	assert.ErrorIs(t, e.Restart(), ErrInvalidState, "restart while generating")
}

func TestGenerate_SecondConcurrentCallRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	gen := generatorFunc(func() (string, error) {
		close(entered)
		<-release
		return "g", nil
	})
	e := newEngine(gen)
	_, err := e.Start(nil, "doc")
	require.NoError(t, err)

	done := make(chan error)
	go func() { done <- e.Generate(context.Background()) }()
	<-entered
	assert.ErrorIs(t, e.Generate(context.Background()), ErrGenerationRunning)
	assert.Equal(t, PhaseGenerating, e.Snapshot().Phase)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, PhaseDone, e.State().Phase())
}

type generatorFunc func() (string, error)

func (f generatorFunc) Generate(context.Context, string, []qa.Answer) (string, error) { return f() }

func TestRestart_ResetIsIdempotentAcrossRuns(t *testing.T) {
	gen := &fakeGenerator{guide: "g"}
	e := newEngine(gen)

	run := func() Snapshot {
		_, err := e.Start([]string{"q1", "q2"}, "doc")
		require.NoError(t, err)
		_, err = e.Submit("a1")
		require.NoError(t, err)
		_, err = e.Submit("a2")
		require.NoError(t, err)
		require.NoError(t, e.Generate(context.Background()))
		return e.Snapshot()
	}

	first := run()
	require.NoError(t, e.Restart())
	assert.Equal(t, Snapshot{
		Phase:      PhaseInitial,
		Questions:  []string{},
		Transcript: []qa.Message{},
		Answers:    []qa.Answer{},
	}, e.Snapshot())
	second := run()
	assert.Equal(t, first, second)
}

func TestRestart_FromFailedIntake(t *testing.T) {
	e := newEngine(&fakeGenerator{})
	require.NoError(t, e.Reject(errors.New("opaque")))
	assert.Equal(t, MsgUnknown, e.Snapshot().Error)
	require.NoError(t, e.Restart())
	assert.Equal(t, Initial{}, e.State())
}

func TestConcurrentSubmitsKeepAnswersAndIndexInStep(t *testing.T) {
	qs := make([]string, 50)
	for i := range qs {
		qs[i] = "q"
	}
	e := newEngine(&fakeGenerator{guide: "g"})
	_, err := e.Start(qs, "doc")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 80 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Submit("a")
		}()
	}
	wg.Wait()

	snap := e.Snapshot()
	assert.Equal(t, PhaseGenerating, snap.Phase)
	assert.Len(t, snap.Answers, len(qs))
	assert.Len(t, snap.Transcript, 2*len(qs))
}

type busyError struct{}

func (busyError) Error() string       { return "queue full" }
func (busyError) UserMessage() string { return "잠시 후 다시 시도해 주세요." }

func TestAbandon_OnlyFromIdleGenerating(t *testing.T) {
	e := newEngine(&fakeGenerator{})
	assert.ErrorIs(t, e.Abandon(busyError{}), ErrInvalidState)

	_, err := e.Start([]string{"q"}, "doc")
	require.NoError(t, err)
	assert.ErrorIs(t, e.Abandon(busyError{}), ErrInvalidState)

	_, err = e.Submit("a")
	require.NoError(t, err)
	require.NoError(t, e.Abandon(busyError{}))

	snap := e.Snapshot()
	assert.Equal(t, PhaseFailed, snap.Phase)
	assert.Equal(t, "잠시 후 다시 시도해 주세요.", snap.Error)
	assert.Len(t, snap.Answers, 1)
}
