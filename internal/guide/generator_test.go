package guide

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/bidguide/internal/qa"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerator_ReturnsReplyVerbatim(t *testing.T) {
	reply := "# 기획 가이드\n\n- 전략 1\n  \n"
	fc := &fakeCompleter{reply: reply}
	g := NewGenerator(fc, nil, discardLogger())

	answers := []qa.Answer{{Question: "목적은?", Answer: "신규 서비스"}}
	got, err := g.Generate(context.Background(), "공고문내용", answers)

	require.NoError(t, err)
	assert.Equal(t, reply, got)
	require.Len(t, fc.prompts, 1, "exactly one request per generation")
	assert.Equal(t, BuildPrompt("공고문내용", answers), fc.prompts[0])
	assert.Equal(t, "fake-model", g.Model())
}

func TestGenerator_FailureIsGenerationError(t *testing.T) {
	cause := errors.New("quota exceeded")
	fc := &fakeCompleter{err: cause}
	g := NewGenerator(fc, NewLLMStats(time.Hour), discardLogger())

	_, err := g.Generate(context.Background(), "doc", nil)

	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, MsgGenerationFailed, ge.UserMessage())
	assert.Len(t, fc.prompts, 1, "no retry after a failure")

	snap := g.Stats.Snapshot()
	assert.Equal(t, 1, snap.Count)
	assert.Equal(t, 1, snap.Failures)
}

func TestGenerator_EmptyReplyFails(t *testing.T) {
	g := NewGenerator(&fakeCompleter{}, nil, discardLogger())
	_, err := g.Generate(context.Background(), "doc", nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 1, g.Stats.Snapshot().Failures)
}
