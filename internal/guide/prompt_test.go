package guide

import (
	"strings"
	"testing"

	"github.com/dgallion1/bidguide/internal/qa"
)

func TestTranscript_Format(t *testing.T) {
	got := Transcript([]qa.Answer{
		{Question: "목적은?", Answer: "신규 서비스"},
		{Question: "예산은?", Answer: "1억원"},
	})
	want := "질문: 목적은?\n답변: 신규 서비스\n\n질문: 예산은?\n답변: 1억원"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTranscript_Empty(t *testing.T) {
	if got := Transcript(nil); got != "" {
		t.Errorf("expected empty transcript, got %q", got)
	}
}

func TestBuildPrompt_EmbedsDocumentAndPairsInOrder(t *testing.T) {
	doc := "공고문내용\n두번째 줄\n"
	prompt := BuildPrompt(doc, []qa.Answer{
		{Question: "목적은?", Answer: "신규 서비스"},
		{Question: "예산은?", Answer: "1억원"},
	})

	if !strings.HasPrefix(prompt, Preamble) {
		t.Error("expected prompt to start with the preamble")
	}
	if !strings.Contains(prompt, "[공고문 내용]\n"+doc) {
		t.Error("expected document text verbatim after its header")
	}
	first := strings.Index(prompt, "질문: 목적은?\n답변: 신규 서비스")
	second := strings.Index(prompt, "질문: 예산은?\n답변: 1억원")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected both pairs in submission order, got indexes %d and %d", first, second)
	}
	if strings.Index(prompt, "[공고문 내용]") > strings.Index(prompt, "[질의응답 내용]") {
		t.Error("expected the document section before the Q&A section")
	}
	if !strings.HasSuffix(prompt, "[기획 가이드]\n") {
		t.Error("expected prompt to end with the guide header")
	}
}
