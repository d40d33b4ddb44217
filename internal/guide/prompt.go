package guide

import (
	"strings"

	"github.com/dgallion1/bidguide/internal/qa"
)

const Preamble = `당신은 공공기관 출판물 입찰 제안서 작성을 돕는 전문 컨설턴트입니다.
아래 제공되는 '공고문' 내용과 사용자와의 '질의응답' 내용을 종합적으로 분석하여,
성공적인 입찰을 위한 체계적이고 전문적인 '기획 가이드'를 작성해 주세요.

결과물은 명확한 제목과 부제목을 사용하고, 핵심 내용은 글머리 기호를 활용하여 가독성 높게 구성해야 합니다.
분석 내용을 바탕으로 제안서에 포함되어야 할 핵심 전략과 실행 방안을 구체적으로 제시해 주세요.
출력 언어는 한국어입니다.`

// Transcript formats answers as "질문:"/"답변:" blocks separated by a
// blank line, in the given order.
func Transcript(answers []qa.Answer) string {
	blocks := make([]string, len(answers))
	for i, a := range answers {
		blocks[i] = "질문: " + a.Question + "\n답변: " + a.Answer
	}
	return strings.Join(blocks, "\n\n")
}

// BuildPrompt embeds the document text verbatim and the Q&A transcript
// after the fixed preamble.
func BuildPrompt(documentText string, answers []qa.Answer) string {
	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n\n---\n[공고문 내용]\n")
	sb.WriteString(documentText)
	sb.WriteString("\n---\n[질의응답 내용]\n")
	sb.WriteString(Transcript(answers))
	sb.WriteString("\n---\n\n[기획 가이드]\n")
	return sb.String()
}
