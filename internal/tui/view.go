package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/bidguide/internal/qa"
	"github.com/dgallion1/bidguide/internal/wizard"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
)

func (m Model) View() string {
	if m.editor != nil {
		return m.editorView()
	}

	switch s := m.opts.Engine.State().(type) {
	case wizard.Initial:
		if m.ingesting {
			return m.waitView("공고문 분석 중...", m.opts.PDFPath)
		}
		return m.questionsView()
	case wizard.Collecting:
		return m.chatView()
	case wizard.Generating:
		return m.waitView("기획 가이드 생성 중...", "공고문과 답변을 분석하여 최적의 제안서를 만들고 있습니다.")
	case wizard.Done:
		return m.resultView()
	case wizard.Failed:
		return m.errorView(s.Message)
	}
	return ""
}

func (m Model) questionsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("2단계: 질의응답 준비") + "\n")
	b.WriteString(mutedStyle.Render("아래 질문에 답변하여 기획 가이드를 구체화합니다.") + "\n\n")

	active := m.opts.Questions.ActiveQuestions()
	if len(active) == 0 {
		b.WriteString(mutedStyle.Render("질문이 없습니다. 바로 기획 가이드를 생성합니다.") + "\n")
	}
	for i, q := range active {
		fmt.Fprintf(&b, "질문 %d: %s\n", i+1, q)
	}
	b.WriteString("\n" + mutedStyle.Render("[enter] 시작  [e] 질문 수정  [q] 종료"))
	return b.String()
}

func (m Model) editorView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("질문 목록 수정") + "\n")
	b.WriteString(mutedStyle.Render("J/K로 질문 순서를 변경할 수 있습니다.") + "\n\n")

	for i, row := range m.editor.Rows() {
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		text := row.Text
		if i == m.cursor && m.editing {
			text = m.editInput.View()
		} else if strings.TrimSpace(text) == "" {
			text = mutedStyle.Render(fmt.Sprintf("질문 %d", i+1))
		}
		fmt.Fprintf(&b, "%s%d. %s\n", marker, i+1, text)
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(mutedStyle.Render("[enter] 확인  [esc] 취소"))
	} else {
		b.WriteString(mutedStyle.Render("[a] 질문 추가  [enter] 수정  [d] 삭제  [ctrl+s] 저장  [esc] 닫기"))
	}
	return b.String()
}

func (m Model) chatView() string {
	snap := m.opts.Engine.Snapshot()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n",
		titleStyle.Render("공공기관 입찰 제안서 기획 챗봇"),
		mutedStyle.Render(fmt.Sprintf("(%d/%d)", snap.QuestionIndex+1, len(snap.Questions))),
	)
	for _, msg := range snap.Transcript {
		b.WriteString(renderMessage(msg) + "\n")
	}
	b.WriteString("\n" + m.input.View() + "\n")

	action := "[enter] 전송"
	if snap.IsLastQuestion {
		action = "[enter] 결과 생성"
	}
	b.WriteString(mutedStyle.Render(action + "  [esc] 종료"))
	return b.String()
}

func renderMessage(msg qa.Message) string {
	if msg.Role == qa.RoleModel {
		return botStyle.Render("봇:") + " " + msg.Text
	}
	return userStyle.Render("나:") + " " + msg.Text
}

func (m Model) waitView(title, detail string) string {
	return fmt.Sprintf("\n  %s %s\n\n  %s\n", m.spinner.View(), titleStyle.Render(title), mutedStyle.Render(detail))
}

func (m Model) resultView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("생성된 기획 가이드") + "\n")
	b.WriteString(m.result.View() + "\n")
	help := "[↑/↓] 스크롤  [s] .md 저장  [w] .docx 저장  [r] 새로 시작하기  [q] 종료"
	if m.status != "" {
		help = m.status + "  " + help
	}
	b.WriteString(mutedStyle.Render(help))
	return b.String()
}

func (m Model) errorView(message string) string {
	return fmt.Sprintf("\n  %s\n\n  %s\n\n  %s\n",
		errorStyle.Render("오류 발생"),
		message,
		mutedStyle.Render("[r] 다시 시작하기  [q] 종료"),
	)
}
