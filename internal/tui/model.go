// Package tui is a terminal front end for one wizard run over a local
// announcement PDF.
package tui

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/dgallion1/bidguide/internal/export"
	"github.com/dgallion1/bidguide/internal/intake"
	"github.com/dgallion1/bidguide/internal/questions"
	"github.com/dgallion1/bidguide/internal/wizard"
)

// Options configures a Model.
type Options struct {
	PDFPath         string
	Engine          *wizard.Engine
	Questions       *questions.Store
	Intake          *intake.Intake
	GenerateTimeout time.Duration
	// GlamourStyle is a glamour standard style name; empty selects the
	// terminal's light or dark style.
	GlamourStyle string
	Log          *slog.Logger
}

type (
	ingestedMsg struct {
		doc intake.Document
		err error
	}
	generatedMsg struct{ err error }
)

// Model is the bubbletea model. Wizard state lives in the engine; the
// model only adds what the screens need on top of it.
type Model struct {
	opts Options
	ctx  context.Context

	input   textinput.Model
	spinner spinner.Model
	result  viewport.Model

	// question editor, non-nil while editing
	editor    *questions.Editor
	cursor    int
	editing   bool
	editInput textinput.Model

	ingesting bool
	rendered  string
	status    string

	width, height int
}

func New(ctx context.Context, opts Options) Model {
	in := textinput.New()
	in.Placeholder = "답변을 입력하고 Enter를 누르세요..."
	in.CharLimit = 2000

	ed := textinput.New()
	ed.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return Model{
		opts:      opts,
		ctx:       ctx,
		input:     in,
		editInput: ed,
		spinner:   sp,
		result:    viewport.New(80, 20),
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.editInput.Width = max(msg.Width-10, 10)
		m.result.Width = msg.Width
		m.result.Height = max(msg.Height-4, 3)
		if _, done := m.opts.Engine.State().(wizard.Done); done {
			m.renderGuide()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ingestedMsg:
		return m.onIngested(msg)

	case generatedMsg:
		return m.onGenerated()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) busy() bool {
	if m.ingesting {
		return true
	}
	_, generating := m.opts.Engine.State().(wizard.Generating)
	return generating
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor != nil {
		return m.onEditorKey(msg)
	}

	switch m.opts.Engine.State().(type) {
	case wizard.Initial:
		if m.ingesting {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			m.ingesting = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.ingestCmd())
		case "e":
			m.editor = m.opts.Questions.NewEditor()
			m.cursor = 0
			return m, nil
		case "q", "esc":
			return m, tea.Quit
		}

	case wizard.Collecting:
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyEsc:
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case wizard.Done:
		switch msg.String() {
		case "r":
			return m.restart()
		case "s":
			m.status = m.save(".md")
			return m, nil
		case "w":
			m.status = m.save(".docx")
			return m, nil
		case "q", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.result, cmd = m.result.Update(msg)
		return m, cmd

	case wizard.Failed:
		switch msg.String() {
		case "r":
			return m.restart()
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// submit sends the typed answer. Blank input is ignored here, so the
// engine only ever sees real answers.
func (m Model) submit() (tea.Model, tea.Cmd) {
	answer := strings.TrimSpace(m.input.Value())
	if answer == "" {
		return m, nil
	}
	step, err := m.opts.Engine.Submit(answer)
	if err != nil {
		m.opts.Log.Warn("submit rejected", "error", err)
		return m, nil
	}
	m.input.Reset()
	if step == wizard.StepGenerate {
		m.input.Blur()
		return m, tea.Batch(m.spinner.Tick, m.generateCmd())
	}
	return m, nil
}

func (m Model) restart() (tea.Model, tea.Cmd) {
	if err := m.opts.Engine.Restart(); err != nil {
		m.opts.Log.Warn("restart rejected", "error", err)
		return m, nil
	}
	m.rendered = ""
	m.status = ""
	m.input.Reset()
	m.result.SetContent("")
	return m, nil
}

func (m Model) ingestCmd() tea.Cmd {
	path := m.opts.PDFPath
	in := m.opts.Intake
	ctx := m.ctx
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ingestedMsg{err: &intake.ExtractionError{Message: intake.MsgReadFailed, Err: err}}
		}
		defer f.Close()
		doc, err := in.Ingest(ctx, intake.FileFromPath(path, f))
		return ingestedMsg{doc: doc, err: err}
	}
}

func (m Model) onIngested(msg ingestedMsg) (tea.Model, tea.Cmd) {
	m.ingesting = false
	if msg.err != nil {
		if err := m.opts.Engine.Reject(msg.err); err != nil {
			m.opts.Log.Warn("reject failed", "error", err)
		}
		return m, nil
	}

	m.opts.Log.Info("document loaded",
		"filename", msg.doc.Filename,
		"pages", msg.doc.Pages,
		"content_hash", msg.doc.ContentHash,
	)
	step, err := m.opts.Engine.Start(m.opts.Questions.ActiveQuestions(), msg.doc.Text)
	if err != nil {
		m.opts.Log.Warn("start rejected", "error", err)
		return m, nil
	}
	if step == wizard.StepGenerate {
		return m, tea.Batch(m.spinner.Tick, m.generateCmd())
	}
	return m, m.input.Focus()
}

func (m Model) generateCmd() tea.Cmd {
	engine := m.opts.Engine
	ctx := m.ctx
	timeout := m.opts.GenerateTimeout
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return generatedMsg{err: engine.Generate(ctx)}
	}
}

func (m Model) onGenerated() (tea.Model, tea.Cmd) {
	if _, done := m.opts.Engine.State().(wizard.Done); done {
		m.renderGuide()
	}
	return m, nil
}

// renderGuide formats the guide markdown for the terminal, falling back
// to the raw text when glamour fails.
func (m *Model) renderGuide() {
	done, ok := m.opts.Engine.State().(wizard.Done)
	if !ok {
		return
	}
	style := glamour.WithAutoStyle()
	if m.opts.GlamourStyle != "" {
		style = glamour.WithStandardStyle(m.opts.GlamourStyle)
	}
	m.rendered = done.Guide
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(max(m.width-4, 20)))
	if err == nil {
		if out, rerr := r.Render(done.Guide); rerr == nil {
			m.rendered = out
		} else {
			err = rerr
		}
	}
	if err != nil {
		m.opts.Log.Warn("render guide", "error", err)
	}
	m.result.SetContent(m.rendered)
	m.result.GotoTop()
}

// save writes the guide next to the announcement and returns a status line.
func (m Model) save(ext string) string {
	done, ok := m.opts.Engine.State().(wizard.Done)
	if !ok {
		return ""
	}
	base := strings.TrimSuffix(m.opts.PDFPath, filepath.Ext(m.opts.PDFPath))
	title := filepath.Base(base) + "_기획가이드"
	path := base + "_기획가이드" + ext

	var data []byte
	switch ext {
	case ".docx":
		var buf bytes.Buffer
		if err := export.DOCX(&buf, title, done.Guide); err != nil {
			m.opts.Log.Error("export docx", "error", err)
			return "저장 실패: " + err.Error()
		}
		data = buf.Bytes()
	default:
		data = []byte(done.Guide)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.opts.Log.Error("save guide", "path", path, "error", err)
		return "저장 실패: " + err.Error()
	}
	m.opts.Log.Info("guide saved", "path", path)
	return fmt.Sprintf("저장됨: %s", path)
}
