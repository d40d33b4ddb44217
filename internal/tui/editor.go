package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// onEditorKey handles the question list editor. Rows are edited on a
// scratch copy; ctrl+s saves, esc discards.
func (m Model) onEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.editor.Rows()

	if m.editing {
		switch msg.Type {
		case tea.KeyEnter:
			if m.cursor < len(rows) {
				if err := m.editor.SetText(rows[m.cursor].ID, m.editInput.Value()); err != nil {
					m.opts.Log.Warn("edit question", "error", err)
				}
			}
			m.editing = false
			m.editInput.Blur()
			return m, nil
		case tea.KeyEsc:
			m.editing = false
			m.editInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.editInput, cmd = m.editInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "K", "shift+up":
		if m.cursor > 0 && m.editor.Move(m.cursor, m.cursor-1) == nil {
			m.cursor--
		}
	case "J", "shift+down":
		if m.cursor < len(rows)-1 && m.editor.Move(m.cursor, m.cursor+1) == nil {
			m.cursor++
		}
	case "a":
		m.editor.Add()
		m.cursor = len(rows)
		return m.beginEdit("")
	case "enter":
		if m.cursor < len(rows) {
			return m.beginEdit(rows[m.cursor].Text)
		}
	case "d", "x":
		if m.cursor < len(rows) {
			if err := m.editor.Remove(rows[m.cursor].ID); err != nil {
				m.opts.Log.Warn("remove question", "error", err)
			}
			if m.cursor >= len(rows)-1 && m.cursor > 0 {
				m.cursor--
			}
		}
	case "ctrl+s":
		m.editor.Save()
		m.editor = nil
		m.opts.Log.Info("questions saved", "active", len(m.opts.Questions.ActiveQuestions()))
	case "esc":
		m.editor = nil
	}
	return m, nil
}

func (m Model) beginEdit(text string) (tea.Model, tea.Cmd) {
	m.editing = true
	m.editInput.SetValue(text)
	m.editInput.CursorEnd()
	return m, m.editInput.Focus()
}
