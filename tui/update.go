package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case SubmitDoneMsg:
		m.submitting = false
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.form.Cancel()
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % fieldCount
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, nil
	case tea.KeyEnter:
		return m.submit()
	}

	switch m.focus {
	case FieldURL:
		m.editURL(msg)
	case FieldPattern:
		switch msg.Type {
		case tea.KeyLeft:
			m.cyclePattern(-1)
		case tea.KeyRight, tea.KeySpace:
			m.cyclePattern(1)
		}
	case FieldMetadata, FieldComments:
		if msg.Type == tea.KeySpace {
			m.toggle()
		}
	}

	if msg.Type == tea.KeyRunes && m.focus != FieldURL && string(msg.Runes) == "q" {
		m.form.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.canSubmit() {
		return m, nil
	}
	m.submitting = true
	return m, submit(m.ctx, m.form)
}

func (m *Model) editURL(msg tea.KeyMsg) {
	url := m.form.Input().VideoURL
	switch msg.Type {
	case tea.KeyRunes:
		url += string(msg.Runes)
	case tea.KeySpace:
		url += " "
	case tea.KeyBackspace:
		if r := []rune(url); len(r) > 0 {
			url = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		url = ""
	default:
		return
	}
	m.form.SetVideoURL(url)
}

func (m *Model) cyclePattern(step int) {
	if len(m.patterns) == 0 {
		return
	}
	m.patternIdx = (m.patternIdx + step + len(m.patterns)) % len(m.patterns)
	m.form.SetPattern(m.patterns[m.patternIdx].Value)
}

func (m *Model) toggle() {
	input := m.form.Input()
	if m.focus == FieldMetadata {
		m.form.SetWithMetadata(!input.WithMetadata)
	} else {
		m.form.SetWithComments(!input.WithComments)
	}
}
