package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nijaru/yt-summary/content"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/render"
	"github.com/nijaru/yt-summary/widget"
)

// Field is the focused form control.
type Field int

const (
	FieldURL Field = iota
	FieldPattern
	FieldMetadata
	FieldComments
	FieldSubmit
	fieldCount
)

// Model is the terminal front-end of the transcript widget. All form state
// lives in the widget; the model only tracks focus.
type Model struct {
	form     *widget.Form
	patterns []content.Option
	ctx      context.Context

	focus      Field
	patternIdx int
	submitting bool
	width      int
}

// NewModel returns a model driving form. Cancelling ctx aborts a pending
// submission.
func NewModel(ctx context.Context, form *widget.Form, patterns []content.Option) Model {
	m := Model{
		form:     form,
		patterns: patterns,
		ctx:      ctx,
	}
	current := form.Input().Pattern
	for i, p := range patterns {
		if p.Value == current {
			m.patternIdx = i
			break
		}
	}
	return m
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

// Tree is the display tree for the current state.
func (m Model) Tree() render.Tree {
	snapshot := m.form.Snapshot()
	outcome := snapshot.Outcome
	if m.submitting {
		outcome = models.PendingOutcome()
	}
	return render.Build(snapshot.Input, outcome)
}

func (m Model) Focus() Field {
	return m.focus
}

func (m Model) canSubmit() bool {
	return !m.submitting && m.form.CanSubmit()
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctx context.Context, form *widget.Form, patterns []content.Option) error {
	p := tea.NewProgram(NewModel(ctx, form, patterns), tea.WithContext(ctx))
	_, err := p.Run()
	form.Cancel()
	return err
}
