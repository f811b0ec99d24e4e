package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nijaru/yt-summary/widget"
)

func submit(ctx context.Context, form *widget.Form) tea.Cmd {
	return func() tea.Msg {
		outcome, err := form.Submit(ctx)
		return SubmitDoneMsg{Outcome: outcome, Err: err}
	}
}
