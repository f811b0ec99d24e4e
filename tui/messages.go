package tui

import "github.com/nijaru/yt-summary/models"

// SubmitDoneMsg carries the terminal outcome of a submission.
type SubmitDoneMsg struct {
	Outcome models.Outcome
	Err     error
}
