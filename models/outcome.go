package models

// OutcomeState is the lifecycle position of one submitted request.
type OutcomeState int

const (
	OutcomeIdle OutcomeState = iota
	OutcomePending
	OutcomeFailed
	OutcomeSucceeded
)

func (s OutcomeState) String() string {
	switch s {
	case OutcomeIdle:
		return "idle"
	case OutcomePending:
		return "pending"
	case OutcomeFailed:
		return "failed"
	case OutcomeSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Outcome is the single live result of the widget. Message is set only when
// State is OutcomeFailed and Result only when State is OutcomeSucceeded.
type Outcome struct {
	State   OutcomeState
	Message string
	Result  *ResultPayload
}

func IdleOutcome() Outcome { return Outcome{State: OutcomeIdle} }

func PendingOutcome() Outcome { return Outcome{State: OutcomePending} }

func FailedOutcome(message string) Outcome {
	return Outcome{State: OutcomeFailed, Message: message}
}

func SucceededOutcome(result *ResultPayload) Outcome {
	return Outcome{State: OutcomeSucceeded, Result: result}
}

func (o Outcome) IsPending() bool   { return o.State == OutcomePending }
func (o Outcome) IsFailed() bool    { return o.State == OutcomeFailed }
func (o Outcome) IsSucceeded() bool { return o.State == OutcomeSucceeded && o.Result != nil }

// IsTerminal reports whether the outcome ends a submission.
func (o Outcome) IsTerminal() bool {
	return o.State == OutcomeFailed || o.State == OutcomeSucceeded
}
