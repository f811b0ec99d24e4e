package widget

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/summarizer"
	"github.com/nijaru/yt-summary/validation"
)

// ErrInFlight is returned by Submit while a previous submission is pending.
var ErrInFlight = errors.InFlight("Form.Submit")

// Completion describes one finished submission.
type Completion struct {
	Input    models.FormInput
	Outcome  models.Outcome
	Duration time.Duration
}

// Snapshot is a consistent copy of the form state.
type Snapshot struct {
	Input   models.FormInput
	Outcome models.Outcome
}

// Form is the transcript request widget: the user's input plus the single
// live outcome. It is safe for concurrent use.
type Form struct {
	mu      sync.Mutex
	input   models.FormInput
	outcome models.Outcome
	cancel  context.CancelFunc

	service    summarizer.Service
	validator  *validation.Validator
	timeout    time.Duration
	logger     *logrus.Logger
	onComplete func(Completion)
}

type Option func(*Form)

// WithTimeout bounds each submission. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Form) {
		f.timeout = d
	}
}

func WithValidator(v *validation.Validator) Option {
	return func(f *Form) {
		f.validator = v
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// OnComplete registers a hook called after every submission that reached
// a terminal outcome, including validation failures.
func OnComplete(fn func(Completion)) Option {
	return func(f *Form) {
		f.onComplete = fn
	}
}

func New(service summarizer.Service, opts ...Option) *Form {
	f := &Form{
		outcome:   models.IdleOutcome(),
		service:   service,
		validator: validation.NewValidator(false),
		timeout:   summarizer.DefaultTimeout,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) SetVideoURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.VideoURL = url
}

func (f *Form) SetPattern(pattern string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.Pattern = pattern
}

func (f *Form) SetWithMetadata(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.WithMetadata = on
}

func (f *Form) SetWithComments(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.WithComments = on
}

// SetInput replaces every field at once, as a submitted HTML form does.
func (f *Form) SetInput(input models.FormInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = input
}

func (f *Form) Input() models.FormInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

func (f *Form) Outcome() models.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{Input: f.input, Outcome: f.outcome}
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	return !f.Outcome().IsPending()
}

// Submit validates the current input and, when valid, performs exactly one
// call to the summarization service. It blocks until the outcome is terminal
// and returns it. A call made while another is pending returns ErrInFlight
// and leaves the state untouched.
func (f *Form) Submit(ctx context.Context) (models.Outcome, error) {
	return f.submit(ctx, nil)
}

// SubmitInput replaces the form input and submits it in one step. A call
// made while another is pending returns ErrInFlight and the input is not
// changed.
func (f *Form) SubmitInput(ctx context.Context, input models.FormInput) (models.Outcome, error) {
	return f.submit(ctx, &input)
}

func (f *Form) submit(ctx context.Context, replace *models.FormInput) (models.Outcome, error) {
	const op = "Form.Submit"

	f.mu.Lock()
	if f.outcome.IsPending() {
		f.mu.Unlock()
		return models.PendingOutcome(), ErrInFlight
	}
	if replace != nil {
		f.input = *replace
	}
	input := f.input
	start := time.Now()

	url, err := f.validator.ValidateURL(input.VideoURL)
	if err != nil {
		f.outcome = models.FailedOutcome(errors.UserMessage(err))
		outcome := f.outcome
		f.mu.Unlock()
		f.complete(input, outcome, start)
		return outcome, nil
	}
	input.VideoURL = url

	if f.timeout > 0 {
		ctx, f.cancel = context.WithTimeout(ctx, f.timeout)
	} else {
		ctx, f.cancel = context.WithCancel(ctx)
	}
	cancel := f.cancel
	f.outcome = models.PendingOutcome()
	f.mu.Unlock()
	defer cancel()

	logger := f.logger.WithFields(logrus.Fields{
		"op":      op,
		"url":     input.VideoURL,
		"pattern": input.Pattern,
	})
	logger.Debug("Submitting summary request")

	var outcome models.Outcome
	payload, err := f.service.Summarize(ctx, input.Request())
	switch {
	case err != nil:
		logger.WithError(err).Warn("Summary request failed")
		outcome = models.FailedOutcome(errors.UserMessage(err))
	case payload == nil:
		outcome = models.FailedOutcome(errors.GenericMessage)
	default:
		outcome = models.SucceededOutcome(payload)
	}

	f.mu.Lock()
	f.outcome = outcome
	f.cancel = nil
	f.mu.Unlock()

	f.complete(input, outcome, start)
	return outcome, nil
}

// Cancel aborts the pending submission, if any. The submission then ends
// as Failed.
func (f *Form) Cancel() {
	f.mu.Lock()
	cancel := f.cancel
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (f *Form) complete(input models.FormInput, outcome models.Outcome, start time.Time) {
	if f.onComplete == nil {
		return
	}
	f.onComplete(Completion{
		Input:    input,
		Outcome:  outcome,
		Duration: time.Since(start),
	})
}
