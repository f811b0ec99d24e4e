package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	g "maragu.dev/gomponents"

	"github.com/nijaru/yt-summary/components"
	"github.com/nijaru/yt-summary/content"
	"github.com/nijaru/yt-summary/db"
	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/render"
	"github.com/nijaru/yt-summary/utils"
	"github.com/nijaru/yt-summary/widget"
)

// FetchHeader marks a progressive-enhancement request that wants only the
// widget fragment back.
const (
	FetchHeader = "X-Requested-With"
	FetchValue  = "fetch"
)

const recordTimeout = 5 * time.Second

// Recorder persists finished submissions.
type Recorder interface {
	Record(ctx context.Context, sub db.Submission) (db.Submission, error)
}

type Handler struct {
	site       *content.Site
	apiBaseURL string
	version    string
	startTime  time.Time
	sessions   *Sessions
	limiter    *middleware.RateLimiter
	recorder   Recorder
	logger     *logrus.Logger
}

type Option func(*Handler)

func WithRateLimiter(limiter *middleware.RateLimiter) Option {
	return func(h *Handler) {
		h.limiter = limiter
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(h *Handler) {
		h.recorder = recorder
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithVersion(version string) Option {
	return func(h *Handler) {
		h.version = version
	}
}

// NewHandler builds the page handlers. newForm creates the widget for a
// new browser session; its completion hook is wired to the recorder.
func NewHandler(site *content.Site, apiBaseURL string, sessionTTL time.Duration, secureCookies bool, newForm func(onComplete func(widget.Completion)) *widget.Form, opts ...Option) *Handler {
	h := &Handler{
		site:       site,
		apiBaseURL: apiBaseURL,
		version:    "dev",
		startTime:  time.Now(),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.sessions = NewSessions(sessionTTL, secureCookies, func(id string) *widget.Form {
		return newForm(h.recordCompletion(id))
	})
	return h
}

func (h *Handler) Sessions() *Sessions {
	return h.sessions
}

// LandingPage renders the full page with the caller's widget state.
func (h *Handler) LandingPage(w http.ResponseWriter, r *http.Request) {
	snapshot := widget.Snapshot{Outcome: models.IdleOutcome()}
	if sess, ok := h.sessions.lookup(r); ok {
		snapshot = sess.form.Snapshot()
	}
	utils.RenderHTML(w, http.StatusOK, h.page(snapshot.Input, snapshot.Outcome))
}

// SubmitTranscript handles a widget submission and renders the resulting
// state, as a full page or as the widget fragment for fetch requests.
func (h *Handler) SubmitTranscript(w http.ResponseWriter, r *http.Request) {
	const op = "Handler.SubmitTranscript"
	logger := middleware.GetLogger(r.Context())

	if err := r.ParseForm(); err != nil {
		utils.HandleError(w, errors.Validation(op, err, "Invalid form submission"))
		return
	}
	input := formInput(r)

	if !h.site.HasPattern(input.Pattern) {
		logger.WithField("pattern", input.Pattern).Warn("Unknown pattern submitted")
		h.respond(w, r, http.StatusBadRequest, input, models.FailedOutcome("Unknown analysis pattern"))
		return
	}

	if h.limiter != nil && !h.limiter.Allow(middleware.ClientIP(r)) {
		err := errors.RateLimited(op)
		logger.WithError(err).Warn("Submission rate limited")
		h.respond(w, r, err.Code, input, models.FailedOutcome(err.Message))
		return
	}

	sess := h.sessions.obtain(w, r)
	outcome, err := sess.form.SubmitInput(r.Context(), input)
	if errors.Is(err, errors.KindInFlight) {
		snapshot := sess.form.Snapshot()
		h.respond(w, r, errors.StatusCode(err), snapshot.Input, snapshot.Outcome)
		return
	}

	logger.WithFields(logrus.Fields{
		"session_id": sess.id,
		"outcome":    outcome.State.String(),
	}).Info("Transcript request finished")
	h.respond(w, r, http.StatusOK, input, outcome)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
		"uptime":    time.Since(h.startTime).String(),
		"sessions":  h.sessions.Len(),
	})
}

// RunJanitor evicts idle sessions and rate limit buckets until ctx ends.
func (h *Handler) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.sessions.Close()
			return
		case <-ticker.C:
			evicted := h.sessions.Evict()
			pruned := 0
			if h.limiter != nil {
				pruned = h.limiter.Prune()
			}
			if evicted > 0 || pruned > 0 {
				h.logger.WithFields(logrus.Fields{
					"sessions": evicted,
					"limiters": pruned,
				}).Debug("Evicted idle state")
			}
		}
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, input models.FormInput, outcome models.Outcome) {
	if r.Header.Get(FetchHeader) == FetchValue {
		utils.RenderHTML(w, status, h.widget(input, outcome))
		return
	}
	utils.RenderHTML(w, status, h.page(input, outcome))
}

func (h *Handler) widget(input models.FormInput, outcome models.Outcome) g.Node {
	return components.TranscriptGenerator(render.Build(input, outcome), input, h.site.Patterns)
}

func (h *Handler) page(input models.FormInput, outcome models.Outcome) g.Node {
	return components.Layout(
		components.PageConfig{
			Title:       h.site.Title,
			Description: h.site.Description,
		},
		components.Hero(h.site.Hero),
		components.Features(h.site.Features, h.widget(input, outcome)),
		components.PageFooter(h.site.Footer, h.apiBaseURL),
	)
}

func (h *Handler) recordCompletion(sessionID string) func(widget.Completion) {
	return func(c widget.Completion) {
		if h.recorder == nil {
			return
		}

		sub := db.Submission{
			SessionID:    sessionID,
			URL:          strings.TrimSpace(c.Input.VideoURL),
			Pattern:      c.Input.Pattern,
			WithMetadata: c.Input.WithMetadata,
			WithComments: c.Input.WithComments,
			Status:       c.Outcome.State.String(),
			Error:        c.Outcome.Message,
			Duration:     c.Duration,
		}

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if _, err := h.recorder.Record(ctx, sub); err != nil {
			h.logger.WithError(err).WithField("session_id", sessionID).Error("Failed to record submission")
		}
	}
}

func formInput(r *http.Request) models.FormInput {
	return models.FormInput{
		VideoURL:     r.PostFormValue(components.FieldVideoURL),
		Pattern:      strings.TrimSpace(r.PostFormValue(components.FieldPattern)),
		WithMetadata: formBool(r.PostFormValue(components.FieldWithMetadata)),
		WithComments: formBool(r.PostFormValue(components.FieldWithComments)),
	}
}

func formBool(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
