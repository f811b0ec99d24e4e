package widget

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-summary/errors"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/summarizer"
	"github.com/nijaru/yt-summary/validation"
)

type fakeService struct {
	calls   int32
	lastReq models.SummaryRequest
	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
	payload *models.ResultPayload
	err     error
}

func (s *fakeService) Summarize(ctx context.Context, req models.SummaryRequest) (*models.ResultPayload, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.lastReq = req
	s.mu.Unlock()
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, errors.Transport("fake", ctx.Err(), "The request was cancelled")
		}
	}
	return s.payload, s.err
}

func (s *fakeService) callCount() int32 { return atomic.LoadInt32(&s.calls) }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSubmit_EmptyURLNeverCallsService(t *testing.T) {
	for _, url := range []string{"", "   ", "\t\n"} {
		svc := &fakeService{}
		form := New(svc, WithLogger(quietLogger()))
		form.SetVideoURL(url)

		outcome, err := form.Submit(context.Background())
		require.NoError(t, err)

		assert.Equal(t, models.OutcomeFailed, outcome.State)
		assert.Equal(t, validation.EmptyURLMessage, outcome.Message)
		assert.Zero(t, svc.callCount(), "url %q", url)
		assert.True(t, form.CanSubmit())
	}
}

func TestSubmit_Success(t *testing.T) {
	svc := &fakeService{payload: &models.ResultPayload{Transcript: models.Some("T")}}
	form := New(svc, WithLogger(quietLogger()))
	form.SetVideoURL("  https://youtu.be/abc  ")
	form.SetPattern("create_summary")
	form.SetWithMetadata(true)

	outcome, err := form.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.IsSucceeded())
	assert.Equal(t, outcome, form.Outcome())
	assert.Equal(t, int32(1), svc.callCount())
	assert.Equal(t, models.SummaryRequest{
		URL:          "https://youtu.be/abc",
		Pattern:      "create_summary",
		Language:     "en",
		WithMetadata: true,
	}, svc.lastReq)
	assert.Equal(t, "  https://youtu.be/abc  ", form.Input().VideoURL, "input is left as typed")
}

func TestSubmit_RejectedWhilePending(t *testing.T) {
	svc := &fakeService{
		started: make(chan struct{}),
		release: make(chan struct{}),
		payload: &models.ResultPayload{Transcript: models.Some("T")},
	}
	form := New(svc, WithLogger(quietLogger()))
	form.SetVideoURL("https://youtu.be/abc")

	done := make(chan models.Outcome)
	go func() {
		outcome, _ := form.Submit(context.Background())
		done <- outcome
	}()
	<-svc.started

	assert.True(t, form.Outcome().IsPending())
	assert.False(t, form.CanSubmit())

	outcome, err := form.Submit(context.Background())
	assert.ErrorIs(t, err, ErrInFlight)
	assert.True(t, outcome.IsPending())
	assert.Equal(t, int32(1), svc.callCount())

	close(svc.release)
	assert.True(t, (<-done).IsSucceeded())
	assert.True(t, form.CanSubmit())
}

func TestSubmitInput_RejectedWhilePendingKeepsInput(t *testing.T) {
	svc := &fakeService{
		started: make(chan struct{}),
		release: make(chan struct{}),
		payload: &models.ResultPayload{Transcript: models.Some("T")},
	}
	form := New(svc, WithLogger(quietLogger()))
	first := models.FormInput{VideoURL: "https://youtu.be/abc"}

	done := make(chan models.Outcome)
	go func() {
		outcome, _ := form.SubmitInput(context.Background(), first)
		done <- outcome
	}()
	<-svc.started

	_, err := form.SubmitInput(context.Background(), models.FormInput{
		VideoURL:     "https://youtu.be/other",
		Pattern:      "extract_insights",
		WithMetadata: true,
	})
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, first, form.Input())

	close(svc.release)
	assert.True(t, (<-done).IsSucceeded())
	assert.Equal(t, first, form.Input())
	assert.Equal(t, "https://youtu.be/abc", svc.lastReq.URL)
	assert.Equal(t, int32(1), svc.callCount())
}

func TestSubmit_ServiceFailureReEnablesSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := summarizer.NewClient(srv.URL, summarizer.WithLogger(quietLogger()))
	form := New(client, WithLogger(quietLogger()))
	form.SetVideoURL("https://youtu.be/abc")

	outcome, err := form.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.IsFailed())
	assert.Equal(t, "Error: Internal Server Error", outcome.Message)
	assert.Nil(t, outcome.Result)
	assert.True(t, form.CanSubmit())
}

func TestSubmit_NewSubmissionReplacesOutcome(t *testing.T) {
	svc := &fakeService{err: errors.Transport("fake", nil, "down")}
	form := New(svc, WithLogger(quietLogger()))
	form.SetVideoURL("https://youtu.be/abc")

	outcome, _ := form.Submit(context.Background())
	require.True(t, outcome.IsFailed())

	svc.err = nil
	svc.payload = &models.ResultPayload{Transcript: models.Some("T")}
	outcome, _ = form.Submit(context.Background())

	assert.True(t, outcome.IsSucceeded())
	assert.Empty(t, outcome.Message)
}

func TestCancel_AbortsPendingSubmission(t *testing.T) {
	svc := &fakeService{started: make(chan struct{}), release: make(chan struct{})}
	form := New(svc, WithLogger(quietLogger()))
	form.SetVideoURL("https://youtu.be/abc")

	done := make(chan models.Outcome)
	go func() {
		outcome, _ := form.Submit(context.Background())
		done <- outcome
	}()
	<-svc.started

	form.Cancel()

	select {
	case outcome := <-done:
		assert.True(t, outcome.IsFailed())
		assert.Equal(t, "The request was cancelled", outcome.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("submission did not stop after Cancel")
	}
}

func TestSubmit_Timeout(t *testing.T) {
	svc := &fakeService{release: make(chan struct{})}
	defer close(svc.release)
	form := New(svc, WithLogger(quietLogger()), WithTimeout(20*time.Millisecond))
	form.SetVideoURL("https://youtu.be/abc")

	outcome, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.IsFailed())
}

func TestSubmit_NilPayloadFails(t *testing.T) {
	form := New(&fakeService{}, WithLogger(quietLogger()))
	form.SetVideoURL("https://youtu.be/abc")

	outcome, _ := form.Submit(context.Background())
	assert.True(t, outcome.IsFailed())
	assert.Equal(t, errors.GenericMessage, outcome.Message)
}

func TestOnComplete(t *testing.T) {
	var got []Completion
	svc := &fakeService{payload: &models.ResultPayload{}}
	form := New(svc, WithLogger(quietLogger()), OnComplete(func(c Completion) {
		got = append(got, c)
	}))

	_, _ = form.Submit(context.Background())
	form.SetInput(models.FormInput{VideoURL: " https://youtu.be/abc ", WithComments: true})
	_, _ = form.Submit(context.Background())

	require.Len(t, got, 2)
	assert.True(t, got[0].Outcome.IsFailed())
	assert.True(t, got[1].Outcome.IsSucceeded())
	assert.Equal(t, "https://youtu.be/abc", got[1].Input.VideoURL)
	assert.True(t, got[1].Input.WithComments)
}

func TestSubmit_StrictValidator(t *testing.T) {
	svc := &fakeService{}
	form := New(svc, WithLogger(quietLogger()), WithValidator(validation.NewValidator(true)))
	form.SetVideoURL("https://example.com/video")

	outcome, _ := form.Submit(context.Background())
	assert.Equal(t, "Only YouTube URLs are supported", outcome.Message)
	assert.Zero(t, svc.callCount())
}
