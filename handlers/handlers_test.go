package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nijaru/yt-summary/content"
	"github.com/nijaru/yt-summary/db"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/summarizer"
	"github.com/nijaru/yt-summary/widget"
)

type memoryRecorder struct {
	mu   sync.Mutex
	subs []db.Submission
}

func (m *memoryRecorder) Record(_ context.Context, sub db.Submission) (db.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, sub)
	return sub, nil
}

func (m *memoryRecorder) all() []db.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.Submission(nil), m.subs...)
}

type fixture struct {
	handler  *Handler
	recorder *memoryRecorder
	calls    *int32
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture(t *testing.T, remote http.HandlerFunc, opts ...Option) fixture {
	t.Helper()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		remote(w, r)
	}))
	t.Cleanup(srv.Close)

	site, err := content.Default()
	require.NoError(t, err)

	logger := quietLogger()
	client := summarizer.NewClient(srv.URL, summarizer.WithLogger(logger))
	recorder := &memoryRecorder{}

	newForm := func(onComplete func(widget.Completion)) *widget.Form {
		return widget.New(client, widget.WithLogger(logger), widget.OnComplete(onComplete))
	}
	opts = append([]Option{WithRecorder(recorder), WithLogger(logger)}, opts...)
	h := NewHandler(site, "https://api.example.com", time.Hour, false, newForm, opts...)
	t.Cleanup(h.Sessions().Close)

	return fixture{handler: h, recorder: recorder, calls: &calls}
}

func postForm(values url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/transcript", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func document(t *testing.T, rr *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	return doc
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}

func TestLandingPage(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	f.handler.LandingPage(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, sessionCookie(rr))
	doc := document(t, rr)
	assert.Equal(t, "Save countless hours on YouTube videos", doc.Find(".hero-tagline").Text())
	assert.Equal(t, 1, doc.Find("#transcript-generator").Length())
	assert.Equal(t, "https://api.example.com/health", doc.Find(`a[aria-label="Health Status"]`).AttrOr("href", ""))
}

func TestSubmitTranscript_PatternResult(t *testing.T) {
	var body map[string]any
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"transcript":"T","pattern_result":"Summary text"}`))
	})

	rr := httptest.NewRecorder()
	f.handler.SubmitTranscript(rr, postForm(url.Values{
		"video_url":     {" https://youtu.be/abc "},
		"pattern":       {"create_summary"},
		"with_metadata": {"true"},
	}))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, sessionCookie(rr))

	doc := document(t, rr)
	assert.Equal(t, "Create Summary", doc.Find(".primary h3").Text())
	assert.Equal(t, "Summary text", doc.Find(".primary .result-body").Text())
	assert.Equal(t, " https://youtu.be/abc ", doc.Find("#videoUrl").AttrOr("value", ""))

	assert.Equal(t, "https://youtu.be/abc", body["url"])
	assert.Equal(t, true, body["with_metadata"])

	subs := f.recorder.all()
	require.Len(t, subs, 1)
	assert.Equal(t, "succeeded", subs[0].Status)
	assert.Equal(t, "create_summary", subs[0].Pattern)
	assert.Equal(t, sessionCookie(rr).Value, subs[0].SessionID)
}

func TestSubmitTranscript_EmptyURL(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	f.handler.SubmitTranscript(rr, postForm(url.Values{"video_url": {"   "}}))

	doc := document(t, rr)
	assert.Equal(t, "Please enter a YouTube video URL", doc.Find(".alert").Text())
	assert.Zero(t, atomic.LoadInt32(f.calls))
	require.Len(t, f.recorder.all(), 1)
	assert.Equal(t, "failed", f.recorder.all()[0].Status)
}

func TestSubmitTranscript_FetchFragment(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transcript":"T"}`))
	})

	req := postForm(url.Values{"video_url": {"https://youtu.be/abc"}})
	req.Header.Set(FetchHeader, FetchValue)
	rr := httptest.NewRecorder()
	f.handler.SubmitTranscript(rr, req)

	assert.False(t, strings.Contains(rr.Body.String(), "<!DOCTYPE html>"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), `<div id="transcript-generator"`))
	doc := document(t, rr)
	assert.Equal(t, "Full Transcript", doc.Find(".primary h3").Text())
}

func TestSubmitTranscript_RemoteFailure(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rr := httptest.NewRecorder()
	f.handler.SubmitTranscript(rr, postForm(url.Values{"video_url": {"https://youtu.be/abc"}}))

	doc := document(t, rr)
	assert.Equal(t, "Error: Internal Server Error", doc.Find(".alert").Text())
	assert.Zero(t, doc.Find(".results").Length())
	_, disabled := doc.Find("#transcript-form button").Attr("disabled")
	assert.False(t, disabled)
}

func TestSubmitTranscript_UnknownPattern(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	f.handler.SubmitTranscript(rr, postForm(url.Values{"video_url": {"x"}, "pattern": {"drop_tables"}}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, atomic.LoadInt32(f.calls))
}

func TestSubmitTranscript_RateLimited(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transcript":"T"}`))
	}, WithRateLimiter(middleware.NewRateLimiter(1, 1)))

	values := url.Values{"video_url": {"https://youtu.be/abc"}}
	first := httptest.NewRecorder()
	f.handler.SubmitTranscript(first, postForm(values))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	f.handler.SubmitTranscript(second, postForm(values, sessionCookie(first)))

	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, document(t, second).Find(".alert").Text(), "Rate limit exceeded")
	assert.Equal(t, int32(1), atomic.LoadInt32(f.calls))
}

func TestSubmitTranscript_InFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-release
		_, _ = w.Write([]byte(`{"transcript":"T","pattern_result":"P","metadata":{"duration":"10:00"}}`))
	})

	// Establish a session without calling the remote service.
	setup := httptest.NewRecorder()
	f.handler.SubmitTranscript(setup, postForm(url.Values{"video_url": {""}}))
	cookie := sessionCookie(setup)
	require.NotNil(t, cookie)

	values := url.Values{"video_url": {"https://youtu.be/abc"}}
	done := make(chan *httptest.ResponseRecorder)
	go func() {
		rr := httptest.NewRecorder()
		f.handler.SubmitTranscript(rr, postForm(values, cookie))
		done <- rr
	}()
	<-started

	second := httptest.NewRecorder()
	f.handler.SubmitTranscript(second, postForm(url.Values{
		"video_url":     {"https://youtu.be/other"},
		"pattern":       {"extract_insights"},
		"with_metadata": {"on"},
	}, cookie))

	assert.Equal(t, http.StatusConflict, second.Code)
	pending := document(t, second)
	button := pending.Find("#transcript-form button")
	_, disabled := button.Attr("disabled")
	assert.True(t, disabled)
	assert.Equal(t, "Generating...", strings.TrimSpace(button.Text()))
	assert.Equal(t, "https://youtu.be/abc", pending.Find("#videoUrl").AttrOr("value", ""))

	close(release)
	first := <-done
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(f.calls))

	// The rejected submission must not leak into the winner's result.
	doc := document(t, first)
	assert.Equal(t, "Pattern Result", doc.Find(".primary h3").Text())
	assert.Zero(t, doc.Find(".metadata").Length())
	assert.Equal(t, "https://youtu.be/abc", doc.Find("#videoUrl").AttrOr("value", ""))
	assert.Zero(t, doc.Find("input[name=with_metadata][checked]").Length())
}

func TestLandingPage_ShowsSessionState(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"comments":["nice"]}`))
	})

	rr := httptest.NewRecorder()
	f.handler.SubmitTranscript(rr, postForm(url.Values{
		"video_url":     {"https://youtu.be/abc"},
		"with_comments": {"on"},
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(rr))
	page := httptest.NewRecorder()
	f.handler.LandingPage(page, req)

	doc := document(t, page)
	assert.Equal(t, "nice", doc.Find(".comment").Text())
	assert.Equal(t, "https://youtu.be/abc", doc.Find("#videoUrl").AttrOr("value", ""))
}

func TestHealth(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {}, WithVersion("1.2.3"))

	rr := httptest.NewRecorder()
	f.handler.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}

func TestSessions_Evict(t *testing.T) {
	now := time.Now()
	var created int
	sessions := NewSessions(time.Minute, false, func(id string) *widget.Form {
		created++
		return widget.New(nil)
	})
	sessions.now = func() time.Time { return now }

	rr := httptest.NewRecorder()
	sess := sessions.obtain(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	again := sessions.obtain(httptest.NewRecorder(), req)
	assert.Same(t, sess, again)
	assert.Equal(t, 1, created)

	assert.Zero(t, sessions.Evict())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, sessions.Evict())
	assert.Zero(t, sessions.Len())

	_, ok := sessions.lookup(req)
	assert.False(t, ok)
}
