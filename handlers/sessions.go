package handlers

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nijaru/yt-summary/widget"
)

const SessionCookie = "yt_summary_session"

type session struct {
	id       string
	form     *widget.Form
	lastSeen atomic.Int64
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// Sessions holds one transcript widget per browser session.
type Sessions struct {
	sessions sync.Map
	newForm  func(id string) *widget.Form
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

func NewSessions(ttl time.Duration, secure bool, newForm func(id string) *widget.Form) *Sessions {
	return &Sessions{
		newForm: newForm,
		ttl:     ttl,
		secure:  secure,
		now:     time.Now,
	}
}

// lookup returns the session named by r's cookie, if it is still live.
func (s *Sessions) lookup(r *http.Request) (*session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	value, ok := s.sessions.Load(cookie.Value)
	if !ok {
		return nil, false
	}
	sess := value.(*session)
	sess.touch(s.now())
	return sess, true
}

// obtain returns r's session, creating it and setting the cookie on w when
// there is none.
func (s *Sessions) obtain(w http.ResponseWriter, r *http.Request) *session {
	if sess, ok := s.lookup(r); ok {
		return sess
	}

	id := uuid.New().String()
	sess := &session{id: id, form: s.newForm(id)}
	sess.touch(s.now())
	actual, _ := s.sessions.LoadOrStore(id, sess)

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return actual.(*session)
}

// Evict drops sessions idle for longer than the TTL and cancels their
// pending submissions.
func (s *Sessions) Evict() int {
	cutoff := s.now().Add(-s.ttl).UnixNano()
	evicted := 0
	s.sessions.Range(func(key, value any) bool {
		sess := value.(*session)
		if sess.lastSeen.Load() < cutoff {
			s.sessions.Delete(key)
			sess.form.Cancel()
			evicted++
		}
		return true
	})
	return evicted
}

// Close cancels every pending submission.
func (s *Sessions) Close() {
	s.sessions.Range(func(key, value any) bool {
		value.(*session).form.Cancel()
		s.sessions.Delete(key)
		return true
	})
}

func (s *Sessions) Len() int {
	n := 0
	s.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
