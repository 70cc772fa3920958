// Package session gives every browser its own blog controller and carries
// notifications across redirects as session flashes.
package session

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/minimal-blog/internal/blog"
	"github.com/debemdeboas/minimal-blog/internal/cache"
	"github.com/debemdeboas/minimal-blog/internal/config"
)

var sessionLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	sessionLogger = l
}

// Factory builds the controller for a new session, wired to its notifier.
type Factory func(blog.Notifier) *blog.Controller

type entry struct {
	controller *blog.Controller
	inbox      *blog.Inbox
	lastSeen   atomic.Int64
}

func (e *entry) touch(t time.Time) {
	e.lastSeen.Store(t.UnixNano())
}

func (e *entry) idleSince() time.Time {
	return time.Unix(0, e.lastSeen.Load())
}

type Manager struct {
	store       sessions.Store
	name        string
	idleTimeout time.Duration
	factory     Factory

	entries *cache.Cache[string, *entry]
	now     func() time.Time
}

func NewManager(store sessions.Store, name string, idleTimeout time.Duration, factory Factory) *Manager {
	return &Manager{
		store:       store,
		name:        name,
		idleTimeout: idleTimeout,
		factory:     factory,
		entries:     cache.NewCache[string, *entry](),
		now:         time.Now,
	}
}

// Session is one request's view of a browser session.
type Session struct {
	w     http.ResponseWriter
	r     *http.Request
	raw   *sessions.Session
	entry *entry
	fresh bool
}

// Open loads the browser's session, creating it and its controller when needed.
// A cookie that fails to decode starts a new session instead of failing.
func (m *Manager) Open(w http.ResponseWriter, r *http.Request) (*Session, error) {
	raw, err := m.store.Get(r, m.name)
	if err != nil {
		if raw == nil {
			return nil, err
		}
		sessionLogger.Warn().Err(err).Msg("Discarding unreadable session cookie")
	}

	id, _ := raw.Values[config.SessionKeyID].(string)
	if id == "" {
		id = uuid.NewString()
		raw.Values[config.SessionKeyID] = id
	}

	e, existed := m.entries.GetOrSet(id, func() *entry {
		inbox := &blog.Inbox{}
		return &entry{controller: m.factory(inbox), inbox: inbox}
	})
	e.touch(m.now())

	if !existed {
		sessionLogger.Debug().Str("sid", id).Msg("Started session")
	}

	return &Session{w: w, r: r, raw: raw, entry: e, fresh: !existed}, nil
}

func (s *Session) Controller() *blog.Controller {
	return s.entry.controller
}

// Fresh reports whether the controller was created by this request.
func (s *Session) Fresh() bool {
	return s.fresh
}

// Flush moves pending notifications into the session flashes and writes the
// cookie. Call it before redirecting.
func (s *Session) Flush() error {
	for _, n := range s.entry.inbox.Drain() {
		s.raw.AddFlash(string(n.Kind), config.FlashNotifications)
	}
	return s.raw.Save(s.r, s.w)
}

// Notifications returns, oldest first, the flashed kinds followed by whatever is
// still pending, consuming both. It writes the cookie, so call it before the body.
func (s *Session) Notifications() ([]blog.Kind, error) {
	var kinds []blog.Kind
	for _, f := range s.raw.Flashes(config.FlashNotifications) {
		v, _ := f.(string)
		if k, ok := blog.ParseKind(v); ok {
			kinds = append(kinds, k)
		}
	}
	for _, n := range s.entry.inbox.Drain() {
		kinds = append(kinds, n.Kind)
	}
	return kinds, s.raw.Save(s.r, s.w)
}

func (m *Manager) Len() int {
	return m.entries.Len()
}

// Sweep drops controllers idle for longer than the idle timeout and reports how
// many went.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTimeout)
	return m.entries.DeleteFunc(func(_ string, e *entry) bool {
		return e.idleSince().Before(cutoff)
	})
}

// Run sweeps every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				sessionLogger.Info().Int("evicted", n).Int("remaining", m.Len()).Msg("Swept idle sessions")
			}
		}
	}
}
