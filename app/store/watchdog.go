package store

import (
	"sync"
	"time"

	"github.com/shashiranjanraj/bazario/pkg/event"
	"github.com/shashiranjanraj/bazario/pkg/logger"
	"github.com/shashiranjanraj/bazario/pkg/metrics"
	"github.com/shashiranjanraj/bazario/pkg/notify"
	"github.com/shashiranjanraj/bazario/pkg/token"
)

// Watchdog clears the session the moment its token's exp claim passes,
// instead of waiting for the next 401. One timer exists at a time: every
// token change cancels the previous timer and arms a new one.
//
// A token whose payload cannot be decoded is left alone. The backend is the
// authority on validity; a client-side decode problem means "expiry unknown",
// never "expired", and the 401 path remains as the backstop.
type Watchdog struct {
	mu       sync.Mutex
	sessions *SessionStore
	timer    *time.Timer
	now      func() time.Time // test seam
}

// NewWatchdog builds a watchdog over the session store.
func NewWatchdog(sessions *SessionStore) *Watchdog {
	return &Watchdog{sessions: sessions, now: time.Now}
}

// Watch arms the watchdog for raw. An empty token only cancels the pending
// timer. A token that is already past its expiry is cleared synchronously,
// before Watch returns, so a caller restoring a stale session at boot never
// sees it authenticated.
func (w *Watchdog) Watch(raw string) {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if raw == "" {
		return
	}

	exp, err := token.ExpiresAt(raw)
	if err != nil {
		logger.Warn("watchdog: token expiry unreadable, not scheduling", "error", err)
		return
	}

	remaining := exp.Sub(w.now())
	if remaining <= 0 {
		w.expire(raw)
		return
	}

	w.mu.Lock()
	w.timer = time.AfterFunc(remaining, func() { w.expire(raw) })
	w.mu.Unlock()
	logger.Debug("watchdog: armed", "expires_in", remaining)
}

// Stop cancels any pending timer.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// expire clears the session if the token it was armed for is still current.
// A login that replaced the token between arming and firing wins.
func (w *Watchdog) expire(raw string) {
	if w.sessions.Token() != raw {
		return
	}

	w.sessions.ClearAuth()
	metrics.SessionExpiries.Inc()
	notify.Warnf("your session has expired, please log in again")
	event.Fire(TopicSessionExpired, nil)
}
