package cooldown

import (
	"sync"
	"time"

	"github.com/edgedelta/log-error-notifier/batch"
)

// State remembers when the last notification was sent. It lives for the
// lifetime of the process; a cold start resets it.
type State struct {
	mu           sync.Mutex
	lastSentAtMs int64
	cooldown     time.Duration
}

func NewState(cooldown time.Duration) *State {
	return &State{cooldown: cooldown}
}

// Allow reports whether b should produce a notification at now. It has no
// side effects; call MarkSent once the notification was delivered.
func (s *State) Allow(b batch.Batch, now time.Time) bool {
	if b.MessageType == batch.MessageTypeControl || len(b.LogEvents) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSentAtMs+s.cooldown.Milliseconds() < now.UnixMilli()
}

func (s *State) MarkSent(now time.Time) {
	s.mu.Lock()
	s.lastSentAtMs = now.UnixMilli()
	s.mu.Unlock()
}

// LastSentAt returns the zero time until the first notification is sent.
func (s *State) LastSentAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSentAtMs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.lastSentAtMs)
}

func (s *State) Cooldown() time.Duration {
	return s.cooldown
}
