package app

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// roundTimer is the per-round countdown. It is armed when PLAYING begins and
// disarmed on any path that leaves PLAYING; firing invokes the session's
// expiry handler exactly once for the round it was armed for.
type roundTimer struct {
	clock clockwork.Clock

	mu      sync.Mutex
	timer   clockwork.Timer
	roundID string
	stop    chan struct{}
}

func newRoundTimer(clock clockwork.Clock) *roundTimer {
	return &roundTimer{clock: clock}
}

// Arm schedules onExpiry for the given round, replacing any previous timer
func (t *roundTimer) Arm(roundID string, d time.Duration, onExpiry func(roundID string)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.disarmLocked()

	timer := t.clock.NewTimer(d)
	stop := make(chan struct{})
	t.timer = timer
	t.roundID = roundID
	t.stop = stop

	go func() {
		select {
		case <-timer.Chan():
			onExpiry(roundID)
		case <-stop:
			if !timer.Stop() {
				select {
				case <-timer.Chan():
				default:
				}
			}
		}
	}()
}

// Disarm cancels the pending timer, if any
func (t *roundTimer) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarmLocked()
}

// ArmedFor returns the round id the timer is currently armed for
func (t *roundTimer) ArmedFor() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return ""
	}
	return t.roundID
}

func (t *roundTimer) disarmLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
		t.timer = nil
		t.roundID = ""
	}
}
