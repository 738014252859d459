package app

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTimer_FiresOnExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := newRoundTimer(clock)

	fired := make(chan string, 1)
	timer.Arm("round-1", time.Minute, func(roundID string) { fired <- roundID })
	assert.Equal(t, "round-1", timer.ArmedFor())

	clock.BlockUntil(1)
	clock.Advance(time.Minute)

	select {
	case roundID := <-fired:
		assert.Equal(t, "round-1", roundID)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestRoundTimer_DisarmStopsExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := newRoundTimer(clock)

	fired := make(chan string, 1)
	timer.Arm("round-1", time.Minute, func(roundID string) { fired <- roundID })
	clock.BlockUntil(1)

	timer.Disarm()
	assert.Equal(t, "", timer.ArmedFor())

	clock.Advance(2 * time.Minute)
	select {
	case <-fired:
		t.Fatal("disarmed timer fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRoundTimer_RearmReplacesPrevious(t *testing.T) {
	clock := clockwork.NewFakeClock()
	timer := newRoundTimer(clock)

	fired := make(chan string, 2)
	timer.Arm("round-1", time.Minute, func(roundID string) { fired <- roundID })
	clock.BlockUntil(1)
	timer.Arm("round-2", time.Minute, func(roundID string) { fired <- roundID })
	assert.Equal(t, "round-2", timer.ArmedFor())

	clock.BlockUntil(1)
	clock.Advance(time.Minute)

	select {
	case roundID := <-fired:
		require.Equal(t, "round-2", roundID)
	case <-time.After(time.Second):
		t.Fatal("replacement timer did not fire")
	}

	select {
	case roundID := <-fired:
		t.Fatalf("replaced timer fired for %s", roundID)
	case <-time.After(50 * time.Millisecond):
	}
}
