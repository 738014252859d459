package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusLobby, StatusSpinning, true},
		{StatusLobby, StatusPlaying, false},
		{StatusSpinning, StatusPlaying, true},
		{StatusSpinning, StatusEvaluating, false},
		{StatusPlaying, StatusEvaluating, true},
		{StatusPlaying, StatusResults, false},
		{StatusEvaluating, StatusResults, true},
		{StatusEvaluating, StatusLobby, true},
		{StatusResults, StatusSpinning, true},
		{StatusResults, StatusLobby, false},
		{Status("BOGUS"), StatusSpinning, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
