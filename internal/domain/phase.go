package domain

// Status represents the current phase of a room's round lifecycle
type Status string

const (
	StatusLobby      Status = "LOBBY"      // Waiting for the host to start a round
	StatusSpinning   Status = "SPINNING"   // Letter roulette running, no letter yet
	StatusPlaying    Status = "PLAYING"    // Players filling in answers against the clock
	StatusEvaluating Status = "EVALUATING" // Host evaluating submissions via the oracles
	StatusResults    Status = "RESULTS"    // Round outcome published
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition from the current status to the target status is valid
func (s Status) CanTransitionTo(target Status) bool {
	validTransitions := map[Status][]Status{
		StatusLobby:      {StatusSpinning},
		StatusSpinning:   {StatusPlaying},
		StatusPlaying:    {StatusEvaluating},
		StatusEvaluating: {StatusResults, StatusLobby}, // Aborted rounds fall back to the lobby
		StatusResults:    {StatusSpinning},
	}

	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}
