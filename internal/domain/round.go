package domain

// RoundState holds the lifecycle state of the room's current round.
// Letter and StartTime are set exactly once per round id.
type RoundState struct {
	Status     Status   `json:"status"`
	RoundID    string   `json:"roundId,omitempty"`
	Letter     string   `json:"letter,omitempty"`
	Categories []string `json:"categories"`
	StartTime  int64    `json:"roundStartTime,omitempty"` // epoch millis, set when PLAYING begins
}

// NewRoundState returns the initial lobby state for a room
func NewRoundState(categories []string) RoundState {
	return RoundState{
		Status:     StatusLobby,
		Categories: append([]string(nil), categories...),
	}
}

// Clone returns a copy of the round state
func (r RoundState) Clone() RoundState {
	cp := r
	cp.Categories = append([]string(nil), r.Categories...)
	return cp
}
