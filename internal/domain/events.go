package domain

import "time"

// EventType represents the type of room event
type EventType string

const (
	EventPlayerJoined    EventType = "PLAYER_JOINED"
	EventPlayerOffline   EventType = "PLAYER_OFFLINE"
	EventRoundSpinning   EventType = "ROUND_SPINNING"
	EventRoundPlaying    EventType = "ROUND_PLAYING"
	EventSubmissionMade  EventType = "SUBMISSION_MADE"
	EventRoundEvaluating EventType = "ROUND_EVALUATING"
	EventRoundResults    EventType = "ROUND_RESULTS"
	EventRoundAborted    EventType = "ROUND_ABORTED"
)

// RoomEvent represents an event that occurred in a room
type RoomEvent struct {
	Type      EventType   `json:"type"`
	RoomID    string      `json:"roomId"`
	PlayerID  string      `json:"playerId,omitempty"` // If event is player-specific
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a new room event
func NewEvent(eventType EventType, roomID string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomID:    roomID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates a room event addressed to a single player
func NewPlayerEvent(eventType EventType, roomID, playerID string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomID:    roomID,
		PlayerID:  playerID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Payload types for different events

// RoomUpdatePayload is sent when the player list or lobby state changes
type RoomUpdatePayload struct {
	Players      []PlayerInfo `json:"players"`
	HostID       string       `json:"hostId,omitempty"`
	Status       Status       `json:"status"`
	AllSubmitted bool         `json:"allSubmitted"`
}

// RoundSpinningPayload is sent when a round starts spinning
type RoundSpinningPayload struct {
	RoundID    string   `json:"roundId"`
	Categories []string `json:"categories"`
}

// RoundPlayingPayload is sent when the letter is fixed and the clock starts
type RoundPlayingPayload struct {
	RoundID    string   `json:"roundId"`
	Letter     string   `json:"letter"`
	Categories []string `json:"categories"`
	StartTime  int64    `json:"roundStartTime"`
	Deadline   int64    `json:"deadline"` // epoch millis
}

// SubmissionUpdatePayload is sent when a player locks in answers
type SubmissionUpdatePayload struct {
	RoundID      string       `json:"roundId"`
	Players      []PlayerInfo `json:"players"`
	AllSubmitted bool         `json:"allSubmitted"`
}

// RoundEvaluatingPayload is sent when evaluation begins
type RoundEvaluatingPayload struct {
	RoundID string `json:"roundId"`
}

// RoundResultsPayload carries the committed outcome
type RoundResultsPayload struct {
	Outcome *RoundOutcome `json:"outcome"`
}

// RoundAbortedPayload is sent when evaluation falls back to the lobby
type RoundAbortedPayload struct {
	RoundID string `json:"roundId"`
	Reason  string `json:"reason"`
}
