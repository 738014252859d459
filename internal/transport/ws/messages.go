package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgJoinRoom      MessageType = "join_room"
	MsgStartRound    MessageType = "start_round"
	MsgLetterChosen  MessageType = "letter_chosen"
	MsgUpdateAnswers MessageType = "update_answers"
	MsgSubmitAnswers MessageType = "submit_answers"
	MsgEvaluateRound MessageType = "evaluate_round"
	MsgLeaveRoom     MessageType = "leave_room"
	MsgPing          MessageType = "ping"
)

// Server → Client message types (room events are forwarded with their own
// event type; these cover the connection-scoped messages)
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ConnectedPayload is the payload for the connected message
type ConnectedPayload struct {
	PlayerID  string                 `json:"playerId"`
	RoomCode  string                 `json:"roomCode"`
	RoomState map[string]interface{} `json:"roomState"`
}

// ErrorPayload is the payload for error messages
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage = "INVALID_MESSAGE"
	ErrCodeRoomNotFound   = "ROOM_NOT_FOUND"
	ErrCodeRoomFull       = "ROOM_FULL"
	ErrCodeNotHost        = "NOT_HOST"
	ErrCodeWrongRound     = "WRONG_ROUND"
	ErrCodeInvalidAction  = "INVALID_ACTION"
	ErrCodeInvalidLetter  = "INVALID_LETTER"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)
