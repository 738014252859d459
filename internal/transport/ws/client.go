package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"stoproom/internal/app"
	"stoproom/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn     *websocket.Conn
	session  *app.RoomSession
	playerID string
	name     string
	avatar   string
	send     chan []byte
	done     chan struct{}
	logger   zerolog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, session *app.RoomSession, playerID, name, avatar string, logger zerolog.Logger) *Client {
	return &Client{
		conn:     conn,
		session:  session,
		playerID: playerID,
		name:     name,
		avatar:   avatar,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
		logger:   logger.With().Str("playerId", playerID).Logger(),
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn().Msg("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.session.UnregisterClient(c.playerID)
		c.session.MarkOffline(c.playerID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	switch msg.Type {
	case MsgJoinRoom:
		c.handleJoinRoom()
	case MsgStartRound:
		c.handleStartRound()
	case MsgLetterChosen:
		c.handleLetterChosen(msg.Payload)
	case MsgUpdateAnswers:
		c.handleUpdateAnswers(msg.Payload)
	case MsgSubmitAnswers:
		c.handleSubmitAnswers(msg.Payload)
	case MsgEvaluateRound:
		c.handleEvaluateRound()
	case MsgLeaveRoom:
		// Closing the connection drives the read pump's teardown, which
		// unregisters the client and marks the player offline.
		c.Close()
	case MsgPing:
		c.sendPong()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoinRoom handles a join_room message
func (c *Client) handleJoinRoom() {
	if _, err := c.session.Join(c.playerID, c.name, c.avatar); err != nil {
		if errors.Is(err, domain.ErrRoomFull) {
			c.sendError(ErrCodeRoomFull, "Room is full")
		} else {
			c.sendError(ErrCodeInternalError, err.Error())
		}
		return
	}

	c.sendConnected()
}

// handleStartRound handles a start_round message
func (c *Client) handleStartRound() {
	if err := c.session.StartRound(c.playerID); err != nil {
		c.sendDomainError(err, "Cannot start a round now")
	}
}

// handleLetterChosen handles a letter_chosen message
func (c *Client) handleLetterChosen(payload interface{}) {
	letter := ""
	if payloadMap, ok := payload.(map[string]interface{}); ok {
		letter, _ = payloadMap["letter"].(string)
	}

	if err := c.session.LetterChosen(c.playerID, letter); err != nil {
		c.sendDomainError(err, "Cannot choose a letter now")
	}
}

// handleUpdateAnswers handles an update_answers message
func (c *Client) handleUpdateAnswers(payload interface{}) {
	answers, ok := parseAnswers(payload)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Answers are required")
		return
	}

	if err := c.session.UpdateDrafts(c.playerID, answers); err != nil {
		// Draft updates outside PLAYING are dropped quietly
		if !errors.Is(err, domain.ErrWrongPhase) {
			c.sendDomainError(err, "Cannot update answers now")
		}
	}
}

// handleSubmitAnswers handles a submit_answers message
func (c *Client) handleSubmitAnswers(payload interface{}) {
	answers, ok := parseAnswers(payload)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Answers are required")
		return
	}

	if err := c.session.Submit(c.playerID, answers); err != nil {
		c.sendDomainError(err, "Cannot submit now")
	}
}

// handleEvaluateRound handles an evaluate_round message
func (c *Client) handleEvaluateRound() {
	if err := c.session.EvaluateRound(c.playerID); err != nil {
		c.sendDomainError(err, "Cannot evaluate now")
	}
}

// sendDomainError maps domain errors to wire error codes
func (c *Client) sendDomainError(err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotHost):
		c.sendError(ErrCodeNotHost, "Only the host can perform this action")
	case errors.Is(err, domain.ErrWrongRound):
		c.sendError(ErrCodeWrongRound, "Round id does not match the current round")
	case errors.Is(err, domain.ErrWrongPhase), errors.Is(err, domain.ErrLetterAlreadySet):
		c.sendError(ErrCodeInvalidAction, fallback)
	case errors.Is(err, domain.ErrInvalidLetter):
		c.sendError(ErrCodeInvalidLetter, "Letter is not part of the room's alphabet")
	case errors.Is(err, domain.ErrPlayerNotFound):
		c.sendError(ErrCodeInvalidAction, "Join the room first")
	default:
		c.sendError(ErrCodeInternalError, err.Error())
	}
}

// parseAnswers extracts the category->text map from a message payload
func parseAnswers(payload interface{}) (domain.AnswerSet, bool) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		return nil, false
	}
	raw, ok := payloadMap["answers"].(map[string]interface{})
	if !ok {
		return nil, false
	}

	answers := make(domain.AnswerSet, len(raw))
	for category, value := range raw {
		if text, ok := value.(string); ok {
			answers[category] = text
		}
	}
	return answers, true
}

// sendConnected sends the connected message with the full room snapshot
func (c *Client) sendConnected() {
	snapshot, err := c.session.Snapshot(c.playerID)
	if err != nil {
		c.sendError(ErrCodeInternalError, err.Error())
		return
	}

	payload := &ConnectedPayload{
		PlayerID:  c.playerID,
		RoomCode:  c.session.RoomID(),
		RoomState: snapshot,
	}

	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	c.Send(NewServerMessage(MsgError, payload))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
