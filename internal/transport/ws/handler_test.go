package ws_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stoproom/internal/app"
	"stoproom/internal/domain"
	"stoproom/internal/oracle"
	"stoproom/internal/store"
	"stoproom/internal/transport/ws"
)

func newWSFixture(t *testing.T) (*httptest.Server, *app.RoomHub) {
	t.Helper()

	st := store.New(zerolog.Nop())
	hub := app.NewRoomHub(st, oracle.NewWordlist(), clockwork.NewRealClock(), app.HubOptions{}, zerolog.Nop())
	t.Cleanup(hub.Close)

	ts := httptest.NewServer(ws.NewHandler(hub, zerolog.Nop()))
	t.Cleanup(ts.Close)

	return ts, hub
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitFor reads messages until one with the wanted type arrives. Frames may
// carry several newline-separated messages when the write pump batches.
func waitFor(t *testing.T, conn *websocket.Conn, wanted string) map[string]interface{} {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))

	for time.Now().Before(deadline) {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		for _, raw := range strings.Split(string(data), "\n") {
			if raw == "" {
				continue
			}
			var msg map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(raw), &msg))
			if msg["type"] == wanted {
				return msg
			}
		}
	}
	t.Fatalf("no %q message received", wanted)
	return nil
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type":    msgType,
		"payload": payload,
	}))
}

func TestHandler_RequiresRoomCode(t *testing.T) {
	ts, _ := newWSFixture(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandler_UnknownRoomRejected(t *testing.T) {
	ts, _ := newWSFixture(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/?roomCode=ZZZZZZ"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestHandler_ConnectDeliversSnapshot(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	conn := dial(t, ts, "roomCode="+session.RoomID()+"&name=Ana")

	msg := waitFor(t, conn, "connected")
	payload := msg["payload"].(map[string]interface{})
	assert.NotEmpty(t, payload["playerId"])
	assert.Equal(t, session.RoomID(), payload["roomCode"])

	state := payload["roomState"].(map[string]interface{})
	assert.Equal(t, "LOBBY", state["status"])
	assert.Len(t, state["players"], 1)
}

func TestHandler_ReconnectKeepsPlayerID(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	conn := dial(t, ts, "roomCode="+session.RoomID()+"&playerId=stable-id&name=Ana")
	conn.Close()

	conn = dial(t, ts, "roomCode="+session.RoomID()+"&playerId=stable-id&name=Ana")
	msg := waitFor(t, conn, "connected")
	payload := msg["payload"].(map[string]interface{})
	assert.Equal(t, "stable-id", payload["playerId"])

	// the same identity must not multiply the player list
	state := payload["roomState"].(map[string]interface{})
	assert.Len(t, state["players"], 1)
}

func TestHandler_LowercaseRoomCodeAccepted(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	conn := dial(t, ts, "roomCode="+strings.ToLower(session.RoomID()))
	waitFor(t, conn, "connected")
}

func TestRoundFlowOverWebsocket(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	host := dial(t, ts, "roomCode="+session.RoomID()+"&playerId=host&name=Ana")
	waitFor(t, host, "connected")

	send(t, host, "start_round", nil)
	spinning := waitFor(t, host, "ROUND_SPINNING")
	roundPayload := spinning["payload"].(map[string]interface{})
	assert.NotEmpty(t, roundPayload["roundId"])

	send(t, host, "letter_chosen", map[string]interface{}{"letter": "P"})
	playing := waitFor(t, host, "ROUND_PLAYING")
	playingPayload := playing["payload"].(map[string]interface{})
	assert.Equal(t, "P", playingPayload["letter"])
	assert.NotZero(t, playingPayload["deadline"])

	send(t, host, "submit_answers", map[string]interface{}{
		"answers": map[string]string{"Animal": "Penguin"},
	})
	submitted := waitFor(t, host, "SUBMISSION_MADE")
	assert.Equal(t, true, submitted["payload"].(map[string]interface{})["allSubmitted"])
}

func TestHandler_NonHostCannotStartRound(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	host := dial(t, ts, "roomCode="+session.RoomID()+"&playerId=host&name=Ana")
	waitFor(t, host, "connected")

	guest := dial(t, ts, "roomCode="+session.RoomID()+"&playerId=guest&name=Ben")
	waitFor(t, guest, "connected")

	send(t, guest, "start_round", nil)
	errMsg := waitFor(t, guest, "error")
	assert.Equal(t, "NOT_HOST", errMsg["payload"].(map[string]interface{})["code"])
}

func TestHandler_PingPong(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	conn := dial(t, ts, "roomCode="+session.RoomID())
	waitFor(t, conn, "connected")

	send(t, conn, "ping", nil)
	waitFor(t, conn, "pong")
}

func TestHandler_MalformedMessage(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	conn := dial(t, ts, "roomCode="+session.RoomID())
	waitFor(t, conn, "connected")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	errMsg := waitFor(t, conn, "error")
	assert.Equal(t, "INVALID_MESSAGE", errMsg["payload"].(map[string]interface{})["code"])
}

func TestHandler_LeaveRoomMarksOffline(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	conn := dial(t, ts, "roomCode="+session.RoomID()+"&playerId=p1&name=Ana")
	waitFor(t, conn, "connected")

	send(t, conn, "leave_room", nil)

	require.Eventually(t, func() bool {
		return session.OnlineCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, session.PlayerCount())
}

func TestHandler_DisconnectMarksOffline(t *testing.T) {
	ts, hub := newWSFixture(t)
	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	conn := dial(t, ts, "roomCode="+session.RoomID()+"&playerId=p1&name=Ana")
	waitFor(t, conn, "connected")
	conn.Close()

	require.Eventually(t, func() bool {
		return session.OnlineCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, session.PlayerCount())
}
