package app

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stoproom/internal/domain"
	"stoproom/internal/store"
)

func newTestHub(t *testing.T, clock clockwork.Clock, opts HubOptions) (*RoomHub, *store.RoomStore) {
	t.Helper()
	st := store.New(zerolog.Nop())
	hub := NewRoomHub(st, &stubOracle{}, clock, opts, zerolog.Nop())
	t.Cleanup(hub.Close)
	return hub, st
}

func TestCreateRoom(t *testing.T) {
	hub, st := newTestHub(t, clockwork.NewFakeClock(), HubOptions{})

	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	code := session.RoomID()
	assert.Len(t, code, DefaultRoomCodeLength)
	for _, c := range code {
		assert.True(t, strings.ContainsRune(RoomCodeChars, c), "unexpected room code char %q", c)
	}

	room, _, err := st.Get(code)
	require.NoError(t, err)
	assert.Equal(t, domain.LangEN, room.Language)
	assert.Equal(t, domain.StatusLobby, room.Round.Status)
	assert.Equal(t, 1, hub.RoomCount())
}

func TestCreateRoom_AppliesOptions(t *testing.T) {
	hub, st := newTestHub(t, clockwork.NewFakeClock(), HubOptions{
		RoomCodeLength: 4,
		MaxPlayers:     3,
		RoundDuration:  time.Minute,
		Categories: map[domain.Language][]string{
			domain.LangEN: {"Movie", "Band"},
		},
	})

	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)
	assert.Len(t, session.RoomID(), 4)

	room, _, err := st.Get(session.RoomID())
	require.NoError(t, err)
	assert.Equal(t, 3, room.Settings.MaxPlayers)
	assert.Equal(t, time.Minute, room.Settings.RoundDuration)
	assert.Equal(t, []string{"Movie", "Band"}, room.Round.Categories)
}

func TestCreateRoom_FallsBackToBuiltInCategories(t *testing.T) {
	hub, st := newTestHub(t, clockwork.NewFakeClock(), HubOptions{})

	session, err := hub.CreateRoom(domain.LangES)
	require.NoError(t, err)

	room, _, err := st.Get(session.RoomID())
	require.NoError(t, err)
	assert.Equal(t, domain.LangES.DefaultCategories(), room.Round.Categories)
}

func TestGetSession(t *testing.T) {
	hub, _ := newTestHub(t, clockwork.NewFakeClock(), HubOptions{})

	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	found, err := hub.GetSession(session.RoomID())
	require.NoError(t, err)
	assert.Same(t, session, found)

	_, err = hub.GetSession("NOPE")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDeleteSession(t *testing.T) {
	hub, st := newTestHub(t, clockwork.NewFakeClock(), HubOptions{})

	session, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)
	code := session.RoomID()

	hub.DeleteSession(code)

	assert.Equal(t, 0, hub.RoomCount())
	assert.False(t, st.Exists(code))
	_, err = hub.GetSession(code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestTotalPlayerCount(t *testing.T) {
	hub, _ := newTestHub(t, clockwork.NewFakeClock(), HubOptions{})

	s1, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)
	s2, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	_, err = s1.Join("p1", "Ana", "")
	require.NoError(t, err)
	_, err = s1.Join("p2", "Ben", "")
	require.NoError(t, err)
	_, err = s2.Join("p3", "Cat", "")
	require.NoError(t, err)

	assert.Equal(t, 3, hub.TotalPlayerCount())
}

func TestCleanupStaleRooms(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub, st := newTestHub(t, clock, HubOptions{StaleRoomTimeout: time.Hour})

	stale, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)
	active, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)
	_, err = active.Join("p1", "Ana", "")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	hub.cleanupStaleRooms()

	assert.Equal(t, 1, hub.RoomCount())
	assert.False(t, st.Exists(stale.RoomID()))
	assert.True(t, st.Exists(active.RoomID()))
}

func TestCleanupStaleRooms_KeepsFreshEmptyRooms(t *testing.T) {
	clock := clockwork.NewFakeClock()
	hub, _ := newTestHub(t, clock, HubOptions{StaleRoomTimeout: time.Hour})

	_, err := hub.CreateRoom(domain.LangEN)
	require.NoError(t, err)

	clock.Advance(30 * time.Minute)
	hub.cleanupStaleRooms()

	assert.Equal(t, 1, hub.RoomCount())
}
