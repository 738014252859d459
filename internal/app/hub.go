package app

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"stoproom/internal/domain"
	"stoproom/internal/oracle"
	"stoproom/internal/store"
)

// DefaultRoomCodeLength is the default length for room codes
const DefaultRoomCodeLength = 6

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// HubOptions configures a RoomHub
type HubOptions struct {
	RoomCodeLength   int
	MaxPlayers       int
	RoundDuration    time.Duration
	OracleTimeout    time.Duration
	StaleRoomTimeout time.Duration
	Categories       map[domain.Language][]string // per-language overrides, nil = built-ins
}

// RoomHub manages all active room sessions on top of the shared store
type RoomHub struct {
	store    *store.RoomStore
	oracle   oracle.Oracle
	clock    clockwork.Clock
	logger   zerolog.Logger
	opts     HubOptions
	sessions map[string]*RoomSession
	mu       sync.RWMutex
	done     chan struct{}
}

// NewRoomHub creates a new hub and starts its cleanup loop
func NewRoomHub(st *store.RoomStore, orc oracle.Oracle, clock clockwork.Clock, opts HubOptions, logger zerolog.Logger) *RoomHub {
	if opts.RoomCodeLength == 0 {
		opts.RoomCodeLength = DefaultRoomCodeLength
	}
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = domain.DefaultRoomSettings().MaxPlayers
	}
	if opts.RoundDuration == 0 {
		opts.RoundDuration = domain.DefaultRoomSettings().RoundDuration
	}
	if opts.OracleTimeout == 0 {
		opts.OracleTimeout = 15 * time.Second
	}
	if opts.StaleRoomTimeout == 0 {
		opts.StaleRoomTimeout = 2 * time.Hour
	}

	hub := &RoomHub{
		store:    st,
		oracle:   orc,
		clock:    clock,
		logger:   logger.With().Str("component", "hub").Logger(),
		opts:     opts,
		sessions: make(map[string]*RoomSession),
		done:     make(chan struct{}),
	}

	go hub.cleanupLoop()

	return hub
}

// CreateRoom creates a new room and returns its session
func (h *RoomHub) CreateRoom(lang domain.Language) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		roomCode = h.generateRoomCode()
		if _, exists := h.sessions[roomCode]; !exists {
			break
		}
	}
	if _, exists := h.sessions[roomCode]; exists {
		return nil, fmt.Errorf("failed to generate unique room code")
	}

	settings := domain.RoomSettings{
		MaxPlayers:    h.opts.MaxPlayers,
		RoundDuration: h.opts.RoundDuration,
	}
	room := domain.NewRoom(roomCode, lang, h.opts.Categories[lang], settings, h.clock.Now())
	if err := h.store.Create(room); err != nil {
		return nil, err
	}

	session := NewRoomSession(roomCode, h.store, h.oracle, h.clock, h.opts.RoundDuration, h.opts.OracleTimeout, h.logger)
	h.sessions[roomCode] = session

	h.logger.Info().Str("roomCode", roomCode).Str("language", string(lang)).Msg("room created")

	return session, nil
}

// GetSession returns a room session by room code
func (h *RoomHub) GetSession(roomCode string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// DeleteSession removes a room and its session
func (h *RoomHub) DeleteSession(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[roomCode]; ok {
		session.Close()
		delete(h.sessions, roomCode)
		h.store.Delete(roomCode)
		h.logger.Info().Str("roomCode", roomCode).Msg("room deleted")
	}
}

// RoomCount returns the number of active rooms
func (h *RoomHub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// TotalPlayerCount returns the total number of players across all rooms
func (h *RoomHub) TotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *RoomHub) Close() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*RoomSession)
}

// generateRoomCode generates a random room code
func (h *RoomHub) generateRoomCode() string {
	b := make([]byte, h.opts.RoomCodeLength)
	rand.Read(b)

	code := make([]byte, h.opts.RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// cleanupLoop periodically cleans up stale rooms
func (h *RoomHub) cleanupLoop() {
	ticker := h.clock.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.Chan():
			h.cleanupStaleRooms()
		}
	}
}

// cleanupStaleRooms removes rooms with nobody online past the stale timeout
func (h *RoomHub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.clock.Now()
	stale := make([]string, 0)

	for roomCode, session := range h.sessions {
		if session.OnlineCount() == 0 && now.Sub(session.CreatedAt()) > h.opts.StaleRoomTimeout {
			stale = append(stale, roomCode)
		}
	}

	for _, roomCode := range stale {
		if session, ok := h.sessions[roomCode]; ok {
			session.Close()
			delete(h.sessions, roomCode)
			h.store.Delete(roomCode)
			h.logger.Info().Str("roomCode", roomCode).Msg("stale room cleaned up")
		}
	}
}
