// Package store holds the authoritative, versioned state for every room.
// Readers get deep copies; writers commit through compare-and-set so every
// transition is a total function of previously committed state. The store is
// the single source of truth: no client-side state is authoritative.
package store

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"stoproom/internal/domain"
)

// Store errors
var (
	ErrRoomExists      = errors.New("room already exists")
	ErrVersionConflict = errors.New("room state version conflict")
)

type entry struct {
	room    *domain.Room
	version uint64
}

// RoomStore is an in-memory versioned store for rooms
type RoomStore struct {
	mu     sync.RWMutex
	rooms  map[string]*entry
	logger zerolog.Logger
}

// New creates an empty store
func New(logger zerolog.Logger) *RoomStore {
	return &RoomStore{
		rooms:  make(map[string]*entry),
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// Create commits version 1 of a new room
func (s *RoomStore) Create(room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[room.ID]; ok {
		return ErrRoomExists
	}
	s.rooms[room.ID] = &entry{room: room.Clone(), version: 1}
	return nil
}

// Get returns a deep copy of the room and its committed version
func (s *RoomStore) Get(roomID string) (*domain.Room, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.rooms[roomID]
	if !ok {
		return nil, 0, domain.ErrRoomNotFound
	}
	return e.room.Clone(), e.version, nil
}

// Commit replaces the room state if expected matches the committed version
func (s *RoomStore) Commit(roomID string, expected uint64, next *domain.Room) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.rooms[roomID]
	if !ok {
		return 0, domain.ErrRoomNotFound
	}
	if e.version != expected {
		return e.version, ErrVersionConflict
	}
	e.room = next.Clone()
	e.version++
	return e.version, nil
}

// Update runs fn against a snapshot and commits the result, retrying on
// version conflicts. fn must be a pure function of the snapshot: it may run
// more than once. The committed room copy is returned.
func (s *RoomStore) Update(roomID string, fn func(*domain.Room) error) (*domain.Room, error) {
	for {
		room, version, err := s.Get(roomID)
		if err != nil {
			return nil, err
		}
		if err := fn(room); err != nil {
			return room, err
		}
		if _, err := s.Commit(roomID, version, room); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				s.logger.Debug().Str("roomId", roomID).Msg("commit conflict, retrying")
				continue
			}
			return nil, err
		}
		return room, nil
	}
}

// Delete removes a room
func (s *RoomStore) Delete(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

// Exists reports whether a room is present
func (s *RoomStore) Exists(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok
}

// Len returns the number of rooms
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// RoomIDs returns the ids of all rooms
func (s *RoomStore) RoomIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}
