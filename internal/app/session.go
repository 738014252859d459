package app

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"stoproom/internal/domain"
	"stoproom/internal/oracle"
	"stoproom/internal/scoring"
	"stoproom/internal/store"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// RoomSession drives one room's round lifecycle against the store and fans
// committed state changes out to connected clients. All transitions go
// through store.Update, so concurrent triggers resolve on committed state,
// never on session-local state.
type RoomSession struct {
	roomID string
	store  *store.RoomStore
	oracle oracle.Oracle
	clock  clockwork.Clock
	logger zerolog.Logger

	roundDuration time.Duration
	oracleTimeout time.Duration

	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex

	timer *roundTimer

	events    chan *domain.RoomEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewRoomSession creates a session for an already-stored room
func NewRoomSession(roomID string, st *store.RoomStore, orc oracle.Oracle, clock clockwork.Clock, roundDuration, oracleTimeout time.Duration, logger zerolog.Logger) *RoomSession {
	s := &RoomSession{
		roomID:        roomID,
		store:         st,
		oracle:        orc,
		clock:         clock,
		logger:        logger.With().Str("roomId", roomID).Logger(),
		roundDuration: roundDuration,
		oracleTimeout: oracleTimeout,
		clients:       make(map[string]ClientConnection),
		timer:         newRoundTimer(clock),
		events:        make(chan *domain.RoomEvent, 100),
		done:          make(chan struct{}),
	}

	go s.eventLoop()

	return s
}

// RoomID returns the room identifier
func (s *RoomSession) RoomID() string {
	return s.roomID
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// PlayerCount returns the number of players known to the room
func (s *RoomSession) PlayerCount() int {
	room, _, err := s.store.Get(s.roomID)
	if err != nil {
		return 0
	}
	return len(room.Players)
}

// OnlineCount returns the number of online players
func (s *RoomSession) OnlineCount() int {
	room, _, err := s.store.Get(s.roomID)
	if err != nil {
		return 0
	}
	return room.OnlineCount()
}

// CreatedAt returns when the room was created
func (s *RoomSession) CreatedAt() time.Time {
	room, _, err := s.store.Get(s.roomID)
	if err != nil {
		return time.Time{}
	}
	return room.CreatedAt
}

// Status returns the current round status
func (s *RoomSession) Status() domain.Status {
	room, _, err := s.store.Get(s.roomID)
	if err != nil {
		return ""
	}
	return room.Round.Status
}

// Join upserts a player's presence and broadcasts the updated player list
func (s *RoomSession) Join(playerID, name, avatar string) (*domain.Player, error) {
	var player *domain.Player
	room, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		p, err := r.Join(playerID, name, avatar, s.clock.Now())
		if err != nil {
			return err
		}
		player = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerJoined, s.roomID, roomUpdatePayload(room)))
	return player, nil
}

// MarkOffline flips a player's presence flag; the player record stays
func (s *RoomSession) MarkOffline(playerID string) {
	room, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		return r.MarkOffline(playerID, s.clock.Now())
	})
	if err != nil {
		if !errors.Is(err, domain.ErrPlayerNotFound) {
			s.logger.Error().Err(err).Str("playerId", playerID).Msg("failed to mark player offline")
		}
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerOffline, s.roomID, roomUpdatePayload(room)))
}

// StartRound begins a new round: LOBBY/RESULTS -> SPINNING with a fresh round
// id and cleared submissions. Host only (the first caller claims an empty
// host seat).
func (s *RoomSession) StartRound(callerID string) error {
	roundID := uuid.New().String()

	room, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		return r.StartRound(callerID, roundID, nil)
	})
	if err != nil {
		return err
	}

	s.timer.Disarm()
	s.logger.Info().Str("roundId", roundID).Str("hostId", room.HostID).Msg("round started")

	s.queueEvent(domain.NewEvent(domain.EventRoundSpinning, s.roomID, &domain.RoundSpinningPayload{
		RoundID:    roundID,
		Categories: room.Round.Categories,
	}))
	return nil
}

// LetterChosen fixes the round letter and starts the clock: SPINNING ->
// PLAYING. The host's client reports the roulette result; an empty letter
// asks the server to draw one uniformly from the room's alphabet.
func (s *RoomSession) LetterChosen(callerID, letter string) error {
	if letter == "" {
		room, _, err := s.store.Get(s.roomID)
		if err != nil {
			return err
		}
		alphabet := room.Language.Alphabet()
		letter = alphabet[rand.Intn(len(alphabet))]
	}

	var roundID string
	room, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		if !r.IsHost(callerID) {
			return domain.ErrNotHost
		}
		roundID = r.Round.RoundID
		return r.LetterChosen(roundID, letter, s.clock.Now())
	})
	if err != nil {
		return err
	}

	s.timer.Arm(roundID, s.roundDuration, s.handleTimerExpiry)
	s.logger.Info().Str("roundId", roundID).Str("letter", letter).Msg("letter chosen, round playing")

	s.queueEvent(domain.NewEvent(domain.EventRoundPlaying, s.roomID, &domain.RoundPlayingPayload{
		RoundID:    roundID,
		Letter:     room.Round.Letter,
		Categories: room.Round.Categories,
		StartTime:  room.Round.StartTime,
		Deadline:   room.Round.StartTime + s.roundDuration.Milliseconds(),
	}))
	return nil
}

// UpdateDrafts stores a player's in-progress answers for timer auto-submission
func (s *RoomSession) UpdateDrafts(playerID string, answers domain.AnswerSet) error {
	_, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		return r.SetDraft(playerID, answers)
	})
	return err
}

// Submit locks in a player's answers. A duplicate submit for the same round
// is ignored, leaving the first submission untouched.
func (s *RoomSession) Submit(playerID string, answers domain.AnswerSet) error {
	var duplicate bool
	room, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		err := r.Submit(r.Round.RoundID, playerID, answers, s.clock.Now())
		if errors.Is(err, domain.ErrAlreadySubmitted) {
			duplicate = true
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	if duplicate {
		return nil
	}

	s.queueEvent(domain.NewEvent(domain.EventSubmissionMade, s.roomID, &domain.SubmissionUpdatePayload{
		RoundID:      room.Round.RoundID,
		Players:      playerInfos(room),
		AllSubmitted: room.HasAllOnlinePlayersSubmitted(),
	}))
	return nil
}

// EvaluateRound is the host's trigger for evaluation. It is safe to call
// redundantly: the first trigger for a round wins, later ones are no-ops.
func (s *RoomSession) EvaluateRound(callerID string) error {
	room, _, err := s.store.Get(s.roomID)
	if err != nil {
		return err
	}
	if callerID != "" && !room.IsHost(callerID) {
		return domain.ErrNotHost
	}
	return s.evaluate(room.Round.RoundID)
}

// handleTimerExpiry force-submits every online player's draft answers and
// then triggers evaluation, exactly as if the host had clicked stop.
func (s *RoomSession) handleTimerExpiry(roundID string) {
	s.logger.Info().Str("roundId", roundID).Msg("round timer expired, auto-submitting drafts")

	forced := 0
	room, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		if r.Round.RoundID != roundID || r.Round.Status != domain.StatusPlaying {
			return domain.ErrWrongRound
		}
		forced = 0
		for _, p := range r.PlayersByJoinTime() {
			if !p.IsOnline || p.HasSubmitted(roundID) {
				continue
			}
			if err := r.Submit(roundID, p.ID, domain.AnswerSet(p.Drafts), s.clock.Now()); err == nil {
				forced++
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrWrongRound) {
			s.logger.Error().Err(err).Str("roundId", roundID).Msg("auto-submit failed")
		}
		return
	}

	if forced > 0 {
		s.queueEvent(domain.NewEvent(domain.EventSubmissionMade, s.roomID, &domain.SubmissionUpdatePayload{
			RoundID:      roundID,
			Players:      playerInfos(room),
			AllSubmitted: room.HasAllOnlinePlayersSubmitted(),
		}))
	}

	if err := s.evaluate(roundID); err != nil {
		s.logger.Error().Err(err).Str("roundId", roundID).Msg("evaluation after timer expiry failed")
	}
}

// evaluate runs the evaluation pipeline for a round: claim the EVALUATING
// transition, consult the oracles, score, commit the outcome. Concurrent
// calls for the same round are serialized by the claim; only the winner does
// the work.
func (s *RoomSession) evaluate(roundID string) error {
	var started bool
	room, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		st, err := r.BeginEvaluation(roundID)
		started = st
		return err
	})
	if err != nil {
		return err
	}
	if !started {
		return nil
	}

	s.timer.Disarm()
	s.queueEvent(domain.NewEvent(domain.EventRoundEvaluating, s.roomID, &domain.RoundEvaluatingPayload{RoundID: roundID}))

	if len(room.Submissions) == 0 {
		return s.abortRound(roundID, "no submissions to evaluate")
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.oracleTimeout)
	defer cancel()

	letter := room.Round.Letter
	categories := room.Round.Categories
	lang := room.Language

	opponentAnswers := make(map[string]string, len(categories))
	for _, cat := range categories {
		word, err := s.oracle.Word(ctx, letter, cat, lang)
		if err != nil {
			s.logger.Warn().Err(err).Str("category", cat).Msg("opponent generator failed, recording empty answer")
			word = ""
		}
		opponentAnswers[cat] = word
	}

	submissions := make(map[string]domain.AnswerSet, len(room.Submissions))
	validity := make(map[string]map[string]scoring.Verdict, len(room.Submissions))
	for playerID, sub := range room.Submissions {
		submissions[playerID] = sub.Answers.Clone()
		validity[playerID] = make(map[string]scoring.Verdict, len(categories))
		for _, cat := range categories {
			word := domain.NormalizeWord(sub.Answers[cat])
			if word == "" || !scoring.StartsWithLetter(word, letter) {
				continue // fails locally, no oracle call needed
			}
			verdict, err := s.oracle.Validate(ctx, letter, cat, word, lang)
			if err != nil {
				s.logger.Warn().Err(err).Str("playerId", playerID).Str("category", cat).Msg("validator failed for word")
				validity[playerID][cat] = scoring.Verdict{OracleErr: true}
				continue
			}
			validity[playerID][cat] = scoring.Verdict{Valid: verdict.IsValid}
		}
	}

	outcome := scoring.Evaluate(roundID, scoring.Input{
		Letter:          letter,
		Categories:      categories,
		Submissions:     submissions,
		OpponentAnswers: opponentAnswers,
		Validity:        validity,
	})

	if _, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		return r.CompleteEvaluation(roundID, outcome)
	}); err != nil {
		s.logger.Error().Err(err).Str("roundId", roundID).Msg("failed to commit round outcome")
		return s.abortRound(roundID, "failed to commit results")
	}

	s.logger.Info().Str("roundId", roundID).Int("players", len(outcome.PlayerResults)).Msg("round evaluated")
	s.queueEvent(domain.NewEvent(domain.EventRoundResults, s.roomID, &domain.RoundResultsPayload{Outcome: outcome}))
	return nil
}

// abortRound falls back to the lobby and notifies the room, host included
func (s *RoomSession) abortRound(roundID, reason string) error {
	if _, err := s.store.Update(s.roomID, func(r *domain.Room) error {
		return r.AbortRound(roundID)
	}); err != nil {
		return err
	}

	s.logger.Warn().Str("roundId", roundID).Str("reason", reason).Msg("round aborted")
	s.queueEvent(domain.NewEvent(domain.EventRoundAborted, s.roomID, &domain.RoundAbortedPayload{
		RoundID: roundID,
		Reason:  reason,
	}))
	return nil
}

// Snapshot returns the full room view a (re)connecting player needs
func (s *RoomSession) Snapshot(playerID string) (map[string]interface{}, error) {
	room, _, err := s.store.Get(s.roomID)
	if err != nil {
		return nil, err
	}

	snapshot := map[string]interface{}{
		"roomId":     room.ID,
		"hostId":     room.HostID,
		"language":   room.Language,
		"status":     room.Round.Status,
		"roundId":    room.Round.RoundID,
		"categories": room.Round.Categories,
		"players":    playerInfos(room),
	}

	switch room.Round.Status {
	case domain.StatusPlaying:
		snapshot["letter"] = room.Round.Letter
		snapshot["roundStartTime"] = room.Round.StartTime
		snapshot["deadline"] = room.Round.StartTime + s.roundDuration.Milliseconds()
		snapshot["allSubmitted"] = room.HasAllOnlinePlayersSubmitted()
	case domain.StatusResults:
		snapshot["letter"] = room.Round.Letter
		if outcome, ok := room.OutcomeFor(room.Round.RoundID); ok {
			snapshot["outcome"] = outcome
		}
	}

	if p, err := room.GetPlayer(playerID); err == nil {
		snapshot["hasSubmitted"] = p.HasSubmitted(room.Round.RoundID)
	}

	return snapshot, nil
}

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.RoomEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn().Str("type", string(event.Type)).Msg("event queue full, dropping event")
	}
}

// eventLoop processes events and broadcasts to clients
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the addressed client, or to everyone
func (s *RoomSession) broadcastEvent(event *domain.RoomEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug().Err(err).Str("playerId", event.PlayerID).Msg("failed to send to client")
			}
		}
		return
	}

	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug().Err(err).Str("playerId", playerID).Msg("failed to send to client")
		}
	}
}

// Close shuts down the session and all client connections
func (s *RoomSession) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.timer.Disarm()

		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}

// roomUpdatePayload builds the broadcast view of a room's player list
func roomUpdatePayload(room *domain.Room) *domain.RoomUpdatePayload {
	return &domain.RoomUpdatePayload{
		Players:      playerInfos(room),
		HostID:       room.HostID,
		Status:       room.Round.Status,
		AllSubmitted: room.HasAllOnlinePlayersSubmitted(),
	}
}

func playerInfos(room *domain.Room) []domain.PlayerInfo {
	players := room.PlayersByJoinTime()
	infos := make([]domain.PlayerInfo, 0, len(players))
	for _, p := range players {
		infos = append(infos, p.ToInfo(room.Round.RoundID))
	}
	return infos
}
