package domain

import (
	"sort"
	"strings"
	"time"
)

// RoomSettings holds configurable room parameters
type RoomSettings struct {
	MaxPlayers    int           `json:"maxPlayers"`
	RoundDuration time.Duration `json:"roundDuration"`
}

// DefaultRoomSettings returns the default room settings
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MaxPlayers:    10,
		RoundDuration: 90 * time.Second,
	}
}

// Room is the authoritative state for one game room: players, the current
// round lifecycle, submissions and outcomes. All mutations go through the
// methods below; the store owns committed copies.
type Room struct {
	ID          string                   `json:"id"`
	HostID      string                   `json:"hostId,omitempty"`
	Language    Language                 `json:"language"`
	Players     map[string]*Player       `json:"players"`
	Round       RoundState               `json:"round"`
	Submissions map[string]*Submission   `json:"submissions"` // playerID -> submission, current round only
	Outcomes    map[string]*RoundOutcome `json:"outcomes"`    // roundID -> outcome
	Settings    RoomSettings             `json:"settings"`
	CreatedAt   time.Time                `json:"createdAt"`
}

// NewRoom creates a room in the lobby state
func NewRoom(id string, lang Language, categories []string, settings RoomSettings, now time.Time) *Room {
	if len(categories) == 0 {
		categories = lang.DefaultCategories()
	}
	return &Room{
		ID:          id,
		Language:    lang,
		Players:     make(map[string]*Player),
		Round:       NewRoundState(categories),
		Submissions: make(map[string]*Submission),
		Outcomes:    make(map[string]*RoundOutcome),
		Settings:    settings,
		CreatedAt:   now,
	}
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(playerID string) bool {
	return r.HostID != "" && r.HostID == playerID
}

// Join upserts a player's presence record. The first authenticated identity
// to join an unhosted room claims the host seat.
func (r *Room) Join(playerID, name, avatar string, now time.Time) (*Player, error) {
	if p, ok := r.Players[playerID]; ok {
		p.IsOnline = true
		p.LastSeen = now
		if name != "" {
			p.Name = name
		}
		if avatar != "" {
			p.Avatar = avatar
		}
		if r.HostID == "" {
			r.HostID = playerID
		}
		return p, nil
	}

	if len(r.Players) >= r.Settings.MaxPlayers {
		return nil, ErrRoomFull
	}

	player := NewPlayer(playerID, name, avatar, now)
	r.Players[playerID] = player

	if r.HostID == "" {
		r.HostID = playerID
	}

	return player, nil
}

// MarkOffline flips a player's presence. The record is kept and the host seat
// is not reassigned; an offline host remains host.
func (r *Room) MarkOffline(playerID string, now time.Time) error {
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	p.IsOnline = false
	p.LastSeen = now
	return nil
}

// GetPlayer returns a player by ID
func (r *Room) GetPlayer(playerID string) (*Player, error) {
	p, ok := r.Players[playerID]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// PlayersByJoinTime returns all players ordered by join time
func (r *Room) PlayersByJoinTime() []*Player {
	players := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].JoinedAt.Equal(players[j].JoinedAt) {
			return players[i].ID < players[j].ID
		}
		return players[i].JoinedAt.Before(players[j].JoinedAt)
	})
	return players
}

// OnlineCount returns the number of online players
func (r *Room) OnlineCount() int {
	n := 0
	for _, p := range r.Players {
		if p.IsOnline {
			n++
		}
	}
	return n
}

// StartRound moves LOBBY/RESULTS -> SPINNING with a fresh round id: clears
// submissions and drafts, resets letter and start time, and re-resolves the
// category set. Caller must be the host, or becomes host if the seat is empty.
func (r *Room) StartRound(callerID, roundID string, categories []string) error {
	if r.HostID == "" {
		r.HostID = callerID
	}
	if !r.IsHost(callerID) {
		return ErrNotHost
	}
	if !r.Round.Status.CanTransitionTo(StatusSpinning) {
		return ErrWrongPhase
	}

	if len(categories) == 0 {
		categories = r.Language.DefaultCategories()
	}

	r.Round = RoundState{
		Status:     StatusSpinning,
		RoundID:    roundID,
		Categories: append([]string(nil), categories...),
	}
	r.Submissions = make(map[string]*Submission)
	for _, p := range r.Players {
		p.ResetForNewRound()
	}
	return nil
}

// LetterChosen moves SPINNING -> PLAYING, fixing the letter and start time
// for the current round. A second call for the same round is rejected.
func (r *Room) LetterChosen(roundID, letter string, now time.Time) error {
	if roundID != r.Round.RoundID {
		return ErrWrongRound
	}
	if r.Round.Status != StatusSpinning {
		if r.Round.Letter != "" {
			return ErrLetterAlreadySet
		}
		return ErrWrongPhase
	}
	if !r.Language.ContainsLetter(letter) {
		return ErrInvalidLetter
	}

	r.Round.Status = StatusPlaying
	r.Round.Letter = letter
	r.Round.StartTime = now.UnixMilli()
	return nil
}

// SetDraft records a player's in-progress answers so the timer can submit
// them on expiry. Only meaningful while PLAYING.
func (r *Room) SetDraft(playerID string, answers AnswerSet) error {
	if r.Round.Status != StatusPlaying {
		return ErrWrongPhase
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if p.HasSubmitted(r.Round.RoundID) {
		return nil // answers already locked in
	}
	p.Drafts = answers.Clone()
	return nil
}

// Submit writes one immutable submission for the player. A duplicate call for
// the same player and round is a no-op and returns ErrAlreadySubmitted so the
// caller can tell it apart, but it never alters the stored submission.
func (r *Room) Submit(roundID, playerID string, answers AnswerSet, now time.Time) error {
	if roundID != r.Round.RoundID {
		return ErrWrongRound
	}
	if r.Round.Status != StatusPlaying {
		return ErrWrongPhase
	}
	p, ok := r.Players[playerID]
	if !ok {
		return ErrPlayerNotFound
	}
	if _, exists := r.Submissions[playerID]; exists {
		return ErrAlreadySubmitted
	}

	r.Submissions[playerID] = NewSubmission(roundID, playerID, answers, now)
	p.SubmittedRound = roundID
	p.Drafts = make(map[string]string)
	return nil
}

// HasAllOnlinePlayersSubmitted reports whether every online player has a
// submission for the current round. Advisory only; the host may evaluate
// earlier or later.
func (r *Room) HasAllOnlinePlayersSubmitted() bool {
	if r.Round.Status != StatusPlaying || r.Round.RoundID == "" {
		return false
	}
	any := false
	for _, p := range r.Players {
		if !p.IsOnline {
			continue
		}
		any = true
		if _, ok := r.Submissions[p.ID]; !ok {
			return false
		}
	}
	return any
}

// BeginEvaluation moves PLAYING -> EVALUATING. A redundant call while the
// same round is already EVALUATING or RESULTS reports started=false with no
// error, which makes concurrent triggers (timer plus host click) safe.
func (r *Room) BeginEvaluation(roundID string) (started bool, err error) {
	if roundID != r.Round.RoundID {
		return false, ErrWrongRound
	}
	switch r.Round.Status {
	case StatusPlaying:
		r.Round.Status = StatusEvaluating
		return true, nil
	case StatusEvaluating, StatusResults:
		return false, nil
	default:
		return false, ErrWrongPhase
	}
}

// CompleteEvaluation commits the outcome and moves EVALUATING -> RESULTS
func (r *Room) CompleteEvaluation(roundID string, outcome *RoundOutcome) error {
	if roundID != r.Round.RoundID {
		return ErrWrongRound
	}
	if r.Round.Status != StatusEvaluating {
		return ErrWrongPhase
	}
	r.Outcomes[roundID] = outcome.Clone()
	r.Round.Status = StatusResults
	return nil
}

// AbortRound falls back from EVALUATING to LOBBY (oracle failure with zero
// submissions). The round id is cleared so late submits are rejected.
func (r *Room) AbortRound(roundID string) error {
	if roundID != r.Round.RoundID {
		return ErrWrongRound
	}
	if r.Round.Status != StatusEvaluating {
		return ErrWrongPhase
	}
	r.Round = NewRoundState(r.Round.Categories)
	r.Submissions = make(map[string]*Submission)
	return nil
}

// OutcomeFor returns the committed outcome of a round, if any
func (r *Room) OutcomeFor(roundID string) (*RoundOutcome, bool) {
	o, ok := r.Outcomes[roundID]
	return o, ok
}

// Clone returns a deep copy of the room, used by the store to hand out and
// commit snapshots.
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = make(map[string]*Player, len(r.Players))
	for id, p := range r.Players {
		cp.Players[id] = p.Clone()
	}
	cp.Round = r.Round.Clone()
	cp.Submissions = make(map[string]*Submission, len(r.Submissions))
	for id, s := range r.Submissions {
		cp.Submissions[id] = s.Clone()
	}
	cp.Outcomes = make(map[string]*RoundOutcome, len(r.Outcomes))
	for id, o := range r.Outcomes {
		cp.Outcomes[id] = o.Clone()
	}
	return &cp
}

// NormalizeWord trims an answer the way the scoring rules expect
func NormalizeWord(w string) string {
	return strings.TrimSpace(w)
}
