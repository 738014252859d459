package domain

import "time"

// Player represents a participant in a room. Players are never deleted while
// the room exists; losing the connection only flips IsOnline.
type Player struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Avatar         string            `json:"avatar"`
	IsOnline       bool              `json:"isOnline"`
	JoinedAt       time.Time         `json:"joinedAt"`
	LastSeen       time.Time         `json:"lastSeen"`
	SubmittedRound string            `json:"submittedRound,omitempty"` // round id of the last submission
	Drafts         map[string]string `json:"-"`                        // in-progress answers, current round only
}

// NewPlayer creates a new online player
func NewPlayer(id, name, avatar string, now time.Time) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Avatar:   avatar,
		IsOnline: true,
		JoinedAt: now,
		LastSeen: now,
		Drafts:   make(map[string]string),
	}
}

// HasSubmitted reports whether the player has a submission for the given round
func (p *Player) HasSubmitted(roundID string) bool {
	return roundID != "" && p.SubmittedRound == roundID
}

// ResetForNewRound clears round-scoped player state
func (p *Player) ResetForNewRound() {
	p.SubmittedRound = ""
	p.Drafts = make(map[string]string)
}

// Clone returns a deep copy of the player
func (p *Player) Clone() *Player {
	cp := *p
	cp.Drafts = make(map[string]string, len(p.Drafts))
	for k, v := range p.Drafts {
		cp.Drafts[k] = v
	}
	return &cp
}

// PlayerInfo is the broadcast view of a player
type PlayerInfo struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	IsOnline     bool      `json:"isOnline"`
	JoinedAt     time.Time `json:"joinedAt"`
	HasSubmitted bool      `json:"hasSubmitted"`
}

// ToInfo converts a Player to its broadcast view for the given round
func (p *Player) ToInfo(roundID string) PlayerInfo {
	return PlayerInfo{
		ID:           p.ID,
		Name:         p.Name,
		Avatar:       p.Avatar,
		IsOnline:     p.IsOnline,
		JoinedAt:     p.JoinedAt,
		HasSubmitted: p.HasSubmitted(roundID),
	}
}
