package domain

import "time"

// AnswerSet maps category name to the raw text the player typed
type AnswerSet map[string]string

// Clone returns a copy of the answer set
func (a AnswerSet) Clone() AnswerSet {
	cp := make(AnswerSet, len(a))
	for k, v := range a {
		cp[k] = v
	}
	return cp
}

// Submission is one player's complete set of answers for one round.
// It is written once and never edited.
type Submission struct {
	PlayerID    string    `json:"playerId"`
	RoundID     string    `json:"roundId"`
	Answers     AnswerSet `json:"answers"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewSubmission creates an immutable submission
func NewSubmission(roundID, playerID string, answers AnswerSet, now time.Time) *Submission {
	return &Submission{
		PlayerID:    playerID,
		RoundID:     roundID,
		Answers:     answers.Clone(),
		SubmittedAt: now,
	}
}

// Clone returns a deep copy of the submission
func (s *Submission) Clone() *Submission {
	cp := *s
	cp.Answers = s.Answers.Clone()
	return &cp
}
