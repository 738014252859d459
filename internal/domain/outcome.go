package domain

// InvalidReason explains why a word scored zero
type InvalidReason string

const (
	ReasonNone       InvalidReason = "NONE"
	ReasonFormat     InvalidReason = "FORMAT"
	ReasonDictionary InvalidReason = "DICTIONARY"
	ReasonOracleErr  InvalidReason = "ORACLE_ERROR"
)

// CategoryResult is one player's evaluated word for one category
type CategoryResult struct {
	Word    string        `json:"word"`
	IsValid bool          `json:"isValid"`
	Reason  InvalidReason `json:"reason"`
	Score   int           `json:"score"`
}

// PlayerResult is one player's evaluated round
type PlayerResult struct {
	PerCategory map[string]CategoryResult `json:"perCategory"`
	Total       int                       `json:"total"`
}

// RoundOutcome is the immutable scoring result for one round. A new round
// produces a new outcome; previous outcomes are never mutated.
type RoundOutcome struct {
	RoundID         string                  `json:"roundId"`
	Letter          string                  `json:"letter"`
	OpponentAnswers map[string]string       `json:"opponentAnswers"`
	PlayerResults   map[string]PlayerResult `json:"playerResults"`
}

// Clone returns a deep copy of the outcome
func (o *RoundOutcome) Clone() *RoundOutcome {
	if o == nil {
		return nil
	}
	cp := &RoundOutcome{
		RoundID:         o.RoundID,
		Letter:          o.Letter,
		OpponentAnswers: make(map[string]string, len(o.OpponentAnswers)),
		PlayerResults:   make(map[string]PlayerResult, len(o.PlayerResults)),
	}
	for k, v := range o.OpponentAnswers {
		cp.OpponentAnswers[k] = v
	}
	for pid, pr := range o.PlayerResults {
		per := make(map[string]CategoryResult, len(pr.PerCategory))
		for cat, cr := range pr.PerCategory {
			per[cat] = cr
		}
		cp.PlayerResults[pid] = PlayerResult{PerCategory: per, Total: pr.Total}
	}
	return cp
}
