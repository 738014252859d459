package scoring

import (
	"strings"

	"stoproom/internal/domain"
)

// DuelCategoryResult is one category of a player-versus-opponent round
type DuelCategoryResult struct {
	PlayerWord    string               `json:"playerWord"`
	OpponentWord  string               `json:"opponentWord"`
	PlayerValid   bool                 `json:"playerValid"`
	Reason        domain.InvalidReason `json:"reason"`
	PlayerScore   int                  `json:"playerScore"`
	OpponentScore int                  `json:"opponentScore"`
}

// DuelOutcome is the symmetric result of a single-player round against the
// computer opponent.
type DuelOutcome struct {
	Letter        string                        `json:"letter"`
	PerCategory   map[string]DuelCategoryResult `json:"perCategory"`
	PlayerTotal   int                           `json:"playerTotal"`
	OpponentTotal int                           `json:"opponentTotal"`
}

// EvaluateDuel scores a lone player against the opponent with the same rule
// set as room play, applied symmetrically: whoever has the only valid word in
// a category takes 100, matching valid words split 50/50, distinct valid
// words take 100 each.
func EvaluateDuel(letter string, categories []string, playerAnswers domain.AnswerSet, opponentAnswers map[string]string, validity map[string]Verdict) *DuelOutcome {
	outcome := &DuelOutcome{
		Letter:      letter,
		PerCategory: make(map[string]DuelCategoryResult, len(categories)),
	}

	for _, cat := range categories {
		cr := judgeWord(letter, playerAnswers[cat], validity[cat])
		opponentWord := domain.NormalizeWord(opponentAnswers[cat])
		opponentValid := OpponentWordValid(opponentWord, letter)

		dcr := DuelCategoryResult{
			PlayerWord:   cr.Word,
			OpponentWord: opponentWord,
			PlayerValid:  cr.IsValid,
			Reason:       cr.Reason,
		}

		switch {
		case cr.IsValid && !opponentValid:
			dcr.PlayerScore = PointsUnique
		case !cr.IsValid && opponentValid:
			dcr.OpponentScore = PointsUnique
		case cr.IsValid && opponentValid:
			if strings.EqualFold(cr.Word, opponentWord) {
				dcr.PlayerScore = PointsDuplicate
				dcr.OpponentScore = PointsDuplicate
			} else {
				dcr.PlayerScore = PointsUnique
				dcr.OpponentScore = PointsUnique
			}
		}

		outcome.PerCategory[cat] = dcr
		outcome.PlayerTotal += dcr.PlayerScore
		outcome.OpponentTotal += dcr.OpponentScore
	}

	return outcome
}
