// Package scoring computes round outcomes. Everything here is deterministic:
// given the same letter, categories, submissions, opponent answers and
// validity verdicts, the output is identical. Randomness lives in letter
// selection and the oracles, never in this package.
package scoring

import (
	"strings"

	"stoproom/internal/domain"
)

// Points awarded per category
const (
	PointsUnique    = 100 // valid, unique among players, opponent distinct or invalid
	PointsDuplicate = 50  // valid but matched by the opponent or another player
)

// Verdict is the dictionary-validity result for a single word. OracleErr
// marks words the validator could not judge (unreachable, timeout).
type Verdict struct {
	Valid     bool
	OracleErr bool
}

// Input collects everything Evaluate needs
type Input struct {
	Letter          string
	Categories      []string
	Submissions     map[string]domain.AnswerSet   // playerID -> category -> raw text
	OpponentAnswers map[string]string             // category -> opponent word ("" = no answer)
	Validity        map[string]map[string]Verdict // playerID -> category -> verdict
}

// Evaluate scores every submitted word against the opponent and the other
// players and returns the immutable outcome for the round.
//
// Per category, per player with a submission:
//  1. trimmed empty -> 0, no reason
//  2. word does not start with the round letter -> 0, FORMAT
//  3. validator errored -> 0, ORACLE_ERROR; validator says invalid -> 0, DICTIONARY
//  4. valid and unique among players: 100, unless the opponent answered the
//     same valid word, then 50
//  5. valid but duplicated by another player's valid word: 50, regardless of
//     the opponent
func Evaluate(roundID string, in Input) *domain.RoundOutcome {
	outcome := &domain.RoundOutcome{
		RoundID:         roundID,
		Letter:          in.Letter,
		OpponentAnswers: make(map[string]string, len(in.OpponentAnswers)),
		PlayerResults:   make(map[string]domain.PlayerResult, len(in.Submissions)),
	}
	for cat, w := range in.OpponentAnswers {
		outcome.OpponentAnswers[cat] = w
	}

	// First pass: settle validity of every word so uniqueness checks compare
	// against final verdicts, not raw text.
	evaluated := make(map[string]map[string]domain.CategoryResult, len(in.Submissions))
	for playerID, answers := range in.Submissions {
		perCategory := make(map[string]domain.CategoryResult, len(in.Categories))
		for _, cat := range in.Categories {
			perCategory[cat] = judgeWord(in.Letter, answers[cat], in.Validity[playerID][cat])
		}
		evaluated[playerID] = perCategory
	}

	// Second pass: score valid words against the opponent and the other players.
	for playerID, perCategory := range evaluated {
		result := domain.PlayerResult{PerCategory: make(map[string]domain.CategoryResult, len(in.Categories))}
		for _, cat := range in.Categories {
			cr := perCategory[cat]
			if cr.IsValid {
				cr.Score = scoreValidWord(in.Letter, cr.Word, cat, playerID, evaluated, in.OpponentAnswers[cat])
			}
			result.PerCategory[cat] = cr
			result.Total += cr.Score
		}
		outcome.PlayerResults[playerID] = result
	}

	return outcome
}

// judgeWord applies the format check and the validator verdict to one word
func judgeWord(letter, raw string, verdict Verdict) domain.CategoryResult {
	word := domain.NormalizeWord(raw)
	cr := domain.CategoryResult{Word: word, Reason: domain.ReasonNone}

	switch {
	case word == "":
		// empty answers are simply not valid, no reason attached
	case !StartsWithLetter(word, letter):
		cr.Reason = domain.ReasonFormat
	case verdict.OracleErr:
		cr.Reason = domain.ReasonOracleErr
	case !verdict.Valid:
		cr.Reason = domain.ReasonDictionary
	default:
		cr.IsValid = true
	}
	return cr
}

// scoreValidWord computes the 100/50 split for an already-valid word
func scoreValidWord(letter, word, category, playerID string, evaluated map[string]map[string]domain.CategoryResult, opponentWord string) int {
	for otherID, perCategory := range evaluated {
		if otherID == playerID {
			continue
		}
		other := perCategory[category]
		if other.IsValid && strings.EqualFold(other.Word, word) {
			return PointsDuplicate
		}
	}

	if OpponentWordValid(opponentWord, letter) && strings.EqualFold(domain.NormalizeWord(opponentWord), word) {
		return PointsDuplicate
	}
	return PointsUnique
}

// StartsWithLetter reports whether the word starts with the round letter,
// case-insensitively.
func StartsWithLetter(word, letter string) bool {
	if word == "" || letter == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(word), strings.ToLower(letter))
}

// OpponentWordValid applies the format-only check used for opponent answers:
// the generator is trusted for dictionary validity, so a non-empty answer
// starting with the round letter counts as valid.
func OpponentWordValid(word, letter string) bool {
	w := domain.NormalizeWord(word)
	return w != "" && StartsWithLetter(w, letter)
}
