// Package oracle defines the external word services the game consumes: an
// opponent generator and a word validator. Both are pluggable; implementations
// must respect the caller's context and return typed failures rather than
// blocking indefinitely.
package oracle

import (
	"context"
	"errors"

	"stoproom/internal/domain"
)

// ErrUnavailable marks oracle transport failures (unreachable, timeout)
var ErrUnavailable = errors.New("oracle unavailable")

// Verdict is the validator's judgement of one word
type Verdict struct {
	IsValid bool   `json:"isValid"`
	Reason  string `json:"errorReason,omitempty"`
}

// OpponentGenerator produces the computer opponent's answer for a category.
// An empty word means the opponent has no answer.
type OpponentGenerator interface {
	Word(ctx context.Context, letter, category string, lang domain.Language) (string, error)
}

// WordValidator judges whether a word is a real dictionary word fitting the
// category. Format checking (starts with the letter) is the caller's job.
type WordValidator interface {
	Validate(ctx context.Context, letter, category, word string, lang domain.Language) (Verdict, error)
}

// Oracle bundles both roles; the built-in and HTTP implementations serve both
type Oracle interface {
	OpponentGenerator
	WordValidator
}
