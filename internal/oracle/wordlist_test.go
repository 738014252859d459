package oracle

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stoproom/internal/domain"
)

func TestWordlistWord_StartsWithLetter(t *testing.T) {
	w := NewWordlist()

	word, err := w.Word(context.Background(), "P", "Animal", domain.LangEN)
	require.NoError(t, err)
	require.NotEmpty(t, word)
	assert.True(t, strings.HasPrefix(strings.ToLower(word), "p"))
}

func TestWordlistWord_NoCandidate(t *testing.T) {
	w := NewWordlist()

	// EN color list has no X entry
	word, err := w.Word(context.Background(), "X", "Color", domain.LangEN)
	require.NoError(t, err)
	assert.Empty(t, word)
}

func TestWordlistWord_UnknownCategory(t *testing.T) {
	w := NewWordlist()

	word, err := w.Word(context.Background(), "P", "Movie", domain.LangEN)
	require.NoError(t, err)
	assert.Empty(t, word)
}

func TestWordlistValidate_KnownWord(t *testing.T) {
	w := NewWordlist()

	v, err := w.Validate(context.Background(), "P", "Fruit or Vegetable", "peach", domain.LangEN)
	require.NoError(t, err)
	assert.True(t, v.IsValid)
}

func TestWordlistValidate_UnknownWordRejectedWhenListExists(t *testing.T) {
	w := NewWordlist()

	v, err := w.Validate(context.Background(), "P", "Animal", "Pegasus", domain.LangEN)
	require.NoError(t, err)
	assert.False(t, v.IsValid)
	assert.Equal(t, "invalid_word", v.Reason)
}

func TestWordlistValidate_UnknownCategoryFallsBackToAlphabeticCheck(t *testing.T) {
	w := NewWordlist()

	v, err := w.Validate(context.Background(), "P", "Movie", "Psycho", domain.LangEN)
	require.NoError(t, err)
	assert.True(t, v.IsValid)

	v, err = w.Validate(context.Background(), "P", "Movie", "P2!", domain.LangEN)
	require.NoError(t, err)
	assert.False(t, v.IsValid)
}

func TestWordlistValidate_EmptyWord(t *testing.T) {
	w := NewWordlist()

	v, err := w.Validate(context.Background(), "P", "Animal", "   ", domain.LangEN)
	require.NoError(t, err)
	assert.False(t, v.IsValid)
}

func TestWordlistValidate_SpanishAccents(t *testing.T) {
	w := NewWordlist()

	v, err := w.Validate(context.Background(), "Ñ", "Animal", "ñandú", domain.LangES)
	require.NoError(t, err)
	assert.True(t, v.IsValid)
}
