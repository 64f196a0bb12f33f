package checkfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevenshteinIdentical(t *testing.T) {
	require.Equal(t, 0, levenshtein("abc", "abc"))
}

func TestLevenshteinEmpty(t *testing.T) {
	require.Equal(t, 3, levenshtein("", "abc"))
	require.Equal(t, 3, levenshtein("abc", ""))
}

func TestLevenshteinSingleEdit(t *testing.T) {
	require.Equal(t, 1, levenshtein("abc", "abd"))
	require.Equal(t, 1, levenshtein("abc", "ab"))
}

func TestFuzzyMatchFindsNearMiss(t *testing.T) {
	buf := NewBuffer([]byte("totally unrelated\nexpectd output here\nmore noise\n"))
	loc, score, ok := fuzzyMatch(buf, 0, "expected output here")
	require.True(t, ok)
	require.Equal(t, 1, loc.Line)
	require.Less(t, score, fuzzyScoreThreshold)
}

func TestFuzzyMatchNoCandidateWithinThreshold(t *testing.T) {
	buf := NewBuffer([]byte("xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx\n"))
	_, _, ok := fuzzyMatch(buf, 0, "completely different content that shares nothing")
	require.False(t, ok)
}

func TestFuzzyMatchEmptyWant(t *testing.T) {
	buf := NewBuffer([]byte("anything\n"))
	_, _, ok := fuzzyMatch(buf, 0, "")
	require.False(t, ok)
}
