package prefilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteralsFromConcatenation(t *testing.T) {
	lits, ok := Literals(`foo[0-9]+bar`)
	require.True(t, ok)
	require.Contains(t, lits, "foo")
	require.Contains(t, lits, "bar")
}

func TestLiteralsFromCaptureGroup(t *testing.T) {
	lits, ok := Literals(`prefix-(value)`)
	require.True(t, ok)
	require.Contains(t, lits, "prefix-")
}

func TestLiteralsNoneForPureWildcard(t *testing.T) {
	_, ok := Literals(`.*`)
	require.False(t, ok)
}

func TestLiteralsInvalidPattern(t *testing.T) {
	_, ok := Literals(`(unterminated`)
	require.False(t, ok)
}

func TestMayMatchAllLiteralsPresent(t *testing.T) {
	require.True(t, MayMatch([]byte("the foo and bar are here"), []string{"foo", "bar"}))
}

func TestMayMatchMissingLiteral(t *testing.T) {
	require.False(t, MayMatch([]byte("only foo here"), []string{"foo", "bar"}))
}

func TestMayMatchEmptyLiterals(t *testing.T) {
	require.True(t, MayMatch([]byte("anything"), nil))
}
