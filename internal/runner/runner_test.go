package runner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalizeCollapsesCRLF(t *testing.T) {
	out := Canonicalize([]byte("a\r\nb\r\n"), false)
	require.Equal(t, "a\nb\n", string(out))
}

func TestCanonicalizeCollapsesHorizontalWhitespace(t *testing.T) {
	out := Canonicalize([]byte("a   b\tc"), false)
	require.Equal(t, "a b c", string(out))
}

func TestCanonicalizeStrictWhitespacePreservesSpacing(t *testing.T) {
	out := Canonicalize([]byte("a   b"), true)
	require.Equal(t, "a   b", string(out))
}
