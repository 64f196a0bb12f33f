package checkfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, data string, prefixes []string) []*DirectiveToken {
	t.Helper()
	lex := NewLexer(NewBuffer([]byte(data)), prefixes)
	var toks []*DirectiveToken
	for {
		tok, ok := lex.Next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexerPlainDirective(t *testing.T) {
	toks := lexAll(t, "CHECK: hello world\n", []string{"CHECK"})
	require.Len(t, toks, 1)
	require.Equal(t, KindPlain, toks[0].Kind)
	require.Equal(t, 1, toks[0].Count)
	require.Equal(t, " hello world", toks[0].Body)
}

func TestLexerAllSuffixes(t *testing.T) {
	data := "CHECK: a\nCHECK-NEXT: b\nCHECK-SAME: c\nCHECK-NOT: d\nCHECK-DAG: e\nCHECK-LABEL: f\nCHECK-EMPTY:\n"
	toks := lexAll(t, data, []string{"CHECK"})
	require.Len(t, toks, 7)
	kinds := []DirectiveKind{KindPlain, KindNext, KindSame, KindNot, KindDag, KindLabel, KindEmpty}
	for i, k := range kinds {
		require.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestLexerCount(t *testing.T) {
	toks := lexAll(t, "CHECK-COUNT-3: x\n", []string{"CHECK"})
	require.Len(t, toks, 1)
	require.Equal(t, KindPlain, toks[0].Kind)
	require.Equal(t, 3, toks[0].Count)
}

func TestLexerMalformedCount(t *testing.T) {
	toks := lexAll(t, "CHECK-COUNT-abc: x\n", []string{"CHECK"})
	require.Len(t, toks, 1)
	require.Equal(t, KindMalformedCount, toks[0].Kind)
}

func TestLexerMalformedNotCombinations(t *testing.T) {
	for _, body := range []string{"CHECK-DAG-NOT: x\n", "CHECK-NOT-DAG: x\n", "CHECK-NEXT-NOT: x\n"} {
		toks := lexAll(t, body, []string{"CHECK"})
		require.Len(t, toks, 1)
		require.Equalf(t, KindMalformedNot, toks[0].Kind, "body %q", body)
	}
}

func TestLexerIgnoresWordEmbeddedPrefix(t *testing.T) {
	toks := lexAll(t, "PRECHECK: ignored\nCHECK: real\n", []string{"CHECK"})
	require.Len(t, toks, 1)
	require.Equal(t, " real", toks[0].Body)
}

func TestLexerMultiplePrefixesLongestFirst(t *testing.T) {
	toks := lexAll(t, "CHECK-FOO: a\nCHECK: b\n", []string{"CHECK", "CHECK-FOO"})
	require.Len(t, toks, 2)
	require.Equal(t, "CHECK-FOO", toks[0].Prefix)
	require.Equal(t, "CHECK", toks[1].Prefix)
}

func TestLexerLocationTracking(t *testing.T) {
	toks := lexAll(t, "line one\nCHECK: here\n", []string{"CHECK"})
	require.Len(t, toks, 1)
	require.Equal(t, 1, toks[0].Loc.Line)
}

func TestLexerNoDirectivesFound(t *testing.T) {
	toks := lexAll(t, "nothing to see here\n", []string{"CHECK"})
	require.Empty(t, toks)
}
