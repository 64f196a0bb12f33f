package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderFoundAndExpected(t *testing.T) {
	ev := DiagnosticEvent{
		DirectiveKind: "CHECK",
		Prefix:        "CHECK",
		CheckLine:     3,
		CheckCol:      1,
		MatchKind:     "found-and-expected",
		InputLine:     5,
		InputCol:      2,
	}
	out := Render(ev)
	require.Contains(t, out, "CHECK:3:1")
	require.Contains(t, out, "matched at 5:2")
}

func TestRenderNoneButExpectedIncludesMessage(t *testing.T) {
	ev := DiagnosticEvent{
		DirectiveKind: "CHECK-NEXT",
		Prefix:        "CHECK",
		MatchKind:     "none-but-expected",
		Message:       "pattern not found",
	}
	out := Render(ev)
	require.Contains(t, out, "pattern not found")
}

func TestRenderFuzzyIncludesScore(t *testing.T) {
	ev := DiagnosticEvent{MatchKind: "fuzzy", FuzzyScore: 12.5}
	out := Render(ev)
	require.Contains(t, out, "12.5")
}

func TestRenderUnknownMatchKindFallsBack(t *testing.T) {
	ev := DiagnosticEvent{MatchKind: "not-a-real-kind", DirectiveKind: "CHECK"}
	out := Render(ev)
	require.Contains(t, out, "not-a-real-kind")
}

func TestRenderAllPreservesOrder(t *testing.T) {
	events := []DiagnosticEvent{
		{MatchKind: "found-and-expected", Prefix: "A"},
		{MatchKind: "none-but-expected", Prefix: "B"},
	}
	lines := RenderAll(events)
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "A")
	require.Contains(t, lines[1], "B")
}
