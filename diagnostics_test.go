package checkfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticSinkEmitAndEvents(t *testing.T) {
	sink := NewDiagnosticSink()
	sink.Emit(DiagnosticEvent{Kind: KindPlain, MatchKind: FoundAndExpected})
	sink.Emit(DiagnosticEvent{Kind: KindNot, MatchKind: FoundButExcluded})
	require.Len(t, sink.Events(), 2)
}

func TestDiagnosticSinkHasFailures(t *testing.T) {
	sink := NewDiagnosticSink()
	sink.Emit(DiagnosticEvent{MatchKind: FoundAndExpected})
	require.False(t, sink.HasFailures())

	sink.Emit(DiagnosticEvent{MatchKind: NoneButExpected})
	require.True(t, sink.HasFailures())
}

func TestMatchKindString(t *testing.T) {
	require.Equal(t, "found-and-expected", FoundAndExpected.String())
	require.Equal(t, "fuzzy", Fuzzy.String())
}

func TestDirectiveKindString(t *testing.T) {
	require.Equal(t, "CHECK", KindPlain.String())
	require.Equal(t, "CHECK-DAG", KindDag.String())
	require.True(t, KindPlain.IsAnchor())
	require.False(t, KindNot.IsAnchor())
}
