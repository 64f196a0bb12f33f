package checkfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileBasicSequence(t *testing.T) {
	cfg := DefaultConfig.Clone()
	ctx := NewContext()
	checks, err := Compile([]byte("CHECK: a\nCHECK: b\n"), ctx, cfg)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	require.Equal(t, KindPlain, checks[0].Pattern.Kind)
}

func TestCompileGroupsPrecedingDagAndNot(t *testing.T) {
	cfg := DefaultConfig.Clone()
	ctx := NewContext()
	checks, err := Compile([]byte("CHECK-NOT: x\nCHECK-DAG: y\nCHECK: z\n"), ctx, cfg)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	require.Len(t, checks[0].Preceding, 2)
}

func TestCompileTrailingPrecedingGroupAnchoredToEOF(t *testing.T) {
	cfg := DefaultConfig.Clone()
	ctx := NewContext()
	checks, err := Compile([]byte("CHECK: a\nCHECK-NOT: trailing\n"), ctx, cfg)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	require.Equal(t, KindEndOfInput, checks[1].Pattern.Kind)
	require.Len(t, checks[1].Preceding, 1)
}

func TestCompileAggregatesParseErrors(t *testing.T) {
	cfg := DefaultConfig.Clone()
	ctx := NewContext()
	_, err := Compile([]byte("CHECK:\nCHECK-EMPTY: not-empty\n"), ctx, cfg)
	require.Error(t, err)
	pes, ok := err.(*ParseErrors)
	require.True(t, ok)
	require.Len(t, pes.Errors, 2)
}

func TestCompileImplicitCheckNotPrependedToEveryAnchor(t *testing.T) {
	cfg := DefaultConfig.Clone()
	cfg.ImplicitCheckNot = []string{"forbidden"}
	ctx := NewContext()
	checks, err := Compile([]byte("CHECK: a\nCHECK: b\n"), ctx, cfg)
	require.NoError(t, err)
	require.Len(t, checks, 2)
	require.Len(t, checks[0].Preceding, 1)
	require.Len(t, checks[1].Preceding, 1)
}

func TestCompileMalformedNotReportsParseError(t *testing.T) {
	cfg := DefaultConfig.Clone()
	ctx := NewContext()
	_, err := Compile([]byte("CHECK-DAG-NOT: x\n"), ctx, cfg)
	require.Error(t, err)
}
