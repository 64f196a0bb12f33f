package checkfile

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExprLiteral(t *testing.T) {
	e, err := parseExpr("42", false)
	require.NoError(t, err)
	require.Equal(t, ExprLiteral, e.Kind)
	ctx := NewContext()
	v, err := e.Eval(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 42, v)
}

func TestParseExprAddition(t *testing.T) {
	ctx := NewContext()
	ref, err := ctx.MakeNumericVar("N", nil)
	require.NoError(t, err)
	ctx.SetNumeric(ref, 10, 1)

	e, err := parseExpr("N + 5", false)
	require.NoError(t, err)
	v, err := e.Eval(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 15, v)
}

func TestParseExprSubtraction(t *testing.T) {
	ctx := NewContext()
	ref, err := ctx.MakeNumericVar("N", nil)
	require.NoError(t, err)
	ctx.SetNumeric(ref, 10, 1)

	e, err := parseExpr("N-3", false)
	require.NoError(t, err)
	v, err := e.Eval(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 7, v)
}

func TestParseExprLeftAssociative(t *testing.T) {
	e, err := parseExpr("10-3-2", false)
	require.NoError(t, err)
	v, err := e.Eval(NewContext())
	require.NoError(t, err)
	require.EqualValues(t, 5, v)
}

func TestParseExprUndefinedVariable(t *testing.T) {
	e, err := parseExpr("MISSING", false)
	require.NoError(t, err)
	_, err = e.Eval(NewContext())
	require.Error(t, err)
}

func TestParseExprOverflowWraps(t *testing.T) {
	e := &Expr{Kind: ExprBinop, Op: '+',
		LHS: &Expr{Kind: ExprLiteral, Literal: math.MaxUint64},
		RHS: &Expr{Kind: ExprLiteral, Literal: 1},
	}
	v, err := e.Eval(NewContext())
	require.NoError(t, err)
	require.EqualValues(t, 0, v)
}

func TestParseExprLegacyLineOnlyRejectsMultipleOps(t *testing.T) {
	_, err := parseExpr("@LINE+1+1", true)
	require.Error(t, err)
}

func TestParseExprLegacyLineOnlyRejectsVariableRHS(t *testing.T) {
	ctx := NewContext()
	_, err := ctx.MakeNumericVar("N", nil)
	require.NoError(t, err)
	_, err = parseExpr("@LINE+N", true)
	require.Error(t, err)
}

func TestParseExprVars(t *testing.T) {
	e, err := parseExpr("A+B-C", false)
	require.NoError(t, err)
	vars := map[string]bool{}
	e.Vars(vars)
	require.Equal(t, map[string]bool{"A": true, "B": true, "C": true}, vars)
}

func TestParseExprEmptyRejected(t *testing.T) {
	_, err := parseExpr("   ", false)
	require.Error(t, err)
}
