// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package constfold

import (
	"testing"

	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/diag"
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/internal/assert"
	"github.com/openvaf/vacore/pkg/mir"
)

const maxInt64 = int64(1<<63 - 1)

func unresolvedReal(m *mir.Mir) handle.Handle[mir.RealExpr] {
	return m.PushReal(mir.RealExpr{Kind: mir.RealKindVarRef})
}

func unresolvedInt(m *mir.Mir) handle.Handle[mir.IntExpr] {
	return m.PushInt(mir.IntExpr{Kind: mir.IntKindVarRef})
}

// TestFoldArithmetic checks `2.0 * (3.0 + 4.0)` folds to 14.0 and the
// expression is rewritten to the literal.
func TestFoldArithmetic(t *testing.T) {
	var m mir.Mir
	two := m.PushReal(mir.RealLiteral(2))
	three := m.PushReal(mir.RealLiteral(3))
	four := m.PushReal(mir.RealLiteral(4))
	sum := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealAdd, Lhs: three, Rhs: four})
	prod := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: two, Rhs: sum})

	f := &Folder{Mir: &m, Mutate: true}
	v, ok := f.FoldReal(prod)
	assert.True(t, ok)
	assert.ApproxEqual(t, 14.0, v)

	rewritten := m.RealExprs.Get(prod)
	assert.Equal(t, mir.RealKindLiteral, rewritten.Kind)
	assert.ApproxEqual(t, 14.0, rewritten.Literal)
}

// TestFoldMulByZeroUnknown checks `foo * 0` where foo is an unresolved real
// var folds to 0.0 regardless, and is rewritten to the literal 0.
func TestFoldMulByZeroUnknown(t *testing.T) {
	var m mir.Mir
	foo := unresolvedReal(&m)
	zero := m.PushReal(mir.RealLiteral(0))
	expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: foo, Rhs: zero})

	f := &Folder{Mir: &m, Mutate: true}
	v, ok := f.FoldReal(expr)
	assert.True(t, ok)
	assert.ApproxEqual(t, 0.0, v)

	rewritten := m.RealExprs.Get(expr)
	assert.Equal(t, mir.RealKindLiteral, rewritten.Kind)
	assert.ApproxEqual(t, 0.0, rewritten.Literal)
}

// TestFoldConditionKnownGuardUnresolvedBranch checks `cond ? foo : 1` with
// cond a known int literal 1 and foo unresolved cannot fully fold, but the
// expression is rewritten to a reference to foo, the taken but unfoldable
// branch.
func TestFoldConditionKnownGuardUnresolvedBranch(t *testing.T) {
	var m mir.Mir
	condTrue := m.PushInt(mir.IntLiteral(1))
	one := m.PushReal(mir.RealLiteral(1))
	foo := unresolvedReal(&m)
	cond := m.PushReal(mir.RealExpr{Kind: mir.RealKindCondition, Cond: condTrue, TrueExpr: foo, FalseExpr: one})

	f := &Folder{Mir: &m, Mutate: true}
	_, ok := f.FoldReal(cond)
	assert.False(t, ok)

	rewritten := m.RealExprs.Get(cond)
	assert.Equal(t, mir.RealKindVarRef, rewritten.Kind)
}

// TestFoldConditionFalseBranch mirrors the same selection for the false
// branch: `cond ? 1 : foo` with cond known false and foo unresolved
// rewrites to foo too.
func TestFoldConditionFalseBranch(t *testing.T) {
	var m mir.Mir
	condFalse := m.PushInt(mir.IntLiteral(0))
	foo := unresolvedReal(&m)
	one := m.PushReal(mir.RealLiteral(1))
	cond := m.PushReal(mir.RealExpr{Kind: mir.RealKindCondition, Cond: condFalse, TrueExpr: one, FalseExpr: foo})

	f := &Folder{Mir: &m, Mutate: true}
	_, ok := f.FoldReal(cond)
	assert.False(t, ok)

	rewritten := m.RealExprs.Get(cond)
	assert.Equal(t, mir.RealKindVarRef, rewritten.Kind)
}

// TestFoldIntDivByZero checks `5 / 0` (int) does not fold and emits exactly
// one ConstantOverflow lint at the expression's span.
func TestFoldIntDivByZero(t *testing.T) {
	var m mir.Mir
	five := m.PushInt(mir.IntLiteral(5))
	zero := m.PushInt(mir.IntLiteral(0))
	span := ast.Span{Start: 10, End: 15}
	div := m.IntExprs.Push(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntQuotient, Lhs: five, Rhs: zero, Span: span})

	var diags diag.Diagnostics
	f := &Folder{Mir: &m, Diags: &diags}
	_, ok := f.FoldInt(div)
	assert.False(t, ok)

	assert.Equal(t, 1, diags.Len())
	entries := diags.All()
	assert.Equal(t, diag.SeverityLint, entries[0].Severity)
	assert.True(t, entries[0].Span != nil && *entries[0].Span == span)
}

// TestFoldIdempotence checks that re-folding an already-rewritten,
// fully-known expression with the same resolver returns the same result.
func TestFoldIdempotence(t *testing.T) {
	var m mir.Mir
	two := m.PushReal(mir.RealLiteral(2))
	three := m.PushReal(mir.RealLiteral(3))
	sum := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealAdd, Lhs: two, Rhs: three})

	f := &Folder{Mir: &m, Mutate: true}
	v1, ok1 := f.FoldReal(sum)
	v2, ok2 := f.FoldReal(sum)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.ApproxEqual(t, v1, v2)
}

// TestFoldIdempotencePartialSimplification checks the same invariant for a
// partial (non-fully-known) simplification: x+0 rewrites to x once, and
// folding the rewritten expression again is a no-op returning the same
// (unresolved) result.
func TestFoldIdempotencePartialSimplification(t *testing.T) {
	var m mir.Mir
	foo := unresolvedReal(&m)
	zero := m.PushReal(mir.RealLiteral(0))
	expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealAdd, Lhs: foo, Rhs: zero})

	f := &Folder{Mir: &m, Mutate: true}
	_, ok1 := f.FoldReal(expr)
	assert.False(t, ok1)
	assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)

	_, ok2 := f.FoldReal(expr)
	assert.False(t, ok2)
	assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
}

// TestRealAlgebraicIdentities exercises the real-sorted identity table one
// law at a time, each against an unresolved operand so the result can only
// come from the algebraic short-circuit, never full evaluation.
func TestRealAlgebraicIdentities(t *testing.T) {
	t.Run("x+0 rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealAdd, Lhs: x, Rhs: zero})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldReal(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
	})

	t.Run("0+x rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealAdd, Lhs: zero, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldReal(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
	})

	t.Run("x-0 rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealSub, Lhs: x, Rhs: zero})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldReal(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
	})

	t.Run("x*0 folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: x, Rhs: zero})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldReal(expr)
		assert.True(t, ok)
		assert.ApproxEqual(t, 0.0, v)
	})

	t.Run("0*x folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: zero, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldReal(expr)
		assert.True(t, ok)
		assert.ApproxEqual(t, 0.0, v)
	})

	t.Run("x*1 rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		one := m.PushReal(mir.RealLiteral(1))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: x, Rhs: one})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldReal(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
	})

	t.Run("1*x rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		one := m.PushReal(mir.RealLiteral(1))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: one, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldReal(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
	})

	t.Run("x/1 rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		one := m.PushReal(mir.RealLiteral(1))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealDiv, Lhs: x, Rhs: one})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldReal(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
	})

	t.Run("0/x folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealDiv, Lhs: zero, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldReal(expr)
		assert.True(t, ok)
		assert.ApproxEqual(t, 0.0, v)
	})

	// x^0 -> 0 unconditionally (the VAMS-specific convention, not the
	// mathematical x^0 = 1), holding even with x unknown.
	t.Run("x^0 folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealPow, Lhs: x, Rhs: zero})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldReal(expr)
		assert.True(t, ok)
		assert.ApproxEqual(t, 0.0, v)
	})

	t.Run("x^1 rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		one := m.PushReal(mir.RealLiteral(1))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealPow, Lhs: x, Rhs: one})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldReal(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.RealKindVarRef, m.RealExprs.Get(expr).Kind)
	})

	t.Run("0^x folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		zero := m.PushReal(mir.RealLiteral(0))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealPow, Lhs: zero, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldReal(expr)
		assert.True(t, ok)
		assert.ApproxEqual(t, 0.0, v)
	})

	t.Run("1^x folds to 1 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedReal(&m)
		one := m.PushReal(mir.RealLiteral(1))
		expr := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealPow, Lhs: one, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldReal(expr)
		assert.True(t, ok)
		assert.ApproxEqual(t, 1.0, v)
	})
}

// TestIntBitwiseIdentities exercises the bitwise identity table, including
// the INT_MAX (math.MaxInt64, not -1) cases for AND/OR.
func TestIntBitwiseIdentities(t *testing.T) {
	t.Run("0&x folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		zero := m.PushInt(mir.IntLiteral(0))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntAnd, Lhs: zero, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldInt(expr)
		assert.True(t, ok)
		assert.Equal(t, int64(0), v)
	})

	t.Run("x&INT_MAX rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		maxInt := m.PushInt(mir.IntLiteral(maxInt64))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntAnd, Lhs: x, Rhs: maxInt})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldInt(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.IntKindVarRef, m.IntExprs.Get(expr).Kind)
	})

	t.Run("INT_MAX&x rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		maxInt := m.PushInt(mir.IntLiteral(maxInt64))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntAnd, Lhs: maxInt, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldInt(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.IntKindVarRef, m.IntExprs.Get(expr).Kind)
	})

	t.Run("INT_MAX|x folds to INT_MAX regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		maxInt := m.PushInt(mir.IntLiteral(maxInt64))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntOr, Lhs: maxInt, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldInt(expr)
		assert.True(t, ok)
		assert.Equal(t, maxInt64, v)
	})

	t.Run("x|INT_MAX folds to INT_MAX regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		maxInt := m.PushInt(mir.IntLiteral(maxInt64))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntOr, Lhs: x, Rhs: maxInt})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldInt(expr)
		assert.True(t, ok)
		assert.Equal(t, maxInt64, v)
	})

	t.Run("-1 is not treated as INT_MAX", func(t *testing.T) {
		// -1 is the all-ones two's-complement bit pattern, not i64::MAX; it
		// must not trigger the INT_MAX identity and, against an unresolved
		// operand, cannot be folded at all.
		var m mir.Mir
		x := unresolvedInt(&m)
		minusOne := m.PushInt(mir.IntLiteral(-1))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntOr, Lhs: minusOne, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldInt(expr)
		assert.False(t, ok)
	})
}

// TestLogicalShortCircuit exercises the logical AND/OR short-circuits.
func TestLogicalShortCircuit(t *testing.T) {
	t.Run("0&&x folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		zero := m.PushInt(mir.IntLiteral(0))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntLogicAnd, Lhs: zero, Rhs: x})
		f := &Folder{Mir: &m}
		v, ok := f.FoldInt(expr)
		assert.True(t, ok)
		assert.Equal(t, int64(0), v)
	})

	t.Run("x&&0 folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		zero := m.PushInt(mir.IntLiteral(0))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntLogicAnd, Lhs: x, Rhs: zero})
		f := &Folder{Mir: &m}
		v, ok := f.FoldInt(expr)
		assert.True(t, ok)
		assert.Equal(t, int64(0), v)
	})

	t.Run("nonzero||x folds to 1 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		one := m.PushInt(mir.IntLiteral(1))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntLogicOr, Lhs: one, Rhs: x})
		f := &Folder{Mir: &m}
		v, ok := f.FoldInt(expr)
		assert.True(t, ok)
		assert.Equal(t, int64(1), v)
	})

	t.Run("x||0 with x unresolved cannot fold", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		zero := m.PushInt(mir.IntLiteral(0))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntLogicOr, Lhs: x, Rhs: zero})
		f := &Folder{Mir: &m}
		_, ok := f.FoldInt(expr)
		assert.False(t, ok)
	})
}

// TestIntDivisionByOneAndZero covers the remaining integer division
// identities: x/1 -> x and the zero-dividend short circuit.
func TestIntDivisionByOneAndZero(t *testing.T) {
	t.Run("x/1 rewrites to x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		one := m.PushInt(mir.IntLiteral(1))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntQuotient, Lhs: x, Rhs: one})
		f := &Folder{Mir: &m, Mutate: true}
		_, ok := f.FoldInt(expr)
		assert.False(t, ok)
		assert.Equal(t, mir.IntKindVarRef, m.IntExprs.Get(expr).Kind)
	})

	t.Run("0/x folds to 0 regardless of x", func(t *testing.T) {
		var m mir.Mir
		x := unresolvedInt(&m)
		zero := m.PushInt(mir.IntLiteral(0))
		expr := m.PushInt(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntQuotient, Lhs: zero, Rhs: x})
		f := &Folder{Mir: &m, Mutate: true}
		v, ok := f.FoldInt(expr)
		assert.True(t, ok)
		assert.Equal(t, int64(0), v)
	})
}

// TestIntPowOverflowLint checks that an exponent overflowing the 32-bit
// shift-count bound emits ConstantOverflow and folds to None.
func TestIntPowOverflowLint(t *testing.T) {
	var m mir.Mir
	base := m.PushInt(mir.IntLiteral(2))
	hugeExp := m.PushInt(mir.IntLiteral(int64(1) << 40))
	span := ast.Span{Start: 1, End: 2}
	pow := m.IntExprs.Push(mir.IntExpr{Kind: mir.IntKindBinaryOp, BinOp: mir.IntPow, Lhs: base, Rhs: hugeExp, Span: span})

	var diags diag.Diagnostics
	f := &Folder{Mir: &m, Diags: &diags}
	_, ok := f.FoldInt(pow)
	assert.False(t, ok)
	assert.Equal(t, 1, diags.Len())
}

// TestRealEqualityApproximate checks that real == folding uses a tolerance
// band rather than an exact bit-compare.
func TestRealEqualityApproximate(t *testing.T) {
	var m mir.Mir
	a := m.PushReal(mir.RealLiteral(0.1 + 0.2))
	b := m.PushReal(mir.RealLiteral(0.3))
	eq := m.PushInt(mir.IntExpr{Kind: mir.IntKindRealComparison, CmpOp: mir.CmpEq, RealLhs: a, RealRhs: b})

	f := &Folder{Mir: &m}
	v, ok := f.FoldInt(eq)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
}
