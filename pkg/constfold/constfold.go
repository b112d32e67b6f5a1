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

// Package constfold implements constant folding: partial constant
// propagation over the tri-sorted MIR with algebraic short-circuits,
// overflow lints and a pluggable resolver for unbound variables and
// parameters. It is built on the generic per-sort visitor of
// pkg/mir/fold.
package constfold

import (
	"math"

	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/diag"
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/itemtree"
	"github.com/openvaf/vacore/pkg/mir"
	"github.com/openvaf/vacore/pkg/mir/fold"
	"github.com/openvaf/vacore/pkg/resolver"
)

// defaultEqMargin is the relative/absolute tolerance real equality folding
// uses in place of exact bit-compare, when Folder.EqEpsilon is left at its
// zero value (e.g. a Folder built directly rather than via pkg/config).
const defaultEqMargin = 1e-9

func (f *Folder) approxEq(a, b float64) bool {
	if a == b {
		return true
	}
	margin := f.EqEpsilon
	if margin == 0 {
		margin = defaultEqMargin
	}
	diff := math.Abs(a - b)
	if diff <= margin {
		return true
	}
	return diff <= margin*math.Max(math.Abs(a), math.Abs(b))
}

// Folder folds constant (sub-)expressions of a Mir, consulting Resolver
// for variable/parameter values and Tree to turn a handle.Handle reference
// into the itemtree entity the resolver expects. When Mutate is true,
// fully-foldable expressions are rewritten to literals in place and
// partial simplifications (the algebraic identities below) are written
// back too; when false, the same traversal only computes a value without
// touching the IR.
type Folder struct {
	Mir      *mir.Mir
	Tree     *itemtree.ItemTree
	Resolver resolver.ConstResolver
	Diags    *diag.Diagnostics
	Mutate   bool

	// EqEpsilon overrides defaultEqMargin for real `==`/`!=` folding; the
	// zero value falls back to defaultEqMargin. Populated from
	// pkg/config.Pipeline.RealEqEpsilon by the CLI driver.
	EqEpsilon float64

	curReal   handle.Handle[mir.RealExpr]
	curInt    handle.Handle[mir.IntExpr]
	curString handle.Handle[mir.StringExpr]
}

// Mode reports the traversal mode the fold.RealVisitor/IntVisitor/
// StringVisitor interfaces require.
func (f *Folder) Mode() fold.Mode {
	if f.Mutate {
		return fold.Rewrite
	}
	return fold.Evaluate
}

// FoldReal folds a real expression, returning (value, true) iff it is
// fully statically evaluable. As a side effect, when Mutate, any
// sub-expression that fully folds is rewritten to a literal, and
// sub-expressions that only partially simplify (per the algebraic
// identities) are rewritten to whichever operand they reduce to.
func (f *Folder) FoldReal(h handle.Handle[mir.RealExpr]) (float64, bool) {
	old := f.curReal
	f.curReal = h
	e := f.Mir.RealExprs.Get(h)
	val, ok := fold.WalkReal(f, e)
	if ok && f.Mutate && e.Kind != mir.RealKindLiteral {
		f.Mir.OverwriteReal(h, mir.RealLiteral(val))
	}
	f.curReal = old
	return val, ok
}

// FoldInt folds an int expression; see FoldReal.
func (f *Folder) FoldInt(h handle.Handle[mir.IntExpr]) (int64, bool) {
	old := f.curInt
	f.curInt = h
	e := f.Mir.IntExprs.Get(h)
	val, ok := fold.WalkInt(f, e)
	if ok && f.Mutate && e.Kind != mir.IntKindLiteral {
		f.Mir.OverwriteInt(h, mir.IntLiteral(val))
	}
	f.curInt = old
	return val, ok
}

// FoldString folds a string expression; see FoldReal.
func (f *Folder) FoldString(h handle.Handle[mir.StringExpr]) (string, bool) {
	old := f.curString
	f.curString = h
	e := f.Mir.StringExprs.Get(h)
	val, ok := fold.WalkString(f, e)
	if ok && f.Mutate && e.Kind != mir.StringKindLiteral {
		f.Mir.OverwriteString(h, mir.StringLiteral(val))
	}
	f.curString = old
	return val, ok
}

func (f *Folder) overwriteRealToExpr(src handle.Handle[mir.RealExpr]) {
	if !f.Mutate {
		return
	}
	f.Mir.OverwriteReal(f.curReal, *f.Mir.RealExprs.Get(src))
}

func (f *Folder) overwriteIntToExpr(src handle.Handle[mir.IntExpr]) {
	if !f.Mutate {
		return
	}
	f.Mir.OverwriteInt(f.curInt, *f.Mir.IntExprs.Get(src))
}

func (f *Folder) overwriteStringToExpr(src handle.Handle[mir.StringExpr]) {
	if !f.Mutate {
		return
	}
	f.Mir.OverwriteString(f.curString, *f.Mir.StringExprs.Get(src))
}

func (f *Folder) lintOverflow(span ast.Span) {
	if f.Diags != nil {
		f.Diags.Push(diag.ConstantOverflow(span))
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

var (
	_ fold.RealVisitor   = (*Folder)(nil)
	_ fold.IntVisitor    = (*Folder)(nil)
	_ fold.StringVisitor = (*Folder)(nil)
)
