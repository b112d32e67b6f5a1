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

package autodiff

import (
	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/diag"
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/mir"
	log "github.com/sirupsen/logrus"
)

// Request is one demanded derivative: differentiate the statement
// assigning to a registered Place wrt Unknown, and write the result to Dst
// (a freshly allocated Place the caller set aside for it).
type Request struct {
	Unknown Unknown
	Dst     mir.Place
}

// DerivativeMap indexes, per assigned variable Place, the set of
// derivatives demanded of its defining statement.
type DerivativeMap map[mir.Place][]Request

// Predicate selects which demanded derivatives are actually materialized
// for a given (assigned place, statement, unknown) triple.
type Predicate func(v mir.Place, stmt *mir.Statement, u Unknown) bool

// DefaultPredicate accepts every registered derivative.
func DefaultPredicate(mir.Place, *mir.Statement, Unknown) bool { return true }

// defaultExpansionMultiplier is the heuristic coefficient used when
// Differentiator.ExpansionMultiplier is left at its zero value.
const defaultExpansionMultiplier = 2

// EstimateCapacity implements the pre-sizing heuristic for the target
// statement vector: multiplier*derivativeCount/variableCount + 1, the
// expected per-statement expansion factor of an AD run. multiplier is the
// heuristic's leading coefficient (2 by default, per
// config.Default().DerivativeExpansionMultiplier); a caller profiling a
// model with unusually high or low derivative fan-out can retune it via
// pkg/config without touching this package.
func EstimateCapacity(derivativeCount, variableCount, multiplier int) int {
	if variableCount == 0 {
		return derivativeCount + 1
	}
	return multiplier*derivativeCount/variableCount + 1
}

// Run walks the Mir's CFG in post-order, appending one derivative
// assignment immediately after each statement whose Place is registered in
// derivatives and whose (place, unknown) pair passes pred. Higher-order
// derivatives fall out of the same traversal: if a caller also registers
// derivatives for a Request.Dst Place, the loop reaches the
// freshly-appended statement in its own pass over the block and
// differentiates it too, recursing without any special-casing.
//
// Diagnostics accumulate non-fatally: a statement whose assigned variable
// is not real-sorted cannot be symbolically differentiated by this engine
// and is reported via diag.ADError, but AD continues with every other
// demanded statement.
func Run(d *Differentiator, derivatives DerivativeMap, pred Predicate, diags *diag.Diagnostics) {
	if pred == nil {
		pred = DefaultPredicate
	}

	multiplier := d.ExpansionMultiplier
	if multiplier == 0 {
		multiplier = defaultExpansionMultiplier
	}
	derivCount := 0
	for _, reqs := range derivatives {
		derivCount += len(reqs)
	}
	growth := EstimateCapacity(derivCount, len(derivatives), multiplier)

	for _, bh := range postOrder(&d.Mir.Blocks) {
		blk := d.Mir.Blocks.Get(bh)

		// Pre-size the target statement vector for the expected expansion
		// so mid-scan insertions rarely reallocate.
		if derivCount > 0 && cap(blk.Statements) < len(blk.Statements)*growth {
			grown := make([]mir.Statement, len(blk.Statements), len(blk.Statements)*growth)
			copy(grown, blk.Statements)
			blk.Statements = grown
		}

		for i := 0; i < len(blk.Statements); i++ {
			stmt := blk.Statements[i]
			if stmt.Kind != mir.StatementAssign {
				continue
			}

			reqs, ok := derivatives[stmt.Dst]
			if !ok {
				continue
			}

			appended := d.differentiateStatement(stmt, reqs, pred, diags)
			if len(appended) == 0 {
				continue
			}

			n := len(blk.Statements)
			blk.Statements = append(blk.Statements, appended...)
			copy(blk.Statements[i+1+len(appended):], blk.Statements[i+1:n])
			copy(blk.Statements[i+1:], appended)
		}
	}
}

func (d *Differentiator) differentiateStatement(stmt mir.Statement, reqs []Request, pred Predicate, diags *diag.Diagnostics) []mir.Statement {
	rh, isReal := stmt.Rhs.AsReal()
	if !isReal {
		if diags != nil {
			diags.Push(diag.ADError(d.spanOf(stmt.Rhs), "assigned value is not real-sorted"))
		}
		return nil
	}

	appended := make([]mir.Statement, 0, len(reqs))
	for _, req := range reqs {
		if !pred(stmt.Dst, &stmt, req.Unknown) {
			continue
		}

		derivH := d.DiffReal(rh, req.Unknown)
		val := mir.RealValue(derivH)

		d.Registry.Register(stmt.Dst, req.Unknown, val)
		appended = append(appended, mir.Statement{Kind: mir.StatementAssign, Dst: req.Dst, Rhs: val})

		log.WithFields(log.Fields{
			"place": req.Dst,
		}).Trace("autodiff: appended derivative statement")
	}
	return appended
}

// spanOf reports a best-effort span for diagnostics anchored to a Value of
// unknown sort.
func (d *Differentiator) spanOf(v mir.Value) ast.Span {
	if ih, ok := v.AsInt(); ok {
		return d.Mir.IntExprs.Get(ih).Span
	}
	if sh, ok := v.AsString(); ok {
		return d.Mir.StringExprs.Get(sh).Span
	}
	return ast.Span{}
}

// postOrder returns every block handle of blocks in depth-first post-order
// starting from block 0 (the entry block), following Succs; any block
// unreachable from the entry is appended afterward in handle order so no
// statement is silently skipped.
func postOrder(blocks *handle.Arena[mir.BasicBlock]) []handle.Handle[mir.BasicBlock] {
	n := blocks.Len()
	visited := make([]bool, n)
	var order []handle.Handle[mir.BasicBlock]

	var visit func(h handle.Handle[mir.BasicBlock])
	visit = func(h handle.Handle[mir.BasicBlock]) {
		if visited[h.Index()] {
			return
		}
		visited[h.Index()] = true
		blk := blocks.Get(h)
		for _, succ := range blk.Succs {
			visit(succ)
		}
		order = append(order, h)
	}

	if n > 0 {
		visit(handle.New[mir.BasicBlock](0))
	}
	for i := uint32(0); i < n; i++ {
		visit(handle.New[mir.BasicBlock](i))
	}

	return order
}
