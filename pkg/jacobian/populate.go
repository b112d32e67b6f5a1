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

package jacobian

import (
	"github.com/openvaf/vacore/pkg/autodiff"
	"github.com/openvaf/vacore/pkg/diag"
	"github.com/openvaf/vacore/pkg/itemtree"
	"github.com/openvaf/vacore/pkg/mir"
	"github.com/openvaf/vacore/pkg/resolver"
	log "github.com/sirupsen/logrus"
)

// rowEndpoint is one resolved row side: a node id, and whether a row should
// even be emitted for it (false for ground, which is always elided).
type rowEndpoint struct {
	node resolver.NodeID
	keep bool
}

// resolveRows determines (row_hi, row_lo) for an output, consulting
// BranchInfo for a declared branch and ground-checking both sides against
// nodes. A PortFlow-kinded branch must have been eliminated by earlier
// passes before assembly runs; reaching one here is reported as a
// structural diagnostic rather than panicking on malformed input.
func resolveRows(tree *itemtree.ItemTree, branches resolver.BranchInfo, nodes resolver.NodeResolver, o Output, diags *diag.Diagnostics) (hi, lo rowEndpoint, hasLo, ok bool) {
	switch o.Kind {
	case OutputBranchCurrent:
		resolved := branches.Branch(*tree.Branch(o.Branch))
		switch resolved.Kind {
		case resolver.BranchNodeGnd:
			hi = rowEndpoint{node: resolved.Hi, keep: !nodes.Node(resolved.Hi).IsGnd}
			return hi, rowEndpoint{}, false, true
		case resolver.BranchNodes:
			hi = rowEndpoint{node: resolved.Hi, keep: !nodes.Node(resolved.Hi).IsGnd}
			lo = rowEndpoint{node: resolved.Lo, keep: !nodes.Node(resolved.Lo).IsGnd}
			return hi, lo, true, true
		default: // resolver.BranchPortFlow
			if diags != nil {
				diags.Errorf(nil, "jacobian assembly reached a port-flow branch, which is unreachable at this stage")
			}
			return rowEndpoint{}, rowEndpoint{}, false, false
		}
	case OutputImplicitBranchCurrent:
		hi = rowEndpoint{node: o.Hi, keep: !nodes.Node(o.Hi).IsGnd}
		lo = rowEndpoint{node: o.Lo, keep: !nodes.Node(o.Lo).IsGnd}
		return hi, lo, true, true
	default:
		return rowEndpoint{}, rowEndpoint{}, false, false
	}
}

// Populate fills the matrix: for every output, and for every voltage
// interned by reg (in registration order, so column enumeration is
// deterministic across runs), look up the registered derivative and stamp it
// into m's resistive or reactive map per the sign matrix, with ground rows
// elided and accumulation by signed fadd/fsub/fneg.
func Populate(m *Matrix, mirM *mir.Mir, tree *itemtree.ItemTree, branches resolver.BranchInfo, nodes resolver.NodeResolver, reg *autodiff.Registry, outputs []Output, diags *diag.Diagnostics) {
	voltages := reg.Voltages()

	for _, o := range outputs {
		rowHi, rowLo, hasRowLo, ok := resolveRows(tree, branches, nodes, o, diags)
		if !ok {
			continue
		}

		for _, u := range voltages {
			if u.Kind != autodiff.UnknownVoltage {
				continue
			}
			val, ok := reg.Lookup(o.Place, u)
			if !ok {
				continue
			}
			d, ok := val.AsReal()
			if !ok || mirM.IsZeroValue(val) {
				continue
			}

			target := m.mapFor(o.Reactive)

			if rowHi.keep {
				stamp(target, mirM, rowHi.node, u.Hi, d, true)
				if u.HasLo {
					stamp(target, mirM, rowHi.node, u.Lo, d, false)
				}
			}
			if hasRowLo && rowLo.keep {
				stamp(target, mirM, rowLo.node, u.Hi, d, false)
				if u.HasLo {
					stamp(target, mirM, rowLo.node, u.Lo, d, true)
				}
			}

			log.WithFields(log.Fields{"row_hi": rowHi.node, "col_hi": u.Hi}).Trace("jacobian: stamped entry")
		}
	}
}

// stamp deposits one sign-matrix contribution into target, accumulating by
// signed fadd/fsub when the key already holds a value and materializing an
// fneg when a fresh negative entry is created.
func stamp(target *orderedMap, mirM *mir.Mir, row, col resolver.NodeID, d Value, positive bool) {
	key := Key{Row: row, Col: col}

	existing, ok := target.get(key)
	if !ok {
		if positive {
			target.set(key, d)
			return
		}
		target.set(key, mirM.PushReal(mir.RealExpr{Kind: mir.RealKindNegate, Arg: d}))
		return
	}

	if positive {
		target.set(key, mirM.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealAdd, Lhs: existing, Rhs: d}))
	} else {
		target.set(key, mirM.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealSub, Lhs: existing, Rhs: d}))
	}
}

// WrapOptBarriers replaces every matrix entry's value with a fresh
// optbarrier node wrapping it, run between assembly and downstream
// optimization so constant-propagation cannot delete a stamped entry
// before it is read back out.
func WrapOptBarriers(m *Matrix, mirM *mir.Mir) {
	wrap := func(v Value) Value {
		return mirM.PushReal(mir.RealExpr{Kind: mir.RealKindOptBarrier, Arg: v})
	}
	m.resistive.rewriteValues(wrap)
	m.reactive.rewriteValues(wrap)
}

// StripOptBarriers unwraps every optbarrier-wrapped matrix entry back to
// its operand, the matching step after downstream optimization has run.
// Entries not wrapped (e.g. in a test building a matrix directly) are left
// untouched.
func StripOptBarriers(m *Matrix, mirM *mir.Mir) {
	unwrap := func(v Value) Value {
		e := mirM.RealExprs.Get(v)
		if e.Kind != mir.RealKindOptBarrier {
			return v
		}
		return e.Arg
	}
	m.resistive.rewriteValues(unwrap)
	m.reactive.rewriteValues(unwrap)
}

// Sparsify removes every entry whose value is the canonical IR zero; run
// after optimization, once folding has had a chance to reduce entries.
func Sparsify(m *Matrix, mirM *mir.Mir) {
	isZero := func(v Value) bool { return mirM.IsZeroValue(mir.RealValue(v)) }
	m.resistive.removeIf(isZero)
	m.reactive.removeIf(isZero)
}
