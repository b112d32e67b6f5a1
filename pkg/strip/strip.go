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

// Package strip implements the dead-code pass: given a bitset of retained
// IntLocations, drop every phi-statement and straight-line statement
// outside it, in one linear pass, without renumbering survivors.
package strip

import (
	"github.com/openvaf/vacore/pkg/bitset"
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/mir"
)

// Run removes every phi/statement of every block in blocks whose interned
// location is absent from retain. retain must already be closed under
// data-flow dependency; Run does not validate that.
func Run(blocks *handle.Arena[mir.BasicBlock], locations *mir.InternedLocations, retain bitset.Set[mir.IntLocation]) {
	n := blocks.Len()
	for i := uint32(0); i < n; i++ {
		h := handle.New[mir.BasicBlock](i)
		blk := blocks.Get(h)

		blk.Phis = filterPhis(blk.Phis, func(idx int) bool {
			return retain.Contains(locations.PhiLocation(h, uint32(idx)))
		})
		blk.Statements = filterStatements(blk.Statements, func(idx int) bool {
			return retain.Contains(locations.StatementLoc(h, uint32(idx)))
		})
	}
}

// filterPhis compacts phis in place, keeping only the entries keep accepts,
// the same append-into-own-prefix pattern used elsewhere in this module for
// order-preserving removal without a second allocation.
func filterPhis(phis []mir.PhiStatement, keep func(int) bool) []mir.PhiStatement {
	out := phis[:0]
	for i, p := range phis {
		if keep(i) {
			out = append(out, p)
		}
	}
	return out
}

func filterStatements(stmts []mir.Statement, keep func(int) bool) []mir.Statement {
	out := stmts[:0]
	for i, s := range stmts {
		if keep(i) {
			out = append(out, s)
		}
	}
	return out
}
