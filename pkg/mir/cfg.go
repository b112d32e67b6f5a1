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
package mir

import "github.com/openvaf/vacore/pkg/handle"

// Place names an assignment target: a variable of a given sort. AD-appended
// derivative statements target freshly allocated Places, one
// per (assigned variable, unknown) pair.
type Place struct {
	Sort Sort
	Slot uint32
}

// PhiArg is one incoming edge of a PhiStatement: the predecessor block and
// the value flowing in along it.
type PhiArg struct {
	Pred  handle.Handle[BasicBlock]
	Value Value
}

// PhiStatement merges values flowing in from a block's predecessors into a
// single Place at the head of a basic block.
type PhiStatement struct {
	Dst  Place
	Args []PhiArg
}

// StatementKind distinguishes an assignment from a call-for-effect.
type StatementKind uint8

// Statement kinds.
const (
	StatementAssign StatementKind = iota
	StatementCall
)

// Statement is one straight-line instruction within a basic block.
type Statement struct {
	Kind StatementKind

	// Dst and Rhs are meaningful when Kind == StatementAssign.
	Dst Place
	Rhs Value

	// Callee/Args are meaningful when Kind == StatementCall; the call's
	// return value, if any, is discarded.
	Callee handle.Handle[RealExpr]
	Args   []Value
}

// BasicBlock holds an ordered list of phi-statements followed by an ordered
// list of straight-line statements, plus the predecessor blocks phi-sources
// are keyed against.
type BasicBlock struct {
	Preds      []handle.Handle[BasicBlock]
	Succs      []handle.Handle[BasicBlock]
	Phis       []PhiStatement
	Statements []Statement
}

// IntLocation is a dense address assigned to exactly one (block, position)
// pair across an entire CFG, letting strip/liveness passes address
// individual statements with a plain bitset rather than a (block,index)
// pair.
type IntLocation uint32

// locationKind distinguishes a phi-statement location from a straight-line
// statement location when decoding an IntLocation back to its origin.
type locationKind uint8

const (
	locationPhi locationKind = iota
	locationStatement
)

// StatementLocation names the originating (block, position) pair an
// IntLocation was interned from.
type StatementLocation struct {
	Block handle.Handle[BasicBlock]
	Kind  locationKind
	Index uint32
}

// IsPhi reports whether this location names a phi-statement.
func (l StatementLocation) IsPhi() bool { return l.Kind == locationPhi }

// InternedLocations assigns a dense IntLocation to every (block, position)
// pair in a CFG, in block order then phi-then-statement order within each
// block. It is built once after a CFG's shape is finalized.
type InternedLocations struct {
	locations []StatementLocation
	// blockPhiStart/blockStmtStart record, per block (indexed by raw block
	// handle), the first IntLocation of its phi/statement run, letting the
	// strip and liveness passes translate a block-relative position back
	// into the dense space without rescanning.
	blockPhiStart  []IntLocation
	blockStmtStart []IntLocation
}

// InternLocations walks blocks in handle order and assigns each phi and
// statement a dense IntLocation.
func InternLocations(blocks *handle.Arena[BasicBlock]) *InternedLocations {
	n := blocks.Len()
	il := &InternedLocations{
		blockPhiStart:  make([]IntLocation, n),
		blockStmtStart: make([]IntLocation, n),
	}

	var next IntLocation
	for i := uint32(0); i < n; i++ {
		h := handle.New[BasicBlock](i)
		blk := blocks.Get(h)

		il.blockPhiStart[i] = next
		for p := range blk.Phis {
			il.locations = append(il.locations, StatementLocation{Block: h, Kind: locationPhi, Index: uint32(p)})
			next++
		}

		il.blockStmtStart[i] = next
		for s := range blk.Statements {
			il.locations = append(il.locations, StatementLocation{Block: h, Kind: locationStatement, Index: uint32(s)})
			next++
		}
	}

	return il
}

// Len returns the total number of interned locations.
func (il *InternedLocations) Len() uint32 { return uint32(len(il.locations)) }

// Location decodes an IntLocation back to its originating (block, position).
func (il *InternedLocations) Location(loc IntLocation) StatementLocation {
	return il.locations[loc]
}

// PhiLocation returns the dense location of the index-th phi statement of
// block h.
func (il *InternedLocations) PhiLocation(h handle.Handle[BasicBlock], index uint32) IntLocation {
	return il.blockPhiStart[h.Index()] + IntLocation(index)
}

// StatementLoc returns the dense location of the index-th straight-line
// statement of block h.
func (il *InternedLocations) StatementLoc(h handle.Handle[BasicBlock], index uint32) IntLocation {
	return il.blockStmtStart[h.Index()] + IntLocation(index)
}
