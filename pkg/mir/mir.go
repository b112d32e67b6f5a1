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

// Mir owns the tri-sorted expression arenas and the CFG of basic blocks
// built for one lowered module. Passes borrow it mutably in sequence
// (constant folding, then AD, then Jacobian assembly, then strip), never
// concurrently: one Mir is owned by one goroutine for its whole lifetime.
type Mir struct {
	RealExprs   handle.Arena[RealExpr]
	IntExprs    handle.Arena[IntExpr]
	StringExprs handle.Arena[StringExpr]
	Blocks      handle.Arena[BasicBlock]
}

// PushReal appends a real expression and returns its handle.
func (m *Mir) PushReal(e RealExpr) handle.Handle[RealExpr] { return m.RealExprs.Push(e) }

// PushInt appends an int expression and returns its handle.
func (m *Mir) PushInt(e IntExpr) handle.Handle[IntExpr] { return m.IntExprs.Push(e) }

// PushString appends a string expression and returns its handle.
func (m *Mir) PushString(e StringExpr) handle.Handle[StringExpr] { return m.StringExprs.Push(e) }

// OverwriteReal replaces a real expression's contents in place, preserving
// its original span. This is the "rewrite" side of the fold framework:
// folding never clones or reallocates an IR node.
func (m *Mir) OverwriteReal(h handle.Handle[RealExpr], contents RealExpr) {
	contents.Span = m.RealExprs.Get(h).Span
	*m.RealExprs.Get(h) = contents
}

// OverwriteInt replaces an int expression's contents in place.
func (m *Mir) OverwriteInt(h handle.Handle[IntExpr], contents IntExpr) {
	contents.Span = m.IntExprs.Get(h).Span
	*m.IntExprs.Get(h) = contents
}

// OverwriteString replaces a string expression's contents in place.
func (m *Mir) OverwriteString(h handle.Handle[StringExpr], contents StringExpr) {
	contents.Span = m.StringExprs.Get(h).Span
	*m.StringExprs.Get(h) = contents
}

// RealLiteral builds a real-literal contents value, preserving whatever
// span the target expression already has when passed to OverwriteReal.
func RealLiteral(v float64) RealExpr { return RealExpr{Kind: RealKindLiteral, Literal: v} }

// IntLiteral builds an int-literal contents value.
func IntLiteral(v int64) IntExpr { return IntExpr{Kind: IntKindLiteral, Literal: v} }

// StringLiteral builds a string-literal contents value.
func StringLiteral(v string) StringExpr { return StringExpr{Kind: StringKindLiteral, Literal: v} }

// IsZeroValue reports whether a Value is the canonical IR zero for its
// sort: a real/int literal 0, used by Jacobian sparsification.
func (m *Mir) IsZeroValue(v Value) bool {
	if h, ok := v.AsReal(); ok {
		e := m.RealExprs.Get(h)
		return e.Kind == RealKindLiteral && e.Literal == 0
	}
	if h, ok := v.AsInt(); ok {
		e := m.IntExprs.Get(h)
		return e.Kind == IntKindLiteral && e.Literal == 0
	}
	return false
}
