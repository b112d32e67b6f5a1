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

import (
	"testing"

	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/internal/assert"
)

func TestOverwriteRealPreservesSpan(t *testing.T) {
	var m Mir
	h := m.PushReal(RealExpr{Kind: RealKindLiteral, Literal: 1, Span: ast.Span{Start: 3, End: 9}})

	m.OverwriteReal(h, RealLiteral(14))

	got := m.RealExprs.Get(h)
	assert.Equal(t, RealKindLiteral, got.Kind)
	assert.Equal(t, 14.0, got.Literal)
	assert.Equal(t, ast.Span{Start: 3, End: 9}, got.Span)
}

func TestIsZeroValueReal(t *testing.T) {
	var m Mir
	zero := m.PushReal(RealLiteral(0))
	nonzero := m.PushReal(RealLiteral(1))

	assert.True(t, m.IsZeroValue(RealValue(zero)))
	assert.False(t, m.IsZeroValue(RealValue(nonzero)))
}

func TestIsZeroValueInt(t *testing.T) {
	var m Mir
	zero := m.PushInt(IntLiteral(0))
	assert.True(t, m.IsZeroValue(IntValue(zero)))
}

func TestValueUpcastDowncastRoundtrip(t *testing.T) {
	var m Mir
	rh := m.PushReal(RealLiteral(1))
	ih := m.PushInt(IntLiteral(1))
	sh := m.PushString(StringLiteral("x"))

	rv := RealValue(rh)
	_, isInt := rv.AsInt()
	assert.False(t, isInt, "a real value must not downcast as int")
	got, ok := rv.AsReal()
	assert.True(t, ok)
	assert.Equal(t, rh.Index(), got.Index())

	iv := IntValue(ih)
	gotI, ok := iv.AsInt()
	assert.True(t, ok)
	assert.Equal(t, ih.Index(), gotI.Index())

	sv := StringValue(sh)
	gotS, ok := sv.AsString()
	assert.True(t, ok)
	assert.Equal(t, sh.Index(), gotS.Index())
}

func TestInternLocationsOrdersPhisBeforeStatements(t *testing.T) {
	var m Mir

	b0 := m.Blocks.Push(BasicBlock{
		Statements: []Statement{{Kind: StatementAssign}, {Kind: StatementAssign}},
	})
	m.Blocks.Push(BasicBlock{
		Phis:       []PhiStatement{{}},
		Statements: []Statement{{Kind: StatementAssign}},
	})

	il := InternLocations(&m.Blocks)
	assert.Equal(t, uint32(4), il.Len())

	loc0 := il.StatementLoc(b0, 0)
	loc1 := il.StatementLoc(b0, 1)
	assert.Equal(t, uint32(0), uint32(loc0))
	assert.Equal(t, uint32(1), uint32(loc1))

	first := il.Location(loc0)
	assert.False(t, first.IsPhi())
	assert.Equal(t, b0.Index(), first.Block.Index())
}
