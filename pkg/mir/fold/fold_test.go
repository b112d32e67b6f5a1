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

package fold

import (
	"testing"

	"github.com/openvaf/vacore/pkg/internal/assert"
	"github.com/openvaf/vacore/pkg/mir"
)

// recordingVisitor implements RealVisitor, IntVisitor and StringVisitor,
// recording the name of whichever Visit* method WalkReal/WalkInt/WalkString
// dispatched to rather than computing anything, so each test can assert
// dispatch routed to exactly the one method matching the Kind under test.
type recordingVisitor struct {
	mode   Mode
	called string
}

func (v *recordingVisitor) Mode() Mode { return v.mode }

func (v *recordingVisitor) VisitRealLiteral(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealLiteral"
	return 0, true
}
func (v *recordingVisitor) VisitRealBinaryOp(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealBinaryOp"
	return 0, true
}
func (v *recordingVisitor) VisitRealNegate(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealNegate"
	return 0, true
}
func (v *recordingVisitor) VisitRealCondition(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealCondition"
	return 0, true
}
func (v *recordingVisitor) VisitRealVarRef(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealVarRef"
	return 0, true
}
func (v *recordingVisitor) VisitRealParamRef(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealParamRef"
	return 0, true
}
func (v *recordingVisitor) VisitRealBranchAccess(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealBranchAccess"
	return 0, true
}
func (v *recordingVisitor) VisitRealNoise(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealNoise"
	return 0, true
}
func (v *recordingVisitor) VisitRealBuiltinCall1p(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealBuiltinCall1p"
	return 0, true
}
func (v *recordingVisitor) VisitRealBuiltinCall2p(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealBuiltinCall2p"
	return 0, true
}
func (v *recordingVisitor) VisitRealTemperature(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealTemperature"
	return 0, true
}
func (v *recordingVisitor) VisitRealSimParam(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealSimParam"
	return 0, true
}
func (v *recordingVisitor) VisitRealIntCast(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealIntCast"
	return 0, true
}
func (v *recordingVisitor) VisitRealDdt(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealDdt"
	return 0, true
}
func (v *recordingVisitor) VisitRealDdxDdt(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealDdxDdt"
	return 0, true
}
func (v *recordingVisitor) VisitRealOptBarrier(e *mir.RealExpr) (float64, bool) {
	v.called = "VisitRealOptBarrier"
	return 0, true
}

func (v *recordingVisitor) VisitIntLiteral(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntLiteral"
	return 0, true
}
func (v *recordingVisitor) VisitIntBinaryOp(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntBinaryOp"
	return 0, true
}
func (v *recordingVisitor) VisitIntComparison(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntComparison"
	return 0, true
}
func (v *recordingVisitor) VisitIntRealComparison(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntRealComparison"
	return 0, true
}
func (v *recordingVisitor) VisitIntUnaryOp(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntUnaryOp"
	return 0, true
}
func (v *recordingVisitor) VisitIntCondition(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntCondition"
	return 0, true
}
func (v *recordingVisitor) VisitIntVarRef(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntVarRef"
	return 0, true
}
func (v *recordingVisitor) VisitIntParamRef(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntParamRef"
	return 0, true
}
func (v *recordingVisitor) VisitIntPortConnected(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntPortConnected"
	return 0, true
}
func (v *recordingVisitor) VisitIntParamGiven(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntParamGiven"
	return 0, true
}
func (v *recordingVisitor) VisitIntPortRef(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntPortRef"
	return 0, true
}
func (v *recordingVisitor) VisitIntNetRef(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntNetRef"
	return 0, true
}
func (v *recordingVisitor) VisitIntStringEq(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntStringEq"
	return 0, true
}
func (v *recordingVisitor) VisitIntStringNeq(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntStringNeq"
	return 0, true
}
func (v *recordingVisitor) VisitIntRealCast(e *mir.IntExpr) (int64, bool) {
	v.called = "VisitIntRealCast"
	return 0, true
}

func (v *recordingVisitor) VisitStringLiteral(e *mir.StringExpr) (string, bool) {
	v.called = "VisitStringLiteral"
	return "", true
}
func (v *recordingVisitor) VisitStringCondition(e *mir.StringExpr) (string, bool) {
	v.called = "VisitStringCondition"
	return "", true
}
func (v *recordingVisitor) VisitStringVarRef(e *mir.StringExpr) (string, bool) {
	v.called = "VisitStringVarRef"
	return "", true
}
func (v *recordingVisitor) VisitStringParamRef(e *mir.StringExpr) (string, bool) {
	v.called = "VisitStringParamRef"
	return "", true
}

var (
	_ RealVisitor   = (*recordingVisitor)(nil)
	_ IntVisitor    = (*recordingVisitor)(nil)
	_ StringVisitor = (*recordingVisitor)(nil)
)

// TestWalkRealDispatch checks every RealExprKind routes to its matching
// Visit* method.
func TestWalkRealDispatch(t *testing.T) {
	cases := []struct {
		kind mir.RealExprKind
		want string
	}{
		{mir.RealKindLiteral, "VisitRealLiteral"},
		{mir.RealKindBinaryOp, "VisitRealBinaryOp"},
		{mir.RealKindNegate, "VisitRealNegate"},
		{mir.RealKindCondition, "VisitRealCondition"},
		{mir.RealKindVarRef, "VisitRealVarRef"},
		{mir.RealKindParamRef, "VisitRealParamRef"},
		{mir.RealKindBranchAccess, "VisitRealBranchAccess"},
		{mir.RealKindNoise, "VisitRealNoise"},
		{mir.RealKindBuiltinCall1p, "VisitRealBuiltinCall1p"},
		{mir.RealKindBuiltinCall2p, "VisitRealBuiltinCall2p"},
		{mir.RealKindTemperature, "VisitRealTemperature"},
		{mir.RealKindSimParam, "VisitRealSimParam"},
		{mir.RealKindIntCast, "VisitRealIntCast"},
		{mir.RealKindDdt, "VisitRealDdt"},
		{mir.RealKindDdxDdt, "VisitRealDdxDdt"},
		{mir.RealKindOptBarrier, "VisitRealOptBarrier"},
	}

	for _, c := range cases {
		v := &recordingVisitor{}
		_, ok := WalkReal(v, &mir.RealExpr{Kind: c.kind})
		assert.True(t, ok)
		assert.Equal(t, c.want, v.called)
	}
}

// TestWalkIntDispatch checks every IntExprKind routes to its matching
// Visit* method.
func TestWalkIntDispatch(t *testing.T) {
	cases := []struct {
		kind mir.IntExprKind
		want string
	}{
		{mir.IntKindLiteral, "VisitIntLiteral"},
		{mir.IntKindBinaryOp, "VisitIntBinaryOp"},
		{mir.IntKindComparison, "VisitIntComparison"},
		{mir.IntKindRealComparison, "VisitIntRealComparison"},
		{mir.IntKindUnaryOp, "VisitIntUnaryOp"},
		{mir.IntKindCondition, "VisitIntCondition"},
		{mir.IntKindVarRef, "VisitIntVarRef"},
		{mir.IntKindParamRef, "VisitIntParamRef"},
		{mir.IntKindPortConnected, "VisitIntPortConnected"},
		{mir.IntKindParamGiven, "VisitIntParamGiven"},
		{mir.IntKindPortRef, "VisitIntPortRef"},
		{mir.IntKindNetRef, "VisitIntNetRef"},
		{mir.IntKindStringEq, "VisitIntStringEq"},
		{mir.IntKindStringNeq, "VisitIntStringNeq"},
		{mir.IntKindRealCast, "VisitIntRealCast"},
	}

	for _, c := range cases {
		v := &recordingVisitor{}
		_, ok := WalkInt(v, &mir.IntExpr{Kind: c.kind})
		assert.True(t, ok)
		assert.Equal(t, c.want, v.called)
	}
}

// TestWalkStringDispatch checks every StringExprKind routes to its matching
// Visit* method.
func TestWalkStringDispatch(t *testing.T) {
	cases := []struct {
		kind mir.StringExprKind
		want string
	}{
		{mir.StringKindLiteral, "VisitStringLiteral"},
		{mir.StringKindCondition, "VisitStringCondition"},
		{mir.StringKindVarRef, "VisitStringVarRef"},
		{mir.StringKindParamRef, "VisitStringParamRef"},
	}

	for _, c := range cases {
		v := &recordingVisitor{}
		_, ok := WalkString(v, &mir.StringExpr{Kind: c.kind})
		assert.True(t, ok)
		assert.Equal(t, c.want, v.called)
	}
}

// TestWalkDefaultsOnUnrecognizedKind checks that a Kind value outside the
// known variants falls through each Walk's default case to (zero, false)
// without touching the visitor at all.
func TestWalkDefaultsOnUnrecognizedKind(t *testing.T) {
	const bogus = 255

	rv := &recordingVisitor{}
	rval, rok := WalkReal(rv, &mir.RealExpr{Kind: mir.RealExprKind(bogus)})
	assert.False(t, rok)
	assert.ApproxEqual(t, 0, rval)
	assert.Equal(t, "", rv.called)

	iv := &recordingVisitor{}
	ival, iok := WalkInt(iv, &mir.IntExpr{Kind: mir.IntExprKind(bogus)})
	assert.False(t, iok)
	assert.Equal(t, int64(0), ival)
	assert.Equal(t, "", iv.called)

	sv := &recordingVisitor{}
	sval, sok := WalkString(sv, &mir.StringExpr{Kind: mir.StringExprKind(bogus)})
	assert.False(t, sok)
	assert.Equal(t, "", sval)
	assert.Equal(t, "", sv.called)
}

// TestModeThreadsThroughVisitor checks that Mode is whatever the visitor
// reports, independent of the Kind being walked; the framework never
// inspects or overrides it.
func TestModeThreadsThroughVisitor(t *testing.T) {
	v := &recordingVisitor{mode: Rewrite}
	assert.Equal(t, Rewrite, v.Mode())

	v.mode = Evaluate
	assert.Equal(t, Evaluate, v.Mode())
}
