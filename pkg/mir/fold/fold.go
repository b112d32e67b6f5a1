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

// Package fold provides the structural visitor framework folding walks
// over: one generic, variant-dispatching Walk per sort, parameterized by a
// Mode distinguishing read-only evaluation from in-place rewrite. Rather
// than three near-identical per-sort fold interfaces plus separate
// binary-operator/builtin-call/comparison helper interfaces, each sort
// gets a single RealVisitor/IntVisitor/StringVisitor interface with one
// method per expression variant.
package fold

import "github.com/openvaf/vacore/pkg/mir"

// Mode distinguishes the two traversal purposes that share one recursive
// walk: Evaluate never touches the IR, Rewrite overwrites sub-expressions
// via the visitor's own Overwrite* calls as it recurses (the mode itself
// carries no behavior here; it exists so a caller-supplied visitor can
// branch on it once rather than the framework needing two parallel
// traversal functions).
type Mode uint8

// Traversal modes.
const (
	Evaluate Mode = iota
	Rewrite
)

// RealVisitor receives one call per RealExpr variant encountered by
// WalkReal. Each method may recurse into WalkReal/WalkInt/WalkString on its
// own sub-expressions to continue the traversal.
type RealVisitor interface {
	Mode() Mode

	VisitRealLiteral(e *mir.RealExpr) (float64, bool)
	VisitRealBinaryOp(e *mir.RealExpr) (float64, bool)
	VisitRealNegate(e *mir.RealExpr) (float64, bool)
	VisitRealCondition(e *mir.RealExpr) (float64, bool)
	VisitRealVarRef(e *mir.RealExpr) (float64, bool)
	VisitRealParamRef(e *mir.RealExpr) (float64, bool)
	VisitRealBranchAccess(e *mir.RealExpr) (float64, bool)
	VisitRealNoise(e *mir.RealExpr) (float64, bool)
	VisitRealBuiltinCall1p(e *mir.RealExpr) (float64, bool)
	VisitRealBuiltinCall2p(e *mir.RealExpr) (float64, bool)
	VisitRealTemperature(e *mir.RealExpr) (float64, bool)
	VisitRealSimParam(e *mir.RealExpr) (float64, bool)
	VisitRealIntCast(e *mir.RealExpr) (float64, bool)
	VisitRealDdt(e *mir.RealExpr) (float64, bool)
	VisitRealDdxDdt(e *mir.RealExpr) (float64, bool)
	VisitRealOptBarrier(e *mir.RealExpr) (float64, bool)
}

// IntVisitor receives one call per IntExpr variant encountered by WalkInt.
type IntVisitor interface {
	Mode() Mode

	VisitIntLiteral(e *mir.IntExpr) (int64, bool)
	VisitIntBinaryOp(e *mir.IntExpr) (int64, bool)
	VisitIntComparison(e *mir.IntExpr) (int64, bool)
	VisitIntRealComparison(e *mir.IntExpr) (int64, bool)
	VisitIntUnaryOp(e *mir.IntExpr) (int64, bool)
	VisitIntCondition(e *mir.IntExpr) (int64, bool)
	VisitIntVarRef(e *mir.IntExpr) (int64, bool)
	VisitIntParamRef(e *mir.IntExpr) (int64, bool)
	VisitIntPortConnected(e *mir.IntExpr) (int64, bool)
	VisitIntParamGiven(e *mir.IntExpr) (int64, bool)
	VisitIntPortRef(e *mir.IntExpr) (int64, bool)
	VisitIntNetRef(e *mir.IntExpr) (int64, bool)
	VisitIntStringEq(e *mir.IntExpr) (int64, bool)
	VisitIntStringNeq(e *mir.IntExpr) (int64, bool)
	VisitIntRealCast(e *mir.IntExpr) (int64, bool)
}

// StringVisitor receives one call per StringExpr variant encountered by
// WalkString.
type StringVisitor interface {
	Mode() Mode

	VisitStringLiteral(e *mir.StringExpr) (string, bool)
	VisitStringCondition(e *mir.StringExpr) (string, bool)
	VisitStringVarRef(e *mir.StringExpr) (string, bool)
	VisitStringParamRef(e *mir.StringExpr) (string, bool)
}

// WalkReal dispatches to the RealVisitor method matching e's Kind.
func WalkReal(v RealVisitor, e *mir.RealExpr) (float64, bool) {
	switch e.Kind {
	case mir.RealKindLiteral:
		return v.VisitRealLiteral(e)
	case mir.RealKindBinaryOp:
		return v.VisitRealBinaryOp(e)
	case mir.RealKindNegate:
		return v.VisitRealNegate(e)
	case mir.RealKindCondition:
		return v.VisitRealCondition(e)
	case mir.RealKindVarRef:
		return v.VisitRealVarRef(e)
	case mir.RealKindParamRef:
		return v.VisitRealParamRef(e)
	case mir.RealKindBranchAccess:
		return v.VisitRealBranchAccess(e)
	case mir.RealKindNoise:
		return v.VisitRealNoise(e)
	case mir.RealKindBuiltinCall1p:
		return v.VisitRealBuiltinCall1p(e)
	case mir.RealKindBuiltinCall2p:
		return v.VisitRealBuiltinCall2p(e)
	case mir.RealKindTemperature:
		return v.VisitRealTemperature(e)
	case mir.RealKindSimParam:
		return v.VisitRealSimParam(e)
	case mir.RealKindIntCast:
		return v.VisitRealIntCast(e)
	case mir.RealKindDdt:
		return v.VisitRealDdt(e)
	case mir.RealKindDdxDdt:
		return v.VisitRealDdxDdt(e)
	case mir.RealKindOptBarrier:
		return v.VisitRealOptBarrier(e)
	default:
		return 0, false
	}
}

// WalkInt dispatches to the IntVisitor method matching e's Kind.
func WalkInt(v IntVisitor, e *mir.IntExpr) (int64, bool) {
	switch e.Kind {
	case mir.IntKindLiteral:
		return v.VisitIntLiteral(e)
	case mir.IntKindBinaryOp:
		return v.VisitIntBinaryOp(e)
	case mir.IntKindComparison:
		return v.VisitIntComparison(e)
	case mir.IntKindRealComparison:
		return v.VisitIntRealComparison(e)
	case mir.IntKindUnaryOp:
		return v.VisitIntUnaryOp(e)
	case mir.IntKindCondition:
		return v.VisitIntCondition(e)
	case mir.IntKindVarRef:
		return v.VisitIntVarRef(e)
	case mir.IntKindParamRef:
		return v.VisitIntParamRef(e)
	case mir.IntKindPortConnected:
		return v.VisitIntPortConnected(e)
	case mir.IntKindParamGiven:
		return v.VisitIntParamGiven(e)
	case mir.IntKindPortRef:
		return v.VisitIntPortRef(e)
	case mir.IntKindNetRef:
		return v.VisitIntNetRef(e)
	case mir.IntKindStringEq:
		return v.VisitIntStringEq(e)
	case mir.IntKindStringNeq:
		return v.VisitIntStringNeq(e)
	case mir.IntKindRealCast:
		return v.VisitIntRealCast(e)
	default:
		return 0, false
	}
}

// WalkString dispatches to the StringVisitor method matching e's Kind.
func WalkString(v StringVisitor, e *mir.StringExpr) (string, bool) {
	switch e.Kind {
	case mir.StringKindLiteral:
		return v.VisitStringLiteral(e)
	case mir.StringKindCondition:
		return v.VisitStringCondition(e)
	case mir.StringKindVarRef:
		return v.VisitStringVarRef(e)
	case mir.StringKindParamRef:
		return v.VisitStringParamRef(e)
	default:
		return "", false
	}
}
