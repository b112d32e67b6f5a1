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
	"math"

	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/mir"
)

// VisitRealLiteral always folds to its own value.
func (f *Folder) VisitRealLiteral(e *mir.RealExpr) (float64, bool) {
	return e.Literal, true
}

// VisitRealBinaryOp dispatches to the per-operator algebraic fold, each of
// which short-circuits on identities that need only one known operand
// (x*0, x^1, ...) and otherwise requires both operands known.
func (f *Folder) VisitRealBinaryOp(e *mir.RealExpr) (float64, bool) {
	switch e.BinOp {
	case mir.RealAdd:
		return f.foldRealAdd(e.Lhs, e.Rhs)
	case mir.RealSub:
		return f.foldRealSub(e.Lhs, e.Rhs)
	case mir.RealMul:
		return f.foldRealMul(e.Lhs, e.Rhs)
	case mir.RealDiv:
		return f.foldRealDiv(e.Lhs, e.Rhs)
	case mir.RealPow:
		return f.foldRealPow(e.Lhs, e.Rhs)
	default:
		return 0, false
	}
}

func (f *Folder) foldRealAdd(lhsH, rhsH handle.Handle[mir.RealExpr]) (float64, bool) {
	lhsVal, lok := f.FoldReal(lhsH)
	rhsVal, rok := f.FoldReal(rhsH)
	switch {
	case lok && rok:
		return lhsVal + rhsVal, true
	case lok && lhsVal == 0:
		f.overwriteRealToExpr(rhsH)
		return 0, false
	case rok && rhsVal == 0:
		f.overwriteRealToExpr(lhsH)
		return 0, false
	default:
		return 0, false
	}
}

func (f *Folder) foldRealSub(lhsH, rhsH handle.Handle[mir.RealExpr]) (float64, bool) {
	lhsVal, lok := f.FoldReal(lhsH)
	rhsVal, rok := f.FoldReal(rhsH)
	switch {
	case lok && rok:
		return lhsVal - rhsVal, true
	case rok && rhsVal == 0:
		f.overwriteRealToExpr(lhsH)
		return 0, false
	default:
		return 0, false
	}
}

func (f *Folder) foldRealMul(lhsH, rhsH handle.Handle[mir.RealExpr]) (float64, bool) {
	lhsVal, lok := f.FoldReal(lhsH)
	rhsVal, rok := f.FoldReal(rhsH)
	switch {
	case lok && lhsVal == 0:
		return 0, true
	case rok && rhsVal == 0:
		return 0, true
	case lok && rok:
		return lhsVal * rhsVal, true
	case lok && lhsVal == 1:
		f.overwriteRealToExpr(rhsH)
		return 0, false
	case rok && rhsVal == 1:
		f.overwriteRealToExpr(lhsH)
		return 0, false
	default:
		return 0, false
	}
}

func (f *Folder) foldRealDiv(lhsH, rhsH handle.Handle[mir.RealExpr]) (float64, bool) {
	lhsVal, lok := f.FoldReal(lhsH)
	rhsVal, rok := f.FoldReal(rhsH)
	switch {
	case lok && lhsVal == 0:
		return 0, true
	case lok && rok:
		return lhsVal / rhsVal, true
	case rok && rhsVal == 1:
		f.overwriteRealToExpr(lhsH)
		return 0, false
	default:
		return 0, false
	}
}

// foldRealPow implements x^0 -> 0 (the VAMS-specific convention, not the
// mathematical 1), x^1 -> x, 0^x -> 0, 1^x -> 1, and full evaluation via
// math.Pow once both sides are known.
func (f *Folder) foldRealPow(lhsH, rhsH handle.Handle[mir.RealExpr]) (float64, bool) {
	lhsVal, lok := f.FoldReal(lhsH)
	rhsVal, rok := f.FoldReal(rhsH)
	switch {
	case rok && rhsVal == 0:
		return 0, true
	case !lok && rok && rhsVal == 1:
		f.overwriteRealToExpr(lhsH)
		return 0, false
	case lok && lhsVal == 0:
		return 0, true
	case lok && lhsVal == 1:
		return 1, true
	case lok && rok:
		return math.Pow(lhsVal, rhsVal), true
	default:
		return 0, false
	}
}

// VisitRealNegate folds -x when x is known. An unknown argument leaves the
// negation as it is; -(-y) with y unknown is not collapsed to y.
func (f *Folder) VisitRealNegate(e *mir.RealExpr) (float64, bool) {
	val, ok := f.FoldReal(e.Arg)
	if !ok {
		return 0, false
	}
	return -val, true
}

// VisitRealCondition folds the guard; if it resolves, folds (and, when
// Mutate, rewrites to) the taken branch alone, leaving the untaken branch
// unevaluated. If the guard is unknown, both branches are still folded for
// their own side effects but the condition itself cannot be resolved.
func (f *Folder) VisitRealCondition(e *mir.RealExpr) (float64, bool) {
	cond, condOk := f.FoldInt(e.Cond)
	if !condOk {
		f.FoldReal(e.TrueExpr)
		f.FoldReal(e.FalseExpr)
		return 0, false
	}
	if cond != 0 {
		val, ok := f.FoldReal(e.TrueExpr)
		if !ok {
			f.overwriteRealToExpr(e.TrueExpr)
		}
		return val, ok
	}
	val, ok := f.FoldReal(e.FalseExpr)
	if !ok {
		f.overwriteRealToExpr(e.FalseExpr)
	}
	return val, ok
}

// VisitRealVarRef consults Resolver for a propagated constant value.
func (f *Folder) VisitRealVarRef(e *mir.RealExpr) (float64, bool) {
	if f.Resolver == nil || f.Tree == nil {
		return 0, false
	}
	return f.Resolver.RealVariableValue(*f.Tree.Var(e.Var))
}

// VisitRealParamRef consults Resolver for a propagated constant value.
func (f *Folder) VisitRealParamRef(e *mir.RealExpr) (float64, bool) {
	if f.Resolver == nil || f.Tree == nil {
		return 0, false
	}
	return f.Resolver.RealParameterValue(*f.Tree.Param(e.Param))
}

// VisitRealBranchAccess is never statically known: branch potentials and
// flows are simulator state.
func (f *Folder) VisitRealBranchAccess(e *mir.RealExpr) (float64, bool) { return 0, false }

// VisitRealNoise is never statically known.
func (f *Folder) VisitRealNoise(e *mir.RealExpr) (float64, bool) { return 0, false }

var call1p = map[mir.BuiltinCall1p]func(float64) float64{
	mir.CallSqrt:    math.Sqrt,
	mir.CallExp:     math.Exp,
	mir.CallLn:      math.Log,
	mir.CallLog:     math.Log10,
	mir.CallAbs:     math.Abs,
	mir.CallFloor:   math.Floor,
	mir.CallCeil:    math.Ceil,
	mir.CallSin:     math.Sin,
	mir.CallCos:     math.Cos,
	mir.CallTan:     math.Tan,
	mir.CallArcsin:  math.Asin,
	mir.CallArccos:  math.Acos,
	mir.CallArctan:  math.Atan,
	mir.CallSinh:    math.Sinh,
	mir.CallCosh:    math.Cosh,
	mir.CallTanh:    math.Tanh,
	mir.CallArcsinh: math.Asinh,
	mir.CallArccosh: math.Acosh,
	mir.CallArctanh: math.Atanh,
}

// VisitRealBuiltinCall1p folds single-argument math builtins once the
// argument is known; none of these have a useful partial identity.
func (f *Folder) VisitRealBuiltinCall1p(e *mir.RealExpr) (float64, bool) {
	arg, ok := f.FoldReal(e.Arg)
	if !ok {
		return 0, false
	}
	fn, known := call1p[e.Call1p]
	if !known {
		return 0, false
	}
	return fn(arg), true
}

// VisitRealBuiltinCall2p folds two-argument math builtins; pow is routed
// through foldRealPow for its algebraic identities, the rest require both
// arguments known.
func (f *Folder) VisitRealBuiltinCall2p(e *mir.RealExpr) (float64, bool) {
	if e.Call2p == mir.CallPow {
		return f.foldRealPow(e.Arg, e.Arg2)
	}
	lhs, lok := f.FoldReal(e.Arg)
	rhs, rok := f.FoldReal(e.Arg2)
	if !lok || !rok {
		return 0, false
	}
	switch e.Call2p {
	case mir.CallHypot:
		return math.Hypot(lhs, rhs), true
	case mir.CallArctan2:
		return math.Atan2(lhs, rhs), true
	case mir.CallMax:
		return math.Max(lhs, rhs), true
	case mir.CallMin:
		return math.Min(lhs, rhs), true
	default:
		return 0, false
	}
}

// VisitRealTemperature is never statically known: ambient temperature is
// resolved at simulation time.
func (f *Folder) VisitRealTemperature(e *mir.RealExpr) (float64, bool) { return 0, false }

// VisitRealSimParam is never statically known: simulator parameters are
// supplied by the host simulator, not the compiler.
func (f *Folder) VisitRealSimParam(e *mir.RealExpr) (float64, bool) { return 0, false }

// VisitRealIntCast widens a folded int to real exactly, with no rounding.
func (f *Folder) VisitRealIntCast(e *mir.RealExpr) (float64, bool) {
	val, ok := f.FoldInt(e.IntCastArg)
	if !ok {
		return 0, false
	}
	return float64(val), true
}

// VisitRealDdt is never constant: a time derivative of a known value is
// zero, but distinguishing "provably constant in time" from "merely
// currently unknown" is automatic differentiation's job, not the constant
// folder's.
func (f *Folder) VisitRealDdt(e *mir.RealExpr) (float64, bool) { return 0, false }

// VisitRealDdxDdt is never constant, for the same reason VisitRealDdt
// isn't: it names a reactive (time-derivative) contribution.
func (f *Folder) VisitRealDdxDdt(e *mir.RealExpr) (float64, bool) { return 0, false }

// VisitRealOptBarrier is never folded through: that is the entire point of
// the barrier. It intentionally does not even recurse into its operand.
func (f *Folder) VisitRealOptBarrier(e *mir.RealExpr) (float64, bool) { return 0, false }
