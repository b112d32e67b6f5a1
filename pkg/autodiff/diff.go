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
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/itemtree"
	"github.com/openvaf/vacore/pkg/mir"
	"github.com/openvaf/vacore/pkg/resolver"
)

// Differentiator holds the borrows an AD run needs: the Mir being
// appended to, the item tree (for Var/Param/Branch lookups), the name
// resolver's branch-endpoint queries, and the VarPlace binding from an
// item-tree variable to the CFG Place its assignments target — the
// (external, out of scope) lowering pass is what would normally produce
// this binding.
type Differentiator struct {
	Mir      *mir.Mir
	Tree     *itemtree.ItemTree
	Branches resolver.BranchInfo
	VarPlace map[handle.Handle[itemtree.Var]]mir.Place
	Registry *Registry

	// ExpansionMultiplier is the leading coefficient of EstimateCapacity's
	// pre-sizing heuristic; the zero value falls back to the default of 2.
	// Populated from pkg/config.Pipeline.DerivativeExpansionMultiplier by
	// the CLI driver.
	ExpansionMultiplier int
}

func (d *Differentiator) zero(span ast.Span) handle.Handle[mir.RealExpr] {
	return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindLiteral, Literal: 0, Span: span})
}

func (d *Differentiator) one(span ast.Span) handle.Handle[mir.RealExpr] {
	return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindLiteral, Literal: 1, Span: span})
}

func (d *Differentiator) lit(v float64, span ast.Span) handle.Handle[mir.RealExpr] {
	return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindLiteral, Literal: v, Span: span})
}

func (d *Differentiator) bin(op mir.RealBinaryOperator, lhs, rhs handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: op, Lhs: lhs, Rhs: rhs, Span: span})
}

func (d *Differentiator) add(a, b handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.bin(mir.RealAdd, a, b, span)
}

func (d *Differentiator) sub(a, b handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.bin(mir.RealSub, a, b, span)
}

func (d *Differentiator) mul(a, b handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.bin(mir.RealMul, a, b, span)
}

func (d *Differentiator) div(a, b handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.bin(mir.RealDiv, a, b, span)
}

func (d *Differentiator) neg(a handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindNegate, Arg: a, Span: span})
}

func (d *Differentiator) call1p(fn mir.BuiltinCall1p, arg handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindBuiltinCall1p, Call1p: fn, Arg: arg, Span: span})
}

// geCond builds the int condition `lhs >= rhs` (both real-sorted operands).
func (d *Differentiator) geCond(lhs, rhs handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.IntExpr] {
	return d.Mir.PushInt(mir.IntExpr{Kind: mir.IntKindRealComparison, CmpOp: mir.CmpGe, RealLhs: lhs, RealRhs: rhs, Span: span})
}

func (d *Differentiator) leCond(lhs, rhs handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.IntExpr] {
	return d.Mir.PushInt(mir.IntExpr{Kind: mir.IntKindRealComparison, CmpOp: mir.CmpLe, RealLhs: lhs, RealRhs: rhs, Span: span})
}

func (d *Differentiator) cond(c handle.Handle[mir.IntExpr], t, f handle.Handle[mir.RealExpr], span ast.Span) handle.Handle[mir.RealExpr] {
	return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindCondition, Cond: c, TrueExpr: t, FalseExpr: f, Span: span})
}

// DiffReal returns the handle of ∂e/∂u for a real-sorted expression e,
// recursing structurally. Every variant has a defined derivative (constant
// 0 for forms with no continuous dependence on u); there is no failure
// case at this level. Per-statement AD failures arise only when the
// assigned variable being differentiated isn't real-sorted at all, handled
// by the caller in run.go.
func (d *Differentiator) DiffReal(h handle.Handle[mir.RealExpr], u Unknown) handle.Handle[mir.RealExpr] {
	e := d.Mir.RealExprs.Get(h)
	span := e.Span

	switch e.Kind {
	case mir.RealKindLiteral:
		return d.zero(span)

	case mir.RealKindBinaryOp:
		return d.diffBinaryOp(e, u)

	case mir.RealKindNegate:
		return d.neg(d.DiffReal(e.Arg, u), span)

	case mir.RealKindCondition:
		// The guard is an int expression unaffected by a real unknown;
		// only the taken branch's identity changes with the guard, so
		// both branches are differentiated and selected the same way.
		return d.cond(e.Cond, d.DiffReal(e.TrueExpr, u), d.DiffReal(e.FalseExpr, u), span)

	case mir.RealKindVarRef:
		if place, ok := d.VarPlace[e.Var]; ok {
			if v, ok := d.Registry.Lookup(place, u); ok {
				if rh, ok := v.AsReal(); ok {
					return rh
				}
			}
		}
		return d.zero(span)

	case mir.RealKindParamRef:
		if u.Kind == UnknownParameter && u.Param == e.Param {
			return d.one(span)
		}
		return d.zero(span)

	case mir.RealKindBranchAccess:
		return d.diffBranchAccess(e, u)

	case mir.RealKindNoise:
		return d.zero(span)

	case mir.RealKindBuiltinCall1p:
		return d.diffCall1p(h, e, u)

	case mir.RealKindBuiltinCall2p:
		return d.diffCall2p(h, e, u)

	case mir.RealKindTemperature:
		return d.zero(span)

	case mir.RealKindSimParam:
		return d.zero(span)

	case mir.RealKindIntCast:
		// An integer expression carries no continuous derivative wrt a
		// real circuit unknown.
		return d.zero(span)

	case mir.RealKindDdt:
		inner := d.DiffReal(e.DdtArg, u)
		return d.Mir.PushReal(mir.RealExpr{Kind: mir.RealKindDdxDdt, DdxDdtArg: inner, Span: span})

	case mir.RealKindDdxDdt:
		// Second-order reactive differentiation is not exercised by this
		// core; treated as constant.
		return d.zero(span)

	case mir.RealKindOptBarrier:
		return d.zero(span)

	default:
		return d.zero(span)
	}
}

func (d *Differentiator) diffBinaryOp(e *mir.RealExpr, u Unknown) handle.Handle[mir.RealExpr] {
	span := e.Span
	switch e.BinOp {
	case mir.RealAdd:
		return d.add(d.DiffReal(e.Lhs, u), d.DiffReal(e.Rhs, u), span)
	case mir.RealSub:
		return d.sub(d.DiffReal(e.Lhs, u), d.DiffReal(e.Rhs, u), span)
	case mir.RealMul:
		// Product rule: d(a*b) = da*b + a*db.
		da, db := d.DiffReal(e.Lhs, u), d.DiffReal(e.Rhs, u)
		return d.add(d.mul(da, e.Rhs, span), d.mul(e.Lhs, db, span), span)
	case mir.RealDiv:
		// Quotient rule: d(a/b) = (da*b - a*db) / b^2.
		da, db := d.DiffReal(e.Lhs, u), d.DiffReal(e.Rhs, u)
		num := d.sub(d.mul(da, e.Rhs, span), d.mul(e.Lhs, db, span), span)
		den := d.mul(e.Rhs, e.Rhs, span)
		return d.div(num, den, span)
	case mir.RealPow:
		return d.diffPow(e.Lhs, e.Rhs, span, u)
	default:
		return d.zero(span)
	}
}

// diffPow implements the general logarithmic-differentiation rule
// d(a^b) = a^b * (db*ln(a) + b*da/a), specialized to the ordinary power
// rule d(a^c) = c*a^(c-1)*da when the exponent is a structurally-literal
// constant, avoiding a spurious ln(a) of a possibly non-positive base for
// the overwhelmingly common case of an integer literal exponent.
func (d *Differentiator) diffPow(lhs, rhs handle.Handle[mir.RealExpr], span ast.Span, u Unknown) handle.Handle[mir.RealExpr] {
	rhsExpr := d.Mir.RealExprs.Get(rhs)
	da := d.DiffReal(lhs, u)

	if rhsExpr.Kind == mir.RealKindLiteral {
		c := rhsExpr.Literal
		if c == 0 {
			return d.zero(span)
		}
		cMinus1 := d.lit(c-1, span)
		powed := d.bin(mir.RealPow, lhs, cMinus1, span)
		return d.mul(d.mul(d.lit(c, span), powed, span), da, span)
	}

	db := d.DiffReal(rhs, u)
	self := d.bin(mir.RealPow, lhs, rhs, span)
	lnA := d.call1p(mir.CallLn, lhs, span)
	term1 := d.mul(db, lnA, span)
	term2 := d.mul(rhs, d.div(da, lhs, span), span)
	return d.mul(self, d.add(term1, term2, span), span)
}

func (d *Differentiator) diffCall1p(self handle.Handle[mir.RealExpr], e *mir.RealExpr, u Unknown) handle.Handle[mir.RealExpr] {
	span := e.Span
	arg := e.Arg
	da := d.DiffReal(arg, u)
	// selfHandle lets sqrt/exp/tanh's derivative rules reference the
	// already-computed f(x) node (e itself) rather than rebuilding it,
	// matching the framework's no-clone discipline.
	selfHandle := self

	switch e.Call1p {
	case mir.CallSqrt:
		return d.div(da, d.mul(d.lit(2, span), selfHandle, span), span)
	case mir.CallExp:
		return d.mul(da, selfHandle, span)
	case mir.CallLn:
		return d.div(da, arg, span)
	case mir.CallLog:
		return d.div(da, d.mul(arg, d.lit(ln10, span), span), span)
	case mir.CallAbs:
		c := d.geCond(arg, d.lit(0, span), span)
		return d.cond(c, da, d.neg(da, span), span)
	case mir.CallFloor, mir.CallCeil:
		return d.zero(span)
	case mir.CallSin:
		cos := d.call1p(mir.CallCos, arg, span)
		return d.mul(da, cos, span)
	case mir.CallCos:
		sin := d.call1p(mir.CallSin, arg, span)
		return d.neg(d.mul(da, sin, span), span)
	case mir.CallTan:
		cos := d.call1p(mir.CallCos, arg, span)
		return d.div(da, d.mul(cos, cos, span), span)
	case mir.CallArcsin:
		denom := d.call1p(mir.CallSqrt, d.sub(d.lit(1, span), d.mul(arg, arg, span), span), span)
		return d.div(da, denom, span)
	case mir.CallArccos:
		denom := d.call1p(mir.CallSqrt, d.sub(d.lit(1, span), d.mul(arg, arg, span), span), span)
		return d.neg(d.div(da, denom, span), span)
	case mir.CallArctan:
		denom := d.add(d.lit(1, span), d.mul(arg, arg, span), span)
		return d.div(da, denom, span)
	case mir.CallSinh:
		cosh := d.call1p(mir.CallCosh, arg, span)
		return d.mul(da, cosh, span)
	case mir.CallCosh:
		sinh := d.call1p(mir.CallSinh, arg, span)
		return d.mul(da, sinh, span)
	case mir.CallTanh:
		return d.mul(da, d.sub(d.lit(1, span), d.mul(selfHandle, selfHandle, span), span), span)
	case mir.CallArcsinh:
		denom := d.call1p(mir.CallSqrt, d.add(d.mul(arg, arg, span), d.lit(1, span), span), span)
		return d.div(da, denom, span)
	case mir.CallArccosh:
		denom := d.call1p(mir.CallSqrt, d.sub(d.mul(arg, arg, span), d.lit(1, span), span), span)
		return d.div(da, denom, span)
	case mir.CallArctanh:
		denom := d.sub(d.lit(1, span), d.mul(arg, arg, span), span)
		return d.div(da, denom, span)
	default:
		return d.zero(span)
	}
}

// ln10 is the natural log of 10, the constant scale factor between ln and
// the base-10 `log` builtin's derivative.
const ln10 = 2.302585092994046

func (d *Differentiator) diffCall2p(self handle.Handle[mir.RealExpr], e *mir.RealExpr, u Unknown) handle.Handle[mir.RealExpr] {
	span := e.Span
	a, b := e.Arg, e.Arg2
	switch e.Call2p {
	case mir.CallPow:
		return d.diffPow(a, b, span, u)
	case mir.CallHypot:
		da, db := d.DiffReal(a, u), d.DiffReal(b, u)
		num := d.add(d.mul(a, da, span), d.mul(b, db, span), span)
		return d.div(num, self, span)
	case mir.CallArctan2:
		da, db := d.DiffReal(a, u), d.DiffReal(b, u)
		num := d.sub(d.mul(b, da, span), d.mul(a, db, span), span)
		den := d.add(d.mul(a, a, span), d.mul(b, b, span), span)
		return d.div(num, den, span)
	case mir.CallMax:
		da, db := d.DiffReal(a, u), d.DiffReal(b, u)
		c := d.geCond(a, b, span)
		return d.cond(c, da, db, span)
	case mir.CallMin:
		da, db := d.DiffReal(a, u), d.DiffReal(b, u)
		c := d.leCond(a, b, span)
		return d.cond(c, da, db, span)
	default:
		return d.zero(span)
	}
}

// diffBranchAccess implements the branch-access derivative table:
// ∂pot(hi,lo)/∂NodePotential(hi)=1, ∂.../∂NodePotential(lo)=-1, symmetric
// matching for an UnknownVoltage probe against the branch's own resolved
// endpoints. Flow accesses carry no symbolic potential-derivative in this
// engine (a branch's flow is the simulator's own unknown, not a function of
// node potentials the core can differentiate through).
func (d *Differentiator) diffBranchAccess(e *mir.RealExpr, u Unknown) handle.Handle[mir.RealExpr] {
	span := e.Span
	if e.Access != mir.AccessPotential {
		return d.zero(span)
	}

	branch := d.Tree.Branch(e.Branch)
	resolved := d.Branches.Branch(*branch)

	switch u.Kind {
	case UnknownNodePotential:
		switch resolved.Kind {
		case resolver.BranchNodeGnd:
			if resolved.Hi == u.Hi {
				return d.one(span)
			}
		case resolver.BranchNodes:
			switch u.Hi {
			case resolved.Hi:
				return d.one(span)
			case resolved.Lo:
				return d.neg(d.one(span), span)
			}
		}
		return d.zero(span)

	case UnknownVoltage:
		switch resolved.Kind {
		case resolver.BranchNodeGnd:
			if !u.HasLo && u.Hi == resolved.Hi {
				return d.one(span)
			}
		case resolver.BranchNodes:
			if u.HasLo && u.Hi == resolved.Hi && u.Lo == resolved.Lo {
				return d.one(span)
			}
			if u.HasLo && u.Hi == resolved.Lo && u.Lo == resolved.Hi {
				return d.neg(d.one(span), span)
			}
		}
		return d.zero(span)

	default:
		return d.zero(span)
	}
}
