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

// Package mir implements the tri-sorted (real/int/string) typed expression
// IR and its control-flow graph of basic blocks. Each
// sort's arena entries carry a span plus a flat Kind-tagged contents struct
// rather than a boxed variant, so constant folding can rewrite an
// expression's contents in place (Mir.OverwriteReal/Int/String) without
// cloning or reallocating IR nodes.
package mir

import (
	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/itemtree"
)

// Sort distinguishes which of the three typed expression arenas a Value
// refers to.
type Sort uint8

// The three expression sorts.
const (
	SortReal Sort = iota
	SortInt
	SortString
)

// Value is a sort-tagged reference into one of Mir's three expression
// arenas. It lets CFG statements and Jacobian bookkeeping address "a value
// of unknown sort" uniformly, while RealExpr/IntExpr/StringExpr internals
// stay strictly sorted internally.
type Value struct {
	Sort Sort
	raw  uint32
}

// RealValue upcasts a real-expression handle to a Value.
func RealValue(h handle.Handle[RealExpr]) Value { return Value{Sort: SortReal, raw: h.Index()} }

// IntValue upcasts an int-expression handle to a Value.
func IntValue(h handle.Handle[IntExpr]) Value { return Value{Sort: SortInt, raw: h.Index()} }

// StringValue upcasts a string-expression handle to a Value.
func StringValue(h handle.Handle[StringExpr]) Value { return Value{Sort: SortString, raw: h.Index()} }

// AsReal downcasts to a real-expression handle.
func (v Value) AsReal() (handle.Handle[RealExpr], bool) {
	if v.Sort != SortReal {
		return handle.Handle[RealExpr]{}, false
	}
	return handle.New[RealExpr](v.raw), true
}

// AsInt downcasts to an int-expression handle.
func (v Value) AsInt() (handle.Handle[IntExpr], bool) {
	if v.Sort != SortInt {
		return handle.Handle[IntExpr]{}, false
	}
	return handle.New[IntExpr](v.raw), true
}

// AsString downcasts to a string-expression handle.
func (v Value) AsString() (handle.Handle[StringExpr], bool) {
	if v.Sort != SortString {
		return handle.Handle[StringExpr]{}, false
	}
	return handle.New[StringExpr](v.raw), true
}

// RealBinaryOperator enumerates the real-sorted binary operators.
type RealBinaryOperator uint8

// Real binary operators.
const (
	RealAdd RealBinaryOperator = iota
	RealSub
	RealMul
	RealDiv
	RealPow
)

// IntegerBinaryOperator enumerates the int-sorted binary operators,
// including the bitwise and logical families.
type IntegerBinaryOperator uint8

// Integer binary operators.
const (
	IntSum IntegerBinaryOperator = iota
	IntDiff
	IntMul
	IntQuotient
	IntPow
	IntMod
	IntShiftL
	IntShiftR
	IntXor
	IntNXor
	IntAnd
	IntOr
	IntLogicAnd
	IntLogicOr
)

// ComparisonOperator enumerates the six relational operators, shared
// between real and int comparison variants (each comparison always
// produces an IntExpr result).
type ComparisonOperator uint8

// Comparison operators.
const (
	CmpLt ComparisonOperator = iota
	CmpLe
	CmpGt
	CmpGe
	CmpEq
	CmpNe
)

// UnaryOperator enumerates the integer unary operators.
type UnaryOperator uint8

// Unary operators.
const (
	UnaryBitNegate UnaryOperator = iota
	UnaryLogicNegate
	UnaryArithmeticNegate
	UnaryExplicitPositive
)

// BuiltinCall1p enumerates the one-argument real math built-ins.
type BuiltinCall1p uint8

// One-argument built-in calls.
const (
	CallSqrt BuiltinCall1p = iota
	CallExp
	CallLn
	CallLog
	CallAbs
	CallFloor
	CallCeil
	CallSin
	CallCos
	CallTan
	CallArcsin
	CallArccos
	CallArctan
	CallSinh
	CallCosh
	CallTanh
	CallArcsinh
	CallArccosh
	CallArctanh
)

// BuiltinCall2p enumerates the two-argument real math built-ins.
type BuiltinCall2p uint8

// Two-argument built-in calls.
const (
	CallPow BuiltinCall2p = iota
	CallHypot
	CallArctan2
	CallMax
	CallMin
)

// DisciplineAccess distinguishes a branch-access expression's physical
// quantity.
type DisciplineAccess uint8

// Branch-access disciplines.
const (
	AccessPotential DisciplineAccess = iota
	AccessFlow
)

// RealExprKind tags the variant held by a RealExpr's contents.
type RealExprKind uint8

// Real-sorted expression variants.
const (
	RealKindLiteral RealExprKind = iota
	RealKindBinaryOp
	RealKindNegate
	RealKindCondition
	RealKindVarRef
	RealKindParamRef
	RealKindBranchAccess
	RealKindNoise
	RealKindBuiltinCall1p
	RealKindBuiltinCall2p
	RealKindTemperature
	RealKindSimParam
	RealKindIntCast
	RealKindDdt
	// RealKindDdxDdt wraps the derivative of a ddt(f) time derivative wrt a
	// spatial unknown: ddx_ddt(df/du). It is a distinct opaque call rather
	// than a plain ddt of the derivative so the reactive Jacobian pass has
	// a concrete variant to schedule on.
	RealKindDdxDdt
	// RealKindOptBarrier wraps a Jacobian matrix entry between assembly and
	// downstream optimization so constant-propagation cannot delete it; a
	// matching StripOptBarriers step unwraps it again.
	RealKindOptBarrier
)

// RealExpr is one entry of the real-sorted expression arena. Only the
// fields relevant to Kind are meaningful; this flat representation (rather
// than a boxed interface variant) is what lets the constant folder rewrite
// Contents in place via Mir.OverwriteReal.
type RealExpr struct {
	Span ast.Span
	Kind RealExprKind

	Literal float64

	BinOp RealBinaryOperator
	Lhs   handle.Handle[RealExpr]
	Rhs   handle.Handle[RealExpr]

	Arg  handle.Handle[RealExpr]
	Arg2 handle.Handle[RealExpr]

	Cond      handle.Handle[IntExpr]
	TrueExpr  handle.Handle[RealExpr]
	FalseExpr handle.Handle[RealExpr]

	Var   handle.Handle[itemtree.Var]
	Param handle.Handle[itemtree.Param]

	Branch       handle.Handle[itemtree.Branch]
	Access       DisciplineAccess
	TimeDerivOrd uint8

	NoiseName *string

	Call1p BuiltinCall1p
	Call2p BuiltinCall2p

	SimParamName    handle.Handle[StringExpr]
	SimParamDefault *handle.Handle[RealExpr]

	IntCastArg handle.Handle[IntExpr]

	// DdtArg is populated when Kind == RealKindDdt: the time-derivative
	// ddt(f) of the real expression f.
	DdtArg handle.Handle[RealExpr]

	// DdxDdtArg is populated when Kind == RealKindDdxDdt: the already
	// differentiated operand df/du of ddx_ddt(df/du).
	DdxDdtArg handle.Handle[RealExpr]
}

// IntExprKind tags the variant held by an IntExpr's contents.
type IntExprKind uint8

// Int-sorted expression variants.
const (
	IntKindLiteral IntExprKind = iota
	IntKindBinaryOp
	IntKindComparison
	IntKindRealComparison
	IntKindUnaryOp
	IntKindCondition
	IntKindVarRef
	IntKindParamRef
	IntKindPortConnected
	IntKindParamGiven
	IntKindPortRef
	IntKindNetRef
	IntKindStringEq
	IntKindStringNeq
	IntKindRealCast
)

// IntExpr is one entry of the int-sorted expression arena.
type IntExpr struct {
	Span ast.Span
	Kind IntExprKind

	Literal int64

	BinOp IntegerBinaryOperator
	Lhs   handle.Handle[IntExpr]
	Rhs   handle.Handle[IntExpr]

	CmpOp   ComparisonOperator
	RealLhs handle.Handle[RealExpr]
	RealRhs handle.Handle[RealExpr]

	UnOp   UnaryOperator
	UnArg  handle.Handle[IntExpr]

	Cond      handle.Handle[IntExpr]
	TrueExpr  handle.Handle[IntExpr]
	FalseExpr handle.Handle[IntExpr]

	Var   handle.Handle[itemtree.Var]
	Param handle.Handle[itemtree.Param]
	Port  handle.Handle[itemtree.Port]
	Net   handle.Handle[itemtree.Net]

	StrLhs handle.Handle[StringExpr]
	StrRhs handle.Handle[StringExpr]

	RealCastArg handle.Handle[RealExpr]
}

// StringExprKind tags the variant held by a StringExpr's contents.
type StringExprKind uint8

// String-sorted expression variants.
const (
	StringKindLiteral StringExprKind = iota
	StringKindCondition
	StringKindVarRef
	StringKindParamRef
)

// StringExpr is one entry of the string-sorted expression arena.
type StringExpr struct {
	Span ast.Span
	Kind StringExprKind

	Literal string

	Cond      handle.Handle[IntExpr]
	TrueExpr  handle.Handle[StringExpr]
	FalseExpr handle.Handle[StringExpr]

	Var   handle.Handle[itemtree.Var]
	Param handle.Handle[itemtree.Param]
}
