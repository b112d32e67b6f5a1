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

// Package debugprint renders IR artifacts (a real expression, a Jacobian
// matrix, an item tree) as compact human-readable text for log lines and
// test failure messages; it is never on the path of an emitted artifact.
package debugprint

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/mir"
)

var real1pNames = map[mir.BuiltinCall1p]string{
	mir.CallSqrt: "sqrt", mir.CallExp: "exp", mir.CallLn: "ln", mir.CallLog: "log",
	mir.CallAbs: "abs", mir.CallFloor: "floor", mir.CallCeil: "ceil",
	mir.CallSin: "sin", mir.CallCos: "cos", mir.CallTan: "tan",
	mir.CallArcsin: "asin", mir.CallArccos: "acos", mir.CallArctan: "atan",
	mir.CallSinh: "sinh", mir.CallCosh: "cosh", mir.CallTanh: "tanh",
	mir.CallArcsinh: "asinh", mir.CallArccosh: "acosh", mir.CallArctanh: "atanh",
}

var real2pNames = map[mir.BuiltinCall2p]string{
	mir.CallPow: "pow", mir.CallHypot: "hypot", mir.CallArctan2: "atan2",
	mir.CallMax: "max", mir.CallMin: "min",
}

var realBinOpSymbols = map[mir.RealBinaryOperator]string{
	mir.RealAdd: "+", mir.RealSub: "-", mir.RealMul: "*", mir.RealDiv: "/", mir.RealPow: "**",
}

// RealExpr renders the real expression at h as a compact prefix-notation
// string, e.g. "(* a b)", recursing through operands. It never mutates m.
func RealExpr(m *mir.Mir, h handle.Handle[mir.RealExpr]) string {
	var b strings.Builder
	writeReal(&b, m, h)
	return b.String()
}

func writeReal(w io.StringWriter, m *mir.Mir, h handle.Handle[mir.RealExpr]) {
	e := m.RealExprs.Get(h)
	switch e.Kind {
	case mir.RealKindLiteral:
		_, _ = w.WriteString(strconv.FormatFloat(e.Literal, 'g', -1, 64))
	case mir.RealKindBinaryOp:
		_, _ = w.WriteString("(")
		_, _ = w.WriteString(realBinOpSymbols[e.BinOp])
		_, _ = w.WriteString(" ")
		writeReal(w, m, e.Lhs)
		_, _ = w.WriteString(" ")
		writeReal(w, m, e.Rhs)
		_, _ = w.WriteString(")")
	case mir.RealKindNegate:
		_, _ = w.WriteString("(neg ")
		writeReal(w, m, e.Arg)
		_, _ = w.WriteString(")")
	case mir.RealKindCondition:
		_, _ = w.WriteString("(cond ")
		writeReal(w, m, e.TrueExpr)
		_, _ = w.WriteString(" ")
		writeReal(w, m, e.FalseExpr)
		_, _ = w.WriteString(")")
	case mir.RealKindVarRef:
		_, _ = w.WriteString(fmt.Sprintf("var#%d", e.Var.Index()))
	case mir.RealKindParamRef:
		_, _ = w.WriteString(fmt.Sprintf("param#%d", e.Param.Index()))
	case mir.RealKindBranchAccess:
		access := "pot"
		if e.Access == mir.AccessFlow {
			access = "flow"
		}
		_, _ = w.WriteString(fmt.Sprintf("%s(branch#%d)", access, e.Branch.Index()))
	case mir.RealKindNoise:
		_, _ = w.WriteString("noise(...)")
	case mir.RealKindBuiltinCall1p:
		_, _ = w.WriteString("(")
		_, _ = w.WriteString(real1pNames[e.Call1p])
		_, _ = w.WriteString(" ")
		writeReal(w, m, e.Arg)
		_, _ = w.WriteString(")")
	case mir.RealKindBuiltinCall2p:
		_, _ = w.WriteString("(")
		_, _ = w.WriteString(real2pNames[e.Call2p])
		_, _ = w.WriteString(" ")
		writeReal(w, m, e.Arg)
		_, _ = w.WriteString(" ")
		writeReal(w, m, e.Arg2)
		_, _ = w.WriteString(")")
	case mir.RealKindTemperature:
		_, _ = w.WriteString("$temperature")
	case mir.RealKindSimParam:
		_, _ = w.WriteString("$simparam(...)")
	case mir.RealKindIntCast:
		_, _ = w.WriteString("(real ...)")
	case mir.RealKindDdt:
		_, _ = w.WriteString("(ddt ")
		writeReal(w, m, e.DdtArg)
		_, _ = w.WriteString(")")
	case mir.RealKindDdxDdt:
		_, _ = w.WriteString("(ddx_ddt ")
		writeReal(w, m, e.DdxDdtArg)
		_, _ = w.WriteString(")")
	case mir.RealKindOptBarrier:
		_, _ = w.WriteString("(optbarrier ")
		writeReal(w, m, e.Arg)
		_, _ = w.WriteString(")")
	default:
		_, _ = w.WriteString("<?>")
	}
}
