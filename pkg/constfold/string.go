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

import "github.com/openvaf/vacore/pkg/mir"

// VisitStringLiteral always folds to its own value.
func (f *Folder) VisitStringLiteral(e *mir.StringExpr) (string, bool) {
	return e.Literal, true
}

// VisitStringCondition mirrors VisitRealCondition's branch-selection
// folding for the string sort.
func (f *Folder) VisitStringCondition(e *mir.StringExpr) (string, bool) {
	cond, condOk := f.FoldInt(e.Cond)
	if !condOk {
		f.FoldString(e.TrueExpr)
		f.FoldString(e.FalseExpr)
		return "", false
	}
	if cond != 0 {
		val, ok := f.FoldString(e.TrueExpr)
		if !ok {
			f.overwriteStringToExpr(e.TrueExpr)
		}
		return val, ok
	}
	val, ok := f.FoldString(e.FalseExpr)
	if !ok {
		f.overwriteStringToExpr(e.FalseExpr)
	}
	return val, ok
}

// VisitStringVarRef consults Resolver for a propagated constant value.
func (f *Folder) VisitStringVarRef(e *mir.StringExpr) (string, bool) {
	if f.Resolver == nil || f.Tree == nil {
		return "", false
	}
	return f.Resolver.StringVariableValue(*f.Tree.Var(e.Var))
}

// VisitStringParamRef consults Resolver for a propagated constant value.
func (f *Folder) VisitStringParamRef(e *mir.StringExpr) (string, bool) {
	if f.Resolver == nil || f.Tree == nil {
		return "", false
	}
	return f.Resolver.StringParameterValue(*f.Tree.Param(e.Param))
}
