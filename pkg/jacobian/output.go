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

package jacobian

import (
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/itemtree"
	"github.com/openvaf/vacore/pkg/mir"
	"github.com/openvaf/vacore/pkg/resolver"
)

// OutputKind distinguishes the two IR output shapes assembly stamps a
// Jacobian row for.
type OutputKind uint8

// Output kinds.
const (
	// OutputBranchCurrent names a current through a declared branch; its
	// row endpoints are resolved via BranchInfo.
	OutputBranchCurrent OutputKind = iota
	// OutputImplicitBranchCurrent names a current between two explicit
	// nodes with no declared branch backing it (a parasitic/implicit
	// contribution the lowering pass introduced).
	OutputImplicitBranchCurrent
)

// Output is one IR value Jacobian assembly stamps a row for: the current
// through a branch (resolved via the name resolver) or an implicit
// hi/lo node pair, together with the Place its derivatives wrt every
// interned Voltage were registered at by pkg/autodiff.
type Output struct {
	Kind OutputKind

	// Branch is meaningful when Kind == OutputBranchCurrent.
	Branch handle.Handle[itemtree.Branch]

	// Hi/Lo are meaningful when Kind == OutputImplicitBranchCurrent.
	Hi resolver.NodeID
	Lo resolver.NodeID

	// Reactive selects which of the matrix's two maps (resistive/reactive)
	// this output's contributions are deposited into.
	Reactive bool

	// Place is the CFG assignment target whose registered derivatives
	// (pkg/autodiff.Registry) hold ∂output/∂Voltage(hi,lo) for every
	// interned voltage unknown.
	Place mir.Place
}
