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

// Package resolver models the external collaborators the constant folder
// and Jacobian assembler consume: the name resolver's
// branch/node queries, and the pluggable constant-value resolver.
package resolver

import "github.com/openvaf/vacore/pkg/itemtree"

// BranchKind classifies a resolved branch's electrical endpoints.
type BranchKind uint8

// Branch kinds.
const (
	// BranchNodeGnd is a single node probed against ground.
	BranchNodeGnd BranchKind = iota
	// BranchNodes connects two named nodes.
	BranchNodes
	// BranchPortFlow probes a port's flow quantity; unreachable by the time
	// Jacobian assembly runs.
	BranchPortFlow
)

// NodeID names a resolved circuit node (distinct from an item-tree Net:
// ground and internal collapsed nodes may not correspond 1:1 to a
// declared Net).
type NodeID uint32

// ResolvedBranch is the result of resolving an itemtree.Branch's
// electrical kind.
type ResolvedBranch struct {
	Kind BranchKind
	Hi   NodeID
	// Lo is meaningful only when Kind == BranchNodes.
	Lo NodeID
	// Port is meaningful only when Kind == BranchPortFlow.
	Port itemtree.Port
}

// BranchInfo resolves an item-tree Branch to its electrical kind and node
// endpoints.
type BranchInfo interface {
	Branch(b itemtree.Branch) ResolvedBranch
}

// NodeData describes a resolved circuit node.
type NodeData struct {
	Name  string
	IsGnd bool
}

// NodeResolver looks up a resolved node's descriptive data.
type NodeResolver interface {
	Node(id NodeID) NodeData
}

// ConstResolver supplies constant values for variables and parameters
// during folding. None means "unknown at fold time": the
// folder must propagate None but may still apply algebraic identities that
// do not require the unknown's value.
type ConstResolver interface {
	RealVariableValue(v itemtree.Var) (float64, bool)
	RealParameterValue(p itemtree.Param) (float64, bool)
	IntVariableValue(v itemtree.Var) (int64, bool)
	IntParameterValue(p itemtree.Param) (int64, bool)
	StringVariableValue(v itemtree.Var) (string, bool)
	StringParameterValue(p itemtree.Param) (string, bool)
}

// NoConstResolution is a ConstResolver that always returns "unknown". It is
// the default when no prior constant-propagation pass has run.
type NoConstResolution struct{}

// RealVariableValue always reports unknown.
func (NoConstResolution) RealVariableValue(itemtree.Var) (float64, bool) { return 0, false }

// RealParameterValue always reports unknown.
func (NoConstResolution) RealParameterValue(itemtree.Param) (float64, bool) { return 0, false }

// IntVariableValue always reports unknown.
func (NoConstResolution) IntVariableValue(itemtree.Var) (int64, bool) { return 0, false }

// IntParameterValue always reports unknown.
func (NoConstResolution) IntParameterValue(itemtree.Param) (int64, bool) { return 0, false }

// StringVariableValue always reports unknown.
func (NoConstResolution) StringVariableValue(itemtree.Var) (string, bool) { return "", false }

// StringParameterValue always reports unknown.
func (NoConstResolution) StringParameterValue(itemtree.Param) (string, bool) { return "", false }

// PropagatedConstants looks up the results of a prior constant-propagation
// pass, keyed by item-tree name.
type PropagatedConstants struct {
	RealVars     map[itemtree.Name]float64
	RealParams   map[itemtree.Name]float64
	IntVars      map[itemtree.Name]int64
	IntParams    map[itemtree.Name]int64
	StringVars   map[itemtree.Name]string
	StringParams map[itemtree.Name]string
}

// RealVariableValue looks up a variable's propagated real value.
func (p *PropagatedConstants) RealVariableValue(v itemtree.Var) (float64, bool) {
	val, ok := p.RealVars[v.Name]
	return val, ok
}

// RealParameterValue looks up a parameter's propagated real value.
func (p *PropagatedConstants) RealParameterValue(param itemtree.Param) (float64, bool) {
	val, ok := p.RealParams[param.Name]
	return val, ok
}

// IntVariableValue looks up a variable's propagated int value.
func (p *PropagatedConstants) IntVariableValue(v itemtree.Var) (int64, bool) {
	val, ok := p.IntVars[v.Name]
	return val, ok
}

// IntParameterValue looks up a parameter's propagated int value.
func (p *PropagatedConstants) IntParameterValue(param itemtree.Param) (int64, bool) {
	val, ok := p.IntParams[param.Name]
	return val, ok
}

// StringVariableValue looks up a variable's propagated string value.
func (p *PropagatedConstants) StringVariableValue(v itemtree.Var) (string, bool) {
	val, ok := p.StringVars[v.Name]
	return val, ok
}

// StringParameterValue looks up a parameter's propagated string value.
func (p *PropagatedConstants) StringParameterValue(param itemtree.Param) (string, bool) {
	val, ok := p.StringParams[param.Name]
	return val, ok
}
