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

// Package autodiff implements symbolic partial differentiation of real MIR
// expressions wrt an abstract Unknown (a node potential, a branch-like
// voltage probe, or a parameter), appending derivative assignments
// immediately after the statement they differentiate as it walks a Mir's
// CFG in post-order.
package autodiff

import (
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/itemtree"
	"github.com/openvaf/vacore/pkg/resolver"
)

// UnknownKind distinguishes the three differentiation-target shapes: a
// single node's potential, a branch-like voltage probe between two nodes
// (possibly node-to-ground), and a named parameter.
type UnknownKind uint8

// Unknown kinds.
const (
	UnknownNodePotential UnknownKind = iota
	UnknownVoltage
	UnknownParameter
)

// Unknown is the differentiation target an AD run produces a partial
// derivative with respect to. It is a plain comparable struct (no pointer
// fields) so it can key a map directly, matching handle.Handle's own
// cheap-to-copy design.
//
// Hi/Lo/HasLo are meaningful for UnknownNodePotential (Hi only) and
// UnknownVoltage (Hi, and Lo when HasLo — a node-to-ground voltage probe
// leaves HasLo false, and the Jacobian emits only its hi column).
// Param is meaningful only for UnknownParameter.
type Unknown struct {
	Kind  UnknownKind
	Hi    resolver.NodeID
	Lo    resolver.NodeID
	HasLo bool
	Param handle.Handle[itemtree.Param]
}

// NodePotential builds the unknown naming a single node's potential.
func NodePotential(n resolver.NodeID) Unknown {
	return Unknown{Kind: UnknownNodePotential, Hi: n}
}

// Voltage builds the unknown naming the branch-like voltage probe between
// hi and lo, used as a Jacobian column.
func Voltage(hi, lo resolver.NodeID) Unknown {
	return Unknown{Kind: UnknownVoltage, Hi: hi, Lo: lo, HasLo: true}
}

// GroundVoltage builds the unknown naming a node-to-ground voltage probe,
// stamped as a single hi column with no lo counterpart.
func GroundVoltage(hi resolver.NodeID) Unknown {
	return Unknown{Kind: UnknownVoltage, Hi: hi}
}

// Parameter builds the unknown naming a single parameter.
func Parameter(p handle.Handle[itemtree.Param]) Unknown {
	return Unknown{Kind: UnknownParameter, Param: p}
}
