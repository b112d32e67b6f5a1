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

// Package itemtree implements the per-file structural summary of Verilog-A
// declarations: the "invalidation barrier" between parsing and semantic
// analysis. An ItemTree's contents depend only
// on one file's syntax tree, never on surrounding module-graph configuration,
// so edits confined to statement bodies leave it byte-identical and upstream
// name-resolution caches survive.
package itemtree

import (
	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/handle"
)

// Name is a per-file interned identifier. Item-tree entities refer to one
// another by Name, never by direct handle, so no cycles can live in the
// owned arenas: a separate name->handle side table is built by
// the (out of scope) name resolver, not by this package.
type Name string

// Type enumerates the semantic types a Var/Param/Function/FunctionArg may
// carry. String-valued parameters are out of scope;
// String remains a legal Var/function-return/argument type.
type Type uint8

// Var/Param/Function/FunctionArg semantic types.
const (
	TypeInteger Type = iota
	TypeReal
	TypeRealTime
	TypeTime
	TypeString
)

// Domain enumerates a discipline's continuity domain.
type Domain uint8

// Discipline domains.
const (
	DomainUnspecified Domain = iota
	DomainDiscrete
	DomainContinuous
)

// Module is the top-level container of ports, nets, branches, functions and
// nested block-scope items for one `module` declaration.
//
// Invariant: exactly one of HeadPorts/BodyPorts is non-empty in a
// well-formed module, and the two ranges never overlap in the Ports arena
// (they are allocated into the same arena back to back, never interleaved).
type Module struct {
	Name Name
	// ExpectedPorts names the module's port list as written in the module
	// header, before port declarations (head or body style) are matched
	// up against it; used by later passes to diagnose unmatched ports.
	ExpectedPorts []Name
	HeadPorts     handle.Range[Port]
	BodyPorts     handle.Range[Port]
	Nets          handle.Range[Net]
	Branches      handle.Range[Branch]
	Functions     handle.Range[Function]
	ScopeItems    []BlockScopeItem
	AstID         ast.AstID[Module]
}

// Ports returns every port of the module regardless of whether it was
// declared in head-port or body-port style; the two ranges are guaranteed
// contiguous because the lowering pass always allocates HeadPorts
// immediately before BodyPorts within one module's construction.
func (m *Module) Ports() handle.Range[Port] {
	return m.HeadPorts.Extend(m.BodyPorts)
}

// Port is a module terminal. At least one of IsInput/IsOutput must hold in
// a well-formed port.
type Port struct {
	Name       Name
	Discipline *Name
	IsInput    bool
	IsOutput   bool
	AstID      ast.AstID[Port]
}

// Net is an internal module node declaration.
type Net struct {
	Name       Name
	Discipline *Name
	AstID      ast.AstID[Net]
}

// Branch names a potential/flow pair between two nodes (or node-to-ground,
// or a port-flow probe). Its electrical kind is resolved later by the
// (out of scope) name resolver, via pkg/resolver.BranchInfo.
type Branch struct {
	Name  Name
	AstID ast.AstID[Branch]
}

// Var is a procedural (non-input) variable declaration.
type Var struct {
	Name  Name
	Ty    Type
	AstID ast.AstID[Var]
}

// Param is a module/function parameter declaration.
type Param struct {
	Name  Name
	Ty    Type
	AstID ast.AstID[Param]
}

// Nature describes the physical quantity carried by a discipline's potential
// or flow (e.g. Voltage, Current).
type Nature struct {
	Name      Name
	Parent    *Name
	Access    *Name
	DdtNature *Name
	IdtNature *Name
	Attrs     handle.Range[NatureAttr]
	AstID     ast.AstID[Nature]
}

// NatureAttr is a `name = value;` attribute attached to a nature.
type NatureAttr struct {
	Name  Name
	AstID ast.AstID[NatureAttr]
}

// Discipline attaches a potential and/or flow nature to nets.
type Discipline struct {
	Name      Name
	Potential *Name
	Flow      *Name
	Attrs     handle.Range[DisciplineAttr]
	Domain    Domain
	AstID     ast.AstID[Discipline]
}

// DisciplineAttr is a `name = value;` attribute attached to a discipline.
type DisciplineAttr struct {
	Name  Name
	AstID ast.AstID[DisciplineAttr]
}

// Function is a user-defined analog function.
type Function struct {
	Name   Name
	Ty     Type
	Args   handle.Range[FunctionArg]
	Params handle.Range[Param]
	Vars   handle.Range[Var]
	AstID  ast.AstID[Function]
}

// FunctionArg is one formal argument of a Function.
type FunctionArg struct {
	Name     Name
	IsInput  bool
	IsOutput bool
	AstID    ast.AstID[FunctionArg]
}

// BlockScope is a nested procedural block (`begin ... end`) that may declare
// its own parameters, variables and further nested scopes.
type BlockScope struct {
	Name       Name
	Parameters handle.Range[Param]
	Variables  handle.Range[Var]
	Scopes     []handle.Handle[BlockScope]
	AstID      ast.AstID[BlockScope]
}
