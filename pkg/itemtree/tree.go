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
package itemtree

import (
	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/handle"
)

// ItemTree is the per-file structural summary of declarations. Its content depends only on the syntax tree it was built
// from; it never references crate configuration, conditional compilation,
// or the surrounding module graph. This is the invalidation barrier: edits
// confined to statement bodies yield a byte-identical ItemTree.
type ItemTree struct {
	File     ast.FileID
	TopLevel []RootItem

	modules         handle.Arena[Module]
	disciplines     handle.Arena[Discipline]
	natures         handle.Arena[Nature]
	natureAttrs     handle.Arena[NatureAttr]
	disciplineAttrs handle.Arena[DisciplineAttr]
	variables       handle.Arena[Var]
	parameters      handle.Arena[Param]
	nets            handle.Arena[Net]
	ports           handle.Arena[Port]
	branches        handle.Arena[Branch]
	functions       handle.Arena[Function]
	functionArgs    handle.Arena[FunctionArg]
	blockScopes     handle.Arena[BlockScope]
}

// Module looks up a Module entity by handle.
func (t *ItemTree) Module(h handle.Handle[Module]) *Module { return t.modules.Get(h) }

// Discipline looks up a Discipline entity by handle.
func (t *ItemTree) Discipline(h handle.Handle[Discipline]) *Discipline {
	return t.disciplines.Get(h)
}

// Nature looks up a Nature entity by handle.
func (t *ItemTree) Nature(h handle.Handle[Nature]) *Nature { return t.natures.Get(h) }

// NatureAttr looks up a NatureAttr entity by handle.
func (t *ItemTree) NatureAttr(h handle.Handle[NatureAttr]) *NatureAttr {
	return t.natureAttrs.Get(h)
}

// DisciplineAttr looks up a DisciplineAttr entity by handle.
func (t *ItemTree) DisciplineAttr(h handle.Handle[DisciplineAttr]) *DisciplineAttr {
	return t.disciplineAttrs.Get(h)
}

// Var looks up a Var entity by handle.
func (t *ItemTree) Var(h handle.Handle[Var]) *Var { return t.variables.Get(h) }

// Param looks up a Param entity by handle.
func (t *ItemTree) Param(h handle.Handle[Param]) *Param { return t.parameters.Get(h) }

// Net looks up a Net entity by handle.
func (t *ItemTree) Net(h handle.Handle[Net]) *Net { return t.nets.Get(h) }

// Port looks up a Port entity by handle.
func (t *ItemTree) Port(h handle.Handle[Port]) *Port { return t.ports.Get(h) }

// Branch looks up a Branch entity by handle.
func (t *ItemTree) Branch(h handle.Handle[Branch]) *Branch { return t.branches.Get(h) }

// Function looks up a Function entity by handle.
func (t *ItemTree) Function(h handle.Handle[Function]) *Function { return t.functions.Get(h) }

// FunctionArg looks up a FunctionArg entity by handle.
func (t *ItemTree) FunctionArg(h handle.Handle[FunctionArg]) *FunctionArg {
	return t.functionArgs.Get(h)
}

// BlockScope looks up a BlockScope entity by handle.
func (t *ItemTree) BlockScope(h handle.Handle[BlockScope]) *BlockScope {
	return t.blockScopes.Get(h)
}

// shrinkToFit bounds steady-state memory once construction has finished.
func (t *ItemTree) shrinkToFit() {
	t.modules.ShrinkToFit()
	t.disciplines.ShrinkToFit()
	t.natures.ShrinkToFit()
	t.natureAttrs.ShrinkToFit()
	t.disciplineAttrs.ShrinkToFit()
	t.variables.ShrinkToFit()
	t.parameters.ShrinkToFit()
	t.nets.ShrinkToFit()
	t.ports.ShrinkToFit()
	t.branches.ShrinkToFit()
	t.functions.ShrinkToFit()
	t.functionArgs.ShrinkToFit()
	t.blockScopes.ShrinkToFit()
}
