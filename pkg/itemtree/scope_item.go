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

import "github.com/openvaf/vacore/pkg/handle"

// ScopeItemKind is the closed tag enumerating every per-file item kind,
// standing in for a trait-object style polymorphic item reference: a
// ScopeItem carries one of these tags plus the raw index of the
// corresponding arena entry, and downcasting to a concrete kind is a total,
// checked operation (ScopeItem.Module, ScopeItem.Var, ...) while upcasting
// from a typed handle (NewModuleItem, ...) is total by construction.
type ScopeItemKind uint8

// Item kinds that may appear as a RootItem, a BlockScopeItem, or nested
// within a Module's ScopeItems list.
const (
	KindModule ScopeItemKind = iota
	KindDiscipline
	KindNature
	KindVar
	KindParam
	KindNet
	KindPort
	KindBranch
	KindFunction
	KindBlockScope
	KindNatureAttr
	KindDisciplineAttr
)

// ScopeItem is a closed-tag union over every item-tree entity kind,
// occupying a single machine word plus tag (Copy-cheap, like the raw
// handles it wraps).
type ScopeItem struct {
	Kind ScopeItemKind
	raw  uint32
}

func newScopeItem[T any](kind ScopeItemKind, h handle.Handle[T]) ScopeItem {
	return ScopeItem{Kind: kind, raw: h.Index()}
}

// NewModuleItem upcasts a Module handle to a ScopeItem. Upcasting is total:
// it never fails.
func NewModuleItem(h handle.Handle[Module]) ScopeItem { return newScopeItem(KindModule, h) }

// NewDisciplineItem upcasts a Discipline handle to a ScopeItem.
func NewDisciplineItem(h handle.Handle[Discipline]) ScopeItem {
	return newScopeItem(KindDiscipline, h)
}

// NewNatureItem upcasts a Nature handle to a ScopeItem.
func NewNatureItem(h handle.Handle[Nature]) ScopeItem { return newScopeItem(KindNature, h) }

// NewVarItem upcasts a Var handle to a ScopeItem.
func NewVarItem(h handle.Handle[Var]) ScopeItem { return newScopeItem(KindVar, h) }

// NewParamItem upcasts a Param handle to a ScopeItem.
func NewParamItem(h handle.Handle[Param]) ScopeItem { return newScopeItem(KindParam, h) }

// NewNetItem upcasts a Net handle to a ScopeItem.
func NewNetItem(h handle.Handle[Net]) ScopeItem { return newScopeItem(KindNet, h) }

// NewPortItem upcasts a Port handle to a ScopeItem.
func NewPortItem(h handle.Handle[Port]) ScopeItem { return newScopeItem(KindPort, h) }

// NewBranchItem upcasts a Branch handle to a ScopeItem.
func NewBranchItem(h handle.Handle[Branch]) ScopeItem { return newScopeItem(KindBranch, h) }

// NewFunctionItem upcasts a Function handle to a ScopeItem.
func NewFunctionItem(h handle.Handle[Function]) ScopeItem { return newScopeItem(KindFunction, h) }

// NewBlockScopeItem upcasts a BlockScope handle to a ScopeItem.
func NewBlockScopeItem(h handle.Handle[BlockScope]) ScopeItem {
	return newScopeItem(KindBlockScope, h)
}

// NewNatureAttrItem upcasts a NatureAttr handle to a ScopeItem.
func NewNatureAttrItem(h handle.Handle[NatureAttr]) ScopeItem {
	return newScopeItem(KindNatureAttr, h)
}

// NewDisciplineAttrItem upcasts a DisciplineAttr handle to a ScopeItem.
func NewDisciplineAttrItem(h handle.Handle[DisciplineAttr]) ScopeItem {
	return newScopeItem(KindDisciplineAttr, h)
}

// Module downcasts to a Module handle, returning ok=false if this item is
// not a Module.
func (s ScopeItem) Module() (handle.Handle[Module], bool) {
	if s.Kind != KindModule {
		return handle.Handle[Module]{}, false
	}
	return handle.New[Module](s.raw), true
}

// Discipline downcasts to a Discipline handle.
func (s ScopeItem) Discipline() (handle.Handle[Discipline], bool) {
	if s.Kind != KindDiscipline {
		return handle.Handle[Discipline]{}, false
	}
	return handle.New[Discipline](s.raw), true
}

// Nature downcasts to a Nature handle.
func (s ScopeItem) Nature() (handle.Handle[Nature], bool) {
	if s.Kind != KindNature {
		return handle.Handle[Nature]{}, false
	}
	return handle.New[Nature](s.raw), true
}

// Var downcasts to a Var handle.
func (s ScopeItem) Var() (handle.Handle[Var], bool) {
	if s.Kind != KindVar {
		return handle.Handle[Var]{}, false
	}
	return handle.New[Var](s.raw), true
}

// Param downcasts to a Param handle.
func (s ScopeItem) Param() (handle.Handle[Param], bool) {
	if s.Kind != KindParam {
		return handle.Handle[Param]{}, false
	}
	return handle.New[Param](s.raw), true
}

// Net downcasts to a Net handle.
func (s ScopeItem) Net() (handle.Handle[Net], bool) {
	if s.Kind != KindNet {
		return handle.Handle[Net]{}, false
	}
	return handle.New[Net](s.raw), true
}

// Port downcasts to a Port handle.
func (s ScopeItem) Port() (handle.Handle[Port], bool) {
	if s.Kind != KindPort {
		return handle.Handle[Port]{}, false
	}
	return handle.New[Port](s.raw), true
}

// Branch downcasts to a Branch handle.
func (s ScopeItem) Branch() (handle.Handle[Branch], bool) {
	if s.Kind != KindBranch {
		return handle.Handle[Branch]{}, false
	}
	return handle.New[Branch](s.raw), true
}

// Function downcasts to a Function handle.
func (s ScopeItem) Function() (handle.Handle[Function], bool) {
	if s.Kind != KindFunction {
		return handle.Handle[Function]{}, false
	}
	return handle.New[Function](s.raw), true
}

// BlockScope downcasts to a BlockScope handle.
func (s ScopeItem) BlockScope() (handle.Handle[BlockScope], bool) {
	if s.Kind != KindBlockScope {
		return handle.Handle[BlockScope]{}, false
	}
	return handle.New[BlockScope](s.raw), true
}

// NatureAttr downcasts to a NatureAttr handle.
func (s ScopeItem) NatureAttr() (handle.Handle[NatureAttr], bool) {
	if s.Kind != KindNatureAttr {
		return handle.Handle[NatureAttr]{}, false
	}
	return handle.New[NatureAttr](s.raw), true
}

// DisciplineAttr downcasts to a DisciplineAttr handle.
func (s ScopeItem) DisciplineAttr() (handle.Handle[DisciplineAttr], bool) {
	if s.Kind != KindDisciplineAttr {
		return handle.Handle[DisciplineAttr]{}, false
	}
	return handle.New[DisciplineAttr](s.raw), true
}

// RootItemKind restricts ScopeItemKind to the three kinds legal at
// top-level.
type RootItemKind = ScopeItemKind

// RootItem is a top-level declaration: a Module, a Nature, or a Discipline.
type RootItem = ScopeItem

// BlockScopeItemKind restricts ScopeItemKind to the three kinds legal
// inside a procedural block.
type BlockScopeItemKind = ScopeItemKind

// BlockScopeItem is one of {BlockScope, Param, Var}, the only items legal
// directly inside a procedural block.
type BlockScopeItem = ScopeItem
