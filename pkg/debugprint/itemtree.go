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
package debugprint

import (
	"fmt"
	"strings"

	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/itemtree"
)

// PrintItemTree renders tree's top-level modules, their ports/nets/branches
// and scope items, and natures/disciplines, as an indented outline.
func PrintItemTree(tree *itemtree.ItemTree) string {
	var b strings.Builder
	for _, item := range tree.TopLevel {
		switch {
		case writeModule(&b, tree, item):
		case writeNature(&b, tree, item):
		case writeDiscipline(&b, tree, item):
		}
	}
	return b.String()
}

func writeModule(b *strings.Builder, tree *itemtree.ItemTree, item itemtree.RootItem) bool {
	h, ok := item.Module()
	if !ok {
		return false
	}
	mod := tree.Module(h)
	fmt.Fprintf(b, "module %s\n", mod.Name)

	for _, ph := range mod.Ports().Iter() {
		p := tree.Port(ph)
		fmt.Fprintf(b, "  port %s\n", p.Name)
	}
	for _, nh := range mod.Nets.Iter() {
		n := tree.Net(nh)
		fmt.Fprintf(b, "  net %s\n", n.Name)
	}
	for _, brh := range mod.Branches.Iter() {
		br := tree.Branch(brh)
		fmt.Fprintf(b, "  branch %s\n", br.Name)
	}
	for _, si := range mod.ScopeItems {
		writeScopeItem(b, tree, si, "  ")
	}
	return true
}

func writeScopeItem(b *strings.Builder, tree *itemtree.ItemTree, item itemtree.BlockScopeItem, indent string) {
	if vh, ok := item.Var(); ok {
		v := tree.Var(vh)
		fmt.Fprintf(b, "%svar %s\n", indent, v.Name)
		return
	}
	if ph, ok := item.Param(); ok {
		p := tree.Param(ph)
		fmt.Fprintf(b, "%sparam %s\n", indent, p.Name)
		return
	}
	if bh, ok := item.BlockScope(); ok {
		writeBlockScope(b, tree, bh, indent)
	}
}

func writeBlockScope(b *strings.Builder, tree *itemtree.ItemTree, h handle.Handle[itemtree.BlockScope], indent string) {
	bs := tree.BlockScope(h)
	fmt.Fprintf(b, "%sblock %s\n", indent, bs.Name)
	for _, ph := range bs.Parameters.Iter() {
		p := tree.Param(ph)
		fmt.Fprintf(b, "%s  param %s\n", indent, p.Name)
	}
	for _, vh := range bs.Variables.Iter() {
		v := tree.Var(vh)
		fmt.Fprintf(b, "%s  var %s\n", indent, v.Name)
	}
	for _, sh := range bs.Scopes {
		writeBlockScope(b, tree, sh, indent+"  ")
	}
}

func writeNature(b *strings.Builder, tree *itemtree.ItemTree, item itemtree.RootItem) bool {
	h, ok := item.Nature()
	if !ok {
		return false
	}
	n := tree.Nature(h)
	fmt.Fprintf(b, "nature %s\n", n.Name)
	return true
}

func writeDiscipline(b *strings.Builder, tree *itemtree.ItemTree, item itemtree.RootItem) bool {
	h, ok := item.Discipline()
	if !ok {
		return false
	}
	d := tree.Discipline(h)
	fmt.Fprintf(b, "discipline %s\n", d.Name)
	return true
}
