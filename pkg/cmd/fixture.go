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
package cmd

import (
	"github.com/openvaf/vacore/pkg/ast"
	"github.com/openvaf/vacore/pkg/autodiff"
	"github.com/openvaf/vacore/pkg/bitset"
	"github.com/openvaf/vacore/pkg/config"
	"github.com/openvaf/vacore/pkg/constfold"
	"github.com/openvaf/vacore/pkg/diag"
	"github.com/openvaf/vacore/pkg/handle"
	"github.com/openvaf/vacore/pkg/itemtree"
	"github.com/openvaf/vacore/pkg/jacobian"
	"github.com/openvaf/vacore/pkg/mir"
	"github.com/openvaf/vacore/pkg/resolver"
	"github.com/openvaf/vacore/pkg/strip"
	log "github.com/sirupsen/logrus"
)

// linearResistorFixture stands in for the external parser/lowering pass:
// since there is no real Verilog-A front end in this module, the debug
// command runs the pipeline over a synthetic "linear resistor" module
// (`i <+ g * V(p,n)`) built directly against the item-tree and MIR APIs,
// so the debug subcommand has something concrete to render.
type linearResistorFixture struct {
	Tree     *itemtree.ItemTree
	Mir      *mir.Mir
	BranchH  handle.Handle[itemtree.Branch]
	Branches resolver.BranchInfo
	Nodes    resolver.NodeResolver
	Diags    diag.Diagnostics
	Matrix   *jacobian.Matrix
}

// fixtureBranches resolves the fixture's single branch to a fixed
// node-to-node kind.
type fixtureBranches struct {
	hi, lo resolver.NodeID
}

func (b fixtureBranches) Branch(itemtree.Branch) resolver.ResolvedBranch {
	return resolver.ResolvedBranch{Kind: resolver.BranchNodes, Hi: b.hi, Lo: b.lo}
}

// fixtureNodes names the fixture's two non-ground nodes.
type fixtureNodes struct {
	names map[resolver.NodeID]string
}

func (n fixtureNodes) Node(id resolver.NodeID) resolver.NodeData {
	return resolver.NodeData{Name: n.names[id]}
}

// buildLinearResistorFixture builds the item tree, MIR and Jacobian for
// `i <+ g * V(p,n)` (g a constant 5.0, modeling a 5 S conductance), runs
// the full fold/differentiate/assemble/strip pipeline over it per cfg, and
// returns every artifact the debug command renders.
func buildLinearResistorFixture(cfg config.Pipeline) *linearResistorFixture {
	syntax := ast.SyntaxTree{
		Root: []ast.RawNode{
			{Kind: ast.NodeModule, Name: "resistor", Children: []int{1, 2, 3, 4}},
			{Kind: ast.NodePort, Name: "p", Flags: ast.FlagHeadPort | ast.FlagIsInput | ast.FlagIsOutput},
			{Kind: ast.NodePort, Name: "n", Flags: ast.FlagHeadPort | ast.FlagIsInput | ast.FlagIsOutput},
			{Kind: ast.NodeBranch, Name: "br"},
			{Kind: ast.NodeParam, Name: "g", SemanticType: uint8(itemtree.TypeReal)},
		},
	}
	tree := itemtree.Build(ast.FileID(0), syntax)
	modH, _ := tree.TopLevel[0].Module()
	mod := tree.Module(modH)
	branchH := mod.Branches.Iter()[0]

	hi, lo := resolver.NodeID(1), resolver.NodeID(2)
	branches := fixtureBranches{hi: hi, lo: lo}
	nodes := fixtureNodes{names: map[resolver.NodeID]string{hi: "p", lo: "n"}}

	var m mir.Mir

	gLit := m.PushReal(mir.RealExpr{Kind: mir.RealKindLiteral, Literal: 5})
	oneLit := m.PushReal(mir.RealExpr{Kind: mir.RealKindLiteral, Literal: 1})
	gTimesOne := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: gLit, Rhs: oneLit})
	access := m.PushReal(mir.RealExpr{Kind: mir.RealKindBranchAccess, Branch: branchH, Access: mir.AccessPotential})
	current := m.PushReal(mir.RealExpr{Kind: mir.RealKindBinaryOp, BinOp: mir.RealMul, Lhs: gTimesOne, Rhs: access})

	iPlace := mir.Place{Sort: mir.SortReal, Slot: 0}
	diPlace := mir.Place{Sort: mir.SortReal, Slot: 1}

	bh := m.Blocks.Push(mir.BasicBlock{
		Statements: []mir.Statement{
			{Kind: mir.StatementAssign, Dst: iPlace, Rhs: mir.RealValue(current)},
		},
	})

	var diags diag.Diagnostics

	// Constant folding. g*1 folds to the literal g; the overall product is
	// left unfolded since V(p,n) is not statically known.
	folder := &constfold.Folder{
		Mir:       &m,
		Tree:      tree,
		Resolver:  resolver.NoConstResolution{},
		Diags:     &diags,
		Mutate:    cfg.MutateOnFold,
		EqEpsilon: cfg.RealEqEpsilon,
	}
	folder.FoldReal(current)

	// Differentiate the branch current wrt the branch's own voltage
	// unknown, appending `di_dV := d(i)/dV(p,n)` immediately after it.
	reg := autodiff.NewRegistry()
	d := &autodiff.Differentiator{
		Mir:                 &m,
		Tree:                tree,
		Branches:            branches,
		Registry:            reg,
		ExpansionMultiplier: cfg.DerivativeExpansionMultiplier,
	}
	derivatives := autodiff.DerivativeMap{
		iPlace: {{Unknown: autodiff.Voltage(hi, lo), Dst: diPlace}},
	}
	autodiff.Run(d, derivatives, autodiff.DefaultPredicate, &diags)

	// Assemble the resistive Jacobian from the registered derivative.
	matrix := jacobian.NewMatrix()
	outputs := []jacobian.Output{
		{Kind: jacobian.OutputBranchCurrent, Branch: branchH, Place: iPlace},
	}
	jacobian.Populate(matrix, &m, tree, branches, nodes, reg, outputs, &diags)
	jacobian.WrapOptBarriers(matrix, &m)
	jacobian.StripOptBarriers(matrix, &m)
	jacobian.Sparsify(matrix, &m)

	// Strip dead code, if enabled. There is no liveness analysis in
	// this debug shell, so the retain set trivially keeps every statement
	// and phi, which still satisfies the pass's "closed under data-flow
	// dependency" precondition.
	if cfg.StripDeadCode {
		locations := mir.InternLocations(&m.Blocks)
		retain := retainEverything(locations)
		strip.Run(&m.Blocks, locations, retain)
	}

	log.WithField("statements", len(m.Blocks.Get(bh).Statements)).Debug("vacore debug: fixture pipeline complete")

	return &linearResistorFixture{
		Tree:     tree,
		Mir:      &m,
		BranchH:  branchH,
		Branches: branches,
		Nodes:    nodes,
		Diags:    diags,
		Matrix:   matrix,
	}
}

// retainEverything builds a retention bitset covering every interned
// location, i.e. a no-op strip pass. A real caller would compute retain via
// a separate live-variable analysis; this debug shell has none, so it
// demonstrates the pass without removing anything.
func retainEverything(locations *mir.InternedLocations) bitset.Set[mir.IntLocation] {
	retain := bitset.New[mir.IntLocation](int(locations.Len()))
	for i := mir.IntLocation(0); i < mir.IntLocation(locations.Len()); i++ {
		retain.Insert(i)
	}
	return retain
}
