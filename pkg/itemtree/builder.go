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
	log "github.com/sirupsen/logrus"
)

// ctx carries the mutable state threaded through one Build pass: the
// arenas being filled and the source file being lowered. A fresh ctx is
// used per file.
type ctx struct {
	file ast.FileID
	tree *ItemTree
}

// Build performs a single, document-order pass over a parsed syntax tree
// and produces an ItemTree whose contents depend only on that tree. Construction is infallible at this layer: malformed declarations
// simply do not produce an entity and are silently skipped here, to be
// diagnosed by the (out of scope) lowering-to-HIR pass that runs after name
// resolution.
func Build(file ast.FileID, syntax ast.SyntaxTree) *ItemTree {
	c := &ctx{file: file, tree: &ItemTree{File: file}}

	for i, node := range syntax.Root {
		switch node.Kind {
		case ast.NodeModule:
			h := c.lowerModule(i, syntax)
			c.tree.TopLevel = append(c.tree.TopLevel, NewModuleItem(h))
		case ast.NodeNature:
			h := c.lowerNature(i, syntax)
			c.tree.TopLevel = append(c.tree.TopLevel, NewNatureItem(h))
		case ast.NodeDiscipline:
			h := c.lowerDiscipline(i, syntax)
			c.tree.TopLevel = append(c.tree.TopLevel, NewDisciplineItem(h))
		default:
			log.WithField("kind", node.Kind).Trace("item tree: skipping non-top-level node at file scope")
		}
	}

	c.tree.shrinkToFit()

	return c.tree
}

func (c *ctx) lowerModule(idx int, syntax ast.SyntaxTree) handle.Handle[Module] {
	node := syntax.Root[idx]

	m := Module{
		Name:          Name(node.Name),
		ExpectedPorts: namesOf(node.ExpectedPorts),
		AstID:         ast.NewAstID[Module](c.file, uint32(idx)),
	}

	headStart := c.tree.ports.NextHandle()
	for _, ci := range node.Children {
		child := syntax.Root[ci]
		if child.Kind == ast.NodePort && child.Flags&ast.FlagHeadPort != 0 {
			c.tree.ports.Push(c.lowerPortValue(ci, syntax))
		}
	}
	m.HeadPorts = c.tree.ports.RangeToEnd(headStart)

	bodyStart := c.tree.ports.NextHandle()
	netStart := c.tree.nets.NextHandle()
	branchStart := c.tree.branches.NextHandle()
	funcStart := c.tree.functions.NextHandle()

	for _, ci := range node.Children {
		child := syntax.Root[ci]
		switch child.Kind {
		case ast.NodePort:
			if child.Flags&ast.FlagHeadPort == 0 {
				c.tree.ports.Push(c.lowerPortValue(ci, syntax))
			}
		case ast.NodeNet:
			c.tree.nets.Push(c.lowerNetValue(ci, syntax))
		case ast.NodeBranch:
			c.tree.branches.Push(c.lowerBranchValue(ci, syntax))
		case ast.NodeFunction:
			c.lowerFunction(ci, syntax)
		case ast.NodeVar:
			h := c.tree.variables.Push(c.lowerVarValue(ci, syntax))
			m.ScopeItems = append(m.ScopeItems, NewVarItem(h))
		case ast.NodeParam:
			h := c.tree.parameters.Push(c.lowerParamValue(ci, syntax))
			m.ScopeItems = append(m.ScopeItems, NewParamItem(h))
		case ast.NodeBlockScope:
			h := c.lowerBlockScope(ci, syntax)
			m.ScopeItems = append(m.ScopeItems, NewBlockScopeItem(h))
		}
	}

	m.BodyPorts = c.tree.ports.RangeToEnd(bodyStart)
	m.Nets = c.tree.nets.RangeToEnd(netStart)
	m.Branches = c.tree.branches.RangeToEnd(branchStart)
	m.Functions = c.tree.functions.RangeToEnd(funcStart)

	return c.tree.modules.Push(m)
}

func (c *ctx) lowerPortValue(idx int, syntax ast.SyntaxTree) Port {
	node := syntax.Root[idx]
	return Port{
		Name:       Name(node.Name),
		Discipline: optName(node.RefA),
		IsInput:    node.Flags&ast.FlagIsInput != 0,
		IsOutput:   node.Flags&ast.FlagIsOutput != 0,
		AstID:      ast.NewAstID[Port](c.file, uint32(idx)),
	}
}

func (c *ctx) lowerNetValue(idx int, syntax ast.SyntaxTree) Net {
	node := syntax.Root[idx]
	return Net{
		Name:       Name(node.Name),
		Discipline: optName(node.RefA),
		AstID:      ast.NewAstID[Net](c.file, uint32(idx)),
	}
}

func (c *ctx) lowerBranchValue(idx int, syntax ast.SyntaxTree) Branch {
	node := syntax.Root[idx]
	return Branch{
		Name:  Name(node.Name),
		AstID: ast.NewAstID[Branch](c.file, uint32(idx)),
	}
}

func (c *ctx) lowerVarValue(idx int, syntax ast.SyntaxTree) Var {
	node := syntax.Root[idx]
	return Var{
		Name:  Name(node.Name),
		Ty:    Type(node.SemanticType),
		AstID: ast.NewAstID[Var](c.file, uint32(idx)),
	}
}

func (c *ctx) lowerParamValue(idx int, syntax ast.SyntaxTree) Param {
	node := syntax.Root[idx]
	return Param{
		Name:  Name(node.Name),
		Ty:    Type(node.SemanticType),
		AstID: ast.NewAstID[Param](c.file, uint32(idx)),
	}
}

func (c *ctx) lowerFunction(idx int, syntax ast.SyntaxTree) handle.Handle[Function] {
	node := syntax.Root[idx]

	argStart := c.tree.functionArgs.NextHandle()
	paramStart := c.tree.parameters.NextHandle()
	varStart := c.tree.variables.NextHandle()

	for _, ci := range node.Children {
		child := syntax.Root[ci]
		switch child.Kind {
		case ast.NodeFunctionArg:
			c.tree.functionArgs.Push(FunctionArg{
				Name:     Name(child.Name),
				IsInput:  child.Flags&ast.FlagIsInput != 0,
				IsOutput: child.Flags&ast.FlagIsOutput != 0,
				AstID:    ast.NewAstID[FunctionArg](c.file, uint32(ci)),
			})
		case ast.NodeParam:
			c.tree.parameters.Push(Param{
				Name:  Name(child.Name),
				Ty:    Type(child.SemanticType),
				AstID: ast.NewAstID[Param](c.file, uint32(ci)),
			})
		case ast.NodeVar:
			c.tree.variables.Push(Var{
				Name:  Name(child.Name),
				Ty:    Type(child.SemanticType),
				AstID: ast.NewAstID[Var](c.file, uint32(ci)),
			})
		}
	}

	fn := Function{
		Name:   Name(node.Name),
		Ty:     Type(node.SemanticType),
		Args:   c.tree.functionArgs.RangeToEnd(argStart),
		Params: c.tree.parameters.RangeToEnd(paramStart),
		Vars:   c.tree.variables.RangeToEnd(varStart),
		AstID:  ast.NewAstID[Function](c.file, uint32(idx)),
	}

	return c.tree.functions.Push(fn)
}

func (c *ctx) lowerBlockScope(idx int, syntax ast.SyntaxTree) handle.Handle[BlockScope] {
	node := syntax.Root[idx]

	paramStart := c.tree.parameters.NextHandle()
	varStart := c.tree.variables.NextHandle()

	var nested []handle.Handle[BlockScope]

	for _, ci := range node.Children {
		child := syntax.Root[ci]
		switch child.Kind {
		case ast.NodeParam:
			c.tree.parameters.Push(Param{
				Name:  Name(child.Name),
				Ty:    Type(child.SemanticType),
				AstID: ast.NewAstID[Param](c.file, uint32(ci)),
			})
		case ast.NodeVar:
			c.tree.variables.Push(Var{
				Name:  Name(child.Name),
				Ty:    Type(child.SemanticType),
				AstID: ast.NewAstID[Var](c.file, uint32(ci)),
			})
		case ast.NodeBlockScope:
			nested = append(nested, c.lowerBlockScope(ci, syntax))
		}
	}

	bs := BlockScope{
		Name:       Name(node.Name),
		Parameters: c.tree.parameters.RangeToEnd(paramStart),
		Variables:  c.tree.variables.RangeToEnd(varStart),
		Scopes:     nested,
		AstID:      ast.NewAstID[BlockScope](c.file, uint32(idx)),
	}

	return c.tree.blockScopes.Push(bs)
}

func (c *ctx) lowerNature(idx int, syntax ast.SyntaxTree) handle.Handle[Nature] {
	node := syntax.Root[idx]

	attrStart := c.tree.natureAttrs.NextHandle()
	for _, ci := range node.Children {
		child := syntax.Root[ci]
		if child.Kind == ast.NodeNatureAttr {
			c.tree.natureAttrs.Push(NatureAttr{
				Name:  Name(child.Name),
				AstID: ast.NewAstID[NatureAttr](c.file, uint32(ci)),
			})
		}
	}

	var ddt, idt *string
	if len(node.ExtraRefs) > 0 {
		ddt = &node.ExtraRefs[0]
	}
	if len(node.ExtraRefs) > 1 {
		idt = &node.ExtraRefs[1]
	}

	n := Nature{
		Name:      Name(node.Name),
		Parent:    optName(node.RefA),
		Access:    optName(node.RefB),
		DdtNature: optName(ddt),
		IdtNature: optName(idt),
		Attrs:     c.tree.natureAttrs.RangeToEnd(attrStart),
		AstID:     ast.NewAstID[Nature](c.file, uint32(idx)),
	}

	return c.tree.natures.Push(n)
}

func (c *ctx) lowerDiscipline(idx int, syntax ast.SyntaxTree) handle.Handle[Discipline] {
	node := syntax.Root[idx]

	attrStart := c.tree.disciplineAttrs.NextHandle()
	for _, ci := range node.Children {
		child := syntax.Root[ci]
		if child.Kind == ast.NodeDisciplineAttr {
			c.tree.disciplineAttrs.Push(DisciplineAttr{
				Name:  Name(child.Name),
				AstID: ast.NewAstID[DisciplineAttr](c.file, uint32(ci)),
			})
		}
	}

	d := Discipline{
		Name:      Name(node.Name),
		Potential: optName(node.RefA),
		Flow:      optName(node.RefB),
		Attrs:     c.tree.disciplineAttrs.RangeToEnd(attrStart),
		Domain:    Domain(node.DisciplineDomain),
		AstID:     ast.NewAstID[Discipline](c.file, uint32(idx)),
	}

	return c.tree.disciplines.Push(d)
}

func namesOf(raw []string) []Name {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Name, len(raw))
	for i, s := range raw {
		out[i] = Name(s)
	}
	return out
}

func optName(s *string) *Name {
	if s == nil {
		return nil
	}
	n := Name(*s)
	return &n
}
