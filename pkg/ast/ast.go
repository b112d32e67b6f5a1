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

// Package ast models the external collaborator surface of the parser: a
// FileID naming a compilation unit, a SyntaxTree produced by the
// (out-of-scope) parser, and an opaque, never-dereferenced AstID handle
// back to a syntax node. The item tree stores these IDs but never looks
// inside them; mapping back to concrete syntax is the parser/caller's job.
package ast

// FileID names one source file within a compilation. It is the key for the
// per-file item-tree memoization cache.
type FileID uint32

// SyntaxTree stands in for the parser's concrete syntax tree. The parser
// that produces it lives outside this module; itemtree.Build is the lowering
// pass that walks it when building an ItemTree. Each RawNode's Span carries
// source positions for diagnostics.
type SyntaxTree struct {
	File FileID
	// Root enumerates the top-level declarations in document order, as
	// produced by the (out of scope) parser. Each entry is an opaque
	// syntax-node marker the lowering pass understands; the core only
	// ever receives back an AstID pointing at one of these.
	Root []RawNode
}

// RawNode is an opaque marker for one syntax-level declaration. Its Kind and
// Span are the only fields the core ever reads for diagnostics; the
// remaining fields are the minimal surface a lowering pass needs to desugar
// a declaration into an item-tree entity record without this package
// knowing anything about concrete Verilog-A grammar or token shapes.
type RawNode struct {
	Kind NodeKind
	Span Span
	Name string
	// RefA/RefB carry a node's secondary name references, e.g. a Port's
	// or Net's discipline name, a Nature's parent/access/ddt/idt nature
	// names (RefA=parent, RefB=access for a Nature; ddt/idt names are
	// carried via ExtraRefs), or a Branch's... (branches carry none).
	RefA *string
	RefB *string
	// ExtraRefs holds any remaining optional name references a node kind
	// needs beyond RefA/RefB (e.g. a Nature's ddt/idt nature names).
	ExtraRefs []string
	// Flags is a small bitset of boolean attributes: bit 0 = is_input,
	// bit 1 = is_output (Port/FunctionArg); interpretation is up to the
	// lowering pass for the given NodeKind.
	Flags uint8
	// SemanticType carries a Var/Param/Function/FunctionArg's semantic
	// type tag.
	SemanticType uint8
	// DisciplineDomain carries a Discipline's continuity domain tag.
	DisciplineDomain uint8
	// ExpectedPorts carries a Module's port-name list as written in the
	// module header.
	ExpectedPorts []string
	// Children indexes into the same SyntaxTree.Root slice, describing
	// nested declarations (e.g. a module's ports, a block's nested
	// scopes) in document order. Interpretation is entirely up to the
	// lowering pass that consumes a given NodeKind.
	Children []int
}

// Flag bit positions within RawNode.Flags.
const (
	FlagIsInput uint8 = 1 << iota
	FlagIsOutput
	// FlagHeadPort marks a Port node declared directly in the module
	// header (`module M(input a, output b);`) as opposed to body style
	// (`input a; output b;` after a bare `module M(a, b);`).
	FlagHeadPort
)

// NodeKind enumerates the syntax-level declaration shapes the lowering pass
// recognizes when building an item tree.
type NodeKind uint8

// Declaration shapes recognized while lowering a syntax tree into an item
// tree.
const (
	NodeModule NodeKind = iota
	NodeNature
	NodeDiscipline
	NodeNatureAttr
	NodeDisciplineAttr
	NodePort
	NodeNet
	NodeBranch
	NodeVar
	NodeParam
	NodeFunction
	NodeFunctionArg
	NodeBlockScope
)

// Span denotes a half-open byte range [Start, End) in a file's source text,
// used to anchor diagnostics.
type Span struct {
	Start uint32
	End   uint32
}

// AstID is a stable, opaque handle to a syntax node of kind T within one
// file's SyntaxTree. The item tree stores AstIDs on every entity it builds
// but never dereferences them; resolving back to syntax is the caller's
// responsibility.
type AstID[T any] struct {
	File FileID
	Raw  uint32
}

// NewAstID constructs an AstID bound to a given file and raw node index.
func NewAstID[T any](file FileID, raw uint32) AstID[T] {
	return AstID[T]{File: file, Raw: raw}
}
