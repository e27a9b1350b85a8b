package sapling

import (
	"fmt"
	"iter"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/sapling/internal/compiler"
)

// Node is a wrapper around one tree-sitter node. Wrappers are obtained
// through a Factory and stay valid until their source file is edited;
// see IsForgotten.
type Node interface {
	Kind() Kind
	Text() string
	// Start and End are byte offsets into the file text.
	Start() int
	End() int
	// StartLine is 1-based.
	StartLine() int
	Parent() Node
	// Ancestors yields parents from the nearest outwards, ending at the
	// source file.
	Ancestors() iter.Seq[Node]
	Children() []Node
	SourceFile() *SourceFile
	CompilerNode() *sitter.Node
	Symbol() *Symbol
	Factory() *Factory
	IsForgotten() bool
	Fill(s Structure) error

	base() *nodeBase
}

// nodeBase is the state shared by every wrapper and the capability
// structs embedded in it.
type nodeBase struct {
	factory *Factory
	file    *SourceFile
	raw     *sitter.Node
	epoch   uint64
	layers  []capability
	self    Node
}

func (n *nodeBase) base() *nodeBase { return n }

// IsForgotten reports whether the wrapper was invalidated by an edit to
// its source file or by removing the file from the project.
func (n *nodeBase) IsForgotten() bool {
	return n.file.removed || n.epoch != n.file.epoch
}

func (n *nodeBase) compilerNode() *sitter.Node {
	if n.IsForgotten() {
		panic(fmt.Errorf("%w: %s in %s", ErrForgottenNode, n.raw.Type(), n.file.path))
	}
	return n.raw
}

func (n *nodeBase) oracle() *compiler.File { return n.file.cf }

func (n *nodeBase) wrap(raw *sitter.Node) Node {
	if raw == nil {
		return nil
	}
	return n.factory.nodeIn(n.file, raw)
}

// CompilerNode returns the underlying tree-sitter node.
func (n *nodeBase) CompilerNode() *sitter.Node { return n.compilerNode() }

func (n *nodeBase) Kind() Kind { return Kind(n.compilerNode().Type()) }

func (n *nodeBase) Text() string { return n.oracle().Text(n.compilerNode()) }

func (n *nodeBase) Start() int { return int(n.compilerNode().StartByte()) }

func (n *nodeBase) End() int { return int(n.compilerNode().EndByte()) }

func (n *nodeBase) StartLine() int { return int(n.compilerNode().StartPoint().Row) + 1 }

func (n *nodeBase) Parent() Node { return n.wrap(n.compilerNode().Parent()) }

func (n *nodeBase) Ancestors() iter.Seq[Node] {
	raw := n.compilerNode()
	return func(yield func(Node) bool) {
		for p := range compiler.Ancestors(raw) {
			if !yield(n.wrap(p)) {
				return
			}
		}
	}
}

// Children returns the named children.
func (n *nodeBase) Children() []Node {
	raws := compiler.NamedChildren(n.compilerNode())
	out := make([]Node, 0, len(raws))
	for _, r := range raws {
		out = append(out, n.wrap(r))
	}
	return out
}

func (n *nodeBase) SourceFile() *SourceFile { return n.file }

func (n *nodeBase) Factory() *Factory { return n.factory }

// Symbol returns the symbol the node declares, or nil.
func (n *nodeBase) Symbol() *Symbol {
	raw := n.compilerNode()
	return n.factory.SymbolFor(n.factory.program().SymbolAt(n.oracle(), raw))
}

// Fill applies a structure to the node, running each capability layer
// from base to derived.
func (n *nodeBase) Fill(s Structure) error {
	n.compilerNode()
	for _, c := range n.layers {
		if c.fill == nil {
			continue
		}
		if err := c.fill(n, s); err != nil {
			return fmt.Errorf("sapling: fill %s: %w", c.name, err)
		}
	}
	return nil
}

// replaceText edits the file with this node as the anchor that is carried
// over to the reparsed tree.
func (n *nodeBase) replaceText(start, end uint32, text string) error {
	n.compilerNode()
	return n.file.applyEdit(n, start, end, text)
}

// GenericNode wraps any node kind without a dedicated wrapper, including
// modifier keyword tokens.
type GenericNode struct {
	*nodeBase
}
