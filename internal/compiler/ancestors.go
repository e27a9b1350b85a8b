package compiler

import (
	"iter"

	sitter "github.com/smacker/go-tree-sitter"
)

// NodeKey identifies a node within one parse snapshot.
type NodeKey struct {
	Start, End uint32
	Kind       string
}

// KeyOf returns the snapshot-local identity of n.
func KeyOf(n *sitter.Node) NodeKey {
	return NodeKey{Start: n.StartByte(), End: n.EndByte(), Kind: n.Type()}
}

// RootOf walks a node up to its root via Parent().
func RootOf(n *sitter.Node) *sitter.Node {
	for p := n.Parent(); p != nil; p = n.Parent() {
		n = p
	}
	return n
}

// Ancestors yields the parents of n from the nearest outwards, ending at
// the root. A root node yields nothing.
func Ancestors(n *sitter.Node) iter.Seq[*sitter.Node] {
	return func(yield func(*sitter.Node) bool) {
		for p := n.Parent(); p != nil; p = p.Parent() {
			if !yield(p) {
				return
			}
		}
	}
}

// NamedChildren returns the named children of n in source order.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// Children returns all children of n, anonymous tokens included.
func Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// Unwrap returns the declaration carried by a statement, looking through
// export and ambient wrappers and namespace expression statements. It
// returns stmt itself when there is nothing to unwrap, and nil for wrappers
// without a declaration (export clauses, declare global blocks).
func Unwrap(stmt *sitter.Node) *sitter.Node {
	switch stmt.Type() {
	case KindExportStatement:
		for _, c := range NamedChildren(stmt) {
			if IsDeclarationKind(c.Type()) {
				return Unwrap(c)
			}
		}
		return nil
	case KindAmbientDeclaration:
		for _, c := range NamedChildren(stmt) {
			if IsDeclarationKind(c.Type()) {
				return Unwrap(c)
			}
		}
		return nil
	case KindExpressionStatement:
		if c := stmt.NamedChild(0); c != nil && c.Type() == KindInternalModule {
			return c
		}
	}
	return stmt
}

// IsGlobalAugmentation reports whether n is a `declare global { }` block.
func IsGlobalAugmentation(n *sitter.Node) bool {
	if n.Type() != KindAmbientDeclaration {
		return false
	}
	for _, c := range Children(n) {
		if !c.IsNamed() && c.Type() == "global" {
			return true
		}
	}
	return false
}
