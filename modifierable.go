package sapling

import (
	"fmt"

	"github.com/jward/sapling/internal/compiler"
)

// ModifierableNode is implemented by nodes that carry modifier keywords.
type ModifierableNode interface {
	Node
	Modifiers() []Node
	FirstModifierByKind(kind ModifierKind) Node
	FirstModifierByKindOrErr(kind ModifierKind) (Node, error)
	HasModifier(kind ModifierKind) bool
	CombinedModifierFlags() ModifierFlags
	ToggleModifier(kind ModifierKind, value ...bool) error
}

// Modifierable gives a node access to its modifier tokens. Keywords written
// on an enclosing export statement or ambient declaration count as the
// node's own modifiers.
type Modifierable struct {
	n *nodeBase
}

// Modifiers returns the modifier tokens in source order.
func (m Modifierable) Modifiers() []Node {
	mods := m.n.oracle().Modifiers(m.n.compilerNode())
	out := make([]Node, 0, len(mods))
	for _, mod := range mods {
		out = append(out, m.n.wrap(mod.Node))
	}
	return out
}

// FirstModifierByKind returns the first modifier with the given keyword,
// or nil.
func (m Modifierable) FirstModifierByKind(kind ModifierKind) Node {
	return m.n.firstModifier(kind)
}

// FirstModifierByKindOrErr is FirstModifierByKind returning a
// *NotFoundError when the modifier is absent.
func (m Modifierable) FirstModifierByKindOrErr(kind ModifierKind) (Node, error) {
	if tok := m.n.firstModifier(kind); tok != nil {
		return tok, nil
	}
	return nil, &NotFoundError{What: fmt.Sprintf("a %s keyword", kind)}
}

// HasModifier reports whether a keyword of the given kind is present.
func (m Modifierable) HasModifier(kind ModifierKind) bool {
	return m.n.firstModifier(kind) != nil
}

// CombinedModifierFlags returns the node's modifier flags merged with those
// of the statement that contains it.
func (m Modifierable) CombinedModifierFlags() ModifierFlags {
	return m.n.combinedFlags()
}

// ToggleModifier adds or removes a modifier keyword. Without a value the
// modifier is flipped; with a value it is made present or absent.
func (m Modifierable) ToggleModifier(kind ModifierKind, value ...bool) error {
	if !compiler.IsKeyword(kind) {
		return fmt.Errorf("sapling: toggle modifier: unknown keyword %q", kind)
	}
	return m.n.toggleModifier(kind, value...)
}

func (n *nodeBase) firstModifier(kind ModifierKind) Node {
	return n.wrap(n.oracle().FirstModifier(n.compilerNode(), kind))
}

func (n *nodeBase) combinedFlags() ModifierFlags {
	return n.oracle().CombinedModifierFlags(n.compilerNode())
}

func (n *nodeBase) toggleModifier(kind ModifierKind, value ...bool) error {
	raw := n.compilerNode()
	tok := n.oracle().FirstModifier(raw, kind)
	want := tok == nil
	if len(value) > 0 {
		want = value[0]
	}
	switch {
	case want && tok == nil:
		off, text := n.oracle().ModifierInsertion(raw, kind)
		return n.replaceText(off, off, text)
	case !want && tok != nil:
		start, end := n.oracle().ModifierRemoval(tok)
		return n.replaceText(start, end, "")
	}
	return nil
}
