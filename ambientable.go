package sapling

import (
	"github.com/jward/sapling/internal/compiler"
)

// AmbientableNode is implemented by nodes that may carry a declare keyword.
type AmbientableNode interface {
	ModifierableNode
	HasDeclareKeyword() bool
	DeclareKeyword() Node
	DeclareKeywordOrErr() (Node, error)
	IsAmbient() bool
	ToggleDeclareKeyword(value ...bool) error
}

// Ambientable answers whether a declaration exists only at the type level.
type Ambientable struct {
	n *nodeBase
}

// HasDeclareKeyword reports whether the node has a declare keyword.
func (a Ambientable) HasDeclareKeyword() bool {
	return a.n.firstModifier(KeywordDeclare) != nil
}

// DeclareKeyword returns the declare keyword token, or nil.
func (a Ambientable) DeclareKeyword() Node {
	return a.n.firstModifier(KeywordDeclare)
}

// DeclareKeywordOrErr returns the declare keyword token or a
// *NotFoundError.
func (a Ambientable) DeclareKeywordOrErr() (Node, error) {
	if tok := a.n.firstModifier(KeywordDeclare); tok != nil {
		return tok, nil
	}
	return nil, &NotFoundError{What: "a declare keyword"}
}

// IsAmbient reports whether the node is ambient: it is declared with
// declare, is an interface or type alias, sits inside an ambient
// declaration, or lives in a declaration file.
func (a Ambientable) IsAmbient() bool {
	return isAmbient(a.n)
}

// ToggleDeclareKeyword adds or removes the declare keyword. Without a
// value the keyword is flipped.
func (a Ambientable) ToggleDeclareKeyword(value ...bool) error {
	return a.n.toggleModifier(KeywordDeclare, value...)
}

// isAmbient walks the ancestors once, remembering the last one so the
// declaration-file test runs on the outermost node reached.
func isAmbient(n *nodeBase) bool {
	raw := n.compilerNode()
	cf := n.oracle()
	if cf.CombinedModifierFlags(raw)&ModifierAmbient != 0 {
		return true
	}
	switch raw.Type() {
	case compiler.KindInterfaceDeclaration, compiler.KindTypeAliasDeclaration:
		return true
	}
	last := raw
	for p := range compiler.Ancestors(raw) {
		if cf.CombinedModifierFlags(p)&ModifierAmbient != 0 {
			return true
		}
		last = p
	}
	return last.Type() == compiler.KindProgram && n.file.IsDeclarationFile()
}

func fillAmbientable(n *nodeBase, s Structure) error {
	if s.HasDeclareKeyword == nil {
		return nil
	}
	return n.toggleModifier(KeywordDeclare, *s.HasDeclareKeyword)
}
