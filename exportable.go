package sapling

import (
	"github.com/jward/sapling/internal/compiler"
)

// ExportableNode is implemented by top-level declarations.
type ExportableNode interface {
	ModifierableNode
	HasExportKeyword() bool
	ExportKeyword() Node
	IsExported() bool
	IsDefaultExport() bool
	SetIsExported(value bool) error
}

// Exportable manages the export keyword of a declaration.
type Exportable struct {
	n *nodeBase
}

func (e Exportable) HasExportKeyword() bool {
	return e.n.firstModifier(KeywordExport) != nil
}

// ExportKeyword returns the export keyword token, or nil.
func (e Exportable) ExportKeyword() Node {
	return e.n.firstModifier(KeywordExport)
}

// IsExported reports whether the declaration has an export keyword or is
// declared directly in the body of an ambient namespace, where every
// declaration is implicitly exported.
func (e Exportable) IsExported() bool {
	if e.n.combinedFlags()&ModifierExport != 0 {
		return true
	}
	ns := enclosingNamespace(e.n)
	return ns != nil && isAmbient(ns)
}

func (e Exportable) IsDefaultExport() bool {
	return e.n.firstModifier(KeywordDefault) != nil
}

// SetIsExported adds or removes the export keyword. Removing it also
// removes a default keyword.
func (e Exportable) SetIsExported(value bool) error {
	if !value {
		if err := e.n.toggleModifier(KeywordDefault, false); err != nil {
			return err
		}
	}
	return e.n.toggleModifier(KeywordExport, value)
}

// enclosingNamespace returns the namespace whose body directly contains
// the declaration, or nil.
func enclosingNamespace(n *nodeBase) *nodeBase {
	p := n.compilerNode().Parent()
	for p != nil && (p.Type() == compiler.KindExportStatement || p.Type() == compiler.KindAmbientDeclaration) {
		p = p.Parent()
	}
	if p == nil || p.Type() != compiler.KindStatementBlock {
		return nil
	}
	mod := p.Parent()
	if mod == nil || (mod.Type() != compiler.KindModule && mod.Type() != compiler.KindInternalModule) {
		return nil
	}
	return n.wrap(mod).base()
}

func fillExportable(n *nodeBase, s Structure) error {
	if s.IsExported == nil {
		return nil
	}
	return Exportable{n}.SetIsExported(*s.IsExported)
}
