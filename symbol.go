package sapling

import (
	"slices"

	"github.com/jward/sapling/internal/compiler"
)

// Symbol wraps a binder symbol. A Symbol never owns its Factory; equality
// is identity of the underlying binder symbol.
type Symbol struct {
	raw     *compiler.Symbol
	factory *Factory
}

// CompilerSymbol returns the binder symbol.
func (s *Symbol) CompilerSymbol() *compiler.Symbol { return s.raw }

// Name returns the symbol name. An export alias is named by its exported name.
func (s *Symbol) Name() string { return s.raw.Name }

// Flags returns the binder flags.
func (s *Symbol) Flags() SymbolFlags { return s.raw.Flags }

// HasFlags reports whether every bit of flags is set.
func (s *Symbol) HasFlags(flags SymbolFlags) bool { return s.raw.Flags&flags == flags }

func (s *Symbol) hasAnyFlag(flags SymbolFlags) bool { return s.raw.Flags&flags != 0 }

// IsAlias reports whether the symbol is an export alias.
func (s *Symbol) IsAlias() bool { return s.HasFlags(SymbolAlias) }

// AliasedSymbol returns the local symbol an export alias refers to, or nil
// when s is not an alias.
func (s *Symbol) AliasedSymbol() *Symbol { return s.factory.SymbolFor(s.raw.Target) }

// Equals reports whether both wrappers denote the same binder symbol.
// It is false for nil.
func (s *Symbol) Equals(other *Symbol) bool {
	return other != nil && s.raw == other.raw
}

// Declarations returns the wrapped declaration nodes. Declarations from a
// file that was edited since the symbol was bound are skipped.
func (s *Symbol) Declarations() []Node {
	var out []Node
	for i := range s.raw.Declarations {
		if n := s.declaration(i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// ValueDeclaration returns the declaration that introduces the value side
// of the symbol, or nil.
func (s *Symbol) ValueDeclaration() Node {
	vd := s.raw.ValueDeclaration
	if vd == nil {
		return nil
	}
	i := slices.Index(s.raw.Declarations, vd)
	if i < 0 {
		return nil
	}
	return s.declaration(i)
}

func (s *Symbol) declaration(i int) Node {
	sf := s.factory.sourceFileOf(s.raw.DeclarationFile(i))
	if sf == nil || sf.removed {
		return nil
	}
	return s.factory.nodeIn(sf, s.raw.Declarations[i])
}

// Parent returns the containing symbol, or nil at the top level.
func (s *Symbol) Parent() *Symbol { return s.factory.SymbolFor(s.raw.Parent) }

// ExportByName returns the export with the given name, or nil when the
// symbol has no export table or no such entry.
func (s *Symbol) ExportByName(name string) *Symbol {
	if s.raw.Exports == nil {
		return nil
	}
	return s.factory.SymbolFor(s.raw.Exports[name])
}

// Exports returns the exported symbols sorted by name.
func (s *Symbol) Exports() []*Symbol { return s.table(s.raw.Exports) }

// Members returns the instance members sorted by name.
func (s *Symbol) Members() []*Symbol { return s.table(s.raw.Members) }

func (s *Symbol) table(t compiler.SymbolTable) []*Symbol {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]*Symbol, 0, len(names))
	for _, name := range names {
		out = append(out, s.factory.SymbolFor(t[name]))
	}
	return out
}

// DeclaredType returns the declared type using the project's checker.
func (s *Symbol) DeclaredType() *Type {
	return s.DeclaredTypeWith(s.factory.checker())
}

// DeclaredTypeWith returns the declared type using tc.
func (s *Symbol) DeclaredTypeWith(tc TypeChecker) *Type {
	return tc.DeclaredTypeOfSymbol(s)
}

// TypeAtLocation returns the type of the symbol as seen from node.
func (s *Symbol) TypeAtLocation(node Node) *Type {
	return s.TypeAtLocationWith(node, s.factory.checker())
}

// TypeAtLocationWith is TypeAtLocation using tc.
func (s *Symbol) TypeAtLocationWith(node Node, tc TypeChecker) *Type {
	return tc.TypeOfSymbolAtLocation(s, node)
}

// FullyQualifiedName returns the dotted name of the symbol including its
// containers, e.g. `"/src/a".NS.Foo`.
func (s *Symbol) FullyQualifiedName() string {
	return s.FullyQualifiedNameWith(s.factory.checker())
}

// FullyQualifiedNameWith is FullyQualifiedName using tc.
func (s *Symbol) FullyQualifiedNameWith(tc TypeChecker) string {
	return tc.FullyQualifiedName(s)
}
