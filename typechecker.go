package sapling

import (
	"strings"

	"github.com/jward/sapling/internal/compiler"
)

// Type is the result of a type query: the type's text, the symbol it was
// computed for, and the location it was asked at.
type Type struct {
	text     string
	symbol   *Symbol
	location Node
}

// NewType builds a Type, for TypeChecker implementations outside this
// package.
func NewType(text string, symbol *Symbol, location Node) *Type {
	return &Type{text: text, symbol: symbol, location: location}
}

func (t *Type) Text() string { return t.text }
func (t *Type) Symbol() *Symbol { return t.symbol }
func (t *Type) Location() Node { return t.location }
func (t *Type) String() string { return t.text }
func (t *Type) IsAny() bool { return t.text == "any" }

// TypeChecker resolves types and qualified names for symbols. A checker
// may be bound to one program snapshot; the ...With methods on Symbol take
// one explicitly.
type TypeChecker interface {
	DeclaredTypeOfSymbol(s *Symbol) *Type
	TypeOfSymbolAtLocation(s *Symbol, location Node) *Type
	FullyQualifiedName(s *Symbol) string
}

// SyntacticChecker answers type queries from the written source only:
// annotations, literal initializers and declaration shapes. It performs no
// inference across expressions.
type SyntacticChecker struct{}

var _ TypeChecker = SyntacticChecker{}

// DeclaredTypeOfSymbol returns the named type of classes, interfaces and
// enums, the aliased type of type aliases, and any otherwise.
func (SyntacticChecker) DeclaredTypeOfSymbol(s *Symbol) *Type {
	if s == nil {
		return nil
	}
	decl := firstDeclaration(s)
	switch {
	case decl == nil:
		return NewType("any", s, nil)
	case s.hasAnyFlag(SymbolClass | SymbolInterface | SymbolEnum):
		return NewType(s.Name()+decl.oracle().TypeParametersText(decl.compilerNode()), s, nil)
	case s.HasFlags(SymbolTypeAlias):
		return NewType(decl.oracle().AliasedText(decl.compilerNode()), s, nil)
	}
	return NewType("any", s, nil)
}

// TypeOfSymbolAtLocation returns the value type of the symbol. The location
// is recorded on the result but does not narrow it.
func (SyntacticChecker) TypeOfSymbolAtLocation(s *Symbol, location Node) *Type {
	if s == nil {
		return nil
	}
	text := "any"
	decl := valueDeclaration(s)
	switch {
	case s.hasAnyFlag(SymbolClass | SymbolEnum | SymbolValueModule):
		text = "typeof " + s.Name()
	case s.HasFlags(SymbolEnumMember):
		if p := s.Parent(); p != nil {
			text = p.Name() + "." + s.Name()
		}
	case decl == nil:
	case s.hasAnyFlag(SymbolFunction | SymbolMethod):
		text = decl.oracle().SignatureText(decl.compilerNode())
	case s.hasAnyFlag(SymbolVariable | SymbolProperty):
		cf := decl.oracle()
		if t := cf.AnnotationText(decl.compilerNode()); t != "" {
			text = t
		} else if t := cf.InitializerType(decl.compilerNode()); t != "" {
			text = t
		}
	}
	return NewType(text, s, location)
}

// FullyQualifiedName joins the names of the symbol and its containers with
// dots. Module containers keep their quoted names.
func (SyntacticChecker) FullyQualifiedName(s *Symbol) string {
	if s == nil {
		return ""
	}
	var parts []string
	for p := s; p != nil; p = p.Parent() {
		parts = append(parts, p.Name())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

func firstDeclaration(s *Symbol) *nodeBase {
	for _, d := range s.Declarations() {
		if d.Kind() != Kind(compiler.KindProgram) {
			return d.base()
		}
	}
	return nil
}

func valueDeclaration(s *Symbol) *nodeBase {
	if vd := s.ValueDeclaration(); vd != nil {
		return vd.base()
	}
	return firstDeclaration(s)
}
