package sapling

import (
	"strings"

	"github.com/jward/sapling/internal/compiler"
)

// ClassDeclaration wraps class and abstract class declarations.
type ClassDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Exportable
	Abstractable
	Ambientable
}

// Properties returns the field declarations of the class body.
func (c *ClassDeclaration) Properties() []*PropertyDeclaration {
	return membersOf[*PropertyDeclaration](c.nodeBase)
}

// Property returns the first property with the given name, or nil.
func (c *ClassDeclaration) Property(name string) *PropertyDeclaration {
	return byName(c.Properties(), name)
}

// Methods returns the method declarations of the class body.
func (c *ClassDeclaration) Methods() []*MethodDeclaration {
	return membersOf[*MethodDeclaration](c.nodeBase)
}

// Method returns the first method with the given name, or nil.
func (c *ClassDeclaration) Method(name string) *MethodDeclaration {
	return byName(c.Methods(), name)
}

func membersOf[T Node](n *nodeBase) []T {
	body := n.compilerNode().ChildByFieldName("body")
	var out []T
	for _, raw := range compiler.NamedChildren(body) {
		if m, ok := n.wrap(raw).(T); ok {
			out = append(out, m)
		}
	}
	return out
}

type InterfaceDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Exportable
	Ambientable
}

type TypeAliasDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Exportable
	Ambientable
}

type EnumDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Exportable
	Ambientable
}

// IsConstEnum reports whether the enum is declared with const.
func (e *EnumDeclaration) IsConstEnum() bool {
	return e.HasModifier(KeywordConst)
}

// MemberNames returns the enum member names in declaration order. String
// names are unquoted.
func (e *EnumDeclaration) MemberNames() []string {
	body := e.compilerNode().ChildByFieldName("body")
	cf := e.oracle()
	var names []string
	for _, m := range compiler.NamedChildren(body) {
		switch m.Type() {
		case compiler.KindEnumAssignment:
			names = append(names, cf.NameText(m))
		case compiler.KindPropertyIdentifier, compiler.KindString:
			names = append(names, strings.Trim(cf.Text(m), `"'`))
		}
	}
	return names
}

type FunctionDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Exportable
	Asyncable
	Ambientable
}

// IsOverload reports whether the declaration is a body-less signature.
func (f *FunctionDeclaration) IsOverload() bool {
	return f.compilerNode().Type() == compiler.KindFunctionSignature
}

// NamespaceDeclaration wraps namespace and module declarations, including
// `declare module "x"` ambient modules.
type NamespaceDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Exportable
	Ambientable
	Statemented
}

// HasStringName reports whether the namespace is an ambient module named
// by a string literal.
func (ns *NamespaceDeclaration) HasStringName() bool {
	name := ns.compilerNode().ChildByFieldName("name")
	return name != nil && name.Type() == compiler.KindString
}

// VariableStatement wraps let, const and var statements.
type VariableStatement struct {
	*nodeBase
	Modifierable
	Exportable
	Ambientable
}

// Declarations returns the declarators of the statement.
func (v *VariableStatement) Declarations() []*VariableDeclaration {
	var out []*VariableDeclaration
	for _, raw := range compiler.NamedChildren(v.compilerNode()) {
		if d, ok := v.wrap(raw).(*VariableDeclaration); ok {
			out = append(out, d)
		}
	}
	return out
}

// DeclarationKind returns "const", "let" or "var".
func (v *VariableStatement) DeclarationKind() string {
	if v.compilerNode().Type() == compiler.KindVariableDeclaration {
		return "var"
	}
	kw := v.compilerNode().ChildByFieldName("kind")
	if kw == nil {
		return "let"
	}
	return v.oracle().Text(kw)
}

// VariableDeclaration wraps one declarator of a variable statement.
type VariableDeclaration struct {
	*nodeBase
	Named
}

// VariableStatement returns the statement that contains the declarator.
func (v *VariableDeclaration) VariableStatement() *VariableStatement {
	s, _ := v.Parent().(*VariableStatement)
	return s
}

// CombinedModifierFlags returns the modifiers of the containing statement.
func (v *VariableDeclaration) CombinedModifierFlags() ModifierFlags {
	return v.combinedFlags()
}

// PropertyDeclaration wraps a class field.
type PropertyDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Scoped
	Staticable
	Readonlyable
	Abstractable
	Ambientable
}

// MethodDeclaration wraps a class method or abstract method signature.
type MethodDeclaration struct {
	*nodeBase
	Named
	Modifierable
	Scoped
	Staticable
	Asyncable
	Abstractable
}

var (
	_ AmbientableNode  = (*ClassDeclaration)(nil)
	_ ExportableNode   = (*ClassDeclaration)(nil)
	_ AbstractableNode = (*ClassDeclaration)(nil)
	_ NamedNode        = (*ClassDeclaration)(nil)
	_ AmbientableNode  = (*InterfaceDeclaration)(nil)
	_ ExportableNode   = (*InterfaceDeclaration)(nil)
	_ AmbientableNode  = (*TypeAliasDeclaration)(nil)
	_ ExportableNode   = (*TypeAliasDeclaration)(nil)
	_ AmbientableNode  = (*EnumDeclaration)(nil)
	_ ExportableNode   = (*EnumDeclaration)(nil)
	_ AmbientableNode  = (*FunctionDeclaration)(nil)
	_ AsyncableNode    = (*FunctionDeclaration)(nil)
	_ ExportableNode   = (*FunctionDeclaration)(nil)
	_ AmbientableNode  = (*NamespaceDeclaration)(nil)
	_ StatementedNode  = (*NamespaceDeclaration)(nil)
	_ AmbientableNode  = (*VariableStatement)(nil)
	_ ExportableNode   = (*VariableStatement)(nil)
	_ NamedNode        = (*VariableDeclaration)(nil)
	_ AmbientableNode  = (*PropertyDeclaration)(nil)
	_ ScopedNode       = (*PropertyDeclaration)(nil)
	_ StaticableNode   = (*PropertyDeclaration)(nil)
	_ ReadonlyableNode = (*PropertyDeclaration)(nil)
	_ AbstractableNode = (*PropertyDeclaration)(nil)
	_ ScopedNode       = (*MethodDeclaration)(nil)
	_ StaticableNode   = (*MethodDeclaration)(nil)
	_ AsyncableNode    = (*MethodDeclaration)(nil)
	_ AbstractableNode = (*MethodDeclaration)(nil)
	_ StatementedNode  = (*SourceFile)(nil)
)

func init() {
	registerKind(
		[]string{compiler.KindClassDeclaration, compiler.KindAbstractClassDeclaration},
		func(n *nodeBase) Node {
			return &ClassDeclaration{n, Named{n}, Modifierable{n}, Exportable{n}, Abstractable{n}, Ambientable{n}}
		},
		capNamed, capModifierable, capExportable, capAbstractable, capAmbientable,
	)
	registerKind(
		[]string{compiler.KindInterfaceDeclaration},
		func(n *nodeBase) Node {
			return &InterfaceDeclaration{n, Named{n}, Modifierable{n}, Exportable{n}, Ambientable{n}}
		},
		capNamed, capModifierable, capExportable, capAmbientable,
	)
	registerKind(
		[]string{compiler.KindTypeAliasDeclaration},
		func(n *nodeBase) Node {
			return &TypeAliasDeclaration{n, Named{n}, Modifierable{n}, Exportable{n}, Ambientable{n}}
		},
		capNamed, capModifierable, capExportable, capAmbientable,
	)
	registerKind(
		[]string{compiler.KindEnumDeclaration},
		func(n *nodeBase) Node {
			return &EnumDeclaration{n, Named{n}, Modifierable{n}, Exportable{n}, Ambientable{n}}
		},
		capNamed, capModifierable, capExportable, capAmbientable,
	)
	registerKind(
		[]string{compiler.KindFunctionDeclaration, compiler.KindGeneratorFunction, compiler.KindFunctionSignature},
		func(n *nodeBase) Node {
			return &FunctionDeclaration{n, Named{n}, Modifierable{n}, Exportable{n}, Asyncable{n}, Ambientable{n}}
		},
		capNamed, capModifierable, capExportable, capAsyncable, capAmbientable,
	)
	registerKind(
		[]string{compiler.KindModule, compiler.KindInternalModule},
		func(n *nodeBase) Node {
			return &NamespaceDeclaration{n, Named{n}, Modifierable{n}, Exportable{n}, Ambientable{n}, Statemented{n}}
		},
		capNamed, capModifierable, capExportable, capAmbientable, capStatemented,
	)
	registerKind(
		[]string{compiler.KindLexicalDeclaration, compiler.KindVariableDeclaration},
		func(n *nodeBase) Node {
			return &VariableStatement{n, Modifierable{n}, Exportable{n}, Ambientable{n}}
		},
		capModifierable, capExportable, capAmbientable,
	)
	registerKind(
		[]string{compiler.KindVariableDeclarator},
		func(n *nodeBase) Node {
			return &VariableDeclaration{n, Named{n}}
		},
		capNamed,
	)
	registerKind(
		[]string{compiler.KindPublicFieldDefinition},
		func(n *nodeBase) Node {
			return &PropertyDeclaration{n, Named{n}, Modifierable{n}, Scoped{n}, Staticable{n}, Readonlyable{n}, Abstractable{n}, Ambientable{n}}
		},
		capNamed, capModifierable, capScoped, capStaticable, capReadonlyable, capAbstractable, capAmbientable,
	)
	registerKind(
		[]string{compiler.KindMethodDefinition, compiler.KindAbstractMethodSignature},
		func(n *nodeBase) Node {
			return &MethodDeclaration{n, Named{n}, Modifierable{n}, Scoped{n}, Staticable{n}, Asyncable{n}, Abstractable{n}}
		},
		capNamed, capModifierable, capScoped, capStaticable, capAsyncable, capAbstractable,
	)
}
