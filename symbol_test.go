package sapling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Symbol facade
// =============================================================================

func TestSymbol_Equals(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class A {}\ninterface A { x: number }\nclass B {}\n")

	classSym := sf.Class("A").Symbol()
	ifaceSym := sf.Interface("A").Symbol()
	require.NotNil(t, classSym)
	require.NotNil(t, ifaceSym)

	assert.True(t, classSym.Equals(ifaceSym), "class and interface merge into one symbol")
	assert.Same(t, classSym, ifaceSym)
	assert.False(t, classSym.Equals(sf.Class("B").Symbol()))
	assert.False(t, classSym.Equals(nil))
	assert.Len(t, classSym.Declarations(), 2)
}

func TestSymbol_ExportByName(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "export class Foo {}\nconst local = 1;\nexport { local as renamed };\n")

	mod := sf.Symbol()
	require.NotNil(t, mod)
	assert.Equal(t, `"/src/a"`, mod.Name())

	foo := mod.ExportByName("Foo")
	require.NotNil(t, foo)
	assert.Equal(t, "Foo", foo.Name())
	assert.True(t, foo.HasFlags(SymbolClass))
	assert.Nil(t, mod.ExportByName("Missing"))

	renamed := mod.ExportByName("renamed")
	require.NotNil(t, renamed)
	assert.Equal(t, "renamed", renamed.Name())
	assert.True(t, renamed.IsAlias())
	require.NotNil(t, renamed.AliasedSymbol())
	assert.Equal(t, "local", renamed.AliasedSymbol().Name())
	assert.Same(t, sf.VariableDeclaration("local").Symbol(), renamed.AliasedSymbol())
	assert.False(t, foo.IsAlias())
	assert.Nil(t, foo.AliasedSymbol())

	variable := sf.VariableDeclaration("local").Symbol()
	require.NotNil(t, variable)
	for _, name := range []string{"Foo", "local", "", "constructor"} {
		assert.Nil(t, variable.ExportByName(name))
	}
	assert.Empty(t, variable.Exports())
}

func TestSymbol_ScriptFileHasNoModuleSymbol(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")
	assert.Nil(t, sf.Symbol())
	assert.Nil(t, sf.Class("A").Symbol().Parent())
}

func TestSymbol_WrapperCachedWithinEpoch(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")

	s1 := sf.Class("A").Symbol()
	assert.Same(t, s1, sf.Class("A").Symbol())

	require.NoError(t, sf.ReplaceText(0, 0, "\n"))
	s2 := sf.Class("A").Symbol()
	require.NotNil(t, s2)
	assert.NotSame(t, s1, s2)
	assert.False(t, s1.Equals(s2))
	assert.Empty(t, s1.Declarations(), "declarations from an edited snapshot are dropped")
}

func TestSymbol_DeclarationsMapBackToWrappers(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	a := addFile(t, p, "/src/a.ts", "namespace N { export const x = 1; }\n")
	b := addFile(t, p, "/src/b.ts", "namespace N { export const y = 2; }\n")

	sym := a.Namespace("N").Symbol()
	require.NotNil(t, sym)
	decls := sym.Declarations()
	require.Len(t, decls, 2)
	assert.Same(t, a.Namespace("N"), decls[0].(*NamespaceDeclaration))
	assert.Same(t, b.Namespace("N"), decls[1].(*NamespaceDeclaration))

	names := []string{}
	for _, e := range sym.Exports() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"x", "y"}, names)
	assert.Same(t, sym, sym.ExportByName("y").Parent())
}

func TestSymbol_ClassMembers(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class C {\n  a = 1;\n  static s = 2;\n  m() {}\n}\n")

	sym := sf.Class("C").Symbol()
	var members []string
	for _, m := range sym.Members() {
		members = append(members, m.Name())
	}
	assert.Equal(t, []string{"a", "m"}, members)
	require.NotNil(t, sym.ExportByName("s"))
	assert.True(t, sym.ExportByName("s").HasFlags(SymbolProperty))
}

// =============================================================================
// Type checker
// =============================================================================

func TestSyntacticChecker_DeclaredType(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class Box<T> {}\ninterface I {}\ntype Alias = string | number;\nenum E { A }\nfunction f() {}\n")

	assert.Equal(t, "Box<T>", sf.Class("Box").Symbol().DeclaredType().Text())
	assert.Equal(t, "I", sf.Interface("I").Symbol().DeclaredType().Text())
	assert.Equal(t, "string | number", sf.TypeAlias("Alias").Symbol().DeclaredType().Text())
	assert.Equal(t, "E", sf.Enum("E").Symbol().DeclaredType().Text())
	assert.True(t, sf.Function("f").Symbol().DeclaredType().IsAny())
}

func TestSyntacticChecker_TypeAtLocation(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "const n = 1;\nlet s: string;\nconst b = true;\nclass C {}\nasync function f(a: number) {}\nconst q = foo();\n")

	at := func(name string) string {
		d := sf.VariableDeclaration(name)
		require.NotNil(t, d, name)
		return d.Symbol().TypeAtLocation(d).Text()
	}
	assert.Equal(t, "number", at("n"))
	assert.Equal(t, "string", at("s"))
	assert.Equal(t, "boolean", at("b"))
	assert.Equal(t, "any", at("q"))

	c := sf.Class("C")
	ty := c.Symbol().TypeAtLocation(c)
	assert.Equal(t, "typeof C", ty.Text())
	assert.Same(t, c, ty.Location().(*ClassDeclaration))
	assert.Same(t, c.Symbol(), ty.Symbol())

	fn := sf.Function("f")
	assert.Equal(t, "(a: number) => Promise<any>", fn.Symbol().TypeAtLocation(fn).Text())
}

type fixedChecker struct{ SyntacticChecker }

func (fixedChecker) FullyQualifiedName(*Symbol) string { return "fixed" }

func TestSymbol_CheckerOverride(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")
	sym := sf.Class("A").Symbol()

	assert.Equal(t, "A", sym.FullyQualifiedName())
	assert.Equal(t, "fixed", sym.FullyQualifiedNameWith(fixedChecker{}))

	q := newTestProject(t, WithTypeChecker(fixedChecker{}))
	sf2 := addFile(t, q, "/src/a.ts", "class A {}\n")
	assert.Equal(t, "fixed", sf2.Class("A").Symbol().FullyQualifiedName())

	r := newTestProject(t, WithTypeChecker(nil))
	sf3 := addFile(t, r, "/src/a.ts", "class A {}\n")
	sym3 := sf3.Class("A").Symbol()
	assert.NotPanics(t, func() { sym3.FullyQualifiedName() })
	assert.Equal(t, "A", sym3.FullyQualifiedName(), "nil keeps the default checker")
	assert.Equal(t, "A", sym3.DeclaredType().Text())
}

func TestSymbol_FullyQualifiedName(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "export namespace Outer.Inner { export class Foo {} }\n")
	amb := addFile(t, p, "/src/lib.d.ts", "declare module \"lib\" { class Bar {} }\n")

	foo := sf.Namespace("Outer.Inner").Class("Foo")
	require.NotNil(t, foo)
	assert.Equal(t, `"/src/a".Outer.Inner.Foo`, foo.Symbol().FullyQualifiedName())

	bar := amb.Namespace(`"lib"`).Class("Bar")
	require.NotNil(t, bar)
	assert.Equal(t, `"lib".Bar`, bar.Symbol().FullyQualifiedName())
}

func TestSymbol_HasFlagsRequiresEveryBit(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")

	sym := sf.Class("A").Symbol()
	assert.True(t, sym.HasFlags(SymbolClass))
	assert.False(t, sym.HasFlags(SymbolClass|SymbolInterface))
	assert.False(t, sym.HasFlags(SymbolInterface))
}
