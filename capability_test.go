package sapling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fill
// =============================================================================

func TestFill_BaseLayersFirst(t *testing.T) {
	t.Parallel()
	var events []EditEvent
	p := newTestProject(t, WithEditHook(func(ev EditEvent) { events = append(events, ev) }))
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")

	a := sf.Class("A")
	require.NoError(t, a.Fill(Structure{
		HasDeclareKeyword: Ptr(true),
		IsExported:        Ptr(true),
	}))

	require.Len(t, events, 2)
	assert.Equal(t, "export ", events[0].Text)
	assert.Equal(t, "declare ", events[1].Text)
	assert.Less(t, events[0].Epoch, events[1].Epoch)
	assert.Same(t, sf, events[1].File)

	assert.Equal(t, "export declare class A {}\n", sf.Text())
	assert.True(t, a.IsExported())
	assert.True(t, a.HasDeclareKeyword())
}

func TestFill_RenameThenDeclare(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "function f(): void;\n")

	f := sf.Function("f")
	require.NoError(t, f.Fill(Structure{Name: Ptr("g"), HasDeclareKeyword: Ptr(true)}))
	assert.Equal(t, "declare function g(): void;\n", sf.Text())
	assert.Equal(t, "g", f.Name())
	assert.Nil(t, sf.Function("f"))
}

func TestFill_EmptyStructureIsNoop(t *testing.T) {
	t.Parallel()
	var events int
	p := newTestProject(t, WithEditHook(func(EditEvent) { events++ }))
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")

	require.NoError(t, sf.Class("A").Fill(Structure{}))
	assert.Zero(t, events)
}

func TestFill_MemberLayers(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class C {\n  x = 1;\n}\n")

	x := sf.Class("C").Property("x")
	require.NotNil(t, x)
	require.NoError(t, x.Fill(Structure{
		Scope:      Ptr(ScopePrivate),
		IsStatic:   Ptr(true),
		IsReadonly: Ptr(true),
	}))
	assert.Contains(t, sf.Text(), "  private static readonly x = 1;\n")
	assert.Equal(t, ScopePrivate, x.Scope())
	assert.True(t, x.IsStatic())
	assert.True(t, x.IsReadonly())
}

// =============================================================================
// Modifiers
// =============================================================================

func TestModifiers_CanonicalInsertionOrder(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class C {\n  m() {}\n}\n")

	m := sf.Class("C").Method("m")
	require.NoError(t, m.SetIsAsync(true))
	require.NoError(t, m.SetIsStatic(true))
	require.NoError(t, m.SetScope(ScopeProtected))

	assert.Equal(t, "protected static async m() {}", m.Text())
	var kws []string
	for _, tok := range m.Modifiers() {
		kws = append(kws, tok.Text())
	}
	assert.Equal(t, []string{"protected", "static", "async"}, kws)
	flags := m.CombinedModifierFlags()
	assert.Equal(t, ModifierProtected|ModifierStatic|ModifierAsync, flags)
}

func TestModifiers_ToggleUnknownKeyword(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")

	err := sf.Class("A").ToggleModifier("sealed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sealed")
}

func TestModifiers_FirstModifierByKindOrErr(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "export class A {}\n")

	a := sf.Class("A")
	tok, err := a.FirstModifierByKindOrErr(KeywordExport)
	require.NoError(t, err)
	assert.Equal(t, "export", tok.Text())

	_, err = a.FirstModifierByKindOrErr(KeywordDeclare)
	require.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// Scoped
// =============================================================================

func TestScoped_DefaultsToPublic(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class C {\n  a = 1;\n  public b = 2;\n}\n")

	c := sf.Class("C")
	assert.Equal(t, ScopePublic, c.Property("a").Scope())
	assert.False(t, c.Property("a").HasScopeKeyword())
	assert.True(t, c.Property("b").HasScopeKeyword())
}

func TestScoped_SetScopeReplacesKeyword(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class C {\n  public m() {}\n}\n")

	m := sf.Class("C").Method("m")
	require.NoError(t, m.SetScope(ScopePrivate))
	assert.Equal(t, "private m() {}", m.Text())
	require.NoError(t, m.SetScope(""))
	assert.Equal(t, "m() {}", m.Text())
	assert.Error(t, m.SetScope("internal"))
}

// =============================================================================
// Exportable / Abstractable
// =============================================================================

func TestExportable_AmbientNamespaceExportsImplicitly(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "declare namespace N { class A {} }\nnamespace M { class B {} }\n")

	assert.True(t, sf.Namespace("N").Class("A").IsExported())
	assert.False(t, sf.Namespace("M").Class("B").IsExported())
}

func TestExportable_SetIsExportedDropsDefault(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "export default class A {}\n")

	a := sf.Class("A")
	assert.True(t, a.IsDefaultExport())
	require.NoError(t, a.SetIsExported(false))
	assert.Equal(t, "class A {}\n", sf.Text())
	assert.False(t, a.IsExported())
}

func TestAbstractable_ClassKindFollowsKeyword(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "export class A {}\n")

	a := sf.Class("A")
	require.NoError(t, a.SetIsAbstract(true))
	assert.Equal(t, KindAbstractClassDeclaration, a.Kind())
	assert.Equal(t, "export abstract class A {}\n", sf.Text())
	assert.Same(t, a, sf.Class("A"))

	require.NoError(t, a.SetIsAbstract(false))
	assert.Equal(t, KindClassDeclaration, a.Kind())
}

// =============================================================================
// Declarations
// =============================================================================

func TestDeclarations_TypedAccessors(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", `// leading comment
export declare const enum Color { Red, Green = 2, "Blue" }
function over(a: string): void;
function over(a: any) {}
var v1 = 1, v2 = 2;
declare module "lib" {}
`)

	e := sf.Enum("Color")
	require.NotNil(t, e)
	assert.True(t, e.IsConstEnum())
	assert.Equal(t, []string{"Red", "Green", "Blue"}, e.MemberNames())

	fns := sf.Functions()
	require.Len(t, fns, 2)
	assert.True(t, fns[0].IsOverload())
	assert.False(t, fns[1].IsOverload())

	vs := sf.VariableStatements()
	require.Len(t, vs, 1)
	assert.Equal(t, "var", vs[0].DeclarationKind())
	assert.Len(t, vs[0].Declarations(), 2)

	lib := sf.Namespace(`"lib"`)
	require.NotNil(t, lib)
	assert.True(t, lib.HasStringName())
	assert.Empty(t, lib.Statements())

	assert.Len(t, sf.Statements(), 5)
}

func TestDeclarations_ClassMembers(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "abstract class C {\n  readonly a: string;\n  abstract b(): void;\n  c() {}\n}\n")

	c := sf.Class("C")
	require.NotNil(t, c)
	assert.True(t, c.IsAbstract())
	require.Len(t, c.Properties(), 1)
	assert.True(t, c.Property("a").IsReadonly())

	methods := c.Methods()
	require.Len(t, methods, 2)
	assert.True(t, c.Method("b").IsAbstract())
	assert.False(t, c.Method("c").IsAbstract())
	assert.Nil(t, c.Method("missing"))
}
