package sapling

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Declare keyword
// =============================================================================

func TestDeclareKeyword_AgreesWithHas(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", strings.Join([]string{
		"declare class A {}",
		"class B {}",
		"export declare function f(): void;",
		"function g() {}",
		"declare const x: number;",
		"let y = 1;",
		"declare namespace N {}",
		"declare enum E { A }",
		"",
	}, "\n"))

	stmts := sf.Statements()
	require.Len(t, stmts, 8)
	for _, stmt := range stmts {
		a, ok := stmt.(AmbientableNode)
		require.True(t, ok, "%s is not ambientable", stmt.Kind())
		kw := a.DeclareKeyword()
		assert.Equal(t, a.HasDeclareKeyword(), kw != nil, stmt.Text())

		orErr, err := a.DeclareKeywordOrErr()
		if kw == nil {
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotFound))
			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Contains(t, nf.What, "declare")
			assert.Nil(t, orErr)
		} else {
			require.NoError(t, err)
			assert.Same(t, kw.base(), orErr.base())
			assert.Equal(t, "declare", kw.Text())
		}
	}
}

func TestDeclareKeyword_VariableStatementCarriesIt(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "declare const x: number, y: string;\n")

	vs := sf.VariableStatements()
	require.Len(t, vs, 1)
	assert.True(t, vs[0].HasDeclareKeyword())
	assert.Equal(t, "const", vs[0].DeclarationKind())

	x := sf.VariableDeclaration("y")
	require.NotNil(t, x)
	assert.NotZero(t, x.CombinedModifierFlags()&ModifierAmbient)
	assert.Same(t, vs[0], x.VariableStatement())
}

// =============================================================================
// isAmbient
// =============================================================================

func TestIsAmbient_Fixtures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		src  string
		pick func(sf *SourceFile) AmbientableNode
		want bool
	}{
		{
			name: "plain interface",
			path: "/src/a.ts",
			src:  "interface I { x: number }\n",
			pick: func(sf *SourceFile) AmbientableNode { return sf.Interface("I") },
			want: true,
		},
		{
			name: "plain type alias",
			path: "/src/a.ts",
			src:  "type T = string;\n",
			pick: func(sf *SourceFile) AmbientableNode { return sf.TypeAlias("T") },
			want: true,
		},
		{
			name: "class inside declare module",
			path: "/src/a.ts",
			src:  "declare module \"lib\" {\n  class C {}\n}\n",
			pick: func(sf *SourceFile) AmbientableNode { return sf.Namespace(`"lib"`).Class("C") },
			want: true,
		},
		{
			name: "function in declaration file",
			path: "/src/a.d.ts",
			src:  "function f(): void;\n",
			pick: func(sf *SourceFile) AmbientableNode { return sf.Function("f") },
			want: true,
		},
		{
			name: "function in source file",
			path: "/src/a.ts",
			src:  "function f() {}\n",
			pick: func(sf *SourceFile) AmbientableNode { return sf.Function("f") },
			want: false,
		},
		{
			name: "class in declare namespace",
			path: "/src/a.ts",
			src:  "declare namespace N { namespace M { class C {} } }\n",
			pick: func(sf *SourceFile) AmbientableNode { return sf.Namespace("N").Namespace("M").Class("C") },
			want: true,
		},
		{
			name: "declare keyword",
			path: "/src/a.ts",
			src:  "declare class C {}\n",
			pick: func(sf *SourceFile) AmbientableNode { return sf.Class("C") },
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newTestProject(t)
			sf := addFile(t, p, tt.path, tt.src)
			n := tt.pick(sf)
			require.NotNil(t, n)
			assert.Equal(t, tt.want, n.IsAmbient())
		})
	}
}

func TestIsAmbient_RootIsItsOwnTerminal(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	decl := addFile(t, p, "/src/a.d.ts", "")
	plain := addFile(t, p, "/src/b.ts", "")

	assert.True(t, isAmbient(decl.nodeBase))
	assert.False(t, isAmbient(plain.nodeBase))
}

func TestIsAmbient_ConfiguredSuffix(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	p.Config().DeclarationSuffixes = []string{".decl.ts"}

	sf := addFile(t, p, "/src/a.decl.ts", "function f(): void;\n")
	assert.True(t, sf.IsDeclarationFile())
	assert.True(t, sf.Function("f").IsAmbient())

	dts := addFile(t, p, "/src/b.d.ts", "function g(): void;\n")
	assert.False(t, dts.IsDeclarationFile())
}

// =============================================================================
// ToggleDeclareKeyword
// =============================================================================

func TestToggleDeclareKeyword_PairRestoresText(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	const src = "export class A {}\n"
	sf := addFile(t, p, "/src/a.ts", src)

	a := sf.Class("A")
	require.NoError(t, a.ToggleDeclareKeyword())
	assert.True(t, a.HasDeclareKeyword())
	assert.Equal(t, "export declare class A {}\n", sf.Text())

	require.NoError(t, a.ToggleDeclareKeyword())
	assert.False(t, a.HasDeclareKeyword())
	assert.Equal(t, src, sf.Text())
	assert.False(t, a.IsForgotten())
}

func TestToggleDeclareKeyword_TrueTwiceKeepsOne(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "function f(): void;\n")

	f := sf.Function("f")
	require.NoError(t, f.ToggleDeclareKeyword(true))
	epoch := p.Factory().Epoch()
	require.NoError(t, f.ToggleDeclareKeyword(true))

	assert.Equal(t, epoch, p.Factory().Epoch())
	assert.Equal(t, 1, strings.Count(sf.Text(), "declare"))
	assert.Equal(t, "declare function f(): void;\n", sf.Text())
}

func TestToggleDeclareKeyword_FalseWithoutKeywordIsNoop(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "class A {}\n")

	epoch := p.Factory().Epoch()
	require.NoError(t, sf.Class("A").ToggleDeclareKeyword(false))
	assert.Equal(t, epoch, p.Factory().Epoch())
	assert.Equal(t, "class A {}\n", sf.Text())
}

func TestToggleDeclareKeyword_Variable(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "const x = 1;\n")

	vs := sf.VariableStatements()[0]
	require.NoError(t, vs.ToggleDeclareKeyword(true))
	assert.Equal(t, "declare const x = 1;\n", sf.Text())
	assert.True(t, sf.VariableDeclaration("x").VariableStatement().IsAmbient())
}
