package sapling

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// =============================================================================
// Index
// =============================================================================

func TestIndex_WritesDeclarations(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	addFile(t, p, "/src/a.ts", "export class A {\n  private x = 1;\n  m() {}\n}\ndeclare const v: number, w: string;\n")
	addFile(t, p, "/src/lib.d.ts", "declare namespace N {\n  interface I {}\n}\n")
	s := newTestStore(t)

	require.NoError(t, p.Index(context.Background(), s))

	files, err := s.Files()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/src/a.ts", files[0].Path)
	assert.Equal(t, 6, files[0].LineCount)
	assert.True(t, files[1].IsDeclarationFile)

	decls, err := s.DeclarationsByName("A")
	require.NoError(t, err)
	require.Len(t, decls, 1)
	a := decls[0]
	assert.Equal(t, "class_declaration", a.Kind)
	assert.True(t, a.IsExported)
	assert.False(t, a.IsAmbient)
	assert.Equal(t, []string{"export"}, a.Modifiers)
	assert.Equal(t, `"/src/a".A`, a.FQN)
	assert.Equal(t, "A", a.DeclaredType)
	assert.NotEmpty(t, a.SignatureHash)
	assert.Equal(t, 0, a.StartLine)
	assert.Nil(t, a.ParentDeclarationID)

	children, err := s.DeclarationChildren(a.ID)
	require.NoError(t, err)
	var names []string
	for _, c := range children {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"x", "m"}, names)

	x, err := s.DeclarationsByName("x")
	require.NoError(t, err)
	require.Len(t, x, 1)
	assert.Equal(t, []string{"private"}, x[0].Modifiers)
	assert.Equal(t, "number", x[0].DeclaredType)

	ambient, err := s.AmbientDeclarations()
	require.NoError(t, err)
	var ambientNames []string
	for _, d := range ambient {
		ambientNames = append(ambientNames, d.Name)
	}
	assert.ElementsMatch(t, []string{"v", "w", "N", "I"}, ambientNames)

	i, err := s.DeclarationsByName("I")
	require.NoError(t, err)
	require.Len(t, i, 1)
	require.NotNil(t, i[0].ParentDeclarationID)
	assert.True(t, i[0].IsExported, "declarations in an ambient namespace are exported")

	epoch, err := s.GetMetadata("epoch")
	require.NoError(t, err)
	assert.NotEmpty(t, epoch)
}

func TestIndex_SkipsUnchangedAndPrunes(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	ctx := context.Background()
	a := addFile(t, p, "/src/a.ts", "class A {}\n")
	b := addFile(t, p, "/src/b.ts", "class B {}\n")
	s := newTestStore(t)

	require.NoError(t, p.Index(ctx, s))
	before, err := s.FileByPath("/src/a.ts")
	require.NoError(t, err)
	require.NotNil(t, before)

	require.NoError(t, p.Index(ctx, s))
	same, err := s.FileByPath("/src/a.ts")
	require.NoError(t, err)
	assert.Equal(t, before.ID, same.ID, "unchanged file keeps its row")

	require.NoError(t, a.Class("A").ToggleDeclareKeyword(true))
	require.True(t, p.RemoveSourceFile(b))
	require.NoError(t, p.Index(ctx, s))

	after, err := s.FileByPath("/src/a.ts")
	require.NoError(t, err)
	assert.NotEqual(t, before.ID, after.ID)
	assert.NotEqual(t, before.Hash, after.Hash)

	gone, err := s.FileByPath("/src/b.ts")
	require.NoError(t, err)
	assert.Nil(t, gone)

	decls, err := s.DeclarationsByName("A")
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.True(t, decls[0].IsAmbient)
	assert.Equal(t, []string{"declare"}, decls[0].Modifiers)
}

func TestIndex_SignatureHashIgnoresLocation(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	ctx := context.Background()
	sf := addFile(t, p, "/src/a.ts", "enum E { A, B }\n")
	s := newTestStore(t)
	require.NoError(t, p.Index(ctx, s))
	first, err := s.DeclarationsByName("E")
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, sf.ReplaceText(0, 0, "\n\n"))
	require.NoError(t, p.Index(ctx, s))
	moved, err := s.DeclarationsByName("E")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, 2, moved[0].StartLine)
	assert.Equal(t, first[0].SignatureHash, moved[0].SignatureHash)

	require.NoError(t, sf.ReplaceText(0, 0, "// c\n"))
	require.NoError(t, sf.Enum("E").Rename("F"))
	require.NoError(t, p.Index(ctx, s))
	renamed, err := s.DeclarationsByName("F")
	require.NoError(t, err)
	require.Len(t, renamed, 1)
	assert.NotEqual(t, first[0].SignatureHash, renamed[0].SignatureHash)
}

func TestIndex_FailedCommitLeavesFileUnindexed(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	ctx := context.Background()
	addFile(t, p, "/src/a.ts", "class A {}\nclass Boom {}\n")
	s := newTestStore(t)

	_, err := s.DB().Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON declarations
WHEN NEW.name = 'Boom' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)
	require.ErrorContains(t, p.Index(ctx, s), "rejected")

	row, err := s.FileByPath("/src/a.ts")
	require.NoError(t, err)
	assert.Nil(t, row, "a failed file must not keep its hash")

	_, err = s.DB().Exec("DROP TRIGGER reject_boom")
	require.NoError(t, err)
	require.NoError(t, p.Index(ctx, s))

	decls, err := s.DeclarationsByName("Boom")
	require.NoError(t, err)
	assert.Len(t, decls, 1)
}

func TestIndex_CancelledContext(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	addFile(t, p, "/src/a.ts", "class A {}\n")
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Index(ctx, s), context.Canceled)
}
