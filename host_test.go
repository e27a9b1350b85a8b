package sapling

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ScriptHost
// =============================================================================

func TestScriptHost_Declarations(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	addFile(t, p, "/src/a.ts", "export class A {}\ndeclare let x: number, y: string;\ninterface I {}\n")

	decls, err := p.Host().Declarations("/src/a.ts")
	require.NoError(t, err)
	require.Len(t, decls, 4)

	assert.Equal(t, DeclarationInfo{Name: "A", Kind: "class_declaration", Line: 1, Exported: true, Modifiers: []string{"export"}}, decls[0])
	assert.Equal(t, "x", decls[1].Name)
	assert.Equal(t, "variable_declarator", decls[1].Kind)
	assert.True(t, decls[1].Declare)
	assert.True(t, decls[1].Ambient)
	assert.Equal(t, "y", decls[2].Name)
	assert.True(t, decls[3].Ambient)
	assert.False(t, decls[3].Declare)

	_, err = p.Host().Declarations("/src/missing.ts")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScriptHost_ToggleDeclare(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	sf := addFile(t, p, "/src/a.ts", "function f() {}\nconst c = 1;\n")
	h := p.Host()

	on, err := h.ToggleDeclare("/src/a.ts", "c", nil)
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, "function f() {}\ndeclare const c = 1;\n", sf.Text())

	off := false
	state, err := h.ToggleDeclare("/src/a.ts", "c", &off)
	require.NoError(t, err)
	assert.False(t, state)

	ambient, err := h.IsAmbient("/src/a.ts", "f")
	require.NoError(t, err)
	assert.False(t, ambient)

	_, err = h.ToggleDeclare("/src/a.ts", "nope", nil)
	require.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// RunSource / RunScript
// =============================================================================

func TestRunSource_TogglesAndSaves(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := filepath.Join(root, "a.ts")
	writeFile(t, path, "class A {}\nclass B {}\n")

	p := newTestProject(t, WithConfig(noGit()))
	_, err := p.AddSourceFilesFromDirectory(context.Background(), root)
	require.NoError(t, err)

	src := `
for _, f := range files() {
  for _, d := range declarations(f) {
    if d["kind"] == "class_declaration" && !d["declare"] {
      toggle_declare(f, d["name"], true)
    }
  }
  save(f)
}
`
	require.NoError(t, p.RunSource(context.Background(), src))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "declare class A {}\ndeclare class B {}\n", string(data))
}

func TestRunSource_LogRoutesToProjectLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := New(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	require.NoError(t, p.RunSource(context.Background(), `log.Warn("from script")`))
	assert.Contains(t, buf.String(), "from script")
	assert.Contains(t, buf.String(), "component=script")
}

func TestRunScript_WithStoreAndFS(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	addFile(t, p, "/src/a.ts", "declare class A {}\n")
	s := newTestStore(t)
	require.NoError(t, p.Index(context.Background(), s))

	fsys := fstest.MapFS{
		"scripts/check.risor": {Data: []byte(`
found := indexed_declarations(name)
assert(len(found) == 1, "expected one declaration")
assert(found[0]["ambient"], "expected ambient")
rows := db_query("SELECT COUNT(*) AS n FROM files")
assert(rows[0]["n"] == 1, "expected one file")
`)},
	}
	err := p.RunScript(context.Background(), "scripts/check.risor",
		WithScriptStore(s),
		WithScriptFS(fsys),
		WithGlobals(map[string]any{"name": "A"}),
	)
	require.NoError(t, err)
}

func TestRunScript_LocalImport(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "helpers.risor"), "func count() { return len(files()) }\n")
	writeFile(t, filepath.Join(dir, "main.risor"), `
import helpers
assert(helpers.count() == 2, "expected two files")
`)

	p := newTestProject(t)
	addFile(t, p, "/src/a.ts", "")
	addFile(t, p, "/src/b.ts", "")
	require.NoError(t, p.RunScript(context.Background(), filepath.Join(dir, "main.risor")))
}

func TestRunScript_ErrorsPropagate(t *testing.T) {
	t.Parallel()
	p := newTestProject(t)
	err := p.RunSource(context.Background(), `toggle_declare("/nope.ts", "x")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toggle_declare")
}
