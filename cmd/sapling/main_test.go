package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/sapling"
	"github.com/jward/sapling/internal/config"
)

func quietProject(t *testing.T) *sapling.Project {
	t.Helper()
	c := config.Default()
	c.UseGit = false
	return sapling.New(sapling.WithConfig(c), sapling.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// =============================================================================
// Repo root / paths
// =============================================================================

func TestFindRepoRoot_DirectGitDir(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	assert.Equal(t, root, findRepoRoot(root))
}

func TestFindRepoRoot_NestedSubdirectory(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	deep := filepath.Join(root, "sub", "deep")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	assert.Equal(t, root, findRepoRoot(deep))
}

func TestFindRepoRoot_NoGitAncestor(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	assert.Equal(t, dir, findRepoRoot(dir))
}

func TestResolveTargetDir_RejectsFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	file := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	got, err := resolveTargetDir([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	_, err = resolveTargetDir([]string{file})
	assert.ErrorContains(t, err, "not a directory")
	_, err = resolveTargetDir([]string{filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "directory not found")
}

// Not parallel: mutates the flag and config globals.
func TestResolveDBPath(t *testing.T) {
	defer func(db string, c *config.Config) { flagDB, cfg = db, c }(flagDB, cfg)

	cfg = config.Default()
	flagDB = ""
	assert.Equal(t, filepath.Join("/repo", ".sapling.db"), resolveDBPath("/repo"))

	flagDB = "out/index.db"
	assert.Equal(t, filepath.Join("/repo", "out", "index.db"), resolveDBPath("/repo"))

	flagDB = "/abs/index.db"
	assert.Equal(t, "/abs/index.db", resolveDBPath("/repo"))
}

// Not parallel: mutates the flag and config globals.
func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	defer func(path, level string, c *config.Config) {
		flagConfig, flagLogLevel, cfg = path, level, c
	}(flagConfig, flagLogLevel, cfg)

	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("db = \"idx.db\"\nlog_level = \"warn\"\n"), 0o644))

	flagConfig = path
	flagLogLevel = ""
	require.NoError(t, loadConfig())
	assert.Equal(t, "idx.db", cfg.DB)
	assert.Equal(t, "warn", cfg.LogLevel)

	flagLogLevel = "debug"
	require.NoError(t, loadConfig())
	assert.Equal(t, "debug", cfg.LogLevel)

	flagLogLevel = "loud"
	assert.Error(t, loadConfig())
}

// =============================================================================
// Flags
// =============================================================================

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		format string
		ok     bool
	}{
		{"json", true},
		{"text", true},
		{"yaml", false},
		{"", false},
	} {
		err := validateFormat(tc.format)
		if tc.ok {
			assert.NoError(t, err, tc.format)
		} else {
			assert.Error(t, err, tc.format)
		}
	}
}

func TestParseSetFlag(t *testing.T) {
	t.Parallel()
	v, err := parseSetFlag("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = parseSetFlag("true")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = parseSetFlag("false")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = parseSetFlag("maybe")
	assert.ErrorContains(t, err, "--set")
}

// =============================================================================
// Commands
// =============================================================================

func TestDeclare_PrintsEditedText(t *testing.T) {
	t.Parallel()
	p := quietProject(t)
	_, err := p.CreateSourceFile("/src/a.ts", "class A {}\nclass B {}\n")
	require.NoError(t, err)

	got, err := declare(p.Host(), "/src/a.ts", "B", nil, false)
	require.NoError(t, err)
	assert.True(t, got.Declare)
	assert.False(t, got.Written)
	assert.Equal(t, "class A {}\ndeclare class B {}\n", got.Text)

	off := false
	got, err = declare(p.Host(), "/src/a.ts", "B", &off, false)
	require.NoError(t, err)
	assert.False(t, got.Declare)

	_, err = declare(p.Host(), "/src/a.ts", "C", nil, false)
	assert.ErrorIs(t, err, sapling.ErrNotFound)
}

func TestDeclare_WriteSaves(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("function f(): void;\n"), 0o644))

	p := quietProject(t)
	_, err := p.AddSourceFileAtPath(context.Background(), path)
	require.NoError(t, err)

	got, err := declare(p.Host(), path, "f", nil, true)
	require.NoError(t, err)
	assert.True(t, got.Written)
	assert.Empty(t, got.Text)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "declare function f(): void;\n", string(data))
}

func TestCollectDeclarations(t *testing.T) {
	t.Parallel()
	p := quietProject(t)
	_, err := p.CreateSourceFile("/src/b.d.ts", "interface I {}\n")
	require.NoError(t, err)
	_, err = p.CreateSourceFile("/src/a.ts", "export class A {}\n")
	require.NoError(t, err)

	decls, err := collectDeclarations(p)
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, CLIDeclaration{File: "/src/a.ts", Name: "A", Kind: "class_declaration", Line: 1, Exported: true, Modifiers: []string{"export"}}, decls[0])
	assert.Equal(t, "/src/b.d.ts", decls[1].File)
	assert.True(t, decls[1].Ambient)
}

func TestIndexedResults_ResolvesFilePaths(t *testing.T) {
	t.Parallel()
	p := quietProject(t)
	_, err := p.CreateSourceFile("/src/lib.d.ts", "declare namespace N {\n  class C {}\n}\n")
	require.NoError(t, err)
	s, err := sapling.OpenStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, p.Index(context.Background(), s))

	summary, err := indexSummary(s, "/src", "index.db")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 2, summary.AmbientCount)
	assert.NotEmpty(t, summary.Epoch)

	ambient, err := s.AmbientDeclarations()
	require.NoError(t, err)
	out, err := indexedResults(s, ambient)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, d := range out {
		assert.Equal(t, "/src/lib.d.ts", d.File)
		assert.True(t, d.Ambient)
	}
}

func TestWatchLoop_ReindexesChangedFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	path := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("class A {}\n"), 0o644))

	p := quietProject(t)
	ctx := context.Background()
	_, err := p.AddSourceFilesFromDirectory(ctx, root)
	require.NoError(t, err)
	s, err := sapling.OpenStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, p.Index(ctx, s))

	require.NoError(t, os.WriteFile(path, []byte("declare class A {}\n"), 0o644))
	added := filepath.Join(root, "b.d.ts")
	require.NoError(t, os.WriteFile(added, []byte("declare const b: number;\n"), 0o644))

	changes := make(chan []string, 1)
	changes <- []string{path, added}
	close(changes)
	require.NoError(t, watchLoop(ctx, p, s, changes))

	ambient, err := s.AmbientDeclarations()
	require.NoError(t, err)
	var names []string
	for _, d := range ambient {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"A", "b"}, names)
}

// =============================================================================
// Output
// =============================================================================

func TestWriteResult_JSONEnvelope(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, "json", CLIResult{
		Command: "inspect",
		Results: []CLIDeclaration{{File: "a.ts", Name: "A", Kind: "class_declaration", Line: 1}},
	}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "inspect", got["command"])
	assert.NotContains(t, got, "error")
	results := got["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "A", results[0].(map[string]any)["name"])
}

func TestWriteResult_Text(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, "text", CLIResult{
		Results: []CLIFile{{ID: 1, Path: "lib.d.ts", LineCount: 3, IsDeclarationFile: true}},
	}))
	assert.Contains(t, buf.String(), "PATH")
	assert.Contains(t, buf.String(), "lib.d.ts")

	buf.Reset()
	require.NoError(t, writeResult(&buf, "text", CLIResult{Results: CLIToggle{File: "a.ts", Name: "A", Declare: true}}))
	assert.Equal(t, "a.ts: A declare=true\n", buf.String())

	assert.Error(t, writeResult(&buf, "text", CLIResult{Results: 42}))
}

func TestResolveScript_PrefersDiskOverBundled(t *testing.T) {
	t.Parallel()
	path, embedded, err := resolveScript("declare_dts.risor")
	require.NoError(t, err)
	assert.True(t, embedded)
	assert.Equal(t, "declare_dts.risor", path)

	local := filepath.Join(t.TempDir(), "declare_dts.risor")
	require.NoError(t, os.WriteFile(local, []byte("x := 1"), 0o644))
	path, embedded, err = resolveScript(local)
	require.NoError(t, err)
	assert.False(t, embedded)
	assert.Equal(t, local, path)

	_, _, err = resolveScript("missing.risor")
	assert.ErrorContains(t, err, "script not found")
}
