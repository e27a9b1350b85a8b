package sapling

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/jward/sapling/internal/runtime"
)

// ScriptOption configures a script run.
type ScriptOption func(*scriptConfig)

type scriptConfig struct {
	store  *Store
	fsys   fs.FS
	extras map[string]any
}

// WithScriptStore exposes s to the script through db_query and
// indexed_declarations.
func WithScriptStore(s *Store) ScriptOption {
	return func(c *scriptConfig) { c.store = s }
}

// WithScriptFS loads the script and its imports from fsys.
func WithScriptFS(fsys fs.FS) ScriptOption {
	return func(c *scriptConfig) { c.fsys = fsys }
}

// WithGlobals adds extra globals to the script environment.
func WithGlobals(globals map[string]any) ScriptOption {
	return func(c *scriptConfig) { c.extras = globals }
}

// RunScript runs the Risor script at path against the project. Imports
// resolve relative to the script's directory.
func (p *Project) RunScript(ctx context.Context, path string, opts ...ScriptOption) error {
	c, rt := p.newRuntime(filepath.Dir(path), opts)
	name := path
	if c.fsys == nil {
		name = filepath.Base(path)
	}
	return rt.RunScript(ctx, name, c.extras)
}

// RunSource runs inline Risor source against the project.
func (p *Project) RunSource(ctx context.Context, source string, opts ...ScriptOption) error {
	c, rt := p.newRuntime("", opts)
	return rt.RunSource(ctx, source, c.extras)
}

func (p *Project) newRuntime(dir string, opts []ScriptOption) (*scriptConfig, *runtime.Runtime) {
	c := &scriptConfig{}
	for _, opt := range opts {
		opt(c)
	}
	ropts := []runtime.RuntimeOption{runtime.WithLogger(p.logger)}
	if c.store != nil {
		ropts = append(ropts, runtime.WithStore(c.store))
	}
	if c.fsys != nil {
		ropts = append(ropts, runtime.WithRuntimeFS(c.fsys))
		dir = ""
	}
	return c, runtime.NewRuntime(p.Host(), dir, ropts...)
}
