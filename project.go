package sapling

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jward/sapling/internal/compiler"
	"github.com/jward/sapling/internal/config"
)

// Project owns a set of source files, the Factory that wraps their nodes,
// and the type checker used by symbol queries. A Project is not safe for
// concurrent use.
type Project struct {
	logger  *slog.Logger
	cfg     *config.Config
	factory *Factory
	checker TypeChecker
	hooks   []func(EditEvent)
	files   map[string]*SourceFile
}

// EditEvent describes one applied text edit. Epoch is the project epoch
// after the edit.
type EditEvent struct {
	File   *SourceFile
	Epoch  uint64
	Start  int
	OldEnd int
	NewEnd int
	Text   string
}

// Option configures a Project.
type Option func(*Project)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(p *Project) { p.logger = l }
}

// WithConfig sets the configuration (default config.Default()).
func WithConfig(c *config.Config) Option {
	return func(p *Project) { p.cfg = c }
}

// WithTypeChecker replaces the project-wide type checker. A nil checker
// keeps the default.
func WithTypeChecker(tc TypeChecker) Option {
	return func(p *Project) {
		if tc != nil {
			p.checker = tc
		}
	}
}

// WithEditHook registers a function called after every applied edit.
func WithEditHook(hook func(EditEvent)) Option {
	return func(p *Project) { p.hooks = append(p.hooks, hook) }
}

// New creates an empty project.
func New(opts ...Option) *Project {
	p := &Project{
		logger:  slog.Default(),
		cfg:     config.Default(),
		checker: SyntacticChecker{},
		files:   make(map[string]*SourceFile),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.factory = newFactory(p.logger)
	p.factory.checker = func() TypeChecker { return p.checker }
	return p
}

func (p *Project) Factory() *Factory { return p.factory }

// TypeChecker returns the project-wide type checker.
func (p *Project) TypeChecker() TypeChecker { return p.checker }

func (p *Project) Config() *config.Config { return p.cfg }

func (p *Project) Logger() *slog.Logger { return p.logger }

func (p *Project) emit(ev EditEvent) {
	for _, h := range p.hooks {
		h(ev)
	}
}

// CreateSourceFile adds an in-memory file. It is not written to disk
// until saved.
func (p *Project) CreateSourceFile(path, text string) (*SourceFile, error) {
	path = filepath.Clean(path)
	if _, ok := p.files[path]; ok {
		return nil, fmt.Errorf("sapling: create %s: file already exists in project", path)
	}
	cf, err := compiler.Parse(context.Background(), path, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("sapling: create: %w", err)
	}
	return p.add(cf, false), nil
}

// AddSourceFileAtPath reads and adds a file from disk. A file that is
// already part of the project is returned as is.
func (p *Project) AddSourceFileAtPath(ctx context.Context, path string) (*SourceFile, error) {
	path = filepath.Clean(path)
	if sf, ok := p.files[path]; ok {
		return sf, nil
	}
	cf, err := parseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("sapling: add: %w", err)
	}
	return p.add(cf, true), nil
}

// AddSourceFilesFromDirectory adds every TypeScript file below root. Inside
// a git repository the file list comes from `git ls-files`, otherwise from
// a walk that skips hidden and configured directories. Files already in
// the project are kept.
func (p *Project) AddSourceFilesFromDirectory(ctx context.Context, root string) ([]*SourceFile, error) {
	paths, err := p.listFiles(root)
	if err != nil {
		return nil, fmt.Errorf("sapling: list %s: %w", root, err)
	}
	paths = slices.DeleteFunc(paths, func(path string) bool {
		_, ok := p.files[filepath.Clean(path)]
		return ok
	})

	var parsed []*compiler.File
	if p.cfg.Parallel {
		parsed, err = parseFilesParallel(ctx, paths)
	} else {
		parsed, err = parseFilesSerial(ctx, paths)
	}

	out := make([]*SourceFile, 0, len(parsed))
	for _, cf := range parsed {
		out = append(out, p.add(cf, true))
	}
	p.logger.Debug("loaded directory", "root", root, "files", len(out))
	if err != nil {
		return out, fmt.Errorf("sapling: load %s: %w", root, err)
	}
	return out, nil
}

func (p *Project) add(cf *compiler.File, saved bool) *SourceFile {
	sf := newSourceFile(p, cf, saved)
	p.files[sf.path] = sf
	p.factory.register(sf)
	p.logger.Debug("parsed", "file", sf.path, "errors", cf.HasErrors())
	return sf
}

// SourceFile returns the file at path, or nil.
func (p *Project) SourceFile(path string) *SourceFile {
	return p.files[filepath.Clean(path)]
}

// SourceFileOrErr is SourceFile returning a *NotFoundError when the file
// is not part of the project.
func (p *Project) SourceFileOrErr(path string) (*SourceFile, error) {
	if sf := p.SourceFile(path); sf != nil {
		return sf, nil
	}
	return nil, &NotFoundError{What: "source file " + path}
}

// SourceFiles returns the files sorted by path.
func (p *Project) SourceFiles() []*SourceFile {
	out := make([]*SourceFile, 0, len(p.files))
	for _, sf := range p.files {
		out = append(out, sf)
	}
	slices.SortFunc(out, func(a, b *SourceFile) int { return strings.Compare(a.path, b.path) })
	return out
}

// RemoveSourceFile drops the file from the project and forgets all of its
// wrappers. It reports whether the file was part of the project.
func (p *Project) RemoveSourceFile(sf *SourceFile) bool {
	if sf == nil || p.files[sf.path] != sf {
		return false
	}
	delete(p.files, sf.path)
	p.factory.unregister(sf)
	sf.removed = true
	p.logger.Debug("removed", "file", sf.path)
	return true
}

// Save writes every unsaved file to disk.
func (p *Project) Save() error {
	var errs []error
	for _, sf := range p.SourceFiles() {
		if sf.IsSaved() {
			continue
		}
		if err := sf.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ApplyChanges brings the given paths in line with the file system: known
// files are refreshed, new source files are added and deleted files are
// removed. It returns the paths whose content changed.
func (p *Project) ApplyChanges(ctx context.Context, paths []string) ([]string, error) {
	var (
		changed []string
		errs    []error
	)
	for _, path := range paths {
		path = filepath.Clean(path)
		if sf := p.files[path]; sf != nil {
			ok, err := sf.RefreshFromFileSystem(ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if ok {
				changed = append(changed, path)
			}
			continue
		}
		if !compiler.IsSourceFile(path) {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if _, err := p.AddSourceFileAtPath(ctx, path); err != nil {
			errs = append(errs, err)
			continue
		}
		changed = append(changed, path)
	}
	return changed, errors.Join(errs...)
}

// listFiles returns the source files below root, sorted.
func (p *Project) listFiles(root string) ([]string, error) {
	if p.cfg.UseGit {
		if paths, err := p.gitListFiles(root); err == nil {
			return paths, nil
		}
	}
	return p.walkListFiles(root)
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) source files under root.
func (p *Project) gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !compiler.IsSourceFile(line) || p.skipped(filepath.Dir(line)) {
			continue
		}
		paths = append(paths, filepath.Join(root, line))
	}
	slices.Sort(paths)
	return paths, nil
}

// skipped reports whether any directory of a relative path is skipped.
func (p *Project) skipped(dir string) bool {
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part != "." && (strings.HasPrefix(part, ".") || p.cfg.SkipDir(part)) {
			return true
		}
	}
	return false
}

// walkListFiles discovers files by walking the filesystem, used when git is
// not available. Skips hidden directories and the configured skip dirs.
func (p *Project) walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || p.cfg.SkipDir(name)) {
				return filepath.SkipDir
			}
			return nil
		}
		if compiler.IsSourceFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
