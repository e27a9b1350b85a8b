package sapling

import (
	"log/slog"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/sapling/internal/compiler"
)

// Factory hands out wrappers for tree-sitter nodes and binder symbols. It
// returns the same wrapper for the same node as long as the node's file is
// not edited, and the same symbol wrapper until the project epoch moves.
type Factory struct {
	logger  *slog.Logger
	epoch   uint64
	checker func() TypeChecker

	files  []*SourceFile
	byRoot map[*sitter.Node]*SourceFile
	byFile map[*compiler.File]*SourceFile
	nodes  map[*SourceFile]map[compiler.NodeKey]Node

	symbols      map[*compiler.Symbol]*Symbol
	symbolsEpoch uint64

	prog      *compiler.Program
	progEpoch uint64
}

func newFactory(logger *slog.Logger) *Factory {
	return &Factory{
		logger:  logger,
		byRoot:  make(map[*sitter.Node]*SourceFile),
		byFile:  make(map[*compiler.File]*SourceFile),
		nodes:   make(map[*SourceFile]map[compiler.NodeKey]Node),
		symbols: make(map[*compiler.Symbol]*Symbol),
	}
}

// Epoch returns the project-wide edit counter. It advances on every edit and
// whenever a file is added, removed or refreshed.
func (f *Factory) Epoch() uint64 { return f.epoch }

// NodeFor returns the wrapper for raw, or nil when raw is nil or belongs to
// no current file of the project.
func (f *Factory) NodeFor(raw *sitter.Node) Node {
	if raw == nil {
		return nil
	}
	sf := f.fileOf(raw)
	if sf == nil {
		return nil
	}
	return f.nodeIn(sf, raw)
}

func (f *Factory) fileOf(raw *sitter.Node) *SourceFile {
	root := compiler.RootOf(raw)
	if sf, ok := f.byRoot[root]; ok {
		return sf
	}
	for _, sf := range f.files {
		if sf.cf.Owns(raw) {
			return sf
		}
	}
	return nil
}

func (f *Factory) nodeIn(sf *SourceFile, raw *sitter.Node) Node {
	if raw.Type() == compiler.KindProgram {
		return sf
	}
	cache := f.nodes[sf]
	if cache == nil {
		cache = make(map[compiler.NodeKey]Node)
		f.nodes[sf] = cache
	}
	key := compiler.KeyOf(raw)
	if n, ok := cache[key]; ok {
		return n
	}
	n := newWrapper(f, sf, raw)
	cache[key] = n
	return n
}

// SymbolFor returns the wrapper for a binder symbol, or nil for nil.
func (f *Factory) SymbolFor(raw *compiler.Symbol) *Symbol {
	if raw == nil {
		return nil
	}
	if f.symbolsEpoch != f.epoch {
		clear(f.symbols)
		f.symbolsEpoch = f.epoch
	}
	if s, ok := f.symbols[raw]; ok {
		return s
	}
	s := &Symbol{raw: raw, factory: f}
	f.symbols[raw] = s
	return s
}

// program binds the current files, reusing the last binding until the
// epoch changes.
func (f *Factory) program() *compiler.Program {
	if f.prog != nil && f.progEpoch == f.epoch {
		return f.prog
	}
	files := make([]*compiler.File, 0, len(f.files))
	for _, sf := range f.files {
		files = append(files, sf.cf)
	}
	slices.SortFunc(files, func(a, b *compiler.File) int { return strings.Compare(a.Path, b.Path) })
	f.prog = compiler.Bind(files)
	f.progEpoch = f.epoch
	f.logger.Debug("rebind", "files", len(files), "epoch", f.epoch)
	return f.prog
}

// sourceFileOf maps a binder file snapshot back to its source file. Stale
// snapshots map to nil.
func (f *Factory) sourceFileOf(cf *compiler.File) *SourceFile {
	return f.byFile[cf]
}

func (f *Factory) register(sf *SourceFile) {
	f.files = append(f.files, sf)
	f.byRoot[sf.cf.Root()] = sf
	f.byFile[sf.cf] = sf
	f.epoch++
}

func (f *Factory) unregister(sf *SourceFile) {
	f.files = slices.DeleteFunc(f.files, func(o *SourceFile) bool { return o == sf })
	delete(f.byRoot, sf.cf.Root())
	delete(f.byFile, sf.cf)
	delete(f.nodes, sf)
	f.epoch++
}

// replaceOracle installs the next snapshot of sf. Every wrapper of the file
// is forgotten; the source file wrapper itself moves to the new root.
func (f *Factory) replaceOracle(sf *SourceFile, next *compiler.File) {
	delete(f.byRoot, sf.cf.Root())
	delete(f.byFile, sf.cf)
	delete(f.nodes, sf)
	sf.cf = next
	sf.epoch++
	sf.nodeBase.raw = next.Root()
	sf.nodeBase.epoch = sf.epoch
	f.byRoot[next.Root()] = sf
	f.byFile[next] = sf
	f.epoch++
}

// adopt moves an existing wrapper onto raw in the current snapshot of its
// file and registers it there.
func (f *Factory) adopt(n *nodeBase, raw *sitter.Node) {
	n.raw = raw
	n.epoch = n.file.epoch
	cache := f.nodes[n.file]
	if cache == nil {
		cache = make(map[compiler.NodeKey]Node)
		f.nodes[n.file] = cache
	}
	cache[compiler.KeyOf(raw)] = n.self
}
