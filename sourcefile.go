package sapling

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"slices"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/sapling/internal/compiler"
)

// SourceFile wraps the program node of one file. Unlike other wrappers it
// survives edits to its own text; it is forgotten only when removed from
// the project.
type SourceFile struct {
	*nodeBase
	Statemented

	project *Project
	path    string
	cf      *compiler.File
	epoch   uint64
	removed bool
	saved   bool
}

func newSourceFile(p *Project, cf *compiler.File, saved bool) *SourceFile {
	sf := &SourceFile{project: p, path: cf.Path, cf: cf, saved: saved}
	nb := &nodeBase{factory: p.factory, file: sf, raw: cf.Root()}
	nb.layers, _ = layersOf(capStatemented)
	nb.self = sf
	sf.nodeBase = nb
	sf.Statemented = Statemented{nb}
	return sf
}

// FilePath returns the path the file was created or loaded with.
func (sf *SourceFile) FilePath() string { return sf.path }

// Text returns the full current text of the file.
func (sf *SourceFile) Text() string {
	sf.compilerNode()
	return string(sf.cf.Source())
}

// IsDeclarationFile reports whether the path ends in one of the configured
// declaration suffixes (.d.ts and friends by default).
func (sf *SourceFile) IsDeclarationFile() bool {
	return compiler.IsDeclarationFile(sf.path, sf.project.cfg.DeclarationSuffixes)
}

// HasParseErrors reports whether the current text contains syntax errors.
func (sf *SourceFile) HasParseErrors() bool { return sf.cf.HasErrors() }

// IsSaved reports whether the text matches what was last read from or
// written to disk.
func (sf *SourceFile) IsSaved() bool { return sf.saved }

// Descendants yields every named node below the file in document order.
// Iteration stops if the file is edited while iterating.
func (sf *SourceFile) Descendants() iter.Seq[Node] {
	root := sf.compilerNode()
	epoch := sf.epoch
	return func(yield func(Node) bool) {
		stack := compiler.NamedChildren(root)
		slices.Reverse(stack)
		for len(stack) > 0 {
			if sf.epoch != epoch || sf.removed {
				return
			}
			raw := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			kids := compiler.NamedChildren(raw)
			slices.Reverse(kids)
			stack = append(stack, kids...)
			if !yield(sf.factory.nodeIn(sf, raw)) {
				return
			}
		}
	}
}

// ReplaceText replaces the byte range [start, end) with text. Every wrapper
// of the file except the file itself is forgotten.
func (sf *SourceFile) ReplaceText(start, end int, text string) error {
	if start < 0 || end < start {
		return fmt.Errorf("sapling: replace text: invalid range [%d,%d)", start, end)
	}
	sf.compilerNode()
	return sf.applyEdit(sf.nodeBase, uint32(start), uint32(end), text)
}

// Save writes the current text to disk.
func (sf *SourceFile) Save() error {
	sf.compilerNode()
	if err := os.WriteFile(sf.path, sf.cf.Source(), 0o644); err != nil {
		return fmt.Errorf("sapling: save %s: %w", sf.path, err)
	}
	sf.saved = true
	sf.project.logger.Debug("saved", "file", sf.path)
	return nil
}

// RefreshFromFileSystem rereads the file from disk. It reports whether the
// text changed. A file that no longer exists is removed from the project.
func (sf *SourceFile) RefreshFromFileSystem(ctx context.Context) (bool, error) {
	sf.compilerNode()
	src, err := os.ReadFile(sf.path)
	if errors.Is(err, fs.ErrNotExist) {
		sf.project.RemoveSourceFile(sf)
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("sapling: refresh %s: %w", sf.path, err)
	}
	if bytes.Equal(src, sf.cf.Source()) {
		sf.saved = true
		return false, nil
	}
	next, err := sf.cf.Replace(ctx, src)
	if err != nil {
		return false, fmt.Errorf("sapling: refresh %s: %w", sf.path, err)
	}
	sf.factory.replaceOracle(sf, next)
	sf.saved = true
	sf.project.logger.Debug("refreshed", "file", sf.path, "epoch", sf.epoch)
	return true, nil
}

// applyEdit replaces [start, oldEnd) with text, reparses, and carries the
// anchor wrapper over to the new tree.
func (sf *SourceFile) applyEdit(anchor *nodeBase, start, oldEnd uint32, text string) error {
	var (
		kind             string
		aStart, aEnd     uint32
		relocate         = anchor != nil && anchor != sf.nodeBase
		delta            = len(text) - int(oldEnd-start)
		ctx              = context.Background()
		factory, project = sf.factory, sf.project
	)
	if relocate {
		kind, aStart, aEnd = anchor.raw.Type(), anchor.raw.StartByte(), anchor.raw.EndByte()
	}
	next, err := sf.cf.Edit(ctx, start, oldEnd, text)
	if err != nil {
		return fmt.Errorf("sapling: edit: %w", err)
	}
	factory.replaceOracle(sf, next)
	sf.saved = false
	if relocate {
		raw := next.Relocate(kind, aStart, aEnd, start, delta)
		if raw == nil {
			return fmt.Errorf("sapling: edit %s: %s at %d did not survive the edit", sf.path, kind, aStart)
		}
		factory.adopt(anchor, raw)
	}
	ev := EditEvent{
		File:   sf,
		Epoch:  factory.epoch,
		Start:  int(start),
		OldEnd: int(oldEnd),
		NewEnd: int(start) + len(text),
		Text:   text,
	}
	project.logger.Debug("edit", "file", sf.path, "epoch", ev.Epoch, "start", ev.Start, "old_end", ev.OldEnd, "new_end", ev.NewEnd)
	project.emit(ev)
	return nil
}

// StatementedNode is implemented by nodes that hold a statement list.
type StatementedNode interface {
	Node
	Statements() []Node
	Classes() []*ClassDeclaration
	Class(name string) *ClassDeclaration
	Interfaces() []*InterfaceDeclaration
	Interface(name string) *InterfaceDeclaration
	TypeAliases() []*TypeAliasDeclaration
	TypeAlias(name string) *TypeAliasDeclaration
	Enums() []*EnumDeclaration
	Enum(name string) *EnumDeclaration
	Functions() []*FunctionDeclaration
	Function(name string) *FunctionDeclaration
	Namespaces() []*NamespaceDeclaration
	Namespace(name string) *NamespaceDeclaration
	VariableStatements() []*VariableStatement
	VariableDeclaration(name string) *VariableDeclaration
}

// Statemented gives files and namespaces typed access to their statements.
// Export and declare wrappers are looked through, so `export declare class
// A {}` is listed as a class.
type Statemented struct {
	n *nodeBase
}

func (s Statemented) block() *sitter.Node {
	raw := s.n.compilerNode()
	if raw.Type() == compiler.KindProgram {
		return raw
	}
	return raw.ChildByFieldName("body")
}

// Statements returns the statements of the body with declaration wrappers
// unwrapped. Comments are skipped.
func (s Statemented) Statements() []Node {
	var out []Node
	for _, stmt := range compiler.NamedChildren(s.block()) {
		if stmt.Type() == "comment" {
			continue
		}
		d := compiler.Unwrap(stmt)
		if d == nil {
			d = stmt
		}
		out = append(out, s.n.wrap(d))
	}
	return out
}

func statementsOf[T Node](s Statemented) []T {
	var out []T
	for _, n := range s.Statements() {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

func byName[T interface{ Name() string }](items []T, name string) T {
	for _, it := range items {
		if it.Name() == name {
			return it
		}
	}
	var zero T
	return zero
}

func (s Statemented) Classes() []*ClassDeclaration { return statementsOf[*ClassDeclaration](s) }
func (s Statemented) Class(name string) *ClassDeclaration {
	return byName(s.Classes(), name)
}

func (s Statemented) Interfaces() []*InterfaceDeclaration {
	return statementsOf[*InterfaceDeclaration](s)
}
func (s Statemented) Interface(name string) *InterfaceDeclaration {
	return byName(s.Interfaces(), name)
}

func (s Statemented) TypeAliases() []*TypeAliasDeclaration {
	return statementsOf[*TypeAliasDeclaration](s)
}
func (s Statemented) TypeAlias(name string) *TypeAliasDeclaration {
	return byName(s.TypeAliases(), name)
}

func (s Statemented) Enums() []*EnumDeclaration { return statementsOf[*EnumDeclaration](s) }
func (s Statemented) Enum(name string) *EnumDeclaration {
	return byName(s.Enums(), name)
}

// Functions includes overload signatures; Function returns the first
// declaration with the name.
func (s Statemented) Functions() []*FunctionDeclaration {
	return statementsOf[*FunctionDeclaration](s)
}
func (s Statemented) Function(name string) *FunctionDeclaration {
	return byName(s.Functions(), name)
}

func (s Statemented) Namespaces() []*NamespaceDeclaration {
	return statementsOf[*NamespaceDeclaration](s)
}

// Namespace matches the written name, so ambient modules are found by
// their quoted name: Namespace(`"lib"`).
func (s Statemented) Namespace(name string) *NamespaceDeclaration {
	return byName(s.Namespaces(), name)
}

func (s Statemented) VariableStatements() []*VariableStatement {
	return statementsOf[*VariableStatement](s)
}

// VariableDeclaration finds a declarator by name across all variable
// statements of the body.
func (s Statemented) VariableDeclaration(name string) *VariableDeclaration {
	for _, vs := range s.VariableStatements() {
		if d := byName(vs.Declarations(), name); d != nil {
			return d
		}
	}
	return nil
}
