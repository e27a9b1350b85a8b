package compiler

import (
	"bytes"
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// File is one parsed snapshot of a source file. A File never changes; Edit
// produces the next snapshot by incrementally reparsing the old tree.
type File struct {
	Path    string
	Dialect string

	src  []byte
	tree *sitter.Tree
	lang *sitter.Language
	root *sitter.Node
}

// Parse parses src as the file at path. The dialect is chosen from the
// path's extension; unknown extensions parse as plain TypeScript.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	dialect, ok := DialectForFile(path)
	if !ok {
		dialect = "typescript"
	}
	lang, _ := GrammarForDialect(dialect)
	tree, err := parse(ctx, lang, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return newFile(path, dialect, lang, tree, src), nil
}

func parse(ctx context.Context, lang *sitter.Language, old *sitter.Tree, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)
	return parser.ParseCtx(ctx, old, src)
}

func newFile(path, dialect string, lang *sitter.Language, tree *sitter.Tree, src []byte) *File {
	return &File{
		Path:    path,
		Dialect: dialect,
		src:     src,
		tree:    tree,
		lang:    lang,
		root:    tree.RootNode(),
	}
}

// Root returns the program node of the file.
func (f *File) Root() *sitter.Node { return f.root }

// Source returns the file's text. The returned slice must not be modified.
func (f *File) Source() []byte { return f.src }

// Text returns the source text covered by n.
func (f *File) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(f.src)
}

// HasErrors reports whether the parse produced error or missing nodes.
func (f *File) HasErrors() bool { return f.root.HasError() }

// Owns reports whether n belongs to this snapshot's tree.
func (f *File) Owns(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	r := RootOf(n)
	return r == f.root || r.Equal(f.root)
}

// Edit replaces src[start:oldEnd] with text and returns the reparsed
// snapshot. The receiver's tree is marked as edited and should not be
// queried afterwards.
func (f *File) Edit(ctx context.Context, start, oldEnd uint32, text string) (*File, error) {
	if start > oldEnd || int(oldEnd) > len(f.src) {
		return nil, fmt.Errorf("edit %s: range [%d,%d) out of bounds (len %d)", f.Path, start, oldEnd, len(f.src))
	}
	var buf bytes.Buffer
	buf.Grow(len(f.src) - int(oldEnd-start) + len(text))
	buf.Write(f.src[:start])
	buf.WriteString(text)
	buf.Write(f.src[oldEnd:])
	next := buf.Bytes()

	newEnd := start + uint32(len(text))
	f.tree.Edit(sitter.EditInput{
		StartIndex:  start,
		OldEndIndex: oldEnd,
		NewEndIndex: newEnd,
		StartPoint:  pointAt(f.src, start),
		OldEndPoint: pointAt(f.src, oldEnd),
		NewEndPoint: pointAt(next, newEnd),
	})
	tree, err := parse(ctx, f.lang, f.tree, next)
	if err != nil {
		return nil, fmt.Errorf("reparse %s: %w", f.Path, err)
	}
	return newFile(f.Path, f.Dialect, f.lang, tree, next), nil
}

// Replace reparses the file from scratch with new content.
func (f *File) Replace(ctx context.Context, src []byte) (*File, error) {
	tree, err := parse(ctx, f.lang, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	return newFile(f.Path, f.Dialect, f.lang, tree, src), nil
}

// pointAt converts a byte offset into a row/column point.
func pointAt(src []byte, offset uint32) sitter.Point {
	if int(offset) > len(src) {
		offset = uint32(len(src))
	}
	var row, col uint32
	for _, b := range src[:offset] {
		if b == '\n' {
			row++
			col = 0
			continue
		}
		col++
	}
	return sitter.Point{Row: row, Column: col}
}

// Relocate finds the node that a declaration of the given kind spanning
// [oldStart, oldEnd) became after an edit of size delta at editStart. The
// candidate must belong to the same kind family and end at the shifted end
// offset; among candidates the one starting closest to the old start wins.
func (f *File) Relocate(kind string, oldStart, oldEnd, editStart uint32, delta int) *sitter.Node {
	targetEnd := int(oldEnd)
	if editStart < oldEnd {
		targetEnd += delta
	}
	if targetEnd < 0 {
		return nil
	}
	family := Family(kind)
	var (
		best     *sitter.Node
		bestDist = -1
	)
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if int(n.EndByte()) < targetEnd || int(n.StartByte()) > targetEnd {
			return
		}
		if int(n.EndByte()) == targetEnd && Family(n.Type()) == family {
			d := distance(int(n.StartByte()), int(oldStart), int(oldStart)+delta)
			if bestDist < 0 || d < bestDist {
				best, bestDist = n, d
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(f.root)
	return best
}

func distance(v, a, b int) int {
	da, db := abs(v-a), abs(v-b)
	if da < db {
		return da
	}
	return db
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
