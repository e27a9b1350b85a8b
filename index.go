package sapling

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jward/sapling/internal/store"
)

// OpenStore opens (or creates) a declaration index at path and applies the
// schema.
func OpenStore(path string) (*Store, error) {
	s, err := store.NewStore(path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Index writes the declarations of every project file into s. Files whose
// content hash matches the stored row are skipped, and rows for files no
// longer in the project are pruned.
func (p *Project) Index(ctx context.Context, s *Store) error {
	files := p.SourceFiles()
	keep := make([]string, 0, len(files))
	var indexed, skipped int
	for _, sf := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		keep = append(keep, sf.FilePath())
		changed, err := p.indexFile(s, sf)
		if err != nil {
			return fmt.Errorf("sapling: index %s: %w", sf.FilePath(), err)
		}
		if changed {
			indexed++
		} else {
			skipped++
		}
	}
	pruned, err := s.PruneFiles(keep)
	if err != nil {
		return fmt.Errorf("sapling: index: %w", err)
	}
	if err := s.SetMetadata("epoch", strconv.FormatUint(p.factory.Epoch(), 10)); err != nil {
		return fmt.Errorf("sapling: index: %w", err)
	}
	if err := s.SetMetadata("indexed_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("sapling: index: %w", err)
	}
	p.logger.Debug("index", "indexed", indexed, "skipped", skipped, "pruned", pruned)
	return nil
}

func (p *Project) indexFile(s *Store, sf *SourceFile) (bool, error) {
	text := sf.Text()
	hash := store.ContentHash([]byte(text))
	existing, err := s.FileByPath(sf.FilePath())
	if err != nil {
		return false, err
	}
	if existing != nil {
		if existing.Hash == hash {
			return false, nil
		}
		if err := s.DeleteFileData(existing.ID); err != nil {
			return false, err
		}
	}

	lines := 0
	if text != "" {
		lines = strings.Count(text, "\n") + 1
	}
	fileID, err := s.InsertFile(&store.File{
		Path:              sf.FilePath(),
		Hash:              hash,
		IsDeclarationFile: sf.IsDeclarationFile(),
		LineCount:         lines,
		LastIndexed:       time.Now().UTC(),
	})
	if err != nil {
		return false, err
	}

	batch := store.NewBatchedStore(s)
	err = indexStatements(batch, fileID, sf, nil)
	if err == nil {
		err = s.CommitBatch(batch)
	}
	if err != nil {
		// Drop the row so the new hash does not mark the file indexed.
		if derr := s.DeleteFileData(fileID); derr != nil {
			p.logger.Warn("index rollback", "file", sf.FilePath(), "error", derr)
		}
		return false, err
	}
	p.logger.Debug("indexed", "file", sf.FilePath(), "declarations", len(batch.Declarations))
	return true, nil
}

// indexStatements buffers one row per named declaration, recursing into
// namespace bodies and class members. Parents are buffered before their
// children.
func indexStatements(batch *store.BatchedStore, fileID int64, s StatementedNode, parent *int64) error {
	for _, e := range outline(s) {
		var children []outlineEntry
		switch n := e.node.(type) {
		case *NamespaceDeclaration:
			children = outline(n)
		case *ClassDeclaration:
			for _, prop := range n.Properties() {
				children = append(children, outlineEntry{name: prop.Name(), node: prop, carrier: prop})
			}
			for _, m := range n.Methods() {
				children = append(children, outlineEntry{name: m.Name(), node: m, carrier: m})
			}
		}

		id, err := batch.InsertDeclaration(declarationRow(fileID, e, children, parent))
		if err != nil {
			return err
		}

		if ns, ok := e.node.(*NamespaceDeclaration); ok {
			if err := indexStatements(batch, fileID, ns, &id); err != nil {
				return err
			}
			continue
		}
		for _, c := range children {
			if _, err := batch.InsertDeclaration(declarationRow(fileID, c, nil, &id)); err != nil {
				return err
			}
		}
	}
	return nil
}

func declarationRow(fileID int64, e outlineEntry, children []outlineEntry, parent *int64) *store.Declaration {
	raw := e.node.CompilerNode()
	start, end := raw.StartPoint(), raw.EndPoint()
	d := &store.Declaration{
		FileID:              &fileID,
		Name:                e.name,
		Kind:                string(e.node.Kind()),
		Modifiers:           modifierNames(e.carrier),
		Flags:               int64(e.carrier.base().combinedFlags()),
		IsAmbient:           isAmbient(e.carrier.base()),
		StartLine:           int(start.Row),
		StartCol:            int(start.Column),
		EndLine:             int(end.Row),
		EndCol:              int(end.Column),
		ParentDeclarationID: parent,
	}
	if x, ok := e.carrier.(ExportableNode); ok {
		d.IsExported = x.IsExported()
	}
	if sym := e.node.Symbol(); sym != nil {
		d.FQN = sym.FullyQualifiedName()
		d.DeclaredType = declaredTypeText(sym, e.node)
	}
	if en, ok := e.node.(*EnumDeclaration); ok {
		for _, m := range en.MemberNames() {
			children = append(children, outlineEntry{name: m})
		}
	}
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.name)
	}
	d.SignatureHash = store.ComputeSignatureHash(d.Name, d.Kind, d.Modifiers, d.DeclaredType, names)
	return d
}

func declaredTypeText(sym *Symbol, n Node) string {
	if sym.hasAnyFlag(SymbolClass | SymbolInterface | SymbolConstEnum | SymbolRegularEnum | SymbolTypeAlias) {
		return sym.DeclaredType().Text()
	}
	return sym.TypeAtLocation(n).Text()
}
