package sapling

import (
	"fmt"

	"github.com/jward/sapling/internal/runtime"
)

// outlineEntry is one named declaration of a statement list. For variables
// node is the declarator and carrier the statement that holds the
// modifiers; otherwise both are the declaration.
type outlineEntry struct {
	name    string
	node    Node
	carrier Node
}

// outline lists the named declarations of a statement list in source
// order, one entry per variable declarator.
func outline(s StatementedNode) []outlineEntry {
	var out []outlineEntry
	for _, stmt := range s.Statements() {
		switch n := stmt.(type) {
		case *VariableStatement:
			for _, d := range n.Declarations() {
				out = append(out, outlineEntry{name: d.Name(), node: d, carrier: n})
			}
		case NamedNode:
			out = append(out, outlineEntry{name: n.Name(), node: n, carrier: n})
		}
	}
	return out
}

func modifierNames(n Node) []string {
	m, ok := n.(ModifierableNode)
	if !ok {
		return nil
	}
	var out []string
	for _, tok := range m.Modifiers() {
		out = append(out, tok.Text())
	}
	return out
}

// ScriptHost exposes a project to Risor scripts. Declarations are looked up
// among the top-level statements of a file by name.
type ScriptHost struct {
	p *Project
}

var _ runtime.Host = (*ScriptHost)(nil)

// Host returns the script view of the project.
func (p *Project) Host() *ScriptHost { return &ScriptHost{p: p} }

func (h *ScriptHost) Files() []string {
	files := h.p.SourceFiles()
	out := make([]string, 0, len(files))
	for _, sf := range files {
		out = append(out, sf.FilePath())
	}
	return out
}

// Declarations describes the top-level declarations of the file at path.
func (h *ScriptHost) Declarations(path string) ([]DeclarationInfo, error) {
	sf, err := h.p.SourceFileOrErr(path)
	if err != nil {
		return nil, err
	}
	var out []DeclarationInfo
	for _, e := range outline(sf) {
		info := DeclarationInfo{
			Name:      e.name,
			Kind:      string(e.node.Kind()),
			Line:      e.node.StartLine(),
			Ambient:   isAmbient(e.carrier.base()),
			Modifiers: modifierNames(e.carrier),
		}
		if a, ok := e.carrier.(AmbientableNode); ok {
			info.Declare = a.HasDeclareKeyword()
		}
		if x, ok := e.carrier.(ExportableNode); ok {
			info.Exported = x.IsExported()
		}
		out = append(out, info)
	}
	return out, nil
}

func (h *ScriptHost) lookup(path, name string) (AmbientableNode, error) {
	sf, err := h.p.SourceFileOrErr(path)
	if err != nil {
		return nil, err
	}
	for _, e := range outline(sf) {
		if e.name != name {
			continue
		}
		if a, ok := e.carrier.(AmbientableNode); ok {
			return a, nil
		}
		return nil, fmt.Errorf("sapling: %s in %s cannot carry a declare keyword", name, path)
	}
	return nil, &NotFoundError{What: fmt.Sprintf("declaration %s in %s", name, path)}
}

func (h *ScriptHost) IsAmbient(path, name string) (bool, error) {
	a, err := h.lookup(path, name)
	if err != nil {
		return false, err
	}
	return a.IsAmbient(), nil
}

// ToggleDeclare flips the declare keyword of the named declaration, or sets
// it when value is non-nil, and returns whether the keyword is present.
func (h *ScriptHost) ToggleDeclare(path, name string, value *bool) (bool, error) {
	a, err := h.lookup(path, name)
	if err != nil {
		return false, err
	}
	var vals []bool
	if value != nil {
		vals = append(vals, *value)
	}
	if err := a.ToggleDeclareKeyword(vals...); err != nil {
		return false, err
	}
	return a.HasDeclareKeyword(), nil
}

func (h *ScriptHost) Text(path string) (string, error) {
	sf, err := h.p.SourceFileOrErr(path)
	if err != nil {
		return "", err
	}
	return sf.Text(), nil
}

func (h *ScriptHost) Save(path string) error {
	sf, err := h.p.SourceFileOrErr(path)
	if err != nil {
		return err
	}
	return sf.Save()
}
