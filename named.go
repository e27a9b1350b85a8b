package sapling

import "fmt"

// NamedNode is implemented by declarations with a name.
type NamedNode interface {
	Node
	Name() string
	NameNode() Node
	Rename(name string) error
}

type Named struct {
	n *nodeBase
}

// Name returns the declared name, or "" for anonymous declarations.
func (nm Named) Name() string {
	return nm.n.oracle().NameText(nm.n.compilerNode())
}

// NameNode returns the node holding the name, or nil.
func (nm Named) NameNode() Node {
	return nm.n.wrap(nm.n.compilerNode().ChildByFieldName("name"))
}

// Rename rewrites the name in place. References elsewhere are not updated.
func (nm Named) Rename(name string) error {
	id := nm.n.compilerNode().ChildByFieldName("name")
	if id == nil {
		return fmt.Errorf("sapling: rename: %s has no name", nm.n.raw.Type())
	}
	if nm.n.oracle().Text(id) == name {
		return nil
	}
	return nm.n.replaceText(id.StartByte(), id.EndByte(), name)
}

func fillNamed(n *nodeBase, s Structure) error {
	if s.Name == nil {
		return nil
	}
	return Named{n}.Rename(*s.Name)
}
