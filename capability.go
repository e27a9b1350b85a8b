package sapling

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

type capabilityName string

const (
	capNamed        capabilityName = "Named"
	capModifierable capabilityName = "Modifierable"
	capExportable   capabilityName = "Exportable"
	capAbstractable capabilityName = "Abstractable"
	capAsyncable    capabilityName = "Asyncable"
	capStaticable   capabilityName = "Staticable"
	capReadonlyable capabilityName = "Readonlyable"
	capScoped       capabilityName = "Scoped"
	capAmbientable  capabilityName = "Ambientable"
	capStatemented  capabilityName = "Statemented"
)

// capability is one composable layer. requires names the layers that must
// appear earlier in a kind's list; fill applies the layer's slice of a
// Structure and may be nil.
type capability struct {
	name     capabilityName
	requires []capabilityName
	fill     func(n *nodeBase, s Structure) error
}

var capabilities = map[capabilityName]capability{
	capNamed:        {name: capNamed, fill: fillNamed},
	capModifierable: {name: capModifierable},
	capExportable:   {name: capExportable, requires: []capabilityName{capModifierable}, fill: fillExportable},
	capAbstractable: {name: capAbstractable, requires: []capabilityName{capModifierable}, fill: fillAbstractable},
	capAsyncable:    {name: capAsyncable, requires: []capabilityName{capModifierable}, fill: fillAsyncable},
	capStaticable:   {name: capStaticable, requires: []capabilityName{capModifierable}, fill: fillStaticable},
	capReadonlyable: {name: capReadonlyable, requires: []capabilityName{capModifierable}, fill: fillReadonlyable},
	capScoped:       {name: capScoped, requires: []capabilityName{capModifierable}, fill: fillScoped},
	capAmbientable:  {name: capAmbientable, requires: []capabilityName{capModifierable}, fill: fillAmbientable},
	capStatemented:  {name: capStatemented},
}

// layersOf resolves capability names into an ordered layer list and checks
// that every prerequisite comes earlier.
func layersOf(names ...capabilityName) ([]capability, error) {
	seen := make(map[capabilityName]bool, len(names))
	layers := make([]capability, 0, len(names))
	for _, name := range names {
		c, ok := capabilities[name]
		if !ok {
			return nil, fmt.Errorf("unknown capability %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("capability %s listed twice", name)
		}
		for _, req := range c.requires {
			if !seen[req] {
				return nil, fmt.Errorf("capability %s requires %s earlier in the list", name, req)
			}
		}
		seen[name] = true
		layers = append(layers, c)
	}
	return layers, nil
}

// kindSpec describes how nodes of one tree-sitter type are wrapped.
type kindSpec struct {
	layers []capability
	wrap   func(*nodeBase) Node
}

var kindSpecs = map[string]*kindSpec{}

// registerKind associates tree-sitter types with a wrapper constructor and
// its capability layers. It panics on an invalid layer list since kinds
// are registered at init time.
func registerKind(types []string, wrap func(*nodeBase) Node, names ...capabilityName) {
	layers, err := layersOf(names...)
	if err != nil {
		panic(fmt.Sprintf("sapling: register %s: %v", strings.Join(types, "/"), err))
	}
	spec := &kindSpec{layers: layers, wrap: wrap}
	for _, t := range types {
		kindSpecs[t] = spec
	}
}

// hasCapability reports whether a node kind carries the named layer.
func hasCapability(n *nodeBase, name capabilityName) bool {
	for _, c := range n.layers {
		if c.name == name {
			return true
		}
	}
	return false
}

// newWrapper builds the wrapper for raw using its registered kind.
func newWrapper(f *Factory, sf *SourceFile, raw *sitter.Node) Node {
	nb := &nodeBase{factory: f, file: sf, raw: raw, epoch: sf.epoch}
	spec, ok := kindSpecs[raw.Type()]
	if !ok {
		g := &GenericNode{nodeBase: nb}
		nb.self = g
		return g
	}
	nb.layers = spec.layers
	n := spec.wrap(nb)
	nb.self = n
	return n
}
