package sapling

import "fmt"

// ScopedNode is implemented by class members with an accessibility.
type ScopedNode interface {
	ModifierableNode
	Scope() Scope
	HasScopeKeyword() bool
	SetScope(scope Scope) error
}

// Scoped manages the public, protected and private keywords.
type Scoped struct {
	n *nodeBase
}

// Scope returns the written accessibility, or public when none is written.
func (sc Scoped) Scope() Scope {
	if k := sc.scopeKeyword(); k != "" {
		return Scope(k)
	}
	return ScopePublic
}

func (sc Scoped) HasScopeKeyword() bool {
	return sc.scopeKeyword() != ""
}

// SetScope replaces the accessibility keyword. An empty scope removes it.
func (sc Scoped) SetScope(scope Scope) error {
	switch scope {
	case "", ScopePublic, ScopeProtected, ScopePrivate:
	default:
		return fmt.Errorf("sapling: set scope: unknown scope %q", scope)
	}
	current := sc.scopeKeyword()
	if current == ModifierKind(scope) {
		return nil
	}
	if current != "" {
		if err := sc.n.toggleModifier(current, false); err != nil {
			return err
		}
	}
	if scope == "" {
		return nil
	}
	return sc.n.toggleModifier(ModifierKind(scope), true)
}

func (sc Scoped) scopeKeyword() ModifierKind {
	for _, m := range sc.n.oracle().Modifiers(sc.n.compilerNode()) {
		switch m.Keyword {
		case KeywordPublic, KeywordProtected, KeywordPrivate:
			return m.Keyword
		}
	}
	return ""
}

func fillScoped(n *nodeBase, s Structure) error {
	if s.Scope == nil {
		return nil
	}
	return Scoped{n}.SetScope(*s.Scope)
}
