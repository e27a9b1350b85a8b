package compiler

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Keyword is the text of a modifier keyword.
type Keyword string

const (
	KeywordExport    Keyword = "export"
	KeywordDefault   Keyword = "default"
	KeywordDeclare   Keyword = "declare"
	KeywordPublic    Keyword = "public"
	KeywordProtected Keyword = "protected"
	KeywordPrivate   Keyword = "private"
	KeywordAbstract  Keyword = "abstract"
	KeywordStatic    Keyword = "static"
	KeywordOverride  Keyword = "override"
	KeywordReadonly  Keyword = "readonly"
	KeywordAsync     Keyword = "async"
	KeywordConst     Keyword = "const"
)

// ModifierFlags is a bitset of modifiers. Values follow the TypeScript
// compiler's ModifierFlags numbering.
type ModifierFlags uint32

const (
	ModifierNone      ModifierFlags = 0
	ModifierExport    ModifierFlags = 1 << 0
	ModifierAmbient   ModifierFlags = 1 << 1
	ModifierPublic    ModifierFlags = 1 << 2
	ModifierPrivate   ModifierFlags = 1 << 3
	ModifierProtected ModifierFlags = 1 << 4
	ModifierStatic    ModifierFlags = 1 << 5
	ModifierReadonly  ModifierFlags = 1 << 6
	ModifierAbstract  ModifierFlags = 1 << 7
	ModifierAsync     ModifierFlags = 1 << 8
	ModifierDefault   ModifierFlags = 1 << 9
	ModifierConst     ModifierFlags = 1 << 11
	ModifierOverride  ModifierFlags = 1 << 14

	ModifierAccessibility = ModifierPublic | ModifierPrivate | ModifierProtected
)

var keywordFlags = map[Keyword]ModifierFlags{
	KeywordExport:    ModifierExport,
	KeywordDefault:   ModifierDefault,
	KeywordDeclare:   ModifierAmbient,
	KeywordPublic:    ModifierPublic,
	KeywordProtected: ModifierProtected,
	KeywordPrivate:   ModifierPrivate,
	KeywordAbstract:  ModifierAbstract,
	KeywordStatic:    ModifierStatic,
	KeywordOverride:  ModifierOverride,
	KeywordReadonly:  ModifierReadonly,
	KeywordAsync:     ModifierAsync,
	KeywordConst:     ModifierConst,
}

// keywordRank is the canonical order modifiers are written in.
var keywordRank = map[Keyword]int{
	KeywordExport:    0,
	KeywordDefault:   1,
	KeywordDeclare:   2,
	KeywordPublic:    3,
	KeywordProtected: 3,
	KeywordPrivate:   3,
	KeywordAbstract:  4,
	KeywordStatic:    5,
	KeywordOverride:  6,
	KeywordReadonly:  7,
	KeywordAsync:     8,
	KeywordConst:     9,
}

// FlagOf returns the modifier flag for a keyword.
func FlagOf(k Keyword) ModifierFlags { return keywordFlags[k] }

// IsKeyword reports whether k is a known modifier keyword.
func IsKeyword(k Keyword) bool {
	_, ok := keywordFlags[k]
	return ok
}

// Modifier is one modifier keyword token attached to a declaration.
type Modifier struct {
	Node    *sitter.Node
	Keyword Keyword
}

// Modifiers returns the modifier tokens of n in source order. Keywords
// written on an enclosing export statement or ambient declaration count as
// modifiers of the declaration they wrap.
func (f *File) Modifiers(n *sitter.Node) []Modifier {
	var wrappers []*sitter.Node
	child := n
	for p := n.Parent(); p != nil && wraps(p, child); p = p.Parent() {
		wrappers = append(wrappers, p)
		child = p
	}
	var mods []Modifier
	for i := len(wrappers) - 1; i >= 0; i-- {
		ms, _ := f.leadingModifiers(wrappers[i])
		mods = append(mods, ms...)
	}
	ms, _ := f.leadingModifiers(n)
	return append(mods, ms...)
}

// wraps reports whether p is an export or ambient wrapper whose declaration
// is child.
func wraps(p, child *sitter.Node) bool {
	switch p.Type() {
	case KindExportStatement, KindAmbientDeclaration:
		return IsDeclarationKind(child.Type())
	}
	return false
}

// leadingModifiers scans the children of n up to the first token that is
// neither a decorator nor a modifier. It returns the modifiers and that
// first core child.
func (f *File) leadingModifiers(n *sitter.Node) ([]Modifier, *sitter.Node) {
	var mods []Modifier
	for _, c := range Children(n) {
		switch {
		case c.Type() == KindDecorator:
			continue
		case c.Type() == KindAccessibilityModifier || c.Type() == KindOverrideModifier:
			mods = append(mods, Modifier{Node: c, Keyword: Keyword(f.Text(c))})
			continue
		case !c.IsNamed() && isModifierToken(n, Keyword(c.Type())):
			mods = append(mods, Modifier{Node: c, Keyword: Keyword(c.Type())})
			continue
		}
		return mods, c
	}
	return mods, nil
}

// isModifierToken reports whether an anonymous token of type k acts as a
// modifier on host. `const` only modifies enums; on variable statements it
// is the declaration keyword.
func isModifierToken(host *sitter.Node, k Keyword) bool {
	if k == KeywordConst {
		return host.Type() == KindEnumDeclaration
	}
	return IsKeyword(k)
}

// ModifierFlagsOf returns the flags of the modifiers directly attached to n.
func (f *File) ModifierFlagsOf(n *sitter.Node) ModifierFlags {
	var flags ModifierFlags
	for _, m := range f.Modifiers(n) {
		flags |= FlagOf(m.Keyword)
	}
	return flags
}

// CombinedModifierFlags returns the flags of n merged with those of the
// variable statement that contains it when n is a variable declarator.
func (f *File) CombinedModifierFlags(n *sitter.Node) ModifierFlags {
	flags := f.ModifierFlagsOf(n)
	if n.Type() == KindVariableDeclarator {
		if p := n.Parent(); p != nil && (p.Type() == KindLexicalDeclaration || p.Type() == KindVariableDeclaration) {
			flags |= f.ModifierFlagsOf(p)
		}
	}
	return flags
}

// FirstModifier returns the first modifier of n with keyword k, or nil.
func (f *File) FirstModifier(n *sitter.Node, k Keyword) *sitter.Node {
	for _, m := range f.Modifiers(n) {
		if m.Keyword == k {
			return m.Node
		}
	}
	return nil
}

// ModifierInsertion returns the offset and text that add keyword k to n in
// canonical position.
func (f *File) ModifierInsertion(n *sitter.Node, k Keyword) (uint32, string) {
	rank := keywordRank[k]
	for _, m := range f.Modifiers(n) {
		if keywordRank[m.Keyword] > rank {
			return m.Node.StartByte(), string(k) + " "
		}
	}
	_, core := f.leadingModifiers(n)
	if core == nil {
		return n.StartByte(), string(k) + " "
	}
	return core.StartByte(), string(k) + " "
}

// ModifierRemoval returns the byte range that removes the modifier token
// along with the whitespace that follows it.
func (f *File) ModifierRemoval(tok *sitter.Node) (uint32, uint32) {
	end := tok.EndByte()
	for int(end) < len(f.src) {
		switch f.src[end] {
		case ' ', '\t', '\n', '\r':
			end++
			continue
		}
		break
	}
	return tok.StartByte(), end
}
