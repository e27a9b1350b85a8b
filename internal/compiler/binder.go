package compiler

import (
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// SymbolFlags classify a symbol. Values follow the TypeScript compiler's
// SymbolFlags numbering.
type SymbolFlags uint32

const (
	SymbolNone                   SymbolFlags = 0
	SymbolFunctionScopedVariable SymbolFlags = 1 << 0
	SymbolBlockScopedVariable    SymbolFlags = 1 << 1
	SymbolProperty               SymbolFlags = 1 << 2
	SymbolEnumMember             SymbolFlags = 1 << 3
	SymbolFunction               SymbolFlags = 1 << 4
	SymbolClass                  SymbolFlags = 1 << 5
	SymbolInterface              SymbolFlags = 1 << 6
	SymbolConstEnum              SymbolFlags = 1 << 7
	SymbolRegularEnum            SymbolFlags = 1 << 8
	SymbolValueModule            SymbolFlags = 1 << 9
	SymbolNamespaceModule        SymbolFlags = 1 << 10
	SymbolTypeLiteral            SymbolFlags = 1 << 11
	SymbolObjectLiteral          SymbolFlags = 1 << 12
	SymbolMethod                 SymbolFlags = 1 << 13
	SymbolConstructor            SymbolFlags = 1 << 14
	SymbolGetAccessor            SymbolFlags = 1 << 15
	SymbolSetAccessor            SymbolFlags = 1 << 16
	SymbolSignature              SymbolFlags = 1 << 17
	SymbolTypeParameter          SymbolFlags = 1 << 18
	SymbolTypeAlias              SymbolFlags = 1 << 19
	SymbolExportValue            SymbolFlags = 1 << 20
	SymbolAlias                  SymbolFlags = 1 << 21
	SymbolPrototype              SymbolFlags = 1 << 22
	SymbolExportStar             SymbolFlags = 1 << 23
	SymbolOptional               SymbolFlags = 1 << 24
	SymbolTransient              SymbolFlags = 1 << 25

	SymbolVariable = SymbolFunctionScopedVariable | SymbolBlockScopedVariable
	SymbolEnum     = SymbolRegularEnum | SymbolConstEnum
	SymbolModule   = SymbolValueModule | SymbolNamespaceModule
	SymbolValue    = SymbolVariable | SymbolProperty | SymbolEnumMember | SymbolObjectLiteral |
		SymbolFunction | SymbolClass | SymbolEnum | SymbolValueModule | SymbolMethod |
		SymbolGetAccessor | SymbolSetAccessor
	SymbolType = SymbolClass | SymbolInterface | SymbolEnum | SymbolEnumMember |
		SymbolTypeLiteral | SymbolTypeParameter | SymbolTypeAlias
)

// mergeable are the flags that allow a second declaration with the same
// name to join an existing symbol.
const mergeable = SymbolInterface | SymbolFunction | SymbolEnum | SymbolModule | SymbolClass

// SymbolTable maps names to symbols.
type SymbolTable map[string]*Symbol

// Symbol is a named entity produced by binding one or more declarations.
type Symbol struct {
	Name             string
	Flags            SymbolFlags
	Declarations     []*sitter.Node
	ValueDeclaration *sitter.Node
	// Exports is nil for symbols that cannot export anything.
	Exports SymbolTable
	Members SymbolTable
	Parent  *Symbol
	// Target is the local symbol an export alias refers to.
	Target *Symbol

	files []*File
}

// DeclarationFile returns the file that declares Declarations[i].
func (s *Symbol) DeclarationFile(i int) *File {
	if i < 0 || i >= len(s.files) {
		return nil
	}
	return s.files[i]
}

// IsExternalModule reports whether s is the symbol of a module file or an
// ambient module declared with a string name.
func (s *Symbol) IsExternalModule() bool {
	return s.Flags&SymbolValueModule != 0 && strings.HasPrefix(s.Name, `"`)
}

// Program holds the symbols bound from a set of files.
type Program struct {
	Globals SymbolTable

	files map[*File]*fileBinding
}

type fileBinding struct {
	module *Symbol
	nodes  map[NodeKey]*Symbol
}

// SymbolAt returns the symbol declared by n, or by the declaration n names.
func (p *Program) SymbolAt(f *File, n *sitter.Node) *Symbol {
	fb := p.files[f]
	if fb == nil || n == nil {
		return nil
	}
	if n.Type() == KindProgram {
		return fb.module
	}
	return fb.nodes[KeyOf(n)]
}

// ModuleSymbol returns the symbol of a module file, or nil for scripts.
func (p *Program) ModuleSymbol(f *File) *Symbol {
	if fb := p.files[f]; fb != nil {
		return fb.module
	}
	return nil
}

type scope struct {
	// exports receives exported declarations; locals the rest. A nil
	// locals table sends everything to exports.
	exports SymbolTable
	locals  SymbolTable
	parent  *Symbol
	ambient bool
}

type binder struct {
	prog *Program
	file *File
	fb   *fileBinding
}

// Bind binds every file in order and returns the resulting program.
// Script files share the global table; module files get their own symbol.
func Bind(files []*File) *Program {
	prog := &Program{Globals: SymbolTable{}, files: make(map[*File]*fileBinding, len(files))}
	for _, f := range files {
		b := &binder{prog: prog, file: f, fb: &fileBinding{nodes: make(map[NodeKey]*Symbol)}}
		prog.files[f] = b.fb
		b.bindFile()
	}
	return prog
}

// ModuleName returns the quoted module name of a file path with its
// extension removed.
func ModuleName(path string) string {
	p := filepath.ToSlash(path)
	for _, s := range append(DefaultDeclarationSuffixes, ".tsx", ".ts", ".mts", ".cts") {
		if strings.HasSuffix(strings.ToLower(p), s) {
			p = p[:len(p)-len(s)]
			break
		}
	}
	return strconv.Quote(p)
}

func (b *binder) bindFile() {
	root := b.file.Root()
	sc := scope{exports: b.prog.Globals, ambient: IsDeclarationFile(b.file.Path, nil)}
	if isExternalModule(root) {
		mod := &Symbol{
			Name:         ModuleName(b.file.Path),
			Flags:        SymbolValueModule,
			Declarations: []*sitter.Node{root},
			Exports:      SymbolTable{},
			files:        []*File{b.file},
		}
		b.fb.module = mod
		sc = scope{exports: mod.Exports, locals: SymbolTable{}, parent: mod}
	}
	b.bindStatements(root, sc)
}

func isExternalModule(root *sitter.Node) bool {
	for _, c := range NamedChildren(root) {
		if c.Type() == KindImportStatement || c.Type() == KindExportStatement {
			return true
		}
	}
	return false
}

func (b *binder) bindStatements(block *sitter.Node, sc scope) {
	var clauses []*sitter.Node
	for _, stmt := range NamedChildren(block) {
		if stmt.Type() == KindExportStatement {
			if clause := exportClause(stmt); clause != nil {
				clauses = append(clauses, clause)
				continue
			}
		}
		b.bindStatement(stmt, sc, false)
	}
	for _, clause := range clauses {
		b.bindExportClause(clause, sc)
	}
}

func exportClause(stmt *sitter.Node) *sitter.Node {
	for _, c := range NamedChildren(stmt) {
		if c.Type() == KindExportClause {
			// Re-exports from another module are not bound.
			if stmt.ChildByFieldName("source") != nil {
				return nil
			}
			return c
		}
	}
	return nil
}

// bindExportClause binds one alias symbol per specifier of
// `export { a, b as c }`, targeting the local symbol it names.
func (b *binder) bindExportClause(clause *sitter.Node, sc scope) {
	if sc.locals == nil {
		return
	}
	for _, spec := range NamedChildren(clause) {
		if spec.Type() != KindExportSpecifier {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		aliasNode := spec.ChildByFieldName("alias")
		name := b.file.Text(nameNode)
		local := sc.locals[name]
		if local == nil {
			continue
		}
		alias := &Symbol{Name: name, Flags: SymbolAlias, Parent: sc.parent, Target: local}
		if aliasNode != nil {
			alias.Name = b.file.Text(aliasNode)
		}
		sc.exports[alias.Name] = alias
		b.attach(alias, spec, aliasNode)
	}
}

func (b *binder) bindStatement(n *sitter.Node, sc scope, exported bool) {
	switch n.Type() {
	case KindExportStatement:
		for _, c := range NamedChildren(n) {
			if IsDeclarationKind(c.Type()) {
				b.bindStatement(c, sc, true)
			}
		}
	case KindAmbientDeclaration:
		if IsGlobalAugmentation(n) {
			for _, c := range NamedChildren(n) {
				if c.Type() == KindStatementBlock {
					b.bindStatements(c, scope{exports: b.prog.Globals, ambient: true})
				}
			}
			return
		}
		for _, c := range NamedChildren(n) {
			if IsDeclarationKind(c.Type()) {
				b.bindStatement(c, sc, exported)
			}
		}
	case KindExpressionStatement:
		if c := n.NamedChild(0); c != nil && c.Type() == KindInternalModule {
			b.bindStatement(c, sc, exported)
		}
	case KindClassDeclaration, KindAbstractClassDeclaration:
		sym := b.declare(sc, n, SymbolClass, exported)
		if sym == nil {
			return
		}
		if sym.Members == nil {
			sym.Members = SymbolTable{}
		}
		if sym.Exports == nil {
			sym.Exports = SymbolTable{}
		}
		b.bindClassBody(n.ChildByFieldName("body"), sym)
	case KindInterfaceDeclaration:
		sym := b.declare(sc, n, SymbolInterface, exported)
		if sym == nil {
			return
		}
		if sym.Members == nil {
			sym.Members = SymbolTable{}
		}
		b.bindInterfaceBody(n.ChildByFieldName("body"), sym)
	case KindTypeAliasDeclaration:
		b.declare(sc, n, SymbolTypeAlias, exported)
	case KindEnumDeclaration:
		flags := SymbolRegularEnum
		for _, c := range Children(n) {
			if !c.IsNamed() && c.Type() == string(KeywordConst) {
				flags = SymbolConstEnum
			}
		}
		sym := b.declare(sc, n, flags, exported)
		if sym == nil {
			return
		}
		if sym.Exports == nil {
			sym.Exports = SymbolTable{}
		}
		b.bindEnumBody(n.ChildByFieldName("body"), sym)
	case KindFunctionDeclaration, KindGeneratorFunction, KindFunctionSignature:
		b.declare(sc, n, SymbolFunction, exported)
	case KindLexicalDeclaration, KindVariableDeclaration:
		flags := SymbolFunctionScopedVariable
		if n.Type() == KindLexicalDeclaration {
			flags = SymbolBlockScopedVariable
		}
		for _, d := range NamedChildren(n) {
			if d.Type() != KindVariableDeclarator {
				continue
			}
			if name := d.ChildByFieldName("name"); name == nil || name.Type() != KindIdentifier {
				continue
			}
			b.declare(sc, d, flags, exported)
		}
	case KindModule, KindInternalModule:
		b.bindModule(n, sc, exported)
	}
}

func (b *binder) bindModule(n *sitter.Node, sc scope, exported bool) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	ambient := sc.ambient || (n.Parent() != nil && n.Parent().Type() == KindAmbientDeclaration)
	var sym *Symbol
	if nameNode.Type() == KindString {
		// Ambient external module: `declare module "x" { }`.
		name := strconv.Quote(strings.Trim(b.file.Text(nameNode), "\"'"))
		sym = b.add(scope{exports: b.prog.Globals}, name, SymbolValueModule, n, nameNode, true)
		ambient = true
	} else {
		parts := strings.Split(b.file.Text(nameNode), ".")
		for i, part := range parts {
			part = strings.TrimSpace(part)
			sym = b.add(sc, part, SymbolValueModule|SymbolNamespaceModule, n, nil, exported || i > 0)
			if sym.Exports == nil {
				sym.Exports = SymbolTable{}
			}
			if i < len(parts)-1 {
				sc = scope{exports: sym.Exports, locals: SymbolTable{}, parent: sym, ambient: ambient}
			}
		}
		b.fb.nodes[KeyOf(nameNode)] = sym
	}
	if sym.Exports == nil {
		sym.Exports = SymbolTable{}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		b.bindStatements(body, scope{exports: sym.Exports, locals: SymbolTable{}, parent: sym, ambient: ambient})
	}
}

func (b *binder) bindClassBody(body *sitter.Node, class *Symbol) {
	for _, m := range NamedChildren(body) {
		var flags SymbolFlags
		switch m.Type() {
		case KindPublicFieldDefinition:
			flags = SymbolProperty
		case KindMethodDefinition, KindAbstractMethodSignature, KindMethodSignature:
			flags = SymbolMethod
			name := b.file.Text(m.ChildByFieldName("name"))
			if name == "constructor" {
				flags = SymbolConstructor
			}
		default:
			continue
		}
		table := class.Members
		if b.file.ModifierFlagsOf(m)&ModifierStatic != 0 {
			table = class.Exports
		}
		b.member(table, m, flags, class)
	}
}

func (b *binder) bindInterfaceBody(body *sitter.Node, iface *Symbol) {
	for _, m := range NamedChildren(body) {
		switch m.Type() {
		case KindPropertySignature:
			b.member(iface.Members, m, SymbolProperty, iface)
		case KindMethodSignature:
			b.member(iface.Members, m, SymbolMethod, iface)
		}
	}
}

func (b *binder) bindEnumBody(body *sitter.Node, enum *Symbol) {
	for _, m := range NamedChildren(body) {
		switch m.Type() {
		case KindPropertyIdentifier, KindString:
			b.enumMember(enum, m, m)
		case KindEnumAssignment:
			if name := m.ChildByFieldName("name"); name != nil {
				b.enumMember(enum, m, name)
			}
		}
	}
}

func (b *binder) enumMember(enum *Symbol, decl, name *sitter.Node) {
	n := strings.Trim(b.file.Text(name), "\"'")
	sym := &Symbol{Name: n, Flags: SymbolEnumMember, Parent: enum}
	b.attach(sym, decl, name)
	enum.Exports[n] = sym
}

func (b *binder) member(table SymbolTable, m *sitter.Node, flags SymbolFlags, parent *Symbol) {
	nameNode := m.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := b.file.Text(nameNode)
	sym := table[name]
	if sym == nil || sym.Flags&flags == 0 {
		sym = &Symbol{Name: name, Flags: flags, Parent: parent}
		table[name] = sym
	}
	b.attach(sym, m, nameNode)
}

// declare binds a named declaration into the scope.
func (b *binder) declare(sc scope, n *sitter.Node, flags SymbolFlags, exported bool) *Symbol {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	return b.add(sc, b.file.Text(nameNode), flags, n, nameNode, exported)
}

func (b *binder) add(sc scope, name string, flags SymbolFlags, n, nameNode *sitter.Node, exported bool) *Symbol {
	table := sc.locals
	if table == nil || exported || sc.ambient {
		table = sc.exports
	}
	sym := table[name]
	if sym == nil || !canMerge(sym.Flags, flags) {
		sym = &Symbol{Name: name, Parent: sc.parent}
		table[name] = sym
	}
	sym.Flags |= flags
	b.attach(sym, n, nameNode)
	return sym
}

func canMerge(existing, incoming SymbolFlags) bool {
	if existing&incoming&mergeable != 0 {
		return true
	}
	if existing&SymbolModule != 0 || incoming&SymbolModule != 0 {
		return (existing|incoming)&(SymbolClass|SymbolFunction|SymbolEnum|SymbolInterface) != 0
	}
	return (existing|incoming)&(SymbolClass|SymbolInterface) == SymbolClass|SymbolInterface
}

func (b *binder) attach(sym *Symbol, decl, nameNode *sitter.Node) {
	sym.Declarations = append(sym.Declarations, decl)
	sym.files = append(sym.files, b.file)
	if sym.ValueDeclaration == nil && sym.Flags&SymbolValue != 0 && isValueDeclaration(decl) {
		sym.ValueDeclaration = decl
	}
	b.fb.nodes[KeyOf(decl)] = sym
	if nameNode != nil {
		b.fb.nodes[KeyOf(nameNode)] = sym
	}
}

func isValueDeclaration(n *sitter.Node) bool {
	switch n.Type() {
	case KindInterfaceDeclaration, KindTypeAliasDeclaration:
		return false
	}
	return true
}
