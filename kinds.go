package sapling

import "github.com/jward/sapling/internal/compiler"

// Kind is the tree-sitter node type of a wrapped node.
type Kind string

const (
	KindSourceFile               Kind = compiler.KindProgram
	KindClassDeclaration         Kind = compiler.KindClassDeclaration
	KindAbstractClassDeclaration Kind = compiler.KindAbstractClassDeclaration
	KindInterfaceDeclaration     Kind = compiler.KindInterfaceDeclaration
	KindTypeAliasDeclaration     Kind = compiler.KindTypeAliasDeclaration
	KindEnumDeclaration          Kind = compiler.KindEnumDeclaration
	KindFunctionDeclaration      Kind = compiler.KindFunctionDeclaration
	KindGeneratorFunction        Kind = compiler.KindGeneratorFunction
	KindFunctionSignature        Kind = compiler.KindFunctionSignature
	KindModule                   Kind = compiler.KindModule
	KindInternalModule           Kind = compiler.KindInternalModule
	KindLexicalDeclaration       Kind = compiler.KindLexicalDeclaration
	KindVariableDeclaration      Kind = compiler.KindVariableDeclaration
	KindVariableDeclarator       Kind = compiler.KindVariableDeclarator
	KindPublicFieldDefinition    Kind = compiler.KindPublicFieldDefinition
	KindMethodDefinition         Kind = compiler.KindMethodDefinition
	KindAbstractMethodSignature  Kind = compiler.KindAbstractMethodSignature
	KindExportStatement          Kind = compiler.KindExportStatement
	KindAmbientDeclaration       Kind = compiler.KindAmbientDeclaration
)

// ModifierKind is the keyword of a modifier token.
type ModifierKind = compiler.Keyword

const (
	KeywordExport    = compiler.KeywordExport
	KeywordDefault   = compiler.KeywordDefault
	KeywordDeclare   = compiler.KeywordDeclare
	KeywordPublic    = compiler.KeywordPublic
	KeywordProtected = compiler.KeywordProtected
	KeywordPrivate   = compiler.KeywordPrivate
	KeywordAbstract  = compiler.KeywordAbstract
	KeywordStatic    = compiler.KeywordStatic
	KeywordOverride  = compiler.KeywordOverride
	KeywordReadonly  = compiler.KeywordReadonly
	KeywordAsync     = compiler.KeywordAsync
	KeywordConst     = compiler.KeywordConst
)

// ModifierFlags is a bitset of modifiers.
type ModifierFlags = compiler.ModifierFlags

const (
	ModifierNone          = compiler.ModifierNone
	ModifierExport        = compiler.ModifierExport
	ModifierAmbient       = compiler.ModifierAmbient
	ModifierPublic        = compiler.ModifierPublic
	ModifierPrivate       = compiler.ModifierPrivate
	ModifierProtected     = compiler.ModifierProtected
	ModifierStatic        = compiler.ModifierStatic
	ModifierReadonly      = compiler.ModifierReadonly
	ModifierAbstract      = compiler.ModifierAbstract
	ModifierAsync         = compiler.ModifierAsync
	ModifierDefault       = compiler.ModifierDefault
	ModifierConst         = compiler.ModifierConst
	ModifierOverride      = compiler.ModifierOverride
	ModifierAccessibility = compiler.ModifierAccessibility
)

// SymbolFlags classify a symbol.
type SymbolFlags = compiler.SymbolFlags

const (
	SymbolFunctionScopedVariable = compiler.SymbolFunctionScopedVariable
	SymbolBlockScopedVariable    = compiler.SymbolBlockScopedVariable
	SymbolProperty               = compiler.SymbolProperty
	SymbolEnumMember             = compiler.SymbolEnumMember
	SymbolFunction               = compiler.SymbolFunction
	SymbolClass                  = compiler.SymbolClass
	SymbolInterface              = compiler.SymbolInterface
	SymbolConstEnum              = compiler.SymbolConstEnum
	SymbolRegularEnum            = compiler.SymbolRegularEnum
	SymbolValueModule            = compiler.SymbolValueModule
	SymbolNamespaceModule        = compiler.SymbolNamespaceModule
	SymbolMethod                 = compiler.SymbolMethod
	SymbolConstructor            = compiler.SymbolConstructor
	SymbolTypeAlias              = compiler.SymbolTypeAlias
	SymbolAlias                  = compiler.SymbolAlias
	SymbolVariable               = compiler.SymbolVariable
	SymbolEnum                   = compiler.SymbolEnum
	SymbolModule                 = compiler.SymbolModule
	SymbolValue                  = compiler.SymbolValue
	SymbolType                   = compiler.SymbolType
)

// Scope is the accessibility of a class member.
type Scope string

const (
	ScopePublic    Scope = "public"
	ScopeProtected Scope = "protected"
	ScopePrivate   Scope = "private"
)
