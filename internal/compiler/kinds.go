package compiler

// Node types produced by the tree-sitter TypeScript grammar that the facade
// cares about. Anonymous keyword tokens use their literal text as type.
const (
	KindProgram             = "program"
	KindExportStatement     = "export_statement"
	KindExportClause        = "export_clause"
	KindExportSpecifier     = "export_specifier"
	KindImportStatement     = "import_statement"
	KindAmbientDeclaration  = "ambient_declaration"
	KindExpressionStatement = "expression_statement"
	KindStatementBlock      = "statement_block"

	KindClassDeclaration         = "class_declaration"
	KindAbstractClassDeclaration = "abstract_class_declaration"
	KindClassBody                = "class_body"
	KindInterfaceDeclaration     = "interface_declaration"
	KindTypeAliasDeclaration     = "type_alias_declaration"
	KindEnumDeclaration          = "enum_declaration"
	KindEnumBody                 = "enum_body"
	KindEnumAssignment           = "enum_assignment"
	KindFunctionDeclaration      = "function_declaration"
	KindGeneratorFunction        = "generator_function_declaration"
	KindFunctionSignature        = "function_signature"
	KindModule                   = "module"
	KindInternalModule           = "internal_module"
	KindLexicalDeclaration       = "lexical_declaration"
	KindVariableDeclaration      = "variable_declaration"
	KindVariableDeclarator       = "variable_declarator"

	KindPublicFieldDefinition   = "public_field_definition"
	KindMethodDefinition        = "method_definition"
	KindAbstractMethodSignature = "abstract_method_signature"
	KindMethodSignature         = "method_signature"
	KindPropertySignature       = "property_signature"
	KindPropertyIdentifier      = "property_identifier"

	KindDecorator             = "decorator"
	KindAccessibilityModifier = "accessibility_modifier"
	KindOverrideModifier      = "override_modifier"

	KindIdentifier       = "identifier"
	KindNestedIdentifier = "nested_identifier"
	KindString           = "string"
	KindTypeAnnotation   = "type_annotation"
)

// kindFamilies groups node types that one wrapper may move between when a
// modifier edit changes the grammar production (class <-> abstract class).
var kindFamilies = map[string]string{
	KindClassDeclaration:         KindClassDeclaration,
	KindAbstractClassDeclaration: KindClassDeclaration,
	KindMethodDefinition:         KindMethodDefinition,
	KindAbstractMethodSignature:  KindMethodDefinition,
	KindFunctionDeclaration:      KindFunctionDeclaration,
	KindFunctionSignature:        KindFunctionDeclaration,
	KindGeneratorFunction:        KindFunctionDeclaration,
}

// Family returns the relocation family of a node type.
func Family(kind string) string {
	if f, ok := kindFamilies[kind]; ok {
		return f
	}
	return kind
}

// declarationKinds are the node types that can sit under an export or
// ambient wrapper and receive its keywords as modifiers.
var declarationKinds = map[string]bool{
	KindClassDeclaration:         true,
	KindAbstractClassDeclaration: true,
	KindInterfaceDeclaration:     true,
	KindTypeAliasDeclaration:     true,
	KindEnumDeclaration:          true,
	KindFunctionDeclaration:      true,
	KindGeneratorFunction:        true,
	KindFunctionSignature:        true,
	KindModule:                   true,
	KindInternalModule:           true,
	KindLexicalDeclaration:       true,
	KindVariableDeclaration:      true,
	KindAmbientDeclaration:       true,
}

// IsDeclarationKind reports whether kind is a statement-level declaration.
func IsDeclarationKind(kind string) bool {
	return declarationKinds[kind]
}
