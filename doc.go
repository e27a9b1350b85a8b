// Package sapling is a code-manipulation library for TypeScript sources
// built on tree-sitter. A Project loads source files, a Factory hands out
// one wrapper per syntax node, and capability structs embedded in the
// kind wrappers (Named, Modifierable, Exportable, Ambientable and
// friends) answer questions about a node and edit it in place.
//
// # Ambient declarations
//
// A declaration is ambient when it has the declare keyword, lives in a
// declaration file, is an interface, or is nested inside an ambient
// declaration:
//
//	p := sapling.New()
//	sf, _ := p.CreateSourceFile("a.ts", "namespace N { class C {} }")
//	ns := sf.Namespace("N")
//	_ = ns.ToggleDeclareKeyword(true)
//	ns.Class("C").IsAmbient() // true
//
// # Edits
//
// Every edit reparses the file incrementally. The wrapper that performed
// the edit is moved onto the new tree; every other wrapper of that file is
// forgotten and panics with ErrForgottenNode when used. Re-acquire nodes
// through the SourceFile after editing.
//
// # Index
//
// Project.Index writes the declarations of every file into a SQLite
// Store, skipping files whose content hash is unchanged. Risor scripts run
// through Project.RunScript can query the index and toggle declare
// keywords.
package sapling
