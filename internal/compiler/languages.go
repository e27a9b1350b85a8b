package compiler

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
)

// extToDialect maps file extensions to the grammar dialect used to parse them.
var extToDialect = map[string]string{
	".ts":  "typescript",
	".mts": "typescript",
	".cts": "typescript",
	".tsx": "tsx",
}

// dialectToGrammar maps dialect names to tree-sitter Language objects.
// Lazily initialized on first call via sync.Once.
var (
	dialectToGrammar map[string]*sitter.Language
	grammarsOnce     sync.Once
)

func initGrammars() {
	grammarsOnce.Do(func() {
		dialectToGrammar = map[string]*sitter.Language{
			"typescript": ts.GetLanguage(),
			"tsx":        tsx.GetLanguage(),
		}
	})
}

// DefaultDeclarationSuffixes are the file name suffixes that mark a
// declaration file.
var DefaultDeclarationSuffixes = []string{".d.ts", ".d.mts", ".d.cts"}

// DialectForFile returns the grammar dialect for a file path based on its
// extension. Returns ("", false) if the extension is not recognized.
func DialectForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	d, ok := extToDialect[ext]
	return d, ok
}

// IsSourceFile reports whether path has an extension the parser understands.
func IsSourceFile(path string) bool {
	_, ok := DialectForFile(path)
	return ok
}

// GrammarForDialect returns the tree-sitter Language for a dialect name.
// Returns (nil, false) if the dialect is not supported.
func GrammarForDialect(dialect string) (*sitter.Language, bool) {
	initGrammars()
	l, ok := dialectToGrammar[dialect]
	return l, ok
}

// IsDeclarationFile reports whether path ends in one of the given
// declaration suffixes (case-insensitive). A nil suffix list means
// DefaultDeclarationSuffixes.
func IsDeclarationFile(path string, suffixes []string) bool {
	if suffixes == nil {
		suffixes = DefaultDeclarationSuffixes
	}
	lower := strings.ToLower(path)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}
