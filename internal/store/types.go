package store

import "time"

type File struct {
	ID                int64
	Path              string
	Hash              string
	IsDeclarationFile bool
	LineCount         int
	LastIndexed       time.Time
}

// Declaration is one indexed declaration. Lines and columns are 0-based,
// as tree-sitter reports them.
type Declaration struct {
	ID                  int64
	FileID              *int64
	Name                string
	Kind                string
	Modifiers           []string
	Flags               int64
	IsAmbient           bool
	IsExported          bool
	FQN                 string
	DeclaredType        string
	SignatureHash       string
	StartLine           int
	StartCol            int
	EndLine             int
	EndCol              int
	ParentDeclarationID *int64
}
