package main

import (
	"github.com/jward/sapling"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command string `json:"command"`
	Results any    `json:"results"`
	Error   string `json:"error,omitempty"`
}

// CLIDeclaration is one top-level declaration of a loaded file.
type CLIDeclaration struct {
	File      string   `json:"file"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Line      int      `json:"line"`
	Ambient   bool     `json:"ambient"`
	Declare   bool     `json:"declare"`
	Exported  bool     `json:"exported"`
	Modifiers []string `json:"modifiers,omitempty"`
}

func toCLIDeclaration(file string, d sapling.DeclarationInfo) CLIDeclaration {
	return CLIDeclaration{
		File:      file,
		Name:      d.Name,
		Kind:      d.Kind,
		Line:      d.Line,
		Ambient:   d.Ambient,
		Declare:   d.Declare,
		Exported:  d.Exported,
		Modifiers: d.Modifiers,
	}
}

// CLIToggle reports the outcome of the declare command.
type CLIToggle struct {
	File    string `json:"file"`
	Name    string `json:"name"`
	Declare bool   `json:"declare"`
	Written bool   `json:"written"`
	Text    string `json:"text,omitempty"`
}

// CLIIndexedDeclaration is a declaration row read back from the index.
// Lines and columns are 0-based.
type CLIIndexedDeclaration struct {
	ID        int64    `json:"id"`
	File      string   `json:"file,omitempty"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	FQN       string   `json:"fqn,omitempty"`
	Type      string   `json:"type,omitempty"`
	Ambient   bool     `json:"ambient"`
	Exported  bool     `json:"exported"`
	Modifiers []string `json:"modifiers,omitempty"`
	StartLine int      `json:"start_line"`
	StartCol  int      `json:"start_col"`
	ParentID  *int64   `json:"parent_id,omitempty"`
}

func toCLIIndexed(d *sapling.IndexedDeclaration, paths map[int64]string) CLIIndexedDeclaration {
	out := CLIIndexedDeclaration{
		ID:        d.ID,
		Name:      d.Name,
		Kind:      d.Kind,
		FQN:       d.FQN,
		Type:      d.DeclaredType,
		Ambient:   d.IsAmbient,
		Exported:  d.IsExported,
		Modifiers: d.Modifiers,
		StartLine: d.StartLine,
		StartCol:  d.StartCol,
		ParentID:  d.ParentDeclarationID,
	}
	if d.FileID != nil {
		out.File = paths[*d.FileID]
	}
	return out
}

// CLIFile is a JSON-friendly indexed file.
type CLIFile struct {
	ID                int64  `json:"id"`
	Path              string `json:"path"`
	IsDeclarationFile bool   `json:"is_declaration_file"`
	LineCount         int    `json:"line_count"`
}

// CLIIndexSummary is the result of the index command.
type CLIIndexSummary struct {
	Root         string `json:"root"`
	Database     string `json:"database"`
	Files        int    `json:"files"`
	AmbientCount int    `json:"ambient_count"`
	Epoch        string `json:"epoch"`
	Duration     string `json:"duration,omitempty"`
}

// CLIRun is the result of the run command.
type CLIRun struct {
	Script  string   `json:"script"`
	Files   int      `json:"files"`
	Changed []string `json:"changed,omitempty"`
}
