package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// formatDeclarationsText formats CLIDeclaration results as aligned columns.
func formatDeclarationsText(w io.Writer, decls []CLIDeclaration) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tLINE\tNAME\tKIND\tAMBIENT\tMODIFIERS")
	for _, d := range decls {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%t\t%s\n",
			d.File, d.Line, d.Name, d.Kind, d.Ambient, strings.Join(d.Modifiers, " "))
	}
	tw.Flush()
}

// formatIndexedText formats CLIIndexedDeclaration results as aligned columns.
func formatIndexedText(w io.Writer, decls []CLIIndexedDeclaration) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFQN\tKIND\tAMBIENT\tFILE\tLINE")
	for _, d := range decls {
		name := d.FQN
		if name == "" {
			name = d.Name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%d\n",
			d.ID, name, d.Kind, d.Ambient, d.File, d.StartLine)
	}
	tw.Flush()
}

// formatFilesText formats CLIFile results as aligned columns.
func formatFilesText(w io.Writer, files []CLIFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tLINES\tDECLARATION")
	for _, f := range files {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%t\n", f.ID, f.Path, f.LineCount, f.IsDeclarationFile)
	}
	tw.Flush()
}

func formatToggleText(w io.Writer, t CLIToggle) {
	if t.Text != "" {
		fmt.Fprint(w, t.Text)
		return
	}
	fmt.Fprintf(w, "%s: %s declare=%t\n", t.File, t.Name, t.Declare)
}

func formatIndexSummaryText(w io.Writer, s CLIIndexSummary) {
	fmt.Fprintf(w, "Indexed %s in %s\n", s.Root, s.Duration)
	fmt.Fprintf(w, "Database: %s\n", s.Database)
	fmt.Fprintf(w, "Files: %d, ambient declarations: %d, epoch: %s\n", s.Files, s.AmbientCount, s.Epoch)
}

func formatRunText(w io.Writer, r CLIRun) {
	fmt.Fprintf(w, "Ran %s over %d files\n", r.Script, r.Files)
	for _, c := range r.Changed {
		fmt.Fprintf(w, "  modified: %s\n", c)
	}
}

// writeResultText dispatches to the appropriate text formatter based on the
// result type.
func writeResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIDeclaration:
		formatDeclarationsText(w, v)
	case []CLIIndexedDeclaration:
		formatIndexedText(w, v)
	case []CLIFile:
		formatFilesText(w, v)
	case CLIToggle:
		formatToggleText(w, v)
	case CLIIndexSummary:
		formatIndexSummaryText(w, v)
	case CLIRun:
		formatRunText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

func writeResult(w io.Writer, format string, result CLIResult) error {
	if format == "text" {
		return writeResultText(w, result)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func outputResult(result CLIResult) error {
	return writeResult(os.Stdout, flagFormat, result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	_ = writeResult(os.Stdout, flagFormat, CLIResult{Command: command, Error: err.Error()})
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the format flag has a supported value.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
