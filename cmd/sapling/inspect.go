package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jward/sapling"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "List top-level declarations and whether they are ambient",
	Long:  "Loads a file or every TypeScript file under a directory and lists its top-level declarations. Line numbers are 1-based.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	p, err := loadTarget(cmd.Context(), target)
	if err != nil {
		return outputError("inspect", err)
	}
	decls, err := collectDeclarations(p)
	if err != nil {
		return outputError("inspect", err)
	}
	return outputResult(CLIResult{Command: "inspect", Results: decls})
}

// loadTarget loads a single file or a directory tree.
func loadTarget(ctx context.Context, target string) (*sapling.Project, error) {
	abs, err := resolveFilePath(target)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("path not found: %s", abs)
	}
	if info.IsDir() {
		return loadProject(ctx, abs)
	}
	p := newProject()
	if _, err := p.AddSourceFileAtPath(ctx, abs); err != nil {
		return nil, err
	}
	return p, nil
}

func collectDeclarations(p *sapling.Project) ([]CLIDeclaration, error) {
	h := p.Host()
	out := []CLIDeclaration{}
	for _, path := range h.Files() {
		decls, err := h.Declarations(path)
		if err != nil {
			return nil, err
		}
		for _, d := range decls {
			out = append(out, toCLIDeclaration(path, d))
		}
	}
	return out, nil
}

var (
	flagSet   string
	flagWrite bool
)

var declareCmd = &cobra.Command{
	Use:   "declare <file> <name>",
	Short: "Add or remove the declare keyword on a top-level declaration",
	Long:  "Toggles the declare keyword of the named declaration, or sets it with --set. Without --write the edited file text is printed instead of saved.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDeclare,
}

func init() {
	declareCmd.Flags().StringVar(&flagSet, "set", "", "set declare to true|false instead of toggling")
	declareCmd.Flags().BoolVar(&flagWrite, "write", false, "save the file after editing")
}

// parseSetFlag converts --set into the optional value accepted by
// ToggleDeclare. An empty flag toggles.
func parseSetFlag(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --set %q: must be true or false", s)
	}
	return &v, nil
}

func runDeclare(cmd *cobra.Command, args []string) error {
	value, err := parseSetFlag(flagSet)
	if err != nil {
		return outputError("declare", err)
	}
	path, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("declare", err)
	}
	p := newProject()
	if _, err := p.AddSourceFileAtPath(cmd.Context(), path); err != nil {
		return outputError("declare", err)
	}
	result, err := declare(p.Host(), path, args[1], value, flagWrite)
	if err != nil {
		return outputError("declare", err)
	}
	return outputResult(CLIResult{Command: "declare", Results: result})
}

func declare(h *sapling.ScriptHost, path, name string, value *bool, write bool) (CLIToggle, error) {
	state, err := h.ToggleDeclare(path, name, value)
	if err != nil {
		return CLIToggle{}, err
	}
	result := CLIToggle{File: path, Name: name, Declare: state, Written: write}
	if write {
		return result, h.Save(path)
	}
	result.Text, err = h.Text(path)
	return result, err
}
