package main

import (
	"fmt"
	"os"

	"github.com/jward/sapling"
	"github.com/spf13/cobra"
)

var (
	flagName string
	flagKind string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the declaration index",
	Long:  "Run queries against an indexed tree. All line and column numbers are 0-based.",
}

func init() {
	queryCmd.AddCommand(declarationsCmd)
	queryCmd.AddCommand(ambientCmd)
	queryCmd.AddCommand(filesCmd)

	declarationsCmd.Flags().StringVar(&flagName, "name", "", "filter by declaration name")
	declarationsCmd.Flags().StringVar(&flagKind, "kind", "", "filter by node kind (e.g. class_declaration)")
}

var declarationsCmd = &cobra.Command{
	Use:   "declarations",
	Short: "List indexed declarations by name or kind",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeclarationQuery("declarations", func(s *sapling.Store) ([]*sapling.IndexedDeclaration, error) {
			switch {
			case flagName != "":
				return s.DeclarationsByName(flagName)
			case flagKind != "":
				return s.DeclarationsByKind(flagKind)
			}
			return nil, fmt.Errorf("requires --name or --kind")
		})
	},
}

var ambientCmd = &cobra.Command{
	Use:   "ambient",
	Short: "List indexed ambient declarations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeclarationQuery("ambient", func(s *sapling.Store) ([]*sapling.IndexedDeclaration, error) {
			return s.AmbientDeclarations()
		})
	},
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List indexed files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return outputError("files", err)
		}
		defer s.Close()

		files, err := s.Files()
		if err != nil {
			return outputError("files", err)
		}
		out := make([]CLIFile, 0, len(files))
		for _, f := range files {
			out = append(out, CLIFile{
				ID:                f.ID,
				Path:              f.Path,
				IsDeclarationFile: f.IsDeclarationFile,
				LineCount:         f.LineCount,
			})
		}
		return outputResult(CLIResult{Command: "files", Results: out})
	},
}

func runDeclarationQuery(command string, query func(*sapling.Store) ([]*sapling.IndexedDeclaration, error)) error {
	s, err := openStore()
	if err != nil {
		return outputError(command, err)
	}
	defer s.Close()

	decls, err := query(s)
	if err != nil {
		return outputError(command, err)
	}
	out, err := indexedResults(s, decls)
	if err != nil {
		return outputError(command, err)
	}
	return outputResult(CLIResult{Command: command, Results: out})
}

// indexedResults converts store rows, resolving file ids to paths.
func indexedResults(s *sapling.Store, decls []*sapling.IndexedDeclaration) ([]CLIIndexedDeclaration, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}
	paths := make(map[int64]string, len(files))
	for _, f := range files {
		paths[f.ID] = f.Path
	}
	out := make([]CLIIndexedDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, toCLIIndexed(d, paths))
	}
	return out, nil
}

// openStore opens the Store from the --db flag path (or the config default).
func openStore() (*sapling.Store, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'sapling index' first)", dbPath)
	}
	return sapling.OpenStore(dbPath)
}
