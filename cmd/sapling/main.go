package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jward/sapling"
	"github.com/jward/sapling/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagDB       string
	flagFormat   string
	flagConfig   string
	flagLogLevel string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

// cfg is loaded once per invocation in PersistentPreRunE.
var cfg = config.Default()

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "sapling",
	Short:         "Inspect and edit ambient TypeScript declarations",
	Long:          "Sapling parses TypeScript with tree-sitter, edits declaration modifiers in place, and indexes declarations into SQLite.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		return loadConfig()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: db from sapling.toml, relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: sapling.toml in the repo root)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(declareCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadConfig reads --config, or sapling.toml from the repo root of the
// working directory when the flag is empty.
func loadConfig() error {
	path := flagConfig
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting cwd: %w", err)
		}
		path = filepath.Join(findRepoRoot(cwd), config.FileName)
	}
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		if _, err := config.ParseLevel(flagLogLevel); err != nil {
			return err
		}
		loaded.LogLevel = flagLogLevel
	}
	cfg = loaded
	return nil
}

// newLogger builds the stderr text logger for the configured level.
func newLogger() *slog.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newProject() *sapling.Project {
	return sapling.New(sapling.WithConfig(cfg), sapling.WithLogger(newLogger()))
}

// loadProject creates a project holding every source file under dir.
func loadProject(ctx context.Context, dir string) (*sapling.Project, error) {
	p := newProject()
	if _, err := p.AddSourceFilesFromDirectory(ctx, dir); err != nil {
		return nil, err
	}
	return p, nil
}

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index declarations into the SQLite database",
	Long:  "Parses every TypeScript file under path and writes its declarations to the database. Files whose content hash is unchanged are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

var flagForce bool

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return outputError("index", err)
	}
	dbPath := resolveDBPath(findRepoRoot(targetDir))

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return outputError("index", fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err))
	}
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return outputError("index", fmt.Errorf("removing database for --force: %w", err))
		}
	}

	ctx := cmd.Context()
	p, err := loadProject(ctx, targetDir)
	if err != nil {
		return outputError("index", err)
	}
	s, err := sapling.OpenStore(dbPath)
	if err != nil {
		return outputError("index", err)
	}
	defer s.Close()

	if err := p.Index(ctx, s); err != nil {
		return outputError("index", fmt.Errorf("indexing: %w", err))
	}
	summary, err := indexSummary(s, targetDir, dbPath)
	if err != nil {
		return outputError("index", err)
	}
	summary.Duration = time.Since(start).Round(time.Millisecond).String()
	return outputResult(CLIResult{Command: "index", Results: summary})
}

func indexSummary(s *sapling.Store, root, dbPath string) (CLIIndexSummary, error) {
	files, err := s.Files()
	if err != nil {
		return CLIIndexSummary{}, err
	}
	ambient, err := s.AmbientDeclarations()
	if err != nil {
		return CLIIndexSummary{}, err
	}
	epoch, err := s.GetMetadata("epoch")
	if err != nil {
		return CLIIndexSummary{}, err
	}
	return CLIIndexSummary{
		Root:         root,
		Database:     dbPath,
		Files:        len(files),
		AmbientCount: len(ambient),
		Epoch:        epoch,
	}, nil
}

// resolveTargetDir returns the absolute path of the directory to work on.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// resolveFilePath converts a file argument to an absolute path.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return filepath.Clean(file), nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the config.
func resolveDBPath(repoRoot string) string {
	db := flagDB
	if db == "" {
		db = cfg.DB
	}
	if filepath.IsAbs(db) {
		return db
	}
	return filepath.Join(repoRoot, db)
}
