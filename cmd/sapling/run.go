package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/jward/sapling"
	"github.com/jward/sapling/internal/watch"
	"github.com/jward/sapling/scripts"
	"github.com/spf13/cobra"
)

var flagSave bool

var runCmd = &cobra.Command{
	Use:   "run <script.risor> [path]",
	Short: "Run a Risor script against a source tree",
	Long:  "Loads every TypeScript file under path and runs the script with the sapling host functions. A name such as declare_dts.risor runs a bundled script. db_query and indexed_declarations are available when the database exists.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagSave, "save", false, "save files the script edited but did not save")
}

func runRun(cmd *cobra.Command, args []string) error {
	script, embedded, err := resolveScript(args[0])
	if err != nil {
		return outputError("run", err)
	}
	targetDir, err := resolveTargetDir(args[1:])
	if err != nil {
		return outputError("run", err)
	}
	ctx := cmd.Context()
	p, err := loadProject(ctx, targetDir)
	if err != nil {
		return outputError("run", err)
	}

	var opts []sapling.ScriptOption
	dbPath := resolveDBPath(findRepoRoot(targetDir))
	if _, err := os.Stat(dbPath); err == nil {
		s, err := sapling.OpenStore(dbPath)
		if err != nil {
			return outputError("run", err)
		}
		defer s.Close()
		opts = append(opts, sapling.WithScriptStore(s))
	}

	if embedded {
		opts = append(opts, sapling.WithScriptFS(scripts.FS))
	}
	if err := p.RunScript(ctx, script, opts...); err != nil {
		return outputError("run", err)
	}

	result := CLIRun{Script: script, Files: len(p.SourceFiles())}
	for _, sf := range p.SourceFiles() {
		if !sf.IsSaved() {
			result.Changed = append(result.Changed, sf.FilePath())
		}
	}
	if flagSave {
		if err := p.Save(); err != nil {
			return outputError("run", err)
		}
	}
	return outputResult(CLIResult{Command: "run", Results: result})
}

// resolveScript returns the script path to run and whether it names a
// bundled script. Files on disk take precedence.
func resolveScript(arg string) (string, bool, error) {
	path, err := resolveFilePath(arg)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if _, err := fs.Stat(scripts.FS, arg); err == nil {
		return arg, true, nil
	}
	return "", false, fmt.Errorf("script not found: %s", arg)
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Keep the declaration index current while files change",
	Long:  "Indexes path, then re-reads and re-indexes changed TypeScript files until interrupted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return outputError("watch", err)
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := loadProject(ctx, targetDir)
	if err != nil {
		return outputError("watch", err)
	}
	s, err := sapling.OpenStore(resolveDBPath(findRepoRoot(targetDir)))
	if err != nil {
		return outputError("watch", err)
	}
	defer s.Close()

	w, err := watch.New(targetDir,
		watch.WithLogger(p.Logger()),
		watch.WithSkipDir(p.Config().SkipDir),
	)
	if err != nil {
		return outputError("watch", err)
	}
	defer w.Close()

	if err := p.Index(ctx, s); err != nil {
		return outputError("watch", err)
	}
	p.Logger().Info("watching", "root", targetDir, "files", len(p.SourceFiles()))

	if err := watchLoop(ctx, p, s, w.Changes()); err != nil {
		return outputError("watch", err)
	}
	return nil
}

// watchLoop applies change batches and re-indexes until ctx is done or the
// channel closes.
func watchLoop(ctx context.Context, p *sapling.Project, s *sapling.Store, changes <-chan []string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-changes:
			if !ok {
				return nil
			}
			changed, err := p.ApplyChanges(ctx, batch)
			if err != nil {
				p.Logger().Warn("apply changes", "error", err)
			}
			if len(changed) == 0 {
				continue
			}
			if err := p.Index(ctx, s); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			p.Logger().Info("reindexed", "files", len(changed))
		}
	}
}
