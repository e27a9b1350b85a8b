package sapling

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/jward/sapling/internal/compiler"
)

func parseFile(ctx context.Context, path string) (*compiler.File, error) {
	path = filepath.Clean(path)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return compiler.Parse(ctx, path, src)
}

func parseFilesSerial(ctx context.Context, paths []string) ([]*compiler.File, error) {
	var (
		out  []*compiler.File
		errs []error
	)
	for _, path := range paths {
		cf, err := parseFile(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
			continue
		}
		out = append(out, cf)
	}
	return out, errors.Join(errs...)
}

// parseFilesParallel reads and parses files on a worker pool. Each parse
// owns its tree-sitter parser; results are returned sorted by path so that
// registration order does not depend on scheduling.
func parseFilesParallel(ctx context.Context, paths []string) ([]*compiler.File, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	numWorkers := max(1, min(runtime.NumCPU(), len(paths)))

	workCh := make(chan string, len(paths))
	for _, path := range paths {
		workCh <- path
	}
	close(workCh)

	type result struct {
		path string
		file *compiler.File
		err  error
	}
	resultCh := make(chan result, len(paths))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range workCh {
				if err := ctx.Err(); err != nil {
					resultCh <- result{path: path, err: err}
					continue
				}
				cf, err := parseFile(ctx, path)
				resultCh <- result{path: path, file: cf, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var (
		out  []*compiler.File
		errs []error
	)
	for res := range resultCh {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", res.path, res.err))
			continue
		}
		out = append(out, res.file)
	}
	slices.SortFunc(out, func(a, b *compiler.File) int { return strings.Compare(a.Path, b.Path) })
	return out, errors.Join(errs...)
}
