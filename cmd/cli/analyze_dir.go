package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/testlens-hq/testlens/internal/config"
	"github.com/testlens-hq/testlens/internal/engine"
	"github.com/testlens-hq/testlens/internal/repo"
)

// dirWorkers bounds the fan-out for directory analysis. Each worker
// owns its own engine because tree-sitter parsers are not safe for
// concurrent use.
const dirWorkers = 4

type dirResult struct {
	file       string
	class      string
	methods    int
	errorPaths int
	err        error
}

// analyzeDir walks a directory using the project config's include and
// exclude patterns and analyzes the first class in every matching file.
func analyzeDir(ctx context.Context, cmd *cobra.Command, dir string) error {
	proj, err := config.LoadProjectConfig(dir)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	files, err := repo.SourceFiles(dir, proj.Include, proj.Exclude)
	if err != nil {
		return fmt.Errorf("failed to list source files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no analyzable source files under %s", dir)
	}

	jobs := make(chan string)
	results := make(chan dirResult)

	var wg sync.WaitGroup
	for i := 0; i < dirWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			eng, done := newLocalEngine()
			defer done()

			for rel := range jobs {
				bundle, err := eng.AnalyzeClass(ctx, engine.AnalyzeRequest{
					FilePath: filepath.Join(dir, rel),
				})
				if err != nil {
					results <- dirResult{file: rel, err: err}
					continue
				}

				errorPaths := 0
				for _, m := range bundle.Methods {
					errorPaths += len(m.Flow.ErrorPaths)
				}
				results <- dirResult{
					file:       rel,
					class:      bundle.Class.Name,
					methods:    len(bundle.Methods),
					errorPaths: errorPaths,
				}
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]dirResult, 0, len(files))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].file < collected[j].file })

	out := cmd.OutOrStdout()
	analyzed := 0
	for _, r := range collected {
		if r.err != nil {
			log.Warn().Str("file", r.file).Err(r.err).Msg("skipped")
			continue
		}
		analyzed++
		fmt.Fprintf(out, "%s: class %s, %d methods, %d error paths\n",
			r.file, r.class, r.methods, r.errorPaths)
	}
	fmt.Fprintf(out, "\nAnalyzed %d of %d files\n", analyzed, len(collected))

	return nil
}
