package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/testlens-hq/testlens/internal/config"
	"github.com/testlens-hq/testlens/internal/engine"
	"github.com/testlens-hq/testlens/internal/events"
	"github.com/testlens-hq/testlens/internal/repo"
	"github.com/testlens-hq/testlens/internal/session"
	"github.com/testlens-hq/testlens/pkg/model"
)

// newLocalEngine builds an engine for one-shot CLI runs: in-process
// session store, no event publishing.
func newLocalEngine() (*engine.Engine, func()) {
	store := session.NewStore(session.Config{TTL: time.Hour})
	eng := engine.New(store, events.Nop{}, log.Logger)
	return eng, store.Close
}

func analyzeCmd() *cobra.Command {
	var (
		filePath  string
		dirPath   string
		repoURL   string
		className string
		method    string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a class and report its testing surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if dirPath != "" {
				return analyzeDir(ctx, cmd, dirPath)
			}
			if filePath == "" {
				return fmt.Errorf("either --file or --dir is required")
			}

			target := filePath
			if repoURL != "" {
				root, err := checkout(ctx, repoURL)
				if err != nil {
					return err
				}
				target = filepath.Join(root, filePath)
			}

			eng, done := newLocalEngine()
			defer done()

			bundle, err := eng.AnalyzeClass(ctx, engine.AnalyzeRequest{
				FilePath:    target,
				ClassName:   className,
				FocusMethod: method,
			})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(bundle)
			}

			printBundle(cmd, bundle)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Source file containing the class")
	cmd.Flags().StringVarP(&dirPath, "dir", "d", "", "Analyze every class under a directory instead of one file")
	cmd.Flags().StringVarP(&repoURL, "repo", "r", "", "GitHub repository to check out first (file path becomes relative to it)")
	cmd.Flags().StringVarP(&className, "class", "c", "", "Class to analyze (defaults to the first class in the file)")
	cmd.Flags().StringVarP(&method, "method", "m", "", "Restrict analysis to one method")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the full analysis bundle as JSON")

	return cmd
}

// checkout clones a repository into the configured workspace and
// returns the checkout root.
func checkout(ctx context.Context, repoURL string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	info, err := repo.ParseURL(repoURL)
	if err != nil {
		return "", fmt.Errorf("invalid repository URL: %w", err)
	}

	svc := repo.NewService(cfg.WorkspaceDir, cfg.GitHubToken)
	result, err := svc.Clone(ctx, info)
	if err != nil {
		return "", fmt.Errorf("failed to clone repository: %w", err)
	}

	return result.Path, nil
}

func printBundle(cmd *cobra.Command, bundle *model.AnalysisBundle) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Class: %s (%s)\n", bundle.Class.Name, bundle.Class.FilePath)
	fmt.Fprintf(out, "Methods: %d, Dependencies: %d\n\n", len(bundle.Methods), len(bundle.Dependencies))

	for _, dep := range bundle.Dependencies {
		fmt.Fprintf(out, "dependency %s (%s) -> mock as %s\n", dep.Name, dep.Type, dep.MockStrategy)
	}
	if len(bundle.Dependencies) > 0 {
		fmt.Fprintln(out)
	}

	for _, m := range bundle.Methods {
		flow := m.Flow
		fmt.Fprintf(out, "%s: %s complexity, %s flow, test complexity %d\n",
			flow.Name, flow.Complexity, flow.FlowType, flow.TestComplexity)
		for _, ep := range flow.ErrorPaths {
			fmt.Fprintf(out, "  error path [%s/%s]: %s\n", ep.Category, ep.Severity, ep.Condition)
		}
		for _, se := range flow.SideEffects {
			fmt.Fprintf(out, "  side effect [%s]: %s\n", se.Kind, se.Description)
		}
		fmt.Fprintf(out, "  edge cases: %d, boundary sets: %d, property tests: %d, scenarios: %d\n",
			len(m.EdgeCases), len(m.Boundaries), len(m.PropertyTests), len(m.Scenario.Cases))
	}

	if len(bundle.Patterns) > 0 {
		fmt.Fprintln(out)
		for _, p := range bundle.Patterns {
			fmt.Fprintf(out, "pattern %s: %v\n", p.Pattern, p.Methods)
		}
	}

	for _, d := range bundle.Diagnostics {
		log.Warn().Str("method", d.Method).Msg(d.Message)
	}
}
