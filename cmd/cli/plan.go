package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/testlens-hq/testlens/internal/config"
	"github.com/testlens-hq/testlens/internal/engine"
	"github.com/testlens-hq/testlens/pkg/model"
)

// planExport is the YAML shape written by `testlens plan --yaml`, so a
// plan can be checked into the repository alongside the class.
type planExport struct {
	Class       string        `yaml:"class"`
	File        string        `yaml:"file"`
	TestType    string        `yaml:"test_type"`
	Methodology string        `yaml:"methodology"`
	TotalTime   string        `yaml:"estimated_time"`
	Phases      []phaseExport `yaml:"phases"`
}

type phaseExport struct {
	Number      int      `yaml:"phase"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Priority    string   `yaml:"priority"`
	Time        string   `yaml:"estimated_time"`
	Methods     []string `yaml:"methods"`
}

func planCmd() *cobra.Command {
	var (
		filePath  string
		className string
		testType  string
		asYAML    bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a phased test plan for a class",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// Project config supplies defaults the flags can override
			proj, err := config.LoadProjectConfig(filepath.Dir(filePath))
			if err != nil {
				return fmt.Errorf("failed to load project config: %w", err)
			}
			if testType == "" {
				testType = proj.Planning.TestType
			}

			eng, done := newLocalEngine()
			defer done()

			sess, plan, err := eng.CreateSession(ctx, engine.SessionRequest{
				FilePath:   filePath,
				ClassName:  className,
				TestType:   testType,
				OutputPath: proj.Planning.OutputPath,
			})
			if err != nil {
				return fmt.Errorf("planning failed: %w", err)
			}

			if asYAML {
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(exportPlan(sess, plan))
			}

			printPlan(cmd, sess, plan)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Source file containing the class")
	cmd.Flags().StringVarP(&className, "class", "c", "", "Class to plan for (defaults to the first class in the file)")
	cmd.Flags().StringVarP(&testType, "type", "t", "", "Test type tag (unit, integration, e2e)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Emit the plan as YAML")
	cmd.MarkFlagRequired("file")

	return cmd
}

func exportPlan(sess *model.Session, plan *model.Plan) planExport {
	out := planExport{
		Class:       sess.ClassName,
		File:        sess.FilePath,
		TestType:    sess.TestType,
		Methodology: plan.Methodology,
		TotalTime:   fmt.Sprintf("%dm", plan.TotalEstimatedMinutes),
	}
	for _, ph := range plan.Phases {
		out.Phases = append(out.Phases, phaseExport{
			Number:      ph.Number,
			Name:        ph.Name,
			Description: ph.Description,
			Priority:    string(ph.Priority),
			Time:        fmt.Sprintf("%dm", ph.EstimatedMinutes),
			Methods:     ph.Methods,
		})
	}
	return out
}

func printPlan(cmd *cobra.Command, sess *model.Session, plan *model.Plan) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Test plan for %s (%s)\n", sess.ClassName, sess.FilePath)
	fmt.Fprintf(out, "Methods: %d, estimated time: %dm, methodology: %s\n\n",
		len(sess.Methods), plan.TotalEstimatedMinutes, plan.Methodology)

	for _, ph := range plan.Phases {
		fmt.Fprintf(out, "Phase %d: %s (%s priority, ~%dm)\n",
			ph.Number, ph.Name, ph.Priority, ph.EstimatedMinutes)
		fmt.Fprintf(out, "  %s\n", ph.Description)
		for _, m := range ph.Methods {
			status := sess.Status(m)
			fmt.Fprintf(out, "  - %s (complexity %d, %d error paths)\n",
				m, status.Complexity, status.ErrorPathCount)
		}
		fmt.Fprintln(out)
	}
}
