package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/testlens-hq/testlens/internal/parser"
)

var version = "dev"

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:     "testlens",
		Short:   "testlens - class-level unit test analysis and planning",
		Long:    `testlens inspects a TypeScript or JavaScript class and plans the unit tests it needs.`,
		Version: version,
	}

	// Add subcommands
	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(planCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a source file and show extracted classes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			p := parser.NewParser()
			parsed, err := p.ParseFile(ctx, filePath)
			if err != nil {
				return fmt.Errorf("failed to parse file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", parsed.Path)
			fmt.Fprintf(out, "Language: %s\n", parsed.Language)
			fmt.Fprintf(out, "Classes: %d\n\n", len(parsed.Classes))

			for _, cls := range parsed.Classes {
				fmt.Fprintf(out, "class %s [lines %d-%d]\n", cls.Name, cls.StartLine, cls.EndLine)
				if len(cls.Dependencies) > 0 {
					fmt.Fprintf(out, "  dependencies:\n")
					for _, dep := range cls.Dependencies {
						fmt.Fprintf(out, "    %s: %s\n", dep.Name, dep.Type)
					}
				}
				for i, m := range cls.Methods {
					async := ""
					if m.Async {
						async = " async"
					}
					fmt.Fprintf(out, "  %d. %s%s (%s) [lines %d-%d]\n",
						i+1, m.Name, async, m.Visibility, m.StartLine, m.EndLine)
					for _, p := range m.Params {
						optional := ""
						if p.Optional || p.Default != "" {
							optional = "?"
						}
						fmt.Fprintf(out, "     - %s%s: %s\n", p.Name, optional, p.Type)
					}
				}
				fmt.Fprintln(out)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Source file to parse")
	cmd.MarkFlagRequired("file")

	return cmd
}
