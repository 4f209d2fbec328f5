package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	manifestName string
	outDir       string
	verbose      bool
)

func main() {
	root := &cobra.Command{
		Use:           "ngtsc-go",
		Short:         "Ahead-of-time component compiler",
		Long:          "ngtsc-go compiles the components declared in a project manifest\ninto render definitions, resolving external templates and stylesheets\nand wiring each component to the directives and pipes in its scope.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	compileCmd := &cobra.Command{
		Use:   "compile [project-dir]",
		Short: "Compile every component declared in the project manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := "."
			if len(args) == 1 {
				projectDir = args[0]
			}
			return runCompile(projectDir)
		},
	}
	compileCmd.Flags().StringVar(&manifestName, "manifest", "ngtsc.toml", "project manifest, relative to the project directory")
	compileCmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default <project-dir>/dist)")
	root.AddCommand(compileCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
