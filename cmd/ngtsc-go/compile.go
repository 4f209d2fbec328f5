package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"ngtsc-go/packages/compiler-cli/ngtsc/annotations"
	"ngtsc-go/packages/compiler-cli/ngtsc/cycles"
	"ngtsc-go/packages/compiler-cli/ngtsc/diagnostics"
	"ngtsc-go/packages/compiler-cli/ngtsc/imports"
	"ngtsc-go/packages/compiler-cli/ngtsc/partialeval"
	"ngtsc-go/packages/compiler-cli/ngtsc/resource"
	"ngtsc-go/packages/compiler-cli/ngtsc/scope"
	"ngtsc-go/packages/compiler-cli/ngtsc/transform"
	"ngtsc-go/packages/compiler-cli/ngtsc/typecheck"
	constant "ngtsc-go/packages/compiler/pool"
)

const resourceCacheSize = 256

// compiledComponent is one component that made it through every phase.
type compiledComponent struct {
	unit   *componentUnit
	result *transform.CompileResult
}

func runCompile(projectDir string) error {
	log := newLogger()
	started := time.Now()

	manifest, err := loadManifest(path.Join(projectDir, manifestName))
	if err != nil {
		return err
	}
	project, err := buildProject(manifest, projectDir)
	if err != nil {
		return err
	}
	if len(project.components) == 0 {
		log.Warn("no components declared in manifest", "project", projectDir)
		return nil
	}

	loader, err := resource.NewFileLoader(path.Clean(projectDir), resourceCacheSize)
	if err != nil {
		return err
	}
	graph := cycles.NewImportGraph()
	for _, edge := range manifest.Imports {
		graph.AddImport(path.Join(projectDir, edge.From), path.Join(projectDir, edge.To))
	}
	registry := scope.NewLocalRegistry()
	if err := project.register(registry); err != nil {
		return err
	}

	handler := annotations.NewComponentDecoratorHandler(
		partialeval.NewLiteralEvaluator(),
		registry,
		loader,
		graph,
		imports.NewModuleEmitter(),
		annotations.ComponentHandlerOptions{
			RootDirs:                   project.rootDirs,
			DefaultPreserveWhitespaces: manifest.PreserveWhitespaces,
			I18nUseExternalIds:         manifest.I18nUseExternalIds,
			Logger:                     log,
		},
	)

	// Detect. Every manifest component carries a decorator the handler
	// recognizes; a miss is a manifest bug, not a compile error.
	var units []*componentUnit
	for _, unit := range project.components {
		if handler.Detect(unit.clazz, unit.clazz.Decorators) == nil {
			log.Warn("class is not a component", "class", unit.clazz.Name)
			continue
		}
		units = append(units, unit)
	}

	// Preanalyze every component concurrently so external templates and
	// stylesheets are fetched before analysis needs them. Fetch failures are
	// not fatal here; analysis reports them with a proper diagnostic.
	g, ctx := errgroup.WithContext(context.Background())
	for _, unit := range units {
		wait, ok := handler.Preanalyze(ctx, unit.clazz, unit.clazz.Decorators[0])
		if !ok {
			break
		}
		if wait == nil {
			continue
		}
		name := unit.clazz.Name
		g.Go(func() error {
			if err := <-wait; err != nil {
				log.Debug("preload incomplete", "class", name, "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Analyze, then type check, resolve and compile what survived. One
	// constant pool spans the whole emit so literals shared between
	// components collapse into one definition.
	diagnosticCount := 0
	analyses := make(map[*componentUnit]*annotations.ComponentAnalysis)
	for _, unit := range units {
		analysis, err := handler.Analyze(unit.clazz, unit.clazz.Decorators[0])
		if err != nil {
			reportDiagnostic(unit.clazz.Name, err)
			diagnosticCount++
			continue
		}
		if analysis == nil {
			log.Info("component opted out of compilation", "class", unit.clazz.Name)
			continue
		}
		analyses[unit] = analysis
	}

	checker := typecheck.NewRecordingContext()
	for _, unit := range units {
		if analysis, ok := analyses[unit]; ok {
			handler.TypeCheck(checker, unit.clazz, analysis)
		}
	}

	pool := constant.NewConstantPool()
	var compiled []*compiledComponent
	for _, unit := range units {
		analysis, ok := analyses[unit]
		if !ok {
			continue
		}
		resolution, err := handler.Resolve(unit.clazz, analysis)
		if err != nil {
			reportDiagnostic(unit.clazz.Name, err)
			diagnosticCount++
			continue
		}
		result, err := handler.Compile(unit.clazz, analysis, resolution, pool)
		if err != nil {
			reportDiagnostic(unit.clazz.Name, err)
			diagnosticCount++
			continue
		}
		compiled = append(compiled, &compiledComponent{unit: unit, result: result})
		log.Debug("compiled component",
			"class", unit.clazz.Name,
			"scope", fmt.Sprintf("%d", resolution.State))
	}

	dist := outDir
	if dist == "" {
		dist = path.Join(projectDir, "dist")
	}
	if len(compiled) > 0 {
		if err := writeOutput(dist, pool, compiled); err != nil {
			return err
		}
	}

	elapsed := time.Since(started).Round(time.Millisecond)
	if diagnosticCount > 0 {
		color.New(color.FgRed).Fprintf(os.Stderr, "compiled %d of %d components, %d failed (%s)\n",
			len(compiled), len(units), diagnosticCount, elapsed)
		return fmt.Errorf("compilation finished with %d error(s)", diagnosticCount)
	}
	color.New(color.FgGreen).Fprintf(os.Stderr, "compiled %d components (%s)\n", len(compiled), elapsed)
	return nil
}

// reportDiagnostic prints a compile error for one component. Fatal errors
// carry a code and a source location; anything else is an internal failure.
func reportDiagnostic(className string, err error) {
	var fatal *diagnostics.FatalError
	if errors.As(err, &fatal) {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error NG%04d", int(fatal.Code))
		fmt.Fprintf(os.Stderr, ": %s: %s\n", className, fatal.Message)
		if fatal.Range.File != "" {
			color.New(color.Faint).Fprintf(os.Stderr, "  at %s:%d\n", fatal.Range.File, fatal.Range.Start)
		}
		return
	}
	color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error")
	fmt.Fprintf(os.Stderr, ": %s: %v\n", className, err)
}
