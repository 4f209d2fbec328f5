// Package annotations implements the decorator handlers of the compiler: the
// pipeline that takes an annotated class from detection through analysis and
// scope resolution to code emission.
package annotations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"ngtsc-go/packages/compiler-cli/ngtsc/cycles"
	"ngtsc-go/packages/compiler-cli/ngtsc/diagnostics"
	"ngtsc-go/packages/compiler-cli/ngtsc/imports"
	"ngtsc-go/packages/compiler-cli/ngtsc/partialeval"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler-cli/ngtsc/resource"
	"ngtsc-go/packages/compiler-cli/ngtsc/scope"
	"ngtsc-go/packages/compiler-cli/ngtsc/transform"
	"ngtsc-go/packages/compiler-cli/ngtsc/typecheck"
	"ngtsc-go/packages/compiler/core"
	"ngtsc-go/packages/compiler/css"
	"ngtsc-go/packages/compiler/output"
	constant "ngtsc-go/packages/compiler/pool"
	"ngtsc-go/packages/compiler/render3/view"
	"ngtsc-go/packages/compiler/template"
	"ngtsc-go/packages/compiler/util"
)

// componentFieldName is the static field the compiled definition is assigned to.
const componentFieldName = "ɵcmp"

// ParsedComponentTemplate is a component template after parsing, together
// with where its text came from. An inline literal template keeps the source
// range of its content (excluding the quote characters) for source mapping;
// a computed inline template has no range; an external template records the
// resolved resource URL.
type ParsedComponentTemplate struct {
	*template.ParsedTemplate

	IsInline    bool
	ResolvedURL string
	SourceRange *reflection.SourceRange
}

// ComponentAnalysis is the immutable output of the analysis phase. The
// directive and pipe placeholders stay empty here; scope resolution produces
// a separate ScopeResolution that Compile merges in.
type ComponentAnalysis struct {
	Meta     view.R3ComponentMetadata
	Template *ParsedComponentTemplate

	// MetadataStmt is the runtime reflection statement appended to the
	// compiled output.
	MetadataStmt output.OutputStatement
}

// ScopeState tags the outcome of scope resolution for one component.
type ScopeState int

const (
	// ScopeStateUnscoped means the component is not declared in any module;
	// its dependency placeholders stay empty permanently.
	ScopeStateUnscoped ScopeState = iota

	// ScopeStateScoped means the dependencies were fully resolved.
	ScopeStateScoped

	// ScopeStateRemoteScoped means reference emission would have introduced
	// an import cycle; the component was flagged for the remote scoping
	// strategy and its placeholders stay empty.
	ScopeStateRemoteScoped
)

// ScopeResolution is the outcome of the resolve phase, merged into the
// analysis metadata at compile time.
type ScopeResolution struct {
	State ScopeState

	// Declarations holds the resolved template dependencies. Only populated
	// in the Scoped state.
	Declarations []view.R3TemplateDependency

	// EmitMode is Closure when any resolved dependency is a forward
	// reference within the component's own file.
	EmitMode view.DeclarationListEmitMode
}

// ComponentHandlerOptions carries the driver-level settings of the handler.
type ComponentHandlerOptions struct {
	// RootDirs are the configured root directories, in order. Relative
	// context paths embedded in emitted metadata are computed against them.
	RootDirs []string

	DefaultPreserveWhitespaces bool
	I18nUseExternalIds         bool

	// IsCore permits unqualified decorator references, for compiling the
	// framework's own internals.
	IsCore bool

	Logger *slog.Logger
}

// ComponentDecoratorHandler compiles classes decorated with @Component. The
// driver invokes the phases in order: Detect, optionally Preanalyze, then
// Analyze, TypeCheck, Resolve and Compile.
type ComponentDecoratorHandler struct {
	evaluator     partialeval.Evaluator
	scopes        scope.Registry
	loader        resource.Loader
	cycleAnalyzer cycles.Analyzer
	refEmitter    imports.ReferenceEmitter

	rootDirs                   []string
	defaultPreserveWhitespaces bool
	i18nUseExternalIds         bool
	isCore                     bool
	log                        *slog.Logger

	literals *decoratorLiteralCache

	mu        sync.Mutex
	preloaded map[*reflection.ClassDeclaration]*ParsedComponentTemplate
}

// NewComponentDecoratorHandler creates a new ComponentDecoratorHandler
func NewComponentDecoratorHandler(
	evaluator partialeval.Evaluator,
	scopes scope.Registry,
	loader resource.Loader,
	cycleAnalyzer cycles.Analyzer,
	refEmitter imports.ReferenceEmitter,
	opts ComponentHandlerOptions,
) *ComponentDecoratorHandler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &ComponentDecoratorHandler{
		evaluator:                  evaluator,
		scopes:                     scopes,
		loader:                     loader,
		cycleAnalyzer:              cycleAnalyzer,
		refEmitter:                 refEmitter,
		rootDirs:                   opts.RootDirs,
		defaultPreserveWhitespaces: opts.DefaultPreserveWhitespaces,
		i18nUseExternalIds:         opts.I18nUseExternalIds,
		isCore:                     opts.IsCore,
		log:                        log,
		literals:                   newDecoratorLiteralCache(),
		preloaded:                  make(map[*reflection.ClassDeclaration]*ParsedComponentTemplate),
	}
}

// Detect matches the Component decorator on a class. It performs no analysis
// and has no side effects.
func (h *ComponentDecoratorHandler) Detect(clazz *reflection.ClassDeclaration, decorators []*reflection.Decorator) *transform.DetectResult {
	for _, decorator := range decorators {
		if isAngularDecorator(decorator, "Component", h.isCore) {
			return &transform.DetectResult{Trigger: decorator}
		}
	}
	return nil
}

// Preanalyze fetches the component's external resources ahead of analysis.
// It returns false when the loader does not support preloading at all;
// otherwise the returned channel yields the preload outcome and is closed.
// The parsed template is cached so Analyze does not parse it again.
func (h *ComponentDecoratorHandler) Preanalyze(ctx context.Context, clazz *reflection.ClassDeclaration, decorator *reflection.Decorator) (<-chan error, bool) {
	if !h.loader.CanPreload() {
		return nil, false
	}
	result := make(chan error, 1)
	go func() {
		defer close(result)
		if err := h.preload(ctx, clazz, decorator); err != nil {
			result <- err
		}
	}()
	return result, true
}

func (h *ComponentDecoratorHandler) preload(ctx context.Context, clazz *reflection.ClassDeclaration, decorator *reflection.Decorator) error {
	component, err := h.literals.resolve(decorator)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	// Literal-declared style urls preload concurrently with the template
	// tier. Values of the wrong shape are skipped here; analysis raises the
	// type error.
	if expr, ok := component.Get("styleUrls"); ok {
		if urls, ok := h.evaluator.Evaluate(expr).([]any); ok {
			for _, value := range urls {
				if url, ok := value.(string); ok {
					h.preloadStyle(gctx, g, url, clazz.FileName)
				}
			}
		}
	}

	g.Go(func() error {
		parsed, err := h.preloadTemplate(gctx, clazz, component)
		if err != nil || parsed == nil {
			return err
		}
		h.mu.Lock()
		h.preloaded[clazz] = parsed
		h.mu.Unlock()
		// Template-discovered style urls can only start once the template
		// itself has been fetched and parsed.
		for _, url := range parsed.StyleUrls {
			h.preloadStyle(gctx, g, url, clazz.FileName)
		}
		return nil
	})

	return g.Wait()
}

// preloadStyle starts an asynchronous fetch of one stylesheet. Fetch
// failures are not surfaced here; the synchronous load during analysis
// reports them with a proper diagnostic anchor.
func (h *ComponentDecoratorHandler) preloadStyle(ctx context.Context, g *errgroup.Group, url, containingFile string) {
	g.Go(func() error {
		if !css.IsStyleUrlResolvable(url) {
			return nil
		}
		resolved, err := h.loader.Resolve(url, containingFile)
		if err != nil {
			return nil
		}
		if wait := h.loader.Preload(ctx, resolved); wait != nil {
			<-wait
		}
		return nil
	})
}

// preloadTemplate fetches and parses the component template ahead of time.
// A loader that declines to preload the template resource resolves to no
// template; analysis then performs the load synchronously and reports any
// real failure there.
func (h *ComponentDecoratorHandler) preloadTemplate(ctx context.Context, clazz *reflection.ClassDeclaration, component *reflection.ObjectLiteral) (*ParsedComponentTemplate, error) {
	if expr, ok := component.Get("templateUrl"); ok {
		url, ok := h.evaluator.Evaluate(expr).(string)
		if !ok {
			return nil, nil
		}
		resolved, err := h.loader.Resolve(url, clazz.FileName)
		if err != nil {
			return nil, nil
		}
		wait := h.loader.Preload(ctx, resolved)
		if wait == nil {
			return nil, nil
		}
		if err := <-wait; err != nil {
			return nil, nil
		}
		content, err := h.loader.Load(resolved)
		if err != nil {
			return nil, nil
		}
		options, err := h.parseOptions(component)
		if err != nil {
			return nil, err
		}
		return &ParsedComponentTemplate{
			ParsedTemplate: template.ParseTemplate(content, resolved, options),
			ResolvedURL:    resolved,
		}, nil
	}

	if expr, ok := component.Get("template"); ok {
		// An inline template needs no fetching; it is parsed immediately so
		// its embedded style urls join the preload.
		parsed, err := h.parseInlineTemplate(clazz, component, expr)
		if diagnostics.IsFatalError(err) {
			// Type errors on the template field are anchored by analysis.
			return nil, nil
		}
		return parsed, err
	}
	return nil, nil
}

// Analyze produces the component metadata record. It returns (nil, nil) when
// the component opts out of ahead-of-time compilation via the `jit` flag.
func (h *ComponentDecoratorHandler) Analyze(clazz *reflection.ClassDeclaration, decorator *reflection.Decorator) (*ComponentAnalysis, error) {
	component, err := h.literals.resolve(decorator)
	if err != nil {
		return nil, err
	}
	// The literal has now been consumed; drop it from the cache.
	h.literals.evict(decorator)

	if expr, ok := component.Get("jit"); ok {
		if jit, ok := h.evaluator.Evaluate(expr).(bool); ok && jit {
			return nil, nil
		}
	}

	base, err := extractDirectiveMetadata(clazz, component, h.evaluator, h.isCore)
	if err != nil {
		return nil, err
	}

	relativeContextFilePath := relativeToRootDirs(clazz.FileName, h.rootDirs)

	parsed, err := h.acquireTemplate(clazz, decorator, component)
	if err != nil {
		return nil, err
	}

	if len(parsed.Errors) > 0 {
		messages := make([]string, len(parsed.Errors))
		for i, parseError := range parsed.Errors {
			messages[i] = parseError.ContextualMessage()
		}
		errorRange := decorator.Range
		if parsed.SourceRange != nil {
			errorRange = *parsed.SourceRange
		}
		return nil, diagnostics.NewFatalError(
			diagnostics.ErrorCodeTemplateParseError,
			errorRange,
			fmt.Sprintf("errors parsing template: %s", strings.Join(messages, ", ")))
	}

	if base.Directive.Selector != nil {
		h.scopes.RegisterDirective(&scope.Directive{
			Ref:         imports.NewReference(clazz),
			Name:        clazz.Name,
			Selector:    *base.Directive.Selector,
			Inputs:      base.Directive.Inputs,
			Outputs:     base.Directive.Outputs,
			ExportAs:    base.Directive.ExportAs,
			QueryFields: base.QueryFields,
			IsComponent: true,
		})
	}

	styles, err := h.collectStyles(clazz, decorator, component, parsed)
	if err != nil {
		return nil, err
	}

	encapsulation := core.ViewEncapsulationEmulated
	if expr, ok := component.Get("encapsulation"); ok {
		value, err := evaluateToEnumMember(h.evaluator, expr, "encapsulation", core.IsViewEncapsulation)
		if err != nil {
			return nil, err
		}
		encapsulation = core.ViewEncapsulation(value)
	}

	var changeDetection *core.ChangeDetectionStrategy
	if expr, ok := component.Get("changeDetection"); ok {
		value, err := evaluateToEnumMember(h.evaluator, expr, "changeDetection", core.IsChangeDetectionStrategy)
		if err != nil {
			return nil, err
		}
		strategy := core.ChangeDetectionStrategy(value)
		changeDetection = &strategy
	}

	var animations, viewProviders output.OutputExpression
	if expr, ok := component.Get("animations"); ok {
		animations = output.WrapNode(expr)
	}
	if expr, ok := component.Get("viewProviders"); ok {
		viewProviders = output.WrapNode(expr)
	}

	meta := view.R3ComponentMetadata{
		R3DirectiveMetadata: base.Directive,
		Template: view.R3ComponentTemplateMetadata{
			Nodes:               parsed.Nodes,
			NgContentSelectors:  parsed.NgContentSelectors,
			PreserveWhitespaces: parsed.PreserveWhitespaces,
		},
		DeclarationListEmitMode: view.DeclarationListEmitModeDirect,
		Styles:                  styles,
		Encapsulation:           encapsulation,
		ChangeDetection:         changeDetection,
		Animations:              animations,
		ViewProviders:           viewProviders,
		RelativeContextFilePath: relativeContextFilePath,
		I18nUseExternalIds:      h.i18nUseExternalIds,
		Interpolation:           parsed.Interpolation,
	}

	return &ComponentAnalysis{
		Meta:         meta,
		Template:     parsed,
		MetadataStmt: generateSetClassMetadata(clazz, decorator),
	}, nil
}

// acquireTemplate reuses the preload-phase template when one was cached
// (evicting it), and otherwise obtains the template synchronously. Both
// paths produce identical results.
func (h *ComponentDecoratorHandler) acquireTemplate(clazz *reflection.ClassDeclaration, decorator *reflection.Decorator, component *reflection.ObjectLiteral) (*ParsedComponentTemplate, error) {
	h.mu.Lock()
	parsed, ok := h.preloaded[clazz]
	if ok {
		delete(h.preloaded, clazz)
	}
	h.mu.Unlock()
	if ok {
		return parsed, nil
	}

	if expr, ok := component.Get("templateUrl"); ok {
		url, err := evaluateToString(h.evaluator, expr, "templateUrl")
		if err != nil {
			return nil, err
		}
		resolved, err := h.loader.Resolve(url, clazz.FileName)
		if err != nil {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeComponentResourceNotFound,
				expr.Range(),
				fmt.Sprintf("could not resolve template %s: %v", url, err))
		}
		content, err := h.loader.Load(resolved)
		if err != nil {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeComponentResourceNotFound,
				expr.Range(),
				fmt.Sprintf("could not read template %s: %v", url, err))
		}
		options, err := h.parseOptions(component)
		if err != nil {
			return nil, err
		}
		return &ParsedComponentTemplate{
			ParsedTemplate: template.ParseTemplate(content, resolved, options),
			ResolvedURL:    resolved,
		}, nil
	}

	if expr, ok := component.Get("template"); ok {
		return h.parseInlineTemplate(clazz, component, expr)
	}

	return nil, diagnostics.NewFatalError(
		diagnostics.ErrorCodeComponentMissingTemplate,
		decorator.Range,
		"component is missing a template")
}

// parseInlineTemplate parses the `template` field. A literal string keeps
// the source range of its content for source mapping; any other expression
// is statically evaluated and loses the mapping.
func (h *ComponentDecoratorHandler) parseInlineTemplate(clazz *reflection.ClassDeclaration, component *reflection.ObjectLiteral, expr reflection.Expression) (*ParsedComponentTemplate, error) {
	options, err := h.parseOptions(component)
	if err != nil {
		return nil, err
	}
	if literal, ok := expr.(*reflection.StringLiteral); ok {
		r := literal.Range()
		// The range covers the literal including its quotes; the template
		// content starts one character in on either side.
		contentRange := &reflection.SourceRange{File: r.File, Start: r.Start + 1, End: r.End - 1}
		return &ParsedComponentTemplate{
			ParsedTemplate: template.ParseTemplate(literal.Value, clazz.FileName, options),
			IsInline:       true,
			SourceRange:    contentRange,
		}, nil
	}
	content, err := evaluateToString(h.evaluator, expr, "template")
	if err != nil {
		return nil, err
	}
	return &ParsedComponentTemplate{
		ParsedTemplate: template.ParseTemplate(content, clazz.FileName, options),
		IsInline:       true,
	}, nil
}

func (h *ComponentDecoratorHandler) parseOptions(component *reflection.ObjectLiteral) (template.ParseOptions, error) {
	options := template.ParseOptions{PreserveWhitespaces: h.defaultPreserveWhitespaces}
	if expr, ok := component.Get("preserveWhitespaces"); ok {
		preserve, err := evaluateToBool(h.evaluator, expr, "preserveWhitespaces")
		if err != nil {
			return options, err
		}
		options.PreserveWhitespaces = preserve
	}
	if expr, ok := component.Get("interpolation"); ok {
		markers, err := evaluateToStrings(h.evaluator, expr, "interpolation")
		if err != nil {
			return options, err
		}
		if err := util.AssertInterpolationSymbols("interpolation", markers); err != nil {
			return options, diagnostics.NewFatalError(
				diagnostics.ErrorCodeValueHasWrongType, expr.Range(), err.Error())
		}
		options.InterpolationConfig = template.NewInterpolationConfig(markers)
	}
	return options, nil
}

// collectStyles assembles the component style list in its fixed order:
// externally-loaded stylesheets (configured urls first, template-discovered
// urls appended), then configured literal styles, then styles embedded in
// the template itself.
func (h *ComponentDecoratorHandler) collectStyles(clazz *reflection.ClassDeclaration, decorator *reflection.Decorator, component *reflection.ObjectLiteral, parsed *ParsedComponentTemplate) ([]string, error) {
	var urls []string
	if expr, ok := component.Get("styleUrls"); ok {
		configured, err := evaluateToStrings(h.evaluator, expr, "styleUrls")
		if err != nil {
			return nil, err
		}
		urls = append(urls, configured...)
	}
	urls = append(urls, parsed.StyleUrls...)

	styles := []string{}
	for _, url := range urls {
		if !css.IsStyleUrlResolvable(url) {
			continue
		}
		resolved, err := h.loader.Resolve(url, clazz.FileName)
		if err != nil {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeComponentResourceNotFound,
				decorator.Range,
				fmt.Sprintf("could not resolve stylesheet %s: %v", url, err))
		}
		content, err := h.loader.Load(resolved)
		if err != nil {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeComponentResourceNotFound,
				decorator.Range,
				fmt.Sprintf("could not read stylesheet %s: %v", url, err))
		}
		styles = append(styles, content)
	}

	if expr, ok := component.Get("styles"); ok {
		literal, err := evaluateToStrings(h.evaluator, expr, "styles")
		if err != nil {
			return nil, err
		}
		styles = append(styles, literal...)
	}

	styles = append(styles, parsed.Styles...)
	return styles, nil
}

// TypeCheck binds the analyzed template against the component's compilation
// scope and registers the result with the type-check context. It is
// read-only with respect to the analysis.
func (h *ComponentDecoratorHandler) TypeCheck(ctx typecheck.Context, clazz *reflection.ClassDeclaration, analysis *ComponentAnalysis) {
	if ctx == nil || analysis == nil {
		return
	}
	componentScope := h.scopes.GetScopeForComponent(clazz)
	if componentScope == nil {
		return
	}
	binder := view.NewR3TargetBinder(scopeMatcher(componentScope))
	bound := binder.Bind(view.Target{Template: analysis.Template.Nodes})
	ctx.AddTemplate(clazz, bound)
}

// Resolve populates the component's dependency placeholders from its
// compilation scope. If emitting any in-scope reference would introduce an
// import cycle, the component is flagged for remote scoping instead and the
// placeholders stay empty.
func (h *ComponentDecoratorHandler) Resolve(clazz *reflection.ClassDeclaration, analysis *ComponentAnalysis) (*ScopeResolution, error) {
	componentScope := h.scopes.GetScopeForComponent(clazz)
	if componentScope == nil {
		return &ScopeResolution{State: ScopeStateUnscoped}, nil
	}

	directiveExprs := make([]output.OutputExpression, len(componentScope.Directives))
	for i, directive := range componentScope.Directives {
		expr, err := h.refEmitter.Emit(directive.Ref, clazz.FileName)
		if err != nil {
			return nil, err
		}
		directiveExprs[i] = expr
	}
	pipeExprs := make([]output.OutputExpression, len(componentScope.Pipes))
	for i, pipe := range componentScope.Pipes {
		expr, err := h.refEmitter.Emit(pipe.Ref, clazz.FileName)
		if err != nil {
			return nil, err
		}
		pipeExprs[i] = expr
	}

	// Every emitted reference is checked before any placeholder is
	// populated; a single cycle abandons the whole resolution pass.
	cycle := false
	for _, directive := range componentScope.Directives {
		if h.referenceWouldCycle(clazz, directive.Ref) {
			cycle = true
			break
		}
	}
	if !cycle {
		for _, pipe := range componentScope.Pipes {
			if h.referenceWouldCycle(clazz, pipe.Ref) {
				cycle = true
				break
			}
		}
	}
	if cycle {
		h.log.Info("import cycle detected during scope resolution, switching to remote scoping",
			"component", clazz.Name, "file", clazz.FileName)
		h.scopes.SetComponentRemoteScoped(clazz)
		return &ScopeResolution{State: ScopeStateRemoteScoped}, nil
	}

	declarations := make([]view.R3TemplateDependency, 0, len(componentScope.Directives)+len(componentScope.Pipes))
	emitMode := view.DeclarationListEmitModeDirect
	for i, directive := range componentScope.Directives {
		declarations = append(declarations, view.R3TemplateDependency{
			Kind:        view.R3TemplateDependencyKindDirective,
			Type:        directiveExprs[i],
			Selector:    directive.Selector,
			Inputs:      sortedBindingNames(directive.Inputs),
			Outputs:     sortedBindingNames(directive.Outputs),
			IsComponent: directive.IsComponent,
		})
		if isForwardReference(clazz, directive.Ref) {
			emitMode = view.DeclarationListEmitModeClosure
		}
		h.recordReference(clazz, directive.Ref)
	}
	for i, pipe := range componentScope.Pipes {
		declarations = append(declarations, view.R3TemplateDependency{
			Kind: view.R3TemplateDependencyKindPipe,
			Type: pipeExprs[i],
			Name: pipe.Name,
		})
		if isForwardReference(clazz, pipe.Ref) {
			emitMode = view.DeclarationListEmitModeClosure
		}
		h.recordReference(clazz, pipe.Ref)
	}

	// Bind the template against the real directive set to find what it
	// actually uses, and record those edges as well.
	binder := view.NewR3TargetBinder(scopeMatcher(componentScope))
	bound := binder.Bind(view.Target{Template: analysis.Template.Nodes})
	for _, used := range bound.GetUsedDirectives() {
		h.recordReference(clazz, used.Ref)
	}
	usedPipes := make(map[string]bool)
	for _, name := range bound.GetUsedPipes() {
		usedPipes[name] = true
	}
	for _, pipe := range componentScope.Pipes {
		if usedPipes[pipe.Name] {
			h.recordReference(clazz, pipe.Ref)
		}
	}

	return &ScopeResolution{
		State:        ScopeStateScoped,
		Declarations: declarations,
		EmitMode:     emitMode,
	}, nil
}

// Compile merges the scope resolution into the analyzed metadata, delegates
// to the metadata-to-code backend and appends the reflection statement.
func (h *ComponentDecoratorHandler) Compile(clazz *reflection.ClassDeclaration, analysis *ComponentAnalysis, resolution *ScopeResolution, constantPool *constant.ConstantPool) (*transform.CompileResult, error) {
	meta := analysis.Meta
	if resolution != nil && resolution.State == ScopeStateScoped {
		meta.Declarations = resolution.Declarations
		meta.DeclarationListEmitMode = resolution.EmitMode
	}

	compiled := view.CompileComponentFromMetadata(&meta, constantPool)
	statements := append([]output.OutputStatement{}, compiled.Statements...)
	if analysis.MetadataStmt != nil {
		statements = append(statements, analysis.MetadataStmt)
	}
	return &transform.CompileResult{
		Name:        componentFieldName,
		Initializer: compiled.Expression,
		Statements:  statements,
		Type:        compiled.Type,
	}, nil
}

func (h *ComponentDecoratorHandler) referenceWouldCycle(clazz *reflection.ClassDeclaration, ref *imports.Reference) bool {
	if ref.Node.FileName == clazz.FileName {
		// A reference within the same file needs no import.
		return false
	}
	return h.cycleAnalyzer.WouldCreateCycle(clazz.FileName, ref.Node.FileName)
}

func (h *ComponentDecoratorHandler) recordReference(clazz *reflection.ClassDeclaration, ref *imports.Reference) {
	if ref.Node.FileName == clazz.FileName {
		return
	}
	h.cycleAnalyzer.RecordSyntheticImport(clazz.FileName, ref.Node.FileName)
}

// isForwardReference reports whether the referenced declaration appears later
// in the same file as the referencing class.
func isForwardReference(clazz *reflection.ClassDeclaration, ref *imports.Reference) bool {
	return ref.Node.FileName == clazz.FileName && ref.Node.NameStart > clazz.NameStart
}

// scopeMatcher builds a selector matcher over every directive in scope.
func scopeMatcher(componentScope *scope.ComponentScope) *css.SelectorMatcher[*scope.Directive] {
	matcher := css.NewSelectorMatcher[*scope.Directive]()
	for _, directive := range componentScope.Directives {
		selectors, err := css.ParseCssSelector(directive.Selector)
		if err != nil {
			continue
		}
		directive := directive
		matcher.AddSelectables(selectors, &directive)
	}
	return matcher
}

func sortedBindingNames(mapping map[string]string) []string {
	names := make([]string, 0, len(mapping))
	for _, binding := range mapping {
		names = append(names, binding)
	}
	sort.Strings(names)
	return names
}
