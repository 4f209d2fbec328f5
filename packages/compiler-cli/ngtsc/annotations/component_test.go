package annotations

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"ngtsc-go/packages/compiler-cli/ngtsc/cycles"
	"ngtsc-go/packages/compiler-cli/ngtsc/diagnostics"
	"ngtsc-go/packages/compiler-cli/ngtsc/imports"
	"ngtsc-go/packages/compiler-cli/ngtsc/partialeval"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler-cli/ngtsc/scope"
	"ngtsc-go/packages/compiler-cli/ngtsc/typecheck"
	constant "ngtsc-go/packages/compiler/pool"
	"ngtsc-go/packages/compiler/render3/view"
)

// mapLoader serves resources from an in-memory map.
type mapLoader struct {
	contents    map[string]string
	preloadable bool
	decline     bool

	loads    int
	preloads int
}

func (l *mapLoader) CanPreload() bool { return l.preloadable }

func (l *mapLoader) Resolve(url, containingFile string) (string, error) {
	if path.IsAbs(url) {
		return path.Clean(url), nil
	}
	return path.Clean(path.Join(path.Dir(containingFile), url)), nil
}

func (l *mapLoader) Preload(ctx context.Context, resolvedURL string) <-chan error {
	if l.decline {
		return nil
	}
	l.preloads++
	result := make(chan error, 1)
	if _, ok := l.contents[resolvedURL]; !ok {
		result <- fmt.Errorf("no such resource: %s", resolvedURL)
	}
	close(result)
	return result
}

func (l *mapLoader) Load(resolvedURL string) (string, error) {
	l.loads++
	content, ok := l.contents[resolvedURL]
	if !ok {
		return "", fmt.Errorf("no such resource: %s", resolvedURL)
	}
	return content, nil
}

type handlerSetup struct {
	handler  *ComponentDecoratorHandler
	registry *scope.LocalRegistry
	graph    *cycles.ImportGraph
	loader   *mapLoader
}

func newHandlerSetup(loader *mapLoader) *handlerSetup {
	registry := scope.NewLocalRegistry()
	graph := cycles.NewImportGraph()
	handler := NewComponentDecoratorHandler(
		partialeval.NewLiteralEvaluator(),
		registry,
		loader,
		graph,
		imports.NewModuleEmitter(),
		ComponentHandlerOptions{
			RootDirs: []string{"/app"},
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		})
	return &handlerSetup{handler: handler, registry: registry, graph: graph, loader: loader}
}

func str(value string) *reflection.StringLiteral {
	return &reflection.StringLiteral{Value: value}
}

func strs(values ...string) *reflection.ArrayLiteral {
	elements := make([]reflection.Expression, len(values))
	for i, value := range values {
		elements[i] = str(value)
	}
	return &reflection.ArrayLiteral{Elements: elements}
}

func makeComponent(name, file string, nameStart int, entries ...reflection.ObjectEntry) (*reflection.ClassDeclaration, *reflection.Decorator) {
	decorator := &reflection.Decorator{
		Name:   "Component",
		Import: &reflection.Import{Name: "Component", From: "@angular/core"},
		Args:   []reflection.Expression{&reflection.ObjectLiteral{Entries: entries}},
		Range:  reflection.SourceRange{File: file},
	}
	clazz := &reflection.ClassDeclaration{
		Name:       name,
		FileName:   file,
		NameStart:  nameStart,
		Decorators: []*reflection.Decorator{decorator},
	}
	return clazz, decorator
}

func TestDetect(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	clazz, decorator := makeComponent("MyCmp", "/app/my.ts", 10,
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	result := setup.handler.Detect(clazz, clazz.Decorators)
	require.NotNil(t, result)
	require.Same(t, decorator, result.Trigger)

	// A decorator imported from somewhere else is not ours.
	other := &reflection.Decorator{
		Name:   "Component",
		Import: &reflection.Import{Name: "Component", From: "other-framework"},
		Args:   decorator.Args,
	}
	require.Nil(t, setup.handler.Detect(clazz, []*reflection.Decorator{other}))

	// Unqualified references only match when compiling the framework itself.
	bare := &reflection.Decorator{Name: "Component", Args: decorator.Args}
	require.Nil(t, setup.handler.Detect(clazz, []*reflection.Decorator{bare}))

	coreSetup := newHandlerSetup(&mapLoader{})
	coreSetup.handler.isCore = true
	require.NotNil(t, coreSetup.handler.Detect(clazz, []*reflection.Decorator{bare}))
}

func TestPreloadThenAnalyzeMatchesDirectAnalyze(t *testing.T) {
	contents := map[string]string{
		"/app/dir.html": "<span>{{greeting}}</span>",
	}
	component := func() (*reflection.ClassDeclaration, *reflection.Decorator) {
		return makeComponent("GreetCmp", "/app/greet.ts", 20,
			reflection.ObjectEntry{Key: "selector", Value: str("greet-cmp")},
			reflection.ObjectEntry{Key: "templateUrl", Value: str("./dir.html")})
	}

	preloaded := newHandlerSetup(&mapLoader{contents: contents, preloadable: true})
	clazzA, decoratorA := component()
	wait, ok := preloaded.handler.Preanalyze(context.Background(), clazzA, decoratorA)
	require.True(t, ok)
	require.NoError(t, <-wait)
	analysisA, err := preloaded.handler.Analyze(clazzA, decoratorA)
	require.NoError(t, err)

	direct := newHandlerSetup(&mapLoader{contents: contents})
	clazzB, decoratorB := component()
	_, ok = direct.handler.Preanalyze(context.Background(), clazzB, decoratorB)
	require.False(t, ok)
	analysisB, err := direct.handler.Analyze(clazzB, decoratorB)
	require.NoError(t, err)

	if diff := cmp.Diff(analysisB.Meta, analysisA.Meta); diff != "" {
		t.Fatalf("preloaded and direct analysis disagree (-direct +preloaded):\n%s", diff)
	}
	require.True(t, analysisA.Template.ResolvedURL == analysisB.Template.ResolvedURL)
}

func TestPreloadDeclinedFallsBackToSynchronousLoad(t *testing.T) {
	contents := map[string]string{"/app/dir.html": "<b>hi</b>"}
	setup := newHandlerSetup(&mapLoader{contents: contents, preloadable: true, decline: true})
	clazz, decorator := makeComponent("HiCmp", "/app/hi.ts", 5,
		reflection.ObjectEntry{Key: "templateUrl", Value: str("./dir.html")})

	wait, ok := setup.handler.Preanalyze(context.Background(), clazz, decorator)
	require.True(t, ok)
	require.NoError(t, <-wait)

	analysis, err := setup.handler.Analyze(clazz, decorator)
	require.NoError(t, err)
	require.Len(t, analysis.Meta.Template.Nodes, 1)
	require.Equal(t, "/app/dir.html", analysis.Template.ResolvedURL)
}

func TestStyleOrdering(t *testing.T) {
	contents := map[string]string{
		"/app/comp.html": `<link rel="stylesheet" href="b.css"><style>d</style><p>hi</p>`,
		"/app/a.css":     "contents of a.css",
		"/app/b.css":     "contents of b.css",
	}
	setup := newHandlerSetup(&mapLoader{contents: contents})
	clazz, decorator := makeComponent("StyledCmp", "/app/comp.ts", 15,
		reflection.ObjectEntry{Key: "templateUrl", Value: str("./comp.html")},
		reflection.ObjectEntry{Key: "styleUrls", Value: strs("./a.css")},
		reflection.ObjectEntry{Key: "styles", Value: strs("c")})

	analysis, err := setup.handler.Analyze(clazz, decorator)
	require.NoError(t, err)
	require.Equal(t, []string{"contents of a.css", "contents of b.css", "c", "d"}, analysis.Meta.Styles)
}

func TestLiteralResolutionIsCached(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	_, decorator := makeComponent("CachedCmp", "/app/cached.ts", 3,
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	first, err := setup.handler.literals.resolve(decorator)
	require.NoError(t, err)
	second, err := setup.handler.literals.resolve(decorator)
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestLiteralArityAndShapeErrors(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})

	noArgs := &reflection.Decorator{Name: "Component"}
	_, err := setup.handler.literals.resolve(noArgs)
	require.Equal(t, diagnostics.ErrorCodeDecoratorArityWrong, diagnostics.CodeOf(err))

	notLiteral := &reflection.Decorator{Name: "Component", Args: []reflection.Expression{str("nope")}}
	_, err = setup.handler.literals.resolve(notLiteral)
	require.Equal(t, diagnostics.ErrorCodeDecoratorArgNotLiteral, diagnostics.CodeOf(err))
}

// analyzeAndDeclare analyzes both components and places them in one module.
func analyzeAndDeclare(t *testing.T, setup *handlerSetup, components ...*reflection.ClassDeclaration) map[*reflection.ClassDeclaration]*ComponentAnalysis {
	t.Helper()
	analyses := make(map[*reflection.ClassDeclaration]*ComponentAnalysis)
	for _, clazz := range components {
		analysis, err := setup.handler.Analyze(clazz, clazz.Decorators[0])
		require.NoError(t, err)
		analyses[clazz] = analysis
	}
	setup.registry.DeclareModule("TestModule", components)
	return analyses
}

func TestResolveWithoutCycle(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	// The referencing component carries no selector so the scope contains
	// only the referenced one.
	user, _ := makeComponent("UserCmp", "/app/user.ts", 10,
		reflection.ObjectEntry{Key: "template", Value: str("<my-comp></my-comp>")})
	myComp, _ := makeComponent("MyComp", "/app/my-comp.ts", 10,
		reflection.ObjectEntry{Key: "selector", Value: str("my-comp")},
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	analyses := analyzeAndDeclare(t, setup, user, myComp)

	resolution, err := setup.handler.Resolve(user, analyses[user])
	require.NoError(t, err)
	require.Equal(t, ScopeStateScoped, resolution.State)
	require.Len(t, resolution.Declarations, 1)
	require.Equal(t, view.R3TemplateDependencyKindDirective, resolution.Declarations[0].Kind)
	require.Equal(t, "my-comp", resolution.Declarations[0].Selector)
	require.True(t, resolution.Declarations[0].IsComponent)
	require.Equal(t, view.DeclarationListEmitModeDirect, resolution.EmitMode)

	require.Equal(t, 1, setup.graph.SyntheticEdgeCount())
	require.True(t, setup.graph.HasSyntheticEdge("/app/user.ts", "/app/my-comp.ts"))
	require.False(t, setup.registry.IsRemoteScoped(user))
}

func TestResolveWithCycleFallsBackToRemoteScoping(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	user, _ := makeComponent("UserCmp", "/app/user.ts", 10,
		reflection.ObjectEntry{Key: "template", Value: str("<my-comp></my-comp>")})
	myComp, _ := makeComponent("MyComp", "/app/my-comp.ts", 10,
		reflection.ObjectEntry{Key: "selector", Value: str("my-comp")},
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	// my-comp.ts already imports user.ts, so the generated import would
	// close a cycle.
	setup.graph.AddImport("/app/my-comp.ts", "/app/user.ts")

	analyses := analyzeAndDeclare(t, setup, user, myComp)

	resolution, err := setup.handler.Resolve(user, analyses[user])
	require.NoError(t, err)
	require.Equal(t, ScopeStateRemoteScoped, resolution.State)
	require.Empty(t, resolution.Declarations)

	require.Equal(t, 1, setup.registry.RemoteScopingRequests(user))
	require.Equal(t, 0, setup.graph.SyntheticEdgeCount())
}

func TestResolveForwardReferenceWrapsInClosure(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	// Both classes live in the same file; the referenced one is declared
	// later, so the dependency list must be emitted behind a closure.
	user, _ := makeComponent("UserCmp", "/app/same.ts", 100,
		reflection.ObjectEntry{Key: "template", Value: str("<late-comp></late-comp>")})
	late, _ := makeComponent("LateComp", "/app/same.ts", 500,
		reflection.ObjectEntry{Key: "selector", Value: str("late-comp")},
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	analyses := analyzeAndDeclare(t, setup, user, late)

	resolution, err := setup.handler.Resolve(user, analyses[user])
	require.NoError(t, err)
	require.Equal(t, ScopeStateScoped, resolution.State)
	require.Equal(t, view.DeclarationListEmitModeClosure, resolution.EmitMode)

	// Same-file references introduce no imports at all.
	require.Equal(t, 0, setup.graph.SyntheticEdgeCount())
}

func TestInlineOnlyComponent(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	clazz, decorator := makeComponent("PlainCmp", "/app/plain.ts", 8,
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	analysis, err := setup.handler.Analyze(clazz, decorator)
	require.NoError(t, err)
	require.Empty(t, analysis.Meta.Styles)
	require.Empty(t, analysis.Meta.Declarations)
	require.True(t, analysis.Template.IsInline)

	// Outside any module the placeholders stay empty through compilation.
	resolution, err := setup.handler.Resolve(clazz, analysis)
	require.NoError(t, err)
	require.Equal(t, ScopeStateUnscoped, resolution.State)

	pool := constant.NewConstantPool()
	compiled, err := setup.handler.Compile(clazz, analysis, resolution, pool)
	require.NoError(t, err)
	require.Equal(t, "ɵcmp", compiled.Name)
	require.NotContains(t, compiled.Initializer.Print(), "dependencies")
}

func TestMissingTemplateIsFatal(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	clazz, decorator := makeComponent("NoTemplateCmp", "/app/none.ts", 4,
		reflection.ObjectEntry{Key: "selector", Value: str("no-template")})

	analysis, err := setup.handler.Analyze(clazz, decorator)
	require.Nil(t, analysis)
	require.True(t, diagnostics.IsFatalError(err))
	require.Equal(t, diagnostics.ErrorCodeComponentMissingTemplate, diagnostics.CodeOf(err))
}

func TestTemplateParseErrorsAreAggregated(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	clazz, decorator := makeComponent("BrokenCmp", "/app/broken.ts", 4,
		reflection.ObjectEntry{Key: "template", Value: str("<div><span></div>")})

	_, err := setup.handler.Analyze(clazz, decorator)
	require.True(t, diagnostics.IsFatalError(err))
	require.Equal(t, diagnostics.ErrorCodeTemplateParseError, diagnostics.CodeOf(err))
}

func TestInlineLiteralTemplateTracksSourceRange(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	literal := &reflection.StringLiteral{
		Value: "<div></div>",
		R:     reflection.SourceRange{File: "/app/span.ts", Start: 100, End: 113},
	}
	clazz, decorator := makeComponent("SpanCmp", "/app/span.ts", 8,
		reflection.ObjectEntry{Key: "template", Value: literal})

	analysis, err := setup.handler.Analyze(clazz, decorator)
	require.NoError(t, err)
	require.NotNil(t, analysis.Template.SourceRange)
	// The tracked range excludes the surrounding quotes.
	require.Equal(t, 101, analysis.Template.SourceRange.Start)
	require.Equal(t, 112, analysis.Template.SourceRange.End)
}

func TestEnumFieldsAreValidated(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	clazz, decorator := makeComponent("EncapCmp", "/app/encap.ts", 8,
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")},
		reflection.ObjectEntry{Key: "encapsulation", Value: &reflection.NumberLiteral{Value: 42}})

	_, err := setup.handler.Analyze(clazz, decorator)
	require.True(t, diagnostics.IsFatalError(err))
	require.Equal(t, diagnostics.ErrorCodeValueHasWrongType, diagnostics.CodeOf(err))

	okClazz, okDecorator := makeComponent("ShadowCmp", "/app/shadow.ts", 8,
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")},
		reflection.ObjectEntry{Key: "encapsulation", Value: &reflection.EnumMemberRef{
			Owner: "ViewEncapsulation", Name: "ShadowDom", Value: 3,
		}})
	analysis, err := setup.handler.Analyze(okClazz, okDecorator)
	require.NoError(t, err)
	require.Contains(t, analysis.Meta.Type.Print(), "ShadowCmp")
	require.EqualValues(t, 3, analysis.Meta.Encapsulation)
}

func TestTypeCheckRegistersBoundTemplate(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	user, _ := makeComponent("UserCmp", "/app/user.ts", 10,
		reflection.ObjectEntry{Key: "template", Value: str("<my-comp></my-comp><span>plain</span>")})
	myComp, _ := makeComponent("MyComp", "/app/my-comp.ts", 10,
		reflection.ObjectEntry{Key: "selector", Value: str("my-comp")},
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	analyses := analyzeAndDeclare(t, setup, user, myComp)

	ctx := typecheck.NewRecordingContext()
	setup.handler.TypeCheck(ctx, user, analyses[user])

	bound, ok := ctx.Binding(user)
	require.True(t, ok)
	used := bound.GetUsedDirectives()
	require.Len(t, used, 1)
	require.Equal(t, "MyComp", used[0].Name)
}

func TestCompileEmitsDefinitionAndMetadataStatement(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	user, _ := makeComponent("UserCmp", "/app/user.ts", 10,
		reflection.ObjectEntry{Key: "selector", Value: str("user-cmp")},
		reflection.ObjectEntry{Key: "template", Value: str("<my-comp></my-comp>")})
	myComp, _ := makeComponent("MyComp", "/app/my-comp.ts", 10,
		reflection.ObjectEntry{Key: "selector", Value: str("my-comp")},
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")})

	analyses := analyzeAndDeclare(t, setup, user, myComp)
	resolution, err := setup.handler.Resolve(user, analyses[user])
	require.NoError(t, err)

	pool := constant.NewConstantPool()
	compiled, err := setup.handler.Compile(user, analyses[user], resolution, pool)
	require.NoError(t, err)

	initializer := compiled.Initializer.Print()
	require.True(t, strings.Contains(initializer, "ɵɵdefineComponent"))
	require.True(t, strings.Contains(initializer, "dependencies"))

	require.NotEmpty(t, compiled.Statements)
	last := compiled.Statements[len(compiled.Statements)-1]
	require.Contains(t, last.Print(), "ɵsetClassMetadata")
}

func TestJitComponentOptsOut(t *testing.T) {
	setup := newHandlerSetup(&mapLoader{})
	clazz, decorator := makeComponent("JitCmp", "/app/jit.ts", 8,
		reflection.ObjectEntry{Key: "template", Value: str("<div></div>")},
		reflection.ObjectEntry{Key: "jit", Value: &reflection.BoolLiteral{Value: true}})

	analysis, err := setup.handler.Analyze(clazz, decorator)
	require.NoError(t, err)
	require.Nil(t, analysis)
}
