package view

import (
	"strings"
	"testing"

	"ngtsc-go/packages/compiler/core"
	"ngtsc-go/packages/compiler/output"
	"ngtsc-go/packages/compiler/pool"
)

func strPtr(s string) *string { return &s }

func minimalMeta() *R3ComponentMetadata {
	return &R3ComponentMetadata{
		R3DirectiveMetadata: R3DirectiveMetadata{
			Name:     "MyComp",
			Type:     output.Variable("MyComp"),
			Selector: strPtr("my-comp"),
		},
		Encapsulation: core.ViewEncapsulationEmulated,
	}
}

func TestCompileComponentEmitsDefinitionCall(t *testing.T) {
	cp := constant.NewConstantPool()
	compiled := CompileComponentFromMetadata(minimalMeta(), cp)

	text := compiled.Expression.Print()
	if !strings.Contains(text, "ɵɵdefineComponent(") {
		t.Errorf("expected a defineComponent call, got %s", text)
	}
	if !strings.Contains(text, "type: MyComp") {
		t.Errorf("expected the component type, got %s", text)
	}

	// The selector array is hoisted into the shared constant pool.
	if !strings.Contains(text, "selectors: _c0") {
		t.Errorf("expected a pooled selector constant, got %s", text)
	}
	stmts := cp.Statements()
	if len(stmts) != 1 || !strings.Contains(stmts[0].Print(), `[["my-comp"]]`) {
		t.Errorf("unexpected pool statements: %v", stmts)
	}

	typeText := compiled.Type.Print()
	if !strings.Contains(typeText, "ɵɵComponentDeclaration<MyComp, \"my-comp\">") {
		t.Errorf("unexpected component type: %s", typeText)
	}
}

func TestCompileStylelessComponentDisablesEncapsulation(t *testing.T) {
	cp := constant.NewConstantPool()
	compiled := CompileComponentFromMetadata(minimalMeta(), cp)

	text := compiled.Expression.Print()
	if !strings.Contains(text, "encapsulation: 2") {
		t.Errorf("expected encapsulation to drop to None, got %s", text)
	}
}

func TestCompileStyledComponentKeepsEmulatedEncapsulationImplicit(t *testing.T) {
	meta := minimalMeta()
	meta.Styles = []string{"p { color: red }", "   "}

	cp := constant.NewConstantPool()
	compiled := CompileComponentFromMetadata(meta, cp)

	text := compiled.Expression.Print()
	if strings.Contains(text, "encapsulation") {
		t.Errorf("emulated encapsulation must stay implicit, got %s", text)
	}
	// Whitespace-only styles are dropped.
	if !strings.Contains(text, `styles: ["p { color: red }"]`) {
		t.Errorf("unexpected styles entry: %s", text)
	}
}

func TestCompileDependencyList(t *testing.T) {
	meta := minimalMeta()
	meta.Declarations = []R3TemplateDependency{
		{Kind: R3TemplateDependencyKindDirective, Type: output.Variable("OtherDir")},
		{Kind: R3TemplateDependencyKindPipe, Type: output.Variable("UpperPipe"), Name: "upper"},
	}

	cp := constant.NewConstantPool()
	direct := CompileComponentFromMetadata(meta, cp).Expression.Print()
	if !strings.Contains(direct, "dependencies: [OtherDir, UpperPipe]") {
		t.Errorf("unexpected direct dependency list: %s", direct)
	}

	meta.DeclarationListEmitMode = DeclarationListEmitModeClosure
	closure := CompileComponentFromMetadata(meta, constant.NewConstantPool()).Expression.Print()
	if !strings.Contains(closure, "dependencies: () => [OtherDir, UpperPipe]") {
		t.Errorf("unexpected closure dependency list: %s", closure)
	}
}

func TestCompileChangeDetection(t *testing.T) {
	meta := minimalMeta()
	onPush := core.ChangeDetectionStrategyOnPush
	meta.ChangeDetection = &onPush

	text := CompileComponentFromMetadata(meta, constant.NewConstantPool()).Expression.Print()
	if !strings.Contains(text, "changeDetection: 0") {
		t.Errorf("expected an OnPush entry, got %s", text)
	}

	def := core.ChangeDetectionStrategyDefault
	meta.ChangeDetection = &def
	text = CompileComponentFromMetadata(meta, constant.NewConstantPool()).Expression.Print()
	if strings.Contains(text, "changeDetection") {
		t.Errorf("the default strategy must stay implicit, got %s", text)
	}
}

func TestCompileViewQueries(t *testing.T) {
	meta := minimalMeta()
	meta.ViewQueries = []R3QueryMetadata{{
		PropertyName: "header",
		First:        true,
		Predicate:    []string{"HeaderCmp"},
		Descendants:  true,
	}}

	text := CompileComponentFromMetadata(meta, constant.NewConstantPool()).Expression.Print()
	if !strings.Contains(text, `property: "header"`) || !strings.Contains(text, "first: true") {
		t.Errorf("unexpected view query entry: %s", text)
	}
}
