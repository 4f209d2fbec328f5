package scope

import (
	"testing"

	"ngtsc-go/packages/compiler-cli/ngtsc/imports"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
)

func makeClass(name, file string) *reflection.ClassDeclaration {
	return &reflection.ClassDeclaration{Name: name, FileName: file}
}

func TestScopeCollectsModuleDeclarations(t *testing.T) {
	registry := NewLocalRegistry()
	cmp := makeClass("AppCmp", "app.ts")
	dir := makeClass("BoldDir", "bold.ts")
	pipe := makeClass("UpperPipe", "upper.ts")
	registry.DeclareModule("AppModule", []*reflection.ClassDeclaration{cmp, dir, pipe})

	registry.RegisterDirective(&Directive{Ref: imports.NewReference(cmp), Name: "AppCmp", Selector: "app-cmp", IsComponent: true})
	registry.RegisterDirective(&Directive{Ref: imports.NewReference(dir), Name: "BoldDir", Selector: "[bold]"})
	registry.RegisterPipe(&Pipe{Ref: imports.NewReference(pipe), Name: "upper"})

	componentScope := registry.GetScopeForComponent(cmp)
	if componentScope == nil {
		t.Fatal("expected a scope for a declared component")
	}
	if len(componentScope.Directives) != 2 {
		t.Errorf("got %d directives, want 2", len(componentScope.Directives))
	}
	if len(componentScope.Pipes) != 1 || componentScope.Pipes[0].Name != "upper" {
		t.Errorf("unexpected pipes: %+v", componentScope.Pipes)
	}
}

func TestUndeclaredComponentHasNoScope(t *testing.T) {
	registry := NewLocalRegistry()
	orphan := makeClass("OrphanCmp", "orphan.ts")
	registry.RegisterDirective(&Directive{Ref: imports.NewReference(orphan), Name: "OrphanCmp", Selector: "orphan-cmp"})

	if registry.GetScopeForComponent(orphan) != nil {
		t.Error("expected nil scope for a component outside any module")
	}
}

func TestRemoteScopingFlag(t *testing.T) {
	registry := NewLocalRegistry()
	cmp := makeClass("AppCmp", "app.ts")

	if registry.IsRemoteScoped(cmp) {
		t.Error("fresh component must not be remote scoped")
	}
	registry.SetComponentRemoteScoped(cmp)
	if !registry.IsRemoteScoped(cmp) {
		t.Error("expected remote scoping flag to be set")
	}
	if got := registry.RemoteScopingRequests(cmp); got != 1 {
		t.Errorf("RemoteScopingRequests() = %d, want 1", got)
	}
}
