package imports

import (
	"testing"

	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler/output"
)

func TestEmitSameFileReference(t *testing.T) {
	emitter := NewModuleEmitter()
	ref := NewReference(&reflection.ClassDeclaration{Name: "MyDir", FileName: "/app/dir.ts"})

	expr, err := emitter.Emit(ref, "/app/dir.ts")
	if err != nil {
		t.Fatal(err)
	}
	read, ok := expr.(*output.ReadVarExpr)
	if !ok || read.Name != "MyDir" {
		t.Errorf("expected variable read of MyDir, got %s", expr.Print())
	}
}

func TestEmitCrossFileReference(t *testing.T) {
	emitter := NewModuleEmitter()
	cases := []struct {
		target, context, want string
	}{
		{"/app/shared/dir.ts", "/app/main.ts", "./shared/dir"},
		{"/app/dir.ts", "/app/feature/main.ts", "../dir"},
		{"/lib/a.ts", "/app/b.ts", "../lib/a"},
	}
	for _, tc := range cases {
		ref := NewReference(&reflection.ClassDeclaration{Name: "MyDir", FileName: tc.target})
		expr, err := emitter.Emit(ref, tc.context)
		if err != nil {
			t.Fatal(err)
		}
		external, ok := expr.(*output.ExternalExpr)
		if !ok {
			t.Fatalf("expected an import expression, got %s", expr.Print())
		}
		if external.Value.ModuleName != tc.want {
			t.Errorf("Emit(%q from %q): module %q, want %q", tc.target, tc.context, external.Value.ModuleName, tc.want)
		}
		if external.Value.Name != "MyDir" {
			t.Errorf("unexpected symbol name %q", external.Value.Name)
		}
	}
}

func TestEmitPrefersOwningModule(t *testing.T) {
	emitter := NewModuleEmitter()
	ref := &Reference{
		Node:         &reflection.ClassDeclaration{Name: "NgIf", FileName: "/node_modules/common/index.ts"},
		OwningModule: "@angular/common",
	}
	expr, err := emitter.Emit(ref, "/app/main.ts")
	if err != nil {
		t.Fatal(err)
	}
	external, ok := expr.(*output.ExternalExpr)
	if !ok || external.Value.ModuleName != "@angular/common" {
		t.Errorf("expected import from @angular/common, got %s", expr.Print())
	}
}
