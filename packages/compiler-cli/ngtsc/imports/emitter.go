// Package imports turns references to class declarations into output AST
// expressions, deciding between a local variable read and a cross-file import.
package imports

import (
	"fmt"
	"path"
	"strings"

	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler/output"
)

// Reference points at a class declaration, optionally through the absolute
// module it was imported from.
type Reference struct {
	Node *reflection.ClassDeclaration

	// OwningModule is the absolute module specifier the declaration is
	// imported through, or empty when it should be referenced by path.
	OwningModule string
}

// NewReference creates a new Reference
func NewReference(node *reflection.ClassDeclaration) *Reference {
	return &Reference{Node: node}
}

// DebugName returns the referenced class name.
func (r *Reference) DebugName() string {
	return r.Node.Name
}

// ReferenceEmitter emits an expression referring to ref, valid inside
// contextFile.
type ReferenceEmitter interface {
	Emit(ref *Reference, contextFile string) (output.OutputExpression, error)
}

// ModuleEmitter emits a plain variable read for declarations in the context
// file and an import expression for everything else.
type ModuleEmitter struct{}

// NewModuleEmitter creates a new ModuleEmitter
func NewModuleEmitter() *ModuleEmitter {
	return &ModuleEmitter{}
}

// Emit produces the reference expression for ref as seen from contextFile
func (me *ModuleEmitter) Emit(ref *Reference, contextFile string) (output.OutputExpression, error) {
	if ref.Node == nil {
		return nil, fmt.Errorf("reference does not carry a declaration")
	}
	if ref.Node.FileName == contextFile {
		return output.Variable(ref.Node.Name), nil
	}
	specifier := ref.OwningModule
	if specifier == "" {
		specifier = relativeSpecifier(contextFile, ref.Node.FileName)
	}
	return output.ImportExpr(output.ExternalReference{ModuleName: specifier, Name: ref.Node.Name}), nil
}

// relativeSpecifier converts a target file path into a relative module
// specifier as seen from the context file, without its extension.
func relativeSpecifier(contextFile, targetFile string) string {
	contextDir := path.Dir(path.Clean(contextFile))
	target := strings.TrimSuffix(path.Clean(targetFile), path.Ext(targetFile))

	contextParts := strings.Split(contextDir, "/")
	targetParts := strings.Split(target, "/")
	common := 0
	for common < len(contextParts) && common < len(targetParts) && contextParts[common] == targetParts[common] {
		common++
	}

	var parts []string
	for i := common; i < len(contextParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[common:]...)
	specifier := strings.Join(parts, "/")
	if !strings.HasPrefix(specifier, ".") {
		specifier = "./" + specifier
	}
	return specifier
}
