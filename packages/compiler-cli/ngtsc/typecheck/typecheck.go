// Package typecheck receives the template binding results produced during the
// type-check phase.
package typecheck

import (
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler-cli/ngtsc/scope"
	"ngtsc-go/packages/compiler/render3/view"
)

// Context accumulates bound templates for later template type checking.
type Context interface {
	AddTemplate(clazz *reflection.ClassDeclaration, bound *view.BoundTarget[*scope.Directive])
}

// RecordingContext is a Context that keeps every registered binding,
// preserving registration order.
type RecordingContext struct {
	order   []*reflection.ClassDeclaration
	bindings map[*reflection.ClassDeclaration]*view.BoundTarget[*scope.Directive]
}

// NewRecordingContext creates a new RecordingContext
func NewRecordingContext() *RecordingContext {
	return &RecordingContext{
		bindings: make(map[*reflection.ClassDeclaration]*view.BoundTarget[*scope.Directive]),
	}
}

// AddTemplate registers the binding result for a class
func (c *RecordingContext) AddTemplate(clazz *reflection.ClassDeclaration, bound *view.BoundTarget[*scope.Directive]) {
	if _, ok := c.bindings[clazz]; !ok {
		c.order = append(c.order, clazz)
	}
	c.bindings[clazz] = bound
}

// Binding returns the registered binding for a class, if any.
func (c *RecordingContext) Binding(clazz *reflection.ClassDeclaration) (*view.BoundTarget[*scope.Directive], bool) {
	bound, ok := c.bindings[clazz]
	return bound, ok
}

// Classes returns every class with a registered binding, in registration order.
func (c *RecordingContext) Classes() []*reflection.ClassDeclaration {
	return c.order
}
