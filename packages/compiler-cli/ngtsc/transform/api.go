// Package transform defines the artifact types exchanged between a decorator
// handler and the driver that invokes it.
package transform

import (
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler/output"
)

// DetectResult is a positive detection: the decorator that triggered the
// handler on a class.
type DetectResult struct {
	Trigger *reflection.Decorator
}

// CompileResult is one compiled class member produced by a handler.
type CompileResult struct {
	// Name of the static field the initializer is assigned to.
	Name string

	// Initializer is the field's value expression.
	Initializer output.OutputExpression

	// Statements to emit alongside the field, in order.
	Statements []output.OutputStatement

	// Type is the declared type of the field.
	Type output.Type
}
