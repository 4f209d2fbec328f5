// Package partialeval folds the static expression forms surfaced by the
// reflection layer into plain Go values. Expressions outside the foldable
// subset resolve to a DynamicValue, which callers treat as a type error when
// they expected a concrete shape.
package partialeval

import (
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
)

// EnumValue is a resolved reference to a member of a well-known enum.
type EnumValue struct {
	Owner    string
	Name     string
	Resolved int
}

// DynamicValue marks an expression that could not be statically evaluated.
type DynamicValue struct {
	Reason string
	Node   reflection.Expression
}

// ResolvedMap is the evaluation of an object literal, preserving entry order.
type ResolvedMap struct {
	Keys   []string
	Values map[string]any
}

// Get returns the value of the named key, if present.
func (m *ResolvedMap) Get(key string) (any, bool) {
	v, ok := m.Values[key]
	return v, ok
}

// Evaluator evaluates a static expression into a value. Results are one of:
// string, int, bool, []any, *ResolvedMap, *EnumValue or *DynamicValue.
type Evaluator interface {
	Evaluate(expr reflection.Expression) any
}

// LiteralEvaluator folds literal expression forms and enum member references.
// Identifiers and opaque expressions become DynamicValues.
type LiteralEvaluator struct{}

// NewLiteralEvaluator creates a new LiteralEvaluator
func NewLiteralEvaluator() *LiteralEvaluator {
	return &LiteralEvaluator{}
}

// Evaluate folds expr into a value
func (ev *LiteralEvaluator) Evaluate(expr reflection.Expression) any {
	switch e := expr.(type) {
	case *reflection.StringLiteral:
		return e.Value
	case *reflection.NumberLiteral:
		return e.Value
	case *reflection.BoolLiteral:
		return e.Value
	case *reflection.ArrayLiteral:
		values := make([]any, len(e.Elements))
		for i, element := range e.Elements {
			values[i] = ev.Evaluate(element)
		}
		return values
	case *reflection.ObjectLiteral:
		resolved := &ResolvedMap{Values: make(map[string]any, len(e.Entries))}
		for _, entry := range e.Entries {
			resolved.Keys = append(resolved.Keys, entry.Key)
			resolved.Values[entry.Key] = ev.Evaluate(entry.Value)
		}
		return resolved
	case *reflection.EnumMemberRef:
		return &EnumValue{Owner: e.Owner, Name: e.Name, Resolved: e.Value}
	default:
		return &DynamicValue{Reason: "expression is not statically analyzable", Node: expr}
	}
}
