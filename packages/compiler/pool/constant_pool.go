package constant

import (
	"fmt"
	"strings"

	"ngtsc-go/packages/compiler/output"
)

const (
	constantPrefix = "_c"
	// PoolInclusionLengthThresholdForStrings defines the length threshold for strings
	// Generally all primitive values are excluded from the ConstantPool, but there is an exclusion
	// for strings that reach a certain length threshold.
	PoolInclusionLengthThresholdForStrings = 50
)

// unknownValueKey is used to replace dynamic expressions which can't be safely
// converted into a key. E.g. given an expression `{foo: bar()}`, since we don't know what
// the result of `bar` will be, we create a key that looks like `{foo: <unknown>}`.
const unknownValueKey = "<unknown>"

// FixupExpression is a place-holder that allows the node to be replaced when the actual
// node is known. This allows the constant pool to change an expression from a direct
// reference to a constant to a shared constant.
type FixupExpression struct {
	output.ExpressionBase
	original output.OutputExpression
	resolved output.OutputExpression
	shared   bool
}

// NewFixupExpression creates a new FixupExpression
func NewFixupExpression(resolved output.OutputExpression) *FixupExpression {
	return &FixupExpression{
		ExpressionBase: output.ExpressionBase{
			Type:       resolved.GetType(),
			SourceSpan: resolved.GetSourceSpan(),
		},
		original: resolved,
		resolved: resolved,
	}
}

// IsEquivalent checks structural equivalence
func (f *FixupExpression) IsEquivalent(e output.OutputExpression) bool {
	if other, ok := e.(*FixupExpression); ok {
		return f.resolved.IsEquivalent(other.resolved)
	}
	return false
}

// IsConstant reports whether the expression is constant
func (f *FixupExpression) IsConstant() bool { return true }

// Print returns the current resolution of the fixup
func (f *FixupExpression) Print() string { return f.resolved.Print() }

// Fixup replaces the resolved expression, marking the constant as shared
func (f *FixupExpression) Fixup(expression output.OutputExpression) {
	f.resolved = expression
	f.shared = true
}

// ConstantPool is a pool of constants shared across all components compiled in
// one emit unit. Identical non-trivial literals collapse into a single
// `const _cN = ...` statement.
type ConstantPool struct {
	statements    []output.OutputStatement
	literals      map[string]*FixupExpression
	nextNameIndex int
}

// NewConstantPool creates a new ConstantPool
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		literals: make(map[string]*FixupExpression),
	}
}

// Statements returns the supporting statements the pool has accumulated
func (cp *ConstantPool) Statements() []output.OutputStatement {
	return cp.statements
}

// GetConstLiteral returns a constant literal, potentially shared.
// The first request for a literal returns it unchanged; a second request for
// an equivalent literal hoists it into a shared const statement and both call
// sites end up referencing the pool variable.
func (cp *ConstantPool) GetConstLiteral(literal output.OutputExpression, forceShared bool) output.OutputExpression {
	if (isSimpleLiteral(literal) && !isLongStringLiteral(literal)) || isFixupExpression(literal) {
		// Do not put simple literals into the constant pool or try to produce a constant for a
		// reference to a constant.
		return literal
	}
	key := keyOf(literal)
	fixup, exists := cp.literals[key]
	newValue := !exists
	if !exists {
		fixup = NewFixupExpression(literal)
		cp.literals[key] = fixup
	}

	if (!newValue && !fixup.shared) || (newValue && forceShared) {
		name := cp.freshName()
		cp.statements = append(cp.statements, output.NewDeclareVarStmt(
			name, fixup.resolved, nil, output.StmtModifierFinal, nil))
		fixup.Fixup(output.Variable(name))
	}

	return fixup
}

func (cp *ConstantPool) freshName() string {
	name := fmt.Sprintf("%s%d", constantPrefix, cp.nextNameIndex)
	cp.nextNameIndex++
	return name
}

func isSimpleLiteral(expr output.OutputExpression) bool {
	_, ok := expr.(*output.LiteralExpr)
	return ok
}

func isLongStringLiteral(expr output.OutputExpression) bool {
	lit, ok := expr.(*output.LiteralExpr)
	if !ok {
		return false
	}
	s, ok := lit.Value.(string)
	return ok && len(s) >= PoolInclusionLengthThresholdForStrings
}

func isFixupExpression(expr output.OutputExpression) bool {
	_, ok := expr.(*FixupExpression)
	return ok
}

// keyOf produces a lookup key for an expression. Fixups contribute the
// constant they stand for, not the pool variable that refers to it.
func keyOf(expr output.OutputExpression) string {
	switch e := expr.(type) {
	case *FixupExpression:
		return keyOf(e.original)
	case *output.LiteralExpr:
		return e.Print()
	case *output.LiteralArrayExpr:
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			parts[i] = keyOf(entry)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case *output.LiteralMapExpr:
		parts := make([]string, len(e.Entries))
		for i, entry := range e.Entries {
			parts[i] = fmt.Sprintf("%s:%s", entry.Key, keyOf(entry.Value))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case *output.ExternalExpr:
		return "EX:" + e.Print()
	case *output.ReadVarExpr:
		return "VAR:" + e.Name
	default:
		return unknownValueKey
	}
}
