// Package reflection models the host-language view of a compilation unit:
// class declarations, the decorators attached to them, and the static
// expression forms a decorator argument can take. The pipeline never walks
// host syntax itself; everything it needs arrives through these types.
package reflection

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceRange is a half-open character range in a source file, used to anchor
// diagnostics and source maps.
type SourceRange struct {
	File  string
	Start int
	End   int
}

// ClassDeclaration is a class in the host source, paired with its decorators
// and members. Identity is pointer identity; the caches key on it.
type ClassDeclaration struct {
	// Name of the class.
	Name string

	// FileName is the absolute path of the file declaring the class.
	FileName string

	// NameStart is the character offset of the class name within its file.
	// Declaration order within a file follows from comparing these offsets.
	NameStart int

	Decorators []*Decorator
	Members    []*ClassMember
}

// Decorator is a single decorator application on a class or a member.
type Decorator struct {
	// Name is the decorator identifier as written at the use site.
	Name string

	// Import is the import the decorator identifier resolves to, or nil when
	// the identifier is not imported (a local or global reference).
	Import *Import

	Args  []Expression
	Range SourceRange
}

// Import describes where an identifier was imported from.
type Import struct {
	// Name is the exported name in the originating module.
	Name string

	// From is the module specifier of the import.
	From string
}

// ClassMember is a property of a class, with any decorators applied to it.
type ClassMember struct {
	Name       string
	Decorators []*Decorator
}

// Expression is a static expression extracted from host syntax. It is a
// closed union; the evaluator folds these forms into plain values.
type Expression interface {
	fmt.Stringer
	Range() SourceRange
	isExpression()
}

// StringLiteral is a string written directly in the source. Its range covers
// the literal including the surrounding quote characters.
type StringLiteral struct {
	Value string
	R     SourceRange
}

func (s *StringLiteral) String() string     { return strconv.Quote(s.Value) }
func (s *StringLiteral) Range() SourceRange { return s.R }
func (s *StringLiteral) isExpression()      {}

// NumberLiteral is a numeric literal.
type NumberLiteral struct {
	Value int
	R     SourceRange
}

func (n *NumberLiteral) String() string     { return strconv.Itoa(n.Value) }
func (n *NumberLiteral) Range() SourceRange { return n.R }
func (n *NumberLiteral) isExpression()      {}

// BoolLiteral is a boolean literal.
type BoolLiteral struct {
	Value bool
	R     SourceRange
}

func (b *BoolLiteral) String() string     { return strconv.FormatBool(b.Value) }
func (b *BoolLiteral) Range() SourceRange { return b.R }
func (b *BoolLiteral) isExpression()      {}

// ArrayLiteral is an array of expressions.
type ArrayLiteral struct {
	Elements []Expression
	R        SourceRange
}

func (a *ArrayLiteral) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (a *ArrayLiteral) Range() SourceRange { return a.R }
func (a *ArrayLiteral) isExpression()      {}

// ObjectEntry is one key/value pair of an ObjectLiteral.
type ObjectEntry struct {
	Key   string
	Value Expression
}

// ObjectLiteral is an object literal with source-order entries.
type ObjectLiteral struct {
	Entries []ObjectEntry
	R       SourceRange
}

func (o *ObjectLiteral) String() string {
	parts := make([]string, len(o.Entries))
	for i, entry := range o.Entries {
		parts[i] = fmt.Sprintf("%s: %s", entry.Key, entry.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (o *ObjectLiteral) Range() SourceRange { return o.R }
func (o *ObjectLiteral) isExpression()      {}

// Get returns the value of the named property, if present.
func (o *ObjectLiteral) Get(key string) (Expression, bool) {
	for _, entry := range o.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Has reports whether the named property is present.
func (o *ObjectLiteral) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// EnumMemberRef is a reference to a member of a well-known enum, such as
// `ViewEncapsulation.None`, already resolved by the host to its owner, member
// name and numeric value.
type EnumMemberRef struct {
	Owner string
	Name  string
	Value int
	R     SourceRange
}

func (e *EnumMemberRef) String() string     { return e.Owner + "." + e.Name }
func (e *EnumMemberRef) Range() SourceRange { return e.R }
func (e *EnumMemberRef) isExpression()      {}

// Identifier is a bare identifier reference.
type Identifier struct {
	Name string
	R    SourceRange
}

func (i *Identifier) String() string     { return i.Name }
func (i *Identifier) Range() SourceRange { return i.R }
func (i *Identifier) isExpression()      {}

// DynamicExpr stands in for any expression form the host could not reduce to
// one of the static shapes above. Text preserves the source for emission.
type DynamicExpr struct {
	Text string
	R    SourceRange
}

func (d *DynamicExpr) String() string     { return d.Text }
func (d *DynamicExpr) Range() SourceRange { return d.R }
func (d *DynamicExpr) isExpression()      {}
