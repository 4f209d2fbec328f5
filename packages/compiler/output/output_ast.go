package output

import (
	"fmt"
	"sort"
	"strings"

	"ngtsc-go/packages/compiler/util"
)

// TypeModifier represents type modifiers as bit flags
type TypeModifier int

const (
	TypeModifierNone  TypeModifier = 0
	TypeModifierConst TypeModifier = 1 << 0
)

// Type is the interface for output types
type Type interface {
	HasModifier(modifier TypeModifier) bool
	Print() string
}

// BuiltinTypeName enumerates the builtin output types
type BuiltinTypeName int

const (
	BuiltinTypeNameDynamic BuiltinTypeName = iota
	BuiltinTypeNameBool
	BuiltinTypeNameString
	BuiltinTypeNameInt
	BuiltinTypeNameNumber
	BuiltinTypeNameFunction
	BuiltinTypeNameInferred
	BuiltinTypeNameNone
)

// BuiltinType is a builtin output type
type BuiltinType struct {
	Name      BuiltinTypeName
	Modifiers TypeModifier
}

// NewBuiltinType creates a new BuiltinType
func NewBuiltinType(name BuiltinTypeName, modifiers TypeModifier) *BuiltinType {
	return &BuiltinType{Name: name, Modifiers: modifiers}
}

// HasModifier checks if the type has a modifier
func (b *BuiltinType) HasModifier(modifier TypeModifier) bool {
	return b.Modifiers&modifier != 0
}

// Print returns a textual form of the type
func (b *BuiltinType) Print() string {
	switch b.Name {
	case BuiltinTypeNameBool:
		return "boolean"
	case BuiltinTypeNameString:
		return "string"
	case BuiltinTypeNameInt, BuiltinTypeNameNumber:
		return "number"
	case BuiltinTypeNameFunction:
		return "Function"
	case BuiltinTypeNameNone:
		return "never"
	default:
		return "any"
	}
}

// ExpressionType is a type derived from an expression
type ExpressionType struct {
	Value      OutputExpression
	Modifiers  TypeModifier
	TypeParams []Type
}

// NewExpressionType creates a new ExpressionType
func NewExpressionType(value OutputExpression, modifiers TypeModifier, typeParams []Type) *ExpressionType {
	return &ExpressionType{Value: value, Modifiers: modifiers, TypeParams: typeParams}
}

// HasModifier checks if the type has a modifier
func (e *ExpressionType) HasModifier(modifier TypeModifier) bool {
	return e.Modifiers&modifier != 0
}

// Print returns a textual form of the type
func (e *ExpressionType) Print() string {
	if len(e.TypeParams) == 0 {
		return e.Value.Print()
	}
	params := make([]string, len(e.TypeParams))
	for i, p := range e.TypeParams {
		params[i] = p.Print()
	}
	return fmt.Sprintf("%s<%s>", e.Value.Print(), strings.Join(params, ", "))
}

// OutputExpression is the interface implemented by every output AST expression.
// Print produces a stable textual rendering which the constant pool and the
// tests use; the real JavaScript emission lives in the downstream backend.
type OutputExpression interface {
	GetType() Type
	GetSourceSpan() *util.ParseSourceSpan
	IsEquivalent(e OutputExpression) bool
	IsConstant() bool
	Print() string
}

// ExpressionBase provides common fields for expressions
type ExpressionBase struct {
	Type       Type
	SourceSpan *util.ParseSourceSpan
}

// GetType returns the expression type
func (e *ExpressionBase) GetType() Type {
	return e.Type
}

// GetSourceSpan returns the source span
func (e *ExpressionBase) GetSourceSpan() *util.ParseSourceSpan {
	return e.SourceSpan
}

// ReadVarExpr reads a variable
type ReadVarExpr struct {
	ExpressionBase
	Name string
}

// NewReadVarExpr creates a new ReadVarExpr
func NewReadVarExpr(name string, typ Type, sourceSpan *util.ParseSourceSpan) *ReadVarExpr {
	return &ReadVarExpr{ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan}, Name: name}
}

// Variable is shorthand for NewReadVarExpr with no type or span
func Variable(name string) *ReadVarExpr {
	return NewReadVarExpr(name, nil, nil)
}

// IsEquivalent checks structural equivalence
func (r *ReadVarExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ReadVarExpr)
	return ok && r.Name == other.Name
}

// IsConstant reports whether the expression is constant
func (r *ReadVarExpr) IsConstant() bool { return false }

// Print returns a textual form of the expression
func (r *ReadVarExpr) Print() string { return r.Name }

// LiteralExpr is a literal value
type LiteralExpr struct {
	ExpressionBase
	Value interface{} // string | bool | int | float64 | nil
}

// NewLiteralExpr creates a new LiteralExpr
func NewLiteralExpr(value interface{}, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralExpr {
	return &LiteralExpr{ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan}, Value: value}
}

// Literal is shorthand for NewLiteralExpr with no type or span
func Literal(value interface{}) *LiteralExpr {
	return NewLiteralExpr(value, nil, nil)
}

// IsEquivalent checks structural equivalence
func (l *LiteralExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*LiteralExpr)
	return ok && l.Value == other.Value
}

// IsConstant reports whether the expression is constant
func (l *LiteralExpr) IsConstant() bool { return true }

// Print returns a textual form of the expression
func (l *LiteralExpr) Print() string {
	switch v := l.Value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// LiteralArrayExpr is an array literal
type LiteralArrayExpr struct {
	ExpressionBase
	Entries []OutputExpression
}

// NewLiteralArrayExpr creates a new LiteralArrayExpr
func NewLiteralArrayExpr(entries []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralArrayExpr {
	return &LiteralArrayExpr{ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan}, Entries: entries}
}

// LiteralArr is shorthand for NewLiteralArrayExpr with no type or span
func LiteralArr(entries []OutputExpression) *LiteralArrayExpr {
	return NewLiteralArrayExpr(entries, nil, nil)
}

// IsEquivalent checks structural equivalence
func (l *LiteralArrayExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*LiteralArrayExpr)
	if !ok || len(l.Entries) != len(other.Entries) {
		return false
	}
	for i, entry := range l.Entries {
		if !entry.IsEquivalent(other.Entries[i]) {
			return false
		}
	}
	return true
}

// IsConstant reports whether the expression is constant
func (l *LiteralArrayExpr) IsConstant() bool {
	for _, entry := range l.Entries {
		if !entry.IsConstant() {
			return false
		}
	}
	return true
}

// Print returns a textual form of the expression
func (l *LiteralArrayExpr) Print() string {
	parts := make([]string, len(l.Entries))
	for i, entry := range l.Entries {
		parts[i] = entry.Print()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// LiteralMapEntry is a single key/value pair of a LiteralMapExpr
type LiteralMapEntry struct {
	Key    string
	Value  OutputExpression
	Quoted bool
}

// LiteralMapExpr is an object literal
type LiteralMapExpr struct {
	ExpressionBase
	Entries []*LiteralMapEntry
}

// NewLiteralMapExpr creates a new LiteralMapExpr
func NewLiteralMapExpr(entries []*LiteralMapEntry, typ Type, sourceSpan *util.ParseSourceSpan) *LiteralMapExpr {
	return &LiteralMapExpr{ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan}, Entries: entries}
}

// LiteralMap is shorthand for NewLiteralMapExpr with no type or span
func LiteralMap(entries []*LiteralMapEntry) *LiteralMapExpr {
	return NewLiteralMapExpr(entries, nil, nil)
}

// LiteralMapFromStrings builds a string->string map literal with stable key order
func LiteralMapFromStrings(m map[string]string) *LiteralMapExpr {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]*LiteralMapEntry, len(keys))
	for i, k := range keys {
		entries[i] = &LiteralMapEntry{Key: k, Value: Literal(m[k])}
	}
	return LiteralMap(entries)
}

// IsEquivalent checks structural equivalence
func (l *LiteralMapExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*LiteralMapExpr)
	if !ok || len(l.Entries) != len(other.Entries) {
		return false
	}
	for i, entry := range l.Entries {
		if entry.Key != other.Entries[i].Key || !entry.Value.IsEquivalent(other.Entries[i].Value) {
			return false
		}
	}
	return true
}

// IsConstant reports whether the expression is constant
func (l *LiteralMapExpr) IsConstant() bool {
	for _, entry := range l.Entries {
		if !entry.Value.IsConstant() {
			return false
		}
	}
	return true
}

// Print returns a textual form of the expression
func (l *LiteralMapExpr) Print() string {
	parts := make([]string, len(l.Entries))
	for i, entry := range l.Entries {
		key := entry.Key
		if entry.Quoted {
			key = fmt.Sprintf("%q", key)
		}
		parts[i] = fmt.Sprintf("%s: %s", key, entry.Value.Print())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ExternalReference identifies a symbol imported from another module
type ExternalReference struct {
	ModuleName string
	Name       string
}

// ExternalExpr references a symbol from another module
type ExternalExpr struct {
	ExpressionBase
	Value ExternalReference
}

// NewExternalExpr creates a new ExternalExpr
func NewExternalExpr(value ExternalReference, typ Type, sourceSpan *util.ParseSourceSpan) *ExternalExpr {
	return &ExternalExpr{ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan}, Value: value}
}

// ImportExpr is shorthand for NewExternalExpr with no type or span
func ImportExpr(ref ExternalReference) *ExternalExpr {
	return NewExternalExpr(ref, nil, nil)
}

// IsEquivalent checks structural equivalence
func (x *ExternalExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ExternalExpr)
	return ok && x.Value == other.Value
}

// IsConstant reports whether the expression is constant
func (x *ExternalExpr) IsConstant() bool { return false }

// Print returns a textual form of the expression
func (x *ExternalExpr) Print() string {
	if x.Value.ModuleName == "" {
		return x.Value.Name
	}
	return fmt.Sprintf("import(%s).%s", x.Value.ModuleName, x.Value.Name)
}

// InvokeFunctionExpr is a function call
type InvokeFunctionExpr struct {
	ExpressionBase
	Fn   OutputExpression
	Args []OutputExpression
	Pure bool
}

// NewInvokeFunctionExpr creates a new InvokeFunctionExpr
func NewInvokeFunctionExpr(fn OutputExpression, args []OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan, pure bool) *InvokeFunctionExpr {
	return &InvokeFunctionExpr{
		ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan},
		Fn:             fn,
		Args:           args,
		Pure:           pure,
	}
}

// InvokeFn is shorthand for NewInvokeFunctionExpr with no type or span
func InvokeFn(fn OutputExpression, args []OutputExpression) *InvokeFunctionExpr {
	return NewInvokeFunctionExpr(fn, args, nil, nil, false)
}

// IsEquivalent checks structural equivalence
func (i *InvokeFunctionExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*InvokeFunctionExpr)
	if !ok || !i.Fn.IsEquivalent(other.Fn) || len(i.Args) != len(other.Args) {
		return false
	}
	for idx, arg := range i.Args {
		if !arg.IsEquivalent(other.Args[idx]) {
			return false
		}
	}
	return true
}

// IsConstant reports whether the expression is constant
func (i *InvokeFunctionExpr) IsConstant() bool { return false }

// Print returns a textual form of the expression
func (i *InvokeFunctionExpr) Print() string {
	args := make([]string, len(i.Args))
	for idx, arg := range i.Args {
		args[idx] = arg.Print()
	}
	return fmt.Sprintf("%s(%s)", i.Fn.Print(), strings.Join(args, ", "))
}

// ArrowFunctionExpr is a zero-argument arrow function whose body is a single
// returned expression. Used to defer evaluation of forward references.
type ArrowFunctionExpr struct {
	ExpressionBase
	Body OutputExpression
}

// NewArrowFunctionExpr creates a new ArrowFunctionExpr
func NewArrowFunctionExpr(body OutputExpression, typ Type, sourceSpan *util.ParseSourceSpan) *ArrowFunctionExpr {
	return &ArrowFunctionExpr{ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan}, Body: body}
}

// ArrowFn is shorthand for NewArrowFunctionExpr with no type or span
func ArrowFn(body OutputExpression) *ArrowFunctionExpr {
	return NewArrowFunctionExpr(body, nil, nil)
}

// IsEquivalent checks structural equivalence
func (a *ArrowFunctionExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*ArrowFunctionExpr)
	return ok && a.Body.IsEquivalent(other.Body)
}

// IsConstant reports whether the expression is constant
func (a *ArrowFunctionExpr) IsConstant() bool { return false }

// Print returns a textual form of the expression
func (a *ArrowFunctionExpr) Print() string {
	return fmt.Sprintf("() => %s", a.Body.Print())
}

// WrappedNodeExpr carries an opaque host-syntax node through the output AST
// unchanged. Used for configuration values (animations, view providers) that
// are emitted verbatim rather than rebuilt.
type WrappedNodeExpr struct {
	ExpressionBase
	Node fmt.Stringer
}

// NewWrappedNodeExpr creates a new WrappedNodeExpr
func NewWrappedNodeExpr(node fmt.Stringer, typ Type, sourceSpan *util.ParseSourceSpan) *WrappedNodeExpr {
	return &WrappedNodeExpr{ExpressionBase: ExpressionBase{Type: typ, SourceSpan: sourceSpan}, Node: node}
}

// WrapNode is shorthand for NewWrappedNodeExpr with no type or span
func WrapNode(node fmt.Stringer) *WrappedNodeExpr {
	return NewWrappedNodeExpr(node, nil, nil)
}

// IsEquivalent checks structural equivalence
func (w *WrappedNodeExpr) IsEquivalent(e OutputExpression) bool {
	other, ok := e.(*WrappedNodeExpr)
	return ok && w.Node == other.Node
}

// IsConstant reports whether the expression is constant
func (w *WrappedNodeExpr) IsConstant() bool { return false }

// Print returns a textual form of the expression
func (w *WrappedNodeExpr) Print() string { return w.Node.String() }

// StmtModifier represents statement modifiers as bit flags
type StmtModifier int

const (
	StmtModifierNone     StmtModifier = 0
	StmtModifierFinal    StmtModifier = 1 << 0
	StmtModifierExported StmtModifier = 1 << 1
)

// OutputStatement is the interface for output AST statements
type OutputStatement interface {
	GetSourceSpan() *util.ParseSourceSpan
	HasModifier(modifier StmtModifier) bool
	Print() string
}

// StatementBase provides common fields for statements
type StatementBase struct {
	Modifiers  StmtModifier
	SourceSpan *util.ParseSourceSpan
}

// GetSourceSpan returns the source span
func (s *StatementBase) GetSourceSpan() *util.ParseSourceSpan {
	return s.SourceSpan
}

// HasModifier checks if the statement has a modifier
func (s *StatementBase) HasModifier(modifier StmtModifier) bool {
	return s.Modifiers&modifier != 0
}

// DeclareVarStmt declares a variable
type DeclareVarStmt struct {
	StatementBase
	Name  string
	Value OutputExpression
	Type  Type
}

// NewDeclareVarStmt creates a new DeclareVarStmt
func NewDeclareVarStmt(name string, value OutputExpression, typ Type, modifiers StmtModifier, sourceSpan *util.ParseSourceSpan) *DeclareVarStmt {
	return &DeclareVarStmt{
		StatementBase: StatementBase{Modifiers: modifiers, SourceSpan: sourceSpan},
		Name:          name,
		Value:         value,
		Type:          typ,
	}
}

// Print returns a textual form of the statement
func (d *DeclareVarStmt) Print() string {
	keyword := "var"
	if d.HasModifier(StmtModifierFinal) {
		keyword = "const"
	}
	if d.Value == nil {
		return fmt.Sprintf("%s %s;", keyword, d.Name)
	}
	return fmt.Sprintf("%s %s = %s;", keyword, d.Name, d.Value.Print())
}

// ExpressionStatement wraps an expression as a statement
type ExpressionStatement struct {
	StatementBase
	Expr OutputExpression
}

// NewExpressionStatement creates a new ExpressionStatement
func NewExpressionStatement(expr OutputExpression, sourceSpan *util.ParseSourceSpan) *ExpressionStatement {
	return &ExpressionStatement{StatementBase: StatementBase{SourceSpan: sourceSpan}, Expr: expr}
}

// Print returns a textual form of the statement
func (e *ExpressionStatement) Print() string {
	return e.Expr.Print() + ";"
}
