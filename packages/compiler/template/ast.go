package template

import (
	"ngtsc-go/packages/compiler/util"
)

// Node is the interface implemented by every template AST node
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor)
}

// Text is a text node, possibly containing interpolations
type Text struct {
	Value string
	// Expressions holds the raw expression source of each interpolation
	// found in the text, in document order.
	Expressions []string
	Span        *util.ParseSourceSpan
}

// NewText creates a new Text node
func NewText(value string, expressions []string, span *util.ParseSourceSpan) *Text {
	return &Text{Value: value, Expressions: expressions, Span: span}
}

// SourceSpan returns the source span of the node
func (t *Text) SourceSpan() *util.ParseSourceSpan { return t.Span }

// Visit dispatches to the visitor
func (t *Text) Visit(visitor Visitor) { visitor.VisitText(t) }

// Attribute is an attribute on an element
type Attribute struct {
	Name      string
	Value     string
	Span      *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewAttribute creates a new Attribute
func NewAttribute(name, value string, span, valueSpan *util.ParseSourceSpan) *Attribute {
	return &Attribute{Name: name, Value: value, Span: span, ValueSpan: valueSpan}
}

// SourceSpan returns the source span of the node
func (a *Attribute) SourceSpan() *util.ParseSourceSpan { return a.Span }

// Visit dispatches to the visitor
func (a *Attribute) Visit(visitor Visitor) { visitor.VisitAttribute(a) }

// Element is an element node
type Element struct {
	Name          string
	Attrs         []*Attribute
	Children      []Node
	IsSelfClosing bool
	Span          *util.ParseSourceSpan
	StartSpan     *util.ParseSourceSpan
	EndSpan       *util.ParseSourceSpan
}

// NewElement creates a new Element
func NewElement(name string, attrs []*Attribute, children []Node, isSelfClosing bool, span, startSpan, endSpan *util.ParseSourceSpan) *Element {
	return &Element{
		Name:          name,
		Attrs:         attrs,
		Children:      children,
		IsSelfClosing: isSelfClosing,
		Span:          span,
		StartSpan:     startSpan,
		EndSpan:       endSpan,
	}
}

// SourceSpan returns the source span of the node
func (e *Element) SourceSpan() *util.ParseSourceSpan { return e.Span }

// Visit dispatches to the visitor
func (e *Element) Visit(visitor Visitor) { visitor.VisitElement(e) }

// Attr returns the value of the named attribute, if present
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.Attrs {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Comment is a comment node
type Comment struct {
	Value string
	Span  *util.ParseSourceSpan
}

// NewComment creates a new Comment
func NewComment(value string, span *util.ParseSourceSpan) *Comment {
	return &Comment{Value: value, Span: span}
}

// SourceSpan returns the source span of the node
func (c *Comment) SourceSpan() *util.ParseSourceSpan { return c.Span }

// Visit dispatches to the visitor
func (c *Comment) Visit(visitor Visitor) { visitor.VisitComment(c) }

// Visitor visits template AST nodes
type Visitor interface {
	VisitElement(element *Element)
	VisitAttribute(attribute *Attribute)
	VisitText(text *Text)
	VisitComment(comment *Comment)
}

// VisitAll visits all nodes with the given visitor
func VisitAll(visitor Visitor, nodes []Node) {
	for _, node := range nodes {
		node.Visit(visitor)
	}
}

// RecursiveVisitor visits every node in the tree, descending into element children
type RecursiveVisitor struct{}

// VisitElement visits an element and its attributes and children
func (r *RecursiveVisitor) VisitElement(element *Element) {
	for _, attr := range element.Attrs {
		attr.Visit(r)
	}
	VisitAll(r, element.Children)
}

// VisitAttribute visits an attribute
func (r *RecursiveVisitor) VisitAttribute(attribute *Attribute) {}

// VisitText visits a text node
func (r *RecursiveVisitor) VisitText(text *Text) {}

// VisitComment visits a comment node
func (r *RecursiveVisitor) VisitComment(comment *Comment) {}
