package view

import (
	"regexp"
	"strings"

	"ngtsc-go/packages/compiler/css"
	"ngtsc-go/packages/compiler/template"
)

// DirectiveMeta is the subset of directive information the binder needs to
// match template elements against a compilation scope.
type DirectiveMeta interface {
	// GetSelector returns the unparsed CSS selector of the directive.
	GetSelector() string
}

// Target represents a logical target for binding, currently a template.
type Target struct {
	Template []template.Node
}

// R3TargetBinder binds a parsed template against the set of directives and
// pipes in scope, discovering which of them the template actually uses.
type R3TargetBinder[D DirectiveMeta] struct {
	matcher *css.SelectorMatcher[D]
}

// NewR3TargetBinder creates a new R3TargetBinder
func NewR3TargetBinder[D DirectiveMeta](matcher *css.SelectorMatcher[D]) *R3TargetBinder[D] {
	return &R3TargetBinder[D]{matcher: matcher}
}

// Bind performs the binding operation against the given target
func (b *R3TargetBinder[D]) Bind(target Target) *BoundTarget[D] {
	binder := &targetBindingVisitor[D]{
		matcher: b.matcher,
		seen:    make(map[interface{}]bool),
		pipes:   make(map[string]bool),
	}
	template.VisitAll(binder, target.Template)

	pipes := make([]string, 0, len(binder.pipes))
	for name := range binder.pipes {
		pipes = append(pipes, name)
	}
	return &BoundTarget[D]{
		Target:     target,
		directives: binder.directives,
		usedPipes:  pipes,
	}
}

// BoundTarget is the result of binding a target against a directive/pipe scope.
type BoundTarget[D DirectiveMeta] struct {
	Target Target

	directives []D
	usedPipes  []string
}

// GetUsedDirectives returns the directives the bound template matched, in
// first-match order.
func (bt *BoundTarget[D]) GetUsedDirectives() []D {
	return bt.directives
}

// GetUsedPipes returns the names of the pipes applied inside the bound template.
func (bt *BoundTarget[D]) GetUsedPipes() []string {
	return bt.usedPipes
}

// pipeRegexp finds `| pipeName` applications, taking care not to treat the
// logical-or operator as a pipe.
var pipeRegexp = regexp.MustCompile(`(^|[^|])\|\s*([A-Za-z_$][\w$]*)`)

type targetBindingVisitor[D DirectiveMeta] struct {
	template.RecursiveVisitor

	matcher    *css.SelectorMatcher[D]
	directives []D
	seen       map[interface{}]bool
	pipes      map[string]bool
}

func (t *targetBindingVisitor[D]) VisitElement(element *template.Element) {
	selector := createCssSelectorForElement(element)
	t.matcher.Match(selector, func(_ *css.CssSelector, directive *D) {
		if directive == nil {
			return
		}
		if !t.seen[*directive] {
			t.seen[*directive] = true
			t.directives = append(t.directives, *directive)
		}
	})

	for _, attr := range element.Attrs {
		if isBindingAttribute(attr.Name) {
			t.collectPipes(attr.Value)
		}
	}

	template.VisitAll(t, element.Children)
}

func (t *targetBindingVisitor[D]) VisitText(text *template.Text) {
	for _, expression := range text.Expressions {
		t.collectPipes(expression)
	}
}

func (t *targetBindingVisitor[D]) collectPipes(expression string) {
	for _, match := range pipeRegexp.FindAllStringSubmatch(expression, -1) {
		t.pipes[match[2]] = true
	}
}

// createCssSelectorForElement derives the CssSelector an element presents to
// directive matching: its tag name, its attributes with binding syntax
// normalized away, and its classes.
func createCssSelectorForElement(element *template.Element) *css.CssSelector {
	selector := css.NewCssSelector()
	selector.SetElement(element.Name)

	for _, attr := range element.Attrs {
		name := normalizeAttributeName(attr.Name)
		if name == "" {
			continue
		}
		if name == "class" {
			for _, className := range strings.Fields(attr.Value) {
				selector.AddClassName(className)
			}
			continue
		}
		value := ""
		if !isBindingAttribute(attr.Name) {
			value = attr.Value
		}
		selector.AddAttribute(name, value)
	}
	return selector
}

func isBindingAttribute(name string) bool {
	return strings.HasPrefix(name, "[") || strings.HasPrefix(name, "(") ||
		strings.HasPrefix(name, "*") || strings.HasPrefix(name, "bind-") ||
		strings.HasPrefix(name, "on-")
}

func normalizeAttributeName(name string) string {
	switch {
	case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
		return strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
	case strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
		return strings.TrimSuffix(strings.TrimPrefix(name, "("), ")")
	case strings.HasPrefix(name, "*"):
		return strings.TrimPrefix(name, "*")
	case strings.HasPrefix(name, "bind-"):
		return strings.TrimPrefix(name, "bind-")
	case strings.HasPrefix(name, "on-"):
		return strings.TrimPrefix(name, "on-")
	default:
		return name
	}
}
