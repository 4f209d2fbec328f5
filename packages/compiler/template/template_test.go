package template_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngtsc-go/packages/compiler/template"
)

func parse(t *testing.T, content string, options template.ParseOptions) *template.ParsedTemplate {
	t.Helper()
	parsed := template.ParseTemplate(content, "test.html", options)
	if len(parsed.Errors) > 0 {
		t.Fatalf("unexpected parse errors: %v", parsed.Errors)
	}
	return parsed
}

func TestParseElementsAndText(t *testing.T) {
	parsed := parse(t, "<div class=\"box\"><span>hi</span></div>", template.ParseOptions{})

	if len(parsed.Nodes) != 1 {
		t.Fatalf("expected one root node, got %d", len(parsed.Nodes))
	}
	div, ok := parsed.Nodes[0].(*template.Element)
	if !ok || div.Name != "div" {
		t.Fatalf("expected a div element, got %#v", parsed.Nodes[0])
	}
	if value, _ := div.Attr("class"); value != "box" {
		t.Errorf("class attribute = %q", value)
	}
	span, ok := div.Children[0].(*template.Element)
	if !ok || span.Name != "span" {
		t.Fatalf("expected a span child")
	}
	text, ok := span.Children[0].(*template.Text)
	if !ok || text.Value != "hi" {
		t.Errorf("expected text \"hi\", got %#v", span.Children[0])
	}
}

func TestParseInterpolations(t *testing.T) {
	parsed := parse(t, "<p>{{ a }} and {{b | upper}}</p>", template.ParseOptions{})

	p := parsed.Nodes[0].(*template.Element)
	text := p.Children[0].(*template.Text)
	want := []string{"a", "b | upper"}
	if diff := cmp.Diff(want, text.Expressions); diff != "" {
		t.Errorf("interpolation expressions mismatch:\n%s", diff)
	}
}

func TestCustomInterpolationDelimiters(t *testing.T) {
	options := template.ParseOptions{
		InterpolationConfig: template.NewInterpolationConfig([]string{"[[", "]]"}),
	}
	parsed := parse(t, "<p>[[ a ]] {{not one}}</p>", options)

	text := parsed.Nodes[0].(*template.Element).Children[0].(*template.Text)
	if len(text.Expressions) != 1 || text.Expressions[0] != "a" {
		t.Errorf("expressions = %v", text.Expressions)
	}
}

func TestExtractStylesAndStyleUrls(t *testing.T) {
	content := `<style>h1 { color: red }</style>` +
		`<link rel="stylesheet" href="extra.css">` +
		`<div>body</div>`
	parsed := parse(t, content, template.ParseOptions{})

	if diff := cmp.Diff([]string{"h1 { color: red }"}, parsed.Styles); diff != "" {
		t.Errorf("styles mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"extra.css"}, parsed.StyleUrls); diff != "" {
		t.Errorf("style urls mismatch:\n%s", diff)
	}
	// Style and link elements are removed from the node tree.
	if len(parsed.Nodes) != 1 {
		t.Errorf("expected only the div to remain, got %d nodes", len(parsed.Nodes))
	}
}

func TestNgContentSelectors(t *testing.T) {
	parsed := parse(t, `<ng-content select="[slot]"></ng-content><ng-content></ng-content>`, template.ParseOptions{})

	if diff := cmp.Diff([]string{"[slot]", "*"}, parsed.NgContentSelectors); diff != "" {
		t.Errorf("ng-content selectors mismatch:\n%s", diff)
	}
}

func TestWhitespaceHandling(t *testing.T) {
	content := "<div>\n  <b>x</b>\n</div>"

	collapsed := parse(t, content, template.ParseOptions{})
	div := collapsed.Nodes[0].(*template.Element)
	if len(div.Children) != 1 {
		t.Errorf("expected whitespace-only text nodes to be dropped, got %d children", len(div.Children))
	}

	preserved := parse(t, content, template.ParseOptions{PreserveWhitespaces: true})
	div = preserved.Nodes[0].(*template.Element)
	if len(div.Children) != 3 {
		t.Errorf("expected whitespace to be preserved, got %d children", len(div.Children))
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unclosed element", "<div><span></div>"},
		{"stray closing tag", "</div>"},
		{"unterminated comment", "<!-- never ends"},
		{"unterminated interpolation", "<p>{{ oops</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := template.ParseTemplate(tc.content, "test.html", template.ParseOptions{})
			if len(parsed.Errors) == 0 {
				t.Error("expected parse errors")
			}
		})
	}
}

func TestVoidAndSelfClosingElements(t *testing.T) {
	parsed := parse(t, `<input type="text"><my-comp/>`, template.ParseOptions{})

	if len(parsed.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(parsed.Nodes))
	}
	input := parsed.Nodes[0].(*template.Element)
	if input.Name != "input" || len(input.Children) != 0 {
		t.Errorf("unexpected input element: %#v", input)
	}
	comp := parsed.Nodes[1].(*template.Element)
	if comp.Name != "my-comp" || !comp.IsSelfClosing {
		t.Errorf("unexpected self-closing element: %#v", comp)
	}
}
