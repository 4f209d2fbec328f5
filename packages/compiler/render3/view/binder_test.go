package view_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngtsc-go/packages/compiler/css"
	"ngtsc-go/packages/compiler/render3/view"
	"ngtsc-go/packages/compiler/template"
)

type testDirective struct {
	name     string
	selector string
}

func (d testDirective) GetSelector() string { return d.selector }

func makeMatcher(t *testing.T, directives ...testDirective) *css.SelectorMatcher[testDirective] {
	t.Helper()
	matcher := css.NewSelectorMatcher[testDirective]()
	for i := range directives {
		selectors, err := css.ParseCssSelector(directives[i].selector)
		if err != nil {
			t.Fatalf("bad selector %q: %v", directives[i].selector, err)
		}
		matcher.AddSelectables(selectors, &directives[i])
	}
	return matcher
}

func bind(t *testing.T, content string, directives ...testDirective) *view.BoundTarget[testDirective] {
	t.Helper()
	parsed := template.ParseTemplate(content, "test.html", template.ParseOptions{})
	if len(parsed.Errors) > 0 {
		t.Fatalf("unexpected parse errors: %v", parsed.Errors)
	}
	binder := view.NewR3TargetBinder(makeMatcher(t, directives...))
	return binder.Bind(view.Target{Template: parsed.Nodes})
}

func usedNames[D view.DirectiveMeta](bound *view.BoundTarget[D], nameOf func(D) string) []string {
	names := []string{}
	for _, d := range bound.GetUsedDirectives() {
		names = append(names, nameOf(d))
	}
	return names
}

func TestBinderMatchesDirectivesInDocumentOrder(t *testing.T) {
	bound := bind(t, `<my-comp></my-comp><div dir></div><span></span>`,
		testDirective{name: "MyComp", selector: "my-comp"},
		testDirective{name: "Dir", selector: "[dir]"},
		testDirective{name: "Unused", selector: "never-matches"},
	)

	got := usedNames(bound, func(d testDirective) string { return d.name })
	if diff := cmp.Diff([]string{"MyComp", "Dir"}, got); diff != "" {
		t.Errorf("used directives mismatch:\n%s", diff)
	}
}

func TestBinderDedupesRepeatedMatches(t *testing.T) {
	bound := bind(t, `<div dir></div><p dir><b dir></b></p>`,
		testDirective{name: "Dir", selector: "[dir]"},
	)

	if got := len(bound.GetUsedDirectives()); got != 1 {
		t.Errorf("expected one used directive, got %d", got)
	}
}

func TestBinderNormalizesBindingSyntaxForMatching(t *testing.T) {
	bound := bind(t, `<div [dir]="expr"></div><a *ngIf="cond"></a>`,
		testDirective{name: "Dir", selector: "[dir]"},
		testDirective{name: "NgIf", selector: "[ngIf]"},
	)

	got := usedNames(bound, func(d testDirective) string { return d.name })
	if diff := cmp.Diff([]string{"Dir", "NgIf"}, got); diff != "" {
		t.Errorf("used directives mismatch:\n%s", diff)
	}
}

func TestBinderCollectsUsedPipes(t *testing.T) {
	bound := bind(t, `<p>{{ name | upper }}</p><div [title]="date | format | trim"></div>`)

	pipes := bound.GetUsedPipes()
	sort.Strings(pipes)
	if diff := cmp.Diff([]string{"format", "trim", "upper"}, pipes); diff != "" {
		t.Errorf("used pipes mismatch:\n%s", diff)
	}
}

func TestBinderIgnoresLogicalOr(t *testing.T) {
	bound := bind(t, `<p>{{ a || b }}</p>`)

	if pipes := bound.GetUsedPipes(); len(pipes) != 0 {
		t.Errorf("expected no pipes, got %v", pipes)
	}
}
