package template

import (
	"regexp"
	"strings"

	"ngtsc-go/packages/compiler/util"
)

// ParsedTemplate is the result of parsing one component template. Styles and
// stylesheet links found inside the template are extracted out of the node
// tree; the analysis phase merges them into the component's style list.
type ParsedTemplate struct {
	// Nodes of the template, in document order, with style and stylesheet
	// link elements removed.
	Nodes []Node

	// Errors encountered while parsing. Empty on success.
	Errors []*util.ParseError

	// StyleUrls lists the URLs of stylesheets referenced from inside the
	// template via <link rel="stylesheet" href="...">.
	StyleUrls []string

	// Styles lists the bodies of inline <style> elements.
	Styles []string

	// NgContentSelectors lists content projection selectors, with `*` for an
	// ng-content element without a select attribute.
	NgContentSelectors []string

	// Interpolation is the delimiter configuration the template was parsed with.
	Interpolation *InterpolationConfig

	// PreserveWhitespaces records whether whitespace was kept as authored.
	PreserveWhitespaces bool
}

// ParseOptions configures template parsing
type ParseOptions struct {
	InterpolationConfig *InterpolationConfig
	PreserveWhitespaces bool
}

// ParseTemplate parses a template into a ParsedTemplate. Parsing never fails
// outright; structural problems are reported through ParsedTemplate.Errors.
func ParseTemplate(content, url string, options ParseOptions) *ParsedTemplate {
	interp := options.InterpolationConfig
	if interp == nil {
		interp = DefaultInterpolationConfig
	}
	p := newParser(content, url, interp)
	nodes := p.parseNodes("")

	parsed := &ParsedTemplate{
		Errors:              p.errors,
		Interpolation:       interp,
		PreserveWhitespaces: options.PreserveWhitespaces,
	}
	parsed.Nodes = extractStyles(nodes, parsed)
	if !options.PreserveWhitespaces {
		parsed.Nodes = removeWhitespaces(parsed.Nodes)
	}
	return parsed
}

// extractStyles walks the node tree, collecting <style> bodies, stylesheet
// links and ng-content selectors. Style and link elements are removed from
// the tree; everything else is kept in place.
func extractStyles(nodes []Node, parsed *ParsedTemplate) []Node {
	out := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		element, ok := node.(*Element)
		if !ok {
			out = append(out, node)
			continue
		}
		switch strings.ToLower(element.Name) {
		case "style":
			if len(element.Children) == 1 {
				if text, ok := element.Children[0].(*Text); ok {
					parsed.Styles = append(parsed.Styles, text.Value)
				}
			}
			continue
		case "link":
			if rel, _ := element.Attr("rel"); strings.EqualFold(rel, "stylesheet") {
				if href, ok := element.Attr("href"); ok {
					parsed.StyleUrls = append(parsed.StyleUrls, href)
				}
				continue
			}
		case "ng-content":
			selector, ok := element.Attr("select")
			if !ok || selector == "" {
				selector = "*"
			}
			parsed.NgContentSelectors = append(parsed.NgContentSelectors, selector)
		}
		element.Children = extractStyles(element.Children, parsed)
		out = append(out, element)
	}
	return out
}

var whitespaceRun = regexp.MustCompile(`[ \t\n\r\f]+`)

// removeWhitespaces drops whitespace-only text nodes and collapses runs of
// whitespace in the remaining ones, mirroring the default whitespace handling
// of the template compiler.
func removeWhitespaces(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		switch n := node.(type) {
		case *Text:
			if strings.TrimSpace(n.Value) == "" && len(n.Expressions) == 0 {
				continue
			}
			n.Value = whitespaceRun.ReplaceAllString(n.Value, " ")
			out = append(out, n)
		case *Element:
			if !rawTextElements[strings.ToLower(n.Name)] {
				n.Children = removeWhitespaces(n.Children)
			}
			out = append(out, n)
		default:
			out = append(out, node)
		}
	}
	return out
}
