package template

import (
	"fmt"
	"strings"

	"ngtsc-go/packages/compiler/util"
)

// voidElements never have children or a closing tag
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawTextElements contain text that must not be scanned for markup
var rawTextElements = map[string]bool{
	"style": true, "script": true, "title": true, "textarea": true,
}

// parser is a cursor over the template source. It tracks offset, line and
// column so every produced node carries an accurate ParseSourceSpan.
type parser struct {
	file   *util.ParseSourceFile
	input  string
	offset int
	line   int
	col    int
	interp *InterpolationConfig
	errors []*util.ParseError
}

func newParser(content, url string, interp *InterpolationConfig) *parser {
	if interp == nil {
		interp = DefaultInterpolationConfig
	}
	return &parser{
		file:   util.NewParseSourceFile(content, url),
		input:  content,
		interp: interp,
	}
}

func (p *parser) eof() bool {
	return p.offset >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.offset]
}

func (p *parser) startsWith(s string) bool {
	return strings.HasPrefix(p.input[p.offset:], s)
}

func (p *parser) location() *util.ParseLocation {
	return util.NewParseLocation(p.file, p.offset, p.line, p.col)
}

func (p *parser) spanFrom(start *util.ParseLocation) *util.ParseSourceSpan {
	return util.NewParseSourceSpan(start, p.location(), nil)
}

func (p *parser) advance() {
	if p.eof() {
		return
	}
	if p.input[p.offset] == '\n' {
		p.line++
		p.col = 0
	} else {
		p.col++
	}
	p.offset++
}

func (p *parser) advanceBy(n int) {
	for i := 0; i < n && !p.eof(); i++ {
		p.advance()
	}
}

func (p *parser) reportError(span *util.ParseSourceSpan, format string, args ...interface{}) {
	p.errors = append(p.errors, util.NewParseError(span, fmt.Sprintf(format, args...)))
}

// consumeUntil advances past the next occurrence of marker and returns the
// text before it. Returns false if the marker never occurs.
func (p *parser) consumeUntil(marker string) (string, bool) {
	idx := strings.Index(p.input[p.offset:], marker)
	if idx == -1 {
		text := p.input[p.offset:]
		p.advanceBy(len(text))
		return text, false
	}
	text := p.input[p.offset : p.offset+idx]
	p.advanceBy(idx + len(marker))
	return text, true
}

func isNameStartChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {
	return isNameStartChar(c) || c >= '0' && c <= '9' || c == '-' || c == '_' || c == ':' || c == '.'
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func (p *parser) skipWhitespace() {
	for !p.eof() && isWhitespace(p.peek()) {
		p.advance()
	}
}

func (p *parser) consumeName() string {
	start := p.offset
	for !p.eof() && isNameChar(p.peek()) {
		p.advance()
	}
	return p.input[start:p.offset]
}

// parseNodes parses sibling nodes until EOF or the closing tag of the named
// enclosing element. It consumes the matching closing tag.
func (p *parser) parseNodes(enclosing string) []Node {
	var nodes []Node
	for !p.eof() {
		if p.startsWith("<!--") {
			nodes = append(nodes, p.parseComment())
			continue
		}
		if p.startsWith("</") {
			start := p.location()
			p.advanceBy(2)
			name := p.consumeName()
			p.skipWhitespace()
			if p.peek() == '>' {
				p.advance()
			}
			if enclosing != "" && strings.EqualFold(name, enclosing) {
				return nodes
			}
			p.reportError(p.spanFrom(start), "Unexpected closing tag \"%s\". It may happen when the tag has already been closed by another tag", name)
			continue
		}
		if p.peek() == '<' && p.offset+1 < len(p.input) && isNameStartChar(p.input[p.offset+1]) {
			nodes = append(nodes, p.parseElement())
			continue
		}
		nodes = append(nodes, p.parseText())
	}
	if enclosing != "" {
		p.reportError(p.spanFrom(p.location()), "Unclosed element \"%s\"", enclosing)
	}
	return nodes
}

func (p *parser) parseComment() *Comment {
	start := p.location()
	p.advanceBy(4) // "<!--"
	value, terminated := p.consumeUntil("-->")
	if !terminated {
		p.reportError(p.spanFrom(start), "Unterminated comment")
	}
	return NewComment(strings.TrimSpace(value), p.spanFrom(start))
}

func (p *parser) parseElement() *Element {
	start := p.location()
	p.advance() // "<"
	name := p.consumeName()

	var attrs []*Attribute
	selfClosing := false
	for {
		p.skipWhitespace()
		if p.eof() {
			p.reportError(p.spanFrom(start), "Unexpected end of input inside tag \"%s\"", name)
			break
		}
		if p.startsWith("/>") {
			p.advanceBy(2)
			selfClosing = true
			break
		}
		if p.peek() == '>' {
			p.advance()
			break
		}
		attrs = append(attrs, p.parseAttribute(name))
	}
	startSpan := p.spanFrom(start)

	lower := strings.ToLower(name)
	if selfClosing || voidElements[lower] {
		return NewElement(name, attrs, nil, selfClosing, p.spanFrom(start), startSpan, nil)
	}

	if rawTextElements[lower] {
		textStart := p.location()
		value, terminated := p.consumeUntil("</" + name + ">")
		if !terminated {
			p.reportError(p.spanFrom(textStart), "Unclosed element \"%s\"", name)
		}
		var children []Node
		if value != "" {
			children = []Node{NewText(value, nil, p.spanFrom(textStart))}
		}
		endSpan := p.spanFrom(textStart)
		return NewElement(name, attrs, children, false, p.spanFrom(start), startSpan, endSpan)
	}

	children := p.parseNodes(name)
	endSpan := p.spanFrom(start)
	return NewElement(name, attrs, children, false, p.spanFrom(start), startSpan, endSpan)
}

func (p *parser) parseAttribute(tagName string) *Attribute {
	start := p.location()
	nameStart := p.offset
	for !p.eof() && !isWhitespace(p.peek()) && p.peek() != '=' && p.peek() != '>' && !p.startsWith("/>") {
		p.advance()
	}
	name := p.input[nameStart:p.offset]
	if name == "" {
		// Should not happen given the callers, but don't loop forever.
		p.advance()
		p.reportError(p.spanFrom(start), "Invalid attribute in tag \"%s\"", tagName)
		return NewAttribute("", "", p.spanFrom(start), nil)
	}

	p.skipWhitespace()
	if p.peek() != '=' {
		return NewAttribute(name, "", p.spanFrom(start), nil)
	}
	p.advance() // "="
	p.skipWhitespace()

	var value string
	valueStart := p.location()
	if quote := p.peek(); quote == '"' || quote == '\'' {
		p.advance()
		valueStart = p.location()
		var terminated bool
		value, terminated = p.consumeUntil(string(quote))
		if !terminated {
			p.reportError(p.spanFrom(valueStart), "Unterminated attribute value for \"%s\" in tag \"%s\"", name, tagName)
		}
	} else {
		vStart := p.offset
		for !p.eof() && !isWhitespace(p.peek()) && p.peek() != '>' && !p.startsWith("/>") {
			p.advance()
		}
		value = p.input[vStart:p.offset]
	}
	return NewAttribute(name, value, p.spanFrom(start), p.spanFrom(valueStart))
}

func (p *parser) parseText() *Text {
	start := p.location()
	textStart := p.offset
	for !p.eof() {
		if p.peek() == '<' && (p.startsWith("<!--") || p.startsWith("</") ||
			(p.offset+1 < len(p.input) && isNameStartChar(p.input[p.offset+1]))) {
			break
		}
		p.advance()
	}
	value := p.input[textStart:p.offset]
	return NewText(value, p.splitInterpolations(value, start), p.spanFrom(start))
}

// splitInterpolations extracts the raw expression source of every
// interpolation in a text chunk.
func (p *parser) splitInterpolations(text string, start *util.ParseLocation) []string {
	var expressions []string
	rest := text
	for {
		open := strings.Index(rest, p.interp.Start)
		if open == -1 {
			return expressions
		}
		rest = rest[open+len(p.interp.Start):]
		end := strings.Index(rest, p.interp.End)
		if end == -1 {
			p.errors = append(p.errors, util.NewParseError(
				util.NewParseSourceSpan(start, p.location(), nil),
				fmt.Sprintf("Unterminated interpolation, expected closing \"%s\"", p.interp.End)))
			return expressions
		}
		expressions = append(expressions, strings.TrimSpace(rest[:end]))
		rest = rest[end+len(p.interp.End):]
	}
}
