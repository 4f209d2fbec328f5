package util

import (
	"fmt"
)

// ParseSourceFile represents a source file being parsed
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{Content: content, URL: url}
}

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{File: file, Offset: offset, Line: line, Col: col}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// ParseSourceSpan represents a span of source text
type ParseSourceSpan struct {
	Start   *ParseLocation
	End     *ParseLocation
	Details *string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation, details *string) *ParseSourceSpan {
	return &ParseSourceSpan{Start: start, End: end, Details: details}
}

// String returns the source text covered by the span
func (p *ParseSourceSpan) String() string {
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

// ParseErrorLevel represents the severity of a parse error
type ParseErrorLevel int

const (
	ParseErrorLevelWarning ParseErrorLevel = iota
	ParseErrorLevelError
)

// ParseError represents an error encountered while parsing
type ParseError struct {
	Span  *ParseSourceSpan
	Msg   string
	Level ParseErrorLevel
}

// NewParseError creates a new ParseError with level Error
func NewParseError(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{Span: span, Msg: msg, Level: ParseErrorLevelError}
}

// Error implements the error interface
func (p *ParseError) Error() string {
	if p.Span != nil && p.Span.Start != nil {
		return fmt.Sprintf("%s (%s)", p.Msg, p.Span.Start.String())
	}
	return p.Msg
}

// ContextualMessage returns the error message with its location context
func (p *ParseError) ContextualMessage() string {
	return p.Error()
}
