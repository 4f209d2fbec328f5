package css

import (
	"fmt"
	"regexp"
	"strings"
)

// SelectorRegexp represents the regex group indices for selector parsing
type SelectorRegexp int

const (
	SelectorRegexpAll             SelectorRegexp = iota
	SelectorRegexpNot                            // 1: ":not("
	SelectorRegexpTag                            // 2: tag with prefix
	SelectorRegexpPrefix                         // 3: prefix (. or #)
	SelectorRegexpAttribute                      // 4: attribute name
	SelectorRegexpAttributeValue                 // 5: attribute value (double quoted)
	SelectorRegexpAttributeValue2                // 6: attribute value (single quoted)
	SelectorRegexpAttributeValue3                // 7: attribute value (unquoted)
	SelectorRegexpNotEnd                         // 8: ")"
	SelectorRegexpSeparator                      // 9: ","
)

// selectorRegexp matches CSS selector patterns
// Go doesn't support backreferences, so we accept any quote type and value without validating matching quotes
var selectorRegexp = regexp.MustCompile(
	`(\:not\()|` + // 1: ":not("
		`(([\.\#]?)[-\w]+)|` + // 2: "tag"; 3: "."/"#"
		// 4: attribute name; 5: double quoted value; 6: single quoted value; 7: unquoted value
		`(?:\[([-.\w*\\$]+)(?:=(?:"([^"]*)"|'([^']*)'|([^\]\s]+)))?\])|` + // [name], [name=value], [name="value"], [name='value']
		`(\))|` + // 8: ")"
		`(\s*,\s*)`, // 9: ","
)

// CssSelector represents a CSS selector
type CssSelector struct {
	Element      *string
	ClassNames   []string
	Attrs        []string // Pairs: [name, value, name, value, ...]
	NotSelectors []*CssSelector
}

// NewCssSelector creates a new CssSelector
func NewCssSelector() *CssSelector {
	return &CssSelector{
		ClassNames:   []string{},
		Attrs:        []string{},
		NotSelectors: []*CssSelector{},
	}
}

// ParseCssSelector parses a CSS selector string into CssSelector array
func ParseCssSelector(selector string) ([]*CssSelector, error) {
	results := []*CssSelector{}

	addResult := func(res []*CssSelector, cssSel *CssSelector) []*CssSelector {
		if len(cssSel.NotSelectors) > 0 &&
			cssSel.Element == nil &&
			len(cssSel.ClassNames) == 0 &&
			len(cssSel.Attrs) == 0 {
			star := "*"
			cssSel.Element = &star
		}
		return append(res, cssSel)
	}

	cssSelector := NewCssSelector()
	current := cssSelector
	inNot := false

	matches := selectorRegexp.FindAllStringSubmatch(selector, -1)
	for _, match := range matches {
		if match[SelectorRegexpNot] != "" {
			if inNot {
				return nil, fmt.Errorf("nesting :not in a selector is not allowed")
			}
			inNot = true
			current = NewCssSelector()
			cssSelector.NotSelectors = append(cssSelector.NotSelectors, current)
		}

		if tag := match[SelectorRegexpTag]; tag != "" {
			prefix := match[SelectorRegexpPrefix]
			if prefix == "#" {
				// #hash
				current.AddAttribute("id", tag[1:])
			} else if prefix == "." {
				// Class
				current.AddClassName(tag[1:])
			} else {
				// Element
				current.SetElement(tag)
			}
		}

		// Attribute handling: group 4 = name, groups 5/6/7 = value (one will match based on quote type)
		if attribute := match[SelectorRegexpAttribute]; attribute != "" {
			attrValue := match[SelectorRegexpAttributeValue]
			if attrValue == "" {
				attrValue = match[SelectorRegexpAttributeValue2]
			}
			if attrValue == "" {
				attrValue = match[SelectorRegexpAttributeValue3]
			}

			unescapedAttr, err := current.UnescapeAttribute(attribute)
			if err != nil {
				return nil, err
			}
			current.AddAttribute(unescapedAttr, attrValue)
		}

		if match[SelectorRegexpNotEnd] != "" {
			inNot = false
			current = cssSelector
		}

		if match[SelectorRegexpSeparator] != "" {
			if inNot {
				return nil, fmt.Errorf("multiple selectors in :not are not supported")
			}
			results = addResult(results, cssSelector)
			cssSelector = NewCssSelector()
			current = cssSelector
			inNot = false
		}
	}

	results = addResult(results, cssSelector)
	return results, nil
}

// UnescapeAttribute unescapes \$ sequences from the CSS attribute selector
func (cs *CssSelector) UnescapeAttribute(attr string) (string, error) {
	result := ""
	escaping := false
	for i := 0; i < len(attr); i++ {
		char := attr[i]
		if char == '\\' {
			escaping = true
			continue
		}
		if char == '$' && !escaping {
			return "", fmt.Errorf(`error in attribute selector "%s". unescaped "$" is not supported. please escape with "\\$"`, attr)
		}
		escaping = false
		result += string(char)
	}
	return result, nil
}

// EscapeAttribute escapes $ sequences from the CSS attribute selector
func (cs *CssSelector) EscapeAttribute(attr string) string {
	result := strings.ReplaceAll(attr, "\\", "\\\\")
	result = strings.ReplaceAll(result, "$", "\\$")
	return result
}

// IsElementSelector checks if this is an element selector
func (cs *CssSelector) IsElementSelector() bool {
	return cs.HasElementSelector() &&
		len(cs.ClassNames) == 0 &&
		len(cs.Attrs) == 0 &&
		len(cs.NotSelectors) == 0
}

// HasElementSelector checks if this selector has an element
func (cs *CssSelector) HasElementSelector() bool {
	return cs.Element != nil
}

// SetElement sets the element name
func (cs *CssSelector) SetElement(element string) {
	cs.Element = &element
}

// GetAttrs returns the attributes array
func (cs *CssSelector) GetAttrs() []string {
	result := []string{}
	if len(cs.ClassNames) > 0 {
		result = append(result, "class", strings.Join(cs.ClassNames, " "))
	}
	return append(result, cs.Attrs...)
}

// AddAttribute adds an attribute
func (cs *CssSelector) AddAttribute(name string, value string) {
	cs.Attrs = append(cs.Attrs, name, strings.ToLower(value))
}

// AddClassName adds a class name
func (cs *CssSelector) AddClassName(name string) {
	cs.ClassNames = append(cs.ClassNames, strings.ToLower(name))
}

// GetElement returns the element name
func (cs *CssSelector) GetElement() *string {
	return cs.Element
}

// String returns the string representation of the selector
func (cs *CssSelector) String() string {
	res := ""
	if cs.Element != nil {
		res = *cs.Element
	}

	for _, klass := range cs.ClassNames {
		res += "." + klass
	}

	for i := 0; i < len(cs.Attrs); i += 2 {
		name := cs.EscapeAttribute(cs.Attrs[i])
		value := ""
		if i+1 < len(cs.Attrs) {
			value = cs.Attrs[i+1]
		}
		if value != "" {
			res += fmt.Sprintf("[%s=%s]", name, value)
		} else {
			res += fmt.Sprintf("[%s]", name)
		}
	}

	for _, notSelector := range cs.NotSelectors {
		res += fmt.Sprintf(":not(%s)", notSelector.String())
	}

	return res
}
