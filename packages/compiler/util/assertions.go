package util

import (
	"fmt"
	"regexp"
)

// unusableInterpolationRegexps contains regex patterns for unusable interpolation symbols
var unusableInterpolationRegexps = []*regexp.Regexp{
	regexp.MustCompile(`@`),              // control flow reserved symbol
	regexp.MustCompile(`^\s*$`),          // empty
	regexp.MustCompile(`[<>]`),           // html tag
	regexp.MustCompile(`^[{}]$`),         // i18n expansion
	regexp.MustCompile(`(?i)&(#|[a-z])`), // character reference (case insensitive)
	regexp.MustCompile(`^//`),            // comment
}

// AssertInterpolationSymbols validates an interpolation delimiter pair.
// The value must be a two-element [start, end] array and neither symbol may
// collide with markup syntax the template lexer already assigns meaning to.
func AssertInterpolationSymbols(identifier string, value []string) error {
	if value == nil {
		return nil
	}
	if len(value) != 2 {
		return fmt.Errorf("expected '%s' to be an array, [start, end]", identifier)
	}
	return checkUnusableSymbols(value[0], value[1])
}

func checkUnusableSymbols(start, end string) error {
	for _, regex := range unusableInterpolationRegexps {
		if regex.MatchString(start) {
			return fmt.Errorf("start symbol '%s' contains unusable interpolation symbol", start)
		}
		if regex.MatchString(end) {
			return fmt.Errorf("end symbol '%s' contains unusable interpolation symbol", end)
		}
	}
	return nil
}
