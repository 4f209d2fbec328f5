package annotations

import (
	"fmt"

	"ngtsc-go/packages/compiler-cli/ngtsc/diagnostics"
	"ngtsc-go/packages/compiler-cli/ngtsc/partialeval"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler/core"
)

// isAngularDecorator reports whether the decorator is the named framework
// decorator. Decorators normally qualify through a core import; framework
// internals may reference them without one when isCore is set.
func isAngularDecorator(decorator *reflection.Decorator, name string, isCore bool) bool {
	if decorator.Import != nil {
		return decorator.Import.From == core.CoreModuleSpecifier && decorator.Import.Name == name
	}
	return isCore && decorator.Name == name
}

// relativeToRootDirs expresses fileName relative to whichever root directory
// yields the shortest relative path. Ties go to the earlier root in
// configured order. Files outside every root keep their full path.
func relativeToRootDirs(fileName string, rootDirs []string) string {
	best := fileName
	for _, root := range rootDirs {
		if root == "" {
			continue
		}
		prefix := root
		if prefix[len(prefix)-1] != '/' {
			prefix += "/"
		}
		if len(fileName) > len(prefix) && fileName[:len(prefix)] == prefix {
			candidate := fileName[len(prefix):]
			if len(candidate) < len(best) {
				best = candidate
			}
		}
	}
	return best
}

// evaluateToString evaluates an expression that must resolve to a string.
func evaluateToString(evaluator partialeval.Evaluator, expr reflection.Expression, field string) (string, error) {
	value, ok := evaluator.Evaluate(expr).(string)
	if !ok {
		return "", diagnostics.NewFatalError(
			diagnostics.ErrorCodeValueHasWrongType,
			expr.Range(),
			fmt.Sprintf("%s must be a string", field))
	}
	return value, nil
}

// evaluateToStrings evaluates an expression that must resolve to an array of
// strings.
func evaluateToStrings(evaluator partialeval.Evaluator, expr reflection.Expression, field string) ([]string, error) {
	values, ok := evaluator.Evaluate(expr).([]any)
	if !ok {
		return nil, diagnostics.NewFatalError(
			diagnostics.ErrorCodeValueHasWrongType,
			expr.Range(),
			fmt.Sprintf("%s must be an array of strings", field))
	}
	strs := make([]string, len(values))
	for i, value := range values {
		s, ok := value.(string)
		if !ok {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeValueHasWrongType,
				expr.Range(),
				fmt.Sprintf("%s must be an array of strings", field))
		}
		strs[i] = s
	}
	return strs, nil
}

// evaluateToBool evaluates an expression that must resolve to a boolean.
func evaluateToBool(evaluator partialeval.Evaluator, expr reflection.Expression, field string) (bool, error) {
	value, ok := evaluator.Evaluate(expr).(bool)
	if !ok {
		return false, diagnostics.NewFatalError(
			diagnostics.ErrorCodeValueHasWrongType,
			expr.Range(),
			fmt.Sprintf("%s must be a boolean", field))
	}
	return value, nil
}

// evaluateToEnumMember evaluates an expression that must resolve to a member
// of a well-known numeric enum, either as an enum member reference or as the
// raw number. isMember validates membership.
func evaluateToEnumMember(evaluator partialeval.Evaluator, expr reflection.Expression, field string, isMember func(int) bool) (int, error) {
	var resolved int
	switch value := evaluator.Evaluate(expr).(type) {
	case *partialeval.EnumValue:
		resolved = value.Resolved
	case int:
		resolved = value
	default:
		return 0, diagnostics.NewFatalError(
			diagnostics.ErrorCodeValueHasWrongType,
			expr.Range(),
			fmt.Sprintf("%s must resolve to an enum member", field))
	}
	if !isMember(resolved) {
		return 0, diagnostics.NewFatalError(
			diagnostics.ErrorCodeValueHasWrongType,
			expr.Range(),
			fmt.Sprintf("%s resolved to %d, which is not a member of the expected enum", field, resolved))
	}
	return resolved, nil
}
