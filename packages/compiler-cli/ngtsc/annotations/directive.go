package annotations

import (
	"fmt"
	"strings"

	"ngtsc-go/packages/compiler-cli/ngtsc/diagnostics"
	"ngtsc-go/packages/compiler-cli/ngtsc/partialeval"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler/output"
	"ngtsc-go/packages/compiler/render3/view"
	"ngtsc-go/packages/compiler/util"
)

// directiveMetadata is the directive-level record shared between component
// and plain-directive handling.
type directiveMetadata struct {
	Directive view.R3DirectiveMetadata

	// QueryFields names the class properties any query writes into, in the
	// order the queries were declared.
	QueryFields []string
}

// extractDirectiveMetadata reads the fields common to all annotated
// directives out of the configuration literal and the class members:
// selector, input/output mappings, view queries and exportAs.
func extractDirectiveMetadata(clazz *reflection.ClassDeclaration, config *reflection.ObjectLiteral, evaluator partialeval.Evaluator, isCore bool) (*directiveMetadata, error) {
	meta := &directiveMetadata{
		Directive: view.R3DirectiveMetadata{
			Name:    clazz.Name,
			Type:    output.Variable(clazz.Name),
			Inputs:  map[string]string{},
			Outputs: map[string]string{},
		},
	}

	if expr, ok := config.Get("selector"); ok {
		selector, err := evaluateToString(evaluator, expr, "selector")
		if err != nil {
			return nil, err
		}
		meta.Directive.Selector = &selector
	}

	if expr, ok := config.Get("inputs"); ok {
		if err := parsePropertyMappings(evaluator, expr, "inputs", meta.Directive.Inputs); err != nil {
			return nil, err
		}
	}
	if expr, ok := config.Get("outputs"); ok {
		if err := parsePropertyMappings(evaluator, expr, "outputs", meta.Directive.Outputs); err != nil {
			return nil, err
		}
	}

	if expr, ok := config.Get("exportAs"); ok {
		value, err := evaluateToString(evaluator, expr, "exportAs")
		if err != nil {
			return nil, err
		}
		for _, name := range strings.Split(value, ",") {
			meta.Directive.ExportAs = append(meta.Directive.ExportAs, strings.TrimSpace(name))
		}
	}

	// Field-level declarations come before anything the configuration adds.
	for _, member := range clazz.Members {
		for _, decorator := range member.Decorators {
			switch {
			case isAngularDecorator(decorator, "Input", isCore):
				binding, err := bindingName(evaluator, decorator, member.Name)
				if err != nil {
					return nil, err
				}
				meta.Directive.Inputs[member.Name] = binding
			case isAngularDecorator(decorator, "Output", isCore):
				binding, err := bindingName(evaluator, decorator, member.Name)
				if err != nil {
					return nil, err
				}
				meta.Directive.Outputs[member.Name] = binding
			case isAngularDecorator(decorator, "ViewChild", isCore):
				query, err := extractFieldQuery(evaluator, decorator, member.Name, true)
				if err != nil {
					return nil, err
				}
				meta.Directive.ViewQueries = append(meta.Directive.ViewQueries, *query)
				meta.QueryFields = append(meta.QueryFields, member.Name)
			case isAngularDecorator(decorator, "ViewChildren", isCore):
				query, err := extractFieldQuery(evaluator, decorator, member.Name, false)
				if err != nil {
					return nil, err
				}
				meta.Directive.ViewQueries = append(meta.Directive.ViewQueries, *query)
				meta.QueryFields = append(meta.QueryFields, member.Name)
			}
		}

		if member.Name == "ngOnChanges" {
			meta.Directive.Lifecycle.UsesOnChanges = true
		}
	}

	if expr, ok := config.Get("queries"); ok {
		queries, err := extractConfigQueries(evaluator, expr)
		if err != nil {
			return nil, err
		}
		for _, query := range queries {
			meta.Directive.ViewQueries = append(meta.Directive.ViewQueries, query)
			meta.QueryFields = append(meta.QueryFields, query.PropertyName)
		}
	}

	return meta, nil
}

// parsePropertyMappings folds an `inputs`/`outputs` style array of
// "field: binding" strings into the mapping. A bare "field" maps to itself.
func parsePropertyMappings(evaluator partialeval.Evaluator, expr reflection.Expression, field string, into map[string]string) error {
	values, err := evaluateToStrings(evaluator, expr, field)
	if err != nil {
		return err
	}
	for _, value := range values {
		parts := util.SplitAtColon(value, []string{value, value})
		into[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return nil
}

// bindingName reads the optional alias argument of an @Input/@Output
// decorator, defaulting to the field name.
func bindingName(evaluator partialeval.Evaluator, decorator *reflection.Decorator, fieldName string) (string, error) {
	if len(decorator.Args) == 0 {
		return fieldName, nil
	}
	return evaluateToString(evaluator, decorator.Args[0], fmt.Sprintf("@%s alias", decorator.Name))
}

// extractFieldQuery turns a @ViewChild/@ViewChildren decorator on a class
// member into query metadata. The predicate argument is required; an options
// object may follow with `descendants`, `read` and `static` entries.
func extractFieldQuery(evaluator partialeval.Evaluator, decorator *reflection.Decorator, fieldName string, first bool) (*view.R3QueryMetadata, error) {
	if len(decorator.Args) == 0 || len(decorator.Args) > 2 {
		return nil, diagnostics.NewFatalError(
			diagnostics.ErrorCodeDecoratorArityWrong,
			decorator.Range,
			fmt.Sprintf("@%s must have between 1 and 2 arguments", decorator.Name))
	}
	predicate, err := evaluateToString(evaluator, decorator.Args[0], fmt.Sprintf("@%s predicate", decorator.Name))
	if err != nil {
		return nil, err
	}

	query := &view.R3QueryMetadata{
		PropertyName: fieldName,
		First:        first,
		Predicate:    splitSelectorList(predicate),
		Descendants:  true,
	}

	if len(decorator.Args) == 2 {
		options, ok := decorator.Args[1].(*reflection.ObjectLiteral)
		if !ok {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeDecoratorArgNotLiteral,
				decorator.Args[1].Range(),
				fmt.Sprintf("@%s options must be an object literal", decorator.Name))
		}
		if expr, ok := options.Get("descendants"); ok {
			descendants, err := evaluateToBool(evaluator, expr, "descendants")
			if err != nil {
				return nil, err
			}
			query.Descendants = descendants
		}
		if expr, ok := options.Get("static"); ok {
			static, err := evaluateToBool(evaluator, expr, "static")
			if err != nil {
				return nil, err
			}
			query.Static = static
		}
		if expr, ok := options.Get("read"); ok {
			query.Read = output.WrapNode(expr)
		}
	}
	return query, nil
}

// extractConfigQueries reads the decorator-level `queries` configuration
// entry: an object literal mapping property names to query descriptors.
func extractConfigQueries(evaluator partialeval.Evaluator, expr reflection.Expression) ([]view.R3QueryMetadata, error) {
	literal, ok := expr.(*reflection.ObjectLiteral)
	if !ok {
		return nil, diagnostics.NewFatalError(
			diagnostics.ErrorCodeValueHasWrongType,
			expr.Range(),
			"queries must be an object literal")
	}
	var queries []view.R3QueryMetadata
	for _, entry := range literal.Entries {
		descriptor, ok := evaluator.Evaluate(entry.Value).(*partialeval.ResolvedMap)
		if !ok {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeValueHasWrongType,
				entry.Value.Range(),
				fmt.Sprintf("query %s must be an object literal", entry.Key))
		}
		selector, ok := descriptor.Get("selector")
		predicate, isString := "", false
		if ok {
			predicate, isString = selector.(string)
		}
		if !isString {
			return nil, diagnostics.NewFatalError(
				diagnostics.ErrorCodeValueHasWrongType,
				entry.Value.Range(),
				fmt.Sprintf("query %s must have a string selector", entry.Key))
		}
		query := view.R3QueryMetadata{
			PropertyName: entry.Key,
			Predicate:    splitSelectorList(predicate),
			Descendants:  true,
		}
		if first, ok := descriptor.Get("first"); ok {
			query.First, _ = first.(bool)
		}
		if descendants, ok := descriptor.Get("descendants"); ok {
			if value, isBool := descendants.(bool); isBool {
				query.Descendants = value
			}
		}
		if static, ok := descriptor.Get("static"); ok {
			query.Static, _ = static.(bool)
		}
		queries = append(queries, query)
	}
	return queries, nil
}

func splitSelectorList(predicate string) []string {
	parts := strings.Split(predicate, ",")
	selectors := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			selectors = append(selectors, trimmed)
		}
	}
	return selectors
}
