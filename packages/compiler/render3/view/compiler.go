package view

import (
	"strings"

	"ngtsc-go/packages/compiler/core"
	"ngtsc-go/packages/compiler/output"
	"ngtsc-go/packages/compiler/pool"
	"ngtsc-go/packages/compiler/render3/r3_identifiers"
)

// CompileComponentFromMetadata compiles a finished component metadata record
// into the `ɵɵdefineComponent` initializer expression and its type declaration.
func CompileComponentFromMetadata(meta *R3ComponentMetadata, constantPool *constant.ConstantPool) *R3CompiledExpression {
	definitionMap := NewDefinitionMap()

	definitionMap.Set("type", meta.Type)

	if meta.Selector != nil {
		selectors := parseSelectorToR3Selector(*meta.Selector)
		definitionMap.Set("selectors", constantPool.GetConstLiteral(selectors, true))
	}

	if len(meta.Template.NgContentSelectors) > 0 {
		selectors := make([]output.OutputExpression, len(meta.Template.NgContentSelectors))
		for i, s := range meta.Template.NgContentSelectors {
			selectors[i] = output.Literal(s)
		}
		definitionMap.Set("ngContentSelectors", constantPool.GetConstLiteral(output.LiteralArr(selectors), true))
	}

	if len(meta.Inputs) > 0 {
		definitionMap.Set("inputs", output.LiteralMapFromStrings(meta.Inputs))
	}
	if len(meta.Outputs) > 0 {
		definitionMap.Set("outputs", output.LiteralMapFromStrings(meta.Outputs))
	}

	if len(meta.ViewQueries) > 0 {
		definitionMap.Set("viewQuery", compileViewQueries(meta.ViewQueries))
	}

	if len(meta.ExportAs) > 0 {
		names := make([]output.OutputExpression, len(meta.ExportAs))
		for i, name := range meta.ExportAs {
			names[i] = output.Literal(name)
		}
		definitionMap.Set("exportAs", output.LiteralArr(names))
	}

	if len(meta.Declarations) > 0 {
		definitionMap.Set("dependencies", compileDeclarationList(meta.Declarations, meta.DeclarationListEmitMode))
	}

	encapsulation := meta.Encapsulation
	hasStyles := false
	if len(meta.Styles) > 0 {
		styleNodes := []output.OutputExpression{}
		for _, style := range meta.Styles {
			if strings.TrimSpace(style) != "" {
				styleNodes = append(styleNodes, constantPool.GetConstLiteral(output.Literal(style), false))
			}
		}
		if len(styleNodes) > 0 {
			hasStyles = true
			definitionMap.Set("styles", output.LiteralArr(styleNodes))
		}
	}
	if !hasStyles && encapsulation == core.ViewEncapsulationEmulated {
		// If there is no style, don't generate css selectors on elements.
		encapsulation = core.ViewEncapsulationNone
	}
	if encapsulation != core.ViewEncapsulationEmulated {
		definitionMap.Set("encapsulation", output.Literal(int(encapsulation)))
	}

	if meta.Animations != nil {
		definitionMap.Set("data", output.LiteralMap([]*output.LiteralMapEntry{
			{Key: "animation", Value: meta.Animations},
		}))
	}

	if meta.ViewProviders != nil {
		definitionMap.Set("viewProviders", meta.ViewProviders)
	}

	if meta.ChangeDetection != nil && *meta.ChangeDetection != core.ChangeDetectionStrategyDefault {
		definitionMap.Set("changeDetection", output.Literal(int(*meta.ChangeDetection)))
	}

	expression := output.InvokeFn(
		output.ImportExpr(r3_identifiers.DefineComponent),
		[]output.OutputExpression{definitionMap.ToLiteralMap()},
	)

	typeParams := []output.Type{output.NewExpressionType(meta.Type, output.TypeModifierNone, nil)}
	if meta.Selector != nil {
		typeParams = append(typeParams, output.NewExpressionType(output.Literal(*meta.Selector), output.TypeModifierNone, nil))
	}
	componentType := output.NewExpressionType(
		output.ImportExpr(r3_identifiers.ComponentDeclaration),
		output.TypeModifierNone,
		typeParams,
	)

	return &R3CompiledExpression{
		Expression: expression,
		Type:       componentType,
		Statements: []output.OutputStatement{},
	}
}

// compileDeclarationList generates the `dependencies` array, wrapping it in a
// closure when the list contains forward references.
func compileDeclarationList(declarations []R3TemplateDependency, mode DeclarationListEmitMode) output.OutputExpression {
	entries := make([]output.OutputExpression, len(declarations))
	for i, decl := range declarations {
		entries[i] = decl.Type
	}
	list := output.LiteralArr(entries)
	if mode == DeclarationListEmitModeClosure {
		return output.ArrowFn(list)
	}
	return list
}

func compileViewQueries(queries []R3QueryMetadata) output.OutputExpression {
	entries := make([]output.OutputExpression, len(queries))
	for i, query := range queries {
		predicate := make([]output.OutputExpression, len(query.Predicate))
		for j, p := range query.Predicate {
			predicate[j] = output.Literal(p)
		}
		queryMap := NewDefinitionMap()
		queryMap.Set("property", output.Literal(query.PropertyName))
		queryMap.Set("first", output.Literal(query.First))
		queryMap.Set("predicate", output.LiteralArr(predicate))
		queryMap.Set("descendants", output.Literal(query.Descendants))
		queryMap.Set("static", output.Literal(query.Static))
		if query.Read != nil {
			queryMap.Set("read", query.Read)
		}
		entries[i] = queryMap.ToLiteralMap()
	}
	return output.LiteralArr(entries)
}

// parseSelectorToR3Selector converts an unparsed selector into the array form
// the runtime matches against: [[element, attr1, value1, ...], ...].
func parseSelectorToR3Selector(selector string) *output.LiteralArrayExpr {
	var groups []output.OutputExpression
	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		groups = append(groups, output.LiteralArr([]output.OutputExpression{output.Literal(part)}))
	}
	return output.LiteralArr(groups)
}
