package annotations

import (
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler/output"
	"ngtsc-go/packages/compiler/render3/r3_identifiers"
)

// generateSetClassMetadata builds the runtime reflection statement
// `ɵsetClassMetadata(Class, [{type: Component, args: [...]}], null, null)`.
// The decorator arguments are carried through verbatim.
func generateSetClassMetadata(clazz *reflection.ClassDeclaration, decorator *reflection.Decorator) output.OutputStatement {
	var decoratorType output.OutputExpression
	if decorator.Import != nil {
		decoratorType = output.ImportExpr(output.ExternalReference{
			ModuleName: decorator.Import.From,
			Name:       decorator.Import.Name,
		})
	} else {
		decoratorType = output.Variable(decorator.Name)
	}

	args := make([]output.OutputExpression, len(decorator.Args))
	for i, arg := range decorator.Args {
		args[i] = output.WrapNode(arg)
	}

	decoratorMeta := output.LiteralMap([]*output.LiteralMapEntry{
		{Key: "type", Value: decoratorType},
		{Key: "args", Value: output.LiteralArr(args)},
	})

	call := output.InvokeFn(output.ImportExpr(r3_identifiers.SetClassMetadata), []output.OutputExpression{
		output.Variable(clazz.Name),
		output.LiteralArr([]output.OutputExpression{decoratorMeta}),
		output.Literal(nil),
		output.Literal(nil),
	})
	return output.NewExpressionStatement(call, nil)
}
