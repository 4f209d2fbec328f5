package view

import (
	"ngtsc-go/packages/compiler/core"
	"ngtsc-go/packages/compiler/output"
	"ngtsc-go/packages/compiler/template"
)

// DeclarationListEmitMode specifies how a list of declaration type references should be emitted into the generated code.
type DeclarationListEmitMode int

const (
	// DeclarationListEmitModeDirect - The list of declarations is emitted into the generated code as is.
	// ```ts
	// dependencies: [MyDir],
	// ```
	DeclarationListEmitModeDirect DeclarationListEmitMode = iota

	// DeclarationListEmitModeClosure - The list of declarations is emitted into the generated code wrapped inside a closure, which
	// is needed when at least one declaration is a forward reference.
	// ```ts
	// dependencies: () => [MyDir, ForwardDir],
	// ```
	DeclarationListEmitModeClosure
)

// R3TemplateDependencyKind represents the kind of template dependency
type R3TemplateDependencyKind int

const (
	R3TemplateDependencyKindDirective R3TemplateDependencyKind = iota
	R3TemplateDependencyKindPipe
)

// R3TemplateDependency is a dependency available to a component template.
type R3TemplateDependency struct {
	Kind R3TemplateDependencyKind

	// The type of the dependency as an expression.
	Type output.OutputExpression

	// The selector of the dependency, for directive dependencies.
	Selector string

	// The binding property names of the inputs of a directive dependency.
	Inputs []string

	// The binding property names of the outputs of a directive dependency.
	Outputs []string

	// If true then this directive dependency is actually a component.
	IsComponent bool

	// The name of a pipe dependency.
	Name string
}

// R3QueryMetadata contains information needed to compile a view query.
type R3QueryMetadata struct {
	// Name of the property on the class to update with query results.
	PropertyName string

	// Whether to read only the first matching result, or an array of results.
	First bool

	// A set of string selectors for the query predicate.
	Predicate []string

	// Whether to include only direct children or all descendants.
	Descendants bool

	// An expression representing a type to read from each matched node, or nil if the default value
	// for a given node is to be returned.
	Read output.OutputExpression

	// Whether or not this query should collect only static results, set on the component before
	// change detection runs.
	Static bool
}

// R3LifecycleMetadata contains information about usage of specific lifecycle events
type R3LifecycleMetadata struct {
	// Whether the directive uses NgOnChanges.
	UsesOnChanges bool
}

// R3DirectiveMetadata contains the directive-level subset of the information
// needed to compile a component.
type R3DirectiveMetadata struct {
	// Name of the directive type.
	Name string

	// An expression representing a reference to the directive itself.
	Type output.OutputExpression

	// Unparsed selector of the directive, or nil if there was no selector.
	Selector *string

	// A mapping of inputs from class property names to binding property names.
	Inputs map[string]string

	// A mapping of outputs from class property names to binding property names.
	Outputs map[string]string

	// Information about the view queries made by the directive.
	ViewQueries []R3QueryMetadata

	// Reference names under which to export the directive's type in a template, if any.
	ExportAs []string

	// Information about usage of specific lifecycle events.
	Lifecycle R3LifecycleMetadata
}

// R3ComponentTemplateMetadata contains information about the component's template.
type R3ComponentTemplateMetadata struct {
	// Parsed nodes of the template.
	Nodes []template.Node

	// Any ng-content selectors extracted from the template. Contains `*` when an ng-content
	// element without selector is present.
	NgContentSelectors []string

	// Whether the template preserves whitespaces from the user's code.
	PreserveWhitespaces bool
}

// R3ComponentMetadata contains information needed to compile a component for the render3 runtime.
type R3ComponentMetadata struct {
	R3DirectiveMetadata

	// Information about the component's template.
	Template R3ComponentTemplateMetadata

	// The directives and pipes available to this component's template. Left empty by the analysis
	// phase and populated once the component's compilation scope is resolved.
	Declarations []R3TemplateDependency

	// Specifies how the `dependencies` array, if generated, needs to be emitted.
	DeclarationListEmitMode DeclarationListEmitMode

	// A collection of styling data that will be applied and scoped to the component.
	Styles []string

	// An encapsulation policy for the component's styling.
	Encapsulation core.ViewEncapsulation

	// Strategy used for detecting changes in the component. Nil when the component does not
	// declare one.
	ChangeDetection *core.ChangeDetectionStrategy

	// A collection of animation triggers that will be used in the component template. Nil if not set.
	Animations output.OutputExpression

	// The list of view providers defined in the component. Nil if not set.
	ViewProviders output.OutputExpression

	// Path to the source file in which this component's generated code will be included, relative to
	// the compilation root.
	RelativeContextFilePath string

	// Whether translation variable name should contain external message id
	// (used by Closure Compiler's output of `goog.getMsg` for transition period).
	I18nUseExternalIds bool

	// The interpolation delimiters the template was parsed with.
	Interpolation *template.InterpolationConfig
}

// R3CompiledExpression is the result of compiling a metadata record into code.
type R3CompiledExpression struct {
	Expression output.OutputExpression
	Type       output.Type
	Statements []output.OutputStatement
}
