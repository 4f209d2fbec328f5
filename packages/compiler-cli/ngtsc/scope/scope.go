// Package scope tracks which directives and pipes are visible to a component
// through its declaring module.
package scope

import (
	"sync"

	"ngtsc-go/packages/compiler-cli/ngtsc/imports"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
)

// Directive is one entry in a module's compilation scope.
type Directive struct {
	Ref *imports.Reference

	Name     string
	Selector string

	// Inputs and Outputs map class property names to binding property names.
	Inputs  map[string]string
	Outputs map[string]string

	// ExportAs lists template reference names the directive exports under.
	ExportAs []string

	// QueryFields names the class properties populated by queries.
	QueryFields []string

	IsComponent bool
}

// GetSelector returns the directive's unparsed selector.
func (d *Directive) GetSelector() string {
	return d.Selector
}

// Pipe is a pipe entry in a module's compilation scope.
type Pipe struct {
	Ref  *imports.Reference
	Name string
}

// ComponentScope is the full set of directives and pipes a component's
// template can use.
type ComponentScope struct {
	Directives []*Directive
	Pipes      []*Pipe
}

// Registry is the scope bookkeeping contract the pipeline consumes.
type Registry interface {
	// RegisterDirective makes a directive visible to module scope
	// computation. Components register themselves here during analysis.
	RegisterDirective(directive *Directive)

	// GetScopeForComponent returns the compilation scope of the component's
	// declaring module, or nil when the component is not declared anywhere.
	GetScopeForComponent(clazz *reflection.ClassDeclaration) *ComponentScope

	// SetComponentRemoteScoped flags the component as requiring the remote
	// scoping compilation strategy.
	SetComponentRemoteScoped(clazz *reflection.ClassDeclaration)
}

// LocalRegistry is an in-memory Registry for a single compilation unit.
// Modules are declared up front; directives and pipes register as their
// declarations are analyzed.
type LocalRegistry struct {
	mu         sync.Mutex
	modules    map[string][]*reflection.ClassDeclaration
	moduleOf   map[*reflection.ClassDeclaration]string
	directives map[*reflection.ClassDeclaration]*Directive
	pipes      map[*reflection.ClassDeclaration]*Pipe
	remote     map[*reflection.ClassDeclaration]int
}

// NewLocalRegistry creates a new LocalRegistry
func NewLocalRegistry() *LocalRegistry {
	return &LocalRegistry{
		modules:    make(map[string][]*reflection.ClassDeclaration),
		moduleOf:   make(map[*reflection.ClassDeclaration]string),
		directives: make(map[*reflection.ClassDeclaration]*Directive),
		pipes:      make(map[*reflection.ClassDeclaration]*Pipe),
		remote:     make(map[*reflection.ClassDeclaration]int),
	}
}

// DeclareModule records a module and the declarations it owns. A declaration
// belongs to at most one module; later declarations win.
func (r *LocalRegistry) DeclareModule(name string, declarations []*reflection.ClassDeclaration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[name] = declarations
	for _, decl := range declarations {
		r.moduleOf[decl] = name
	}
}

// RegisterDirective registers a directive entry
func (r *LocalRegistry) RegisterDirective(directive *Directive) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.directives[directive.Ref.Node] = directive
}

// RegisterPipe registers a pipe entry
func (r *LocalRegistry) RegisterPipe(pipe *Pipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipes[pipe.Ref.Node] = pipe
}

// GetScopeForComponent collects the registered directives and pipes of every
// declaration in the component's module.
func (r *LocalRegistry) GetScopeForComponent(clazz *reflection.ClassDeclaration) *ComponentScope {
	r.mu.Lock()
	defer r.mu.Unlock()
	module, ok := r.moduleOf[clazz]
	if !ok {
		return nil
	}
	componentScope := &ComponentScope{}
	for _, decl := range r.modules[module] {
		if directive, ok := r.directives[decl]; ok {
			componentScope.Directives = append(componentScope.Directives, directive)
		}
		if pipe, ok := r.pipes[decl]; ok {
			componentScope.Pipes = append(componentScope.Pipes, pipe)
		}
	}
	return componentScope
}

// SetComponentRemoteScoped flags the component for remote scoping
func (r *LocalRegistry) SetComponentRemoteScoped(clazz *reflection.ClassDeclaration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remote[clazz]++
}

// IsRemoteScoped reports whether the component was flagged for remote scoping.
func (r *LocalRegistry) IsRemoteScoped(clazz *reflection.ClassDeclaration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remote[clazz] > 0
}

// RemoteScopingRequests returns how many times the component was flagged.
func (r *LocalRegistry) RemoteScopingRequests(clazz *reflection.ClassDeclaration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remote[clazz]
}
