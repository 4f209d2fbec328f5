package main

import (
	"fmt"
	"path"

	"github.com/BurntSushi/toml"

	"ngtsc-go/packages/compiler-cli/ngtsc/imports"
	"ngtsc-go/packages/compiler-cli/ngtsc/reflection"
	"ngtsc-go/packages/compiler-cli/ngtsc/scope"
)

// projectManifest is the TOML project description the CLI compiles from. It
// stands in for the host-language frontend: every decorated class the project
// contains is declared here with its statically known metadata.
type projectManifest struct {
	// RootDirs are the source roots, relative to the project directory.
	// Defaults to the project directory itself.
	RootDirs []string `toml:"root_dirs"`

	PreserveWhitespaces bool `toml:"preserve_whitespaces"`
	I18nUseExternalIds  bool `toml:"i18n_use_external_ids"`

	Modules    []moduleDecl    `toml:"module"`
	Components []componentDecl `toml:"component"`
	Directives []directiveDecl `toml:"directive"`
	Pipes      []pipeDecl      `toml:"pipe"`
	Imports    []importEdge    `toml:"import"`
}

type moduleDecl struct {
	Name         string   `toml:"name"`
	Declarations []string `toml:"declarations"`
}

type componentDecl struct {
	Name      string `toml:"name"`
	File      string `toml:"file"`
	NameStart int    `toml:"name_start"`

	Selector            string   `toml:"selector"`
	Template            string   `toml:"template"`
	TemplateURL         string   `toml:"template_url"`
	Styles              []string `toml:"styles"`
	StyleURLs           []string `toml:"style_urls"`
	Inputs              []string `toml:"inputs"`
	Outputs             []string `toml:"outputs"`
	ExportAs            string   `toml:"export_as"`
	Encapsulation       string   `toml:"encapsulation"`
	ChangeDetection     string   `toml:"change_detection"`
	Interpolation       []string `toml:"interpolation"`
	PreserveWhitespaces *bool    `toml:"preserve_whitespaces"`
}

type directiveDecl struct {
	Name      string `toml:"name"`
	File      string `toml:"file"`
	NameStart int    `toml:"name_start"`

	Selector string            `toml:"selector"`
	Inputs   map[string]string `toml:"inputs"`
	Outputs  map[string]string `toml:"outputs"`
	ExportAs []string          `toml:"export_as"`
}

type pipeDecl struct {
	Name      string `toml:"name"`
	File      string `toml:"file"`
	NameStart int    `toml:"name_start"`

	PipeName string `toml:"pipe_name"`
}

type importEdge struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

func loadManifest(manifestPath string) (*projectManifest, error) {
	var manifest projectManifest
	if _, err := toml.DecodeFile(manifestPath, &manifest); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", manifestPath, err)
	}
	for _, comp := range manifest.Components {
		if comp.Name == "" || comp.File == "" {
			return nil, fmt.Errorf("manifest %s: every component needs a name and a file", manifestPath)
		}
	}
	return &manifest, nil
}

// project is a manifest resolved against the project directory: class
// declarations built, scopes registered, file paths absolute.
type project struct {
	manifest *projectManifest
	rootDirs []string

	components []*componentUnit
	classes    map[string]*reflection.ClassDeclaration
}

// componentUnit tracks one component through the pipeline phases.
type componentUnit struct {
	decl  componentDecl
	clazz *reflection.ClassDeclaration
}

func buildProject(manifest *projectManifest, projectDir string) (*project, error) {
	p := &project{
		manifest: manifest,
		classes:  make(map[string]*reflection.ClassDeclaration),
	}

	if len(manifest.RootDirs) == 0 {
		p.rootDirs = []string{path.Clean(projectDir)}
	} else {
		for _, dir := range manifest.RootDirs {
			p.rootDirs = append(p.rootDirs, path.Join(projectDir, dir))
		}
	}

	for i := range manifest.Components {
		decl := manifest.Components[i]
		clazz := &reflection.ClassDeclaration{
			Name:      decl.Name,
			FileName:  path.Join(projectDir, decl.File),
			NameStart: decl.NameStart,
		}
		clazz.Decorators = []*reflection.Decorator{componentDecorator(&decl, clazz.FileName)}
		if err := p.addClass(clazz); err != nil {
			return nil, err
		}
		p.components = append(p.components, &componentUnit{decl: decl, clazz: clazz})
	}
	for i := range manifest.Directives {
		decl := manifest.Directives[i]
		if err := p.addClass(&reflection.ClassDeclaration{
			Name:      decl.Name,
			FileName:  path.Join(projectDir, decl.File),
			NameStart: decl.NameStart,
		}); err != nil {
			return nil, err
		}
	}
	for i := range manifest.Pipes {
		decl := manifest.Pipes[i]
		if err := p.addClass(&reflection.ClassDeclaration{
			Name:      decl.Name,
			FileName:  path.Join(projectDir, decl.File),
			NameStart: decl.NameStart,
		}); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *project) addClass(clazz *reflection.ClassDeclaration) error {
	if _, ok := p.classes[clazz.Name]; ok {
		return fmt.Errorf("class %s is declared twice in the manifest", clazz.Name)
	}
	p.classes[clazz.Name] = clazz
	return nil
}

// register declares the manifest's modules and the externally analyzed
// directive and pipe entries. Components register themselves during analysis.
func (p *project) register(registry *scope.LocalRegistry) error {
	for _, module := range p.manifest.Modules {
		var declarations []*reflection.ClassDeclaration
		for _, name := range module.Declarations {
			clazz, ok := p.classes[name]
			if !ok {
				return fmt.Errorf("module %s declares unknown class %s", module.Name, name)
			}
			declarations = append(declarations, clazz)
		}
		registry.DeclareModule(module.Name, declarations)
	}
	for i := range p.manifest.Directives {
		decl := p.manifest.Directives[i]
		registry.RegisterDirective(&scope.Directive{
			Ref:      imports.NewReference(p.classes[decl.Name]),
			Name:     decl.Name,
			Selector: decl.Selector,
			Inputs:   decl.Inputs,
			Outputs:  decl.Outputs,
			ExportAs: decl.ExportAs,
		})
	}
	for i := range p.manifest.Pipes {
		decl := p.manifest.Pipes[i]
		registry.RegisterPipe(&scope.Pipe{
			Ref:  imports.NewReference(p.classes[decl.Name]),
			Name: decl.PipeName,
		})
	}
	return nil
}

// componentDecorator renders a manifest entry as the @Component decorator the
// handler expects to see on the class.
func componentDecorator(decl *componentDecl, fileName string) *reflection.Decorator {
	var entries []reflection.ObjectEntry
	add := func(key string, value reflection.Expression) {
		entries = append(entries, reflection.ObjectEntry{Key: key, Value: value})
	}

	if decl.Selector != "" {
		add("selector", str(decl.Selector))
	}
	if decl.Template != "" {
		add("template", str(decl.Template))
	}
	if decl.TemplateURL != "" {
		add("templateUrl", str(decl.TemplateURL))
	}
	if len(decl.Styles) > 0 {
		add("styles", strArray(decl.Styles))
	}
	if len(decl.StyleURLs) > 0 {
		add("styleUrls", strArray(decl.StyleURLs))
	}
	if len(decl.Inputs) > 0 {
		add("inputs", strArray(decl.Inputs))
	}
	if len(decl.Outputs) > 0 {
		add("outputs", strArray(decl.Outputs))
	}
	if decl.ExportAs != "" {
		add("exportAs", str(decl.ExportAs))
	}
	if member, ok := encapsulationMember(decl.Encapsulation); ok {
		add("encapsulation", member)
	}
	if member, ok := changeDetectionMember(decl.ChangeDetection); ok {
		add("changeDetection", member)
	}
	if len(decl.Interpolation) == 2 {
		add("interpolation", strArray(decl.Interpolation))
	}
	if decl.PreserveWhitespaces != nil {
		add("preserveWhitespaces", &reflection.BoolLiteral{Value: *decl.PreserveWhitespaces})
	}

	return &reflection.Decorator{
		Name:   "Component",
		Import: &reflection.Import{Name: "Component", From: "@angular/core"},
		Args:   []reflection.Expression{&reflection.ObjectLiteral{Entries: entries}},
		Range:  reflection.SourceRange{File: fileName},
	}
}

func str(value string) *reflection.StringLiteral {
	return &reflection.StringLiteral{Value: value}
}

func strArray(values []string) *reflection.ArrayLiteral {
	elements := make([]reflection.Expression, len(values))
	for i, v := range values {
		elements[i] = str(v)
	}
	return &reflection.ArrayLiteral{Elements: elements}
}

func encapsulationMember(name string) (reflection.Expression, bool) {
	values := map[string]int{"Emulated": 0, "None": 2, "ShadowDom": 3}
	value, ok := values[name]
	if !ok {
		return nil, false
	}
	return &reflection.EnumMemberRef{Owner: "ViewEncapsulation", Name: name, Value: value}, true
}

func changeDetectionMember(name string) (reflection.Expression, bool) {
	values := map[string]int{"OnPush": 0, "Default": 1}
	value, ok := values[name]
	if !ok {
		return nil, false
	}
	return &reflection.EnumMemberRef{Owner: "ChangeDetectionStrategy", Name: name, Value: value}, true
}
