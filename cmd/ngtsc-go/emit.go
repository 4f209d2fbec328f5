package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	constant "ngtsc-go/packages/compiler/pool"
)

// writeOutput renders the compiled definitions to one file per component,
// plus a shared constants file when the pool hoisted anything. The output is
// a readable account of the generated code, not an executable bundle.
func writeOutput(dist string, pool *constant.ConstantPool, compiled []*compiledComponent) error {
	if err := os.MkdirAll(dist, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if statements := pool.Statements(); len(statements) > 0 {
		var b strings.Builder
		b.WriteString("// Shared constants hoisted out of the component definitions.\n")
		for _, stmt := range statements {
			b.WriteString(stmt.Print())
			b.WriteString("\n")
		}
		if err := writeFile(path.Join(dist, "shared_constants.js"), b.String()); err != nil {
			return err
		}
	}

	for _, comp := range compiled {
		var b strings.Builder
		fmt.Fprintf(&b, "// %s, compiled from %s\n", comp.unit.clazz.Name, comp.unit.decl.File)
		fmt.Fprintf(&b, "%s.%s = %s;\n", comp.unit.clazz.Name, comp.result.Name, comp.result.Initializer.Print())
		for _, stmt := range comp.result.Statements {
			b.WriteString(stmt.Print())
			b.WriteString("\n")
		}
		name := strings.ToLower(comp.unit.clazz.Name) + ".ngfactory.js"
		if err := writeFile(path.Join(dist, name), b.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(target, content string) error {
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}
	return nil
}
