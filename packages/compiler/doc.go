// Package compiler hosts the platform-independent half of the component
// compiler: template parsing, selector matching, the output AST and the
// render definition backend. The packages under compiler-cli drive these
// pieces through the compilation pipeline.
//
// Main sub-packages:
//
//   - core: shared enums (ChangeDetectionStrategy, ViewEncapsulation)
//   - css: CSS selector parsing and matching, stylesheet URL checks
//   - output: output AST expressions, statements and types
//   - pool: the shared constant pool
//   - template: template parsing into an AST, with style extraction
//   - render3/view: template binding and component definition compilation
//   - render3/r3_identifiers: runtime symbol references
//   - util: source spans, parse errors and small shared helpers
package compiler
