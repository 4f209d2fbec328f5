// Package cycles answers whether introducing an import between two files
// would close a cycle, and records the synthetic imports the compiler itself
// introduces so later checks see prior decisions.
package cycles

import (
	"sync"
)

// Analyzer is the cycle-detection contract the pipeline consumes.
type Analyzer interface {
	// WouldCreateCycle reports whether adding an import from `from` to `to`
	// would create an import cycle.
	WouldCreateCycle(from, to string) bool

	// RecordSyntheticImport records that the compiler generated an import
	// from `from` to `to`. The ledger only grows; rejected edges are never
	// recorded in the first place.
	RecordSyntheticImport(from, to string)
}

// ImportGraph tracks user-written imports and compiler-introduced synthetic
// imports between files, and answers reachability queries over their union.
type ImportGraph struct {
	mu        sync.Mutex
	imports   map[string]map[string]bool
	synthetic map[string]map[string]bool
}

// NewImportGraph creates a new ImportGraph
func NewImportGraph() *ImportGraph {
	return &ImportGraph{
		imports:   make(map[string]map[string]bool),
		synthetic: make(map[string]map[string]bool),
	}
}

// AddImport records a user-written import edge.
func (g *ImportGraph) AddImport(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	addEdge(g.imports, from, to)
}

// WouldCreateCycle reports whether from already transitively imports nothing
// that leads back: the edge from→to cycles exactly when `from` is reachable
// starting at `to`.
func (g *ImportGraph) WouldCreateCycle(from, to string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if from == to {
		return true
	}
	return g.reachable(to, from, map[string]bool{})
}

// RecordSyntheticImport adds a compiler-introduced edge. Recording the same
// edge twice is a no-op.
func (g *ImportGraph) RecordSyntheticImport(from, to string) {
	if from == to {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	addEdge(g.synthetic, from, to)
}

// HasSyntheticEdge reports whether a synthetic edge from→to was recorded.
func (g *ImportGraph) HasSyntheticEdge(from, to string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.synthetic[from][to]
}

// SyntheticEdgeCount returns the number of distinct synthetic edges recorded.
func (g *ImportGraph) SyntheticEdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	count := 0
	for _, targets := range g.synthetic {
		count += len(targets)
	}
	return count
}

func (g *ImportGraph) reachable(from, target string, visited map[string]bool) bool {
	if from == target {
		return true
	}
	if visited[from] {
		return false
	}
	visited[from] = true
	for next := range g.imports[from] {
		if g.reachable(next, target, visited) {
			return true
		}
	}
	for next := range g.synthetic[from] {
		if g.reachable(next, target, visited) {
			return true
		}
	}
	return false
}

func addEdge(edges map[string]map[string]bool, from, to string) {
	targets, ok := edges[from]
	if !ok {
		targets = make(map[string]bool)
		edges[from] = targets
	}
	targets[to] = true
}
