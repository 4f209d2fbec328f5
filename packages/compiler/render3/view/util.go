package view

import (
	"ngtsc-go/packages/compiler/output"
)

// DefinitionMap accumulates the key/value entries of a definition object
// literal, preserving insertion order.
type DefinitionMap struct {
	entries []*output.LiteralMapEntry
	index   map[string]int
}

// NewDefinitionMap creates a new DefinitionMap
func NewDefinitionMap() *DefinitionMap {
	return &DefinitionMap{index: make(map[string]int)}
}

// Set adds or replaces an entry. Nil values are ignored so optional fields
// can be set unconditionally.
func (d *DefinitionMap) Set(key string, value output.OutputExpression) {
	if value == nil {
		return
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = value
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, &output.LiteralMapEntry{Key: key, Value: value})
}

// ToLiteralMap converts the map into an object literal expression
func (d *DefinitionMap) ToLiteralMap() *output.LiteralMapExpr {
	return output.LiteralMap(d.entries)
}
