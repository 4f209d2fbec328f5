package core

// CoreModuleSpecifier is the import specifier of the framework core package.
// Decorators are only recognized when imported from here, with an escape
// hatch for the framework's own internals.
const CoreModuleSpecifier = "@angular/core"

// ViewEncapsulation represents the encapsulation strategy for component styles
type ViewEncapsulation int

const (
	ViewEncapsulationEmulated ViewEncapsulation = iota
	// Historically the 1 value was for Native encapsulation which has been removed as of v11.
	_ // Reserved for historical Native
	ViewEncapsulationNone
	ViewEncapsulationShadowDom
)

// IsViewEncapsulation reports whether v is a recognized member of the enum.
func IsViewEncapsulation(v int) bool {
	switch ViewEncapsulation(v) {
	case ViewEncapsulationEmulated, ViewEncapsulationNone, ViewEncapsulationShadowDom:
		return true
	default:
		return false
	}
}

// ChangeDetectionStrategy represents the change detection strategy
type ChangeDetectionStrategy int

const (
	ChangeDetectionStrategyOnPush ChangeDetectionStrategy = iota
	ChangeDetectionStrategyDefault
)

// IsChangeDetectionStrategy reports whether v is a recognized member of the enum.
func IsChangeDetectionStrategy(v int) bool {
	switch ChangeDetectionStrategy(v) {
	case ChangeDetectionStrategyOnPush, ChangeDetectionStrategyDefault:
		return true
	default:
		return false
	}
}
