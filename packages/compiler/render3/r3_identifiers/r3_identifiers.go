package r3_identifiers

import (
	"ngtsc-go/packages/compiler/output"
)

// CORE is the module every runtime identifier is imported from
const CORE = "@angular/core"

var (
	DefineComponent = output.ExternalReference{ModuleName: CORE, Name: "ɵɵdefineComponent"}

	ComponentDeclaration = output.ExternalReference{ModuleName: CORE, Name: "ɵɵComponentDeclaration"}

	SetClassMetadata = output.ExternalReference{ModuleName: CORE, Name: "ɵsetClassMetadata"}

	ViewEncapsulationNone = output.ExternalReference{ModuleName: CORE, Name: "ViewEncapsulation.None"}
)
