package vehicles

import (
	"recondeck/status"
	"recondeck/store"
)

// EventEmitter receives domain occurrences from the Manager. The engine
// adapts these onto its event bus.
type EventEmitter interface {
	EmitVehicleCreated(v *store.Vehicle)
	EmitStatusChanged(v *store.Vehicle, process status.Process, oldStatus, newStatus status.Status)
	EmitValidationChanged(v *store.Vehicle)
	EmitVehicleUpdated(v *store.Vehicle, field string)
	EmitVehicleFinished(v *store.Vehicle)
}
