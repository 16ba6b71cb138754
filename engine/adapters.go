package engine

import (
	"recondeck/status"
	"recondeck/store"
)

// vehicleEmitter adapts vehicles.EventEmitter onto the EventBus.
type vehicleEmitter struct {
	bus *EventBus
}

func (e *vehicleEmitter) EmitVehicleCreated(v *store.Vehicle) {
	e.bus.Emit(Event{Type: EventVehicleCreated, Payload: VehicleCreatedEvent{
		VehicleID:    v.ID,
		LicensePlate: v.LicensePlate,
		Model:        v.Model,
		VehicleType:  v.VehicleType,
	}})
}

func (e *vehicleEmitter) EmitStatusChanged(v *store.Vehicle, p status.Process, oldS, newS status.Status) {
	e.bus.Emit(Event{Type: EventStatusChanged, Payload: StatusChangedEvent{
		VehicleID:     v.ID,
		LicensePlate:  v.LicensePlate,
		Process:       string(p),
		OldStatus:     string(oldS),
		NewStatus:     string(newS),
		PriorityScore: v.PriorityScore,
	}})
}

func (e *vehicleEmitter) EmitValidationChanged(v *store.Vehicle) {
	e.bus.Emit(Event{Type: EventValidationChanged, Payload: ValidationChangedEvent{
		VehicleID:      v.ID,
		LicensePlate:   v.LicensePlate,
		Validated:      v.Validated,
		ValidationDate: v.ValidationDate,
		PriorityScore:  v.PriorityScore,
	}})
}

func (e *vehicleEmitter) EmitVehicleUpdated(v *store.Vehicle, field string) {
	e.bus.Emit(Event{Type: EventVehicleUpdated, Payload: VehicleUpdatedEvent{
		VehicleID:     v.ID,
		LicensePlate:  v.LicensePlate,
		Field:         field,
		PriorityScore: v.PriorityScore,
	}})
}

func (e *vehicleEmitter) EmitVehicleFinished(v *store.Vehicle) {
	e.bus.Emit(Event{Type: EventVehicleFinished, Payload: VehicleFinishedEvent{
		VehicleID:    v.ID,
		LicensePlate: v.LicensePlate,
		Model:        v.Model,
		Advisor:      v.Advisor,
	}})
}
