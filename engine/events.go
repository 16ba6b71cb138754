package engine

import "time"

// EventType identifies the kind of event emitted by the Engine.
type EventType int

const (
	// Vehicle lifecycle events
	EventVehicleCreated EventType = iota + 1
	EventVehicleUpdated
	EventVehicleFinished

	// Reconditioning events
	EventStatusChanged
	EventValidationChanged
)

// String returns the wire name used in SSE frames and broker payloads.
func (t EventType) String() string {
	switch t {
	case EventVehicleCreated:
		return "vehicle_created"
	case EventVehicleUpdated:
		return "vehicle_updated"
	case EventVehicleFinished:
		return "vehicle_finished"
	case EventStatusChanged:
		return "status_changed"
	case EventValidationChanged:
		return "validation_changed"
	}
	return "unknown"
}

// Event is the envelope emitted by the Engine's EventBus.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Payload   interface{}
}

// VehicleCreatedEvent is emitted when a sold vehicle enters the queue.
type VehicleCreatedEvent struct {
	VehicleID    string `json:"vehicle_id"`
	LicensePlate string `json:"license_plate"`
	Model        string `json:"model"`
	VehicleType  string `json:"vehicle_type"`
}

// VehicleUpdatedEvent is emitted when a non-status field group changes.
type VehicleUpdatedEvent struct {
	VehicleID     string `json:"vehicle_id"`
	LicensePlate  string `json:"license_plate"`
	Field         string `json:"field"`
	PriorityScore int    `json:"priority_score"`
}

// StatusChangedEvent is emitted on process stage transitions.
type StatusChangedEvent struct {
	VehicleID     string `json:"vehicle_id"`
	LicensePlate  string `json:"license_plate"`
	Process       string `json:"process"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	PriorityScore int    `json:"priority_score"`
}

// ValidationChangedEvent is emitted when the validation gate flips.
type ValidationChangedEvent struct {
	VehicleID      string     `json:"vehicle_id"`
	LicensePlate   string     `json:"license_plate"`
	Validated      bool       `json:"validated"`
	ValidationDate *time.Time `json:"validation_date"`
	PriorityScore  int        `json:"priority_score"`
}

// VehicleFinishedEvent is emitted when body and photo360 are both done
// and the vehicle becomes delivery-ready.
type VehicleFinishedEvent struct {
	VehicleID    string `json:"vehicle_id"`
	LicensePlate string `json:"license_plate"`
	Model        string `json:"model"`
	Advisor      string `json:"advisor"`
}
