package vehicles

import (
	"log"
	"time"

	"recondeck/status"
	"recondeck/store"
)

// ValidationError rejects a mutation whose value is outside the legal
// domain. The in-memory record is left untouched.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Mutation is a command against one mutable field group of a vehicle.
// One variant exists per group, so an invalid field/value combination is
// a compile error rather than a runtime string mismatch.
//
// apply mutates the record optimistically with a client-guessed
// timestamp; persist writes the group through the store, whose stamped
// row is authoritative; emit announces the confirmed change.
type Mutation interface {
	name() string
	apply(v *store.Vehicle, now time.Time) error
	persist(db *store.DB, v *store.Vehicle) error
	emit(e EventEmitter, v *store.Vehicle)
}

// AdvanceProcess advances one reconditioning process a single step
// along the pending -> in_progress -> done -> pending cycle.
type AdvanceProcess struct {
	Process status.Process

	from, to status.Status
}

func (m *AdvanceProcess) name() string { return "advance_" + string(m.Process) }

func (m *AdvanceProcess) apply(v *store.Vehicle, now time.Time) error {
	if !status.ValidProcess(m.Process) {
		return ValidationError("unknown process " + string(m.Process))
	}
	st := v.ProcessState(m.Process)
	m.from = st.Status
	next := status.ApplyAdvance(st, now)
	m.to = next.Status
	v.SetProcessState(m.Process, next)
	return nil
}

func (m *AdvanceProcess) persist(db *store.DB, v *store.Vehicle) error {
	if err := db.UpdateProcessStatus(v.ID, m.Process, v.ProcessState(m.Process)); err != nil {
		return err
	}
	if err := db.InsertStatusHistory(v.ID, string(m.Process), string(m.from), string(m.to), ""); err != nil {
		log.Printf("insert status history for %s: %v", v.ID, err)
	}
	return nil
}

func (m *AdvanceProcess) emit(e EventEmitter, v *store.Vehicle) {
	e.EmitStatusChanged(v, m.Process, m.from, m.to)
}

// ToggleValidation flips the validation gate. Validating stamps the
// validation date; un-validating clears it.
type ToggleValidation struct{}

func (m *ToggleValidation) name() string { return "toggle_validation" }

func (m *ToggleValidation) apply(v *store.Vehicle, now time.Time) error {
	v.Validated = !v.Validated
	if v.Validated {
		t := now
		v.ValidationDate = &t
	} else {
		v.ValidationDate = nil
	}
	return nil
}

func (m *ToggleValidation) persist(db *store.DB, v *store.Vehicle) error {
	return db.UpdateValidation(v.ID, v.Validated, v.ValidationDate)
}

func (m *ToggleValidation) emit(e EventEmitter, v *store.Vehicle) {
	e.EmitValidationChanged(v)
}

// DeliveryCenterExternal is the center value that carries a free-text
// external provider; any other center clears it.
const DeliveryCenterExternal = "Externo"

// SetDeliveryCenter assigns the pre-delivery center.
type SetDeliveryCenter struct {
	Center           string
	ExternalProvider string
}

func (m *SetDeliveryCenter) name() string { return "set_delivery_center" }

func (m *SetDeliveryCenter) apply(v *store.Vehicle, now time.Time) error {
	if m.Center == "" {
		return ValidationError("delivery center must not be empty")
	}
	v.DeliveryCenter = m.Center
	if m.Center == DeliveryCenterExternal {
		v.ExternalProvider = m.ExternalProvider
	} else {
		v.ExternalProvider = ""
	}
	return nil
}

func (m *SetDeliveryCenter) persist(db *store.DB, v *store.Vehicle) error {
	return db.UpdateDeliveryCenter(v.ID, v.DeliveryCenter, v.ExternalProvider)
}

func (m *SetDeliveryCenter) emit(e EventEmitter, v *store.Vehicle) {
	e.EmitVehicleUpdated(v, "delivery_center")
}

// SetPaymentStatus changes the payment status. Gated to admins by the
// caller; the engine only validates the value.
type SetPaymentStatus struct {
	Status string
}

func (m *SetPaymentStatus) name() string { return "set_payment_status" }

func (m *SetPaymentStatus) apply(v *store.Vehicle, now time.Time) error {
	switch m.Status {
	case store.PaymentStatusPending, store.PaymentStatusUnderReview,
		store.PaymentStatusApproved, store.PaymentStatusPaid:
	default:
		return ValidationError("invalid payment status " + m.Status)
	}
	v.PaymentStatus = m.Status
	return nil
}

func (m *SetPaymentStatus) persist(db *store.DB, v *store.Vehicle) error {
	return db.UpdatePaymentStatus(v.ID, v.PaymentStatus)
}

func (m *SetPaymentStatus) emit(e EventEmitter, v *store.Vehicle) {
	e.EmitVehicleUpdated(v, "payment_status")
}

// SetPaymentMethod changes the payment method.
type SetPaymentMethod struct {
	Method string
}

func (m *SetPaymentMethod) name() string { return "set_payment_method" }

func (m *SetPaymentMethod) apply(v *store.Vehicle, now time.Time) error {
	if m.Method == "" {
		return ValidationError("payment method must not be empty")
	}
	v.PaymentMethod = m.Method
	return nil
}

func (m *SetPaymentMethod) persist(db *store.DB, v *store.Vehicle) error {
	return db.UpdatePaymentMethod(v.ID, v.PaymentMethod)
}

func (m *SetPaymentMethod) emit(e EventEmitter, v *store.Vehicle) {
	e.EmitVehicleUpdated(v, "payment_method")
}

// SetORValue changes the workshop OR reference shown in the queue.
type SetORValue struct {
	Value string
}

func (m *SetORValue) name() string { return "set_or_value" }

func (m *SetORValue) apply(v *store.Vehicle, now time.Time) error {
	v.ORValue = m.Value
	return nil
}

func (m *SetORValue) persist(db *store.DB, v *store.Vehicle) error {
	return db.UpdateORValue(v.ID, v.ORValue)
}

func (m *SetORValue) emit(e EventEmitter, v *store.Vehicle) {
	e.EmitVehicleUpdated(v, "or_value")
}
