package vehicles

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"recondeck/priority"
	"recondeck/queue"
	"recondeck/status"
	"recondeck/store"
)

// mockEmitter records emitted events for test assertions.
type mockEmitter struct {
	mu     sync.Mutex
	events []string
}

func (e *mockEmitter) record(s string) {
	e.mu.Lock()
	e.events = append(e.events, s)
	e.mu.Unlock()
}

func (e *mockEmitter) EmitVehicleCreated(v *store.Vehicle) { e.record("created:" + v.ID) }
func (e *mockEmitter) EmitStatusChanged(v *store.Vehicle, p status.Process, oldS, newS status.Status) {
	e.record("status:" + string(p) + ":" + string(oldS) + ">" + string(newS))
}
func (e *mockEmitter) EmitValidationChanged(v *store.Vehicle) { e.record("validation:" + v.ID) }
func (e *mockEmitter) EmitVehicleUpdated(v *store.Vehicle, field string) {
	e.record("updated:" + field)
}
func (e *mockEmitter) EmitVehicleFinished(v *store.Vehicle) { e.record("finished:" + v.ID) }

func (e *mockEmitter) has(s string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ev := range e.events {
		if ev == s {
			return true
		}
	}
	return false
}

func newTestManager(t *testing.T) (*Manager, *mockEmitter, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	emitter := &mockEmitter{}
	m := NewManager(db, emitter, priority.Scorer{})
	if err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return m, emitter, db
}

func createTestVehicle(t *testing.T, m *Manager, plate string) *store.Vehicle {
	t.Helper()
	sold := time.Now().AddDate(0, 0, -10)
	v, err := m.Create(&store.Vehicle{
		LicensePlate:  plate,
		Model:         "320d",
		VehicleType:   "Coche",
		SaleDate:      &sold,
		PaymentMethod: store.PaymentMethodCash,
		PaymentStatus: store.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return v
}

func TestToggleValidationStampsAndRescores(t *testing.T) {
	m, emitter, _ := newTestManager(t)
	v := createTestVehicle(t, m, "1234ABC")

	if v.PriorityScore > priority.UnvalidatedCap {
		t.Fatalf("unvalidated score %d exceeds cap", v.PriorityScore)
	}

	got, err := m.Apply(v.ID, &ToggleValidation{})
	if err != nil {
		t.Fatalf("toggle validation: %v", err)
	}
	if !got.Validated {
		t.Fatalf("expected validated")
	}
	if got.ValidationDate == nil {
		t.Fatalf("expected validation date stamped")
	}
	if got.PriorityScore < priority.ValidatedBase {
		t.Fatalf("expected score >= %d after validation, got %d", priority.ValidatedBase, got.PriorityScore)
	}
	if !emitter.has("validation:" + v.ID) {
		t.Fatalf("expected validation event")
	}

	// Toggling back clears the date and drops the tier.
	got, err = m.Apply(v.ID, &ToggleValidation{})
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if got.Validated || got.ValidationDate != nil {
		t.Fatalf("expected validation cleared, got %v %v", got.Validated, got.ValidationDate)
	}
	if got.PriorityScore > priority.UnvalidatedCap {
		t.Fatalf("expected unvalidated score, got %d", got.PriorityScore)
	}
}

func TestAdvanceProcessFullCycle(t *testing.T) {
	m, emitter, db := newTestManager(t)
	v := createTestVehicle(t, m, "5678DEF")

	stages := []status.Status{status.StatusInProgress, status.StatusDone, status.StatusPending}
	for _, want := range stages {
		got, err := m.Apply(v.ID, &AdvanceProcess{Process: status.ProcessCyP})
		if err != nil {
			t.Fatalf("advance cyp: %v", err)
		}
		st := got.ProcessState(status.ProcessCyP)
		if st.Status != want {
			t.Fatalf("expected %s, got %s", want, st.Status)
		}
		if want == status.StatusDone && st.CompletedAt == nil {
			t.Fatalf("expected completion date stamped on done")
		}
		if want != status.StatusDone && st.CompletedAt != nil {
			t.Fatalf("expected completion date cleared outside done")
		}
	}

	if !emitter.has("status:cyp:in_progress>done") {
		t.Fatalf("expected status event, got %v", emitter.events)
	}

	hist, err := db.ListStatusHistory(v.ID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("expected 3 history rows, got %d", len(hist))
	}
}

func TestFinishedEventOnDeliveryReadiness(t *testing.T) {
	m, emitter, _ := newTestManager(t)
	v := createTestVehicle(t, m, "9999ZZZ")

	// body and photo360 to done; mechanical stays pending and must not matter.
	for _, p := range []status.Process{status.ProcessBody, status.ProcessPhoto360} {
		m.Apply(v.ID, &AdvanceProcess{Process: p})
		if _, err := m.Apply(v.ID, &AdvanceProcess{Process: p}); err != nil {
			t.Fatalf("advance %s: %v", p, err)
		}
	}

	got, _ := m.Get(v.ID)
	if !got.Finished() {
		t.Fatalf("expected vehicle finished")
	}
	if !emitter.has("finished:" + v.ID) {
		t.Fatalf("expected finished event")
	}
}

func TestValidationErrorLeavesRecordUntouched(t *testing.T) {
	m, _, _ := newTestManager(t)
	v := createTestVehicle(t, m, "1111AAA")

	_, err := m.Apply(v.ID, &SetPaymentStatus{Status: "bogus"})
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, _ := m.Get(v.ID)
	if got.PaymentStatus != store.PaymentStatusPending {
		t.Fatalf("record mutated despite validation error: %s", got.PaymentStatus)
	}
}

func TestRollbackOnPersistenceFailure(t *testing.T) {
	m, _, db := newTestManager(t)
	v := createTestVehicle(t, m, "2222BBB")

	// Kill the store so the write fails after the optimistic update.
	db.Close()

	_, err := m.Apply(v.ID, &ToggleValidation{})
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}

	// The queue must show the reverted state, not the optimistic one.
	got, getErr := m.Get(v.ID)
	if getErr != nil {
		t.Fatalf("get after rollback: %v", getErr)
	}
	if got.Validated || got.ValidationDate != nil {
		t.Fatalf("optimistic state leaked after failed persist: %+v", got)
	}
	if got.PriorityScore != v.PriorityScore {
		t.Fatalf("score not re-derived from reverted state: %d != %d", got.PriorityScore, v.PriorityScore)
	}
}

func TestDeliveryCenterClearsProviderWhenNotExternal(t *testing.T) {
	m, _, _ := newTestManager(t)
	v := createTestVehicle(t, m, "3333CCC")

	got, err := m.Apply(v.ID, &SetDeliveryCenter{Center: DeliveryCenterExternal, ExternalProvider: "Talleres Lopez"})
	if err != nil {
		t.Fatalf("set external center: %v", err)
	}
	if got.ExternalProvider != "Talleres Lopez" {
		t.Fatalf("expected provider kept, got %q", got.ExternalProvider)
	}

	got, err = m.Apply(v.ID, &SetDeliveryCenter{Center: "Terrassa"})
	if err != nil {
		t.Fatalf("set center: %v", err)
	}
	if got.ExternalProvider != "" {
		t.Fatalf("expected provider cleared, got %q", got.ExternalProvider)
	}
}

func TestInProgressJumpsQueue(t *testing.T) {
	m, _, _ := newTestManager(t)
	low := createTestVehicle(t, m, "4444DDD")
	high := createTestVehicle(t, m, "5555EEE")

	// high gets the validated tier, low only a body process in progress.
	if _, err := m.Apply(high.ID, &ToggleValidation{}); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if _, err := m.Apply(low.ID, &AdvanceProcess{Process: status.ProcessBody}); err != nil {
		t.Fatalf("advance: %v", err)
	}

	page := m.Queue(queue.CategoryAll, "", queue.DateRange{}, 10, 1)
	if len(page.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(page.Vehicles))
	}
	if page.Vehicles[0].ID != low.ID {
		t.Fatalf("expected in-progress vehicle first, got %s", page.Vehicles[0].ID)
	}
}

func TestQueuePagination(t *testing.T) {
	m, _, _ := newTestManager(t)
	for _, plate := range []string{"0001AAA", "0002AAA", "0003AAA", "0004AAA", "0005AAA"} {
		createTestVehicle(t, m, plate)
	}

	page := m.Queue(queue.CategoryAll, "", queue.DateRange{}, 2, 3)
	if page.TotalItems != 5 || page.TotalPages != 3 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if len(page.Vehicles) != 1 {
		t.Fatalf("expected 1 vehicle on last page, got %d", len(page.Vehicles))
	}
	if page.Counts.All != 5 || page.Counts.Car != 5 {
		t.Fatalf("unexpected counts: %+v", page.Counts)
	}
}

func TestApplyUnknownVehicle(t *testing.T) {
	m, _, _ := newTestManager(t)
	if _, err := m.Apply("missing", &ToggleValidation{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
