// Package vehicles owns the in-memory working set of sold vehicles and
// every mutation against it. All mutations flow through Manager.Apply,
// which recomputes scores and re-sorts after each change so no call
// site can leave the queue stale.
package vehicles

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"recondeck/priority"
	"recondeck/queue"
	"recondeck/store"
)

// ErrNotFound is returned for mutations against an unknown vehicle.
var ErrNotFound = errors.New("vehicle not found")

// PersistenceError wraps a failed store write. The in-memory record has
// already been rolled back to its pre-mutation state when it surfaces.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// QueuePage is one page of the filtered, sorted queue.
type QueuePage struct {
	Vehicles   []store.Vehicle `json:"vehicles"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	TotalItems int             `json:"total_items"`
	Counts     queue.Counts    `json:"counts"`
}

// Manager holds the working set and serializes mutations against it.
type Manager struct {
	mu      sync.RWMutex
	db      *store.DB
	emitter EventEmitter
	scorer  priority.Scorer

	// Scored and sorted at all times.
	vehicles []store.Vehicle
}

// NewManager creates a vehicle manager. Call Load before serving.
func NewManager(db *store.DB, emitter EventEmitter, scorer priority.Scorer) *Manager {
	return &Manager{db: db, emitter: emitter, scorer: scorer}
}

// Load replaces the working set with a fresh snapshot from the store.
func (m *Manager) Load() error {
	vehicles, err := m.db.ListVehicles()
	if err != nil {
		return fmt.Errorf("list vehicles: %w", err)
	}
	m.mu.Lock()
	m.vehicles = vehicles
	m.recomputeAndSort()
	m.mu.Unlock()
	return nil
}

// Len returns the size of the working set.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vehicles)
}

// Get returns a copy of one vehicle.
func (m *Manager) Get(id string) (*store.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	v := m.vehicles[i]
	return &v, nil
}

// Create registers a newly sold vehicle and inserts it into the queue.
func (m *Manager) Create(v *store.Vehicle) (*store.Vehicle, error) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.ORValue == "" {
		v.ORValue = "ORT"
	}
	if err := m.db.CreateVehicle(v); err != nil {
		return nil, &PersistenceError{Op: "create_vehicle", Err: err}
	}

	// Re-read so defaults and store timestamps are authoritative.
	fresh, err := m.db.GetVehicle(v.ID)
	if err != nil {
		return nil, fmt.Errorf("reload created vehicle: %w", err)
	}

	m.mu.Lock()
	m.vehicles = append(m.vehicles, *fresh)
	m.recomputeAndSort()
	i := m.indexOf(fresh.ID)
	out := m.vehicles[i]
	m.mu.Unlock()

	m.emitter.EmitVehicleCreated(&out)
	return &out, nil
}

// Apply runs a mutation against one vehicle with optimistic-update
// semantics: the record is changed and re-queued immediately, then the
// store's stamped row replaces the client-guessed timestamps. On a
// failed write the record is rolled back and the queue re-derived from
// the reverted state, so the queue never shows unconfirmed state.
func (m *Manager) Apply(id string, mut Mutation) (*store.Vehicle, error) {
	m.mu.Lock()
	i := m.indexOf(id)
	if i < 0 {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	prev := m.vehicles[i]

	if err := mut.apply(&m.vehicles[i], time.Now()); err != nil {
		m.vehicles[i] = prev
		m.mu.Unlock()
		return nil, err
	}
	m.recomputeAndSort()

	if err := mut.persist(m.db, &m.vehicles[m.indexOf(id)]); err != nil {
		m.vehicles[m.indexOf(id)] = prev
		m.recomputeAndSort()
		m.mu.Unlock()
		return nil, &PersistenceError{Op: mut.name(), Err: err}
	}

	// Substitute the store's authoritative timestamps, keeping the
	// score consistent with them.
	if fresh, err := m.db.GetVehicle(id); err == nil {
		m.vehicles[m.indexOf(id)] = *fresh
		m.recomputeAndSort()
	}

	out := m.vehicles[m.indexOf(id)]
	m.mu.Unlock()

	mut.emit(m.emitter, &out)
	if !prev.Finished() && out.Finished() {
		m.emitter.EmitVehicleFinished(&out)
	}
	return &out, nil
}

// Queue returns one page of the filtered, sorted working set together
// with the tab counters.
func (m *Manager) Queue(category queue.Category, query string, dates queue.DateRange, pageSize, page int) QueuePage {
	m.mu.RLock()
	snapshot := make([]store.Vehicle, len(m.vehicles))
	copy(snapshot, m.vehicles)
	m.mu.RUnlock()

	filtered := queue.Filter(snapshot, category, query, dates)
	items := queue.Paginate(filtered, pageSize, page)

	total := queue.TotalPages(len(filtered), pageSize)
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	return QueuePage{
		Vehicles:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: total,
		TotalItems: len(filtered),
		Counts:     queue.CountByCategory(snapshot),
	}
}

// Counts returns the per-tab totals.
func (m *Manager) Counts() queue.Counts {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return queue.CountByCategory(m.vehicles)
}

// recomputeAndSort is the single rescoring pipeline: every mutation
// path funnels through it so scores and order can never be skipped for
// a subset of call sites. Caller must hold the write lock.
func (m *Manager) recomputeAndSort() {
	m.scorer.Annotate(m.vehicles)
	m.vehicles = queue.Sort(m.vehicles)
}

func (m *Manager) indexOf(id string) int {
	for i := range m.vehicles {
		if m.vehicles[i].ID == id {
			return i
		}
	}
	return -1
}
