package status

import (
	"fmt"
	"time"
)

// Status is the stage of a single reconditioning process.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Process identifies one of the independent reconditioning processes
// tracked per vehicle.
type Process string

const (
	ProcessBody       Process = "body"
	ProcessMechanical Process = "mechanical"
	ProcessCyP        Process = "cyp"
	ProcessPhoto360   Process = "photo360"
)

// AllProcesses lists the tracked processes in display order.
var AllProcesses = []Process{ProcessBody, ProcessMechanical, ProcessCyP, ProcessPhoto360}

// cycle defines the fixed toggle sequence. Advancing done returns to
// pending so a control can be re-opened after a failed quality check.
var cycle = map[Status]Status{
	StatusPending:    StatusInProgress,
	StatusInProgress: StatusDone,
	StatusDone:       StatusPending,
}

// Advance returns the next stage in the cycle. Unknown values are
// treated as pending, matching how unset records enter the pipeline.
func Advance(s Status) Status {
	next, ok := cycle[s]
	if !ok {
		return StatusPending
	}
	return next
}

// Valid reports whether s is one of the three legal stages.
func Valid(s Status) bool {
	_, ok := cycle[s]
	return ok
}

// ValidProcess reports whether p names a tracked process.
func ValidProcess(p Process) bool {
	for _, known := range AllProcesses {
		if p == known {
			return true
		}
	}
	return false
}

// Parse validates a raw stage value. Direct assignment of anything
// outside the three legal stages is rejected rather than clamped.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if !Valid(s) {
		return "", fmt.Errorf("invalid process status %q", raw)
	}
	return s, nil
}

// ParseProcess validates a raw process name.
func ParseProcess(raw string) (Process, error) {
	p := Process(raw)
	if !ValidProcess(p) {
		return "", fmt.Errorf("unknown process %q", raw)
	}
	return p, nil
}

// ProcessState is a process stage together with its completion time.
// CompletedAt is non-nil only while the stage is done.
type ProcessState struct {
	Status      Status
	CompletedAt *time.Time
}

// ApplyAdvance advances a process state one step and maintains the
// completion timestamp: entering done stamps now, leaving done clears it.
func ApplyAdvance(st ProcessState, now time.Time) ProcessState {
	next := Advance(st.Status)
	out := ProcessState{Status: next}
	if next == StatusDone {
		t := now
		out.CompletedAt = &t
	}
	return out
}
