package session

import "fmt"

// TaskKind names a deferred effect.
type TaskKind int

const (
	// TaskClearWiggle ends the wiggle started by decline generation Gen.
	TaskClearWiggle TaskKind = iota + 1
	// TaskExpireMarker removes the marker with MarkerID.
	TaskExpireMarker
	// TaskBurst fires burst phase Phase.
	TaskBurst
)

// Task is a deferred effect keyed by its own identity, so a task that fires
// after the state moved on only touches what it was created for.
type Task struct {
	Kind     TaskKind
	Gen      uint64
	MarkerID uint64
	Phase    int
}

func (t Task) String() string {
	switch t.Kind {
	case TaskClearWiggle:
		return fmt.Sprintf("clear-wiggle(gen=%d)", t.Gen)
	case TaskExpireMarker:
		return fmt.Sprintf("expire-marker(id=%d)", t.MarkerID)
	case TaskBurst:
		return fmt.Sprintf("burst(phase=%d)", t.Phase)
	default:
		return "task(?)"
	}
}
