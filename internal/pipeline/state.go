// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-17
// Last Modified: 2026-10-17

package pipeline

import "fmt"

// State is a stage of a pipeline run.
type State int

const (
	StateIdle State = iota
	StateBatchInFlight
	StateBatchComplete
	StateAllBatchesComplete
	StateFinalizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBatchInFlight:
		return "batch_in_flight"
	case StateBatchComplete:
		return "batch_complete"
	case StateAllBatchesComplete:
		return "all_batches_complete"
	case StateFinalizing:
		return "finalizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Transition is one state change. Batch is the zero-based batch index for
// StateBatchInFlight and StateBatchComplete, and -1 otherwise.
type Transition struct {
	State State
	Batch int
}

// Observer receives every transition of a run, in order, on the consuming goroutine.
type Observer func(Transition)

// BatchTracker records which batches of a run have completed.
type BatchTracker map[int]struct{}

// Done reports whether batch i has completed.
func (t BatchTracker) Done(i int) bool {
	_, ok := t[i]
	return ok
}

// Mark records batch i as completed.
func (t BatchTracker) Mark(i int) {
	t[i] = struct{}{}
}
