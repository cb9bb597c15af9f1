// Package state defines the display state machine.
package state

import "fmt"

// DisplayState represents what the dashboard is currently showing.
type DisplayState int

const (
	// StateEmpty is the initial state: no image selected.
	StateEmpty DisplayState = iota
	// StateImageLoaded indicates an image is selected but not yet analyzed.
	StateImageLoaded
	// StateAnalyzing indicates an analysis is in flight.
	StateAnalyzing
	// StateAnalyzed indicates the selected image has a result on display.
	StateAnalyzed
)

// String returns the string representation of the state.
func (s DisplayState) String() string {
	switch s {
	case StateEmpty:
		return "Empty"
	case StateImageLoaded:
		return "ImageLoaded"
	case StateAnalyzing:
		return "Analyzing"
	case StateAnalyzed:
		return "Analyzed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// validTransitions defines the allowed state transitions.
// Key is the current state, value is a list of valid target states.
var validTransitions = map[DisplayState][]DisplayState{
	StateEmpty:       {StateImageLoaded},
	StateImageLoaded: {StateImageLoaded, StateAnalyzing, StateEmpty},
	// A failed analysis falls back to whatever was on display before it started.
	StateAnalyzing: {StateAnalyzed, StateImageLoaded},
	StateAnalyzed:  {StateAnalyzing, StateImageLoaded, StateEmpty},
}

// CanTransitionTo checks if transitioning from the current state to the target state is valid.
func (s DisplayState) CanTransitionTo(target DisplayState) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// CanLoad returns true if a new image may be selected.
func (s DisplayState) CanLoad() bool {
	return s != StateAnalyzing
}

// CanAnalyze returns true if the Analyze control should be enabled.
func (s DisplayState) CanAnalyze() bool {
	return s == StateImageLoaded || s == StateAnalyzed
}

// CanClear returns true if the Clear control should be enabled.
func (s DisplayState) CanClear() bool {
	return s == StateImageLoaded || s == StateAnalyzed
}

// TransitionError represents an invalid state transition attempt.
type TransitionError struct {
	From   DisplayState
	To     DisplayState
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state transition from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to DisplayState, reason string) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: reason}
}
