// Package event defines all events that can be published by the application.
// Events represent state changes and are consumed by the presentation layer.
package event

import (
	"emotion-detector/core/state"
	"emotion-detector/domain/emotion"
	"emotion-detector/domain/history"
)

// Event is the base interface for all events.
// Events are published by the application layer and consumed by subscribers.
type Event interface {
	// EventName returns the name of the event for logging/debugging
	EventName() string
}

// ModelStatusReported is published once at startup with the outcome of model loading.
type ModelStatusReported struct {
	Loaded  bool
	Backend string
	Reason  string // why the model is unavailable; empty when loaded
}

func NewModelStatusReported(loaded bool, backend, reason string) *ModelStatusReported {
	return &ModelStatusReported{Loaded: loaded, Backend: backend, Reason: reason}
}

func (e *ModelStatusReported) EventName() string {
	return "ModelStatusReported"
}

// StateChanged is published when the display state changes.
type StateChanged struct {
	OldState state.DisplayState
	NewState state.DisplayState
}

func NewStateChanged(oldState, newState state.DisplayState) *StateChanged {
	return &StateChanged{OldState: oldState, NewState: newState}
}

func (e *StateChanged) EventName() string {
	return "StateChanged"
}

// ImageLoaded is published when an image file has been selected.
type ImageLoaded struct {
	Path    string
	Name    string
	Summary string // "name | WxH | N.N KB"
}

func NewImageLoaded(path, name, summary string) *ImageLoaded {
	return &ImageLoaded{Path: path, Name: name, Summary: summary}
}

func (e *ImageLoaded) EventName() string {
	return "ImageLoaded"
}

// AnalysisStarted is published before the selected image is preprocessed.
type AnalysisStarted struct {
	Path string
}

func NewAnalysisStarted(path string) *AnalysisStarted {
	return &AnalysisStarted{Path: path}
}

func (e *AnalysisStarted) EventName() string {
	return "AnalysisStarted"
}

// AnalysisCompleted is published with the result of a successful analysis.
type AnalysisCompleted struct {
	Path       string
	Prediction *emotion.Prediction
}

func NewAnalysisCompleted(path string, p *emotion.Prediction) *AnalysisCompleted {
	return &AnalysisCompleted{Path: path, Prediction: p}
}

func (e *AnalysisCompleted) EventName() string {
	return "AnalysisCompleted"
}

// AnalysisFailed is published when loading or analyzing an image fails.
// Nothing on display changes.
type AnalysisFailed struct {
	Operation string // "load", "analyze" or "camera"
	Path      string
	Error     error
}

func NewAnalysisFailed(operation, path string, err error) *AnalysisFailed {
	return &AnalysisFailed{Operation: operation, Path: path, Error: err}
}

func (e *AnalysisFailed) EventName() string {
	return "AnalysisFailed"
}

// HistoryChanged is published after an entry is added to the history.
type HistoryChanged struct {
	Entries []history.Entry // newest first
}

func NewHistoryChanged(entries []history.Entry) *HistoryChanged {
	return &HistoryChanged{Entries: entries}
}

func (e *HistoryChanged) EventName() string {
	return "HistoryChanged"
}

// DisplayCleared is published when the selected image and result are dropped.
type DisplayCleared struct{}

func (e *DisplayCleared) EventName() string {
	return "DisplayCleared"
}
