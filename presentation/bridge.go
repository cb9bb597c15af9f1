// Package presentation provides the fyne UI and the bridge that connects it
// to the application layer.
package presentation

import (
	"log/slog"
	"sync"

	"emotion-detector/application"
	"emotion-detector/core/command"
	"emotion-detector/core/event"
	"emotion-detector/core/eventbus"
	"emotion-detector/core/state"
	"emotion-detector/domain/emotion"
	"emotion-detector/domain/history"
)

// UIEventBridge dispatches UI actions to the Analyzer and routes published
// events back to UI callbacks. Callbacks run on the event bus goroutine; the
// UI must hop to the fyne thread itself.
type UIEventBridge struct {
	analyzer *application.Analyzer
	eventBus eventbus.EventBus
	logger   *slog.Logger

	callbacks   *UICallbacks
	callbacksMu sync.RWMutex

	subscriptionID string
}

// UICallbacks contains callbacks for UI updates.
type UICallbacks struct {
	OnModelStatus  func(loaded bool, backend, reason string)
	OnStateChanged func(oldState, newState state.DisplayState)

	OnImageLoaded       func(path, summary string)
	OnAnalysisStarted   func(path string)
	OnAnalysisCompleted func(path string, p *emotion.Prediction)
	OnAnalysisFailed    func(operation, path string, err error)
	OnHistoryChanged    func(entries []history.Entry)
	OnDisplayCleared    func()
}

// uiEventNames are the events handleEvent routes to callbacks.
var uiEventNames = []string{
	"ModelStatusReported",
	"StateChanged",
	"ImageLoaded",
	"AnalysisStarted",
	"AnalysisCompleted",
	"AnalysisFailed",
	"HistoryChanged",
	"DisplayCleared",
}

// BridgeConfig holds configuration for UIEventBridge.
type BridgeConfig struct {
	Analyzer *application.Analyzer
	EventBus eventbus.EventBus
	Logger   *slog.Logger
}

// NewUIEventBridge creates a bridge and subscribes it to the event bus.
func NewUIEventBridge(cfg *BridgeConfig) *UIEventBridge {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	b := &UIEventBridge{
		analyzer:  cfg.Analyzer,
		eventBus:  cfg.EventBus,
		logger:    cfg.Logger,
		callbacks: &UICallbacks{},
	}

	if b.eventBus != nil {
		b.subscriptionID = b.eventBus.SubscribeNames(b.handleEvent, uiEventNames...)
	}

	return b
}

// SetCallbacks sets the UI callbacks.
func (b *UIEventBridge) SetCallbacks(callbacks *UICallbacks) {
	b.callbacksMu.Lock()
	defer b.callbacksMu.Unlock()
	b.callbacks = callbacks
}

// Close unsubscribes from the event bus.
func (b *UIEventBridge) Close() {
	if b.eventBus != nil && b.subscriptionID != "" {
		b.eventBus.Unsubscribe(b.subscriptionID)
	}
}

// Command dispatching methods

func (b *UIEventBridge) LoadImage(path string) error {
	return b.analyzer.Dispatch(command.NewLoadImage(path))
}

func (b *UIEventBridge) Analyze() error {
	return b.analyzer.Dispatch(&command.AnalyzeImage{})
}

func (b *UIEventBridge) Clear() error {
	return b.analyzer.Dispatch(&command.ClearDisplay{})
}

func (b *UIEventBridge) CaptureCamera() error {
	return b.analyzer.Dispatch(&command.CaptureCamera{})
}

// Query methods

func (b *UIEventBridge) State() state.DisplayState {
	return b.analyzer.State()
}

func (b *UIEventBridge) CurrentFile() string {
	return b.analyzer.CurrentFile()
}

func (b *UIEventBridge) LastPrediction() *emotion.Prediction {
	return b.analyzer.LastPrediction()
}

func (b *UIEventBridge) History() []history.Entry {
	return b.analyzer.History()
}

// Event handling

func (b *UIEventBridge) handleEvent(e event.Event) {
	b.callbacksMu.RLock()
	callbacks := b.callbacks
	b.callbacksMu.RUnlock()

	if callbacks == nil {
		return
	}

	switch evt := e.(type) {
	case *event.ModelStatusReported:
		if callbacks.OnModelStatus != nil {
			callbacks.OnModelStatus(evt.Loaded, evt.Backend, evt.Reason)
		}

	case *event.StateChanged:
		if callbacks.OnStateChanged != nil {
			callbacks.OnStateChanged(evt.OldState, evt.NewState)
		}

	case *event.ImageLoaded:
		if callbacks.OnImageLoaded != nil {
			callbacks.OnImageLoaded(evt.Path, evt.Summary)
		}

	case *event.AnalysisStarted:
		if callbacks.OnAnalysisStarted != nil {
			callbacks.OnAnalysisStarted(evt.Path)
		}

	case *event.AnalysisCompleted:
		if callbacks.OnAnalysisCompleted != nil {
			callbacks.OnAnalysisCompleted(evt.Path, evt.Prediction)
		}

	case *event.AnalysisFailed:
		if callbacks.OnAnalysisFailed != nil {
			callbacks.OnAnalysisFailed(evt.Operation, evt.Path, evt.Error)
		}

	case *event.HistoryChanged:
		if callbacks.OnHistoryChanged != nil {
			callbacks.OnHistoryChanged(evt.Entries)
		}

	case *event.DisplayCleared:
		if callbacks.OnDisplayCleared != nil {
			callbacks.OnDisplayCleared()
		}

	default:
		b.logger.Debug("Unhandled event", "event", e.EventName())
	}
}
