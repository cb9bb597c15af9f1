// Package application owns the analysis workflow: the selected image, the
// model, the result on display and the history.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"emotion-detector/core/command"
	"emotion-detector/core/event"
	"emotion-detector/core/eventbus"
	"emotion-detector/core/state"
	"emotion-detector/domain/emotion"
	"emotion-detector/domain/history"
	"emotion-detector/infrastructure/imageproc"
	"emotion-detector/infrastructure/logging"
)

var (
	// ErrNoImage is returned by Analyze when no image is selected.
	ErrNoImage = errors.New("no image selected")
	// ErrCameraUnavailable is returned by CaptureCamera.
	ErrCameraUnavailable = errors.New("camera capture is not available")
)

// Preprocessor turns an image file into a model input tensor.
type Preprocessor interface {
	Load(path string) (*imageproc.Tensor, error)
}

// Classifier turns a tensor into a prediction.
type Classifier interface {
	Classify(ctx context.Context, t *imageproc.Tensor) (*emotion.Prediction, error)
	ModelLoaded() bool
	BackendName() string
}

// InfoReader reads image metadata without decoding pixels.
type InfoReader func(path string) (imageproc.Info, error)

// Config holds the dependencies of an Analyzer.
type Config struct {
	EventBus     eventbus.Publisher
	Preprocessor Preprocessor
	Classifier   Classifier
	// History receives one entry per successful analysis.
	// If nil, a history with the default capacity is created.
	History *history.History
	// ReadInfo defaults to imageproc.ReadInfo.
	ReadInfo InfoReader
	// ModelReason explains why the model is unavailable, if it is.
	ModelReason string
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// Analyzer processes commands from the presentation layer one at a time and
// publishes the resulting events.
type Analyzer struct {
	// dispatchMu serializes command handling.
	dispatchMu sync.Mutex

	// mu guards the fields below, read by the query methods.
	mu          sync.RWMutex
	state       state.DisplayState
	currentFile string
	last        *emotion.Prediction

	eventBus     eventbus.Publisher
	preprocessor Preprocessor
	classifier   Classifier
	history      *history.History
	readInfo     InfoReader
	modelReason  string
	clock        func() time.Time
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAnalyzer creates an Analyzer in the Empty state.
func NewAnalyzer(cfg *Config) *Analyzer {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.History == nil {
		cfg.History = history.New(history.DefaultCapacity)
	}
	if cfg.ReadInfo == nil {
		cfg.ReadInfo = imageproc.ReadInfo
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Analyzer{
		state:        state.StateEmpty,
		eventBus:     cfg.EventBus,
		preprocessor: cfg.Preprocessor,
		classifier:   cfg.Classifier,
		history:      cfg.History,
		readInfo:     cfg.ReadInfo,
		modelReason:  cfg.ModelReason,
		clock:        cfg.Clock,
		logger:       cfg.Logger.With("component", "analyzer"),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start reports the model status. Subscribers should be registered first.
func (a *Analyzer) Start() {
	loaded := a.ModelLoaded()
	reason := ""
	if !loaded {
		reason = a.modelReason
	}
	a.publish(event.NewModelStatusReported(loaded, a.classifier.BackendName(), reason))
	a.logger.Info("Analyzer started",
		"model_loaded", loaded, "backend", a.classifier.BackendName(), "history_capacity", a.history.Cap())
}

// Stop cancels any analysis in flight.
func (a *Analyzer) Stop() {
	a.cancel()
	a.logger.Info("Analyzer stopped")
}

// Dispatch handles cmd synchronously. Commands never run concurrently.
func (a *Analyzer) Dispatch(cmd command.Command) error {
	a.dispatchMu.Lock()
	defer a.dispatchMu.Unlock()

	a.logger.Debug("Dispatching command", "command", cmd.CommandName())

	switch cmd := cmd.(type) {
	case *command.LoadImage:
		return a.handleLoadImage(cmd)
	case *command.AnalyzeImage:
		return a.handleAnalyze()
	case *command.ClearDisplay:
		return a.handleClear()
	case *command.CaptureCamera:
		return a.handleCaptureCamera()
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}
}

// AnalyzeFile runs the preprocess and classify pipeline on path without
// touching the display state or the history.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*emotion.Prediction, error) {
	tensor, err := a.preprocessor.Load(path)
	if err != nil {
		return nil, err
	}
	return a.classifier.Classify(ctx, tensor)
}

// State returns the current display state.
func (a *Analyzer) State() state.DisplayState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// CurrentFile returns the selected image path, or "" when none is selected.
func (a *Analyzer) CurrentFile() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentFile
}

// LastPrediction returns the prediction on display, or nil.
func (a *Analyzer) LastPrediction() *emotion.Prediction {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last
}

// History returns the history entries, newest first.
func (a *Analyzer) History() []history.Entry {
	return a.history.Entries()
}

// ModelLoaded reports whether a real model is in use.
func (a *Analyzer) ModelLoaded() bool {
	return a.classifier.ModelLoaded()
}

// Command handlers

func (a *Analyzer) handleLoadImage(cmd *command.LoadImage) error {
	info, err := a.readInfo(cmd.Path)
	if err != nil {
		a.logger.Warn("Failed to load image", "path", cmd.Path, "error", err)
		a.publish(event.NewAnalysisFailed("load", cmd.Path, err))
		return err
	}

	a.mu.Lock()
	from := a.state
	if !from.CanTransitionTo(state.StateImageLoaded) {
		a.mu.Unlock()
		return state.NewTransitionError(from, state.StateImageLoaded, "cannot load an image now")
	}
	a.state = state.StateImageLoaded
	a.currentFile = cmd.Path
	a.last = nil
	a.mu.Unlock()

	a.logger.Info("Image loaded", "path", cmd.Path, "width", info.Width, "height", info.Height)
	a.publish(event.NewStateChanged(from, state.StateImageLoaded))
	a.publish(event.NewImageLoaded(cmd.Path, info.Name, info.String()))
	return nil
}

func (a *Analyzer) handleAnalyze() error {
	a.mu.Lock()
	from := a.state
	path := a.currentFile
	if !from.CanAnalyze() || path == "" {
		a.mu.Unlock()
		return ErrNoImage
	}
	a.state = state.StateAnalyzing
	a.mu.Unlock()

	a.publish(event.NewStateChanged(from, state.StateAnalyzing))
	a.publish(event.NewAnalysisStarted(path))

	ctx := logging.WithAttrs(logging.With(a.ctx, a.logger), "path", path)
	p, err := a.AnalyzeFile(ctx, path)
	if err != nil {
		a.mu.Lock()
		a.state = from
		a.mu.Unlock()

		logging.From(ctx).Error("Analysis failed", "error", err)
		a.publish(event.NewStateChanged(state.StateAnalyzing, from))
		a.publish(event.NewAnalysisFailed("analyze", path, err))
		return err
	}

	a.history.Add(history.NewEntry(a.clock(), p))

	a.mu.Lock()
	a.last = p
	a.state = state.StateAnalyzed
	a.mu.Unlock()

	logging.From(ctx).Info("Analysis completed",
		"label", p.Label(), "confidence", p.Confidence(), "demo", p.IsDemo(), "history_len", a.history.Len())
	a.publish(event.NewStateChanged(state.StateAnalyzing, state.StateAnalyzed))
	a.publish(event.NewAnalysisCompleted(path, p))
	a.publish(event.NewHistoryChanged(a.history.Entries()))
	return nil
}

func (a *Analyzer) handleClear() error {
	a.mu.Lock()
	from := a.state
	if from == state.StateEmpty {
		a.mu.Unlock()
		return nil
	}
	if !from.CanClear() {
		a.mu.Unlock()
		return state.NewTransitionError(from, state.StateEmpty, "analysis in progress")
	}
	a.state = state.StateEmpty
	a.currentFile = ""
	a.last = nil
	a.mu.Unlock()

	a.logger.Debug("Display cleared")
	a.publish(event.NewStateChanged(from, state.StateEmpty))
	a.publish(&event.DisplayCleared{})
	return nil
}

func (a *Analyzer) handleCaptureCamera() error {
	a.publish(event.NewAnalysisFailed("camera", "", ErrCameraUnavailable))
	return ErrCameraUnavailable
}

func (a *Analyzer) publish(e event.Event) {
	if a.eventBus != nil {
		a.eventBus.Publish(e)
	}
}
