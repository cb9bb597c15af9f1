package classifier

import (
	"context"
	"fmt"
	"log/slog"

	"emotion-detector/domain/emotion"
	"emotion-detector/infrastructure/imageproc"
	"emotion-detector/infrastructure/logging"
)

// Adapter classifies tensors with the backend of a loaded Handle, or with a
// demo Sampler when the handle is unavailable. The mode is fixed at construction.
type Adapter struct {
	backend Backend
	sampler Sampler
	name    string
	logger  *slog.Logger
}

// NewAdapter creates an Adapter for h. A nil sampler defaults to a
// clock-seeded DirichletSampler.
func NewAdapter(h Handle, sampler Sampler, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Adapter{
		name:   h.BackendName(),
		logger: logger.With("component", "classifier"),
	}
	if h.Loaded() {
		a.backend = h.Backend()
		a.logger.Info("Classifier ready", "backend", a.name)
		return a
	}
	if sampler == nil {
		sampler = NewDirichletSampler(0)
	}
	a.sampler = sampler
	a.logger.Info("Classifier in demo mode", "backend", a.name, "reason", h.Reason())
	return a
}

// ModelLoaded reports whether predictions come from a real model.
func (a *Adapter) ModelLoaded() bool {
	return a.backend != nil
}

// BackendName returns the configured backend name.
func (a *Adapter) BackendName() string {
	return a.name
}

// Classify returns the prediction for t. It logs through the logger carried by ctx.
// Backend failures and malformed outputs are returned as *emotion.InferenceError.
// Demo predictions never fail with emotion.ErrModelInference.
func (a *Adapter) Classify(ctx context.Context, t *imageproc.Tensor) (*emotion.Prediction, error) {
	logger := logging.From(ctx)
	if a.backend == nil {
		return a.demo(logger)
	}

	if t == nil {
		return nil, emotion.NewInferenceError(a.name, fmt.Errorf("nil tensor"))
	}
	probs, err := a.backend.Predict(ctx, t.Data)
	if err != nil {
		return nil, emotion.NewInferenceError(a.name, err)
	}

	p, err := emotion.NewPredictionFloat32(probs, false)
	if err != nil {
		return nil, emotion.NewInferenceError(a.name, fmt.Errorf("invalid model output: %w", err))
	}

	logger.Debug("Classified", "backend", a.name, "label", p.Label(), "confidence", p.Confidence())
	return p, nil
}

func (a *Adapter) demo(logger *slog.Logger) (*emotion.Prediction, error) {
	p, err := emotion.NewPrediction(a.sampler.Sample(), true)
	if err != nil {
		return nil, fmt.Errorf("demo sample: %w", err)
	}
	logger.Debug("Demo prediction", "label", p.Label(), "confidence", p.Confidence())
	return p, nil
}
