// Package classifier turns preprocessed tensors into emotion predictions.
//
// A Handle records the outcome of model loading once at startup. An Adapter
// built from a loaded handle runs the backend's forward pass; one built from
// an unavailable handle samples a Dirichlet(1,...,1) distribution instead and
// marks its predictions as demo results.
package classifier

import (
	"context"
)

// Backend names accepted in Config.Backend.
const (
	BackendONNX   = "onnx"
	BackendRemote = "remote"
	BackendNone   = "none"
)

// Backend runs a forward pass over one preprocessed image.
type Backend interface {
	// Predict returns one probability per emotion label, in label order.
	Predict(ctx context.Context, input []float32) ([]float32, error)

	// Name identifies the backend in logs and status messages.
	Name() string

	// Close releases resources held by the backend.
	Close() error
}
