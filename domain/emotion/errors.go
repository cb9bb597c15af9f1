package emotion

import (
	"errors"
	"fmt"
)

// Common errors for the analysis pipeline.
var (
	ErrImageNotFound  = errors.New("image not found")
	ErrInvalidImage   = errors.New("invalid image")
	ErrModelInference = errors.New("model inference failed")
)

// ImageError reports a failure to turn a file into a tensor.
// Kind is ErrImageNotFound or ErrInvalidImage.
type ImageError struct {
	Path string
	Kind error
	Err  error
}

// NewImageNotFoundError creates an ImageError for a missing path.
func NewImageNotFoundError(path string, err error) *ImageError {
	return &ImageError{Path: path, Kind: ErrImageNotFound, Err: err}
}

// NewInvalidImageError creates an ImageError for an undecodable file.
func NewInvalidImageError(path string, err error) *ImageError {
	return &ImageError{Path: path, Kind: ErrInvalidImage, Err: err}
}

func (e *ImageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Path)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *ImageError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// InferenceError reports a failed forward pass.
type InferenceError struct {
	Backend string
	Err     error
}

// NewInferenceError creates an InferenceError for the named backend.
func NewInferenceError(backend string, err error) *InferenceError {
	return &InferenceError{Backend: backend, Err: err}
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%v (%s): %v", ErrModelInference, e.Backend, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Is matches ErrModelInference.
func (e *InferenceError) Is(target error) bool {
	return target == ErrModelInference
}
