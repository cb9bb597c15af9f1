package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"emotion-detector/domain/emotion"
)

// Metadata describes an exported model: tensor shapes, tensor names and the
// class order of its output.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	InputName   string   `json:"input_name,omitempty"`
	OutputName  string   `json:"output_name,omitempty"`
}

// DefaultMetadataPath returns modelPath with its extension replaced by .json.
func DefaultMetadataPath(modelPath string) string {
	return strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + ".json"
}

// LoadMetadata reads and validates a metadata file.
func LoadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return ParseMetadata(data)
}

// ParseMetadata decodes and validates metadata JSON, filling default tensor names.
func ParseMetadata(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	if m.InputName == "" {
		m.InputName = "input"
	}
	if m.OutputName == "" {
		m.OutputName = "output"
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the model takes one square grayscale image and emits
// one score per label in label order.
func (m *Metadata) Validate() error {
	labels := emotion.Labels()
	if len(m.Classes) != len(labels) {
		return fmt.Errorf("metadata lists %d classes, want %d", len(m.Classes), len(labels))
	}
	for i, c := range m.Classes {
		if !strings.EqualFold(c, labels[i].String()) {
			return fmt.Errorf("class %d is %q, want %q", i, c, labels[i])
		}
	}

	if m.ImageSize <= 0 {
		return fmt.Errorf("invalid image_size %d", m.ImageSize)
	}
	if got, want := shapeElements(m.InputShape), int64(m.ImageSize*m.ImageSize); got != want {
		return fmt.Errorf("input shape %v holds %d values, want %d", m.InputShape, got, want)
	}
	if got := shapeElements(m.OutputShape); got != int64(len(labels)) {
		return fmt.Errorf("output shape %v holds %d values, want %d", m.OutputShape, got, len(labels))
	}
	return nil
}

func shapeElements(shape []int64) int64 {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		if d <= 0 {
			return 0
		}
		n *= d
	}
	return n
}
