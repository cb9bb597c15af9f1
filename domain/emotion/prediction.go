package emotion

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// normalizationTolerance is how far a probability vector may sum from 1
// before it is rescaled.
const normalizationTolerance = 1e-3

// Prediction is the immutable result of one analysis.
type Prediction struct {
	label        Label
	confidence   float64
	distribution [NumLabels]float64
	demo         bool
}

// NewPrediction builds a Prediction from a probability vector in label order.
// The vector must have NumLabels finite, non-negative entries with a positive
// sum. Vectors that do not sum to 1 are rescaled.
func NewPrediction(probs []float64, demo bool) (*Prediction, error) {
	if len(probs) != NumLabels {
		return nil, fmt.Errorf("expected %d probabilities, got %d", NumLabels, len(probs))
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("probability %d is not finite: %v", i, p)
		}
		if p < 0 {
			return nil, fmt.Errorf("probability %d is negative: %v", i, p)
		}
	}

	sum := floats.Sum(probs)
	if sum <= 0 {
		return nil, fmt.Errorf("probabilities sum to %v", sum)
	}

	pct := make([]float64, NumLabels)
	copy(pct, probs)
	scale := 100.0
	if math.Abs(sum-1) > normalizationTolerance {
		scale /= sum
	}
	floats.Scale(scale, pct)

	idx := floats.MaxIdx(pct)
	p := &Prediction{
		label:      labelSet[idx],
		confidence: pct[idx],
		demo:       demo,
	}
	copy(p.distribution[:], pct)
	return p, nil
}

// NewPredictionFloat32 is NewPrediction for raw model output.
func NewPredictionFloat32(probs []float32, demo bool) (*Prediction, error) {
	wide := make([]float64, len(probs))
	for i, p := range probs {
		wide[i] = float64(p)
	}
	return NewPrediction(wide, demo)
}

// Label returns the argmax label.
func (p *Prediction) Label() Label {
	return p.label
}

// Confidence returns the argmax probability as a percentage in [0,100].
func (p *Prediction) Confidence() float64 {
	return p.confidence
}

// Distribution returns a copy of all percentages in label order.
func (p *Prediction) Distribution() []float64 {
	out := make([]float64, NumLabels)
	copy(out, p.distribution[:])
	return out
}

// Percent returns the percentage assigned to a label, or 0 for unknown labels.
func (p *Prediction) Percent(l Label) float64 {
	i := l.Index()
	if i < 0 {
		return 0
	}
	return p.distribution[i]
}

// IsDemo reports whether the result was sampled rather than inferred.
func (p *Prediction) IsDemo() bool {
	return p.demo
}

// ConfidenceText formats the confidence the way the dashboard shows it.
func (p *Prediction) ConfidenceText() string {
	return fmt.Sprintf("Confidence: %.1f%%", p.confidence)
}
