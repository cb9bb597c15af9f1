package emotion

import (
	"errors"
	"io/fs"
	"math"
	"testing"
)

func TestLabels_Order(t *testing.T) {
	expected := []Label{Angry, Disgust, Fear, Happy, Neutral, Sad, Surprise}

	got := Labels()
	if len(got) != NumLabels {
		t.Fatalf("Labels() length = %d, want %d", len(got), NumLabels)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Labels()[%d] = %v, want %v", i, got[i], expected[i])
		}
		if expected[i].Index() != i {
			t.Errorf("%v.Index() = %d, want %d", expected[i], expected[i].Index(), i)
		}
	}

	// Mutating the returned slice must not affect the label set
	got[0] = "mutated"
	if l, _ := LabelAt(0); l != Angry {
		t.Errorf("LabelAt(0) = %v after mutation, want angry", l)
	}
}

func TestLabelAt(t *testing.T) {
	tests := []struct {
		index    int
		expected Label
		ok       bool
	}{
		{0, Angry, true},
		{3, Happy, true},
		{6, Surprise, true},
		{-1, "", false},
		{7, "", false},
	}

	for _, tt := range tests {
		got, ok := LabelAt(tt.index)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("LabelAt(%d) = (%v, %v), want (%v, %v)", tt.index, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected Label
		ok       bool
	}{
		{"happy", Happy, true},
		{"Happy", Happy, true},
		{"  SURPRISE ", Surprise, true},
		{"bored", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLabel(tt.input)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("ParseLabel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestLabel_Formatting(t *testing.T) {
	if got := Happy.Title(); got != "Happy" {
		t.Errorf("Title() = %v, want Happy", got)
	}
	if got := Surprise.Upper(); got != "SURPRISE" {
		t.Errorf("Upper() = %v, want SURPRISE", got)
	}
	if got := Label("").Title(); got != "" {
		t.Errorf("empty Title() = %q, want empty", got)
	}
	if Label("bored").Valid() {
		t.Error("bored should not be a valid label")
	}
}

func TestNewPrediction_StubDistribution(t *testing.T) {
	probs := []float64{0.1, 0.1, 0.1, 0.4, 0.1, 0.1, 0.1}

	p, err := NewPrediction(probs, false)
	if err != nil {
		t.Fatalf("NewPrediction() error = %v", err)
	}

	if p.Label() != Happy {
		t.Errorf("Label() = %v, want happy", p.Label())
	}
	if math.Abs(p.Confidence()-40.0) > 1e-9 {
		t.Errorf("Confidence() = %v, want 40.0", p.Confidence())
	}
	if p.IsDemo() {
		t.Error("IsDemo() = true, want false")
	}
	if got := p.ConfidenceText(); got != "Confidence: 40.0%" {
		t.Errorf("ConfidenceText() = %q", got)
	}
	if got := p.Percent(Angry); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("Percent(angry) = %v, want 10.0", got)
	}
	if got := p.Percent("bored"); got != 0 {
		t.Errorf("Percent(unknown) = %v, want 0", got)
	}
}

func TestNewPrediction_Invariants(t *testing.T) {
	tests := []struct {
		name  string
		probs []float64
	}{
		{"normalized", []float64{0.05, 0.05, 0.1, 0.5, 0.1, 0.1, 0.1}},
		{"unnormalized", []float64{1, 2, 3, 4, 5, 6, 7}},
		{"one hot", []float64{0, 0, 0, 0, 0, 0, 1}},
		{"ties pick first", []float64{0.3, 0.3, 0.1, 0.1, 0.1, 0.05, 0.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPrediction(tt.probs, false)
			if err != nil {
				t.Fatalf("NewPrediction() error = %v", err)
			}

			dist := p.Distribution()
			if len(dist) != NumLabels {
				t.Fatalf("distribution length = %d, want %d", len(dist), NumLabels)
			}

			sum := 0.0
			best := 0
			for i, v := range dist {
				if v < 0 || v > 100 {
					t.Errorf("dist[%d] = %v out of [0,100]", i, v)
				}
				if v > dist[best] {
					best = i
				}
				sum += v
			}
			if math.Abs(sum-100) > 0.1 {
				t.Errorf("distribution sums to %v, want 100", sum)
			}

			want, _ := LabelAt(best)
			if p.Label() != want {
				t.Errorf("Label() = %v, want argmax %v", p.Label(), want)
			}
			if p.Confidence() != dist[best] {
				t.Errorf("Confidence() = %v, want %v", p.Confidence(), dist[best])
			}
		})
	}
}

func TestNewPrediction_Errors(t *testing.T) {
	tests := []struct {
		name  string
		probs []float64
	}{
		{"too short", []float64{0.5, 0.5}},
		{"too long", []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.3}},
		{"negative", []float64{-0.1, 0.2, 0.1, 0.4, 0.2, 0.1, 0.1}},
		{"nan", []float64{math.NaN(), 0.2, 0.1, 0.4, 0.2, 0.1, 0.1}},
		{"inf", []float64{math.Inf(1), 0, 0, 0, 0, 0, 0}},
		{"all zero", []float64{0, 0, 0, 0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPrediction(tt.probs, false); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPrediction_DistributionIsCopy(t *testing.T) {
	p, err := NewPredictionFloat32([]float32{0.1, 0.1, 0.1, 0.4, 0.1, 0.1, 0.1}, true)
	if err != nil {
		t.Fatalf("NewPredictionFloat32() error = %v", err)
	}
	if !p.IsDemo() {
		t.Error("IsDemo() = false, want true")
	}

	dist := p.Distribution()
	dist[3] = 0
	if p.Distribution()[3] == 0 {
		t.Error("Distribution() exposed internal state")
	}
}

func TestImageError(t *testing.T) {
	notFound := NewImageNotFoundError("missing.jpg", fs.ErrNotExist)
	if !errors.Is(notFound, ErrImageNotFound) {
		t.Error("not-found error should match ErrImageNotFound")
	}
	if !errors.Is(notFound, fs.ErrNotExist) {
		t.Error("not-found error should match fs.ErrNotExist")
	}
	if errors.Is(notFound, ErrInvalidImage) {
		t.Error("not-found error should not match ErrInvalidImage")
	}

	invalid := NewInvalidImageError("notes.txt", errors.New("unknown format"))
	if !errors.Is(invalid, ErrInvalidImage) {
		t.Error("invalid error should match ErrInvalidImage")
	}
	if got := invalid.Error(); got != "invalid image: notes.txt: unknown format" {
		t.Errorf("Error() = %q", got)
	}

	var imgErr *ImageError
	if !errors.As(invalid, &imgErr) || imgErr.Path != "notes.txt" {
		t.Error("errors.As should expose the ImageError")
	}
}

func TestInferenceError(t *testing.T) {
	cause := errors.New("session run failed")
	err := NewInferenceError("onnx", cause)

	if !errors.Is(err, ErrModelInference) {
		t.Error("should match ErrModelInference")
	}
	if !errors.Is(err, cause) {
		t.Error("should match the cause")
	}
	if got := err.Error(); got != "model inference failed (onnx): session run failed" {
		t.Errorf("Error() = %q", got)
	}
}
