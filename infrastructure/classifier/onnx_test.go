package classifier

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestNewONNXBackend_RequiresMetadata(t *testing.T) {
	if _, err := NewONNXBackend(ONNXConfig{ModelPath: "model.onnx"}); err == nil {
		t.Fatal("NewONNXBackend() without metadata should fail")
	}
}

func TestONNXBackend_Closed(t *testing.T) {
	b := &ONNXBackend{}
	for i := 0; i < 2; i++ {
		if err := b.Close(); err != nil {
			t.Fatalf("Close() #%d error = %v", i+1, err)
		}
	}
	_, err := b.Predict(context.Background(), make([]float32, 48*48))
	if err == nil || !strings.Contains(err.Error(), "closed") {
		t.Errorf("Predict() after Close error = %v, want closed", err)
	}
}

func TestONNXBackend_PredictCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (&ONNXBackend{}).Predict(ctx, nil); err != context.Canceled {
		t.Errorf("Predict() error = %v, want context.Canceled", err)
	}
}

// TestONNXBackend_Runtime needs onnxruntime and a 48x48 model with its
// metadata file next to it:
//
//	ONNXRUNTIME_SHARED_LIBRARY=/usr/lib/libonnxruntime.so \
//	EMOTION_DETECTOR_TEST_MODEL=models/emotion_model.onnx go test ./...
func TestONNXBackend_Runtime(t *testing.T) {
	lib := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY")
	model := os.Getenv("EMOTION_DETECTOR_TEST_MODEL")
	if lib == "" || model == "" {
		t.Skip("ONNXRUNTIME_SHARED_LIBRARY and EMOTION_DETECTOR_TEST_MODEL not set")
	}
	for _, p := range []string{lib, model, DefaultMetadataPath(model)} {
		if _, err := os.Stat(p); err != nil {
			t.Skipf("%s: %v", p, err)
		}
	}

	h := Load(context.Background(), Config{
		Backend:           BackendONNX,
		ModelPath:         model,
		SharedLibraryPath: lib,
	}, nil)
	if !h.Loaded() {
		t.Fatalf("Load() unavailable: %s", h.Reason())
	}
	b := h.Backend()

	_, err := b.Predict(context.Background(), make([]float32, 10))
	if err == nil || !strings.Contains(err.Error(), "model expects") {
		t.Errorf("Predict(short input) error = %v, want length mismatch", err)
	}

	probs, err := b.Predict(context.Background(), make([]float32, 48*48))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(probs) != 7 {
		t.Errorf("len(probs) = %d, want 7", len(probs))
	}

	if err := h.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := b.Predict(context.Background(), make([]float32, 48*48)); err == nil {
		t.Error("Predict() after Close should fail")
	}
}
