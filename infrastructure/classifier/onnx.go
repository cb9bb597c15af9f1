package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"emotion-detector/infrastructure/logging"
)

// ONNXConfig configures an ONNXBackend.
type ONNXConfig struct {
	ModelPath         string
	Metadata          *Metadata
	SharedLibraryPath string
	Logger            *slog.Logger
}

// ONNXBackend runs a local ONNX model through onnxruntime with input and
// output tensors bound once at load time.
type ONNXBackend struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	meta         *Metadata
	ownsEnv      bool
	logger       *slog.Logger
}

// NewONNXBackend initializes the onnxruntime environment (if needed) and
// creates a session for cfg.ModelPath.
func NewONNXBackend(cfg ONNXConfig) (*ONNXBackend, error) {
	if cfg.Metadata == nil {
		return nil, fmt.Errorf("onnx backend requires metadata")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ownsEnv := false
	if !ort.IsInitialized() {
		if cfg.SharedLibraryPath != "" {
			ort.SetSharedLibraryPath(cfg.SharedLibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
		ownsEnv = true
	}

	b := &ONNXBackend{meta: cfg.Metadata, ownsEnv: ownsEnv, logger: logger}
	if err := b.bind(cfg.ModelPath); err != nil {
		b.Close()
		return nil, err
	}

	logger.Debug("ONNX session created",
		"model", cfg.ModelPath,
		"input_shape", cfg.Metadata.InputShape,
		"output_shape", cfg.Metadata.OutputShape)
	return b, nil
}

func (b *ONNXBackend) bind(modelPath string) error {
	var err error
	b.inputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(b.meta.InputShape...))
	if err != nil {
		return fmt.Errorf("create input tensor: %w", err)
	}
	b.outputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(b.meta.OutputShape...))
	if err != nil {
		return fmt.Errorf("create output tensor: %w", err)
	}
	b.session, err = ort.NewAdvancedSession(modelPath,
		[]string{b.meta.InputName}, []string{b.meta.OutputName},
		[]ort.ArbitraryTensor{b.inputTensor}, []ort.ArbitraryTensor{b.outputTensor},
		nil)
	if err != nil {
		return fmt.Errorf("create onnx session: %w", err)
	}
	return nil
}

func (b *ONNXBackend) Name() string { return BackendONNX }

// Predict copies input into the bound tensor and runs the session.
// Calls are serialized because the tensors are shared.
func (b *ONNXBackend) Predict(ctx context.Context, input []float32) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return nil, fmt.Errorf("onnx backend is closed")
	}
	dst := b.inputTensor.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("input has %d values, model expects %d", len(input), len(dst))
	}
	copy(dst, input)

	start := time.Now()
	if err := b.session.Run(); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	logging.From(ctx).Debug("ONNX inference", "duration", time.Since(start))

	out := b.outputTensor.GetData()
	probs := make([]float32, len(out))
	copy(probs, out)
	return probs, nil
}

// Close destroys the session, both tensors and, if this backend created it,
// the onnxruntime environment.
func (b *ONNXBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if b.session != nil {
		keep(b.session.Destroy())
		b.session = nil
	}
	if b.inputTensor != nil {
		keep(b.inputTensor.Destroy())
		b.inputTensor = nil
	}
	if b.outputTensor != nil {
		keep(b.outputTensor.Destroy())
		b.outputTensor = nil
	}
	if b.ownsEnv {
		keep(ort.DestroyEnvironment())
		b.ownsEnv = false
	}
	return firstErr
}

var _ Backend = (*ONNXBackend)(nil)
