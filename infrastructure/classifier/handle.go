package classifier

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"emotion-detector/infrastructure/imageproc"
)

// Status is the outcome of model loading.
type Status int

const (
	StatusUnavailable Status = iota
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "Loaded"
	case StatusUnavailable:
		return "Unavailable"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Handle is either Loaded with a Backend or Unavailable with a reason.
type Handle struct {
	status  Status
	backend Backend
	name    string
	reason  string
}

// NewLoadedHandle wraps a ready backend.
func NewLoadedHandle(b Backend) Handle {
	return Handle{status: StatusLoaded, backend: b, name: b.Name()}
}

// NewUnavailableHandle records why the named backend could not be loaded.
func NewUnavailableHandle(name, reason string) Handle {
	return Handle{status: StatusUnavailable, name: name, reason: reason}
}

func (h Handle) Status() Status { return h.status }

func (h Handle) Loaded() bool { return h.status == StatusLoaded }

// Backend returns the loaded backend, or nil when unavailable.
func (h Handle) Backend() Backend { return h.backend }

// BackendName returns the configured backend name.
func (h Handle) BackendName() string { return h.name }

// Reason explains an unavailable handle. Empty when loaded.
func (h Handle) Reason() string { return h.reason }

// Close releases the backend, if any.
func (h Handle) Close() error {
	if h.backend == nil {
		return nil
	}
	return h.backend.Close()
}

// Config selects and configures the model backend.
type Config struct {
	// Backend is "onnx", "remote" or "none".
	Backend string
	// ModelPath is the ONNX model file.
	ModelPath string
	// MetadataPath is the JSON metadata next to the model.
	// If empty, ModelPath with a .json extension is used.
	MetadataPath string
	// SharedLibraryPath points at the onnxruntime shared library.
	// If empty, the platform default search is used.
	SharedLibraryPath string
	// RemoteURL is the base URL of a FER inference server.
	RemoteURL string
	// Timeout bounds each remote request.
	Timeout time.Duration
	// ImageSize is the side length of the tensors the preprocessor produces.
	// Zero means imageproc.DefaultSize.
	ImageSize int
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendONNX,
		ModelPath: "models/emotion_model.onnx",
		Timeout:   10 * time.Second,
	}
}

// Load initializes the configured backend. It never fails: any problem is
// reported as an Unavailable handle carrying the reason.
func Load(ctx context.Context, cfg Config, logger *slog.Logger) Handle {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "classifier", "backend", cfg.Backend)

	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case BackendNone:
		err = errors.New("model disabled by configuration")
	case BackendONNX, "":
		cfg.Backend = BackendONNX
		b, err = loadONNX(cfg, logger)
	case BackendRemote:
		b, err = NewRemoteBackend(ctx, RemoteConfig{
			BaseURL: cfg.RemoteURL,
			Timeout: cfg.Timeout,
			Logger:  logger,
		})
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if err != nil {
		logger.Warn("Model unavailable, running in demo mode", "error", err)
		return NewUnavailableHandle(cfg.Backend, err.Error())
	}

	logger.Info("Model loaded")
	return NewLoadedHandle(b)
}

func loadONNX(cfg Config, logger *slog.Logger) (Backend, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("no model path configured")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model file not found: %s", cfg.ModelPath)
		}
		return nil, fmt.Errorf("stat model: %w", err)
	}

	metaPath := cfg.MetadataPath
	if metaPath == "" {
		metaPath = DefaultMetadataPath(cfg.ModelPath)
	}
	meta, err := LoadMetadata(metaPath)
	if err != nil {
		return nil, err
	}
	size := cfg.ImageSize
	if size <= 0 {
		size = imageproc.DefaultSize
	}
	if meta.ImageSize != size {
		return nil, fmt.Errorf("model expects %dx%d input, preprocessor produces %dx%d",
			meta.ImageSize, meta.ImageSize, size, size)
	}

	return NewONNXBackend(ONNXConfig{
		ModelPath:         cfg.ModelPath,
		Metadata:          meta,
		SharedLibraryPath: cfg.SharedLibraryPath,
		Logger:            logger,
	})
}
