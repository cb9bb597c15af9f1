package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"emotion-detector/domain/emotion"
	"emotion-detector/infrastructure/logging"
)

// RemoteConfig configures a RemoteBackend.
type RemoteConfig struct {
	BaseURL       string
	Timeout       time.Duration
	HealthTimeout time.Duration
	Logger        *slog.Logger
}

// RemoteBackend sends tensors to a FER inference server over HTTP.
type RemoteBackend struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type predictRequest struct {
	Image []float32 `json:"image"`
}

type predictResponse struct {
	Class       string             `json:"class"`
	Confidence  float32            `json:"confidence"`
	Predictions map[string]float32 `json:"predictions"`
}

// NewRemoteBackend checks GET {BaseURL}/health once and returns a backend only
// if the server answered 200.
func NewRemoteBackend(ctx context.Context, cfg RemoteConfig) (*RemoteBackend, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("no remote URL configured")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = 3 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &RemoteBackend{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	if err := b.checkHealth(ctx, cfg.HealthTimeout); err != nil {
		return nil, err
	}
	b.logger.Debug("Inference server healthy", "url", b.baseURL)
	return b, nil
}

func (b *RemoteBackend) checkHealth(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference server unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (b *RemoteBackend) Name() string { return BackendRemote }

// Predict posts the tensor and reorders the returned per-class scores into
// label order. Every label must be present in the response.
func (b *RemoteBackend) Predict(ctx context.Context, input []float32) ([]float32, error) {
	body, err := json.Marshal(predictRequest{Image: input})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var pr predictResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	labels := emotion.Labels()
	probs := make([]float32, len(labels))
	for i, l := range labels {
		p, ok := pr.Predictions[l.String()]
		if !ok {
			return nil, fmt.Errorf("response has no score for %q", l)
		}
		probs[i] = p
	}

	logging.From(ctx).Debug("Remote prediction",
		"class", pr.Class, "confidence", pr.Confidence, "duration", time.Since(start))
	return probs, nil
}

// Close releases idle connections.
func (b *RemoteBackend) Close() error {
	b.httpClient.CloseIdleConnections()
	return nil
}

var _ Backend = (*RemoteBackend)(nil)
